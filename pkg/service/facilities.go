package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/JayJamieson/sports-api/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Facility table columns, in projection order.
const (
	ColumnFacilityLatitude  = "FCLTY_LA"
	ColumnFacilityLongitude = "FCLTY_LO"
	ColumnFacilityType      = "INDUTY_NM"
	ColumnFacilityAddress   = "RDNMADR_NM"
)

var FacilityColumns = []string{
	ColumnFacility,
	ColumnFacilityLatitude,
	ColumnFacilityLongitude,
	ColumnFacilityType,
	ColumnFacilityAddress,
}

type FacilityListingService struct {
	source db.Source
	log    *logrus.Logger
}

func NewFacilityListingService(source db.Source, log *logrus.Logger) *FacilityListingService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FacilityListingService{source: source, log: log}
}

// List returns every facility projected to the fixed column set, with
// missing values as nil.
func (s *FacilityListingService) List(ctx context.Context) ([]models.FacilityRecord, error) {
	table, err := s.source.Load(ctx, DatasetFacilities)
	if err != nil {
		return nil, loadError(DatasetFacilities, err)
	}

	for _, col := range FacilityColumns {
		if err := requireColumn(table, DatasetFacilities, col); err != nil {
			return nil, err
		}
	}

	facilities := make([]models.FacilityRecord, 0, table.Len())
	for _, row := range table.Rows {
		facilities = append(facilities, models.FacilityRecord{
			Name:      textValue(table.Value(row, ColumnFacility)),
			Latitude:  floatValue(table.Value(row, ColumnFacilityLatitude)),
			Longitude: floatValue(table.Value(row, ColumnFacilityLongitude)),
			Type:      textValue(table.Value(row, ColumnFacilityType)),
			Address:   textValue(table.Value(row, ColumnFacilityAddress)),
		})
	}

	s.log.WithFields(logrus.Fields{
		"dataset": DatasetFacilities,
		"rows":    len(facilities),
	}).Debug("facilities listed")

	return facilities, nil
}

// missingMarkers are cell texts that mean "no value" in the public datasets.
var missingMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"none": {},
	"na":   {},
	"n/a":  {},
	"-":    {},
}

func isMissingText(s string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// textValue returns nil for NULL, NaN, blank and marker cells.
func textValue(v any) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(val) {
			return nil
		}
	case string:
		if isMissingText(val) {
			return nil
		}
		return &val
	}
	s := fmt.Sprintf("%v", v)
	return &s
}

// floatValue returns nil for anything that is not a finite number.
func floatValue(v any) *float64 {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
		if v == "" {
			return nil
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		// decimals and other driver types
		f, err = cast.ToFloat64E(fmt.Sprintf("%v", v))
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
