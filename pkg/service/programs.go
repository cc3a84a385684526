package service

import (
	"context"
	"fmt"

	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/JayJamieson/sports-api/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	DatasetPrograms   = "programs"
	DatasetFacilities = "facilities"

	DefaultPage  = 1
	DefaultLimit = 20
)

// ProgramQuery holds the optional filters and the requested page.
type ProgramQuery struct {
	Region   string   `query:"region" validate:"max=200"`
	Time     string   `query:"time" validate:"max=200"`
	Days     []string `query:"days" validate:"dive,required,max=200"`
	Target   string   `query:"target" validate:"max=200"`
	Sport    string   `query:"sport" validate:"max=200"`
	Search   string   `query:"search" validate:"max=200"`
	Facility string   `query:"facility" validate:"max=200"`
	Page     int      `query:"page" validate:"gte=1"`
	Limit    int      `query:"limit" validate:"gte=1"`
}

// Normalize applies the page and limit defaults to non-positive values.
func (q ProgramQuery) Normalize() ProgramQuery {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// ProgramPage is one page of the filtered program set.
type ProgramPage struct {
	Records    []models.ProgramRecord
	TotalCount int
	Page       int
	Limit      int
}

func (p *ProgramPage) TotalPages() int {
	return TotalPages(p.TotalCount, p.Limit)
}

// ProgramOptions restricts which columns the time and days filters may name.
// An empty list allows any non-reserved column of the table.
type ProgramOptions struct {
	TimeColumns []string
	DayColumns  []string
}

type ProgramQueryService struct {
	source      db.Source
	validator   *QueryValidator
	timeColumns map[string]struct{}
	dayColumns  map[string]struct{}
	log         *logrus.Logger
}

func NewProgramQueryService(source db.Source, log *logrus.Logger, opts ProgramOptions) *ProgramQueryService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ProgramQueryService{
		source:      source,
		validator:   NewQueryValidator(),
		timeColumns: toSet(opts.TimeColumns),
		dayColumns:  toSet(opts.DayColumns),
		log:         log,
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Query loads the programs table, filters it and slices out the requested
// page. On failure the returned error is an *Error.
func (s *ProgramQueryService) Query(ctx context.Context, q ProgramQuery) (*ProgramPage, error) {
	q = q.Normalize()
	if err := s.validator.Validate(q); err != nil {
		return nil, err
	}

	table, err := s.source.Load(ctx, DatasetPrograms)
	if err != nil {
		return nil, loadError(DatasetPrograms, err)
	}

	filtered, err := s.filter(table, q)
	if err != nil {
		return nil, err
	}

	paged := paginate(filtered, q.Page, q.Limit)
	records := make([]models.ProgramRecord, len(paged))
	for i, row := range paged {
		records[i] = models.ProgramRecord(table.Object(row))
	}

	s.log.WithFields(logrus.Fields{
		"dataset":     DatasetPrograms,
		"rows":        table.Len(),
		"total_count": len(filtered),
		"page":        q.Page,
		"limit":       q.Limit,
	}).Debug("programs queried")

	return &ProgramPage{
		Records:    records,
		TotalCount: len(filtered),
		Page:       q.Page,
		Limit:      q.Limit,
	}, nil
}

// filter applies region, time, days, target, sport, search and facility in
// that order.
func (s *ProgramQueryService) filter(t *db.Table, q ProgramQuery) ([][]any, error) {
	rows := t.Rows

	if q.Region != "" {
		if err := requireColumn(t, DatasetPrograms, ColumnRegion); err != nil {
			return nil, err
		}
		rows = filterRows(t, rows, equals(ColumnRegion, q.Region))
	}

	if q.Time != "" {
		if err := checkFilterColumn(t, "time", q.Time, s.timeColumns); err != nil {
			return nil, err
		}
		rows = filterRows(t, rows, isTrue(q.Time))
	}

	if len(q.Days) > 0 {
		for _, day := range q.Days {
			if err := checkFilterColumn(t, "days", day, s.dayColumns); err != nil {
				return nil, err
			}
		}
		rows = filterRows(t, rows, allTrue(q.Days))
	}

	if q.Target != "" && isTarget(q.Target) {
		if !t.HasColumn(q.Target) {
			return nil, unknownField("target", q.Target)
		}
		rows = filterRows(t, rows, isTrue(q.Target))
	}

	if q.Sport != "" {
		if err := requireColumn(t, DatasetPrograms, ColumnSport); err != nil {
			return nil, err
		}
		rows = filterRows(t, rows, equals(ColumnSport, q.Sport))
	}

	if q.Search != "" {
		rows = filterRows(t, rows, containsFold(q.Search, ColumnFacility, ColumnSport))
	}

	if q.Facility != "" {
		if err := requireColumn(t, DatasetPrograms, ColumnFacility); err != nil {
			return nil, err
		}
		rows = filterRows(t, rows, equals(ColumnFacility, q.Facility))
	}

	return rows, nil
}

// checkFilterColumn validates a column named by a query parameter value
// before it is looked up.
func checkFilterColumn(t *db.Table, field, column string, allowed map[string]struct{}) error {
	if _, reserved := reservedColumns[column]; reserved {
		return unknownField(field, column)
	}
	if len(allowed) > 0 {
		if _, ok := allowed[column]; !ok {
			return unknownField(field, column)
		}
	}
	if !t.HasColumn(column) {
		return unknownField(field, column)
	}
	return nil
}

func requireColumn(t *db.Table, dataset, column string) error {
	if t.HasColumn(column) {
		return nil
	}
	return &Error{
		Kind:    KindStorageUnavailable,
		Field:   column,
		Message: fmt.Sprintf("dataset %s has no column %s", dataset, column),
	}
}
