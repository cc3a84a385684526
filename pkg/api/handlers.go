package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/JayJamieson/sports-api/pkg/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var _ ServerInterface = (*Server)(nil)

// ListPrograms implements ServerInterface.
func (h *Server) ListPrograms(ctx echo.Context, params ListProgramsParams) error {
	reqCtx := ctx.Request().Context()

	query := service.ProgramQuery{
		Region:   params.Region,
		Time:     params.Time,
		Days:     params.Days,
		Target:   params.Target,
		Sport:    params.Sport,
		Search:   params.Search,
		Facility: params.Facility,
		Page:     params.Page,
		Limit:    params.Limit,
	}.Normalize()

	page, err := h.programs.Query(reqCtx, query)
	if err != nil {
		if h.config.App.StrictErrors {
			return serviceErrorResponse(ctx, err)
		}

		h.logServiceError(ctx, service.DatasetPrograms, err)
		return ctx.JSON(http.StatusOK, ProgramsResponse{
			Page:  query.Page,
			Limit: query.Limit,
			Data:  []ProgramRecord{},
		})
	}

	data := make([]ProgramRecord, len(page.Records))
	for i, rec := range page.Records {
		data[i] = ProgramRecord(rec)
	}

	return ctx.JSON(http.StatusOK, ProgramsResponse{
		Page:       page.Page,
		Limit:      page.Limit,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages(),
		Data:       data,
	})
}

// ListFacilities implements ServerInterface.
func (h *Server) ListFacilities(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	facilities, err := h.facilities.List(reqCtx)
	if err != nil {
		if h.config.App.StrictErrors {
			return serviceErrorResponse(ctx, err)
		}

		h.logServiceError(ctx, service.DatasetFacilities, err)
		return ctx.JSON(http.StatusOK, FacilitiesResponse{Data: []Facility{}})
	}

	data := make([]Facility, len(facilities))
	for i, f := range facilities {
		data[i] = Facility{
			Name:      f.Name,
			Latitude:  f.Latitude,
			Longitude: f.Longitude,
			Type:      f.Type,
			Address:   f.Address,
		}
	}

	return ctx.JSON(http.StatusOK, FacilitiesResponse{Data: data})
}

func (h *Server) logServiceError(ctx echo.Context, dataset string, err error) {
	fields := logrus.Fields{
		"dataset":    dataset,
		"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
		"path":       ctx.Request().URL.Path,
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		fields["kind"] = svcErr.Kind
		if svcErr.Field != "" {
			fields["field"] = svcErr.Field
		}
	}

	h.log.WithFields(fields).WithError(err).Warn("query failed, returning empty result")
}

func serviceErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidParameter):
		return createErrorResponse(c, http.StatusBadRequest, "Invalid parameter", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return createErrorResponse(c, http.StatusNotFound, "Resource not found", err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		return createErrorResponse(c, http.StatusServiceUnavailable, "Storage unavailable", err.Error())
	default:
		return createErrorResponse(c, http.StatusInternalServerError, "Query error", err.Error())
	}
}

func createErrorResponse(c echo.Context, status int, error string, message string) error {
	resp := ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Error:     error,
		Message:   message,
	}
	return c.JSON(status, resp)
}
