/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package search serves the employee search API.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/acronis/go-hrsearch/httpserver/middleware"
	"github.com/acronis/go-hrsearch/internal/directory"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/restapi"
)

// ErrDomain is the domain of the search API errors.
const ErrDomain = "HRSearch"

// ErrCodeOrganizationNotFound is returned when the organization has no display columns.
const ErrCodeOrganizationNotFound = "organizationNotFound"

// Query parameters of the search endpoint.
const (
	QueryParamOrganizationID = "organization_id"
	QueryParamName           = "name"
	QueryParamDepartment     = "department"
	QueryParamLocation       = "location"
	QueryParamPosition       = "position"
	QueryParamStatus         = "status"
)

const timeSlotSearch = "search_ms"

// Response is the body of a successful search.
type Response struct {
	Employees []directory.Row `json:"employees"`
}

// Handler serves GET /search.
type Handler struct {
	store   directory.Store
	columns directory.OrganizationColumns
}

// NewHandler creates a new search Handler.
func NewHandler(store directory.Store, columns directory.OrganizationColumns) *Handler {
	return &Handler{store: store, columns: columns}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		restapi.RespondMalformedRequestError(rw, ErrDomain,
			restapi.NewMalformedRequestError(http.StatusBadRequest, "Invalid query string."), logger)
		return
	}
	q := queryFromValues(values)

	columns := h.columns.Columns(q.OrganizationID)
	if columns == nil {
		restapi.RespondError(rw, http.StatusNotFound, restapi.NewError(ErrDomain, ErrCodeOrganizationNotFound,
			fmt.Sprintf("Organization '%s' not found or no display columns configured.", q.OrganizationID)), logger)
		return
	}

	startTime := time.Now()
	employees, err := h.store.Search(r.Context(), q)
	if lp := middleware.GetLoggingParamsFromContext(r.Context()); lp != nil {
		lp.AddTimeSlot(timeSlotSearch, time.Since(startTime))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			if logger != nil {
				logger.Warn("search is canceled by client")
			}
			return
		}
		if logger != nil {
			logger.Error("employee search failed", log.Error(err), log.String("organization_id", q.OrganizationID))
		}
		restapi.RespondInternalError(rw, ErrDomain, logger)
		return
	}

	rows := make([]directory.Row, 0, len(employees))
	for i := range employees {
		rows = append(rows, directory.Project(&employees[i], columns))
	}
	restapi.RespondJSON(rw, &Response{Employees: rows}, logger)
}

func queryFromValues(values url.Values) directory.Query {
	return directory.Query{
		OrganizationID: values.Get(QueryParamOrganizationID),
		Name:           values.Get(QueryParamName),
		Department:     values.Get(QueryParamDepartment),
		Location:       values.Get(QueryParamLocation),
		Position:       values.Get(QueryParamPosition),
		Statuses:       values[QueryParamStatus],
	}
}
