/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/acronis/go-hrsearch/httpserver"
	"github.com/acronis/go-hrsearch/httpserver/middleware"
	"github.com/acronis/go-hrsearch/internal/directory"
	"github.com/acronis/go-hrsearch/internal/ratelimit"
	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/log/logtest"
	"github.com/acronis/go-hrsearch/restapi"
	"github.com/acronis/go-hrsearch/testutil"
)

const (
	testLimit  = 5
	testWindow = time.Minute
)

type SearchTestSuite struct {
	suite.Suite
	clock   *ratelimit.ManualClock
	limiter *ratelimit.SlidingWindowLog
	router  http.Handler
}

func TestSearch(t *testing.T) {
	suite.Run(t, new(SearchTestSuite))
}

func (s *SearchTestSuite) SetupTest() {
	store, err := directory.NewMemoryStore(directory.SampleEmployees())
	s.Require().NoError(err)
	s.clock = ratelimit.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s.limiter, err = ratelimit.NewSlidingWindowLog(testLimit, testWindow, ratelimit.WithClock(s.clock))
	s.Require().NoError(err)
	s.router = httpserver.NewRouter(logtest.NewRecorder(), httpserver.RouterOpts{
		ErrorDomain: ErrDomain,
		APIRoutes: []httpserver.APIRoute{Routes(RoutesOpts{
			Store:           store,
			Columns:         directory.DefaultOrganizationColumns(),
			Limiter:         s.limiter,
			Rate:            ratelimit.Rate{Count: testLimit, Duration: testWindow},
			ClientKeyHeader: ratelimit.DefaultClientKeyHeader,
		})},
	})
}

func (s *SearchTestSuite) search(rawQuery string, clientKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, Path+"?"+rawQuery, nil)
	if clientKey != "" {
		req.Header.Set(ratelimit.DefaultClientKeyHeader, clientKey)
	}
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)
	return resp
}

func (s *SearchTestSuite) searchOK(rawQuery string) []map[string]interface{} {
	resp := s.search(rawQuery, "")
	s.Require().Equal(http.StatusOK, resp.Code, resp.Body.String())
	s.Require().Equal(restapi.ContentTypeAppJSON, resp.Header().Get("Content-Type"))
	var body struct {
		Employees []map[string]interface{} `json:"employees"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &body))
	s.Require().NotNil(body.Employees)
	// Each request spends the quota of the shared peer address.
	s.clock.Advance(testWindow)
	return body.Employees
}

func requireColumns(t require.TestingT, employees []map[string]interface{}, want []string) {
	for _, emp := range employees {
		require.Len(t, emp, len(want))
		for _, col := range want {
			require.Contains(t, emp, col)
		}
	}
}

func (s *SearchTestSuite) TestSearchByOrganization() {
	employees := s.searchOK("organization_id=org_a")
	s.Require().Len(employees, 5)
	requireColumns(s.T(), employees, []string{
		"id", "first_name", "last_name", "email", "phone", "department", "position", "location", "status"})
	for _, emp := range employees {
		s.Require().Contains([]interface{}{"Active", "Not started", "Terminated"}, emp["status"])
	}

	employees = s.searchOK("organization_id=org_b")
	s.Require().Len(employees, 3)
	requireColumns(s.T(), employees, []string{"first_name", "last_name", "department", "location", "position", "status"})
	for _, emp := range employees {
		s.Require().NotContains(emp, "id")
	}

	employees = s.searchOK("organization_id=org_c")
	s.Require().Len(employees, 0)
}

func (s *SearchTestSuite) TestColumnOrder() {
	resp := s.search("organization_id=org_b&name=Frank", "")
	s.Require().Equal(http.StatusOK, resp.Code)
	s.Require().Equal(`{"employees":[{"first_name":"Frank","last_name":"White","department":"Engineering",`+
		`"location":"London","position":"DevOps Engineer","status":"Active"}]}`, resp.Body.String())
}

func (s *SearchTestSuite) TestNonExistentOrganization() {
	resp := s.search("organization_id=non_existent_org", "")
	errResp := testutil.RequireErrorInRecorder(s.T(), resp, http.StatusNotFound, ErrDomain, ErrCodeOrganizationNotFound)
	s.Require().Equal("Organization 'non_existent_org' not found or no display columns configured.", errResp.Message)
}

func (s *SearchTestSuite) TestOrganizationIDIsCaseInsensitive() {
	employees := s.searchOK("organization_id=ORG_B")
	s.Require().Len(employees, 3)
	requireColumns(s.T(), employees, []string{"first_name", "last_name", "department", "location", "position", "status"})
}

func (s *SearchTestSuite) TestSearchByName() {
	tests := []struct {
		name          string
		wantFirstName string
		wantLastName  string
	}{
		{name: "Alice", wantFirstName: "Alice", wantLastName: "Smith"},
		{name: "Johnson", wantFirstName: "Bob", wantLastName: "Johnson"},
		{name: "Charlie Brown", wantFirstName: "Charlie", wantLastName: "Brown"},
		{name: "charlie b", wantFirstName: "Charlie", wantLastName: "Brown"},
	}
	for _, tt := range tests {
		employees := s.searchOK("organization_id=org_a&name=" + url.QueryEscape(tt.name))
		s.Require().Len(employees, 1, tt.name)
		s.Require().Equal(tt.wantFirstName, employees[0]["first_name"])
		s.Require().Equal(tt.wantLastName, employees[0]["last_name"])
	}

	s.Require().Len(s.searchOK("organization_id=org_a&name=NonExistent"), 0)
}

func (s *SearchTestSuite) TestSearchByDepartmentAndLocation() {
	employees := s.searchOK("organization_id=org_a&department=Engineering&location=New+York")
	s.Require().Len(employees, 1)
	s.Require().Equal("Alice", employees[0]["first_name"])

	employees = s.searchOK("organization_id=org_a&department=engineering")
	s.Require().Len(employees, 2)

	employees = s.searchOK("organization_id=org_a&position=hr+manager")
	s.Require().Len(employees, 1)
	s.Require().Equal("Bob", employees[0]["first_name"])
}

func (s *SearchTestSuite) TestSearchByStatus() {
	employees := s.searchOK("organization_id=org_a&status=Terminated")
	s.Require().Len(employees, 1)
	s.Require().Equal("Eve", employees[0]["first_name"])
	s.Require().Equal("Terminated", employees[0]["status"])

	s.Require().Len(s.searchOK("organization_id=org_a&status=Active"), 3)
	s.Require().Len(s.searchOK("organization_id=org_a&status=active"), 3)

	employees = s.searchOK("organization_id=org_a&status=Active&status=Not+started")
	s.Require().Len(employees, 4)
	statuses := make(map[interface{}]bool)
	for _, emp := range employees {
		statuses[emp["status"]] = true
	}
	s.Require().True(statuses["Active"])
	s.Require().True(statuses["Not started"])
	s.Require().False(statuses["Terminated"])
}

func (s *SearchTestSuite) TestNoDataLeakBetweenOrganizations() {
	s.Require().Len(s.searchOK("organization_id=org_a&name=Frank+White"), 0)

	employees := s.searchOK("organization_id=org_b&name=Frank+White")
	s.Require().Len(employees, 1)
	s.Require().Equal("Frank", employees[0]["first_name"])
	s.Require().Equal("White", employees[0]["last_name"])
}

func (s *SearchTestSuite) TestMissingOrganizationID() {
	for i := 0; i < testLimit+1; i++ {
		resp := s.search("name=Alice", "validation_client")
		errResp := testutil.RequireErrorInRecorder(s.T(), resp, http.StatusUnprocessableEntity, ErrDomain, restapi.ErrCodeUnprocessableEntity)
		s.Require().Contains(errResp.Message, "Field required")
		s.Require().Contains(errResp.Message, QueryParamOrganizationID)
	}
	// Rejected requests do not consume the quota.
	s.Require().True(s.limiter.CheckLimit("validation_client"))
}

func (s *SearchTestSuite) TestInvalidQueryString() {
	resp := s.search("organization_id=org_a&name=%zz", "")
	testutil.RequireErrorInRecorder(s.T(), resp, http.StatusBadRequest, ErrDomain, "badRequest")
}

func (s *SearchTestSuite) TestRateLimiting() {
	const clientKey = "single_test_client"
	for i := 0; i < testLimit; i++ {
		resp := s.search("organization_id=org_a", clientKey)
		s.Require().Equal(http.StatusOK, resp.Code, "request #%d", i+1)
		s.clock.Advance(time.Second)
	}

	resp := s.search("organization_id=org_a", clientKey)
	errResp := testutil.RequireErrorInRecorder(s.T(), resp, http.StatusTooManyRequests, ErrDomain, restapi.ErrCodeTooManyRequests)
	s.Require().Equal("Too many requests. Please try again after 60 seconds. Limit is 5 requests per 60 seconds.", errResp.Message)
	// The oldest request was made 5 seconds ago and is still counted when it is exactly on the window boundary.
	s.Require().Equal("56", resp.Header().Get("Retry-After"))

	s.clock.Advance(55 * time.Second)
	resp = s.search("organization_id=org_a", clientKey)
	s.Require().Equal(http.StatusTooManyRequests, resp.Code)

	// Rejected requests are not recorded, so the client is admitted once the oldest request leaves the window.
	s.clock.Advance(time.Second)
	resp = s.search("organization_id=org_a", clientKey)
	s.Require().Equal(http.StatusOK, resp.Code)
}

func (s *SearchTestSuite) TestRateLimitingDifferentClients() {
	for i := 0; i < testLimit; i++ {
		resp := s.search("organization_id=org_a", "client_one_unique_id")
		s.Require().Equal(http.StatusOK, resp.Code, "client one request #%d", i+1)
	}

	resp := s.search("organization_id=org_a", "client_two_unique_id")
	s.Require().Equal(http.StatusOK, resp.Code)

	resp = s.search("organization_id=org_a", "client_one_unique_id")
	s.Require().Equal(http.StatusTooManyRequests, resp.Code)
}

func (s *SearchTestSuite) TestRateLimitingByPeerAddress() {
	for i := 0; i < testLimit; i++ {
		req := httptest.NewRequest(http.MethodGet, Path+"?organization_id=org_b", nil)
		req.RemoteAddr = "10.0.0.1:" + strconv.Itoa(40000+i)
		resp := httptest.NewRecorder()
		s.router.ServeHTTP(resp, req)
		s.Require().Equal(http.StatusOK, resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, Path+"?organization_id=org_b", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)
	s.Require().Equal(http.StatusTooManyRequests, resp.Code)
	s.Require().False(s.limiter.CheckLimit("10.0.0.1"))
}

type failingStore struct {
	err error
}

func (fs failingStore) Search(ctx context.Context, q directory.Query) ([]directory.Employee, error) {
	return nil, fs.err
}

func TestHandler_StoreError(t *testing.T) {
	handler := NewHandler(failingStore{errors.New("storage is unavailable")}, directory.DefaultOrganizationColumns())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, Path+"?organization_id=org_a", nil))
	testutil.RequireErrorInRecorder(t, resp, http.StatusInternalServerError, ErrDomain, restapi.ErrCodeInternal)
}

type panickingStore struct{}

func (panickingStore) Search(ctx context.Context, q directory.Query) ([]directory.Employee, error) {
	panic("employee index is corrupted")
}

func TestSearch_PanicInStore(t *testing.T) {
	logger := logtest.NewRecorder()
	limiter, err := ratelimit.NewSlidingWindowLog(1, testWindow)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Logging(logger), middleware.Recovery(ErrDomain))
	Routes(RoutesOpts{
		Store:           panickingStore{},
		Columns:         directory.DefaultOrganizationColumns(),
		Limiter:         limiter,
		Rate:            ratelimit.Rate{Count: 1, Duration: testWindow},
		ClientKeyHeader: ratelimit.DefaultClientKeyHeader,
	})(router)

	req := httptest.NewRequest(http.MethodGet, Path+"?organization_id=org_a", nil)
	req.Header.Set(ratelimit.DefaultClientKeyHeader, "10.0.0.1")
	resp := httptest.NewRecorder()
	require.NotPanics(t, func() { router.ServeHTTP(resp, req) })
	testutil.RequireErrorInRecorder(t, resp, http.StatusInternalServerError, ErrDomain, restapi.ErrCodeInternal)

	entry, found := logger.FindEntry("Panic: employee index is corrupted")
	require.True(t, found)
	require.Equal(t, log.LevelError, entry.Level)

	// The request was admitted before the store panicked, so it still counts.
	require.False(t, limiter.CheckLimit("10.0.0.1"))
}
