package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/repository"
	"github.com/talentvote/backend/internal/service"
)

type HandlersSuite struct {
	suite.Suite
	e        *echo.Echo
	services service.Services
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupTest() {
	cfg := dto.Config{
		AdminUsername: "admin",
		StaticDir:     s.T().TempDir(),
	}
	repositories := repository.NewMemoryRepositories()
	s.services = service.NewServices(repositories, cfg)

	s.e = echo.New()
	NewControllers(s.services, repositories, cfg).Route(s.e)
}

func (s *HandlersSuite) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersSuite) login(username string) {
	rec := s.request(http.MethodPost, "/api/login", `{"username":"`+username+`"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) addEntrant(name, category string) string {
	entrant, err := s.services.Admin().AddEntrant(context.Background(), name, category, "")
	s.Require().NoError(err)
	return entrant.ID
}

func (s *HandlersSuite) TestLogin() {
	rec := s.request(http.MethodPost, "/api/login", `{"username":"admin"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var response dto.LoginResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("admin", response.Username)
	s.Equal("admin", response.Role)

	rec = s.request(http.MethodPost, "/api/login", `{"username":"alice"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("public", response.Role)
}

func (s *HandlersSuite) TestLoginEmptyUsername() {
	rec := s.request(http.MethodPost, "/api/login", `{"username":""}`, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestVoteFlow() {
	entrantID := s.addEntrant("Ana", "Dance")

	rec := s.request(http.MethodPost, "/api/public/vote",
		`{"user_id":"u1","contestant_id":"`+entrantID+`"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(float64(1), response["new_total_votes"])
	s.Equal(float64(1), response["system_total"])

	rec = s.request(http.MethodPost, "/api/public/vote",
		`{"user_id":"u1","contestant_id":"`+entrantID+`"}`, nil)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlersSuite) TestVoteUnknownContestant() {
	rec := s.request(http.MethodPost, "/api/public/vote",
		`{"user_id":"u1","contestant_id":"missing"}`, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlersSuite) TestVoteMissingFields() {
	rec := s.request(http.MethodPost, "/api/public/vote", `{"user_id":"u1"}`, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestPublicContestants() {
	s.addEntrant("Ana", "Dance")

	rec := s.request(http.MethodGet, "/api/public/contestants", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var views []dto.EntrantPublicView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &views))
	s.Require().Len(views, 1)
	s.Equal("Ana", views[0].Name)
}

func (s *HandlersSuite) TestAdminGate() {
	s.login("admin")
	s.login("alice")

	rec := s.request(http.MethodGet, "/api/admin/dashboard", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.request(http.MethodGet, "/api/admin/dashboard", "",
		map[string]string{userIDHeader: "nobody"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.request(http.MethodGet, "/api/admin/dashboard", "",
		map[string]string{userIDHeader: "alice"})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.request(http.MethodGet, "/api/admin/dashboard", "",
		map[string]string{userIDHeader: "admin"})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlersSuite) TestLoadInitialData() {
	s.login("admin")

	body := `[{"nombre":"Ana","categoria":"Dance"},{"name":"Luis","category":"Song"},{"name":"Invalid"}]`
	rec := s.request(http.MethodPost, "/api/admin/load-initial-data", body,
		map[string]string{userIDHeader: "admin"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(float64(2), response["count"])

	rec = s.request(http.MethodGet, "/api/admin/dashboard", "",
		map[string]string{userIDHeader: "admin"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var views []dto.EntrantAdminView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &views))
	s.Require().Len(views, 2)
	for _, view := range views {
		s.Zero(view.TotalVotes)
	}
}

func (s *HandlersSuite) TestReports() {
	s.login("admin")
	a := s.addEntrant("A", "Dance")
	s.addEntrant("B", "Song")

	rec := s.request(http.MethodPost, "/api/public/vote",
		`{"user_id":"u1","contestant_id":"`+a+`"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/api/admin/reports/top3", "",
		map[string]string{userIDHeader: "admin"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var top []dto.EntrantAdminView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &top))
	s.Require().NotEmpty(top)
	s.Equal("A", top[0].Name)

	rec = s.request(http.MethodGet, "/api/admin/reports/zeros", "",
		map[string]string{userIDHeader: "admin"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var zeros []dto.EntrantAdminView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &zeros))
	s.Require().Len(zeros, 1)
	s.Equal("B", zeros[0].Name)

	rec = s.request(http.MethodGet, "/api/admin/stats", "",
		map[string]string{userIDHeader: "admin"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var stats dto.DashboardStats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &stats))
	s.Equal(int64(1), stats.TotalVotesSystem)
}
