package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"libnet/internal/audit"
	circmetrics "libnet/internal/circulation/metrics"
	circservice "libnet/internal/circulation/service"
	circstore "libnet/internal/circulation/store"
	invservice "libnet/internal/inventory/service"
	invstore "libnet/internal/inventory/store"
	"libnet/internal/jwttoken"
	"libnet/internal/platform/config"
	"libnet/internal/readers"
	"libnet/internal/staff"
)

// HandlerSuite drives the whole stack through the router with in-memory
// stores: login, catalog setup, circulation, and the error envelope.
type HandlerSuite struct {
	suite.Suite
	server *httptest.Server

	adminToken       string
	coordinatorToken string
	libraryID        string
	titleID          string
	copyID           string
	readerID         string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	inventoryStore := invstore.NewInMemoryStore()
	readerStore := readers.NewInMemoryStore()
	staffStore := staff.NewInMemoryStore()
	loanStore := circstore.NewInMemoryStore(inventoryStore)
	auditSvc := audit.NewService(audit.NewInMemoryStore(), logger)

	registry := prometheus.NewRegistry()
	inventorySvc := invservice.NewService(inventoryStore, auditSvc, logger)
	readerSvc := readers.NewService(readerStore, auditSvc, logger)
	staffSvc := staff.NewService(staffStore, auditSvc, logger)
	circulationSvc := circservice.NewService(
		loanStore, inventoryStore, readerStore, auditSvc,
		circmetrics.New(registry), logger,
		config.LoanPeriod, config.MaxOpenLoansPerReader,
	)
	tokens := jwttoken.NewService("test-signing-key", "libnet-test")

	s.Require().NoError(staffSvc.Bootstrap(s.T().Context(), "Root", "root@example.com", "admin-password"))

	handler := NewHandler(inventorySvc, readerSvc, circulationSvc, staffSvc, auditSvc, tokens, logger)
	s.server = httptest.NewServer(handler.Routes(registry))
	s.T().Cleanup(s.server.Close)

	s.adminToken = s.login("root@example.com", "admin-password")
	s.seedFixtures()
}

func (s *HandlerSuite) do(method, path, token string, body any) (*http.Response, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (s *HandlerSuite) login(email, password string) string {
	resp, body := s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	s.Require().NotEmpty(token)
	return token
}

func (s *HandlerSuite) seedFixtures() {
	resp, body := s.do(http.MethodPost, "/libraries", s.adminToken, map[string]string{"name": "Central", "city": "Lisbon"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.libraryID = body["id"].(string)

	resp, body = s.do(http.MethodPost, "/titles", s.adminToken, map[string]string{
		"title": "Dom Casmurro", "author": "Machado de Assis",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.titleID = body["id"].(string)

	resp, _ = s.do(http.MethodPost, "/staff", s.adminToken, map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "coordinator-pw",
		"role": "local_coordinator", "library_id": s.libraryID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.coordinatorToken = s.login("ana@example.com", "coordinator-pw")

	resp, body = s.do(http.MethodPost, "/libraries/"+s.libraryID+"/copies", s.coordinatorToken, map[string]string{
		"title_id": s.titleID, "code": "C-001",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.copyID = body["id"].(string)

	resp, body = s.do(http.MethodPost, "/libraries/"+s.libraryID+"/readers", s.coordinatorToken, map[string]string{
		"name": "Capitu", "email": "capitu@example.com",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.readerID = body["id"].(string)
}

func (s *HandlerSuite) TestAuth() {
	s.Run("missing token is unauthorized", func() {
		resp, body := s.do(http.MethodGet, "/titles", "", nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
		s.Equal("unauthorized", body["error"])
	})

	s.Run("bad credentials are unauthorized", func() {
		resp, _ := s.do(http.MethodPost, "/auth/login", "", map[string]string{
			"email": "root@example.com", "password": "wrong",
		})
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("non-JSON body rejected", func() {
		req, err := http.NewRequest(http.MethodPost, s.server.URL+"/auth/login", bytes.NewBufferString("x=1"))
		s.Require().NoError(err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := s.server.Client().Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *HandlerSuite) TestPublicSearch() {
	resp, body := s.do(http.MethodGet, "/search?q=casmurro", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	results := body["results"].([]any)
	s.Require().Len(results, 1)
	row := results[0].(map[string]any)
	s.Equal("Dom Casmurro", row["title"])
	s.Equal("Central", row["library"])
	s.Equal("AVAILABLE", row["status"])

	resp, _ = s.do(http.MethodGet, "/search", "", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestCirculationFlow() {
	resp, body := s.do(http.MethodPost, "/checkout", s.coordinatorToken, map[string]string{
		"reader_id": s.readerID, "copy_id": s.copyID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	loanID := body["loan_id"].(string)
	s.NotEmpty(body["due_date"])

	s.Run("second checkout of the same copy conflicts", func() {
		resp, body := s.do(http.MethodPost, "/checkout", s.coordinatorToken, map[string]string{
			"reader_id": s.readerID, "copy_id": s.copyID,
		})
		s.Equal(http.StatusConflict, resp.StatusCode)
		s.Equal("conflict", body["error"])
	})

	s.Run("open loans listing shows the joined row", func() {
		resp, body := s.do(http.MethodGet, "/libraries/"+s.libraryID+"/loans", s.coordinatorToken, nil)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		loans := body["loans"].([]any)
		s.Require().Len(loans, 1)
		row := loans[0].(map[string]any)
		s.Equal("Capitu", row["reader_name"])
		s.Equal("Dom Casmurro", row["title"])
		s.Equal(false, row["overdue"])
	})

	s.Run("admin may not check out", func() {
		resp, _ := s.do(http.MethodPost, "/checkout", s.adminToken, map[string]string{
			"reader_id": s.readerID, "copy_id": s.copyID,
		})
		s.Equal(http.StatusForbidden, resp.StatusCode)
	})

	s.Run("return closes the loan, second return conflicts", func() {
		resp, _ := s.do(http.MethodPost, "/loans/"+loanID+"/return", s.coordinatorToken, nil)
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		resp, body := s.do(http.MethodPost, "/loans/"+loanID+"/return", s.coordinatorToken, nil)
		s.Equal(http.StatusConflict, resp.StatusCode)
		s.Equal("conflict", body["error"])
	})

	s.Run("copy is searchable as available again", func() {
		resp, body := s.do(http.MethodGet, "/search?q=casmurro", "", nil)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		row := body["results"].([]any)[0].(map[string]any)
		s.Equal("AVAILABLE", row["status"])
	})
}

func (s *HandlerSuite) TestValidationErrors() {
	s.Run("malformed copy id is a bad request", func() {
		resp, body := s.do(http.MethodPost, "/checkout", s.coordinatorToken, map[string]string{
			"reader_id": s.readerID, "copy_id": "nope",
		})
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Equal("bad_request", body["error"])
	})

	s.Run("duplicate reader email fails validation", func() {
		resp, body := s.do(http.MethodPost, "/libraries/"+s.libraryID+"/readers", s.coordinatorToken, map[string]string{
			"name": "Clone", "email": "capitu@example.com",
		})
		s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
		s.Equal("validation_failed", body["error"])
	})

	s.Run("unknown loan is not found", func() {
		resp, _ := s.do(http.MethodPost, "/loans/00000000-0000-0000-0000-000000000001/return", s.coordinatorToken, nil)
		s.Equal(http.StatusNotFound, resp.StatusCode)
	})
}

func (s *HandlerSuite) TestAudit() {
	resp, body := s.do(http.MethodGet, "/admin/audit", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	entries := body["entries"].([]any)
	// Fixture seeding recorded library, title, staff, copy and reader events.
	s.GreaterOrEqual(len(entries), 5)

	resp, _ = s.do(http.MethodGet, "/admin/audit", s.coordinatorToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *HandlerSuite) TestHealthAndMetrics() {
	resp, body := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", body["status"])

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/metrics", nil)
	s.Require().NoError(err)
	mresp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer mresp.Body.Close()
	s.Equal(http.StatusOK, mresp.StatusCode)
}
