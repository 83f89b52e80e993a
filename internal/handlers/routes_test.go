package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"tendersdz/internal/api"
	"tendersdz/internal/api/apitest"
	"tendersdz/internal/api/apitest/testserver"
	"tendersdz/internal/auth"
	"tendersdz/internal/handlers"
	"tendersdz/internal/handlers/testutils"
	"tendersdz/internal/logging"
	"tendersdz/internal/session"
	"tendersdz/models"

	"github.com/stretchr/testify/require"
)

type stack struct {
	router  http.Handler
	backend *apitest.Backend
	session *session.Session
	client  *api.Client
}

// newStack собирает консоль поверх бэкенда в памяти
func newStack(t *testing.T) *stack {
	t.Helper()
	backend, srv := testserver.New(t)
	sess, err := session.Load(context.Background(), session.NewMemoryStore())
	require.NoError(t, err)

	client, err := api.NewClient(api.Options{
		BaseURL:   srv.URL,
		Session:   sess,
		Navigator: handlers.RequestNavigator,
		Logger:    logging.Discard(),
	})
	require.NoError(t, err)
	ctrl := auth.NewController(sess, client, logging.Discard())
	h := handlers.NewHandler(client, ctrl, logging.Discard())
	return &stack{router: h.Routes(), backend: backend, session: sess, client: client}
}

func (s *stack) login(t *testing.T) {
	t.Helper()
	form := url.Values{"username": {apitest.TestUser}, "password": {apitest.TestPassword}}
	rr := testutils.Serve(s.router, testutils.NewFormRequest("/login", form))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.True(t, s.session.Authenticated())
}

func get(s *stack, target string) *httptest.ResponseRecorder {
	return testutils.Serve(s.router, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestGuardRedirectsToLoginWithNext(t *testing.T) {
	s := newStack(t)

	rr := get(s, "/tenders/5")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login?next=%2Ftenders%2F5", rr.Header().Get("Location"))

	rr = get(s, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestLoginReturnsToRequestedPage(t *testing.T) {
	s := newStack(t)

	rr := get(s, "/login?next=%2Fsuppliers")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `value="/suppliers"`)

	form := url.Values{"username": {apitest.TestUser}, "password": {apitest.TestPassword}, "next": {"/suppliers"}}
	rr = testutils.Serve(s.router, testutils.NewFormRequest("/login", form))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/suppliers", rr.Header().Get("Location"))
	require.Equal(t, apitest.TestUser, s.session.Identifier())
	require.Equal(t, "application/x-www-form-urlencoded", s.backend.LastLoginContentType())

	rr = get(s, "/suppliers")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Bearer "+s.session.Token(), s.backend.LastAuthorization())

	rr = get(s, "/login")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLoginRejectsExternalNext(t *testing.T) {
	s := newStack(t)
	form := url.Values{"username": {apitest.TestUser}, "password": {apitest.TestPassword}, "next": {"https://evil.example"}}
	rr := testutils.Serve(s.router, testutils.NewFormRequest("/login", form))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLoginFailureShowsBackendDetail(t *testing.T) {
	s := newStack(t)

	form := url.Values{"username": {apitest.TestUser}, "password": {"wrong"}}
	rr := testutils.Serve(s.router, testutils.NewFormRequest("/login", form))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Incorrect username or password")
	require.False(t, s.session.Authenticated())

	rr = testutils.Serve(s.router, testutils.NewFormRequest("/login", url.Values{"username": {"x"}}))
	require.Contains(t, rr.Body.String(), "Email and password are required")
}

func TestExpiredTokenRedirectsToLogin(t *testing.T) {
	s := newStack(t)
	s.login(t)
	s.backend.RevokeAll()

	rr := get(s, "/clients")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login?next=%2Fclients", rr.Header().Get("Location"))
	require.False(t, s.session.Authenticated())
	require.Empty(t, s.session.Identifier())

	rr = get(s, "/clients")
	require.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestExpiredTokenOnWriteReturnsToPage(t *testing.T) {
	s := newStack(t)
	s.login(t)
	tender := s.backend.SeedTender(models.Tender{ClientID: 1, Title: "x", Currency: "DZD", Status: models.StatusIdentified})
	s.backend.RevokeAll()

	path := "/tenders/" + itoa(tender.ID)
	rr := testutils.Serve(s.router, testutils.NewFormRequest(path+"/items", url.Values{"description": {"Router"}, "qty": {"1"}}))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login?next="+url.QueryEscape(path), rr.Header().Get("Location"))
}

func TestLogoutProtectsViews(t *testing.T) {
	s := newStack(t)
	s.login(t)

	rr := testutils.Serve(s.router, httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))
	require.False(t, s.session.Authenticated())

	rr = get(s, "/")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestTenderWorkflow(t *testing.T) {
	s := newStack(t)
	s.login(t)
	client := s.backend.SeedClient(models.Client{Name: "Algérie Télécom"})

	rr := testutils.Serve(s.router, testutils.NewFormRequest("/tenders", url.Values{
		"client_id":           {itoa(client.ID)},
		"title":               {"Backbone extension"},
		"reference_no":        {"AT-2026-044"},
		"status":              {"studying"},
		"submission_deadline": {"2026-12-20"},
	}))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	location := rr.Header().Get("Location")
	require.Contains(t, location, "/tenders/1")

	rr = testutils.Serve(s.router, testutils.NewFormRequest("/tenders/1/items", url.Values{
		"description":           {"MPLS router"},
		"qty":                   {"4"},
		"category":              {"HW"},
		"uom":                   {"Unit"},
		"authenticity_required": {"on"},
	}))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "Item added", testutils.RedirectQuery(rr).Get("notice"))

	rr = get(s, "/tenders/1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, "Backbone extension")
	require.Contains(t, body, "MPLS router")
	require.Contains(t, body, `value="2026-12-20T00:00"`)

	rr = get(s, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Backbone extension")

	rr = get(s, "/tenders/export.xlsx")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))

	rr = get(s, "/tenders/1/sheet.pdf")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))

	rr = testutils.Serve(s.router, testutils.NewFormRequest("/clients/"+itoa(client.ID)+"/delete", url.Values{}))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "Client has tenders and cannot be deleted", testutils.RedirectQuery(rr).Get("error"))

	rr = testutils.Serve(s.router, testutils.NewFormRequest("/tenders/1/delete", url.Values{}))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	rr = get(s, "/tenders")
	require.NotContains(t, rr.Body.String(), "Backbone extension")
}

func TestClientValidationFailsBeforeBackend(t *testing.T) {
	s := newStack(t)
	s.login(t)

	rr := testutils.Serve(s.router, testutils.NewFormRequest("/clients", url.Values{"name": {"  "}}))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "validation failed: name is required", testutils.RedirectQuery(rr).Get("error"))
}

func TestTenderTitleSaveKeepsDeadline(t *testing.T) {
	s := newStack(t)
	s.login(t)
	client := s.backend.SeedClient(models.Client{Name: "Sonatrach"})
	deadline := models.Timestamp{Time: time.Date(2026, 12, 1, 14, 30, 0, 0, time.UTC)}
	tender := s.backend.SeedTender(models.Tender{
		ClientID: client.ID, Title: "Core network", Currency: "DZD",
		Status: models.StatusStudying, SubmissionDeadline: &deadline,
	})

	rr := get(s, "/tenders/"+itoa(tender.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `name="submission_deadline" value="2026-12-01T14:30"`)
	require.Contains(t, rr.Body.String(), `name="submission_deadline_was" value="2026-12-01T14:30"`)

	// форма в том виде, в каком ее показывает экран, изменено только название
	form := url.Values{
		"client_id":               {itoa(client.ID)},
		"title":                   {"Core network v2"},
		"reference_no":            {""},
		"currency":                {"DZD"},
		"status":                  {"STUDYING"},
		"submission_deadline":     {"2026-12-01T14:30"},
		"submission_deadline_was": {"2026-12-01T14:30"},
	}
	rr = testutils.Serve(s.router, testutils.NewFormRequest("/tenders/"+itoa(tender.ID), form))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "Tender updated", testutils.RedirectQuery(rr).Get("notice"))

	got, err := s.client.GetTender(context.Background(), tender.ID)
	require.NoError(t, err)
	require.Equal(t, "Core network v2", got.Title)
	require.NotNil(t, got.SubmissionDeadline)
	require.True(t, deadline.Time.Equal(got.SubmissionDeadline.Time))

	// очищенное поле снимает срок
	form.Set("submission_deadline", "")
	rr = testutils.Serve(s.router, testutils.NewFormRequest("/tenders/"+itoa(tender.ID), form))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	got, err = s.client.GetTender(context.Background(), tender.ID)
	require.NoError(t, err)
	require.Nil(t, got.SubmissionDeadline)
	rr = get(s, "/tenders/"+itoa(tender.ID))
	require.Contains(t, rr.Body.String(), `name="submission_deadline" value=""`)
}

func TestMissingTenderRendersNotFound(t *testing.T) {
	s := newStack(t)
	s.login(t)

	rr := get(s, "/tenders/99")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Tender not found")
}

func TestCrossOriginPostRejected(t *testing.T) {
	s := newStack(t)
	s.login(t)
	client := s.backend.SeedClient(models.Client{Name: "Sonelgaz"})

	req := testutils.NewFormRequest("/clients/"+itoa(client.ID)+"/delete", url.Values{})
	req.Header.Set("Origin", "http://attacker.example")
	rr := testutils.Serve(s.router, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	req = testutils.NewFormRequest("/logout", url.Values{})
	req.Header.Del("Origin")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr = testutils.Serve(s.router, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.True(t, s.session.Authenticated())

	rr = get(s, "/clients")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Sonelgaz")

	// тот же сайт проходит
	rr = testutils.Serve(s.router, testutils.NewFormRequest("/clients/"+itoa(client.ID)+"/delete", url.Values{}))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "Client deleted", testutils.RedirectQuery(rr).Get("notice"))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
