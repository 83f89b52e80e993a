package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"tendersdz/internal/api"
	"tendersdz/internal/api/apitest"
	"tendersdz/internal/api/apitest/testserver"
	"tendersdz/internal/metrics"
	"tendersdz/internal/session"
	"tendersdz/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// recordingNavigator запоминает запрошенные переходы
type recordingNavigator struct {
	mu      sync.Mutex
	targets []string
}

func (n *recordingNavigator) Navigate(ctx context.Context, target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *recordingNavigator) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

type fixture struct {
	client  *api.Client
	session *session.Session
	backend *apitest.Backend
	nav     *recordingNavigator
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend, srv := testserver.New(t)
	sess, err := session.Load(context.Background(), session.NewMemoryStore())
	require.NoError(t, err)

	nav := &recordingNavigator{}
	m := metrics.New(prometheus.NewRegistry())
	client, err := api.NewClient(api.Options{
		BaseURL:   srv.URL,
		Session:   sess,
		Navigator: nav,
		Metrics:   m,
	})
	require.NoError(t, err)
	return &fixture{client: client, session: sess, backend: backend, nav: nav, metrics: m}
}

// signIn выполняет вход и кладет токен в сессию
func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	ctx := api.WithLocation(context.Background(), api.DefaultLoginPath)
	token, err := f.client.Login(ctx, apitest.TestUser, apitest.TestPassword)
	require.NoError(t, err)
	require.NoError(t, f.session.Set(context.Background(), token.AccessToken, apitest.TestUser))
}

func TestNewClientValidatesOptions(t *testing.T) {
	sess, err := session.Load(context.Background(), session.NewMemoryStore())
	require.NoError(t, err)

	_, err = api.NewClient(api.Options{BaseURL: "http://localhost:8000"})
	require.Error(t, err)

	_, err = api.NewClient(api.Options{BaseURL: "localhost", Session: sess})
	require.Error(t, err)

	c, err := api.NewClient(api.Options{BaseURL: "http://localhost:8000/", Session: sess})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", c.BaseURL())
	require.Equal(t, "/login", c.LoginPath())
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.ListClients(api.WithLocation(context.Background(), "/clients"))
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.Empty(t, f.backend.LastAuthorization())
}

func TestLoginIsFormEncodedAndTokenIsSentAsBearer(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	require.Equal(t, "application/x-www-form-urlencoded", f.backend.LastLoginContentType())

	clients, err := f.client.ListClients(context.Background())
	require.NoError(t, err)
	require.Empty(t, clients)
	require.Equal(t, "Bearer "+f.session.Token(), f.backend.LastAuthorization())
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Logins.WithLabelValues("success")))
}

func TestLoginFailureSurfacesDetail(t *testing.T) {
	f := newFixture(t)
	ctx := api.WithLocation(context.Background(), "/login?next=%2Ftenders")

	_, err := f.client.Login(ctx, apitest.TestUser, "wrong")
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.Equal(t, "Incorrect username or password", api.UserMessage(err, "Login failed"))
	require.Empty(t, f.nav.Targets())
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Logins.WithLabelValues("failure")))
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.RevokeAll()

	_, err := f.client.ListTenders(api.WithLocation(context.Background(), "/tenders"))
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.False(t, f.session.Authenticated())
	require.Empty(t, f.session.Identifier())
	require.Equal(t, []string{"/login"}, f.nav.Targets())
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SessionInvalidations))
}

func TestUnauthorizedOnLoginScreenKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.RevokeAll()

	_, err := f.client.ListTenders(api.WithLocation(context.Background(), "/login"))
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.True(t, f.session.Authenticated())
	require.Empty(t, f.nav.Targets())
}

func TestServerErrorCarriesDetail(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.FailNext(http.StatusInternalServerError, "database is down")

	_, err := f.client.ListSuppliers(context.Background())
	var serverErr *api.ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	require.Equal(t, "database is down", api.UserMessage(err, "Failed to load suppliers"))
	require.True(t, f.session.Authenticated())
	require.Empty(t, f.nav.Targets())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	sess, err := session.Load(context.Background(), session.NewMemoryStore())
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	client, err := api.NewClient(api.Options{BaseURL: srv.URL, Session: sess, Metrics: m})
	require.NoError(t, err)

	_, err = client.ListClients(context.Background())
	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.MethodGet, transportErr.Method)
	require.False(t, api.Expected(err))
	require.Equal(t, "Failed to load clients", api.UserMessage(err, "Failed to load clients"))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TransportErrors.WithLabelValues(http.MethodGet)))
}

func TestValidationFailureSendsNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	sess, err := session.Load(context.Background(), session.NewMemoryStore())
	require.NoError(t, err)
	client, err := api.NewClient(api.Options{BaseURL: srv.URL, Session: sess})
	require.NoError(t, err)

	_, err = client.CreateClient(context.Background(), models.ClientInput{Name: ""})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, api.Expected(err))

	_, err = client.CreateTenderItem(context.Background(), models.TenderItemInput{TenderID: 1, Category: "HW", Description: "x", Qty: 0, UOM: "Unit"})
	require.ErrorAs(t, err, &verr)
	require.Zero(t, hits.Load())
}

func TestClientCRUD(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	before, err := f.client.ListClients(ctx)
	require.NoError(t, err)

	created, err := f.client.CreateClient(ctx, models.ClientInput{
		Name:    "Sonatrach",
		Country: models.StringPtr("DZ"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	after, err := f.client.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	require.Equal(t, "Sonatrach", after[len(after)-1].Name)

	updated, err := f.client.UpdateClient(ctx, created.ID, models.ClientPatch{Notes: models.StringPtr("key account")})
	require.NoError(t, err)
	require.Equal(t, "key account", models.Deref(updated.Notes))
	require.Equal(t, "Sonatrach", updated.Name)
	require.Equal(t, "DZ", models.Deref(updated.Country))

	require.NoError(t, f.client.DeleteClient(ctx, created.ID))
	after, err = f.client.ListClients(ctx)
	require.NoError(t, err)
	for _, c := range after {
		require.NotEqual(t, created.ID, c.ID)
	}
}

func TestSupplierCRUD(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	created, err := f.client.CreateSupplier(ctx, models.SupplierInput{Name: "Cisco", IsOEM: true})
	require.NoError(t, err)

	updated, err := f.client.UpdateSupplier(ctx, created.ID, models.SupplierPatch{Verified: ptr(true)})
	require.NoError(t, err)
	require.True(t, updated.Verified)
	require.True(t, updated.IsOEM)

	require.NoError(t, f.client.DeleteSupplier(ctx, created.ID))
	suppliers, err := f.client.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Empty(t, suppliers)

	err = f.client.DeleteSupplier(ctx, created.ID)
	var serverErr *api.ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, http.StatusNotFound, serverErr.StatusCode)
	require.Equal(t, "Supplier not found", api.UserMessage(err, "Delete failed"))
}

func TestTenderAndItems(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	client := f.backend.SeedClient(models.Client{Name: "Naftal"})
	other := f.backend.SeedTender(models.Tender{ClientID: client.ID, Title: "Other", Currency: "DZD", Status: models.StatusLost})

	in := models.NewTenderInput()
	in.ClientID = client.ID
	in.Title = "Network upgrade"
	deadline, err := models.ParseTimestamp("2026-12-01T10:00:00")
	require.NoError(t, err)
	in.SubmissionDeadline = &deadline

	tender, err := f.client.CreateTender(ctx, in)
	require.NoError(t, err)

	got, err := f.client.GetTender(ctx, tender.ID)
	require.NoError(t, err)
	require.Equal(t, tender.ID, got.ID)
	require.Equal(t, models.StatusIdentified, got.Status)
	require.Equal(t, "DZD", got.Currency)
	require.Equal(t, "2026-12-01", got.SubmissionDeadline.Date())

	status := models.StatusSubmitted
	updated, err := f.client.UpdateTender(ctx, tender.ID, models.TenderPatch{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.StatusSubmitted, updated.Status)
	require.Equal(t, "Network upgrade", updated.Title)

	item := models.NewTenderItemInput(tender.ID)
	item.Description = "Core switch"
	item.Qty = 2
	createdItem, err := f.client.CreateTenderItem(ctx, item)
	require.NoError(t, err)
	f.backend.SeedTenderItem(models.TenderItem{TenderID: other.ID, Category: models.CategorySW, Description: "License", Qty: 1, UOM: "Unit"})

	items, err := f.client.ListTenderItems(ctx, &tender.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, tender.ID, items[0].TenderID)
	require.Equal(t, models.CategoryHW, items[0].Category)
	require.True(t, items[0].AuthenticityRequired)

	all, err := f.client.ListTenderItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	qty := 5.0
	updatedItem, err := f.client.UpdateTenderItem(ctx, createdItem.ID, models.TenderItemPatch{Qty: &qty})
	require.NoError(t, err)
	require.Equal(t, 5.0, updatedItem.Qty)
	require.Equal(t, "Core switch", updatedItem.Description)

	require.NoError(t, f.client.DeleteTenderItem(ctx, createdItem.ID))
	items, err = f.client.ListTenderItems(ctx, &tender.ID)
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, f.client.DeleteTender(ctx, tender.ID))
	_, err = f.client.GetTender(ctx, tender.ID)
	var serverErr *api.ServerError
	require.True(t, errors.As(err, &serverErr))
	require.Equal(t, http.StatusNotFound, serverErr.StatusCode)
}

func ptr[T any](v T) *T {
	return &v
}
