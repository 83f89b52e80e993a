// Package testserver поднимает apitest.Backend на httptest.Server для тестов.
// Вынесен отдельно, чтобы testing и testify не попадали в tendersctl.
package testserver

import (
	"net/http/httptest"
	"testing"

	"tendersdz/internal/api/apitest"

	"github.com/stretchr/testify/require"
)

// New поднимает бэкенд с одним пользователем apitest.TestUser/TestPassword.
// Сервер закрывается по окончании теста.
func New(t testing.TB) (*apitest.Backend, *httptest.Server) {
	t.Helper()
	b := apitest.New()
	require.NoError(t, b.AddUser(apitest.TestUser, apitest.TestPassword))
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}
