package api_test

import (
	"context"
	"net/http"
	"testing"

	"tendersdz/internal/api"

	"github.com/stretchr/testify/require"
)

func TestAuthPolicyEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		policy   api.AuthPolicy
		status   int
		location string
		want     api.Intent
	}{
		{"ok response", api.AuthPolicy{}, http.StatusOK, "/tenders", api.IntentNone},
		{"forbidden is not handled", api.AuthPolicy{}, http.StatusForbidden, "/tenders", api.IntentNone},
		{"401 on protected view", api.AuthPolicy{}, http.StatusUnauthorized, "/tenders/3", api.IntentRedirectToLogin},
		{"401 without location", api.AuthPolicy{}, http.StatusUnauthorized, "", api.IntentRedirectToLogin},
		{"401 on login", api.AuthPolicy{}, http.StatusUnauthorized, "/login", api.IntentNone},
		{"401 on login with query", api.AuthPolicy{}, http.StatusUnauthorized, "/login?next=%2F", api.IntentNone},
		{"custom login path", api.AuthPolicy{LoginPath: "login"}, http.StatusUnauthorized, "login", api.IntentNone},
		{"custom login path elsewhere", api.AuthPolicy{LoginPath: "login"}, http.StatusUnauthorized, "tenders list", api.IntentRedirectToLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.policy.Evaluate(tt.status, tt.location))
		})
	}
	require.Equal(t, "redirect-to-login", api.IntentRedirectToLogin.String())
}

func TestLocationRoundTrip(t *testing.T) {
	require.Empty(t, api.LocationFrom(context.Background()))
	ctx := api.WithLocation(context.Background(), "/suppliers")
	require.Equal(t, "/suppliers", api.LocationFrom(ctx))
}
