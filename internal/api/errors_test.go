package api

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"Tender not found"}`, "Tender not found"},
		{`{"detail":[{"loc":["body","name"],"msg":"field required"},{"msg":"value is not a valid integer"}]}`, "field required; value is not a valid integer"},
		{`{"error":"bad input"}`, "bad input"},
		{`{"message":"try later"}`, "try later"},
		{`Internal Server Error`, "Internal Server Error"},
		{`<html><body>502</body></html>`, ""},
		{strings.Repeat("x", 400), ""},
		{``, ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, extractDetail([]byte(tt.body)), tt.body)
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("load tenders: %w", &ServerError{StatusCode: 409, Detail: "Client has tenders"})
	require.Equal(t, "Client has tenders", UserMessage(err, "Delete failed"))
	require.Equal(t, "Delete failed", UserMessage(&ServerError{StatusCode: 500}, "Delete failed"))
	require.Equal(t, "Delete failed", UserMessage(errors.New("boom"), "Delete failed"))

	authErr := &AuthError{Detail: "Not authenticated"}
	require.ErrorIs(t, authErr, ErrUnauthorized)
	require.Equal(t, "Not authenticated", UserMessage(authErr, "x"))
}
