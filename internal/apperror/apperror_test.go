package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindTableComplete(t *testing.T) {
	seen := make(map[string]Kind)
	for k := Kind(0); k < numKinds; k++ {
		info := kindTable[k]
		require.NotZero(t, info.status, "kind %d has no status", k)
		require.NotEmpty(t, info.code, "kind %d has no code", k)
		require.NotEmpty(t, info.prefix, "kind %d has no message prefix", k)
		if prev, dup := seen[info.code]; dup {
			t.Fatalf("kinds %d and %d share code %s", prev, k, info.code)
		}
		seen[info.code] = k
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindAuthentication, http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{KindHTTPClient, http.StatusBadGateway, "HTTP_CLIENT_ERROR"},
		{KindCSV, http.StatusInternalServerError, "CSV_ERROR"},
		{KindCache, http.StatusInternalServerError, "CACHE_ERROR"},
		{KindDiscordNotify, http.StatusBadGateway, "DISCORD_NOTIFY_ERROR"},
		{KindConfig, http.StatusInternalServerError, "CONFIG_ERROR"},
		{KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, c := range cases {
		t.Run(c.code, func(t *testing.T) {
			assert.Equal(t, c.status, c.kind.Status())
			assert.Equal(t, c.code, c.kind.Code())
		})
	}
}

func TestUnknownKindFallsBackToInternal(t *testing.T) {
	assert.Equal(t, "INTERNAL_ERROR", Kind(99).Code())
	assert.Equal(t, http.StatusInternalServerError, Kind(-1).Status())
}

func TestErrorMessage(t *testing.T) {
	err := New(KindAuthentication, "Invalid API key")
	assert.Equal(t, "Authentication failed: Invalid API key", err.Error())

	cause := errors.New("connection refused")
	err = Wrap(KindHTTPClient, cause, "fetch calendar")
	assert.Equal(t, "HTTP client error: fetch calendar: connection refused", err.Error())

	err = Wrap(KindCSV, cause, "")
	assert.Equal(t, "CSV parsing error: connection refused", err.Error())
}

func TestFromAndKindOf(t *testing.T) {
	assert.Nil(t, From(nil))

	inner := New(KindCache, "poisoned")
	wrapped := fmt.Errorf("resolve: %w", inner)
	assert.Same(t, inner, From(wrapped))
	assert.Equal(t, KindCache, KindOf(wrapped))

	plain := errors.New("boom")
	ae := From(plain)
	assert.Equal(t, KindInternal, ae.Kind)
	assert.ErrorIs(t, ae, plain)
}
