package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/infrastructure/auth"
)

func TestJWTProtectedAPI(t *testing.T) {
	jwtManager := auth.NewJWTManager("integration-secret", time.Minute)
	env := newTestEnv(t, func(o *envOptions) {
		o.jwtManager = jwtManager
	})

	// With JWT enabled the identity header is not honored.
	rec := env.do(t, http.MethodGet, "/api/v1/stats", "alice", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Mint a token and use it.
	rec = env.do(t, http.MethodPost, "/auth/token", "", map[string]any{"caller_id": "alice"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var minted dto.TokenResponse
	decode(t, rec, &minted)
	require.NotEmpty(t, minted.Token)

	asAlice := func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+minted.Token)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/stats", "", nil, asAlice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/stakes", "", map[string]any{"amount": 1_000}, asAlice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Garbage tokens are rejected.
	rec = env.do(t, http.MethodGet, "/api/v1/stats", "", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-token")
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/stats", "", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Basic abc")
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenOwnerFlagGating(t *testing.T) {
	jwtManager := auth.NewJWTManager("integration-secret", time.Minute)
	env := newTestEnv(t, func(o *envOptions) {
		o.jwtManager = jwtManager
	})

	// A non-owner identity cannot claim the owner flag.
	rec := env.do(t, http.MethodPost, "/auth/token", "", map[string]any{"caller_id": "mallory", "owner": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var minted dto.TokenResponse
	decode(t, rec, &minted)

	caller, err := jwtManager.Verify(minted.Token)
	require.NoError(t, err)
	require.False(t, caller.Owner)

	// The configured owner identity can.
	rec = env.do(t, http.MethodPost, "/auth/token", "", map[string]any{"caller_id": ownerID, "owner": true})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &minted)

	caller, err = jwtManager.Verify(minted.Token)
	require.NoError(t, err)
	require.True(t, caller.Owner)

	// Owner-gated admin calls work with the owner token.
	rec = env.do(t, http.MethodPost, "/api/v1/admin/pause", "", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+minted.Token)
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
