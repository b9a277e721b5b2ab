package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/usecase"
)

func createLoanBody(amount int64) map[string]any {
	return map[string]any{
		"lender":         "bank",
		"amount":         amount,
		"interest_rate":  10,
		"duration_days":  30,
		"supplied_value": amount,
	}
}

func TestPauseBlocksMutations(t *testing.T) {
	env := newTestEnv(t)

	// Only the owner can pause.
	rec := env.do(t, http.MethodPost, "/api/v1/admin/pause", "alice", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/pause", ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pause dto.PauseResponse
	decode(t, rec, &pause)
	require.True(t, pause.Paused)

	// Every mutating surface rejects while paused.
	rec = env.do(t, http.MethodPost, "/api/v1/loans", "alice", createLoanBody(100_000))
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/stakes", "alice", map[string]any{"amount": 1_000})
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/proposals", "alice", map[string]any{"new_rate": 5})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Reads keep working.
	rec = env.do(t, http.MethodGet, "/api/v1/stats", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats dto.StatsResponse
	decode(t, rec, &stats)
	require.True(t, stats.Paused)

	// Unpausing restores the write path.
	rec = env.do(t, http.MethodPost, "/api/v1/admin/pause", ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &pause)
	require.False(t, pause.Paused)

	rec = env.do(t, http.MethodPost, "/api/v1/loans", "alice", createLoanBody(100_000))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestBorrowerLimits(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/admin/borrower-limits", ownerID, map[string]any{
		"borrower": "alice",
		"limit":    500_000,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/loans", "alice", createLoanBody(600_000))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/loans", "alice", createLoanBody(500_000))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// An explicit zero limit blocks all borrowing.
	rec = env.do(t, http.MethodPut, "/api/v1/admin/borrower-limits", ownerID, map[string]any{
		"borrower": "bob",
		"limit":    0,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/loans", "bob", createLoanBody(1))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Non-owners cannot set limits.
	rec = env.do(t, http.MethodPut, "/api/v1/admin/borrower-limits", "alice", map[string]any{
		"borrower": "bob",
		"limit":    100,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLenderGating(t *testing.T) {
	env := newTestEnv(t, func(o *envOptions) {
		o.ucConfig = usecase.Config{EnforceLenderGating: true}
	})

	rec := env.do(t, http.MethodPost, "/api/v1/loans", "alice", createLoanBody(100_000))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/admin/lenders", ownerID, map[string]any{
		"lender":     "bank",
		"authorized": true,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/loans", "alice", createLoanBody(100_000))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRequestsWithoutIdentity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/stats", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health endpoints stay open.
	rec = env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
