package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/loanledger/internal/adapter/http/dto"
)

func TestGovernanceRateChange(t *testing.T) {
	env := newTestEnv(t)

	// Two stakers with asymmetric weight.
	rec := env.do(t, http.MethodPost, "/api/v1/stakes", "alice", map[string]any{"amount": 2_000_000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, "/api/v1/stakes", "bob", map[string]any{"amount": 1_000_000})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Non-stakers cannot propose.
	rec = env.do(t, http.MethodPost, "/api/v1/proposals", "carol", map[string]any{"new_rate": 12})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/proposals", "alice", map[string]any{"new_rate": 12})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var proposal dto.ProposalResponse
	decode(t, rec, &proposal)
	proposalPath := fmt.Sprintf("/api/v1/proposals/%d", proposal.ID)

	rec = env.do(t, http.MethodPost, proposalPath+"/votes", "alice", map[string]any{"support": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, proposalPath+"/votes", "bob", map[string]any{"support": false})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &proposal)
	require.True(t, proposal.VotesFor.Equal(decimal.NewFromInt(2_000_000)))
	require.True(t, proposal.VotesAgainst.Equal(decimal.NewFromInt(1_000_000)))
	require.True(t, proposal.Passed)

	// Double voting is rejected.
	rec = env.do(t, http.MethodPost, proposalPath+"/votes", "alice", map[string]any{"support": true})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Vote status is readable per identity.
	rec = env.do(t, http.MethodGet, proposalPath+"/votes/alice", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var voteStatus dto.VoteStatusResponse
	decode(t, rec, &voteStatus)
	require.True(t, voteStatus.Voted)

	rec = env.do(t, http.MethodGet, proposalPath+"/votes/carol", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &voteStatus)
	require.False(t, voteStatus.Voted)

	// Finalization inside the voting window is too early.
	rec = env.do(t, http.MethodPost, proposalPath+"/finalization", "alice", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	env.clock.AdvanceDays(3)

	rec = env.do(t, http.MethodPost, proposalPath+"/finalization", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &proposal)
	require.True(t, proposal.Finalized)

	// The passing vote rewired the system default rate.
	rec = env.do(t, http.MethodGet, "/api/v1/stats", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats dto.StatsResponse
	decode(t, rec, &stats)
	require.Equal(t, int64(12), stats.DefaultInterestRate)

	// Finalization happens exactly once.
	rec = env.do(t, http.MethodPost, proposalPath+"/finalization", "alice", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestStakingPoolAccounting(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/stakes", "alice", map[string]any{"amount": 500_000})
	require.Equal(t, http.StatusCreated, rec.Code)

	var stake dto.StakeResponse
	decode(t, rec, &stake)
	require.True(t, stake.Balance.Equal(decimal.NewFromInt(500_000)))
	require.True(t, stake.Total.Equal(decimal.NewFromInt(500_000)))

	// Withdrawing more than the balance fails and leaves the pool intact.
	rec = env.do(t, http.MethodPost, "/api/v1/stakes/withdrawals", "alice", map[string]any{"amount": 600_000})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/stakes/withdrawals", "alice", map[string]any{"amount": 200_000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &stake)
	require.True(t, stake.Balance.Equal(decimal.NewFromInt(300_000)))
	require.True(t, stake.Total.Equal(decimal.NewFromInt(300_000)))

	rec = env.do(t, http.MethodGet, "/api/v1/stakes/alice", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &stake)
	require.True(t, stake.Balance.Equal(decimal.NewFromInt(300_000)))

	rec = env.do(t, http.MethodGet, "/api/v1/stakes", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pool dto.PoolResponse
	decode(t, rec, &pool)
	require.True(t, pool.TotalStaked.Equal(decimal.NewFromInt(300_000)))

	// Fractional deposits are rejected at the wire boundary.
	rec = env.do(t, http.MethodPost, "/api/v1/stakes", "alice", map[string]any{"amount": "10.5"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
