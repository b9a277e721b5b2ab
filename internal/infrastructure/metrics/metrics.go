package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Loan metrics
	LoansCreated     prometheus.Counter
	LoansRepaid      prometheus.Counter
	LoansCancelled   prometheus.Counter
	LoansDefaulted   prometheus.Counter
	PaymentsReceived prometheus.Counter
	PenaltiesApplied prometheus.Counter

	// Staking metrics
	StakeDeposits    prometheus.Counter
	StakeWithdrawals prometheus.Counter
	TotalStaked      prometheus.Gauge

	// Governance metrics
	ProposalsCreated   prometheus.Counter
	ProposalsFinalized prometheus.Counter
	VotesCast          prometheus.Counter

	// Pull-payment metrics
	PendingWithdrawals prometheus.Gauge

	// System metrics
	Paused       prometheus.Gauge
	EventsEmitted *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		LoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_created_total",
			Help: "Total number of loans created",
		}),
		LoansRepaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_repaid_total",
			Help: "Total number of loans fully repaid",
		}),
		LoansCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_cancelled_total",
			Help: "Total number of loans cancelled",
		}),
		LoansDefaulted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_defaulted_total",
			Help: "Total number of loans marked defaulted",
		}),
		PaymentsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_payments_total",
			Help: "Total number of payments applied to loans",
		}),
		PenaltiesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_penalties_applied_total",
			Help: "Total number of payments that included a late penalty",
		}),

		StakeDeposits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_stake_deposits_total",
			Help: "Total number of stake deposits",
		}),
		StakeWithdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_stake_withdrawals_total",
			Help: "Total number of stake withdrawals",
		}),
		TotalStaked: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loanledger_total_staked",
			Help: "Current total staked amount in base units",
		}),

		ProposalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_proposals_created_total",
			Help: "Total number of rate-change proposals created",
		}),
		ProposalsFinalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_proposals_finalized_total",
			Help: "Total number of proposals finalized",
		}),
		VotesCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_votes_cast_total",
			Help: "Total number of votes cast",
		}),

		PendingWithdrawals: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loanledger_pending_withdrawals",
			Help: "Current total of pending pull-payment balances in base units",
		}),

		Paused: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loanledger_paused",
			Help: "1 while the system is paused, 0 otherwise",
		}),
		EventsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanledger_events_emitted_total",
				Help: "Total ledger events emitted by type",
			},
			[]string{"event_type"},
		),
	}
}

// SetPaused records the pause flag as a gauge.
func (m *Metrics) SetPaused(paused bool) {
	if paused {
		m.Paused.Set(1)
	} else {
		m.Paused.Set(0)
	}
}
