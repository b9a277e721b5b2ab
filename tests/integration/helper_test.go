package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/loanledger/internal/adapter/http"
	"github.com/iho/loanledger/internal/adapter/http/handler"
	"github.com/iho/loanledger/internal/adapter/repository/memory"
	"github.com/iho/loanledger/internal/infrastructure/auth"
	"github.com/iho/loanledger/internal/infrastructure/clock"
	"github.com/iho/loanledger/internal/infrastructure/metrics"
	"github.com/iho/loanledger/internal/usecase"
)

const ownerID = "owner"

// Shared across tests: promauto registers on the default registry and
// panics on duplicates.
var testMetrics = metrics.New()

type testEnv struct {
	router http.Handler
	clock  *clock.Fake
	engine *usecase.LedgerUseCase
	outbox usecase.OutboxRepository
}

type envOptions struct {
	jwtManager       *auth.JWTManager
	idempotencyStore usecase.IdempotencyStore
	ucConfig         usecase.Config
}

func newTestEnv(t *testing.T, opts ...func(*envOptions)) *testEnv {
	t.Helper()

	var o envOptions
	for _, opt := range opts {
		opt(&o)
	}

	store := memory.NewStore(ownerID, 10)
	fake := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	engine := usecase.NewLedgerUseCase(
		store.Loans(),
		store.Proposals(),
		store.Stakes(),
		store.Balances(),
		store.Params(),
		store.Outbox(),
		memory.NewULIDGenerator(),
		fake,
		testMetrics,
		o.ucConfig,
	)

	var authHandler *handler.AuthHandler
	if o.jwtManager != nil {
		authHandler = handler.NewAuthHandler(o.jwtManager, ownerID)
	}

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		LoanHandler:       handler.NewLoanHandler(engine),
		StakingHandler:    handler.NewStakingHandler(engine),
		GovernanceHandler: handler.NewGovernanceHandler(engine),
		AdminHandler:      handler.NewAdminHandler(engine),
		EventHandler:      handler.NewEventHandler(engine),
		HealthHandler:     handler.NewHealthHandler(nil, nil),
		AuthHandler:       authHandler,
		JWTManager:        o.jwtManager,
		IdempotencyStore:  o.idempotencyStore,
		Logger:            zerolog.Nop(),
	})

	return &testEnv{router: router, clock: fake, engine: engine, outbox: store.Outbox()}
}

// do issues a request against the in-process router. The caller
// identity rides the fallback header unless the test sets its own
// Authorization header through mutate.
func (e *testEnv) do(t *testing.T, method, path, caller string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-Id", caller)
	}
	for _, m := range mutate {
		m(req)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
