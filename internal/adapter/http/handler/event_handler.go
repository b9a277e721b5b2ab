package handler

import (
	"context"
	"net/http"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/domain"
)

// EventService defines the behavior needed by EventHandler.
type EventService interface {
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]*domain.Event, error)
}

// EventHandler serves the ledger event feed.
type EventHandler struct {
	eventUC EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventUC EventService) *EventHandler {
	return &EventHandler{eventUC: eventUC}
}

// List returns events after the given sequence number.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	after := parseUintQuery(r, "after", 0)
	limit := parseIntQuery(r, "limit", 100)

	events, err := h.eventUC.ListEvents(r.Context(), after, limit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list events", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(events),
		Total:  int64(len(events)),
	})
}
