package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/versequest/biblegames/internal/biblegames"
)

type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type TicketResponse struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Status  string `json:"status"`
	Flagged bool   `json:"flagged"`
}

func ticketResponse(t biblegames.Ticket) TicketResponse {
	return TicketResponse{
		ID:      t.ID,
		UserID:  t.UserID,
		Subject: t.Subject,
		Body:    t.Body,
		Status:  string(t.Status),
		Flagged: t.Flagged,
	}
}

func ticketResponses(ts []biblegames.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, ticketResponse(t))
	}
	return out
}

func handleCreateTicket(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		var req CreateTicketRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Subject = strings.TrimSpace(req.Subject)
		if req.Subject == "" {
			writeError(w, http.StatusBadRequest, "subject is required")
			return
		}

		t, err := store.CreateTicket(r.Context(), sess.UserID, req.Subject, req.Body)
		if err != nil {
			logger.Error("creating ticket", "user", sess.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, ticketResponse(t))
	}
}

func handleMyTickets(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)
		ts, err := store.TicketsForUser(r.Context(), sess.UserID)
		if err != nil {
			logger.Error("listing tickets", "user", sess.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ticketResponses(ts))
	}
}

// --- Admin ticket management ---

type UpdateTicketRequest struct {
	Status  string `json:"status"`
	Flagged bool   `json:"flagged"`
}

func handleAdminListTickets(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		flaggedOnly := r.URL.Query().Get("flagged") == "true"

		ts, err := store.ListTickets(r.Context(), status, flaggedOnly)
		if err != nil {
			logger.Error("listing tickets for admin", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ticketResponses(ts))
	}
}

func handleAdminUpdateTicket(logger *slog.Logger, store Store) http.HandlerFunc {
	valid := map[string]bool{
		string(biblegames.TicketOpen):     true,
		string(biblegames.TicketResolved): true,
		string(biblegames.TicketClosed):   true,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "ticketID")

		var req UpdateTicketRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !valid[req.Status] {
			writeError(w, http.StatusBadRequest, "status must be open, resolved, or closed")
			return
		}

		t, err := store.UpdateTicket(r.Context(), id, biblegames.TicketStatus(req.Status), req.Flagged)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		if err != nil {
			logger.Error("updating ticket", "ticket", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ticketResponse(t))
	}
}
