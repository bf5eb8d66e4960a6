package server

import (
	"log/slog"
	"net/http"
	"strings"
)

type PushSubscribeRequest struct {
	Endpoint string         `json:"endpoint"`
	Keys     map[string]any `json:"keys"`
}

func handlePushSubscribe(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		var req PushSubscribeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Endpoint = strings.TrimSpace(req.Endpoint)
		if req.Endpoint == "" {
			writeError(w, http.StatusBadRequest, "endpoint is required")
			return
		}

		if err := store.AddPushSubscription(r.Context(), sess.UserID, req.Endpoint, req.Keys); err != nil {
			logger.Error("adding push subscription", "user", sess.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handlePushUnsubscribe(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		var req PushSubscribeRequest
		if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Endpoint) == "" {
			writeError(w, http.StatusBadRequest, "endpoint is required")
			return
		}

		if err := store.DeletePushSubscription(r.Context(), sess.UserID, strings.TrimSpace(req.Endpoint)); err != nil {
			logger.Error("deleting push subscription", "user", sess.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
