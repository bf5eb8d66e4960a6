package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, d Deps) {
	logger := d.Logger
	store := d.Store
	broker := NewBroker()
	cache := NewLeaderboardCache(d.Redis, logger, d.LeaderboardTTL)
	maint := NewMaintenance(logger, store, d.Pusher, d.Workers)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("VerseQuest API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, d.DB, d.Redis))
	r.Get("/ws/echo", handleWSEcho(logger))

	// Account lifecycle. Register/verify/login are anonymous.
	r.Post("/api/auth/register", handleRegister(logger, store, d.Mailer, d.BaseURL))
	r.Post("/api/auth/verify", handleVerify(logger, store))
	r.Post("/api/auth/login", handleLogin(logger, store))
	r.Post("/api/auth/logout", handleLogout(logger, store))
	r.Group(func(r chi.Router) {
		r.Use(userAuthMiddleware(store))
		r.Get("/api/auth/me", handleMe(logger, store))
		r.Delete("/api/auth/me", handleEraseMe(logger, store))
	})

	// Challenge catalog and gameplay. Guests are allowed everywhere
	// reads happen; they get deterministic, never-persisted variants.
	r.Get("/api/challenges", handleListChallenges(logger, store))
	r.Get("/api/challenges/active", handleActiveChallenge(logger, store))
	r.Get("/api/challenges/{id}/games", handleChallengeGames(logger, store))
	r.Get("/api/challenges/{id}/daily", handleDailyGame(logger, store))
	r.Get("/api/challenges/{id}/leaderboard", handleLeaderboard(logger, store, cache))
	r.Get("/api/challenges/{id}/events", handleEvents(store, broker))
	r.Get("/api/games/{gameID}", handleGetGame(logger, store))

	// Writes need a session.
	r.Group(func(r chi.Router) {
		r.Use(userAuthMiddleware(store))

		r.Post("/api/submissions", handleSubmit(logger, store, broker, cache))

		r.Get("/api/users/{userID}/games/{gameID}/state", handleGetState(logger, store))
		r.Put("/api/users/{userID}/games/{gameID}/state", handleSaveState(logger, store))
		r.Delete("/api/users/{userID}/games/{gameID}/state", handleDeleteState(logger, store))

		r.Post("/api/push/subscriptions", handlePushSubscribe(logger, store))
		r.Delete("/api/push/subscriptions", handlePushUnsubscribe(logger, store))

		r.Post("/api/tickets", handleCreateTicket(logger, store))
		r.Get("/api/tickets", handleMyTickets(logger, store))
	})

	// Admin auth uses its own cookie session.
	r.Post("/api/admin/login", handleAdminLogin(logger, store))
	r.Post("/api/admin/logout", handleAdminLogout(store))

	r.Group(func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))

		r.Get("/api/admin/me", handleAdminMe())

		r.Get("/api/admin/challenges", handleAdminListChallenges(logger, store))
		r.Post("/api/admin/challenges", handleAdminCreateChallenge(logger, store))
		r.Put("/api/admin/challenges/{id}", handleAdminUpdateChallenge(logger, store))
		r.Delete("/api/admin/challenges/{id}", handleAdminDeleteChallenge(logger, store))
		r.Post("/api/admin/challenges/{id}/games", handleAdminCreateGame(logger, store))

		r.Put("/api/admin/games/{gameID}", handleAdminUpdateGame(logger, store))
		r.Delete("/api/admin/games/{gameID}", handleAdminDeleteGame(logger, store))
		r.Post("/api/admin/games/{gameID}/rescore", handleAdminRescoreGame(logger, store, cache))

		r.Get("/api/admin/tickets", handleAdminListTickets(logger, store))
		r.Put("/api/admin/tickets/{ticketID}", handleAdminUpdateTicket(logger, store))

		r.Post("/api/admin/maintenance/run", handleAdminRunMaintenance(logger, maint))
	})

	if d.SPADir != "" {
		if info, err := os.Stat(d.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", d.SPADir)
			r.NotFound(handleSPA(d.SPADir))
		}
	}
}
