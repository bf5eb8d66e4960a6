package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/versequest/biblegames/internal/biblegames"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "VerseQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for VerseQuest daily Bible puzzles.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates an account and sends a verification email.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/verify
	postVerify, _ := r.NewOperationContext(http.MethodPost, "/api/auth/verify")
	postVerify.SetSummary("Verify email")
	postVerify.SetDescription("Marks the account verified using the emailed token.")
	postVerify.AddReqStructure(VerifyRequest{})
	postVerify.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postVerify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postVerify)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Login")
	postLogin.SetDescription("Authenticates with email and password. Returns a Bearer token.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(LoginResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Logout")
	postLogout.SetDescription("Invalidates the presented Bearer token.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the authenticated user. Requires Bearer token.")
	getMe.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// DELETE /api/auth/me
	deleteMe, _ := r.NewOperationContext(http.MethodDelete, "/api/auth/me")
	deleteMe.SetSummary("Erase account")
	deleteMe.SetDescription("Deletes the account and all dependent records in one transaction. Requires Bearer token.")
	deleteMe.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteMe)

	// GET /api/challenges
	listChallenges, _ := r.NewOperationContext(http.MethodGet, "/api/challenges")
	listChallenges.SetSummary("List challenges")
	listChallenges.AddRespStructure([]ChallengeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listChallenges)

	// GET /api/challenges/active
	getActive, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/active")
	getActive.SetSummary("Active challenge")
	getActive.SetDescription("Returns the challenge running today, or null when none is.")
	getActive.AddRespStructure(ChallengeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getActive)

	// GET /api/challenges/{id}/games
	getGames, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/{id}/games")
	getGames.SetSummary("Challenge games")
	getGames.SetDescription("Returns all games of a challenge, each resolved to the caller's variant. Bearer token optional.")
	getGames.AddRespStructure([]biblegames.ResolvedGame{}, openapi.WithHTTPStatus(http.StatusOK))
	getGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGames)

	// GET /api/challenges/{id}/daily
	getDaily, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/{id}/daily")
	getDaily.SetSummary("Daily game")
	getDaily.SetDescription("Returns today's resolved game for the challenge, or null when there is none. Bearer token optional.")
	getDaily.AddRespStructure(biblegames.ResolvedGame{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getDaily)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns one game resolved to the caller's variant. Bearer token optional.")
	getGame.AddRespStructure(biblegames.ResolvedGame{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// GET /api/challenges/{id}/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/{id}/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Returns ranked total scores for a challenge, derived from best submissions.")
	getBoard.AddRespStructure([]biblegames.LeaderboardRow{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getBoard)

	// GET /api/challenges/{id}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/{id}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of submission events for a challenge.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/submissions
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/api/submissions")
	postSubmit.SetSummary("Submit a completed game")
	postSubmit.SetDescription("Scores the attempt server-side; a stored submission is replaced only by a strictly higher score. Requires Bearer token.")
	postSubmit.AddReqStructure(SubmitRequest{})
	postSubmit.AddRespStructure(biblegames.Submission{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSubmit)

	// GET /api/users/{userID}/games/{gameID}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/users/{userID}/games/{gameID}/state")
	getState.SetSummary("Get saved state")
	getState.SetDescription("Returns the in-progress state blob, or null when none is stored. Requires Bearer token; users read only their own state.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(getState)

	// PUT /api/users/{userID}/games/{gameID}/state
	putState, _ := r.NewOperationContext(http.MethodPut, "/api/users/{userID}/games/{gameID}/state")
	putState.SetSummary("Save state")
	putState.SetDescription("Merges the blob into stored state. Server-assigned variant fields cannot be overwritten. Requires Bearer token.")
	putState.AddReqStructure(SaveStateRequest{})
	putState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	putState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putState)

	// DELETE /api/users/{userID}/games/{gameID}/state
	deleteState, _ := r.NewOperationContext(http.MethodDelete, "/api/users/{userID}/games/{gameID}/state")
	deleteState.SetSummary("Delete saved state")
	deleteState.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(deleteState)

	// POST /api/push/subscriptions
	postPush, _ := r.NewOperationContext(http.MethodPost, "/api/push/subscriptions")
	postPush.SetSummary("Subscribe to push")
	postPush.AddReqStructure(PushSubscribeRequest{})
	postPush.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	postPush.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postPush)

	// DELETE /api/push/subscriptions
	deletePush, _ := r.NewOperationContext(http.MethodDelete, "/api/push/subscriptions")
	deletePush.SetSummary("Unsubscribe from push")
	deletePush.AddReqStructure(PushSubscribeRequest{})
	deletePush.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(deletePush)

	// POST /api/tickets
	postTicket, _ := r.NewOperationContext(http.MethodPost, "/api/tickets")
	postTicket.SetSummary("File a support ticket")
	postTicket.AddReqStructure(CreateTicketRequest{})
	postTicket.AddRespStructure(TicketResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postTicket.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postTicket)

	// GET /api/tickets
	getTickets, _ := r.NewOperationContext(http.MethodGet, "/api/tickets")
	getTickets.SetSummary("My tickets")
	getTickets.AddRespStructure([]TicketResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getTickets)

	// POST /api/admin/login
	postAdminLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postAdminLogin.SetSummary("Admin login")
	postAdminLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postAdminLogin.AddReqStructure(AdminLoginRequest{})
	postAdminLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdminLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postAdminLogin)

	// POST /api/admin/logout
	postAdminLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postAdminLogout.SetSummary("Admin logout")
	postAdminLogout.SetDescription("Clears admin session and cookie.")
	postAdminLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postAdminLogout)

	// GET /api/admin/me
	getAdminMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getAdminMe.SetSummary("Current admin")
	getAdminMe.SetDescription("Returns the authenticated admin. Requires admin_session cookie.")
	getAdminMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getAdminMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getAdminMe)

	// GET /api/admin/challenges
	adminListChallenges, _ := r.NewOperationContext(http.MethodGet, "/api/admin/challenges")
	adminListChallenges.SetSummary("List challenges (admin)")
	adminListChallenges.AddRespStructure([]ChallengeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminListChallenges.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminListChallenges)

	// POST /api/admin/challenges
	adminCreateChallenge, _ := r.NewOperationContext(http.MethodPost, "/api/admin/challenges")
	adminCreateChallenge.SetSummary("Create challenge")
	adminCreateChallenge.AddReqStructure(ChallengeRequest{})
	adminCreateChallenge.AddRespStructure(ChallengeResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	adminCreateChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	adminCreateChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminCreateChallenge)

	// PUT /api/admin/challenges/{id}
	adminUpdateChallenge, _ := r.NewOperationContext(http.MethodPut, "/api/admin/challenges/{id}")
	adminUpdateChallenge.SetSummary("Update challenge")
	adminUpdateChallenge.AddReqStructure(ChallengeRequest{})
	adminUpdateChallenge.AddRespStructure(ChallengeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminUpdateChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminUpdateChallenge)

	// DELETE /api/admin/challenges/{id}
	adminDeleteChallenge, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/challenges/{id}")
	adminDeleteChallenge.SetSummary("Delete challenge")
	adminDeleteChallenge.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	adminDeleteChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminDeleteChallenge)

	// POST /api/admin/challenges/{id}/games
	adminCreateGame, _ := r.NewOperationContext(http.MethodPost, "/api/admin/challenges/{id}/games")
	adminCreateGame.SetSummary("Create game")
	adminCreateGame.SetDescription("Creates a curated game for one date. One game per challenge per date.")
	adminCreateGame.AddReqStructure(GameRequest{})
	adminCreateGame.AddRespStructure(biblegames.Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	adminCreateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	adminCreateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(adminCreateGame)

	// PUT /api/admin/games/{gameID}
	adminUpdateGame, _ := r.NewOperationContext(http.MethodPut, "/api/admin/games/{gameID}")
	adminUpdateGame.SetSummary("Update game")
	adminUpdateGame.AddReqStructure(GameRequest{})
	adminUpdateGame.AddRespStructure(biblegames.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	adminUpdateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminUpdateGame)

	// DELETE /api/admin/games/{gameID}
	adminDeleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/games/{gameID}")
	adminDeleteGame.SetSummary("Delete game")
	adminDeleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	adminDeleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminDeleteGame)

	// POST /api/admin/games/{gameID}/rescore
	adminRescore, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/rescore")
	adminRescore.SetSummary("Rescore submissions")
	adminRescore.SetDescription("Recomputes every submission's score from stored telemetry after a puzzle data fix.")
	adminRescore.AddRespStructure(RescoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminRescore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminRescore)

	// GET /api/admin/tickets
	adminTickets, _ := r.NewOperationContext(http.MethodGet, "/api/admin/tickets")
	adminTickets.SetSummary("List tickets")
	adminTickets.SetDescription("All tickets, filterable by ?status= and ?flagged=true.")
	adminTickets.AddRespStructure([]TicketResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(adminTickets)

	// PUT /api/admin/tickets/{ticketID}
	adminUpdateTicket, _ := r.NewOperationContext(http.MethodPut, "/api/admin/tickets/{ticketID}")
	adminUpdateTicket.SetSummary("Update ticket")
	adminUpdateTicket.AddReqStructure(UpdateTicketRequest{})
	adminUpdateTicket.AddRespStructure(TicketResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminUpdateTicket.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminUpdateTicket)

	// POST /api/admin/maintenance/run
	adminMaint, _ := r.NewOperationContext(http.MethodPost, "/api/admin/maintenance/run")
	adminMaint.SetSummary("Run daily maintenance")
	adminMaint.SetDescription("Ensures a game exists for the date, pre-assigns variants, and notifies subscribers. Idempotent.")
	adminMaint.AddRespStructure(MaintenanceReport{}, openapi.WithHTTPStatus(http.StatusOK))
	adminMaint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(adminMaint)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
