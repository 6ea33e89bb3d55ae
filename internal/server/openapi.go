package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/qualifab/qcontrol/internal/qc"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Quality Control API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the quality-control inspection game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/sessions
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	postSession.SetSummary("Create session")
	postSession.SetDescription("Creates a fresh game session and returns its ID.")
	postSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(postSession)

	// GET /api/{session}/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/{session}/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the full game state with display strings in the requested language.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /api/{session}/game/start-day
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/{session}/game/start-day")
	postStart.SetSummary("Start day")
	postStart.SetDescription("Generates the day's product queue and starts the shift clock.")
	postStart.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/{session}/game/end-day
	postEnd, _ := r.NewOperationContext(http.MethodPost, "/api/{session}/game/end-day")
	postEnd.SetSummary("End day")
	postEnd.SetDescription("Settles the running day: applies charges and evaluates game over.")
	postEnd.AddRespStructure(DaySummaryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postEnd)

	// POST /api/{session}/game/focus
	postFocus, _ := r.NewOperationContext(http.MethodPost, "/api/{session}/game/focus")
	postFocus.SetSummary("Focus product")
	postFocus.SetDescription("Points the attention timer at a product; null clears it.")
	postFocus.AddReqStructure(FocusRequest{})
	postFocus.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postFocus.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postFocus)

	// POST /api/{session}/game/inspect
	postInspect, _ := r.NewOperationContext(http.MethodPost, "/api/{session}/game/inspect")
	postInspect.SetSummary("Inspect product")
	postInspect.SetDescription("Reports attention time on a product; reveals defects past the threshold.")
	postInspect.AddReqStructure(InspectRequest{})
	postInspect.AddRespStructure(InspectResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postInspect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postInspect)

	// POST /api/{session}/game/decision
	postDecision, _ := r.NewOperationContext(http.MethodPost, "/api/{session}/game/decision")
	postDecision.SetSummary("Submit decision")
	postDecision.SetDescription("Scores an accept/reject/doubt verdict. A product takes exactly one decision.")
	postDecision.AddReqStructure(DecisionRequest{})
	postDecision.AddRespStructure(DecisionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDecision.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postDecision)

	// POST /api/{session}/game/upgrade
	postUpgrade, _ := r.NewOperationContext(http.MethodPost, "/api/{session}/game/upgrade")
	postUpgrade.SetSummary("Buy upgrade")
	postUpgrade.SetDescription("Debits the upgrade cost and raises its level.")
	postUpgrade.AddReqStructure(UpgradeRequest{})
	postUpgrade.AddRespStructure(UpgradeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUpgrade.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusPaymentRequired))
	_ = r.AddOperation(postUpgrade)

	// POST /api/{session}/game/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/{session}/game/reset")
	postReset.SetSummary("Reset game")
	postReset.SetDescription("Returns the session to a fresh game; score history is kept.")
	postReset.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postReset)

	// GET /api/{session}/game/scores
	getLocal, _ := r.NewOperationContext(http.MethodGet, "/api/{session}/game/scores")
	getLocal.SetSummary("Local score history")
	getLocal.SetDescription("Returns the session's finished games, newest first, at most 10.")
	getLocal.AddRespStructure([]qc.ScoreRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLocal)

	// GET /api/{session}/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/{session}/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of state-changed and game-over events.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/{session}/events
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/{session}/events")
	getWS.SetSummary("WebSocket event stream")
	getWS.SetDescription("Upgrades to a WebSocket carrying the same events as the SSE stream.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /scores/scores.json
	getScores, _ := r.NewOperationContext(http.MethodGet, "/scores/scores.json")
	getScores.SetSummary("List leaderboard")
	getScores.SetDescription("Returns all leaderboard records, best score first. Empty array when none.")
	getScores.AddRespStructure([]qc.ScoreRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getScores)

	// POST /scores/scores.json
	postScores, _ := r.NewOperationContext(http.MethodPost, "/scores/scores.json")
	postScores.SetSummary("Save score")
	postScores.SetDescription("Appends a score record, sorts descending by score and keeps the top 100.")
	postScores.AddReqStructure(qc.ScoreRecord{})
	postScores.AddRespStructure(SaveScoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postScores)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
