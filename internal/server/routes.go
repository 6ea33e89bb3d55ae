package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/qualifab/qcontrol/internal/i18n"
	"github.com/qualifab/qcontrol/internal/scores"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Sessions    *Registry
	Store       *SessionStore
	Leaderboard *scores.Store
	Translator  *i18n.Translator
	Broker      *Broker

	SPADir            string
	AdminPasswordHash string
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Quality Control API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.Store, deps.Leaderboard))

	// Leaderboard keeps its legacy path and contract for existing clients.
	r.Get("/scores/scores.json", handleListLeaderboard(logger, deps.Leaderboard))
	r.Post("/scores/scores.json", handleSaveScore(logger, deps.Leaderboard))
	r.Delete("/api/admin/scores", handleClearLeaderboard(logger, deps.Leaderboard, deps.AdminPasswordHash))

	r.Post("/api/sessions", handleCreateSession(logger, deps.Sessions))

	// {session} is resolved by sessionMiddleware.
	r.Route("/api/{session}/game", func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Sessions))
		r.Get("/state", handleGameState(deps.Translator))
		r.Post("/start-day", handleStartDay(logger, deps.Store, deps.Translator))
		r.Post("/end-day", handleEndDay(logger, deps.Store, deps.Translator))
		r.Post("/focus", handleFocus())
		r.Post("/inspect", handleInspect(logger, deps.Store))
		r.Post("/decision", handleDecision(logger, deps.Store, deps.Translator))
		r.Post("/upgrade", handleBuyUpgrade(logger, deps.Store))
		r.Post("/reset", handleReset(logger, deps.Store))
		r.Get("/scores", handleLocalScores())
		r.Get("/events", handleEvents(deps.Broker))
	})

	r.Route("/ws/{session}", func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Sessions))
		r.Get("/events", handleWSEvents(logger, deps.Broker))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
