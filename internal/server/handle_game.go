package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/qualifab/qcontrol/internal/engine"
	"github.com/qualifab/qcontrol/internal/i18n"
	"github.com/qualifab/qcontrol/internal/qc"
)

// DefectView is a revealed defect as shown to the player. Hidden defects
// never leave the engine; the response carries only their count.
type DefectView struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

type ProductView struct {
	ID               string       `json:"id"`
	Type             string       `json:"type"`
	Name             string       `json:"name"`
	Value            float64      `json:"value"`
	InspectionTimeMs int64        `json:"inspectionTimeMs"`
	RevealedDefects  []DefectView `json:"revealedDefects"`
	DefectCount      int          `json:"defectCount"`
	Inspected        bool         `json:"inspected"`
	Accepted         *bool        `json:"accepted"`
}

type GameStateResponse struct {
	Phase      string                 `json:"phase"`
	Day        int                    `json:"day"`
	Money      float64                `json:"money"`
	TimeLeftMs int64                  `json:"timeLeftMs"`
	Stats      qc.Stats               `json:"stats"`
	Upgrades   map[qc.UpgradeKind]int `json:"upgrades"`
	Products   []ProductView          `json:"products"`
}

// requestLanguage picks the display language from the lang query parameter,
// defaulting to the translator's fallback.
func requestLanguage(r *http.Request, tr *i18n.Translator) string {
	lang := r.URL.Query().Get("lang")
	if tr.Supported(lang) {
		return lang
	}
	return i18n.FallbackLanguage
}

func stateResponse(snap engine.Snapshot, tr *i18n.Translator, lang string) GameStateResponse {
	products := make([]ProductView, 0, len(snap.Products))
	for _, p := range snap.Products {
		view := ProductView{
			ID:               p.ID,
			Type:             string(p.Type),
			Name:             tr.Get(lang, p.NameKey, nil),
			Value:            p.Value,
			InspectionTimeMs: p.InspectionTime.Milliseconds(),
			RevealedDefects:  []DefectView{},
			DefectCount:      len(p.Defects),
			Inspected:        p.Inspected,
			Accepted:         p.Accepted,
		}
		for _, d := range p.Defects {
			if d.Revealed {
				view.RevealedDefects = append(view.RevealedDefects, DefectView{
					Name:     tr.Get(lang, d.NameKey, nil),
					Severity: string(d.Severity),
				})
			}
		}
		products = append(products, view)
	}

	return GameStateResponse{
		Phase:      string(snap.Phase),
		Day:        snap.Day,
		Money:      snap.Money,
		TimeLeftMs: snap.TimeLeft,
		Stats:      snap.Stats,
		Upgrades:   snap.Upgrades,
		Products:   products,
	}
}

func handleGameState(tr *i18n.Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng := sessionEngine(r)
		lang := requestLanguage(r, tr)
		writeJSON(w, http.StatusOK, stateResponse(eng.Snapshot(), tr, lang))
	}
}

func handleStartDay(logger *slog.Logger, store *SessionStore, tr *i18n.Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng := sessionEngine(r)
		if err := eng.StartDay(); err != nil {
			writeEngineError(w, err)
			return
		}
		saveSession(r, logger, store, eng)

		lang := requestLanguage(r, tr)
		writeJSON(w, http.StatusOK, stateResponse(eng.Snapshot(), tr, lang))
	}
}

// DaySummaryResponse wraps the settlement figures with their translated
// screen title.
type DaySummaryResponse struct {
	engine.DaySummary
	Title string `json:"title"`
}

func handleEndDay(logger *slog.Logger, store *SessionStore, tr *i18n.Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng := sessionEngine(r)
		sum, err := eng.EndDay()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		saveSession(r, logger, store, eng)

		lang := requestLanguage(r, tr)
		writeJSON(w, http.StatusOK, DaySummaryResponse{
			DaySummary: sum,
			Title: tr.Get(lang, "screen.dayEnd.title", map[string]string{
				"day": strconv.Itoa(sum.Day),
			}),
		})
	}
}

func handleReset(logger *slog.Logger, store *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng := sessionEngine(r)
		eng.Reset()
		saveSession(r, logger, store, eng)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
