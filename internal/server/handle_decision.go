package server

import (
	"log/slog"
	"net/http"

	"github.com/qualifab/qcontrol/internal/i18n"
	"github.com/qualifab/qcontrol/internal/qc"
)

type DecisionRequest struct {
	ProductID string `json:"productId"`
	Decision  string `json:"decision"`
}

// DecisionResponse carries the scored verdict plus the translated feedback
// line for the popup.
type DecisionResponse struct {
	Correct     bool    `json:"correct"`
	FeedbackKey string  `json:"feedbackKey"`
	Feedback    string  `json:"feedback"`
	Revenue     float64 `json:"revenue"`
}

func handleDecision(logger *slog.Logger, store *SessionStore, tr *i18n.Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DecisionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ProductID == "" || req.Decision == "" {
			writeError(w, http.StatusBadRequest, "productId and decision are required")
			return
		}

		eng := sessionEngine(r)
		res, err := eng.ValidateDecision(req.ProductID, qc.Decision(req.Decision))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		saveSession(r, logger, store, eng)

		lang := requestLanguage(r, tr)
		writeJSON(w, http.StatusOK, DecisionResponse{
			Correct:     res.Correct,
			FeedbackKey: res.FeedbackKey,
			Feedback:    tr.Get(lang, res.FeedbackKey, nil),
			Revenue:     res.Revenue,
		})
	}
}
