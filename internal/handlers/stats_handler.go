package handlers

import (
	"html/template"
	"log"
	"net/http"

	"vocabdrill/internal/service"
)

// StatsHandler serves the rankings and personal progress page
type StatsHandler struct {
	statsService *service.StatsService
	templates    *template.Template
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService, templates *template.Template) *StatsHandler {
	return &StatsHandler{statsService: statsService, templates: templates}
}

// ShowStats renders the weekly ranking and the user's daily progress
func (h *StatsHandler) ShowStats(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	ranking, err := h.statsService.WeeklyRanking()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load ranking", err)
		return
	}

	progress, err := h.statsService.WeeklyProgress(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progress", err)
		return
	}

	data := StatsViewData{
		Title:    "Stats - VocabDrill",
		User:     user,
		Ranking:  ranking,
		Progress: progress,
	}
	if err := h.templates.ExecuteTemplate(w, "stats.tmpl", data); err != nil {
		log.Printf("Error rendering stats.tmpl: %v", err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
