package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"vocabdrill/internal/quiz"
	"vocabdrill/internal/service"
	"vocabdrill/internal/words"
)

// RoughHandler drives the multiple-choice skim mode
type RoughHandler struct {
	quizService *service.QuizService
	table       *words.Table
	middleware  *Middleware
	templates   *template.Template
}

// NewRoughHandler creates a new rough mode handler
func NewRoughHandler(quizService *service.QuizService, table *words.Table, middleware *Middleware, templates *template.Template) *RoughHandler {
	return &RoughHandler{
		quizService: quizService,
		table:       table,
		middleware:  middleware,
		templates:   templates,
	}
}

// ShowMenu renders the rough mode menu
func (h *RoughHandler) ShowMenu(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	dir, err := h.quizService.Direction(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load direction", err)
		return
	}

	slots, err := h.quizService.SavedSlots(user.ID, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load saved sessions", err)
		return
	}

	var views []SavedSlotView
	for slot, snap := range slots {
		views = append(views, SavedSlotView{
			Slot:     slot,
			Label:    slotLabel(slot),
			Position: snap.Position,
			Total:    h.snapshotTotal(snap),
		})
	}

	data := RoughMenuViewData{
		Title:      "Rough Mode - VocabDrill",
		User:       user,
		Direction:  dir,
		Ranges:     h.table.Ranges(menuRangeSize),
		SavedSlots: views,
		CSRFToken:  h.middleware.CSRFToken(r),
	}
	h.render(w, "rough_menu.tmpl", data)
}

// Start begins a rough session following the current direction
func (h *RoughHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.quizService.Start(user.ID, quiz.RoughDirectional()); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start rough quiz", err)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// StartRange begins a rough session over a 1-based word range
func (h *RoughHandler) StartRange(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	start, err := strconv.Atoi(r.FormValue("start"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid range", "", err)
		return
	}
	end, err := strconv.Atoi(r.FormValue("end"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid range", "", err)
		return
	}

	if err := h.quizService.Start(user.ID, quiz.RoughRanged(start, end)); err != nil {
		if errors.Is(err, quiz.ErrInvalidCategoryParams) {
			respondWithError(w, http.StatusBadRequest, "Invalid range", "", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start rough range quiz", err)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// StartReview begins a rough session over this visit's mistakes
func (h *RoughHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.quizService.Start(user.ID, quiz.RoughReview()); err != nil {
		if errors.Is(err, quiz.ErrNoMistakesAvailable) {
			http.Redirect(w, r, "/rough", http.StatusSeeOther)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start rough review", err)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// Resume restores a suspended rough session
func (h *RoughHandler) Resume(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	slot := r.PathValue("slot")

	if err := h.quizService.Resume(user.ID, true, slot); err != nil {
		if errors.Is(err, quiz.ErrNoSavedSession) {
			http.Redirect(w, r, "/rough", http.StatusSeeOther)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to resume rough quiz", err)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// Exit leaves rough mode, discarding this visit's temporary mistakes
func (h *RoughHandler) Exit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.quizService.ExitRoughMode(user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to exit rough mode", err)
		return
	}
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

func (h *RoughHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

func (h *RoughHandler) snapshotTotal(snap *quiz.Snapshot) int {
	switch {
	case len(snap.Rows) > 0:
		return len(snap.Rows)
	case len(snap.Entries) > 0:
		return len(snap.Entries)
	default:
		return h.table.Count()
	}
}
