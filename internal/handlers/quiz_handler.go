package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strconv"

	"vocabdrill/internal/quiz"
	"vocabdrill/internal/service"
	"vocabdrill/internal/words"
)

const menuRangeSize = 50

// QuizHandler drives the free-text quiz pages
type QuizHandler struct {
	quizService  *service.QuizService
	statsService *service.StatsService
	table        *words.Table
	middleware   *Middleware
	templates    *template.Template
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService *service.QuizService, statsService *service.StatsService, table *words.Table, middleware *Middleware, templates *template.Template) *QuizHandler {
	return &QuizHandler{
		quizService:  quizService,
		statsService: statsService,
		table:        table,
		middleware:   middleware,
		templates:    templates,
	}
}

// ShowMenu renders the main menu
func (h *QuizHandler) ShowMenu(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	dir, err := h.quizService.Direction(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load direction", err)
		return
	}

	slots, err := h.quizService.SavedSlots(user.ID, false)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load saved sessions", err)
		return
	}

	hasActive, err := h.quizService.HasActiveSession(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load session state", err)
		return
	}

	ranking, err := h.statsService.WeeklyRanking()
	if err != nil {
		// The menu is still usable without the leaderboard
		log.Printf("Failed to load ranking: %v", err)
	}

	data := MenuViewData{
		Title:      "Menu - VocabDrill",
		User:       user,
		Direction:  dir,
		Ranges:     h.table.Ranges(menuRangeSize),
		SavedSlots: h.slotViews(slots),
		HasActive:  hasActive,
		Ranking:    ranking,
		CSRFToken:  h.middleware.CSRFToken(r),
	}
	h.render(w, "menu.tmpl", data)
}

// SetDirection switches the translation direction and returns to the menu
func (h *QuizHandler) SetDirection(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	dir := quiz.Direction(r.FormValue("dir"))
	if err := h.quizService.SetDirection(user.ID, dir); err != nil {
		respondWithError(w, http.StatusBadRequest, "Unknown direction", "Failed to set direction", err)
		return
	}
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

// StartRandom begins a random-order session over the whole table
func (h *QuizHandler) StartRandom(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if seedStr := r.FormValue("seed"); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid seed", "", err)
			return
		}
		if err := h.quizService.StartRandomSeeded(user.ID, seed); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start seeded quiz", err)
			return
		}
	} else if err := h.quizService.Start(user.ID, quiz.Random()); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start quiz", err)
		return
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// StartRange begins an in-order session over a 1-based word range
func (h *QuizHandler) StartRange(w http.ResponseWriter, r *http.Request) {
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

	if err := h.quizService.Start(user.ID, quiz.Detailed(start, end)); err != nil {
		if errors.Is(err, quiz.ErrInvalidCategoryParams) {
			respondWithError(w, http.StatusBadRequest, "Invalid range", "", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start range quiz", err)
		return
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// StartRetry begins a session over the accumulated mistakes
func (h *QuizHandler) StartRetry(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.quizService.Start(user.ID, quiz.Retry()); err != nil {
		if errors.Is(err, quiz.ErrNoMistakesAvailable) {
			http.Redirect(w, r, "/menu", http.StatusSeeOther)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start retry quiz", err)
		return
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// Resume restores a suspended session
func (h *QuizHandler) Resume(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	slot := r.PathValue("slot")

	if err := h.quizService.Resume(user.ID, false, slot); err != nil {
		if errors.Is(err, quiz.ErrNoSavedSession) {
			http.Redirect(w, r, "/menu", http.StatusSeeOther)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to resume quiz", err)
		return
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// ShowQuestion renders the current question
func (h *QuizHandler) ShowQuestion(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	question, err := h.quizService.CurrentQuestion(user.ID)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrSessionNotStarted):
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	case errors.Is(err, quiz.ErrSessionExhausted):
		http.Redirect(w, r, "/quiz/result", http.StatusSeeOther)
		return
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load question", err)
		return
	}

	data := QuestionViewData{
		Title:     "Quiz - VocabDrill",
		User:      user,
		Question:  question,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	h.render(w, "question.tmpl", data)
}

// SubmitAnswer grades the current question and shows feedback
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	feedback, err := h.quizService.SubmitAnswer(user.ID, r.FormValue("answer"))
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrSessionNotStarted):
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	case errors.Is(err, quiz.ErrSessionExhausted):
		http.Redirect(w, r, "/quiz/result", http.StatusSeeOther)
		return
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to grade answer", err)
		return
	}

	question, err := h.quizService.CurrentQuestion(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to reload question", err)
		return
	}

	data := QuestionViewData{
		Title:     "Quiz - VocabDrill",
		User:      user,
		Question:  question,
		Feedback:  feedback,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	h.render(w, "question.tmpl", data)
}

// Advance moves past the feedback screen
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	exhausted, err := h.quizService.Advance(user.ID)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrSessionNotStarted):
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to advance", err)
		return
	}

	if exhausted {
		http.Redirect(w, r, "/quiz/result", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// ShowResult completes the session and renders its score
func (h *QuizHandler) ShowResult(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	result, err := h.quizService.Finish(user.ID)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrSessionNotStarted):
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to finish quiz", err)
		return
	}

	data := ResultViewData{
		Title:       "Result - VocabDrill",
		User:        user,
		Result:      result,
		MissedWords: h.wordViews(missedWords(result.Missed)),
		CSRFToken:   h.middleware.CSRFToken(r),
	}
	h.render(w, "result.tmpl", data)
}

// ShowProgress renders the mid-session score
func (h *QuizHandler) ShowProgress(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	progress, err := h.quizService.Progress(user.ID)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrSessionNotStarted):
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progress", err)
		return
	}

	data := ProgressViewData{
		Title:    "Progress - VocabDrill",
		User:     user,
		Progress: progress,
	}
	h.render(w, "progress.tmpl", data)
}

// Suspend saves the session for later and returns to the menu
func (h *QuizHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.quizService.Suspend(user.ID); err != nil && !errors.Is(err, quiz.ErrSessionNotStarted) {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to suspend quiz", err)
		return
	}
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

// Abandon drops the session without saving
func (h *QuizHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.quizService.Abandon(user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to abandon quiz", err)
		return
	}
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

// Reset wipes all quiz state for the user
func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.quizService.ResetAll(user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to reset", err)
		return
	}
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

func (h *QuizHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

func (h *QuizHandler) slotViews(slots map[string]*quiz.Snapshot) []SavedSlotView {
	var views []SavedSlotView
	for slot, snap := range slots {
		views = append(views, SavedSlotView{
			Slot:     slot,
			Label:    slotLabel(slot),
			Position: snap.Position,
			Total:    h.snapshotTotal(snap),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Slot < views[j].Slot })
	return views
}

func (h *QuizHandler) snapshotTotal(snap *quiz.Snapshot) int {
	switch {
	case len(snap.Rows) > 0:
		return len(snap.Rows)
	case len(snap.Entries) > 0:
		return len(snap.Entries)
	default:
		return h.table.Count()
	}
}

func (h *QuizHandler) wordViews(indices []int) []WordView {
	var views []WordView
	for _, idx := range indices {
		entry, ok := h.table.Word(idx)
		if !ok {
			continue
		}
		views = append(views, WordView{
			Index:    idx,
			Number:   idx + 1,
			English:  entry.English,
			Japanese: entry.Japanese,
		})
	}
	return views
}

func slotLabel(slot string) string {
	switch slot {
	case quiz.SlotRandom:
		return "Random order"
	case quiz.SlotReview:
		return "Mistake review"
	default:
		if start, end, err := quiz.ParseRangeKey(slot); err == nil {
			return "Words " + strconv.Itoa(start) + " to " + strconv.Itoa(end)
		}
		return slot
	}
}

func missedWords(entries []quiz.MistakeEntry) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, e := range entries {
		if _, dup := seen[e.Word]; dup {
			continue
		}
		seen[e.Word] = struct{}{}
		out = append(out, e.Word)
	}
	sort.Ints(out)
	return out
}
