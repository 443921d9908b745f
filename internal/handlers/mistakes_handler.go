package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"vocabdrill/internal/service"
	"vocabdrill/internal/words"
)

// MistakesHandler manages the accumulated mistake list
type MistakesHandler struct {
	quizService *service.QuizService
	table       *words.Table
	middleware  *Middleware
	templates   *template.Template
}

// NewMistakesHandler creates a new mistakes handler
func NewMistakesHandler(quizService *service.QuizService, table *words.Table, middleware *Middleware, templates *template.Template) *MistakesHandler {
	return &MistakesHandler{
		quizService: quizService,
		table:       table,
		middleware:  middleware,
		templates:   templates,
	}
}

// ShowMistakes renders all words the user has ever missed
func (h *MistakesHandler) ShowMistakes(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	indices, err := h.quizService.MistakeWords(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load mistakes", err)
		return
	}

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

	data := MistakesViewData{
		Title:     "Mistakes - VocabDrill",
		User:      user,
		Words:     views,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	if err := h.templates.ExecuteTemplate(w, "mistakes.tmpl", data); err != nil {
		log.Printf("Error rendering mistakes.tmpl: %v", err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// RemoveWord deletes one word from every mistake list and saved session
func (h *MistakesHandler) RemoveWord(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	idx, err := strconv.Atoi(r.FormValue("word"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid word", "", err)
		return
	}

	if err := h.quizService.RemoveWord(user.ID, idx); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to remove word", err)
		return
	}
	http.Redirect(w, r, "/mistakes", http.StatusSeeOther)
}

// RemoveWords deletes a batch of words in one pass
func (h *MistakesHandler) RemoveWords(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	var indices []int
	for _, raw := range r.Form["words"] {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid word", "", err)
			return
		}
		indices = append(indices, idx)
	}

	if len(indices) > 0 {
		if err := h.quizService.RemoveWords(user.ID, indices); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to remove words", err)
			return
		}
	}
	http.Redirect(w, r, "/mistakes", http.StatusSeeOther)
}
