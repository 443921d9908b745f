package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"vocabdrill/internal/words"
)

const suggestLimit = 10

// WordsHandler serves word search and autocomplete
type WordsHandler struct {
	table     *words.Table
	templates *template.Template
}

// NewWordsHandler creates a new words handler
func NewWordsHandler(table *words.Table, templates *template.Template) *WordsHandler {
	return &WordsHandler{table: table, templates: templates}
}

// Search renders the search page with any matching words
func (h *WordsHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	query := r.URL.Query().Get("q")

	data := SearchViewData{
		Title: "Search - VocabDrill",
		User:  user,
		Query: query,
	}
	if query != "" {
		data.Results = h.table.Search(query)
	}

	if err := h.templates.ExecuteTemplate(w, "search.tmpl", data); err != nil {
		log.Printf("Error rendering search.tmpl: %v", err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// Suggest returns autocomplete candidates as JSON
func (h *WordsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")

	suggestions := h.table.Suggest(prefix, suggestLimit)
	if suggestions == nil {
		suggestions = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(suggestions); err != nil {
		log.Printf("Error encoding suggestions: %v", err)
	}
}
