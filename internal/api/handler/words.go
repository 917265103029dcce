package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/preferences"
	"github.com/mcoot/partygames/internal/services/words"
)

// maxWordLimit caps the limit query parameter
const maxWordLimit = 500

// WordsHandler exposes the word lists with the same fallback chain the
// games use
type WordsHandler struct {
	words       *words.Service
	preferences *preferences.Service
}

// NewWordsHandler creates a new words handler
func NewWordsHandler(wordSvc *words.Service, prefs *preferences.Service) *WordsHandler {
	return &WordsHandler{
		words:       wordSvc,
		preferences: prefs,
	}
}

// Pairs handles GET /api/v1/words/pairs
func (h *WordsHandler) Pairs(w http.ResponseWriter, r *http.Request) {
	limit, locale, err := h.listParams(r, words.DefaultPairLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	pairs, source := h.words.WordPairs(r.Context(), limit, locale)
	response.JSON(w, http.StatusOK, response.WordPairs{
		Locale: locale,
		Source: source,
		Pairs:  pairs,
	})
}

// Charades handles GET /api/v1/words/charades
func (h *WordsHandler) Charades(w http.ResponseWriter, r *http.Request) {
	limit, locale, err := h.listParams(r, model.CharadesWordLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	list, source := h.words.CharadesWords(r.Context(), words.CharadesQuery{
		Limit:      limit,
		Locale:     locale,
		Category:   r.URL.Query().Get("category"),
		Difficulty: r.URL.Query().Get("difficulty"),
	})
	response.JSON(w, http.StatusOK, response.Words{
		Locale: locale,
		Source: source,
		Words:  list,
	})
}

// Synonyms handles GET /api/v1/words/synonyms
func (h *WordsHandler) Synonyms(w http.ResponseWriter, r *http.Request) {
	limit, locale, err := h.listParams(r, model.SynonymsWordLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	list, source := h.words.SynonymsWords(r.Context(), limit, locale)
	response.JSON(w, http.StatusOK, response.Words{
		Locale: locale,
		Source: source,
		Words:  list,
	})
}

// listParams reads limit and locale, defaulting the locale to the
// profile's preference
func (h *WordsHandler) listParams(r *http.Request, defaultLimit int) (int, string, error) {
	q := r.URL.Query()

	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxWordLimit {
			return 0, "", NewInvalidRequestError("limit must be between 1 and 500")
		}
		limit = n
	}

	locale := model.NormalizeLocale(q.Get("locale"))
	if locale == "" {
		locale = h.preferences.Locale(r.Context(), q.Get("profile"))
	}
	if !model.IsSupportedLocale(locale) {
		return 0, "", model.ErrInvalidLocale
	}
	return limit, locale, nil
}
