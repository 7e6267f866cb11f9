package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"maarifa/src/core/knowledge"
	"maarifa/src/core/textnorm"
	"maarifa/src/log"
)

type searchRequest struct {
	Query         string                  `json:"query" binding:"required"`
	Language      string                  `json:"language"`
	Filters       knowledge.SearchFilters `json:"filters"`
	UseEmbeddings *bool                   `json:"useEmbeddings"`
	Limit         int                     `json:"limit"`
}

// Search godoc
// @Summary Search the knowledge corpus
// @Tags search
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session identifier"
// @Param body body searchRequest true "Search parameters"
// @Success 200 {object} knowledge.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /search [post]
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	// Embeddings are on unless the caller opts out.
	useEmbeddings := true
	if req.UseEmbeddings != nil {
		useEmbeddings = *req.UseEmbeddings
	}

	resp, err := h.searchService.Search(c.Request.Context(), knowledge.SearchRequest{
		Query:         req.Query,
		Language:      textnorm.Language(req.Language),
		Filters:       req.Filters,
		UseEmbeddings: useEmbeddings,
		Limit:         req.Limit,
	})
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	h.logInteraction(c, req.Query, resp)

	sendJSON(c, http.StatusOK, resp)
}

// Suggest godoc
// @Summary Autocomplete question suggestions
// @Tags search
// @Produce json
// @Param q query string true "Partial question text"
// @Param language query string false "Language filter (en or ar)"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /suggest [get]
func (h *Handler) Suggest(c *gin.Context) {
	partial := c.Query("q")
	lang := textnorm.Language(c.Query("language"))

	suggestions, err := h.searchService.Suggest(c.Request.Context(), partial, lang)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, gin.H{"suggestions": suggestions})
}

// logInteraction records the search asynchronously so a slow or failing
// database write never delays the response.
func (h *Handler) logInteraction(c *gin.Context, query string, resp *knowledge.SearchResponse) {
	if h.interactions == nil {
		return
	}

	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	matchedIDs := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		matchedIDs = append(matchedIDs, r.RecordID)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.interactions.Record(ctx, sessionID, query, string(resp.Language), matchedIDs); err != nil {
			log.Error(err, "failed to record search interaction", "sessionID", sessionID)
		}
	}()
}
