package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maarifa/src/core/knowledge"
)

type rebuildRequest struct {
	Force bool `json:"force"`
}

// RebuildIndex godoc
// @Summary Rebuild the retrieval indexes from the corpus
// @Tags index
// @Accept json
// @Produce json
// @Param body body rebuildRequest false "Rebuild parameters"
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /index/rebuild [post]
func (h *Handler) RebuildIndex(c *gin.Context) {
	var req rebuildRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			sendError(c, http.StatusBadRequest, err)
			return
		}
	}

	if err := h.indexService.Rebuild(c.Request.Context(), req.Force); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, gin.H{"status": "rebuilt"})
}

// UpsertRecord godoc
// @Summary Add or replace one record in the live indexes
// @Tags index
// @Accept json
// @Produce json
// @Param body body knowledge.Record true "Record to index"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /index/records [post]
func (h *Handler) UpsertRecord(c *gin.Context) {
	var record knowledge.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	if err := h.indexService.Upsert(c.Request.Context(), record); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, gin.H{"status": "indexed", "id": record.ID})
}
