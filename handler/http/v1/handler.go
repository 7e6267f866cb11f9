package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maarifa/src/core/knowledge"
	"maarifa/src/storage/postgres/interactionctrl"
)

type Handler struct {
	searchService knowledge.SearchService
	indexService  knowledge.IndexService
	sysService    knowledge.SystemService
	interactions  *interactionctrl.InteractionService
}

func NewHandler(searchService knowledge.SearchService, indexService knowledge.IndexService, sysService knowledge.SystemService, interactions *interactionctrl.InteractionService) *Handler {
	return &Handler{
		searchService: searchService,
		indexService:  indexService,
		sysService:    sysService,
		interactions:  interactions,
	}
}

// RegisterRoutes registers all v1 API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Search routes
	v1.POST("/search", h.Search)
	v1.GET("/suggest", h.Suggest)

	// Index routes
	v1.POST("/index/rebuild", h.RebuildIndex)
	v1.POST("/index/records", h.UpsertRecord)

	// System routes
	v1.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	code := "INTERNAL_ERROR"
	switch {
	case errors.Is(err, knowledge.ErrRecordInvalid):
		code = "RECORD_INVALID"
		status = http.StatusBadRequest
	case errors.Is(err, knowledge.ErrRecordNotFound):
		code = "NOT_FOUND"
		status = http.StatusNotFound
	case errors.Is(err, knowledge.ErrSearchFailed):
		code = "SEARCH_FAILED"
		status = http.StatusServiceUnavailable
	case status == http.StatusBadRequest:
		code = "BAD_REQUEST"
	default:
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
