package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/semiologia/semiologia-api/internal/handler/dto"
	"github.com/semiologia/semiologia-api/internal/service"
)

// StudyHandler serves the read-only study material endpoints.
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study content handler.
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// ListSummaries handles GET /api/summaries?category=&page=&page_size=.
func (h *StudyHandler) ListSummaries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	summaries, total, err := h.studyService.ListSummaries(c.Query("category"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryListResponse(summaries, total, page))
}

// SummaryCategories handles GET /api/summaries/categories.
func (h *StudyHandler) SummaryCategories(c *gin.Context) {
	categories, err := h.studyService.ListSummaryCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListMindmaps handles GET /api/mindmaps?category=&page=&page_size=.
func (h *StudyHandler) ListMindmaps(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	mindmaps, total, err := h.studyService.ListMindmaps(c.Query("category"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMindmapListResponse(mindmaps, total, page))
}

// MindmapCategories handles GET /api/mindmaps/categories.
func (h *StudyHandler) MindmapCategories(c *gin.Context) {
	categories, err := h.studyService.ListMindmapCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
