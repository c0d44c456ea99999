package dto

import (
	"time"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// StudyItemResponse is the shared shape of summaries and mind maps.
type StudyItemResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	CoverImage string    `json:"cover_image"`
	FileURL    string    `json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// StudyListResponse is one page of study material.
type StudyListResponse struct {
	Items []StudyItemResponse `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
}

func NewSummaryListResponse(summaries []entity.Summary, total int64, page int) StudyListResponse {
	items := make([]StudyItemResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, StudyItemResponse{
			ID:         s.ID,
			Title:      s.Title,
			Category:   s.Category,
			CoverImage: s.CoverImage,
			FileURL:    s.FileURL,
			CreatedAt:  s.CreatedAt,
		})
	}
	return StudyListResponse{Items: items, Total: total, Page: page}
}

func NewMindmapListResponse(mindmaps []entity.Mindmap, total int64, page int) StudyListResponse {
	items := make([]StudyItemResponse, 0, len(mindmaps))
	for _, m := range mindmaps {
		items = append(items, StudyItemResponse{
			ID:         m.ID,
			Title:      m.Title,
			Category:   m.Category,
			CoverImage: m.CoverImage,
			FileURL:    m.FileURL,
			CreatedAt:  m.CreatedAt,
		})
	}
	return StudyListResponse{Items: items, Total: total, Page: page}
}
