package repository

import (
	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// SummaryRepository defines read operations for study summaries.
type SummaryRepository interface {
	List(limit, offset int) ([]entity.Summary, int64, error)
	ListByCategory(category string, limit, offset int) ([]entity.Summary, int64, error)
	ListCategories() ([]string, error)
}

// MindmapRepository defines read operations for mind maps.
type MindmapRepository interface {
	List(limit, offset int) ([]entity.Mindmap, int64, error)
	ListByCategory(category string, limit, offset int) ([]entity.Mindmap, int64, error)
	ListCategories() ([]string, error)
}
