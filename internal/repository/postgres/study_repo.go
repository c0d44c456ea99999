package postgres

import (
	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// SummaryRepo implements repository.SummaryRepository.
type SummaryRepo struct {
	db *gorm.DB
}

// NewSummaryRepo creates a new summary repository.
func NewSummaryRepo(db *gorm.DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

// List returns summaries newest first with the total count.
func (r *SummaryRepo) List(limit, offset int) ([]entity.Summary, int64, error) {
	return listSummaries(r.db, limit, offset)
}

// ListByCategory returns summaries of one category newest first.
func (r *SummaryRepo) ListByCategory(category string, limit, offset int) ([]entity.Summary, int64, error) {
	return listSummaries(r.db.Where("category = ?", category), limit, offset)
}

func listSummaries(q *gorm.DB, limit, offset int) ([]entity.Summary, int64, error) {
	var summaries []entity.Summary
	var total int64

	if err := q.Model(&entity.Summary{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&summaries).Error
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// ListCategories returns the distinct non-empty summary categories.
func (r *SummaryRepo) ListCategories() ([]string, error) {
	var categories []string
	err := r.db.Model(&entity.Summary{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// MindmapRepo implements repository.MindmapRepository.
type MindmapRepo struct {
	db *gorm.DB
}

// NewMindmapRepo creates a new mindmap repository.
func NewMindmapRepo(db *gorm.DB) *MindmapRepo {
	return &MindmapRepo{db: db}
}

// List returns mind maps newest first with the total count.
func (r *MindmapRepo) List(limit, offset int) ([]entity.Mindmap, int64, error) {
	return listMindmaps(r.db, limit, offset)
}

// ListByCategory returns mind maps of one category newest first.
func (r *MindmapRepo) ListByCategory(category string, limit, offset int) ([]entity.Mindmap, int64, error) {
	return listMindmaps(r.db.Where("category = ?", category), limit, offset)
}

func listMindmaps(q *gorm.DB, limit, offset int) ([]entity.Mindmap, int64, error) {
	var mindmaps []entity.Mindmap
	var total int64

	if err := q.Model(&entity.Mindmap{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&mindmaps).Error
	if err != nil {
		return nil, 0, err
	}
	return mindmaps, total, nil
}

// ListCategories returns the distinct non-empty mind map categories.
func (r *MindmapRepo) ListCategories() ([]string, error) {
	var categories []string
	err := r.db.Model(&entity.Mindmap{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}
