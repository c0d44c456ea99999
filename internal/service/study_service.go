package service

import (
	"log"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
)

const (
	summaryCategoriesCacheKey = "summaries:categories"
	mindmapCategoriesCacheKey = "mindmaps:categories"
)

// StudyService serves the read-only study material: summaries and mind maps.
type StudyService struct {
	summaryRepo repository.SummaryRepository
	mindmapRepo repository.MindmapRepository
	cacheRepo   repository.CacheRepository
}

// NewStudyService creates a new study content service.
func NewStudyService(summaryRepo repository.SummaryRepository, mindmapRepo repository.MindmapRepository, cacheRepo repository.CacheRepository) *StudyService {
	return &StudyService{
		summaryRepo: summaryRepo,
		mindmapRepo: mindmapRepo,
		cacheRepo:   cacheRepo,
	}
}

// ListSummaries returns a page of summaries, optionally filtered by category.
func (s *StudyService) ListSummaries(category string, page, pageSize int) ([]entity.Summary, int64, error) {
	limit, offset := pageToLimitOffset(page, pageSize)
	if category != "" {
		return s.summaryRepo.ListByCategory(category, limit, offset)
	}
	return s.summaryRepo.List(limit, offset)
}

// ListSummaryCategories returns the distinct summary categories, cached briefly.
func (s *StudyService) ListSummaryCategories() ([]string, error) {
	return s.cachedCategories(summaryCategoriesCacheKey, s.summaryRepo.ListCategories)
}

// ListMindmaps returns a page of mind maps, optionally filtered by category.
func (s *StudyService) ListMindmaps(category string, page, pageSize int) ([]entity.Mindmap, int64, error) {
	limit, offset := pageToLimitOffset(page, pageSize)
	if category != "" {
		return s.mindmapRepo.ListByCategory(category, limit, offset)
	}
	return s.mindmapRepo.List(limit, offset)
}

// ListMindmapCategories returns the distinct mind map categories, cached briefly.
func (s *StudyService) ListMindmapCategories() ([]string, error) {
	return s.cachedCategories(mindmapCategoriesCacheKey, s.mindmapRepo.ListCategories)
}

func (s *StudyService) cachedCategories(key string, load func() ([]string, error)) ([]string, error) {
	var categories []string
	if err := s.cacheRepo.GetJSON(key, &categories); err == nil {
		return categories, nil
	}

	categories, err := load()
	if err != nil {
		return nil, err
	}
	if err := s.cacheRepo.SetJSON(key, categories, categoriesCacheTTL); err != nil {
		log.Printf("[StudyService] category cache write failed key=%s: %v", key, err)
	}
	return categories, nil
}
