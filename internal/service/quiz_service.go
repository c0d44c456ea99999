package service

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
)

const quizCategoriesCacheKey = "quizzes:categories"
const categoriesCacheTTL = 10 * time.Minute

// QuizService serves the quiz catalog and admin imports.
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
}

// NewQuizService creates a new quiz service.
func NewQuizService(quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository, cacheRepo repository.CacheRepository) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
	}
}

// ListQuizzes returns a page of quizzes, optionally filtered by category.
func (s *QuizService) ListQuizzes(category string, page, pageSize int) ([]entity.Quiz, int64, error) {
	limit, offset := pageToLimitOffset(page, pageSize)
	if category != "" {
		return s.quizRepo.ListByCategory(category, limit, offset)
	}
	return s.quizRepo.List(limit, offset)
}

// GetQuizByID returns a quiz by ID.
func (s *QuizService) GetQuizByID(quizID string) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(quizID)
}

// GetQuestions returns the quiz's questions in the order players see them.
func (s *QuizService) GetQuestions(quizID string) ([]entity.Question, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByQuizID(quizID)
}

// ListCategories returns the distinct quiz categories, cached briefly.
func (s *QuizService) ListCategories() ([]string, error) {
	var categories []string
	if err := s.cacheRepo.GetJSON(quizCategoriesCacheKey, &categories); err == nil {
		return categories, nil
	}

	categories, err := s.quizRepo.ListCategories()
	if err != nil {
		return nil, err
	}
	if err := s.cacheRepo.SetJSON(quizCategoriesCacheKey, categories, categoriesCacheTTL); err != nil {
		log.Printf("[QuizService] category cache write failed: %v", err)
	}
	return categories, nil
}

// CreateQuiz creates a quiz with its questions. Admin only at the transport
// layer.
func (s *QuizService) CreateQuiz(title, category, coverImage string, questions []entity.Question) (*entity.Quiz, error) {
	title = strings.TrimSpace(title)
	if len(title) < 3 {
		return nil, fmt.Errorf("%w: title must be at least 3 characters", apperrors.ErrValidation)
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Description) == "" {
			return nil, fmt.Errorf("%w: question %d has no description", apperrors.ErrValidation, i+1)
		}
		if q.CorrectOption() < 0 {
			return nil, fmt.Errorf("%w: question %d has no correct option", apperrors.ErrValidation, i+1)
		}
	}

	quiz := &entity.Quiz{
		Title:      title,
		Category:   strings.TrimSpace(category),
		CoverImage: coverImage,
		Questions:  questions,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}

	// The category list may have changed.
	if err := s.cacheRepo.Delete(quizCategoriesCacheKey); err != nil {
		log.Printf("[QuizService] category cache invalidation failed: %v", err)
	}
	return quiz, nil
}

// ImportQuizzesFromExcel reads an .xlsx workbook and creates one quiz per
// distinct title. Expected columns, first sheet, header row skipped:
//
//	A quiz title | B category | C question | D media URL |
//	E..H options | I correct option number (1-based)
func (s *QuizService) ImportQuizzesFromExcel(r io.Reader) ([]entity.Quiz, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid xlsx file", apperrors.ErrValidation)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrValidation)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: workbook has no data rows", apperrors.ErrValidation)
	}

	type draft struct {
		quiz  *entity.Quiz
		order int
	}
	drafts := map[string]*draft{}

	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) < 9 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want 9", apperrors.ErrValidation, rowNum, len(row))
		}

		title := strings.TrimSpace(row[0])
		if title == "" {
			continue // blank separator row
		}

		correctIdx, err := strconv.Atoi(strings.TrimSpace(row[8]))
		if err != nil || correctIdx < 1 || correctIdx > 4 {
			return nil, fmt.Errorf("%w: row %d correct option must be 1-4", apperrors.ErrValidation, rowNum)
		}

		options := make(entity.OptionList, 0, 4)
		for j, cell := range row[4:8] {
			text := strings.TrimSpace(cell)
			if text == "" {
				continue
			}
			options = append(options, entity.Option{
				Text:    text,
				Correct: j == correctIdx-1,
			})
		}
		if len(options) < 2 {
			return nil, fmt.Errorf("%w: row %d needs at least 2 options", apperrors.ErrValidation, rowNum)
		}

		d, ok := drafts[title]
		if !ok {
			d = &draft{
				quiz: &entity.Quiz{
					Title:    title,
					Category: strings.TrimSpace(row[1]),
				},
				order: len(drafts),
			}
			drafts[title] = d
		}
		d.quiz.Questions = append(d.quiz.Questions, entity.Question{
			Description: strings.TrimSpace(row[2]),
			Media:       strings.TrimSpace(row[3]),
			Options:     options,
		})
	}

	ordered := make([]*draft, len(drafts))
	for _, d := range drafts {
		ordered[d.order] = d
	}

	created := make([]entity.Quiz, 0, len(ordered))
	for _, d := range ordered {
		quiz, err := s.CreateQuiz(d.quiz.Title, d.quiz.Category, "", d.quiz.Questions)
		if err != nil {
			return created, fmt.Errorf("quiz %q: %w", d.quiz.Title, err)
		}
		created = append(created, *quiz)
	}

	log.Printf("[QuizService] imported %d quizzes from excel", len(created))
	return created, nil
}

func pageToLimitOffset(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}
