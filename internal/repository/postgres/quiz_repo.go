package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
)

// QuizRepo implements repository.QuizRepository.
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo creates a new quiz repository.
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create inserts a new quiz, including any attached questions.
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID returns a quiz by ID.
func (r *QuizRepo) GetByID(id string) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithQuestions returns a quiz with its questions in creation order.
func (r *QuizRepo) GetWithQuestions(id string) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.created_at ASC")
		}).
		First(&quiz, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// List returns quizzes newest first with the total count.
func (r *QuizRepo) List(limit, offset int) ([]entity.Quiz, int64, error) {
	return r.list(r.db, limit, offset)
}

// ListByCategory returns quizzes of one category newest first.
func (r *QuizRepo) ListByCategory(category string, limit, offset int) ([]entity.Quiz, int64, error) {
	return r.list(r.db.Where("category = ?", category), limit, offset)
}

func (r *QuizRepo) list(q *gorm.DB, limit, offset int) ([]entity.Quiz, int64, error) {
	var quizzes []entity.Quiz
	var total int64

	if err := q.Model(&entity.Quiz{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

// ListCategories returns the distinct non-empty quiz categories.
func (r *QuizRepo) ListCategories() ([]string, error) {
	var categories []string
	err := r.db.Model(&entity.Quiz{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}
