package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
)

// QuestionRepo implements repository.QuestionRepository.
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo creates a new question repository.
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// CreateBatch inserts all questions in one transaction.
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

// GetByID returns a question by ID.
func (r *QuestionRepo) GetByID(id string) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByQuizID returns the quiz's questions in creation order.
func (r *QuestionRepo) GetByQuizID(quizID string) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

// CountByQuizID returns the number of questions in a quiz.
func (r *QuestionRepo) CountByQuizID(quizID string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}
