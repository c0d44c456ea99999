package repository

import (
	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// QuizRepository defines persistence operations for quizzes.
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id string) (*entity.Quiz, error)
	GetWithQuestions(id string) (*entity.Quiz, error)
	List(limit, offset int) ([]entity.Quiz, int64, error)
	ListByCategory(category string, limit, offset int) ([]entity.Quiz, int64, error)
	ListCategories() ([]string, error)
}

// QuestionRepository defines persistence operations for quiz questions.
type QuestionRepository interface {
	CreateBatch(questions []entity.Question) error
	GetByID(id string) (*entity.Question, error)
	// GetByQuizID returns the quiz's questions in creation order, which is
	// the order players see them in.
	GetByQuizID(quizID string) ([]entity.Question, error)
	CountByQuizID(quizID string) (int64, error)
}
