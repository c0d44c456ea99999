package dto

import (
	"time"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// QuizResponse is the catalog view of a quiz.
type QuizResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	CoverImage string    `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewQuizResponse(quiz *entity.Quiz) QuizResponse {
	return QuizResponse{
		ID:         quiz.ID,
		Title:      quiz.Title,
		Category:   quiz.Category,
		CoverImage: quiz.CoverImage,
		CreatedAt:  quiz.CreatedAt,
	}
}

func NewQuizListResponse(quizzes []entity.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, NewQuizResponse(&quizzes[i]))
	}
	return out
}

// QuestionResponse ships a question to a player. The correct flag never
// leaves the server; answers are judged by option index.
type QuestionResponse struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Media       string   `json:"media,omitempty"`
	Options     []string `json:"options"`
}

func NewQuestionResponse(q *entity.Question) QuestionResponse {
	options := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, opt.Text)
	}
	return QuestionResponse{
		ID:          q.ID,
		Description: q.Description,
		Media:       q.Media,
		Options:     options,
	}
}

// CreateQuizRequest is the admin payload for adding a quiz with its
// questions in one call.
type CreateQuizRequest struct {
	Title      string                  `json:"title" binding:"required"`
	Category   string                  `json:"category" binding:"required"`
	CoverImage string                  `json:"cover_image"`
	Questions  []CreateQuestionRequest `json:"questions" binding:"required,min=1"`
}

type CreateQuestionRequest struct {
	Description string              `json:"description" binding:"required"`
	Media       string              `json:"media"`
	Options     []CreateOptionInput `json:"options" binding:"required,min=2"`
}

type CreateOptionInput struct {
	Text    string `json:"text" binding:"required"`
	Correct bool   `json:"correct"`
}
