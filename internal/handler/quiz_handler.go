package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/handler/dto"
	"github.com/semiologia/semiologia-api/internal/service"
)

// ContextQuizID is filled by the UUID param middleware.
const ContextQuizID = "quizID"

// maxImportSize bounds uploaded workbook size.
const maxImportSize = 5 << 20 // 5 MiB

// QuizHandler serves the quiz catalog and the admin import endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// List handles GET /api/quizzes?category=&page=&page_size=.
func (h *QuizHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	quizzes, total, err := h.quizService.ListQuizzes(c.Query("category"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quizzes": dto.NewQuizListResponse(quizzes),
		"total":   total,
		"page":    page,
	})
}

// Get handles GET /api/quizzes/:quiz_id.
func (h *QuizHandler) Get(c *gin.Context) {
	quiz, err := h.quizService.GetQuizByID(c.GetString(ContextQuizID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz))
}

// Questions handles GET /api/quizzes/:quiz_id/questions. Correct answers
// are stripped before the payload leaves the server.
func (h *QuizHandler) Questions(c *gin.Context) {
	questions, err := h.quizService.GetQuestions(c.GetString(ContextQuizID))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, dto.NewQuestionResponse(&questions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"questions": out})
}

// Categories handles GET /api/quizzes/categories.
func (h *QuizHandler) Categories(c *gin.Context) {
	categories, err := h.quizService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create handles POST /api/admin/quizzes.
func (h *QuizHandler) Create(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		options := make(entity.OptionList, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, entity.Option{Text: opt.Text, Correct: opt.Correct})
		}
		questions = append(questions, entity.Question{
			Description: q.Description,
			Media:       q.Media,
			Options:     options,
		})
	}

	quiz, err := h.quizService.CreateQuiz(req.Title, req.Category, req.CoverImage, questions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz))
}

// Import handles POST /api/admin/quizzes/import with an xlsx workbook in the
// "file" form field.
func (h *QuizHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	quizzes, err := h.quizService.ImportQuizzesFromExcel(file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"imported": len(quizzes),
		"quizzes":  dto.NewQuizListResponse(quizzes),
	})
}
