package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/middleware"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/response"
	"github.com/quizdeck/quizdeck-gateway/internal/validator"
	"github.com/rs/zerolog"
)

// TeacherHandler handles the teacher dashboard and quiz management.
type TeacherHandler struct {
	gw  *gateway.Client
	log zerolog.Logger
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(gw *gateway.Client, log zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{gw: gw, log: log}
}

// Summary godoc
// GET /api/v1/teacher/quizzes/summary
// Lists the teacher's quizzes with attempt counts. Fetch failures degrade
// to an empty list with a logged warning.
func (h *TeacherHandler) Summary(c *gin.Context) {
	sess := middleware.GetSession(c)

	summary, err := h.gw.TeacherSummary(c.Request.Context(), sess.AccessToken)
	if err != nil {
		h.log.Warn().Err(err).Msg("Teacher summary fetch failed")
		summary = nil
	}
	if summary == nil {
		summary = []model.QuizSummary{}
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": summary})
}

// QuizAttempts godoc
// GET /api/v1/teacher/quizzes/:quiz_id/attempts
// Lists all attempts on one quiz with student names.
func (h *TeacherHandler) QuizAttempts(c *gin.Context) {
	sess := middleware.GetSession(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	attempts, err := h.gw.QuizAttempts(c.Request.Context(), sess.AccessToken, quizID)
	if err != nil {
		h.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Quiz attempts fetch failed")
		attempts = nil
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// CreateQuiz godoc
// POST /api/v1/teacher/quizzes
// Creates a quiz. The form's time limit in minutes is converted to the
// upstream's seconds; absent limits stay unlimited.
func (h *TeacherHandler) CreateQuiz(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.gw.CreateQuiz(c.Request.Context(), sess.AccessToken, req.UpstreamPayload())
	if err != nil {
		failUpstream(c, err, response.ErrUpstreamRejected)
		return
	}

	h.log.Info().Int64("quiz_id", quiz.ID).Str("title", quiz.Title).Msg("Quiz created")
	response.Success(c, http.StatusCreated, quiz)
}

// DeleteQuiz godoc
// DELETE /api/v1/teacher/quizzes/:quiz_id
// Deletes a quiz; the upstream cascades to its questions and choices.
func (h *TeacherHandler) DeleteQuiz(c *gin.Context) {
	sess := middleware.GetSession(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.gw.DeleteQuiz(c.Request.Context(), sess.AccessToken, quizID); err != nil {
		failUpstream(c, err, response.ErrUpstreamRejected)
		return
	}

	h.log.Info().Int64("quiz_id", quizID).Msg("Quiz deleted")
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
