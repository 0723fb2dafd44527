package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-gateway/internal/attempt"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/middleware"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/response"
	"github.com/quizdeck/quizdeck-gateway/internal/validator"
	"github.com/rs/zerolog"
)

// StudentHandler handles the student dashboard and quiz taking.
type StudentHandler struct {
	gw  *gateway.Client
	ctl *attempt.Controller
	log zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(gw *gateway.Client, ctl *attempt.Controller, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{gw: gw, ctl: ctl, log: log}
}

// ListAssigned godoc
// GET /api/v1/student/quizzes
// Lists the quizzes assigned to the student. A fetch failure degrades to an
// empty list with a logged warning — the dashboard shows its empty state,
// not an error page.
func (h *StudentHandler) ListAssigned(c *gin.Context) {
	sess := middleware.GetSession(c)

	quizzes, err := h.gw.AssignedQuizzes(c.Request.Context(), sess.AccessToken)
	if err != nil {
		h.log.Warn().Err(err).Msg("Assigned quizzes fetch failed")
		quizzes = nil
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetQuiz godoc
// GET /api/v1/student/quizzes/:quiz_id
// Returns one quiz with its questions for the pre-start screen.
func (h *StudentHandler) GetQuiz(c *gin.Context) {
	sess := middleware.GetSession(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.gw.GetQuiz(c.Request.Context(), sess.AccessToken, quizID)
	if err != nil {
		failUpstream(c, err, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// StartAttempt godoc
// POST /api/v1/student/quizzes/:quiz_id/attempts
// Opens a new attempt. Upstream rejections (max attempts exceeded, quiz not
// assigned) surface their message; the student stays on the pre-start
// screen and may not retry automatically.
func (h *StudentHandler) StartAttempt(c *gin.Context) {
	sess := middleware.GetSession(c)
	sid := middleware.GetSessionID(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	view, err := h.ctl.Start(c.Request.Context(), sid, sess.AccessToken, quizID)
	if err != nil {
		failUpstream(c, err, response.ErrAttemptStartFailed)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// GetAttempt godoc
// GET /api/v1/student/attempts/:attempt_id
// Returns the attempt snapshot plus the cursor; covers page reloads.
func (h *StudentHandler) GetAttempt(c *gin.Context) {
	sess := middleware.GetSession(c)
	sid := middleware.GetSessionID(c)
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	view, err := h.ctl.View(c.Request.Context(), sid, sess.AccessToken, attemptID)
	if err != nil {
		failUpstream(c, err, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Answer godoc
// POST /api/v1/student/attempts/:attempt_id/answer
// Submits an answer for the question at the cursor and returns the
// re-fetched attempt. The cursor does not move.
func (h *StudentHandler) Answer(c *gin.Context) {
	sess := middleware.GetSession(c)
	sid := middleware.GetSessionID(c)
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	var input model.AnswerInput
	if fields := validator.Bind(c, &input); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.ctl.Answer(c.Request.Context(), sid, sess.AccessToken, attemptID, input)
	if err != nil {
		switch {
		case errors.Is(err, attempt.ErrFinished):
			response.Fail(c, http.StatusBadRequest, response.ErrAttemptFinished)
		case errors.Is(err, attempt.ErrNotInProgress):
			response.Fail(c, http.StatusBadRequest, response.ErrAttemptNotStarted)
		case errors.Is(err, attempt.ErrNoQuestion):
			response.Fail(c, http.StatusBadRequest, response.ErrNoCurrentQuestion)
		case errors.Is(err, attempt.ErrChoiceRequired), errors.Is(err, attempt.ErrTextRequired):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, err.Error())
		default:
			failUpstream(c, err, response.ErrAnswerRejected)
		}
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Next godoc
// POST /api/v1/student/attempts/:attempt_id/next
// Moves the cursor forward; clamped at the last question.
func (h *StudentHandler) Next(c *gin.Context) {
	h.move(c, h.ctl.Next)
}

// Previous godoc
// POST /api/v1/student/attempts/:attempt_id/previous
// Moves the cursor backward; clamped at the first question.
func (h *StudentHandler) Previous(c *gin.Context) {
	h.move(c, h.ctl.Previous)
}

func (h *StudentHandler) move(c *gin.Context, fn func(ctx context.Context, sid string, attemptID int64) (int, error)) {
	sid := middleware.GetSessionID(c)
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	cursor, err := fn(c.Request.Context(), sid, attemptID)
	if err != nil {
		if errors.Is(err, attempt.ErrNotInProgress) {
			response.Fail(c, http.StatusBadRequest, response.ErrAttemptNotStarted)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cursor": cursor})
}

// Finish godoc
// POST /api/v1/student/attempts/:attempt_id/finish
// Closes the attempt and returns the grading summary with the wrong-answer
// review. The review may be flagged unavailable when its fetch failed after
// a successful finish.
func (h *StudentHandler) Finish(c *gin.Context) {
	sess := middleware.GetSession(c)
	sid := middleware.GetSessionID(c)
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	result, err := h.ctl.Finish(c.Request.Context(), sid, sess.AccessToken, attemptID)
	if err != nil {
		failUpstream(c, err, response.ErrAttemptFinishFailed)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Result godoc
// GET /api/v1/student/attempts/:attempt_id/result
// Returns the retained grading summary of a finished attempt.
func (h *StudentHandler) Result(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	attemptID, ok := pathID(c, "attempt_id")
	if !ok {
		return
	}

	result, err := h.ctl.Result(c.Request.Context(), sid, attemptID)
	if err != nil {
		if errors.Is(err, attempt.ErrNoResult) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, result)
}
