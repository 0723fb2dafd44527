package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/middleware"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/response"
	"github.com/quizdeck/quizdeck-gateway/internal/validator"
	"github.com/quizdeck/quizdeck-gateway/internal/wizard"
	"github.com/rs/zerolog"
)

// QuestionHandler handles the question list and the authoring wizard.
type QuestionHandler struct {
	gw  *gateway.Client
	wiz *wizard.Service
	log zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(gw *gateway.Client, wiz *wizard.Service, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{gw: gw, wiz: wiz, log: log}
}

// ListQuestions godoc
// GET /api/v1/teacher/quizzes/:quiz_id/questions
// Lists a quiz's questions in order. Fetch failures degrade to an empty
// list with a logged warning.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	sess := middleware.GetSession(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	questions, err := h.gw.ListQuestions(c.Request.Context(), sess.AccessToken, quizID)
	if err != nil {
		h.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Question list fetch failed")
		questions = nil
	}
	if questions == nil {
		questions = []model.Question{}
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// DeleteQuestion godoc
// DELETE /api/v1/teacher/questions/:question_id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	sess := middleware.GetSession(c)
	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}

	if err := h.gw.DeleteQuestion(c.Request.Context(), sess.AccessToken, questionID); err != nil {
		failUpstream(c, err, response.ErrUpstreamRejected)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// WizardState godoc
// GET /api/v1/teacher/quizzes/:quiz_id/wizard
// Returns the current draft, a fresh one when none exists.
func (h *QuestionHandler) WizardState(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	draft, err := h.wiz.Draft(c.Request.Context(), sid, quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// WizardAdvance godoc
// POST /api/v1/teacher/quizzes/:quiz_id/wizard/advance
// Applies the current step's form values and moves the wizard forward.
func (h *QuestionHandler) WizardAdvance(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	var input wizard.AdvanceInput
	if fields := validator.Bind(c, &input); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	draft, err := h.wiz.Advance(c.Request.Context(), sid, quizID, input)
	if err != nil {
		if isWizardInputError(err) {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrWizardStep, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// WizardBack godoc
// POST /api/v1/teacher/quizzes/:quiz_id/wizard/back
func (h *QuestionHandler) WizardBack(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	draft, err := h.wiz.Back(c.Request.Context(), sid, quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// WizardReset godoc
// POST /api/v1/teacher/quizzes/:quiz_id/wizard/reset
func (h *QuestionHandler) WizardReset(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.wiz.Reset(c.Request.Context(), sid, quizID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}

// WizardSave godoc
// POST /api/v1/teacher/quizzes/:quiz_id/wizard/save
// Creates the question and its choices upstream. A partial failure leaves
// the question with fewer choices than intended; the response names the
// orphaned question so the teacher can fix or delete it.
func (h *QuestionHandler) WizardSave(c *gin.Context) {
	sess := middleware.GetSession(c)
	sid := middleware.GetSessionID(c)
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}

	question, err := h.wiz.Save(c.Request.Context(), sid, sess.AccessToken, quizID)
	if err != nil {
		var partial *wizard.PartialSaveError
		switch {
		case errors.As(err, &partial):
			h.log.Error().Err(err).Int64("question_id", partial.QuestionID).Msg("Partial wizard save")
			response.FailWithMessage(c, http.StatusBadGateway, response.ErrWizardPartialSave, partial.Error())
		case isWizardInputError(err):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrWizardStep, err.Error())
		default:
			failUpstream(c, err, response.ErrWizardSaveFailed)
		}
		return
	}
	response.Success(c, http.StatusCreated, question)
}

// isWizardInputError reports whether the error is a user-input rejection
// rather than an infrastructure failure.
func isWizardInputError(err error) bool {
	for _, sentinel := range []error{
		wizard.ErrKindRequired,
		wizard.ErrTextRequired,
		wizard.ErrChoicesRequired,
		wizard.ErrChoicesRemoved,
		wizard.ErrCorrectRequired,
		wizard.ErrAnswerRequired,
		wizard.ErrStepInput,
		wizard.ErrNotAtConfirm,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
