package attempt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/state"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is an in-memory stand-in for the upstream quiz-service.
type fakeGateway struct {
	attempt *model.Attempt
	result  *model.FinishResult
	wrong   []model.ReviewEntry

	submitted []model.SubmitAnswerPayload

	startErr  error
	getErr    error
	submitErr error
	finishErr error
	reviewErr error
}

func (f *fakeGateway) StartAttempt(_ context.Context, _ string, _ int64) (*model.Attempt, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.attempt, nil
}

func (f *fakeGateway) GetAttempt(_ context.Context, _ string, _ int64) (*model.Attempt, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.attempt, nil
}

func (f *fakeGateway) SubmitAnswer(_ context.Context, _ string, _ int64, payload model.SubmitAnswerPayload) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, payload)
	f.attempt.Answers = append(f.attempt.Answers, model.Answer{
		QuestionID:       payload.Question,
		SelectedChoiceID: payload.SelectedChoice,
		ShortAnswerText:  payload.ShortAnswerText,
	})
	return nil
}

func (f *fakeGateway) FinishAttempt(_ context.Context, _ string, _ int64) (*model.FinishResult, error) {
	if f.finishErr != nil {
		return nil, f.finishErr
	}
	f.attempt.Status = model.AttemptFinished
	return f.result, nil
}

func (f *fakeGateway) ReviewWrongAnswers(_ context.Context, _ string, _ int64) ([]model.ReviewEntry, error) {
	if f.reviewErr != nil {
		return nil, f.reviewErr
	}
	return f.wrong, nil
}

func threeQuestionAttempt() *model.Attempt {
	return &model.Attempt{
		ID:     7,
		Status: model.AttemptInProgress,
		Quiz: &model.Quiz{
			ID:    3,
			Title: "Fractions",
			Questions: []model.Question{
				{ID: 10, Kind: model.KindMultipleChoice, Text: "Q1", Choices: []model.Choice{{ID: 100}, {ID: 101}}},
				{ID: 11, Kind: model.KindTrueFalse, Text: "Q2", Choices: []model.Choice{{ID: 110}, {ID: 111}}},
				{ID: 12, Kind: model.KindShortAnswer, Text: "Q3"},
			},
		},
	}
}

func newTestController(gw Gateway) *Controller {
	return NewController(gw, state.NewMemoryStore(time.Hour), zerolog.Nop())
}

func TestStartSeedsCursorAtZero(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)

	view, err := ctl.Start(context.Background(), "sid", "token", 3)
	require.NoError(t, err)

	assert.Equal(t, 0, view.Cursor)
	assert.Equal(t, 3, view.QuestionCount)
	require.NotNil(t, view.CurrentQuestion)
	assert.Equal(t, int64(10), view.CurrentQuestion.ID)
}

func TestStartPassesThroughUpstreamRejection(t *testing.T) {
	rejected := errors.New("maximum attempts exceeded")
	gw := &fakeGateway{startErr: rejected}
	ctl := newTestController(gw)

	_, err := ctl.Start(context.Background(), "sid", "token", 3)
	assert.ErrorIs(t, err, rejected)
}

func TestNextStopsAtLastQuestion(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	for i, want := range []int{1, 2, 2, 2} {
		cursor, err := ctl.Next(ctx, "sid", 7)
		require.NoError(t, err, "next #%d", i)
		assert.Equal(t, want, cursor, "next #%d", i)
	}
}

func TestPreviousStopsAtFirstQuestion(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	cursor, err := ctl.Previous(ctx, "sid", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, cursor)
}

func TestMoveWithoutStartReportsNotInProgress(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)

	_, err := ctl.Next(context.Background(), "sid", 7)
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestAnswerSubmitsChoiceAndKeepsCursor(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	choice := int64(101)
	view, err := ctl.Answer(ctx, "sid", "token", 7, model.AnswerInput{SelectedChoiceID: &choice})
	require.NoError(t, err)

	require.Len(t, gw.submitted, 1)
	assert.Equal(t, int64(10), gw.submitted[0].Question)
	require.NotNil(t, gw.submitted[0].SelectedChoice)
	assert.Equal(t, choice, *gw.submitted[0].SelectedChoice)
	assert.Nil(t, gw.submitted[0].ShortAnswerText)
	assert.Equal(t, 0, view.Cursor)

	// The re-fetched snapshot carries the stored answer for the question,
	// with the selected choice unaltered.
	require.Len(t, view.Attempt.Answers, 1)
	stored := view.Attempt.Answers[0]
	assert.Equal(t, int64(10), stored.QuestionID)
	require.NotNil(t, stored.SelectedChoiceID)
	assert.Equal(t, choice, *stored.SelectedChoiceID)
}

func TestAnswerShortAnswerRequiresText(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)
	_, err = ctl.Next(ctx, "sid", 7)
	require.NoError(t, err)
	_, err = ctl.Next(ctx, "sid", 7)
	require.NoError(t, err)

	choice := int64(100)
	_, err = ctl.Answer(ctx, "sid", "token", 7, model.AnswerInput{SelectedChoiceID: &choice})
	assert.ErrorIs(t, err, ErrTextRequired)

	text := "three quarters"
	_, err = ctl.Answer(ctx, "sid", "token", 7, model.AnswerInput{ShortAnswerText: &text})
	require.NoError(t, err)
	require.Len(t, gw.submitted, 1)
	assert.Equal(t, int64(12), gw.submitted[0].Question)
}

func TestAnswerChoiceQuestionRequiresChoice(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	text := "not a choice"
	_, err = ctl.Answer(ctx, "sid", "token", 7, model.AnswerInput{ShortAnswerText: &text})
	assert.ErrorIs(t, err, ErrChoiceRequired)
	assert.Empty(t, gw.submitted)
}

func TestAnswerOnFinishedAttemptIsRejected(t *testing.T) {
	att := threeQuestionAttempt()
	att.Status = model.AttemptFinished
	gw := &fakeGateway{attempt: att}
	ctl := newTestController(gw)

	choice := int64(100)
	_, err := ctl.Answer(context.Background(), "sid", "token", 7, model.AnswerInput{SelectedChoiceID: &choice})
	assert.ErrorIs(t, err, ErrFinished)
	assert.Empty(t, gw.submitted)
}

func TestAnswerFailureLeavesCursorUntouched(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt(), submitErr: errors.New("upstream down")}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)
	_, err = ctl.Next(ctx, "sid", 7)
	require.NoError(t, err)

	choice := int64(110)
	_, err = ctl.Answer(ctx, "sid", "token", 7, model.AnswerInput{SelectedChoiceID: &choice})
	require.Error(t, err)

	view, err := ctl.View(ctx, "sid", "token", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Cursor)
}

func TestViewReseedsMissingCursor(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)
	ctx := context.Background()

	// No Start: simulates a reload against an instance with no flow state.
	view, err := ctl.View(ctx, "sid", "token", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Cursor)

	// Navigation works again after the re-seed.
	cursor, err := ctl.Next(ctx, "sid", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, cursor)
}

func TestFinishRetainsResultAndClearsCursor(t *testing.T) {
	gw := &fakeGateway{
		attempt: threeQuestionAttempt(),
		result:  &model.FinishResult{Score: 33.3, TotalCorrect: 1, TotalWrong: 2},
		wrong: []model.ReviewEntry{
			{QuestionID: 11, QuestionText: "Q2", SelectedChoiceText: "False"},
			{QuestionID: 12, QuestionText: "Q3", ShortAnswerText: "wrong"},
		},
	}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	res, err := ctl.Finish(ctx, "sid", "token", 7)
	require.NoError(t, err)
	assert.False(t, res.ReviewUnavailable)
	assert.Len(t, res.WrongAnswers, 2)

	retained, err := ctl.Result(ctx, "sid", 7)
	require.NoError(t, err)
	assert.Equal(t, 33.3, retained.Score)
	assert.Equal(t, 1, retained.TotalCorrect)
	assert.Equal(t, 2, retained.TotalWrong)
	assert.Len(t, retained.WrongAnswers, 2)

	_, err = ctl.Next(ctx, "sid", 7)
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestFinishWithZeroAnswersMarksAllWrong(t *testing.T) {
	gw := &fakeGateway{
		attempt: threeQuestionAttempt(),
		result:  &model.FinishResult{Score: 0, TotalCorrect: 0, TotalWrong: 3},
	}
	ctl := newTestController(gw)
	ctx := context.Background()

	view, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	res, err := ctl.Finish(ctx, "sid", "token", 7)
	require.NoError(t, err)
	assert.Equal(t, float64(0), res.Score)
	assert.Equal(t, view.QuestionCount, res.TotalWrong)
}

func TestFinishFailureLeavesAttemptInProgress(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt(), finishErr: errors.New("upstream down")}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	_, err = ctl.Finish(ctx, "sid", "token", 7)
	require.Error(t, err)

	// The cursor survives a failed finish.
	cursor, err := ctl.Next(ctx, "sid", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, cursor)
	assert.Equal(t, model.AttemptInProgress, gw.attempt.Status)
}

func TestReviewFailureStillFinishes(t *testing.T) {
	gw := &fakeGateway{
		attempt:   threeQuestionAttempt(),
		result:    &model.FinishResult{Score: 100, TotalCorrect: 3},
		reviewErr: errors.New("review endpoint down"),
	}
	ctl := newTestController(gw)
	ctx := context.Background()

	_, err := ctl.Start(ctx, "sid", "token", 3)
	require.NoError(t, err)

	res, err := ctl.Finish(ctx, "sid", "token", 7)
	require.NoError(t, err)
	assert.True(t, res.ReviewUnavailable)
	assert.Empty(t, res.WrongAnswers)
	assert.Equal(t, model.AttemptFinished, gw.attempt.Status)
}

func TestResultWithoutFinishReportsNoResult(t *testing.T) {
	gw := &fakeGateway{attempt: threeQuestionAttempt()}
	ctl := newTestController(gw)

	_, err := ctl.Result(context.Background(), "sid", 7)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestClampEmptyQuiz(t *testing.T) {
	assert.Equal(t, 0, clamp(5, 0))
	assert.Equal(t, 0, clamp(-1, 3))
	assert.Equal(t, 2, clamp(9, 3))
	assert.Equal(t, 1, clamp(1, 3))
}
