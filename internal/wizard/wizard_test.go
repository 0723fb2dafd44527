package wizard

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

type fakeGateway struct {
	existing []model.Question
	nextID   int64

	questions []model.CreateQuestionPayload
	choices   []model.CreateChoicePayload

	listErr     error
	questionErr error
	// choiceErrAt fails the Nth CreateChoice call (1-based); 0 disables.
	choiceErrAt int
}

func (f *fakeGateway) ListQuestions(_ context.Context, _ string, _ int64) ([]model.Question, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
}

func (f *fakeGateway) CreateQuestion(_ context.Context, _ string, payload model.CreateQuestionPayload) (*model.Question, error) {
	if f.questionErr != nil {
		return nil, f.questionErr
	}
	f.questions = append(f.questions, payload)
	f.nextID++
	return &model.Question{
		ID:     f.nextID,
		QuizID: payload.Quiz,
		Text:   payload.Text,
		Kind:   payload.Kind,
		Points: payload.Points,
		Order:  payload.Order,
	}, nil
}

func (f *fakeGateway) CreateChoice(_ context.Context, _ string, payload model.CreateChoicePayload) (*model.Choice, error) {
	if f.choiceErrAt > 0 && len(f.choices)+1 == f.choiceErrAt {
		return nil, errors.New("choice create failed")
	}
	f.choices = append(f.choices, payload)
	return &model.Choice{ID: int64(len(f.choices)), QuestionID: payload.Question}, nil
}

func newTestService(gw Gateway, requireCorrect bool) *Service {
	return NewService(gw, state.NewMemoryStore(time.Hour), requireCorrect, zerolog.Nop())
}

func kind(k model.QuestionKind) *model.QuestionKind { return &k }

func str(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// walkTo drives a fresh draft up to the confirm step for the given kind.
func walkTo(t *testing.T, svc *Service, sid string, quizID int64, k model.QuestionKind, choices []ChoiceEntry) *Draft {
	t.Helper()
	ctx := context.Background()

	draft, err := svc.Advance(ctx, sid, quizID, AdvanceInput{Kind: kind(k)})
	require.NoError(t, err)
	require.Equal(t, StepEnterText, draft.Step)

	draft, err = svc.Advance(ctx, sid, quizID, AdvanceInput{Text: str("What is 2+2?")})
	require.NoError(t, err)

	switch k {
	case model.KindShortAnswer:
		require.Equal(t, StepConfirm, draft.Step)
	case model.KindMultipleChoice:
		require.Equal(t, StepOptions, draft.Step)
		draft, err = svc.Advance(ctx, sid, quizID, AdvanceInput{Choices: choices})
		require.NoError(t, err)
		require.Equal(t, StepConfirm, draft.Step)
	case model.KindTrueFalse:
		require.Equal(t, StepOptions, draft.Step)
		draft, err = svc.Advance(ctx, sid, quizID, AdvanceInput{TrueIsCorrect: boolPtr(true)})
		require.NoError(t, err)
		require.Equal(t, StepConfirm, draft.Step)
	}
	return draft
}

func TestFreshDraftStartsAtChooseType(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)

	draft, err := svc.Draft(context.Background(), "sid", 1)
	require.NoError(t, err)
	assert.Equal(t, StepChooseType, draft.Step)
	assert.Equal(t, model.KindMultipleChoice, draft.Kind)
	assert.Equal(t, 1, draft.Points)
	assert.Len(t, draft.Choices, 2)
}

func TestAdvanceRejectsUnknownKind(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)

	_, err := svc.Advance(context.Background(), "sid", 1, AdvanceInput{Kind: kind("essay")})
	assert.ErrorIs(t, err, ErrKindRequired)
}

func TestShortAnswerSkipsOptionsBothDirections(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)
	ctx := context.Background()

	draft := walkTo(t, svc, "sid", 1, model.KindShortAnswer, nil)
	assert.Equal(t, StepConfirm, draft.Step)

	// Back from confirm skips options symmetrically.
	draft, err := svc.Back(ctx, "sid", 1)
	require.NoError(t, err)
	assert.Equal(t, StepEnterText, draft.Step)
}

func TestBackFromConfirmReturnsToOptionsForChoiceKinds(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)
	ctx := context.Background()

	walkTo(t, svc, "sid", 1, model.KindMultipleChoice, []ChoiceEntry{{Text: "3"}, {Text: "4", IsCorrect: true}})

	draft, err := svc.Back(ctx, "sid", 1)
	require.NoError(t, err)
	assert.Equal(t, StepOptions, draft.Step)
}

func TestBackAtFirstStepIsNoOp(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)

	draft, err := svc.Back(context.Background(), "sid", 1)
	require.NoError(t, err)
	assert.Equal(t, StepChooseType, draft.Step)
}

func TestChoiceEntriesAreAppendOnly(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)
	ctx := context.Background()

	_, err := svc.Advance(ctx, "sid", 1, AdvanceInput{Kind: kind(model.KindMultipleChoice)})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, "sid", 1, AdvanceInput{Text: str("Pick one")})
	require.NoError(t, err)

	// Fewer than two entries is rejected.
	_, err = svc.Advance(ctx, "sid", 1, AdvanceInput{Choices: []ChoiceEntry{{Text: "only"}}})
	assert.ErrorIs(t, err, ErrChoicesRequired)

	// Three entries grow the draft from its initial two.
	draft, err := svc.Advance(ctx, "sid", 1, AdvanceInput{Choices: []ChoiceEntry{
		{Text: "a"}, {Text: "b", IsCorrect: true}, {Text: "c"},
	}})
	require.NoError(t, err)
	assert.Len(t, draft.Choices, 3)

	// Shrinking back below the draft size is rejected.
	_, err = svc.Back(ctx, "sid", 1)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, "sid", 1, AdvanceInput{Choices: []ChoiceEntry{{Text: "a"}, {Text: "b"}}})
	assert.ErrorIs(t, err, ErrChoicesRemoved)
}

func TestSaveRequiresConfirmStep(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)

	_, err := svc.Save(context.Background(), "sid", "token", 1)
	assert.ErrorIs(t, err, ErrNotAtConfirm)
}

func TestSaveMultipleChoiceSkipsBlankEntries(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, false)
	ctx := context.Background()

	walkTo(t, svc, "sid", 1, model.KindMultipleChoice, []ChoiceEntry{
		{Text: "red"},
		{Text: "   "},
		{Text: "blue", IsCorrect: true},
		{Text: ""},
		{Text: "green"},
	})

	question, err := svc.Save(ctx, "sid", "token", 1)
	require.NoError(t, err)
	require.NotNil(t, question)

	require.Len(t, gw.choices, 3)
	assert.Equal(t, "red", gw.choices[0].Text)
	assert.Equal(t, 0, gw.choices[0].Order)
	assert.Equal(t, "blue", gw.choices[1].Text)
	assert.True(t, gw.choices[1].IsCorrect)
	assert.Equal(t, 1, gw.choices[1].Order)
	assert.Equal(t, "green", gw.choices[2].Text)
	assert.Equal(t, 2, gw.choices[2].Order)
}

func TestSaveMultipleChoiceAllBlankIsRejected(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, false)

	walkTo(t, svc, "sid", 1, model.KindMultipleChoice, []ChoiceEntry{{Text: "  "}, {Text: ""}})

	_, err := svc.Save(context.Background(), "sid", "token", 1)
	assert.ErrorIs(t, err, ErrChoicesRequired)
	assert.Empty(t, gw.questions)
}

func TestSaveTrueFalseMaterializesComplementaryPair(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, false)
	ctx := context.Background()

	_, err := svc.Advance(ctx, "sid", 1, AdvanceInput{Kind: kind(model.KindTrueFalse)})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, "sid", 1, AdvanceInput{Text: str("The sky is green.")})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, "sid", 1, AdvanceInput{TrueIsCorrect: boolPtr(false)})
	require.NoError(t, err)

	_, err = svc.Save(ctx, "sid", "token", 1)
	require.NoError(t, err)

	require.Len(t, gw.choices, 2)
	assert.Equal(t, "True", gw.choices[0].Text)
	assert.False(t, gw.choices[0].IsCorrect)
	assert.Equal(t, "False", gw.choices[1].Text)
	assert.True(t, gw.choices[1].IsCorrect)
}

func TestSaveShortAnswerCreatesNoChoices(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, false)

	walkTo(t, svc, "sid", 1, model.KindShortAnswer, nil)

	question, err := svc.Save(context.Background(), "sid", "token", 1)
	require.NoError(t, err)
	assert.Equal(t, model.KindShortAnswer, question.Kind)
	assert.Empty(t, gw.choices)
}

func TestSaveAppendsAfterExistingQuestions(t *testing.T) {
	gw := &fakeGateway{existing: []model.Question{{ID: 1, Order: 1}, {ID: 2, Order: 2}}}
	svc := newTestService(gw, false)

	walkTo(t, svc, "sid", 1, model.KindShortAnswer, nil)

	_, err := svc.Save(context.Background(), "sid", "token", 1)
	require.NoError(t, err)
	require.Len(t, gw.questions, 1)
	assert.Equal(t, 3, gw.questions[0].Order)
}

func TestRequireCorrectChoicePolicy(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, true)

	walkTo(t, svc, "sid", 1, model.KindMultipleChoice, []ChoiceEntry{{Text: "a"}, {Text: "b"}})

	_, err := svc.Save(context.Background(), "sid", "token", 1)
	assert.ErrorIs(t, err, ErrCorrectRequired)
	assert.Empty(t, gw.questions)
}

func TestPartialSaveReportsOrphanedQuestion(t *testing.T) {
	gw := &fakeGateway{choiceErrAt: 2}
	svc := newTestService(gw, false)
	ctx := context.Background()

	walkTo(t, svc, "sid", 1, model.KindMultipleChoice, []ChoiceEntry{
		{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"},
	})

	_, err := svc.Save(ctx, "sid", "token", 1)
	var partial *PartialSaveError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, int64(1), partial.QuestionID)
	assert.Equal(t, 1, partial.ChoicesCreated)

	// The draft stays at confirm so the teacher can retry or reset.
	draft, derr := svc.Draft(ctx, "sid", 1)
	require.NoError(t, derr)
	assert.Equal(t, StepConfirm, draft.Step)
}

func TestSaveResetsDraft(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, false)
	ctx := context.Background()

	walkTo(t, svc, "sid", 1, model.KindShortAnswer, nil)

	_, err := svc.Save(ctx, "sid", "token", 1)
	require.NoError(t, err)

	draft, err := svc.Draft(ctx, "sid", 1)
	require.NoError(t, err)
	assert.Equal(t, StepChooseType, draft.Step)
}

func TestDraftsAreIsolatedPerQuiz(t *testing.T) {
	svc := newTestService(&fakeGateway{}, false)
	ctx := context.Background()

	_, err := svc.Advance(ctx, "sid", 1, AdvanceInput{Kind: kind(model.KindShortAnswer)})
	require.NoError(t, err)

	other, err := svc.Draft(ctx, "sid", 2)
	require.NoError(t, err)
	assert.Equal(t, StepChooseType, other.Step)
}
