// Package wizard drives the multi-step authoring flow for one question:
// choose-type → enter-text → type-specific-options → confirm. The step
// sequence is parameterized by the question kind — short-answer questions
// skip the options step in both directions — and the draft survives reloads
// in the flow store, keyed by session and quiz.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdeck/quizdeck-gateway/internal/config"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/state"
	"github.com/rs/zerolog"
)

// Step names the wizard positions.
type Step string

const (
	StepChooseType Step = "choose-type"
	StepEnterText  Step = "enter-text"
	StepOptions    Step = "type-specific-options"
	StepConfirm    Step = "confirm"
)

// Wizard flow errors.
var (
	ErrKindRequired    = errors.New("a question type is required")
	ErrTextRequired    = errors.New("question text is required")
	ErrChoicesRequired = errors.New("at least two choice entries are required")
	ErrChoicesRemoved  = errors.New("choice entries can be added but not removed")
	ErrCorrectRequired = errors.New("at least one choice must be marked correct")
	ErrAnswerRequired  = errors.New("the correct true/false answer is required")
	ErrStepInput       = errors.New("input does not match the current step")
	ErrNotAtConfirm    = errors.New("the wizard is not at the confirm step")
)

// PartialSaveError reports a save that created the question but failed while
// creating its choices. There is no upstream transaction: the question
// persists with fewer choices than intended and nothing is rolled back.
type PartialSaveError struct {
	QuestionID     int64
	ChoicesCreated int
	Err            error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("question %d saved with only %d choices: %v", e.QuestionID, e.ChoicesCreated, e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// ChoiceEntry is one (text, correct) pair collected by the options step.
type ChoiceEntry struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Draft is the accumulated wizard state for one question.
type Draft struct {
	Step          Step               `json:"step"`
	Kind          model.QuestionKind `json:"kind"`
	Text          string             `json:"text"`
	Points        int                `json:"points"`
	Choices       []ChoiceEntry      `json:"choices"`
	TrueIsCorrect bool               `json:"true_is_correct"`
}

func newDraft() Draft {
	return Draft{
		Step:          StepChooseType,
		Kind:          model.KindMultipleChoice,
		Points:        1,
		Choices:       []ChoiceEntry{{}, {}},
		TrueIsCorrect: true,
	}
}

// AdvanceInput carries the form values for whichever step is current.
// Unused fields are ignored.
type AdvanceInput struct {
	Kind          *model.QuestionKind `json:"kind,omitempty"`
	Text          *string             `json:"text,omitempty"`
	Points        *int                `json:"points,omitempty"`
	Choices       []ChoiceEntry       `json:"choices,omitempty"`
	TrueIsCorrect *bool               `json:"true_is_correct,omitempty"`
}

// Gateway is the slice of the quiz-service client the wizard needs.
type Gateway interface {
	ListQuestions(ctx context.Context, token string, quizID int64) ([]model.Question, error)
	CreateQuestion(ctx context.Context, token string, payload model.CreateQuestionPayload) (*model.Question, error)
	CreateChoice(ctx context.Context, token string, payload model.CreateChoicePayload) (*model.Choice, error)
}

// Service drives wizard drafts and their final save.
type Service struct {
	gw             Gateway
	flow           state.Store
	requireCorrect bool
	log            zerolog.Logger
}

// NewService creates a wizard Service. requireCorrect enables the policy
// that a multiple-choice question must mark at least one choice correct.
func NewService(gw Gateway, flow state.Store, requireCorrect bool, log zerolog.Logger) *Service {
	return &Service{
		gw:             gw,
		flow:           flow,
		requireCorrect: requireCorrect,
		log:            log.With().Str("component", "wizard").Logger(),
	}
}

// Draft returns the current draft for the quiz, or a fresh one.
func (s *Service) Draft(ctx context.Context, sid string, quizID int64) (*Draft, error) {
	return s.load(ctx, sid, quizID)
}

// Reset discards the draft.
func (s *Service) Reset(ctx context.Context, sid string, quizID int64) error {
	return s.flow.Delete(ctx, config.StateKey.WizardDraftKey(sid, quizID))
}

// Advance applies the current step's input and moves forward. Short-answer
// drafts jump from enter-text straight to confirm.
func (s *Service) Advance(ctx context.Context, sid string, quizID int64, input AdvanceInput) (*Draft, error) {
	draft, err := s.load(ctx, sid, quizID)
	if err != nil {
		return nil, err
	}

	switch draft.Step {
	case StepChooseType:
		if input.Kind == nil || !input.Kind.Valid() {
			return nil, ErrKindRequired
		}
		draft.Kind = *input.Kind
		draft.Step = StepEnterText

	case StepEnterText:
		if input.Text == nil || strings.TrimSpace(*input.Text) == "" {
			return nil, ErrTextRequired
		}
		draft.Text = *input.Text
		if input.Points != nil && *input.Points > 0 {
			draft.Points = *input.Points
		}
		switch draft.Kind {
		case model.KindMultipleChoice, model.KindTrueFalse:
			draft.Step = StepOptions
		case model.KindShortAnswer:
			draft.Step = StepConfirm
		default:
			return nil, fmt.Errorf("unknown question kind %q", draft.Kind)
		}

	case StepOptions:
		switch draft.Kind {
		case model.KindMultipleChoice:
			if len(input.Choices) < 2 {
				return nil, ErrChoicesRequired
			}
			if len(input.Choices) < len(draft.Choices) {
				return nil, ErrChoicesRemoved
			}
			draft.Choices = input.Choices
		case model.KindTrueFalse:
			if input.TrueIsCorrect == nil {
				return nil, ErrAnswerRequired
			}
			draft.TrueIsCorrect = *input.TrueIsCorrect
		case model.KindShortAnswer:
			// Short-answer drafts never sit at the options step.
			return nil, ErrStepInput
		default:
			return nil, fmt.Errorf("unknown question kind %q", draft.Kind)
		}
		draft.Step = StepConfirm

	case StepConfirm:
		return nil, ErrStepInput

	default:
		return nil, fmt.Errorf("unknown wizard step %q", draft.Step)
	}

	if err := s.save(ctx, sid, quizID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Back moves to the previous step. The skip for short-answer is symmetric:
// confirm goes straight back to enter-text. At the first step Back is a
// no-op.
func (s *Service) Back(ctx context.Context, sid string, quizID int64) (*Draft, error) {
	draft, err := s.load(ctx, sid, quizID)
	if err != nil {
		return nil, err
	}

	switch draft.Step {
	case StepChooseType:
		return draft, nil
	case StepEnterText:
		draft.Step = StepChooseType
	case StepOptions:
		draft.Step = StepEnterText
	case StepConfirm:
		switch draft.Kind {
		case model.KindShortAnswer:
			draft.Step = StepEnterText
		case model.KindMultipleChoice, model.KindTrueFalse:
			draft.Step = StepOptions
		default:
			return nil, fmt.Errorf("unknown question kind %q", draft.Kind)
		}
	default:
		return nil, fmt.Errorf("unknown wizard step %q", draft.Step)
	}

	if err := s.save(ctx, sid, quizID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Save creates the question and its choices upstream. The sequence is one
// question create followed by zero or more choice creates with no
// transaction: a failure partway leaves the question with partial choices,
// reported via *PartialSaveError and never rolled back. The draft stays at
// confirm on failure and resets on success.
func (s *Service) Save(ctx context.Context, sid, token string, quizID int64) (*model.Question, error) {
	draft, err := s.load(ctx, sid, quizID)
	if err != nil {
		return nil, err
	}
	if draft.Step != StepConfirm {
		return nil, ErrNotAtConfirm
	}

	entries := draft.nonBlankChoices()
	if draft.Kind == model.KindMultipleChoice {
		if len(entries) == 0 {
			return nil, ErrChoicesRequired
		}
		if s.requireCorrect && !anyCorrect(entries) {
			return nil, ErrCorrectRequired
		}
	}

	existing, err := s.gw.ListQuestions(ctx, token, quizID)
	if err != nil {
		return nil, err
	}

	question, err := s.gw.CreateQuestion(ctx, token, model.CreateQuestionPayload{
		Quiz:   quizID,
		Text:   draft.Text,
		Kind:   draft.Kind,
		Points: draft.Points,
		Order:  len(existing) + 1,
	})
	if err != nil {
		return nil, err
	}

	switch draft.Kind {
	case model.KindMultipleChoice:
		for i, entry := range entries {
			_, err := s.gw.CreateChoice(ctx, token, model.CreateChoicePayload{
				Question:  question.ID,
				Text:      entry.Text,
				IsCorrect: entry.IsCorrect,
				Order:     i,
			})
			if err != nil {
				return question, &PartialSaveError{QuestionID: question.ID, ChoicesCreated: i, Err: err}
			}
		}

	case model.KindTrueFalse:
		// Materialized here, not taken from form input: exactly two choices
		// with complementary correctness, whatever the generic choice UI
		// would otherwise allow.
		pair := []model.CreateChoicePayload{
			{Question: question.ID, Text: "True", IsCorrect: draft.TrueIsCorrect, Order: 0},
			{Question: question.ID, Text: "False", IsCorrect: !draft.TrueIsCorrect, Order: 1},
		}
		for i, payload := range pair {
			if _, err := s.gw.CreateChoice(ctx, token, payload); err != nil {
				return question, &PartialSaveError{QuestionID: question.ID, ChoicesCreated: i, Err: err}
			}
		}

	case model.KindShortAnswer:
		// No choices.

	default:
		return question, fmt.Errorf("unknown question kind %q", draft.Kind)
	}

	if err := s.Reset(ctx, sid, quizID); err != nil {
		s.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Could not reset wizard draft after save")
	}

	s.log.Info().
		Int64("quiz_id", quizID).
		Int64("question_id", question.ID).
		Str("kind", string(draft.Kind)).
		Msg("Question saved")
	return question, nil
}

// nonBlankChoices filters out entries whose text is empty or whitespace,
// preserving the relative order of the rest.
func (d *Draft) nonBlankChoices() []ChoiceEntry {
	out := make([]ChoiceEntry, 0, len(d.Choices))
	for _, entry := range d.Choices {
		if strings.TrimSpace(entry.Text) == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func anyCorrect(entries []ChoiceEntry) bool {
	for _, entry := range entries {
		if entry.IsCorrect {
			return true
		}
	}
	return false
}

// ─── Draft persistence ──────────────────────────────────────────────────────

func (s *Service) load(ctx context.Context, sid string, quizID int64) (*Draft, error) {
	raw, err := s.flow.Get(ctx, config.StateKey.WizardDraftKey(sid, quizID))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			draft := newDraft()
			return &draft, nil
		}
		return nil, err
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		// A corrupt draft degrades to a fresh wizard, not an error page.
		s.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Discarding unparseable wizard draft")
		fresh := newDraft()
		return &fresh, nil
	}
	return &draft, nil
}

func (s *Service) save(ctx context.Context, sid string, quizID int64, draft *Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return s.flow.Put(ctx, config.StateKey.WizardDraftKey(sid, quizID), string(raw))
}

var _ Gateway = (*gateway.Client)(nil)
