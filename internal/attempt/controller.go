// Package attempt orchestrates the lifecycle of one quiz attempt:
// not-started → in-progress → finished, with a question cursor inside
// in-progress. The server snapshot is authoritative — every mutation is
// followed by a re-fetch rather than trusting the local echo — while the
// cursor is pure flow state that never touches the upstream service.
package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/quizdeck/quizdeck-gateway/internal/config"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/state"
	"github.com/rs/zerolog"
)

// Controller state errors.
var (
	ErrFinished       = errors.New("attempt already finished")
	ErrNotInProgress  = errors.New("no attempt in progress")
	ErrNoQuestion     = errors.New("no question at the current position")
	ErrChoiceRequired = errors.New("a choice selection is required for this question")
	ErrTextRequired   = errors.New("a text answer is required for this question")
	ErrNoResult       = errors.New("no retained result for this attempt")
)

// Gateway is the slice of the quiz-service client the controller needs.
type Gateway interface {
	StartAttempt(ctx context.Context, token string, quizID int64) (*model.Attempt, error)
	GetAttempt(ctx context.Context, token string, attemptID int64) (*model.Attempt, error)
	SubmitAnswer(ctx context.Context, token string, attemptID int64, payload model.SubmitAnswerPayload) error
	FinishAttempt(ctx context.Context, token string, attemptID int64) (*model.FinishResult, error)
	ReviewWrongAnswers(ctx context.Context, token string, attemptID int64) ([]model.ReviewEntry, error)
}

// Controller drives one student's attempts. It is stateless itself; cursor,
// question count and retained results live in the flow store keyed by the
// browser session, so an attempt survives page reloads.
type Controller struct {
	gw   Gateway
	flow state.Store
	log  zerolog.Logger
}

// NewController creates a Controller.
func NewController(gw Gateway, flow state.Store, log zerolog.Logger) *Controller {
	return &Controller{
		gw:   gw,
		flow: flow,
		log:  log.With().Str("component", "attempt").Logger(),
	}
}

// View is the renderable snapshot of an in-progress or finished attempt.
type View struct {
	Attempt         *model.Attempt  `json:"attempt"`
	Cursor          int             `json:"cursor"`
	QuestionCount   int             `json:"question_count"`
	CurrentQuestion *model.Question `json:"current_question,omitempty"`
}

// Result is the grading summary retained after finish. WrongAnswers may be
// missing when the review fetch failed after a successful finish; the
// attempt is still finished in that case and ReviewUnavailable says so.
type Result struct {
	model.FinishResult
	WrongAnswers      []model.ReviewEntry `json:"wrong_answers"`
	ReviewUnavailable bool                `json:"review_unavailable,omitempty"`
}

// Start opens a new attempt on the quiz and re-fetches it for the full
// server snapshot (questions come nested, already shuffled server-side when
// the quiz asks for it; the controller never re-orders). The cursor starts
// at zero. Upstream rejections (max attempts exceeded, quiz not assigned)
// pass through unchanged with no retry.
func (ctl *Controller) Start(ctx context.Context, sid, token string, quizID int64) (*View, error) {
	created, err := ctl.gw.StartAttempt(ctx, token, quizID)
	if err != nil {
		return nil, err
	}

	att, err := ctl.gw.GetAttempt(ctx, token, created.ID)
	if err != nil {
		// The attempt exists upstream; render the creation echo rather than
		// failing the whole start.
		ctl.log.Warn().Err(err).Int64("attempt_id", created.ID).Msg("Re-fetch after start failed")
		att = created
	}

	if err := ctl.putInt(ctx, config.StateKey.AttemptCursorKey(sid, att.ID), 0); err != nil {
		return nil, fmt.Errorf("seed cursor: %w", err)
	}
	if err := ctl.putInt(ctx, config.StateKey.AttemptCountKey(sid, att.ID), att.QuestionCount()); err != nil {
		return nil, fmt.Errorf("seed question count: %w", err)
	}

	ctl.log.Info().Int64("quiz_id", quizID).Int64("attempt_id", att.ID).Msg("Attempt started")
	return buildView(att, 0), nil
}

// View re-fetches the attempt and pairs it with the stored cursor. When the
// flow state is gone (expired, or a reload against a fresh instance) the
// cursor is re-seeded at zero from the server snapshot.
func (ctl *Controller) View(ctx context.Context, sid, token string, attemptID int64) (*View, error) {
	att, err := ctl.gw.GetAttempt(ctx, token, attemptID)
	if err != nil {
		return nil, err
	}

	cursor, err := ctl.getInt(ctx, config.StateKey.AttemptCursorKey(sid, attemptID))
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			return nil, err
		}
		cursor = 0
		if err := ctl.putInt(ctx, config.StateKey.AttemptCursorKey(sid, attemptID), 0); err != nil {
			return nil, fmt.Errorf("seed cursor: %w", err)
		}
		if err := ctl.putInt(ctx, config.StateKey.AttemptCountKey(sid, attemptID), att.QuestionCount()); err != nil {
			return nil, fmt.Errorf("seed question count: %w", err)
		}
	}

	cursor = clamp(cursor, att.QuestionCount())
	return buildView(att, cursor), nil
}

// Answer submits an answer for the question at the cursor, then re-fetches
// the attempt so the returned view reflects server truth. The cursor does
// not advance — that is a separate user-issued Next. On any failure the
// cursor and attempt state are left untouched.
func (ctl *Controller) Answer(ctx context.Context, sid, token string, attemptID int64, input model.AnswerInput) (*View, error) {
	att, err := ctl.gw.GetAttempt(ctx, token, attemptID)
	if err != nil {
		return nil, err
	}
	if att.Status == model.AttemptFinished {
		return nil, ErrFinished
	}

	cursor, err := ctl.getInt(ctx, config.StateKey.AttemptCursorKey(sid, attemptID))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return nil, ErrNotInProgress
		}
		return nil, err
	}
	if cursor < 0 || cursor >= att.QuestionCount() {
		return nil, ErrNoQuestion
	}
	question := att.Quiz.Questions[cursor]

	payload := model.SubmitAnswerPayload{Question: question.ID}
	switch question.Kind {
	case model.KindMultipleChoice, model.KindTrueFalse:
		if input.SelectedChoiceID == nil {
			return nil, ErrChoiceRequired
		}
		payload.SelectedChoice = input.SelectedChoiceID
	case model.KindShortAnswer:
		if input.ShortAnswerText == nil {
			return nil, ErrTextRequired
		}
		payload.ShortAnswerText = input.ShortAnswerText
	default:
		return nil, fmt.Errorf("unknown question kind %q", question.Kind)
	}

	if err := ctl.gw.SubmitAnswer(ctx, token, attemptID, payload); err != nil {
		return nil, err
	}

	updated, err := ctl.gw.GetAttempt(ctx, token, attemptID)
	if err != nil {
		return nil, err
	}
	return buildView(updated, cursor), nil
}

// Next moves the cursor forward. Pure flow state, no upstream call; a no-op
// at the last question.
func (ctl *Controller) Next(ctx context.Context, sid string, attemptID int64) (int, error) {
	return ctl.move(ctx, sid, attemptID, +1)
}

// Previous moves the cursor backward. A no-op at the first question.
func (ctl *Controller) Previous(ctx context.Context, sid string, attemptID int64) (int, error) {
	return ctl.move(ctx, sid, attemptID, -1)
}

func (ctl *Controller) move(ctx context.Context, sid string, attemptID int64, delta int) (int, error) {
	cursor, err := ctl.getInt(ctx, config.StateKey.AttemptCursorKey(sid, attemptID))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return 0, ErrNotInProgress
		}
		return 0, err
	}
	count, err := ctl.getInt(ctx, config.StateKey.AttemptCountKey(sid, attemptID))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return 0, ErrNotInProgress
		}
		return 0, err
	}

	cursor = clamp(cursor+delta, count)
	if err := ctl.putInt(ctx, config.StateKey.AttemptCursorKey(sid, attemptID), cursor); err != nil {
		return 0, err
	}
	return cursor, nil
}

// Finish closes the attempt upstream, then fetches the wrong-answer review.
// The two steps are separate upstream calls: a finish failure leaves the
// attempt in progress, while a review failure after a successful finish
// still yields a finished attempt with ReviewUnavailable set. The result is
// retained in the flow store for the result page.
func (ctl *Controller) Finish(ctx context.Context, sid, token string, attemptID int64) (*Result, error) {
	res, err := ctl.gw.FinishAttempt(ctx, token, attemptID)
	if err != nil {
		return nil, err
	}

	result := &Result{FinishResult: *res, WrongAnswers: []model.ReviewEntry{}}

	wrong, err := ctl.gw.ReviewWrongAnswers(ctx, token, attemptID)
	if err != nil {
		ctl.log.Error().Err(err).Int64("attempt_id", attemptID).Msg("Review fetch failed after finish")
		result.ReviewUnavailable = true
	} else if wrong != nil {
		result.WrongAnswers = wrong
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := ctl.flow.Put(ctx, config.StateKey.AttemptResultKey(sid, attemptID), string(raw)); err != nil {
			ctl.log.Warn().Err(err).Int64("attempt_id", attemptID).Msg("Could not retain finish result")
		}
	}

	// The cursor has no meaning once the attempt is finished.
	_ = ctl.flow.Delete(ctx, config.StateKey.AttemptCursorKey(sid, attemptID))
	_ = ctl.flow.Delete(ctx, config.StateKey.AttemptCountKey(sid, attemptID))

	ctl.log.Info().
		Int64("attempt_id", attemptID).
		Float64("score", res.Score).
		Int("total_correct", res.TotalCorrect).
		Int("total_wrong", res.TotalWrong).
		Msg("Attempt finished")
	return result, nil
}

// Result returns the retained grading summary of a finished attempt.
func (ctl *Controller) Result(ctx context.Context, sid string, attemptID int64) (*Result, error) {
	raw, err := ctl.flow.Get(ctx, config.StateKey.AttemptResultKey(sid, attemptID))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return nil, ErrNoResult
		}
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decode retained result: %w", err)
	}
	return &result, nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func buildView(att *model.Attempt, cursor int) *View {
	view := &View{
		Attempt:       att,
		Cursor:        cursor,
		QuestionCount: att.QuestionCount(),
	}
	if att.Quiz != nil && cursor >= 0 && cursor < len(att.Quiz.Questions) {
		view.CurrentQuestion = &att.Quiz.Questions[cursor]
	}
	return view
}

// clamp keeps the cursor inside [0, count-1]; an empty quiz pins it at 0.
func clamp(cursor, count int) int {
	if cursor < 0 {
		return 0
	}
	if count > 0 && cursor > count-1 {
		return count - 1
	}
	if count == 0 {
		return 0
	}
	return cursor
}

func (ctl *Controller) getInt(ctx context.Context, key string) (int, error) {
	raw, err := ctl.flow.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", key, err)
	}
	return n, nil
}

func (ctl *Controller) putInt(ctx context.Context, key string, n int) error {
	return ctl.flow.Put(ctx, key, strconv.Itoa(n))
}

var _ Gateway = (*gateway.Client)(nil)
