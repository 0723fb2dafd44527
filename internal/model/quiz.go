package model

import "time"

// Quiz represents one quiz as served by the upstream quiz-service.
// TimeLimitSeconds and MaxAttempts are nil when unlimited.
type Quiz struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitSeconds *int       `json:"time_limit_seconds"`
	MaxAttempts      *int       `json:"max_attempts"`
	ShuffleQuestions bool       `json:"shuffle_questions"`
	CreatedAt        time.Time  `json:"created_at"`
	Questions        []Question `json:"questions,omitempty"`
}

// QuizSummary is one row of the teacher dashboard listing.
type QuizSummary struct {
	QuizID       int64  `json:"quiz_id"`
	Title        string `json:"title"`
	AttemptCount int    `json:"attempts"`
}

// CreateQuizRequest is the quiz creation payload from the teacher form.
// The form collects the time limit in minutes; the upstream service stores
// seconds, so the conversion happens in UpstreamPayload.
type CreateQuizRequest struct {
	Title            string `json:"title" binding:"required,min=1,max=255"`
	Description      string `json:"description" binding:"max=2000"`
	TimeLimitMinutes *int   `json:"time_limit_minutes" binding:"omitempty,min=1,max=600"`
	MaxAttempts      *int   `json:"max_attempts" binding:"omitempty,min=1"`
	ShuffleQuestions bool   `json:"shuffle_questions"`
}

// CreateQuizPayload is the wire form sent to the upstream quiz-service.
type CreateQuizPayload struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	TimeLimitSeconds *int   `json:"time_limit_seconds"`
	MaxAttempts      *int   `json:"max_attempts"`
	ShuffleQuestions bool   `json:"shuffle_questions"`
}

// UpstreamPayload converts the form request into the upstream wire form.
// A nil TimeLimitMinutes or MaxAttempts stays nil (unlimited).
func (r *CreateQuizRequest) UpstreamPayload() CreateQuizPayload {
	p := CreateQuizPayload{
		Title:            r.Title,
		Description:      r.Description,
		MaxAttempts:      r.MaxAttempts,
		ShuffleQuestions: r.ShuffleQuestions,
	}
	if r.TimeLimitMinutes != nil {
		seconds := *r.TimeLimitMinutes * 60
		p.TimeLimitSeconds = &seconds
	}
	return p
}
