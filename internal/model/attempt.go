package model

import "time"

// AttemptStatus enumerates attempt states as reported by the quiz-service.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptFinished   AttemptStatus = "finished"
)

// Attempt is one student's run through one quiz, from start to finish.
// It is always a cache of server state, re-fetched after every mutation.
type Attempt struct {
	ID               int64         `json:"id"`
	Quiz             *Quiz         `json:"quiz,omitempty"`
	StudentName      string        `json:"student_name,omitempty"`
	StartTime        time.Time     `json:"start_time"`
	FinishTime       *time.Time    `json:"finish_time"`
	Status           AttemptStatus `json:"status"`
	Score            *float64      `json:"score"`
	TotalCorrect     int           `json:"total_correct"`
	TotalWrong       int           `json:"total_wrong"`
	TimeLimitSeconds *int          `json:"time_limit_seconds"`
	Answers          []Answer      `json:"answers,omitempty"`
}

// QuestionCount returns the number of questions on the attempt's quiz.
func (a *Attempt) QuestionCount() int {
	if a.Quiz == nil {
		return 0
	}
	return len(a.Quiz.Questions)
}

// Answer is one stored answer within an attempt. Exactly one of
// SelectedChoiceID / ShortAnswerText is populated depending on the
// question kind.
type Answer struct {
	QuestionID       int64   `json:"question"`
	SelectedChoiceID *int64  `json:"selected_choice"`
	ShortAnswerText  *string `json:"short_answer_text"`
	IsCorrect        *bool   `json:"is_correct"`
}

// AnswerInput is the answer payload from the browser for the current question.
type AnswerInput struct {
	SelectedChoiceID *int64  `json:"selected_choice_id"`
	ShortAnswerText  *string `json:"short_answer_text"`
}

// SubmitAnswerPayload is the wire form sent to the upstream quiz-service.
type SubmitAnswerPayload struct {
	Question        int64   `json:"question"`
	SelectedChoice  *int64  `json:"selected_choice,omitempty"`
	ShortAnswerText *string `json:"short_answer_text,omitempty"`
}

// FinishResult is the grading summary returned by the finish call.
type FinishResult struct {
	Score        float64 `json:"score"`
	TotalCorrect int     `json:"total_correct"`
	TotalWrong   int     `json:"total_wrong"`
}

// ReviewEntry is one incorrectly-answered question in the post-finish review.
type ReviewEntry struct {
	QuestionID         int64  `json:"question"`
	QuestionText       string `json:"question_text"`
	SelectedChoiceText string `json:"selected_choice_text,omitempty"`
	ShortAnswerText    string `json:"short_answer_text,omitempty"`
}
