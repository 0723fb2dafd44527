package model

import "fmt"

// QuestionKind is the tagged question type. Every transition and save path
// switches over it exhaustively; an unknown kind is always an error, never a
// silent default.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "mcq"
	KindTrueFalse      QuestionKind = "tf"
	KindShortAnswer    QuestionKind = "short"
)

// Valid reports whether the kind is one of the known values.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindShortAnswer:
		return true
	}
	return false
}

// OwnsChoices reports whether questions of this kind carry Choice records.
func (k QuestionKind) OwnsChoices() (bool, error) {
	switch k {
	case KindMultipleChoice, KindTrueFalse:
		return true, nil
	case KindShortAnswer:
		return false, nil
	default:
		return false, fmt.Errorf("unknown question kind %q", k)
	}
}

// Question represents a single quiz question.
type Question struct {
	ID      int64        `json:"id"`
	QuizID  int64        `json:"quiz,omitempty"`
	Text    string       `json:"text"`
	Kind    QuestionKind `json:"qtype"`
	Points  int          `json:"points"`
	Order   int          `json:"order"`
	Choices []Choice     `json:"choices,omitempty"`
}

// Choice represents one selectable answer of a question.
// For true/false questions exactly two exist and exactly one is correct;
// the wizard materializes them rather than trusting form input.
type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question,omitempty"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct,omitempty"`
	Order      int    `json:"order"`
}

// CreateQuestionPayload is the wire form for creating a question upstream.
type CreateQuestionPayload struct {
	Quiz   int64        `json:"quiz"`
	Text   string       `json:"text"`
	Kind   QuestionKind `json:"qtype"`
	Points int          `json:"points"`
	Order  int          `json:"order"`
}

// CreateChoicePayload is the wire form for creating a choice upstream.
type CreateChoicePayload struct {
	Question  int64  `json:"question"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order"`
}
