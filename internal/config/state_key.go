package config

import (
	"fmt"
)

type StateKeyStruct struct{}

func NewStateKeyStruct() *StateKeyStruct {
	return &StateKeyStruct{}
}

// SessionKey returns the store key for a browser session's token bundle.
func (r *StateKeyStruct) SessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// AttemptCursorKey returns the store key for a session's attempt cursor.
func (r *StateKeyStruct) AttemptCursorKey(sid string, attemptID int64) string {
	return fmt.Sprintf("session:%s:attempt:%d:cursor", sid, attemptID)
}

// AttemptCountKey returns the store key for an attempt's question count.
func (r *StateKeyStruct) AttemptCountKey(sid string, attemptID int64) string {
	return fmt.Sprintf("session:%s:attempt:%d:question_count", sid, attemptID)
}

// AttemptResultKey returns the store key for a finished attempt's retained result.
func (r *StateKeyStruct) AttemptResultKey(sid string, attemptID int64) string {
	return fmt.Sprintf("session:%s:attempt:%d:result", sid, attemptID)
}

// WizardDraftKey returns the store key for a session's question draft on a quiz.
func (r *StateKeyStruct) WizardDraftKey(sid string, quizID int64) string {
	return fmt.Sprintf("session:%s:quiz:%d:wizard", sid, quizID)
}

var StateKey = NewStateKeyStruct()
