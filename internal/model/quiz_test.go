package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamPayloadConvertsMinutesToSeconds(t *testing.T) {
	minutes := 10
	req := CreateQuizRequest{Title: "Algebra", TimeLimitMinutes: &minutes}

	payload := req.UpstreamPayload()
	require.NotNil(t, payload.TimeLimitSeconds)
	assert.Equal(t, 600, *payload.TimeLimitSeconds)
}

func TestUpstreamPayloadKeepsUnlimitedNil(t *testing.T) {
	req := CreateQuizRequest{Title: "Algebra"}

	payload := req.UpstreamPayload()
	assert.Nil(t, payload.TimeLimitSeconds)
	assert.Nil(t, payload.MaxAttempts)
}

func TestQuestionKindValid(t *testing.T) {
	assert.True(t, KindMultipleChoice.Valid())
	assert.True(t, KindTrueFalse.Valid())
	assert.True(t, KindShortAnswer.Valid())
	assert.False(t, QuestionKind("essay").Valid())
}

func TestQuestionKindOwnsChoices(t *testing.T) {
	owns, err := KindMultipleChoice.OwnsChoices()
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = KindShortAnswer.OwnsChoices()
	require.NoError(t, err)
	assert.False(t, owns)

	_, err = QuestionKind("essay").OwnsChoices()
	assert.Error(t, err)
}

func TestAttemptQuestionCount(t *testing.T) {
	var att Attempt
	assert.Equal(t, 0, att.QuestionCount())

	att.Quiz = &Quiz{Questions: []Question{{ID: 1}, {ID: 2}}}
	assert.Equal(t, 2, att.QuestionCount())
}
