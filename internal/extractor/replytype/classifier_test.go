package replytype

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"meeting-parser-service/internal/model"
)

func TestClassifyTopLabel(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		name string
		text string
		want model.ReplyType
	}{
		{"plain accept", "That works for me, see you then!", model.ReplyAccept},
		{"confirmation", "Confirmed, looking forward to it.", model.ReplyAccept},
		{"plain decline", "Unfortunately I can't make it.", model.ReplyDecline},
		{"formal decline", "I'm afraid I must decline the invitation.", model.ReplyDecline},
		{"reschedule beats decline", "I can't make it Tuesday, can we do Wednesday at 2pm instead?", model.ReplyReschedule},
		{"explicit reschedule", "We need to reschedule, how about Friday?", model.ReplyReschedule},
		{"delegate", "Please forward this to Jane, she'll handle it.", model.ReplyDelegate},
		{"on behalf", "Marco will join on my behalf.", model.ReplyDelegate},
		{"hedge", "Let me check my calendar and get back to you.", model.ReplyUnclear},
		{"no signal", "Thanks for the quarterly numbers.", model.ReplyUnclear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := c.Classify(tt.text, "")
			assert.Equal(t, tt.want, scores.Top(), "scores: %+v", scores)
		})
	}
}

func TestClassifyNegationFlipsAcceptCue(t *testing.T) {
	c := NewClassifier()
	scores := c.Classify("This doesn't work for me.", "")
	assert.Equal(t, model.ReplyDecline, scores.Top())
	assert.Greater(t, scores.Decline, scores.Accept)
}

func TestClassifyNegationInsideCueDoesNotFlip(t *testing.T) {
	c := NewClassifier()
	// "can't" belongs to the decline cue itself, not to a preceding clause.
	scores := c.Classify("I can't make it this week.", "")
	assert.Equal(t, model.ReplyDecline, scores.Top())
}

func TestClassifySaturates(t *testing.T) {
	c := NewClassifier()
	scores := c.Classify("Sounds good. Sounds great. Sounds perfect. Sounds fine.", "")
	assert.Equal(t, model.ReplyAccept, scores.Top())
	assert.LessOrEqual(t, scores.Accept, 1.0)
	assert.Greater(t, scores.Accept, 0.9)
}

func TestClassifySubjectIsWeakerThanBody(t *testing.T) {
	c := NewClassifier()
	fromBody := c.Classify("I can't make it.", "")
	fromSubject := c.Classify("", "I can't make it")
	assert.Greater(t, fromBody.Decline, fromSubject.Decline)
	assert.Greater(t, fromSubject.Decline, 0.05)
}

func TestClassifyEmptyInput(t *testing.T) {
	c := NewClassifier()
	scores := c.Classify("", "")
	assert.Equal(t, model.ReplyUnclear, scores.Top())
	assert.Equal(t, 0.05, scores.Accept)
	assert.Equal(t, 0.2, scores.Unclear)
}

func TestClassifyAllLabelsScored(t *testing.T) {
	c := NewClassifier()
	scores := c.Classify("Sounds good!", "")
	for _, label := range []model.ReplyType{model.ReplyAccept, model.ReplyDecline, model.ReplyReschedule, model.ReplyDelegate, model.ReplyUnclear} {
		assert.Greater(t, scores.Get(label), 0.0, "label %s must keep a nonzero floor", label)
	}
}

func TestHasCue(t *testing.T) {
	assert.True(t, HasCue("sounds good to me"))
	assert.True(t, HasCue("we should reschedule"))
	assert.False(t, HasCue("the weather is nice"))
}
