package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyTypeScoresTop(t *testing.T) {
	tests := []struct {
		name   string
		scores ReplyTypeScores
		want   ReplyType
	}{
		{
			name:   "accept wins",
			scores: ReplyTypeScores{Accept: 0.9, Decline: 0.1, Reschedule: 0.1, Delegate: 0.1, Unclear: 0.2},
			want:   ReplyAccept,
		},
		{
			name:   "unclear fallback on uniform baseline",
			scores: ReplyTypeScores{Accept: 0.05, Decline: 0.05, Reschedule: 0.05, Delegate: 0.05, Unclear: 0.2},
			want:   ReplyUnclear,
		},
		{
			name:   "exact tie goes to decline over accept",
			scores: ReplyTypeScores{Accept: 0.7, Decline: 0.7, Reschedule: 0.1, Delegate: 0.1, Unclear: 0.1},
			want:   ReplyDecline,
		},
		{
			name:   "exact tie goes to reschedule over delegate",
			scores: ReplyTypeScores{Accept: 0.1, Decline: 0.1, Reschedule: 0.6, Delegate: 0.6, Unclear: 0.1},
			want:   ReplyReschedule,
		},
		{
			name:   "all equal picks highest priority",
			scores: ReplyTypeScores{Accept: 0.3, Decline: 0.3, Reschedule: 0.3, Delegate: 0.3, Unclear: 0.3},
			want:   ReplyDecline,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scores.Top())
		})
	}
}

func TestReplyTypeScoresClamp(t *testing.T) {
	s := ReplyTypeScores{Accept: 1.4, Decline: -0.2, Unclear: 0.5}
	s.Clamp()
	assert.Equal(t, 1.0, s.Accept)
	assert.Equal(t, 0.0, s.Decline)
	assert.Equal(t, 0.5, s.Unclear)
}

func TestParsedResponseJSONEmptyFields(t *testing.T) {
	resp := ParsedResponse{
		ReplyType:       ReplyUnclear,
		ReplyTypeScores: ReplyTypeScores{Unclear: 0.2},
	}
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	assert.Nil(t, m["proposed_time"])
	assert.Nil(t, m["meeting_link"])
	assert.Nil(t, m["delegate_to"])
	assert.Nil(t, m["additional_notes"])
	assert.Equal(t, "unclear", m["reply_type"])

	info, ok := m["additional_info"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, info["original_time"])
	times, ok := info["proposed_times"].([]any)
	require.True(t, ok, "proposed_times must always be an array")
	assert.Empty(t, times)

	scores, ok := m["reply_type_scores"].(map[string]any)
	require.True(t, ok)
	for _, label := range []string{"accept", "decline", "reschedule", "delegate", "unclear"} {
		assert.Contains(t, scores, label)
	}
}

func TestParsedResponseJSONTimestamps(t *testing.T) {
	ts := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	alt := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)
	resp := ParsedResponse{
		ProposedTime:    &TimeCandidate{Timestamp: ts, Confidence: 0.9},
		ReplyType:       ReplyAccept,
		MeetingLink:     "https://meet.example.com/abc",
		AdditionalNotes: "bring the slides",
		AdditionalInfo: AdditionalInfo{
			ProposedTimes: []TimeCandidate{{Timestamp: alt, Confidence: 0.5}},
		},
	}
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "2025-03-12T14:00:00Z", m["proposed_time"])
	assert.Equal(t, "https://meet.example.com/abc", m["meeting_link"])
	assert.Equal(t, "bring the slides", m["additional_notes"])

	info := m["additional_info"].(map[string]any)
	assert.Equal(t, []any{"2025-03-13T10:00:00Z"}, info["proposed_times"])
}

func TestSpanOverlaps(t *testing.T) {
	assert.True(t, Span{Start: 0, End: 5}.Overlaps(Span{Start: 4, End: 8}))
	assert.False(t, Span{Start: 0, End: 5}.Overlaps(Span{Start: 5, End: 8}))
	assert.True(t, Span{Start: 2, End: 3}.Overlaps(Span{Start: 0, End: 10}))
}
