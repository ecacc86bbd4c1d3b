package model

import (
	"encoding/json"
	"time"
)

// ReplyType is the classified intent of an email replying to a meeting proposal.
type ReplyType string

const (
	ReplyAccept     ReplyType = "accept"
	ReplyDecline    ReplyType = "decline"
	ReplyReschedule ReplyType = "reschedule"
	ReplyDelegate   ReplyType = "delegate"
	ReplyUnclear    ReplyType = "unclear"
)

// labelPriority breaks exact ties: the most specific label wins.
var labelPriority = []ReplyType{ReplyDecline, ReplyReschedule, ReplyDelegate, ReplyAccept, ReplyUnclear}

// ReplyTypeScores is a fixed score table over the closed label set.
// Each score is independent evidence in [0,1]; scores do not sum to 1.
type ReplyTypeScores struct {
	Accept     float64 `json:"accept"`
	Decline    float64 `json:"decline"`
	Reschedule float64 `json:"reschedule"`
	Delegate   float64 `json:"delegate"`
	Unclear    float64 `json:"unclear"`
}

func (s ReplyTypeScores) Get(label ReplyType) float64 {
	switch label {
	case ReplyAccept:
		return s.Accept
	case ReplyDecline:
		return s.Decline
	case ReplyReschedule:
		return s.Reschedule
	case ReplyDelegate:
		return s.Delegate
	case ReplyUnclear:
		return s.Unclear
	}
	return 0
}

func (s *ReplyTypeScores) Set(label ReplyType, v float64) {
	switch label {
	case ReplyAccept:
		s.Accept = v
	case ReplyDecline:
		s.Decline = v
	case ReplyReschedule:
		s.Reschedule = v
	case ReplyDelegate:
		s.Delegate = v
	case ReplyUnclear:
		s.Unclear = v
	}
}

// Top returns the arg-max label. Ties go to the earlier entry in the
// priority order, so a strict greater-than comparison is enough.
func (s ReplyTypeScores) Top() ReplyType {
	top := labelPriority[0]
	best := s.Get(top)
	for _, label := range labelPriority[1:] {
		if v := s.Get(label); v > best {
			best = v
			top = label
		}
	}
	return top
}

// Clamp forces every score into [0,1].
func (s *ReplyTypeScores) Clamp() {
	for _, label := range labelPriority {
		v := s.Get(label)
		if v < 0 {
			s.Set(label, 0)
		} else if v > 1 {
			s.Set(label, 1)
		}
	}
}

// Span is a half-open byte-offset range into the original email text.
type Span struct {
	Start int
	End   int
}

func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// TimeCandidate is a normalized point in time derived from a span of text.
// Inferred marks candidates resolved from relative expressions that needed
// an anchor; TimezoneDefaulted records that no zone was mentioned and the
// configured default was applied.
type TimeCandidate struct {
	Timestamp         time.Time
	Span              Span
	Confidence        float64
	Inferred          bool
	TimezoneDefaulted bool
}

// RawEmail is the immutable parse input. Subject is a weak hint source,
// never authoritative. SentAt anchors relative time expressions; when nil,
// the extractor falls back to its own clock with reduced confidence.
type RawEmail struct {
	Text    string
	Subject string
	SentAt  *time.Time
}

// Entities holds the entity extractor output. Empty strings mean "not found".
type Entities struct {
	MeetingLink string
	DelegateTo  string
	Notes       string
}

// AdditionalInfo carries the time context around the main result:
// the time being responded to, and the alternative proposals.
type AdditionalInfo struct {
	OriginalTime  *TimeCandidate
	ProposedTimes []TimeCandidate
}

// ParsedResponse is the aggregate parse result handed back to the caller.
type ParsedResponse struct {
	ProposedTime    *TimeCandidate
	ReplyType       ReplyType
	ReplyTypeScores ReplyTypeScores
	MeetingLink     string
	DelegateTo      string
	AdditionalInfo  AdditionalInfo
	AdditionalNotes string
}

type wireAdditionalInfo struct {
	OriginalTime  *string  `json:"original_time"`
	ProposedTimes []string `json:"proposed_times"`
}

type wireResponse struct {
	ProposedTime    *string            `json:"proposed_time"`
	ReplyType       ReplyType          `json:"reply_type"`
	ReplyTypeScores ReplyTypeScores    `json:"reply_type_scores"`
	MeetingLink     *string            `json:"meeting_link"`
	DelegateTo      *string            `json:"delegate_to"`
	AdditionalInfo  wireAdditionalInfo `json:"additional_info"`
	AdditionalNotes *string            `json:"additional_notes"`
}

// MarshalJSON renders the wire contract: ISO-8601 timestamps, explicit
// nulls for absent fields, proposed_times always an array.
func (r ParsedResponse) MarshalJSON() ([]byte, error) {
	w := wireResponse{
		ReplyType:       r.ReplyType,
		ReplyTypeScores: r.ReplyTypeScores,
	}
	if r.ProposedTime != nil {
		s := r.ProposedTime.Timestamp.Format(time.RFC3339)
		w.ProposedTime = &s
	}
	if r.MeetingLink != "" {
		w.MeetingLink = &r.MeetingLink
	}
	if r.DelegateTo != "" {
		w.DelegateTo = &r.DelegateTo
	}
	if r.AdditionalInfo.OriginalTime != nil {
		s := r.AdditionalInfo.OriginalTime.Timestamp.Format(time.RFC3339)
		w.AdditionalInfo.OriginalTime = &s
	}
	w.AdditionalInfo.ProposedTimes = make([]string, 0, len(r.AdditionalInfo.ProposedTimes))
	for _, tc := range r.AdditionalInfo.ProposedTimes {
		w.AdditionalInfo.ProposedTimes = append(w.AdditionalInfo.ProposedTimes, tc.Timestamp.Format(time.RFC3339))
	}
	if r.AdditionalNotes != "" {
		w.AdditionalNotes = &r.AdditionalNotes
	}
	return json.Marshal(w)
}
