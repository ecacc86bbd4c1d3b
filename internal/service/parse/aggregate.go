package parse

import (
	"regexp"
	"strings"

	"meeting-parser-service/internal/model"
)

// aggregate merges the extractor outputs into one ParsedResponse.
//
// Candidates inside quoted or forwarded regions belong to the proposal
// being responded to: the earliest becomes original_time and the rest are
// dropped as stale. A body candidate restating the same instant as the
// original is an echo of it, never a new proposal, and is dropped too. For
// reschedule replies every remaining candidate is an offer awaiting
// confirmation, so they all go to proposed_times and proposed_time stays
// null; for other replies the best remaining candidate becomes
// proposed_time and is excluded from proposed_times.
func aggregate(quoted []model.Span, candidates []model.TimeCandidate, scores model.ReplyTypeScores, ents model.Entities) *model.ParsedResponse {
	resp := &model.ParsedResponse{
		ReplyType:       scores.Top(),
		ReplyTypeScores: scores,
		MeetingLink:     ents.MeetingLink,
		DelegateTo:      ents.DelegateTo,
		AdditionalNotes: ents.Notes,
	}

	remaining := make([]model.TimeCandidate, 0, len(candidates))
	for i := range candidates {
		if inRegions(quoted, candidates[i].Span) {
			if resp.AdditionalInfo.OriginalTime == nil {
				c := candidates[i]
				resp.AdditionalInfo.OriginalTime = &c
			}
			continue
		}
		remaining = append(remaining, candidates[i])
	}
	if orig := resp.AdditionalInfo.OriginalTime; orig != nil {
		kept := remaining[:0]
		for _, c := range remaining {
			if !c.Timestamp.Equal(orig.Timestamp) {
				kept = append(kept, c)
			}
		}
		remaining = kept
	}

	if resp.ReplyType == model.ReplyReschedule {
		resp.AdditionalInfo.ProposedTimes = remaining
		return resp
	}
	if len(remaining) == 0 {
		return resp
	}

	best := bestCandidate(remaining)
	c := remaining[best]
	resp.ProposedTime = &c
	alternatives := make([]model.TimeCandidate, 0, len(remaining)-1)
	alternatives = append(alternatives, remaining[:best]...)
	alternatives = append(alternatives, remaining[best+1:]...)
	resp.AdditionalInfo.ProposedTimes = alternatives
	return resp
}

// bestCandidate picks the highest-confidence candidate; on a tie the
// explicit one wins, and on a full tie the earliest-occurring span wins
// (candidates arrive in appearance order).
func bestCandidate(cands []model.TimeCandidate) int {
	best := 0
	for i := 1; i < len(cands); i++ {
		switch {
		case cands[i].Confidence > cands[best].Confidence:
			best = i
		case cands[i].Confidence == cands[best].Confidence && cands[best].Inferred && !cands[i].Inferred:
			best = i
		}
	}
	return best
}

// applyConsistency is the one cross-field rule the engine enforces, as a
// pure pass over the built aggregate: a reschedule classification without
// any extracted alternative is unreliable, so its score is capped at 0.5
// and the top label recomputed.
func applyConsistency(resp *model.ParsedResponse) {
	if resp.ReplyType != model.ReplyReschedule {
		return
	}
	if len(resp.AdditionalInfo.ProposedTimes) > 0 {
		return
	}
	if resp.ReplyTypeScores.Reschedule > 0.5 {
		resp.ReplyTypeScores.Reschedule = 0.5
	}
	resp.ReplyType = resp.ReplyTypeScores.Top()
}

var (
	reOnWrote = regexp.MustCompile(`(?im)^on .{0,120} wrote:\s*$`)
	reOrigMsg = regexp.MustCompile(`(?im)^-{2,}\s*(original message|forwarded message|original appointment)\s*-*\s*$`)
)

// quotedRegions finds the byte ranges of quoted or forwarded content: ">"
// quote lines, "On ... wrote:" attributions, original-message separators,
// and embedded header blocks appearing after the body has started.
func quotedRegions(text string) []model.Span {
	var regions []model.Span
	off := 0
	bodySeen := false
	for off < len(text) {
		lineEnd := strings.IndexByte(text[off:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd = off + lineEnd + 1
		}
		line := strings.TrimSpace(text[off:lineEnd])
		lineStart := off
		off = lineEnd

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			regions = append(regions, model.Span{Start: lineStart, End: lineEnd})
			continue
		}
		low := strings.ToLower(line)
		if isHeaderLine(low) {
			// A header block at the top of the body is the email's own;
			// one appearing mid-text starts forwarded content.
			if bodySeen && strings.HasPrefix(low, "from:") {
				regions = append(regions, model.Span{Start: lineStart, End: len(text)})
				break
			}
			continue
		}
		bodySeen = true
	}
	if m := reOnWrote.FindStringIndex(text); m != nil {
		regions = append(regions, model.Span{Start: m[0], End: len(text)})
	}
	if m := reOrigMsg.FindStringIndex(text); m != nil {
		regions = append(regions, model.Span{Start: m[0], End: len(text)})
	}
	return regions
}

// maskRegions blanks the given regions so downstream matching cannot see
// quoted content, while keeping every byte offset stable.
func maskRegions(text string, regions []model.Span) string {
	if len(regions) == 0 {
		return text
	}
	b := []byte(text)
	for _, r := range regions {
		for i := r.Start; i < r.End && i < len(b); i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

func isHeaderLine(low string) bool {
	for _, p := range []string{"from:", "to:", "cc:", "subject:", "sent:", "date:"} {
		if strings.HasPrefix(low, p) {
			return true
		}
	}
	return false
}

func inRegions(regions []model.Span, s model.Span) bool {
	for _, r := range regions {
		if s.Start >= r.Start && s.Start < r.End {
			return true
		}
	}
	return false
}
