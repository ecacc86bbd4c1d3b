package entity

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"meeting-parser-service/internal/extractor/replytype"
	"meeting-parser-service/internal/extractor/timeexpr"
	"meeting-parser-service/internal/model"
)

// Extractor pulls out the meeting link, the delegate, and the residual
// free-text notes.
type Extractor struct {
	hosts    []string
	maxNotes int
}

func New(conferencingHosts []string, maxNotesLength int) *Extractor {
	if maxNotesLength <= 0 {
		maxNotesLength = 500
	}
	return &Extractor{hosts: conferencingHosts, maxNotes: maxNotesLength}
}

func (e *Extractor) Extract(text string) model.Entities {
	return model.Entities{
		MeetingLink: e.findMeetingLink(text),
		DelegateTo:  findDelegate(text),
		Notes:       e.collectNotes(text),
	}
}

var reURL = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// findMeetingLink returns the first URL whose host matches the
// conferencing allow-list. Conferencing links are rare and singular in
// practice, so first-in-text wins.
func (e *Extractor) findMeetingLink(text string) string {
	for _, raw := range reURL.FindAllString(text, -1) {
		raw = strings.TrimRight(raw, ".,;:!?")
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(u.Host)
		for _, pattern := range e.hosts {
			if strings.Contains(host, strings.ToLower(pattern)) {
				return raw
			}
		}
	}
	return ""
}

// nameOrEmail captures a person name (one or two capitalized words) or an
// email address following a delegation phrase.
const nameOrEmail = `([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}|[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`

var delegatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\bforward(?:ing)?\s+(?:this\s+|it\s+|that\s+)?to)\s+` + nameOrEmail),
	regexp.MustCompile(`(?i:\bloop\s+in)\s+` + nameOrEmail),
	regexp.MustCompile(`(?i:\bdelegat(?:e|ing)\s+(?:this\s+|it\s+)?to)\s+` + nameOrEmail),
	regexp.MustCompile(`(?i:\bsend\s+(?:this\s+|it\s+)?to)\s+` + nameOrEmail + `\s+(?i:instead\b)`),
	regexp.MustCompile(`(?i:\bask)\s+` + nameOrEmail + `\s+(?i:to\s+(?:attend|join|take|handle|cover))`),
	regexp.MustCompile(`(?i:\bhand(?:ing)?\s+(?:this\s+)?(?:off\s+)?to)\s+` + nameOrEmail),
	regexp.MustCompile(nameOrEmail + `\s+(?i:will\s+(?:attend|join|cover|handle)\b)`),
	regexp.MustCompile(nameOrEmail + `\s+(?i:can\s+take\s+my\s+place\b)`),
}

// findDelegate extracts the delegate from explicit delegation phrasing
// only; names appearing without such phrasing are not evidence.
func findDelegate(text string) string {
	best := -1
	name := ""
	for _, re := range delegatePatterns {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		if best == -1 || m[0] < best {
			best = m[0]
			name = strings.TrimSpace(text[m[2]:m[3]])
		}
	}
	return name
}

// collectNotes concatenates, in original order, the sentence-level spans
// not consumed by time, cue, link, or delegation matching. The result is
// bounded so pathological inputs cannot produce unbounded notes.
func (e *Extractor) collectNotes(text string) string {
	var parts []string
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && !sentenceBoundary(text, i) {
			continue
		}
		sentence := strings.TrimSpace(text[start:i])
		start = i + 1
		if sentence == "" {
			continue
		}
		if isQuotedOrHeader(sentence) {
			continue
		}
		if timeexpr.Matches(sentence) || replytype.HasCue(sentence) || reURL.MatchString(sentence) || findDelegate(sentence) != "" {
			continue
		}
		parts = append(parts, sentence)
	}
	notes := strings.Join(parts, ". ")
	if len(notes) > e.maxNotes {
		cut := e.maxNotes
		for cut > 0 && !utf8.RuneStart(notes[cut]) {
			cut--
		}
		notes = strings.TrimSpace(notes[:cut])
	}
	return notes
}

// sentenceBoundary treats '.', '!' and '?' as boundaries only when followed
// by whitespace or end of text, so dots inside URLs and email addresses do
// not split a sentence.
func sentenceBoundary(text string, i int) bool {
	switch text[i] {
	case '\n':
		return true
	case '.', '!', '?':
		return i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\t' || text[i+1] == '\r' || text[i+1] == '\n'
	}
	return false
}

var headerPrefixes = []string{"from:", "to:", "cc:", "subject:", "sent:", "date:"}

func isQuotedOrHeader(sentence string) bool {
	if strings.HasPrefix(sentence, ">") {
		return true
	}
	low := strings.ToLower(sentence)
	for _, p := range headerPrefixes {
		if strings.HasPrefix(low, p) {
			return true
		}
	}
	return false
}
