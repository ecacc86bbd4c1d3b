package timeexpr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"meeting-parser-service/internal/model"
)

// Extractor scans email text for date/time expressions and resolves them
// to absolute timestamps. It is a pure function of the input text and the
// resolution anchor; the fallback clock is injectable so parsing stays
// reproducible in tests.
type Extractor struct {
	loc *time.Location
	max int
	now func() time.Time
}

func New(defaultTZ string, maxCandidates int) (*Extractor, error) {
	loc, err := time.LoadLocation(defaultTZ)
	if err != nil {
		return nil, fmt.Errorf("load default timezone: %w", err)
	}
	if maxCandidates <= 0 {
		maxCandidates = 16
	}
	return &Extractor{loc: loc, max: maxCandidates, now: time.Now}, nil
}

// WithClock replaces the fallback anchor clock used when the caller
// supplies no reference timestamp.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// candidate is the pre-merge form of a time match.
type candidate struct {
	span      model.Span
	ts        time.Time
	conf      float64
	inferred  bool
	tzKnown   bool
	anchorDep bool
}

// Extract returns the time candidates found in text, in order of
// appearance. Candidates are never deduplicated beyond the overlap merge;
// ranking and suppression belong to the aggregator.
func (e *Extractor) Extract(text string, sentAt *time.Time) []model.TimeCandidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	anchored := sentAt != nil
	var anchor time.Time
	if anchored {
		anchor = sentAt.In(e.loc)
	} else {
		anchor = e.now().In(e.loc)
	}

	var found []candidate
	found = append(found, e.scanISO(text)...)
	found = append(found, e.scanMonthDay(text, anchor)...)
	found = append(found, e.scanNumericDate(text, anchor)...)
	found = append(found, e.scanWeekday(text, anchor)...)
	found = append(found, e.scanRelative(text, anchor)...)
	found = append(found, e.scanClock(text, anchor)...)
	found = append(found, e.scanBareHour(text, anchor)...)
	found = append(found, e.scanDayPartWord(text, anchor)...)

	if !anchored {
		// Anchoring to the server clock instead of the email's send time
		// degrades accuracy for anything resolved relative to "now".
		for i := range found {
			if found[i].anchorDep {
				found[i].inferred = true
				found[i].conf *= 0.8
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].span.Start != found[j].span.Start {
			return found[i].span.Start < found[j].span.Start
		}
		return found[i].span.End > found[j].span.End
	})

	merged := mergeCandidates(text, found)
	if len(merged) > e.max {
		merged = merged[:e.max]
	}

	out := make([]model.TimeCandidate, 0, len(merged))
	for _, c := range merged {
		out = append(out, model.TimeCandidate{
			Timestamp:         c.ts,
			Span:              c.span,
			Confidence:        clamp01(c.conf),
			Inferred:          c.inferred,
			TimezoneDefaulted: !c.tzKnown,
		})
	}
	return out
}

// Matches reports whether text contains any recognizable time expression.
// The entity extractor uses it to keep structured spans out of the notes.
func Matches(text string) bool {
	return reISO.MatchString(text) ||
		reMonthDay.MatchString(text) ||
		reNumericDate.MatchString(text) ||
		reWeekday.MatchString(text) ||
		reRelative.MatchString(text) ||
		reClockMeridiem.MatchString(text) ||
		reClock24.MatchString(text) ||
		reBareHour.MatchString(text) ||
		reDayPartWord.MatchString(text)
}

func (e *Extractor) scanISO(text string) []candidate {
	var out []candidate
	for _, m := range reISO.FindAllStringSubmatchIndex(text, -1) {
		year := atoiSpan(text, m[2], m[3])
		month := time.Month(atoiSpan(text, m[4], m[5]))
		day := atoiSpan(text, m[6], m[7])
		if month < time.January || month > time.December {
			continue
		}
		if day < 1 || day > daysIn(year, month) {
			continue
		}
		hour, minute := 9, 0
		conf := 0.7
		if m[8] >= 0 {
			hour = atoiSpan(text, m[8], m[9])
			minute = atoiSpan(text, m[10], m[11])
			if hour > 23 || minute > 59 {
				continue
			}
			conf = 0.95
		}
		loc, end, tzKnown := e.zoneAfter(text, m[1])
		out = append(out, candidate{
			span:    model.Span{Start: m[0], End: end},
			ts:      time.Date(year, month, day, hour, minute, 0, 0, loc),
			conf:    conf,
			tzKnown: tzKnown,
		})
	}
	return out
}

func (e *Extractor) scanMonthDay(text string, anchor time.Time) []candidate {
	var out []candidate
	for _, m := range reMonthDay.FindAllStringSubmatchIndex(text, -1) {
		key := strings.ToLower(text[m[2]:m[3]])
		if len(key) > 3 {
			key = key[:3]
		}
		month, ok := months[key]
		if !ok {
			continue
		}
		day := atoiSpan(text, m[4], m[5])
		year := anchor.Year()
		explicitYear := false
		if m[6] >= 0 {
			year = atoiSpan(text, m[6], m[7])
			explicitYear = true
		}
		end := m[1]
		hour, minute := 9, 0
		conf := 0.55
		if h, mn, ok, newEnd := clockAfter(text, end); ok {
			hour, minute = h, mn
			end = newEnd
			conf = 0.9
		}
		loc, end, tzKnown := e.zoneAfter(text, end)
		// Impossible dates (Feb 30) are discarded, not coerced.
		if day < 1 || day > daysIn(year, month) {
			continue
		}
		ts := time.Date(year, month, day, hour, minute, 0, 0, loc)
		if !explicitYear && ts.Before(anchor) {
			year++
			if day > daysIn(year, month) {
				continue
			}
			ts = time.Date(year, month, day, hour, minute, 0, 0, loc)
		}
		out = append(out, candidate{
			span:    model.Span{Start: m[0], End: end},
			ts:      ts,
			conf:    conf,
			tzKnown: tzKnown,
		})
	}
	return out
}

func (e *Extractor) scanNumericDate(text string, anchor time.Time) []candidate {
	var out []candidate
	for _, m := range reNumericDate.FindAllStringSubmatchIndex(text, -1) {
		month := time.Month(atoiSpan(text, m[2], m[3]))
		day := atoiSpan(text, m[4], m[5])
		if month < time.January || month > time.December {
			continue
		}
		year := anchor.Year()
		explicitYear := false
		if m[6] >= 0 {
			year = atoiSpan(text, m[6], m[7])
			if year < 100 {
				year += 2000
			}
			explicitYear = true
		}
		if day < 1 || day > daysIn(year, month) {
			continue
		}
		end := m[1]
		hour, minute := 9, 0
		conf := 0.5
		if h, mn, ok, newEnd := clockAfter(text, end); ok {
			hour, minute = h, mn
			end = newEnd
			conf = 0.8
		}
		loc, end, tzKnown := e.zoneAfter(text, end)
		ts := time.Date(year, month, day, hour, minute, 0, 0, loc)
		if !explicitYear && ts.Before(anchor) {
			ts = time.Date(year+1, month, day, hour, minute, 0, 0, loc)
			if ts.Day() != day {
				continue
			}
		}
		out = append(out, candidate{
			span:    model.Span{Start: m[0], End: end},
			ts:      ts,
			conf:    conf,
			tzKnown: tzKnown,
		})
	}
	return out
}

func (e *Extractor) scanWeekday(text string, anchor time.Time) []candidate {
	var out []candidate
	for _, m := range reWeekday.FindAllStringSubmatchIndex(text, -1) {
		hasNext := m[2] >= 0
		name := strings.ToLower(text[m[4]:m[5]])
		target, ok := weekdays[name[:3]]
		if !ok {
			continue
		}
		end := m[1]
		hour, minute := 9, 0
		conf := 0.5
		hasClock := false
		if h, mn, ok, newEnd := clockAfter(text, end); ok {
			hour, minute = h, mn
			end = newEnd
			conf = 0.75
			hasClock = true
		}
		// A bare three-letter form ("sat", "wed") is too noisy without a
		// clock time next to it.
		if !hasClock && len(name) <= 5 {
			continue
		}
		if hasNext {
			conf -= 0.05
		}
		loc, end, tzKnown := e.zoneAfter(text, end)
		days := int(target - anchor.Weekday())
		if hasNext {
			days += 7
		} else if days <= 0 {
			days += 7
		}
		base := anchor.AddDate(0, 0, days)
		out = append(out, candidate{
			span:      model.Span{Start: m[0], End: end},
			ts:        time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, loc),
			conf:      conf,
			inferred:  hasNext,
			tzKnown:   tzKnown,
			anchorDep: true,
		})
	}
	return out
}

func (e *Extractor) scanRelative(text string, anchor time.Time) []candidate {
	var out []candidate
	for _, m := range reRelative.FindAllStringSubmatchIndex(text, -1) {
		word := strings.ToLower(text[m[2]:m[3]])
		end := m[1]
		days := 0
		hour, minute := 9, 0
		conf := 0.5
		switch word {
		case "tomorrow":
			days = 1
		case "next week":
			days = 7
			conf = 0.35
		case "tonight":
			hour = 19
		}
		if m[4] >= 0 {
			hour = dayPartHours[strings.ToLower(text[m[4]:m[5]])]
			conf = 0.6
		}
		if h, mn, ok, newEnd := clockAfter(text, end); ok {
			hour, minute = h, mn
			end = newEnd
			conf = 0.7
		}
		loc, end, tzKnown := e.zoneAfter(text, end)
		base := anchor.AddDate(0, 0, days)
		out = append(out, candidate{
			span:      model.Span{Start: m[0], End: end},
			ts:        time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, loc),
			conf:      conf,
			inferred:  true,
			tzKnown:   tzKnown,
			anchorDep: true,
		})
	}
	return out
}

func (e *Extractor) scanClock(text string, anchor time.Time) []candidate {
	var out []candidate
	for _, m := range reClockMeridiem.FindAllStringSubmatchIndex(text, -1) {
		hour := atoiSpan(text, m[2], m[3])
		if hour < 1 || hour > 12 {
			continue
		}
		minute := 0
		if m[4] >= 0 {
			minute = atoiSpan(text, m[4], m[5])
			if minute > 59 {
				continue
			}
		}
		meridiem := strings.ToLower(text[m[6]:m[7]])
		if meridiem == "pm" && hour < 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		out = append(out, e.clockCandidate(text, m[0], m[1], anchor, hour, minute, 0.45))
	}
	for _, m := range reClock24.FindAllStringSubmatchIndex(text, -1) {
		hour := atoiSpan(text, m[2], m[3])
		minute := atoiSpan(text, m[4], m[5])
		if hour > 23 || minute > 59 {
			continue
		}
		out = append(out, e.clockCandidate(text, m[0], m[1], anchor, hour, minute, 0.4))
	}
	return out
}

func (e *Extractor) scanBareHour(text string, anchor time.Time) []candidate {
	var out []candidate
	for _, m := range reBareHour.FindAllStringSubmatchIndex(text, -1) {
		rest := text[m[1]:]
		if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "/") || reMeridiemNext.MatchString(rest) {
			continue
		}
		hour := atoiSpan(text, m[2], m[3])
		if hour < 1 || hour > 23 {
			continue
		}
		// No meridiem and no date context: ambiguous, kept at low
		// confidence with a deterministic business-hours reading.
		if hour >= 1 && hour <= 7 {
			hour += 12
		}
		out = append(out, e.clockCandidate(text, m[0], m[1], anchor, hour, 0, 0.3))
	}
	return out
}

func (e *Extractor) scanDayPartWord(text string, anchor time.Time) []candidate {
	var out []candidate
	for _, m := range reDayPartWord.FindAllStringSubmatchIndex(text, -1) {
		hour := 12
		if strings.EqualFold(text[m[2]:m[3]], "midnight") {
			hour = 0
		}
		out = append(out, e.clockCandidate(text, m[0], m[1], anchor, hour, 0, 0.45))
	}
	return out
}

// clockCandidate resolves a time-of-day expression onto the anchor date,
// rolling to the next day when the instant has already passed.
func (e *Extractor) clockCandidate(text string, start, end int, anchor time.Time, hour, minute int, conf float64) candidate {
	loc, end, tzKnown := e.zoneAfter(text, end)
	ts := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, minute, 0, 0, loc)
	if ts.Before(anchor) {
		ts = ts.AddDate(0, 0, 1)
	}
	return candidate{
		span:      model.Span{Start: start, End: end},
		ts:        ts,
		conf:      conf,
		inferred:  true,
		tzKnown:   tzKnown,
		anchorDep: true,
	}
}

// mergeCandidates folds overlapping spans, and equal instants within one
// sentence, into a single candidate. Combined confidence is the max of the
// contributing signals, not the sum, to avoid double-counting; an explicit
// contributor clears the inferred flag.
func mergeCandidates(text string, cands []candidate) []candidate {
	if len(cands) == 0 {
		return nil
	}
	out := make([]candidate, 0, len(cands))
	for _, c := range cands {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.span.Overlaps(c.span) || (last.ts.Equal(c.ts) && sameSentence(text, last.span, c.span)) {
				replaceTS := false
				if c.tzKnown && !last.tzKnown {
					replaceTS = true
				} else if c.tzKnown == last.tzKnown && c.conf > last.conf {
					replaceTS = true
				}
				if replaceTS {
					last.ts = c.ts
					last.tzKnown = c.tzKnown
				}
				if c.conf > last.conf {
					last.conf = c.conf
				}
				if !c.inferred {
					last.inferred = false
				}
				if c.span.End > last.span.End {
					last.span.End = c.span.End
				}
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func sameSentence(text string, a, b model.Span) bool {
	lo, hi := a.End, b.Start
	if hi < lo {
		return true
	}
	return !strings.ContainsAny(text[lo:hi], ".!?\n")
}

func (e *Extractor) zoneAfter(text string, end int) (*time.Location, int, bool) {
	m := reTZAfter.FindStringSubmatchIndex(text[end:])
	if m == nil {
		return e.loc, end, false
	}
	name := strings.ToUpper(text[end+m[2] : end+m[3]])
	loc, ok := fixedZones[name]
	if !ok {
		return e.loc, end, false
	}
	return loc, end + m[3], true
}

// clockAfter parses a clock time immediately following a date match. A bare
// hour with neither minutes nor meridiem is rejected here; the ambiguous
// bare-hour scanner picks those up with its own low confidence.
func clockAfter(text string, end int) (hour, minute int, ok bool, newEnd int) {
	m := reClockAfter.FindStringSubmatchIndex(text[end:])
	if m == nil {
		return 0, 0, false, end
	}
	hour = atoiSpan(text[end:], m[2], m[3])
	hasMinutes := m[4] >= 0
	if hasMinutes {
		minute = atoiSpan(text[end:], m[4], m[5])
	}
	meridiem := ""
	if m[6] >= 0 {
		meridiem = strings.ToLower(text[end+m[6] : end+m[7]])
	}
	if meridiem == "" && !hasMinutes {
		return 0, 0, false, end
	}
	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return 0, 0, false, end
		}
		if meridiem == "pm" && hour < 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
	} else if hour > 23 {
		return 0, 0, false, end
	}
	if minute > 59 {
		return 0, 0, false, end
	}
	return hour, minute, true, end + m[1]
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoiSpan(s string, start, end int) int {
	n, _ := strconv.Atoi(s[start:end])
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
