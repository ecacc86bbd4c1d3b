package timeexpr

import (
	"regexp"
	"time"
)

var (
	reISO         = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})(?:[T ](\d{2}):(\d{2})(?::\d{2})?)?\b`)
	reMonthDay    = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	reWeekday     = regexp.MustCompile(`(?i)\b(next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday|tues|thurs|thur|mon|tue|wed|thu|fri|sat|sun)\b`)
	reRelative    = regexp.MustCompile(`(?i)\b(next week|today|tonight|tomorrow)\b(?:\s+(morning|afternoon|evening))?`)

	reClockMeridiem = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	reClock24       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	reBareHour      = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)
	reDayPartWord   = regexp.MustCompile(`(?i)\b(noon|midday|midnight)\b`)
	reMeridiemNext  = regexp.MustCompile(`(?i)^\s*(?:am|pm)\b`)

	// reClockAfter matches a clock time directly following a date span,
	// e.g. "March 5 at 3pm", "Tuesday, 14:30".
	reClockAfter = regexp.MustCompile(`^(?i)(?:\s+at)?[\s,]+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	reTZAfter    = regexp.MustCompile(`^\s*(?i)(UTC|GMT|EST|EDT|ET|CST|CDT|CT|MST|MDT|MT|PST|PDT|PT)\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	"sun": time.Sunday,
}

var dayPartHours = map[string]int{
	"morning":   9,
	"afternoon": 14,
	"evening":   18,
}

// Common North American zone abbreviations plus UTC/GMT, resolved to fixed
// offsets so extraction stays deterministic across host timezone databases.
var fixedZones = map[string]*time.Location{
	"UTC": time.UTC,
	"GMT": time.FixedZone("GMT", 0),
	"EST": time.FixedZone("EST", -5*3600),
	"EDT": time.FixedZone("EDT", -4*3600),
	"ET":  time.FixedZone("ET", -5*3600),
	"CST": time.FixedZone("CST", -6*3600),
	"CDT": time.FixedZone("CDT", -5*3600),
	"CT":  time.FixedZone("CT", -6*3600),
	"MST": time.FixedZone("MST", -7*3600),
	"MDT": time.FixedZone("MDT", -6*3600),
	"MT":  time.FixedZone("MT", -7*3600),
	"PST": time.FixedZone("PST", -8*3600),
	"PDT": time.FixedZone("PDT", -7*3600),
	"PT":  time.FixedZone("PT", -8*3600),
}
