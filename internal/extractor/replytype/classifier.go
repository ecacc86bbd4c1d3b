package replytype

import (
	"regexp"
	"strings"

	"meeting-parser-service/internal/model"
)

const (
	// Every label keeps a low floor so the score table never reports
	// certainty about absence of evidence; unclear gets the highest floor
	// and becomes the natural fallback top label.
	baseline        = 0.05
	unclearBaseline = 0.2

	// Subject lines are a weak hint, never authoritative.
	subjectFactor = 0.5
)

// Classifier scores email text against the closed reply-type label set.
// A label's score is a saturating combination of matched cue weights, so
// repeated near-duplicate phrases cannot push it past 1.0.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Classify(text, subject string) model.ReplyTypeScores {
	scores := model.ReplyTypeScores{
		Accept:     baseline,
		Decline:    baseline,
		Reschedule: baseline,
		Delegate:   baseline,
		Unclear:    unclearBaseline,
	}
	applyCues(&scores, text, 1.0)
	if subject != "" {
		applyCues(&scores, subject, subjectFactor)
	}
	scores.Clamp()
	return scores
}

// HasCue reports whether text matches any classification cue. The entity
// extractor uses it to keep cue-bearing sentences out of the notes.
func HasCue(text string) bool {
	for _, cu := range cues {
		if cu.re.MatchString(text) {
			return true
		}
	}
	return false
}

func applyCues(scores *model.ReplyTypeScores, text string, factor float64) {
	for _, cu := range cues {
		for _, loc := range cu.re.FindAllStringIndex(text, -1) {
			label := cu.label
			if negatedBefore(text, loc[0]) {
				// A negated cue nullifies its contribution, or flips it
				// when the cue declares an inverse label.
				if cu.inverse == "" {
					continue
				}
				label = cu.inverse
			}
			s := scores.Get(label)
			scores.Set(label, s+cu.weight*factor*(1-s))
		}
	}
}

var reNegation = regexp.MustCompile(`(?i)\b(not|no|never|hardly|don'?t|doesn'?t|didn'?t|won'?t|can'?t|cannot|isn'?t|aren'?t|wasn'?t|wouldn'?t|couldn'?t|shouldn'?t)\b`)

// negatedBefore checks for a negation token between the start of the
// current clause and the cue match. Negations inside the cue itself
// ("can't make it") do not count.
func negatedBefore(text string, start int) bool {
	clauseStart := strings.LastIndexAny(text[:start], ".,;!?\n") + 1
	return reNegation.MatchString(text[clauseStart:start])
}

type cue struct {
	label   model.ReplyType
	weight  float64
	inverse model.ReplyType // label credited instead when the cue is negated
	re      *regexp.Regexp
}

var cues = []cue{
	// accept
	{model.ReplyAccept, 0.8, model.ReplyDecline, regexp.MustCompile(`(?i)\bworks? for (me|us)\b`)},
	{model.ReplyAccept, 0.8, model.ReplyDecline, regexp.MustCompile(`(?i)\bsounds (good|great|perfect|fine)\b`)},
	{model.ReplyAccept, 0.75, model.ReplyDecline, regexp.MustCompile(`(?i)\bthat (time )?works\b`)},
	{model.ReplyAccept, 0.8, model.ReplyDecline, regexp.MustCompile(`(?i)\bi'?ll be there\b`)},
	{model.ReplyAccept, 0.7, "", regexp.MustCompile(`(?i)\bsee you (then|there|soon)\b`)},
	{model.ReplyAccept, 0.7, "", regexp.MustCompile(`(?i)\b(confirming|confirmed|i confirm)\b`)},
	{model.ReplyAccept, 0.6, "", regexp.MustCompile(`(?i)\blooking forward\b`)},
	{model.ReplyAccept, 0.6, "", regexp.MustCompile(`(?i)\bhappy to (meet|join|attend)\b`)},
	{model.ReplyAccept, 0.8, "", regexp.MustCompile(`(?i)\bcount me in\b`)},

	// decline
	{model.ReplyDecline, 0.9, "", regexp.MustCompile(`(?i)\b(?:can'?t|cannot) make (?:it|that|this)\b`)},
	{model.ReplyDecline, 0.85, "", regexp.MustCompile(`(?i)\bwon'?t be able to\b`)},
	{model.ReplyDecline, 0.85, "", regexp.MustCompile(`(?i)\bunable to (attend|make|join)\b`)},
	{model.ReplyDecline, 0.8, "", regexp.MustCompile(`(?i)\bhave to (cancel|pass|decline)\b`)},
	{model.ReplyDecline, 0.85, "", regexp.MustCompile(`(?i)\b(must|need to) decline\b`)},
	{model.ReplyDecline, 0.7, "", regexp.MustCompile(`(?i)\bnot (going to|gonna) (work|make it)\b`)},
	{model.ReplyDecline, 0.6, "", regexp.MustCompile(`(?i)\bnot available\b`)},
	{model.ReplyDecline, 0.5, "", regexp.MustCompile(`(?i)\bout of (the )?office\b`)},
	{model.ReplyDecline, 0.35, "", regexp.MustCompile(`(?i)\bunfortunately\b`)},

	// reschedule
	{model.ReplyReschedule, 0.9, "", regexp.MustCompile(`(?i)\breschedul(e|ing|ed)\b`)},
	{model.ReplyReschedule, 0.85, "", regexp.MustCompile(`(?i)\bfind (another|a new|some other) (time|slot|day)\b`)},
	{model.ReplyReschedule, 0.8, "", regexp.MustCompile(`(?i)\b(another|a different|a better) time\b`)},
	{model.ReplyReschedule, 0.8, "", regexp.MustCompile(`(?i)\bcan we (do|move|push|try|meet)\b`)},
	{model.ReplyReschedule, 0.75, "", regexp.MustCompile(`(?i)\b(move|push|bump) (it|this|that|the meeting)\b`)},
	{model.ReplyReschedule, 0.7, "", regexp.MustCompile(`(?i)\brain check\b`)},
	{model.ReplyReschedule, 0.6, "", regexp.MustCompile(`(?i)\binstead\b`)},
	{model.ReplyReschedule, 0.55, "", regexp.MustCompile(`(?i)\bhow about\b`)},
	{model.ReplyReschedule, 0.6, "", regexp.MustCompile(`(?i)\bwould .{0,30} work better\b`)},

	// delegate
	{model.ReplyDelegate, 0.85, "", regexp.MustCompile(`(?i)\bforward(ing)? (this |it |that )?to\b`)},
	{model.ReplyDelegate, 0.8, "", regexp.MustCompile(`(?i)\bloop in\b`)},
	{model.ReplyDelegate, 0.85, "", regexp.MustCompile(`(?i)\bdelegat(e|ing)\b`)},
	{model.ReplyDelegate, 0.8, "", regexp.MustCompile(`(?i)\bin my (place|stead)\b`)},
	{model.ReplyDelegate, 0.8, "", regexp.MustCompile(`(?i)\bon my behalf\b`)},
	{model.ReplyDelegate, 0.85, "", regexp.MustCompile(`(?i)\bsend (this |it )?to \w+ instead\b`)},
	{model.ReplyDelegate, 0.8, "", regexp.MustCompile(`(?i)\bask \w+ to (attend|join|take|handle|cover)\b`)},
	{model.ReplyDelegate, 0.6, "", regexp.MustCompile(`(?i)\b(she|he|they)'?(ll| will) (handle|take|cover|attend|join)\b`)},
	{model.ReplyDelegate, 0.7, "", regexp.MustCompile(`(?i)\b(cover|attend|go) for me\b`)},

	// unclear
	{model.ReplyUnclear, 0.5, "", regexp.MustCompile(`(?i)\bnot sure\b`)},
	{model.ReplyUnclear, 0.6, "", regexp.MustCompile(`(?i)\blet me check\b`)},
	{model.ReplyUnclear, 0.6, "", regexp.MustCompile(`(?i)\bget back to you\b`)},
	{model.ReplyUnclear, 0.6, "", regexp.MustCompile(`(?i)\bcheck my (calendar|schedule)\b`)},
	{model.ReplyUnclear, 0.5, "", regexp.MustCompile(`(?i)\btentative(ly)?\b`)},
	{model.ReplyUnclear, 0.35, "", regexp.MustCompile(`(?i)\bmaybe\b`)},
}
