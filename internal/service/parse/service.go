package parse

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meeting-parser-service/internal/extractor/entity"
	"meeting-parser-service/internal/extractor/replytype"
	"meeting-parser-service/internal/extractor/timeexpr"
	"meeting-parser-service/internal/model"
	"meeting-parser-service/pkg/logger"
	"meeting-parser-service/pkg/metrics"
)

// Service is the meeting-response extraction engine: it fans the three
// extractors out over the same immutable input, joins, and aggregates the
// results into one ParsedResponse. It holds no state between requests.
type Service struct {
	times      *timeexpr.Extractor
	classifier *replytype.Classifier
	entities   *entity.Extractor
	log        *zap.Logger
}

func NewService(times *timeexpr.Extractor, classifier *replytype.Classifier, entities *entity.Extractor, log *zap.Logger) *Service {
	return &Service{
		times:      times,
		classifier: classifier,
		entities:   entities,
		log:        log,
	}
}

// Parse never fails on malformed or empty email content; an empty input
// yields the all-unclear response. The only error surfaced to the caller
// is InputDecodingError for input that is not valid UTF-8 text.
func (s *Service) Parse(ctx context.Context, email model.RawEmail) (*model.ParsedResponse, error) {
	start := time.Now()

	if !utf8.ValidString(email.Text) {
		return nil, &InputDecodingError{Reason: "email text is not valid UTF-8"}
	}
	if !utf8.ValidString(email.Subject) {
		return nil, &InputDecodingError{Reason: "subject is not valid UTF-8"}
	}

	// Cues inside quoted or forwarded content are the other party's words,
	// so the classifier only sees the reply body.
	quoted := quotedRegions(email.Text)
	replyBody := maskRegions(email.Text, quoted)

	var (
		candidates []model.TimeCandidate
		scores     model.ReplyTypeScores
		ents       model.Entities
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		candidates = s.times.Extract(email.Text, email.SentAt)
		metrics.RecordExtractorDuration("timeexpr", time.Since(t))
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		scores = s.classifier.Classify(replyBody, email.Subject)
		metrics.RecordExtractorDuration("replytype", time.Since(t))
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		ents = s.entities.Extract(email.Text)
		metrics.RecordExtractorDuration("entity", time.Since(t))
		return nil
	})
	// Extractors are pure and never fail; degraded signals come back as
	// low-confidence candidates instead of errors.
	_ = g.Wait()

	resp := aggregate(quoted, candidates, scores, ents)
	applyConsistency(resp)

	metrics.RecordParseDuration(time.Since(start))
	metrics.IncrementEmailParsed(string(resp.ReplyType))
	metrics.ObserveTimeCandidates(len(candidates))

	logger.WithTrace(ctx, s.log).Info("email parsed",
		zap.String("reply_type", string(resp.ReplyType)),
		zap.Int("time_candidates", len(candidates)),
		zap.Bool("has_meeting_link", resp.MeetingLink != ""),
		zap.Bool("has_delegate", resp.DelegateTo != ""),
	)

	return resp, nil
}
