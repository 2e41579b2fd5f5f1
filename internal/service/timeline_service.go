package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/rcliao/tasktimeline/internal/aggregate"
	"github.com/rcliao/tasktimeline/internal/calendar"
	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/extract"
	"github.com/rcliao/tasktimeline/internal/logging"
	"github.com/rcliao/tasktimeline/internal/metrics"
	"github.com/rcliao/tasktimeline/internal/pattern"
	"github.com/rcliao/tasktimeline/internal/tags"
	"github.com/rcliao/tasktimeline/internal/temporal"
)

// ErrNoPattern is returned when no pattern has ever compiled, so there is
// nothing to fall back to.
var ErrNoPattern = errors.New("no usable extraction pattern")

// WarningKind classifies a non-fatal problem reported on a pass.
type WarningKind string

const (
	WarningPattern  WarningKind = "pattern"
	WarningDocument WarningKind = "document"
	WarningCalendar WarningKind = "calendar"
)

type Warning struct {
	Kind     WarningKind `json:"kind"`
	SourceID string      `json:"sourceId,omitempty"`
	Message  string      `json:"message"`
}

// PassStats counts what one pass did.
type PassStats struct {
	Documents      int `json:"documents"`
	DocumentErrors int `json:"documentErrors"`
	Matches        int `json:"matches"`
	Records        int `json:"records"`
	Discarded      int `json:"discarded"`
}

// Request is everything one pass reads. Preferences are read, never mutated.
type Request struct {
	Documents        []domain.Document
	Pattern          string
	Preferences      *domain.Preferences
	Sort             domain.SortPolicy
	IncludeCompleted bool
	MaxVisible       int

	// Today pins the reference date. Zero means the service clock's local date.
	Today domain.CalendarDate
}

// Pass is the result of one aggregation pass.
type Pass struct {
	ID       string              `json:"id"`
	Today    domain.CalendarDate `json:"today"`
	Pattern  string              `json:"pattern"`
	Records  []domain.TaskRecord `json:"records"`
	Groups   []domain.TagGroup   `json:"groups"`
	Calendar *calendar.Calendar  `json:"calendar"`
	Warnings []Warning           `json:"warnings,omitempty"`
	Stats    PassStats           `json:"stats"`
	Duration time.Duration       `json:"-"`
}

// TimelineService runs aggregation passes. It keeps the last good pattern
// between passes and nothing else.
type TimelineService struct {
	holder   *pattern.Holder
	logger   *logging.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	language language.Tag
}

type Option func(*TimelineService)

// WithClock replaces time.Now as the source of today's date.
func WithClock(now func() time.Time) Option {
	return func(s *TimelineService) { s.now = now }
}

// WithLanguage sets the locale used to compare tags.
func WithLanguage(tag language.Tag) Option {
	return func(s *TimelineService) { s.language = tag }
}

// WithMetrics records every pass on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TimelineService) { s.metrics = m }
}

func NewTimelineService(holder *pattern.Holder, logger *logging.Logger, opts ...Option) *TimelineService {
	if holder == nil {
		holder = pattern.NewHolder()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &TimelineService{
		holder:   holder,
		logger:   logger.Named("timeline"),
		now:      time.Now,
		language: language.Und,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh runs one pass over req.Documents. Cancellation is honored between
// documents; a document is always scanned to the end once started.
func (s *TimelineService) Refresh(ctx context.Context, req Request) (*Pass, error) {
	start := time.Now()
	pass := &Pass{
		ID:    uuid.NewString(),
		Today: req.Today,
	}
	if pass.Today.IsZero() {
		pass.Today = temporal.Today(s.now())
	}
	ctx = logging.WithPassID(ctx, pass.ID)

	s.logger.Debug(ctx, "pass started",
		zap.Int("documents", len(req.Documents)),
		zap.String("today", pass.Today.ISO()))

	compiled, err := s.holder.Update(req.Pattern)
	patternFailed := err != nil
	if err != nil {
		s.logger.Warn(ctx, "pattern rejected, keeping previous", zap.Error(err))
		pass.Warnings = append(pass.Warnings, Warning{Kind: WarningPattern, Message: err.Error()})
		if compiled == nil {
			s.observe(pass, true, time.Since(start))
			return nil, fmt.Errorf("%w: %w", ErrNoPattern, err)
		}
	}
	pass.Pattern = compiled.Source()

	var all []domain.TaskRecord
	for _, doc := range req.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, stats, err := extract.Records(doc, compiled)
		pass.Stats.Documents++
		pass.Stats.Matches += stats.Matches
		pass.Stats.Records += stats.Records
		pass.Stats.Discarded += stats.Discarded
		if err != nil {
			pass.Stats.DocumentErrors++
			pass.Warnings = append(pass.Warnings, Warning{
				Kind:     WarningDocument,
				SourceID: doc.SourceID,
				Message:  err.Error(),
			})
			s.logger.Warn(ctx, "document scan failed",
				zap.String("source_id", doc.SourceID),
				zap.Int("records_kept", len(records)),
				zap.Error(err))
		}
		all = append(all, temporal.AnnotateAll(records, pass.Today)...)
	}

	prefs := req.Preferences.Clone()
	cmp := aggregate.NewTagComparer(s.language)
	visible := aggregate.Filter(all, req.IncludeCompleted)

	pass.Records = aggregate.Sort(visible, req.Sort, cmp)
	pass.Groups = tags.Colorize(aggregate.Aggregate(all, aggregate.Options{
		Sort:             req.Sort,
		TagOrder:         prefs.TagOrder,
		IncludeCompleted: req.IncludeCompleted,
		Language:         s.language,
	}), prefs)
	pass.Calendar = calendar.Bucketize(visible, pass.Today, req.MaxVisible)
	if n := pass.Calendar.OmittedMonths; n > 0 {
		pass.Warnings = append(pass.Warnings, Warning{
			Kind:    WarningCalendar,
			Message: fmt.Sprintf("calendar limited to %d months, %d later months omitted", calendar.MaxMonths, n),
		})
		s.logger.Warn(ctx, "calendar range truncated", zap.Int("omitted_months", n))
	}

	s.observe(pass, patternFailed, time.Since(start))
	s.logger.Info(ctx, "pass finished",
		zap.Int("documents", pass.Stats.Documents),
		zap.Int("records", pass.Stats.Records),
		zap.Int("discarded", pass.Stats.Discarded),
		zap.Int("groups", len(pass.Groups)),
		zap.Int("warnings", len(pass.Warnings)),
		zap.Duration("duration", pass.Duration))

	return pass, nil
}

// Presets lists the built-in pattern presets for dateFormat.
func (s *TimelineService) Presets(dateFormat string) []pattern.Preset {
	if dateFormat == "" {
		dateFormat = pattern.DefaultDateFormat
	}
	return pattern.Presets(dateFormat)
}

func (s *TimelineService) observe(pass *Pass, patternFailed bool, d time.Duration) {
	pass.Duration = d
	s.metrics.ObservePass(metrics.PassObservation{
		Documents:      pass.Stats.Documents,
		DocumentErrors: pass.Stats.DocumentErrors,
		Matches:        pass.Stats.Matches,
		Records:        pass.Stats.Records,
		Discarded:      pass.Stats.Discarded,
		PatternError:   patternFailed,
		Duration:       d,
	})
}
