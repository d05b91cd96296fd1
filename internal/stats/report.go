package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/typestyle/internal/classify"
	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/metrics"
	"github.com/verte-zerg/typestyle/internal/model"
)

// Text sources for classification.
const (
	SourceRaw  = "raw"
	SourceKeys = "keys"
)

// LogSource provides the keystroke log and the last known WPM.
type LogSource interface {
	Log(ctx context.Context) ([]string, error)
	CurrentWPM(ctx context.Context) (int, error)
}

// Report contains precomputed data for rendering.
type Report struct {
	Lines          []string
	Events         []model.KeystrokeEvent
	WPM            int
	Hour           int
	Metrics        model.MetricsReport
	Features       model.FeatureSet
	Classification model.Classification
}

// Text returns the typed text as the logger view shows it.
func (r Report) Text() string {
	return keylog.Typed(r.Events)
}

// ClassifyText returns the text fed to the classifier for the given source.
func ClassifyText(lines []string, source string) string {
	if source == SourceKeys {
		return keylog.JoinKeys(keylog.Parse(lines))
	}
	return keylog.JoinLines(lines)
}

// BuildReport reads the log and WPM once and derives metrics, features and
// the classification from that single snapshot.
func BuildReport(ctx context.Context, src LogSource, cfg model.ClassifyConfig, c *classify.Classifier, now time.Time) (Report, error) {
	lines, err := src.Log(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read log: %w", err)
	}
	wpm, err := src.CurrentWPM(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read wpm: %w", err)
	}

	features := classify.Extract(ClassifyText(lines, cfg.Source), wpm, now.Hour(), c.Scorer)
	return Report{
		Lines:          lines,
		Events:         keylog.Parse(lines),
		WPM:            wpm,
		Hour:           now.Hour(),
		Metrics:        metrics.Compute(lines),
		Features:       features,
		Classification: c.Evaluate(features),
	}, nil
}
