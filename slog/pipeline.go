package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingPipeline implements harvest.Pipeline.
var _ harvest.Pipeline = (*LoggingPipeline)(nil)

// LoggingPipeline wraps a Pipeline with logging. Isolated selector
// failures are logged as warnings.
type LoggingPipeline struct {
	next   harvest.Pipeline
	logger *slog.Logger
}

// NewLoggingPipeline creates a new LoggingPipeline.
func NewLoggingPipeline(next harvest.Pipeline, logger *slog.Logger) *LoggingPipeline {
	return &LoggingPipeline{next: next, logger: logger}
}

// Name delegates to the wrapped pipeline.
func (p *LoggingPipeline) Name() string {
	return p.next.Name()
}

// Validate delegates to the wrapped pipeline.
func (p *LoggingPipeline) Validate() error {
	return p.next.Validate()
}

// Process delegates to the wrapped pipeline and logs the outcome.
func (p *LoggingPipeline) Process(doc *harvest.RawDocument) (ext *harvest.Extraction, err error) {
	defer func(begin time.Time) {
		var words int
		if ext != nil {
			words = ext.WordCount
			for _, serr := range ext.SelectorErrors {
				p.logger.Warn("selector failed",
					"pipeline", p.next.Name(),
					"url", doc.URL,
					"err", serr,
				)
			}
		}
		p.logger.Info("pipeline",
			"name", p.next.Name(),
			"url", doc.URL,
			"words", words,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Process(doc)
}
