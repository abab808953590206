// Package jobs runs the administrative batch work: rendering badges for
// every unprinted registrant, in fixed-size chunks so memory stays bounded
// no matter how large the print run is.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"summitreg/internal/badge"
)

// sizeWarnBytes flags unusually heavy badges; they are usually a sign of an
// oversized uploaded photo.
const sizeWarnBytes = 2 << 20

// BadgeItem is one unit of batch work.
type BadgeItem struct {
	Person   badge.PersonRecord
	Category string
}

// BadgeSource feeds the processor and records completion. NextBatch returns
// up to limit unprinted records with IDs greater than afterID, in ascending
// ID order; an empty slice means none remain. The keyset cursor is what lets
// the processor move past records that keep failing instead of re-fetching
// them forever.
type BadgeSource interface {
	NextBatch(ctx context.Context, afterID uint, limit int) ([]BadgeItem, error)
	MarkPrinted(ctx context.Context, id uint) error
}

// BadgeRenderer is satisfied by *badge.Renderer.
type BadgeRenderer interface {
	Render(p badge.PersonRecord) ([]byte, error)
}

// ProgressSink receives chunk-by-chunk progress, e.g. into Redis for the
// dashboard to poll. May be nil.
type ProgressSink interface {
	Update(ctx context.Context, jobID, state string, st Stats)
}

type RecordError struct {
	RegistrantID uint   `json:"registrant_id"`
	Error        string `json:"error"`
}

type Stats struct {
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Errors    []RecordError `json:"errors,omitempty"`
}

const maxKeptErrors = 50

func (s *Stats) recordFailure(id uint, err error) {
	s.Failed++
	if len(s.Errors) < maxKeptErrors {
		s.Errors = append(s.Errors, RecordError{RegistrantID: id, Error: err.Error()})
	}
}

// Processor renders and stores badges chunk by chunk. A single record's
// failure is counted and logged, never fatal for the run.
type Processor struct {
	Renderer  BadgeRenderer
	Source    BadgeSource
	OutDir    string
	ChunkSize int
	Progress  ProgressSink
	Log       *slog.Logger
}

func NewProcessor(r BadgeRenderer, src BadgeSource, outDir string, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		Renderer:  r,
		Source:    src,
		OutDir:    outDir,
		ChunkSize: 10,
		Log:       log,
	}
}

// Run processes every pending registrant and returns the final summary.
// It stops early only on context cancellation or a source error.
func (p *Processor) Run(ctx context.Context, jobID string) (Stats, error) {
	var stats Stats
	var lastID uint
	p.publish(ctx, jobID, "running", stats)

	for {
		if err := ctx.Err(); err != nil {
			p.publish(ctx, jobID, "cancelled", stats)
			return stats, err
		}

		batch, err := p.Source.NextBatch(ctx, lastID, p.ChunkSize)
		if err != nil {
			p.publish(ctx, jobID, "failed", stats)
			return stats, fmt.Errorf("fetch batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, item := range batch {
			if item.Person.ID > lastID {
				lastID = item.Person.ID
			}
			stats.Processed++
			if err := p.processOne(ctx, item); err != nil {
				p.Log.Error("badge failed", "registrant_id", item.Person.ID, "error", err)
				stats.recordFailure(item.Person.ID, err)
				continue
			}
			stats.Succeeded++
		}
		p.publish(ctx, jobID, "running", stats)
	}

	p.Log.Info("badge run complete",
		"processed", stats.Processed, "succeeded", stats.Succeeded, "failed", stats.Failed)
	p.publish(ctx, jobID, "done", stats)
	return stats, nil
}

func (p *Processor) processOne(ctx context.Context, item BadgeItem) error {
	data, err := p.Renderer.Render(item.Person)
	if err != nil {
		return err
	}

	dir := filepath.Join(p.OutDir, categoryFolder(item.Category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, badge.Filename(item.Person.ID, item.Person.FullName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	if len(data) > sizeWarnBytes {
		p.Log.Warn("badge pdf over size threshold",
			"registrant_id", item.Person.ID, "bytes", len(data), "path", path)
	}

	// Only flag the record once the file is durably written.
	return p.Source.MarkPrinted(ctx, item.Person.ID)
}

func (p *Processor) publish(ctx context.Context, jobID, state string, st Stats) {
	if p.Progress == nil || jobID == "" {
		return
	}
	p.Progress.Update(ctx, jobID, state, st)
}

// categoryFolder makes a filesystem-safe folder name from a category label.
func categoryFolder(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "uncategorized"
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ToLower(name)
}
