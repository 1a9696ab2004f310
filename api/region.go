package api

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rotblauer/osmborders/chain"
	"github.com/rotblauer/osmborders/formats"
	"github.com/rotblauer/osmborders/types/border"
)

// Summary describes a written region.
type Summary struct {
	Region   Region
	Path     string
	Segments int
	Rings    int
	Points   int
	Bytes    int64

	// RingPoints holds the point count of each ring, in discovery order.
	RingPoints []float64
}

// BuildRegion fetches the region's relations, chains all their ways together
// and writes the rings to the region's output file.
// On any error no output file is left behind (an existing one is kept as it was).
func (b *Builder) BuildRegion(ctx context.Context, r Region) (*Summary, error) {
	logger := b.logger.With("region", r.FullName())
	logger.Info("Writing region", "relations", len(r.RelationIDs))
	start := time.Now()

	var segments []border.Segment
	for _, id := range r.RelationIDs {
		s, err := b.fetcher.Relation(ctx, id)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s...)
	}
	logger.Info("Total segments to chain", "count", len(segments))

	summary := &Summary{Region: r, Path: b.OutputPath(r), Segments: len(segments)}
	rings := chain.Assemble(segments, chain.WithStrict(b.config.Strict), chain.WithLogger(logger))
	rings = summary.observe(rings, func(ring border.Ring) {
		if !logger.Enabled(ctx, slog.LevelDebug) {
			return
		}
		ls := ring.LineString()
		logger.Debug("Ring", "n", summary.Rings, "ways", len(ring), "points", len(ls),
			"bound", ring.Bound(), "area", planar.Area(orb.Ring(ls)))
	})

	n, err := writeFileAtomic(summary.Path, func(w io.Writer) error {
		return b.write(w, r.FullName(), formats.Flattened(rings))
	})
	if err != nil {
		return nil, err
	}
	summary.Bytes = n

	median, _ := stats.Median(summary.RingPoints)
	logger.Info("Wrote region",
		"path", summary.Path,
		"rings", summary.Rings,
		"points", humanize.Comma(int64(summary.Points)),
		"median.ring.points", median,
		"size", humanize.Bytes(uint64(n)),
		"took", time.Since(start).Round(time.Millisecond))
	return summary, nil
}

// observe tallies rings as they pass through to the writer.
func (s *Summary) observe(rings iter.Seq2[border.Ring, error], each func(border.Ring)) iter.Seq2[border.Ring, error] {
	return func(yield func(border.Ring, error) bool) {
		for ring, err := range rings {
			if err == nil {
				s.Rings++
				s.Points += ring.Len()
				s.RingPoints = append(s.RingPoints, float64(ring.Len()))
				each(ring)
			}
			if !yield(ring, err) {
				return
			}
		}
	}
}

// writeFileAtomic writes to a temporary file next to path and renames it
// into place only when fn succeeds. It returns the number of bytes written.
func writeFileAtomic(path string, fn func(w io.Writer) error) (int64, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := fn(tmp); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, err
	}
	fi, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
