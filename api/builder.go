// Package api builds border files for configured regions:
// fetch relations, chain their ways into rings, and write the rings out.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/osm"
	"github.com/rotblauer/osmborders/formats"
	"github.com/rotblauer/osmborders/params"
	"github.com/rotblauer/osmborders/types/border"
	"golang.org/x/sync/errgroup"
)

// Fetcher loads the border segments of one relation.
// *osmapi.Client is the production implementation.
type Fetcher interface {
	Relation(ctx context.Context, id osm.RelationID) ([]border.Segment, error)
}

// Config is everything a build needs. There is no other configuration state.
type Config struct {
	OutDir  string
	Format  formats.Format
	Strict  bool
	Workers int
}

// Region is one output file's worth of work.
type Region struct {
	Country     string
	Name        string
	RelationIDs []osm.RelationID
}

// FullName is the name written into output files, eg. "czechia_prague".
func (r Region) FullName() string {
	return r.Country + "_" + r.Name
}

// Regions flattens countries into regions, keeping document order.
func Regions(countries params.Countries) []Region {
	var out []Region
	for _, c := range countries {
		for _, r := range c.Regions {
			out = append(out, Region{Country: c.Name, Name: r.Name, RelationIDs: r.RelationIDs()})
		}
	}
	return out
}

type Builder struct {
	config  Config
	fetcher Fetcher
	write   formats.WriterFunc
	logger  *slog.Logger
}

func NewBuilder(config Config, fetcher Fetcher) (*Builder, error) {
	if config.OutDir == "" {
		return nil, errors.New("no output directory")
	}
	write, err := config.Format.Writer()
	if err != nil {
		return nil, err
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Builder{
		config:  config,
		fetcher: fetcher,
		write:   write,
		logger:  slog.Default(),
	}, nil
}

// WithLogger sets the logger and returns the builder.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// OutputPath is where region r is written: <out>/<country>_<region>.<ext>.
func (b *Builder) OutputPath(r Region) string {
	return filepath.Join(b.config.OutDir, r.FullName()+"."+b.config.Format.Extension())
}

// Build builds all regions, up to Config.Workers at a time.
// The first failure cancels the remaining work and is returned;
// regions already written stay on disk, the failed region leaves nothing behind.
func (b *Builder) Build(ctx context.Context, regions []Region) error {
	if err := os.MkdirAll(b.config.OutDir, 0755); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)
	for _, r := range regions {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := b.BuildRegion(ctx, r)
			if err != nil {
				return fmt.Errorf("region %s: %w", r.FullName(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
