package ingest

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
	"github.com/gyeh/claimstats/internal/source"
)

const normalizeChunk = 4096

// LoadResult holds the normalized rows of one export.
type LoadResult struct {
	Format    source.Format
	Columns   []string
	Records   []model.ExposureRecord
	BlankRows int64
	Duration  time.Duration
}

// Load reads the export and normalizes every row, preserving input order.
func Load(ctx context.Context, log zerolog.Logger, filePath string) (*LoadResult, error) {
	start := time.Now()

	tbl, err := source.Load(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}

	records, err := NormalizeAll(ctx, tbl.Records)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Str("format", string(tbl.Format)).
		Int("columns", len(tbl.Columns)).
		Int("rows", len(records)).
		Int64("blank_rows", tbl.BlankRows).
		Dur("duration", dur).
		Msg("load complete")

	return &LoadResult{
		Format:    tbl.Format,
		Columns:   tbl.Columns,
		Records:   records,
		BlankRows: tbl.BlankRows,
		Duration:  dur,
	}, nil
}

// NormalizeAll converts raw rows in parallel chunks. Output order matches
// input order.
func NormalizeAll(ctx context.Context, raw []model.RawRecord) ([]model.ExposureRecord, error) {
	out := make([]model.ExposureRecord, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < len(raw); lo += normalizeChunk {
		hi := min(lo+normalizeChunk, len(raw))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				out[i] = normalize.ToExposure(raw[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
