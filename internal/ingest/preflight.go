package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/cache"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
)

// PreflightResult holds the context resolved before any row is read.
type PreflightResult struct {
	// FilePath is the original path passed to Preflight, stored as-is.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 digest of the export.
	FileSHA256 string
	// FileSize is the file size in bytes from os.Stat.
	FileSize int64
	// ReportDate is the supplied report date truncated to the day.
	ReportDate time.Time
	// RunID is a freshly generated UUIDv4 identifying this run. It is stored
	// on the snapshot row.
	RunID uuid.UUID
	// CacheKey identifies the (export, report date) pair in the result cache.
	CacheKey string
	// Cached holds a previous result for the same export and date, when the
	// cache has one and force mode is off.
	Cached *model.RunResult
}

// Preflight hashes the export and checks the result cache.
func Preflight(results *cache.Results, log zerolog.Logger, filePath string, reportDate time.Time, force bool) (*PreflightResult, error) {
	start := time.Now()

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("preflight: %s is a directory", filePath)
	}

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	day := normalize.TruncateDay(reportDate)
	pf := &PreflightResult{
		FilePath:   filePath,
		FileSHA256: sha,
		FileSize:   stat.Size(),
		ReportDate: day,
		RunID:      uuid.New(),
		CacheKey:   cache.Key(sha, day),
	}

	if results != nil && !force {
		if hit, ok := results.Get(pf.CacheKey); ok {
			pf.Cached = &hit
		}
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Int64("bytes", stat.Size()).
		Str("report_date", day.Format(time.DateOnly)).
		Bool("cached", pf.Cached != nil).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return pf, nil
}
