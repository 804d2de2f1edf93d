package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/emigdal/plnpulse/internal/logger"
)

const maxDirectoryParallel = 8

// ProcessDirectory generates one report per *.csv ledger in dir, writing the
// artifacts into outDir.
//
// Behavior:
//   - Ledgers are independent runs and are processed concurrently, bounded
//     by parallel (0 means min(NumCPU, 8)). Rows within one ledger stay
//     sequential.
//   - Each artifact is written to a temp file and renamed into place, so a
//     failed run never leaves a partial workbook under its final name.
//   - A ledger whose rows were partially skipped still produces a report;
//     the skipped rows are logged per line.
//   - The first failing ledger cancels the remaining ones.
func ProcessDirectory(ctx context.Context, svc ReportService, dir, outDir string, parallel int) error {
	ledgers, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("list ledgers: %w", err)
	}
	if len(ledgers) == 0 {
		return fmt.Errorf("no *.csv ledgers found in %s", dir)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	maxParallel := maxDirectoryParallel
	if parallel > 0 {
		if parallel > maxDirectoryParallel {
			parallel = maxDirectoryParallel
		}
		maxParallel = parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("ledgers", len(ledgers)).Int("max_parallel", maxParallel).Str("dir", dir).Msg("report run start")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, ledger := range ledgers {
		idx := i
		path := ledger

		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(path)
			logger.L().Info().Int("idx", idx+1).Int("total", len(ledgers)).Str("ledger", base).Msg("ledger start")

			out, err := processLedger(gctx, svc, path, outDir)
			if err != nil {
				logger.L().Error().Str("ledger", base).Dur("elapsed", time.Since(start)).Err(err).Msg("ledger failed")
				return fmt.Errorf("ledger %s: %w", base, err)
			}

			logger.L().Info().
				Int("idx", idx+1).
				Int("total", len(ledgers)).
				Str("ledger", base).
				Str("report", filepath.Base(out)).
				Dur("elapsed", time.Since(start)).
				Msg("ledger done")
			return nil
		})
	}

	return g.Wait()
}

// ProcessFile generates a report for a single ledger CSV, writing the
// artifact into outDir with the same atomic-rename guarantee as directory
// mode.
func ProcessFile(ctx context.Context, svc ReportService, path, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	start := time.Now()
	out, err := processLedger(ctx, svc, path, outDir)
	if err != nil {
		return fmt.Errorf("ledger %s: %w", filepath.Base(path), err)
	}

	logger.L().Info().
		Str("ledger", filepath.Base(path)).
		Str("report", filepath.Base(out)).
		Dur("elapsed", time.Since(start)).
		Msg("ledger done")
	return nil
}

// processLedger runs one pipeline and writes the artifact atomically.
// It returns the final artifact path.
func processLedger(ctx context.Context, svc ReportService, path, outDir string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	result, err := svc.Generate(ctx, f)
	if err != nil {
		return "", err
	}
	for _, rowErr := range result.RowErrors {
		logger.L().Warn().Str("ledger", filepath.Base(path)).Int("line", rowErr.Line).Err(rowErr.Err).Msg("row skipped")
	}
	if result.TradeCount == 0 && len(result.RowErrors) > 0 {
		return "", fmt.Errorf("no trade rows could be processed (%d failed)", len(result.RowErrors))
	}

	final := filepath.Join(outDir, result.Filename)

	tmp, err := os.CreateTemp(outDir, ".tmp-report-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(result.Workbook); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("publish artifact: %w", err)
	}
	return final, nil
}
