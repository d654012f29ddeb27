// Package spool feeds files dropped into a directory through the batch runner.
// Each file holds one or more observations; once processed it is moved to
// done/ or, if any record failed, to failed/.
package spool

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/amishk599/jobledger/internal/model"
	"github.com/amishk599/jobledger/internal/pipeline"
)

const (
	doneDir   = "done"
	failedDir = "failed"
)

// BatchRunner processes one decoded file.
type BatchRunner interface {
	Run(ctx context.Context, raws []model.RawJob) (pipeline.BatchStats, []model.StoredRecord, error)
}

// Spool drains a directory of *.json and *.jsonl files.
type Spool struct {
	dir    string
	runner BatchRunner
	logger *slog.Logger
}

// New creates the spool directory and its archive subdirectories if needed.
func New(dir string, runner BatchRunner, logger *slog.Logger) (*Spool, error) {
	for _, d := range []string{dir, filepath.Join(dir, doneDir), filepath.Join(dir, failedDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create spool dir: %w", err)
		}
	}
	return &Spool{dir: dir, runner: runner, logger: logger}, nil
}

// Name identifies the spool in scheduler logs.
func (s *Spool) Name() string { return "spool:" + s.dir }

// Pending returns the files waiting to be processed, oldest name first.
func (s *Spool) Pending() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read spool dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".jsonl":
			files = append(files, filepath.Join(s.dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// RunOnce processes every pending file. A file interrupted by cancellation
// stays in place and is picked up again by the next cycle.
func (s *Spool) RunOnce(ctx context.Context) error {
	files, err := s.Pending()
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.processFile(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spool) processFile(ctx context.Context, path string) error {
	logger := s.logger.With("file", filepath.Base(path))

	raws, err := readFile(path)
	if err != nil {
		logger.Error("unreadable spool file", "error", err)
		return s.archive(path, failedDir)
	}

	stats, _, err := s.runner.Run(ctx, raws)
	if err != nil {
		logger.Warn("spool file interrupted", "completed", stats.Completed, "pending", stats.Pending)
		return err
	}

	if stats.Failed > 0 {
		logger.Warn("spool file had failures", "failed", stats.Failed, "completed", stats.Completed)
		return s.archive(path, failedDir)
	}
	logger.Info("spool file processed", "completed", stats.Completed, "inserted", stats.Inserted)
	return s.archive(path, doneDir)
}

func (s *Spool) archive(path, sub string) error {
	dst := filepath.Join(s.dir, sub, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("archive spool file: %w", err)
	}
	return nil
}

func readFile(path string) ([]model.RawJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
