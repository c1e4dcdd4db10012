package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/exporters"
)

// BookSource provides the collection to back up.
type BookSource interface {
	Books() []entities.Book
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// NextRunTime returns the first activation of schedule after now.
func NextRunTime(schedule string, now time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now), nil
}

// BackupScheduler periodically writes a spreadsheet copy of the library.
type BackupScheduler struct {
	source   BookSource
	exporter exporters.BookExporter
	schedule string
	logger   *zap.Logger

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.RWMutex
	isRunning   bool
	isBackingUp bool
	lastResult  *exporters.ExportResult
}

func NewBackupScheduler(source BookSource, exporter exporters.BookExporter, schedule string, logger *zap.Logger) *BackupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupScheduler{
		source:   source,
		exporter: exporter,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the backup job. It stops when ctx is cancelled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(); err != nil && !errors.Is(err, exporters.ErrNoBooks) {
			s.logger.Error("scheduled backup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.schedule, time.Now())
	s.logger.Info("backup scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", next),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running backup and stops the scheduler.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	// A running backup takes s.mu on its way out, so wait unlocked.
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.logger.Info("backup scheduler stopped")
}

// RunOnce writes one backup now. Overlapping runs are skipped.
func (s *BackupScheduler) RunOnce() (exporters.ExportResult, error) {
	s.mu.Lock()
	if s.isBackingUp {
		s.mu.Unlock()
		s.logger.Info("backup skipped, already running")
		return exporters.ExportResult{}, errors.New("backup already running")
	}
	s.isBackingUp = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isBackingUp = false
		s.mu.Unlock()
	}()

	books := s.source.Books()
	result, err := s.exporter.Export(books)
	if errors.Is(err, exporters.ErrNoBooks) {
		s.logger.Info("backup skipped, library is empty")
		return result, err
	}
	if err != nil {
		return result, fmt.Errorf("backup failed: %w", err)
	}

	s.mu.Lock()
	s.lastResult = &result
	s.mu.Unlock()

	s.logger.Info("backup written",
		zap.String("path", result.Path),
		zap.Int("books", result.BooksExported),
	)
	return result, nil
}

func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastResult returns the most recent successful backup, or nil.
func (s *BackupScheduler) LastResult() *exporters.ExportResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}

// NextRun returns when the next backup will occur, or nil when stopped.
func (s *BackupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}
