package jobs

import (
	"context"
	"time"

	"homeserv/internal/config"
	"homeserv/internal/database"
	"homeserv/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the periodic maintenance jobs: cancelling bookings that
// overstayed the payment window and backing up the database.
type Scheduler struct {
	cron    *cron.Cron
	rentals *service.RentalService
	db      *database.DB
	cfg     config.Config
	logger  *zerolog.Logger
}

func NewScheduler(rentals *service.RentalService, db *database.DB, cfg config.Config, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		rentals: rentals,
		db:      db,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Jobs.ExpireSchedule, s.expireStaleUnpaid); err != nil {
		return err
	}

	if s.cfg.Backup.Enabled {
		if _, err := s.cron.AddFunc(s.cfg.Backup.Schedule, s.backup); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info().Str("expire_schedule", s.cfg.Jobs.ExpireSchedule).Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) expireStaleUnpaid() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	window := time.Duration(s.cfg.Jobs.PaymentWindowHours) * time.Hour
	count, err := s.rentals.ExpireStaleUnpaid(ctx, window)
	if err != nil {
		s.logger.Error().Err(err).Msg("stale unpaid sweep failed")
		return
	}
	if count > 0 {
		s.logger.Info().Int("cancelled", count).Msg("stale unpaid bookings cancelled")
	}
}

func (s *Scheduler) backup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	path, err := s.db.Backup(ctx, s.cfg.Backup.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("database backup failed")
		return
	}
	s.logger.Info().Str("path", path).Msg("database backup created")

	pruned, err := s.db.PruneBackups(s.cfg.Backup.StoragePath, s.cfg.Backup.RetentionDays)
	if err != nil {
		s.logger.Error().Err(err).Msg("backup prune failed")
		return
	}
	if pruned > 0 {
		s.logger.Info().Int("pruned", pruned).Msg("old backups removed")
	}
}
