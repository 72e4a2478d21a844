// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package jobs

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
)

// Sweeper clears camp enrollment for schools whose debate has ended, on a
// fixed cron interval. Frozen camp fields on stickies and votes are never
// touched; only the live students.camp_id column is reset.
type Sweeper struct {
	db       *sql.DB
	interval time.Duration
	cron     *cron.Cron
}

func NewSweeper(db *sql.DB, interval time.Duration) *Sweeper {
	return &Sweeper{
		db:       db,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

// Start schedules the sweep and begins running it. The first sweep fires
// one interval from now.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule camp sweep: %w", err)
	}
	s.cron.Start()
	slog.Info("camp sweeper started", "interval", s.interval.String())
	return nil
}

// Stop halts the scheduler and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("camp sweeper stopped")
}

func (s *Sweeper) sweep() {
	cleared, err := SweepOnce(s.db, time.Now())
	if err != nil {
		// Next tick retries; a missed sweep only delays enrollment reset.
		slog.Error("camp sweep failed", "error", err)
		return
	}
	if cleared > 0 {
		slog.Info("camp sweep complete", "cleared", cleared,
			"next_run", humanize.Time(time.Now().Add(s.interval)))
	}
}

// SweepOnce nulls camp_id for every student whose school's newest theme
// ended at or before now. Schools mid-debate, and schools with no themes
// at all, are left alone.
func SweepOnce(db *sql.DB, now time.Time) (int, error) {
	result, err := db.Exec(`
		UPDATE students SET camp_id = NULL
		WHERE camp_id IS NOT NULL
		  AND school_id IN (
			SELECT school_id FROM debate_themes
			GROUP BY school_id
			HAVING MAX(end_date) <= $1
		  )
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep camps: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
