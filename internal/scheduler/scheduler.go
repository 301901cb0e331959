// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic jobs of the portal: flushing queued
// convocatoria emails, purging old audit events and refreshing the GeoIP
// database.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/consejoregional/portal-go/internal/geoip"
	"github.com/consejoregional/portal-go/internal/notifier"
	"github.com/consejoregional/portal-go/internal/service"
)

// EventRetention is how long audit events are kept before the nightly purge.
const EventRetention = 90 * 24 * time.Hour

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	dispatcher *notifier.Dispatcher
	events     *service.EventService
	geo        *geoip.Lookup
}

// New creates a scheduler. dispatcher and geo may be nil; the matching jobs
// are skipped.
func New(logger *slog.Logger, dispatcher *notifier.Dispatcher, events *service.EventService, geo *geoip.Lookup) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		logger:     logger,
		dispatcher: dispatcher,
		events:     events,
		geo:        geo,
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	if s.dispatcher != nil {
		// Pending convocatorias go out within a minute of being queued.
		if _, err := s.cron.AddFunc("* * * * *", s.flushNotificaciones); err != nil {
			return err
		}
	}

	// Nightly audit log purge.
	if _, err := s.cron.AddFunc("30 3 * * *", s.purgeEvents); err != nil {
		return err
	}

	if s.geo != nil {
		// Pick up replaced GeoLite2 database files.
		if _, err := s.cron.AddFunc("0 */6 * * *", s.reloadGeoIP); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) flushNotificaciones() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	if err := s.dispatcher.Flush(ctx); err != nil {
		s.logger.Error("failed to flush notificaciones", "error", err)
	}
}

func (s *Scheduler) purgeEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.events.DeleteOldEvents(ctx, EventRetention)
	if err != nil {
		s.logger.Error("failed to purge events", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("purged old events", "count", n)
	}
}

func (s *Scheduler) reloadGeoIP() {
	if err := s.geo.Reload(); err != nil {
		s.logger.Warn("geoip reload failed", "error", err)
	}
}
