// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notifier

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/store"
)

// Dispatcher drains the pending notification queue with a pool of workers.
type Dispatcher struct {
	queries *store.Queries
	mailer  Mailer
	logger  *slog.Logger
	workers int
	batch   int64

	queue chan model.AgendaNotificacion
	wg    sync.WaitGroup
	done  chan struct{}

	mu      sync.RWMutex
	running bool
}

// Config holds dispatcher settings.
type Config struct {
	Workers int   // concurrent delivery workers
	Batch   int64 // pending records fetched per flush
}

// DefaultConfig returns the default dispatcher settings.
func DefaultConfig() Config {
	return Config{
		Workers: 3,
		Batch:   50,
	}
}

// NewDispatcher creates a Dispatcher. mailer may be nil when no SMTP relay is
// configured; pending records then stay queued until one is.
func NewDispatcher(db *sql.DB, mailer Mailer, logger *slog.Logger, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		queries: store.New(db),
		mailer:  mailer,
		logger:  logger,
		workers: cfg.Workers,
		batch:   cfg.Batch,
		queue:   make(chan model.AgendaNotificacion, 100),
		done:    make(chan struct{}),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting notification dispatcher", "workers", d.workers)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop shuts the pool down and waits for in-flight deliveries.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.done)
	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped")
}

// Flush loads one batch of pending notifications and hands them to the
// workers. Safe to call from the scheduler and after every notify request.
func (d *Dispatcher) Flush(ctx context.Context) error {
	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()
	if !running {
		return nil
	}
	if d.mailer == nil {
		d.logger.Debug("no mailer configured, leaving notifications queued")
		return nil
	}

	pending, err := d.queries.ListPendingNotificaciones(ctx, d.batch)
	if err != nil {
		return fmt.Errorf("listing pending notifications: %w", err)
	}
	for _, n := range pending {
		select {
		case d.queue <- n:
		case <-d.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		case <-ctx.Done():
			return
		case n := <-d.queue:
			d.logger.Debug("processing notification", "worker_id", id, "notificacion_id", n.ID)
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.AgendaNotificacion) {
	// A record may have been queued twice across overlapping flushes; the
	// status check keeps delivery at-most-once per queue entry.
	current, err := d.queries.GetNotificacion(ctx, n.AgendaID, n.UserUUID)
	if err != nil || current.Status != model.NotificacionPendiente {
		return
	}

	agenda, err := d.queries.GetAgendaByID(ctx, n.AgendaID)
	if err != nil {
		d.logger.Error("agenda missing for notification", "error", err,
			"notificacion_id", n.ID, "agenda_id", n.AgendaID)
		_ = d.queries.MarkNotificacionFailed(ctx, n.ID, "agenda not found")
		return
	}

	subject := "Convocatoria: " + agenda.Nombre
	body := fmt.Sprintf(
		"Se le convoca a la actividad %q.\n\nFecha: %s\nHora: %s - %s\nLugar: %s\n\n%s\n",
		agenda.Nombre, agenda.Fecha, agenda.HoraInicio, agenda.HoraFin, agenda.Lugar,
		agenda.Descripcion)

	if err := d.mailer.Send(ctx, n.Email, subject, body); err != nil {
		d.logger.Warn("notification delivery failed", "error", err,
			"notificacion_id", n.ID, "email", n.Email)
		_ = d.queries.MarkNotificacionFailed(ctx, n.ID, err.Error())
		return
	}

	if err := d.queries.MarkNotificacionSent(ctx, n.ID, time.Now()); err != nil {
		d.logger.Error("failed to mark notification sent", "error", err, "notificacion_id", n.ID)
		return
	}
	d.logger.Info("notification delivered", "notificacion_id", n.ID,
		"agenda_id", n.AgendaID, "email", n.Email)
}
