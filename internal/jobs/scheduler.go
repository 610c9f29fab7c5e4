// Package jobs tareas programadas (cron) del servicio.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/payloop-api/pkg/logger"
)

// Flusher reintenta la persistencia del ledger cuando un commit anterior falló.
type Flusher interface {
	Flush(ctx context.Context) error
	Dirty() bool
}

// Scheduler administra las tareas en segundo plano.
type Scheduler struct {
	cron    *cron.Cron
	flusher Flusher
	spec    string
	log     *logger.Logger
}

// NewScheduler crea el planificador. spec es la expresión cron del flush (ej. "@every 1m").
func NewScheduler(flusher Flusher, spec string, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		flusher: flusher,
		spec:    spec,
		log:     log.Named("jobs"),
	}
}

// Start registra las tareas y arranca el cron. ctx se propaga a cada ejecución.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.flushLedger(ctx) }); err != nil {
		return fmt.Errorf("jobs: spec %q inválido: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info().Str("flush_spec", s.spec).Msg("planificador de tareas iniciado")
	return nil
}

// flushLedger solo escribe si hay estado sin persistir.
func (s *Scheduler) flushLedger(ctx context.Context) {
	if !s.flusher.Dirty() {
		return
	}
	s.log.Info().Msg("[CRON] reintentando persistencia del ledger")
	if err := s.flusher.Flush(ctx); err != nil {
		s.log.Error().Err(err).Msg("[CRON] error al persistir el ledger")
	}
}

// Stop detiene el planificador esperando las tareas en curso.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	<-done.Done()
	s.log.Info().Msg("planificador de tareas detenido")
}
