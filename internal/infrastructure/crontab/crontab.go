package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/dm-server/internal/infrastructure/metrics"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

const (
	DefaultSchedule = "*/10 * * * *"
	SweepTimeout    = 2 * time.Minute

	sweepJob = "orphan_sweep"
)

// MessageCleaner removes messages whose conversation is gone.
type MessageCleaner interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// MembershipCleaner removes user-side list entries whose conversation is gone.
type MembershipCleaner interface {
	PruneConversations(ctx context.Context) (int64, error)
}

// OrphanSweeper periodically finishes conversation deletes that were cut
// short on backends without transactions.
type OrphanSweeper struct {
	ctab       *crontab.Crontab
	tracer     trace.Tracer
	schedule   string
	messages   MessageCleaner
	membership MembershipCleaner
	log        zerolog.Logger
}

func NewOrphanSweeper(schedule string, messages MessageCleaner, membership MembershipCleaner, log zerolog.Logger) *OrphanSweeper {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &OrphanSweeper{
		ctab:       crontab.New(),
		tracer:     otel.Tracer("dm-server/crontab"),
		schedule:   schedule,
		messages:   messages,
		membership: membership,
		log:        log.With().Str("component", "orphan-sweeper").Logger(),
	}
}

// Run sweeps once, schedules the job and blocks until ctx is done.
func (s *OrphanSweeper) Run(ctx context.Context) error {
	s.Sweep(ctx)

	if err := s.ctab.AddJob(s.schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), SweepTimeout)
		defer cancel()
		s.Sweep(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add orphan sweep job")
	}
	s.log.Info().Str("schedule", s.schedule).Msg("orphan sweep scheduled")

	<-ctx.Done()
	s.ctab.Shutdown()
	return nil
}

// Sweep removes orphaned messages, then stale conversation list entries.
// Failures are logged and retried on the next tick.
func (s *OrphanSweeper) Sweep(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "worker."+sweepJob)
	defer span.End()
	start := time.Now()
	status := "success"

	messages, err := s.messages.DeleteOrphans(ctx)
	if err != nil {
		status = "error"
		span.RecordError(err)
		s.log.Error().Err(err).Msg("failed to delete orphan messages")
	} else {
		metrics.RecordOrphansRemoved("message", messages)
	}

	entries, err := s.membership.PruneConversations(ctx)
	if err != nil {
		status = "error"
		span.RecordError(err)
		s.log.Error().Err(err).Msg("failed to prune conversation lists")
	} else {
		metrics.RecordOrphansRemoved("membership", entries)
	}

	span.SetAttributes(
		attribute.Int64("sweep.messages_removed", messages),
		attribute.Int64("sweep.memberships_removed", entries),
	)
	if status == "error" {
		span.SetStatus(codes.Error, "orphan sweep incomplete")
	}
	metrics.RecordJob(sweepJob, status, time.Since(start).Seconds())

	if messages > 0 || entries > 0 {
		s.log.Info().
			Int64("messages", messages).
			Int64("memberships", entries).
			Msg("orphan sweep removed records")
	}
}
