package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/infrastructure/observability"
)

func TestRunFlushesTelemetryWhenStorageFails(t *testing.T) {
	cfg := &config.Config{StorageDriver: "cassandra", ShutdownTimeout: time.Second}

	flushed := false
	setup := func(context.Context, *config.Config, zerolog.Logger) (observability.Shutdown, error) {
		return func(context.Context) error {
			flushed = true
			return nil
		}, nil
	}

	err := run(context.Background(), cfg, zerolog.Nop(), setup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open storage")
	assert.True(t, flushed)
}

func TestRunReportsTelemetrySetupFailure(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.StorageMemory, ShutdownTimeout: time.Second}
	boom := errors.New("exporter unavailable")
	setup := func(context.Context, *config.Config, zerolog.Logger) (observability.Shutdown, error) {
		return nil, boom
	}

	err := run(context.Background(), cfg, zerolog.Nop(), setup)
	assert.ErrorIs(t, err, boom)
}
