package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gearcash-api/internal/infrastructure/store"
	"github.com/jhoicas/gearcash-api/pkg/config"
	"github.com/jhoicas/gearcash-api/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "development", Store: config.StoreMemory}}

	st, err := store.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer st.Close()

	assert.NotNil(t, st.Users)
	assert.NotNil(t, st.Tx)
	assert.Nil(t, st.Pinger)

	n, err := st.Users.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_StoreDesconocido(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Store: "redis"}}

	_, err := store.Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
