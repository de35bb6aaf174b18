package application

import (
	"context"
	"testing"

	"github.com/psds-microservice/repair-service/internal/config"
	"github.com/psds-microservice/repair-service/internal/service"
	"github.com/psds-microservice/repair-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{AppHost: "127.0.0.1", HTTPPort: "0", AppEnv: "test", StoreDriver: config.StoreMemory}
	return cfg
}

func TestNewAPI_BootstrapsAdminBeforeServing(t *testing.T) {
	api, err := NewAPI(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)

	a, err := api.store.FindOldestAdmin(context.Background(), store.AdminFilter{Email: service.DefaultAdminEmail})
	require.NoError(t, err)
	assert.Equal(t, "admin", a.Role)
	assert.False(t, api.producer.Enabled())
}

func TestRun_StopsOnCancel(t *testing.T) {
	api, err := NewAPI(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, api.Run(ctx))
}

func TestNewAPI_InvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "sqlite"
	_, err := NewAPI(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
