package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V4T54L/integrator/internal/adapter/repository"
	"github.com/V4T54L/integrator/internal/domain"
	"github.com/V4T54L/integrator/internal/domain/mocks"
	"github.com/V4T54L/integrator/internal/pkg/config"
	"github.com/V4T54L/integrator/internal/pkg/logger"
)

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "integrator_storage.db", redactDSN("integrator_storage.db"))
	assert.Equal(t, "postgres://app:xxxxx@db:5432/integrator?sslmode=disable",
		redactDSN("postgres://app:hunter2@db:5432/integrator?sslmode=disable"))
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["init-db"])
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// freeAddr returns a loopback address nothing is listening on.
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func testConfig(t *testing.T, dsn string) *config.Config {
	return &config.Config{
		LogLevel:          "info",
		LogFormat:         "json",
		ServerAddr:        freeAddr(t),
		AdminAddr:         freeAddr(t),
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		ShutdownTimeout:   time.Second,
		MaxBodySize:       4096,
		StorageDriver:     config.DriverSQLite,
		StorageDSN:        dsn,
		EnforceUniquePair: true,
	}
}

func assertNotListening(t *testing.T, addr string) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	if err == nil {
		_ = conn.Close()
		t.Errorf("expected nothing listening on %s", addr)
	}
}

func mockOpener(store domain.Store, err error) storeOpener {
	return func(*config.Config, *slog.Logger) (domain.Store, error) {
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "unused.db")

	t.Run("Open Failure", func(t *testing.T) {
		_, err := openStorage(ctx, cfg, discardLogger(), mockOpener(nil, errors.New("unable to open database file")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database initialization failed")
	})

	t.Run("Init Failure Closes Store", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.InitErr = errors.New("disk I/O error")

		_, err := openStorage(ctx, cfg, discardLogger(), mockOpener(store, nil))
		require.ErrorIs(t, err, store.InitErr)
		assert.Equal(t, 1, store.InitCalls)
		assert.Equal(t, 1, store.CloseCalls)
	})

	t.Run("Count Failure Closes Store", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.AccountRepo.CountErr = errors.New("no such table: accounts")

		_, err := openStorage(ctx, cfg, discardLogger(), mockOpener(store, nil))
		require.ErrorIs(t, err, store.AccountRepo.CountErr)
		assert.Equal(t, 1, store.CloseCalls)
	})

	t.Run("Logs Account Count", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.AccountRepo.Accounts = []domain.Account{
			{TenantID: "ABCDEFGHIJ", RealmID: "0123456789", APIKey: "k1"},
			{TenantID: "ABCDEFGHIJ", RealmID: "9876543210", APIKey: "k2"},
		}
		var buf bytes.Buffer

		got, err := openStorage(ctx, cfg, logger.NewWithWriter(&buf, "info", "json"), mockOpener(store, nil))
		require.NoError(t, err)
		assert.Same(t, store, got)
		assert.Equal(t, 1, store.InitCalls)
		assert.Zero(t, store.CloseCalls)
		assert.Contains(t, buf.String(), `"msg":"storage schema ready"`)
		assert.Contains(t, buf.String(), `"accounts":2`)
	})
}

func TestRunServe_RefusesToStartWithoutStorage(t *testing.T) {
	t.Run("Unusable DSN", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
		cfg := testConfig(t, filepath.Join(blocker, "integrator.db"))

		err := runServe(context.Background(), cfg, discardLogger(), repository.Open, prometheus.NewRegistry(), prometheus.NewRegistry())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database initialization failed")
		assertNotListening(t, cfg.ServerAddr)
		assertNotListening(t, cfg.AdminAddr)
	})

	t.Run("Schema Setup Failure", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.InitErr = errors.New("attempt to write a readonly database")
		cfg := testConfig(t, "unused.db")

		err := runServe(context.Background(), cfg, discardLogger(), mockOpener(store, nil), prometheus.NewRegistry(), prometheus.NewRegistry())
		require.ErrorIs(t, err, store.InitErr)
		assert.Equal(t, 1, store.InitCalls)
		assertNotListening(t, cfg.ServerAddr)
		assertNotListening(t, cfg.AdminAddr)
	})
}

func TestRunServe_ServesUntilCancelled(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "integrator.db"))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, cfg, discardLogger(), repository.Open, prometheus.NewRegistry(), prometheus.NewRegistry())
	}()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", cfg.ServerAddr, 100*time.Millisecond)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancellation")
	}
}
