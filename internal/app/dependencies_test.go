package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
)

func TestInitRuntimeDependencies_Memory(t *testing.T) {
	t.Parallel()

	deps, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverMemory,
	}, log.WithField("test", "memory-storage"))
	if err != nil {
		t.Fatalf("initRuntimeDependencies(memory) failed: %v", err)
	}
	if deps.catalog == nil || deps.users == nil || deps.addresses == nil || deps.timeline == nil {
		t.Fatalf("memory dependencies must be initialized: %+v", deps)
	}

	products, err := deps.catalog.List(context.Background())
	if err != nil || len(products) != 5 {
		t.Fatalf("expected seeded catalog, got %d products (err=%v)", len(products), err)
	}
	if check := deps.storageChecker.Check(context.Background()); check.Status != healthcheck.StatusHealthy {
		t.Fatalf("expected healthy storage, got %+v", check)
	}
	deps.close(log.WithField("test", "memory-storage"))
}

func TestInitRuntimeDependencies_EmptyDriverMeansMemory(t *testing.T) {
	t.Parallel()

	deps, err := initRuntimeDependencies(context.Background(), Config{}, log.WithField("test", "empty-driver"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.closeFn != nil {
		t.Fatal("memory storage has nothing to close")
	}
}

func TestInitRuntimeDependencies_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverPostgres,
	}, log.WithField("test", "postgres-missing-dsn"))
	if err == nil {
		t.Fatal("expected error when postgres driver is selected without DSN")
	}
}

func TestInitRuntimeDependencies_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: "sqlite",
	}, log.WithField("test", "unsupported-driver"))
	if err == nil {
		t.Fatal("expected error for unsupported storage driver")
	}
}

func TestCreateRegistry_UsesConfiguredCurrency(t *testing.T) {
	logger := log.WithField("test", "registry")
	deps, err := initRuntimeDependencies(context.Background(), Config{}, logger)
	if err != nil {
		t.Fatalf("init deps: %v", err)
	}
	rates, policy, err := loadPricing("")
	if err != nil {
		t.Fatalf("load pricing: %v", err)
	}

	cfg := DefaultConfig()
	cfg.DefaultCurrency = "EUR"
	registry, err := createRegistry(cfg, deps, rates, policy, nil, nil, logger)
	if err != nil {
		t.Fatalf("createRegistry failed: %v", err)
	}
	sess, err := registry.Get("s-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Currency() != "EUR" {
		t.Fatalf("expected EUR, got %s", sess.Currency())
	}

	cfg.DefaultCurrency = "JPY"
	if _, err := createRegistry(cfg, deps, rates, policy, nil, nil, logger); err == nil {
		t.Fatal("expected error for unknown default currency")
	}
}
