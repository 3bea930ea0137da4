//go:build integration_pg

// Package pgtest starts a throwaway postgres with the schema applied
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"tubepulse/internal/platform/logger"
	"tubepulse/internal/platform/store"
	"tubepulse/internal/platform/store/schema"
)

// Start runs postgres:16-alpine, opens a store on it and applies the schema
// the container and the store are released in t.Cleanup
func Start(t *testing.T) *store.Store {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "tubepulse",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	st, err := store.Open(ctx, store.Config{
		AppName: "tubepulse-test",
		PG: store.PGConfig{
			Enabled:  true,
			URL:      fmt.Sprintf("postgres://postgres:postgres@%s:%s/tubepulse?sslmode=disable", host, mapped.Port()),
			MaxConns: 4,
		},
	}, store.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := schema.Apply(ctx, st.PG); err != nil {
		t.Fatalf("schema.Apply: %v", err)
	}
	return st
}
