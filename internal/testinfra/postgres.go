//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yourusername/skylark/internal/database"
)

const (
	// DefaultPostgresImage matches the production major version
	DefaultPostgresImage = "postgres:16-alpine"

	postgresPort     = "5432/tcp"
	postgresUser     = "skylark"
	postgresPassword = "skylark"
	postgresDB       = "skylark"
)

// PostgresContainer is a running PostgreSQL instance with the schema applied
type PostgresContainer struct {
	testcontainers.Container
	URL string
	DB  *database.DB
}

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// NewPostgres starts a container, opens a pool against it and applies
// the schema. Everything is torn down when the test ends.
func NewPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        DefaultPostgresImage,
			ExposedPorts: []string{postgresPort},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       postgresDB,
			},
			// The server restarts once after initdb, so wait for the second banner.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "create postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err, "get container host")
	port, err := container.MappedPort(ctx, postgresPort)
	require.NoError(t, err, "get mapped port")

	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, host, port.Port(), postgresDB)

	db, err := database.NewDB(ctx, url, database.PoolConfig{
		MaxConns:       4,
		AcquireTimeout: 10 * time.Second,
	})
	require.NoError(t, err, "open pool")
	t.Cleanup(db.Close)

	require.NoError(t, db.ApplySchema(ctx), "apply schema")

	return &PostgresContainer{Container: container, URL: url, DB: db}
}

// Truncate empties every table between subtests
func (p *PostgresContainer) Truncate(t *testing.T) {
	t.Helper()

	err := p.DB.WithConn(context.Background(), func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			"TRUNCATE feature, payoff, race_result, race_info, owner, trainer, jockey, horse")
		return err
	})
	require.NoError(t, err, "truncate tables")
}
