//go:build integration

package testdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Nazarious-ucu/newsletter-api/internal/config"
)

const (
	image    = "postgres:16-alpine"
	user     = "postgres"
	password = "password"
)

// Server is a throwaway Postgres server shared by every test of a package.
type Server struct {
	Base      config.Database
	container *tcpostgres.PostgresContainer
}

// StartServer runs a Postgres container. Base points at its default database;
// tests get their own databases from Provision.
func StartServer(ctx context.Context) (*Server, error) {
	container, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithUsername(user),
		tcpostgres.WithPassword(password),
		tcpostgres.WithDatabase("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("container port: %w", err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("container port %q: %w", port.Port(), err)
	}

	return &Server{
		Base: config.Database{
			Host:     host,
			Port:     portNum,
			User:     user,
			Password: password,
			Name:     "postgres",
			SSLMode:  "disable",
			MaxConns: 4,
		},
		container: container,
	}, nil
}

func (s *Server) Terminate() error {
	return testcontainers.TerminateContainer(s.container)
}
