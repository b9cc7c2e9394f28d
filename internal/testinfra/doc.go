// Package testinfra provides test infrastructure for integration testing with containers.
//
// It starts a disposable PostgreSQL instance with testcontainers-go and
// applies the Skylark schema, so repository tests run against the same
// engine as production:
//
//	func TestRepository(t *testing.T) {
//	    pg := testinfra.NewPostgres(t)
//	    repos, _ := repository.NewRepositories(pg.DB, logger.Discard())
//	    // ...
//	}
//
// Files in this package carry the integration build tag:
//
//	go test -tags integration ./...
package testinfra
