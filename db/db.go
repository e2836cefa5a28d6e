package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const LockTimeout = 4000
const StatementTimeout = 30000

// DefaultQuotaBytes is the storage budget used for quota introspection when
// no budget is configured.
const DefaultQuotaBytes int64 = 10 << 30

type Config struct {
	DatabaseURL   string
	MigrationsDir string
	QuotaBytes    int64
}

// Store is the richer backend: a transactional, index-capable, binary-blob
// aware storage engine over Postgres. A Store is constructed cheaply and
// opens lazily; the first caller to reach the database triggers the single
// connect + schema pass, and every other caller waits on the same result.
type Store struct {
	cfg  Config
	conn *sqlx.DB

	openOnce sync.Once
	openErr  error
}

func NewStore(cfg Config) *Store {
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	if cfg.QuotaBytes <= 0 {
		cfg.QuotaBytes = DefaultQuotaBytes
	}
	return &Store{cfg: cfg}
}

func (s *Store) Name() string {
	return "postgres"
}

// ready memoizes the open/upgrade pass. Concurrent callers all block on the
// first one; a failed open is sticky for the lifetime of the Store.
func (s *Store) ready(ctx context.Context) error {
	s.openOnce.Do(func() {
		s.openErr = s.open()
	})
	if s.openErr != nil {
		return s.openErr
	}
	return ctx.Err()
}

func (s *Store) open() error {
	if s.cfg.DatabaseURL == "" {
		return errors.New("database url not set")
	}

	dbUrl := s.cfg.DatabaseURL
	sep := "?"
	if containsQuery(dbUrl) {
		sep = "&"
	}
	dbUrl += fmt.Sprintf("%sstatement_timeout=%d&lock_timeout=%d&timezone=UTC", sep, StatementTimeout, LockTimeout)

	conn, err := sqlx.Connect("postgres", dbUrl)
	if err != nil {
		return fmt.Errorf("error connecting to database: %v", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)

	s.conn = conn
	log.Println("connected to database")

	if err := s.migrationsUp(); err != nil {
		return err
	}

	return nil
}

// migrationsUp brings the schema to the current version. Migrations are
// additive only: a version bump adds missing collections and indexes, it
// never destroys existing data.
func (s *Store) migrationsUp() error {
	driver, err := postgres.WithInstance(s.conn.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("error creating postgres driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+s.cfg.MigrationsDir,
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("error creating migration instance: %v", err)
	}

	err = m.Up()
	if err != nil {
		if err == migrate.ErrNoChange {
			log.Println("schema is up to date")
			return nil
		}
		return fmt.Errorf("error running migrations: %v", err)
	}

	log.Println("ran schema migrations successfully")
	return nil
}

func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func containsQuery(url string) bool {
	for i := 0; i < len(url); i++ {
		if url[i] == '?' {
			return true
		}
	}
	return false
}
