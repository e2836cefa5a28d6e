package store

import (
	"context"
	"log"
	"sync"

	"fingnet-server/db"
	"fingnet-server/flatstore"
	"fingnet-server/migration"
	"fingnet-server/seed"
	"fingnet-server/shared"
)

type Config struct {
	DatabaseURL   string
	MigrationsDir string
	QuotaBytes    int64

	FlatDir         string
	FlatBudgetBytes int64

	// SkipSeed leaves an empty store empty. Used by tests.
	SkipSeed bool

	Tokens TokenProvider
}

// Storage is the single API surface the rest of the application talks to.
// It lazily resolves a backend, runs migration and seeding exactly once, and
// routes every operation through the resolved backend.
type Storage struct {
	cfg Config

	backend  Backend
	legacy   *flatstore.Store
	migrator *migration.Manager
	degraded bool
	tokens   TokenProvider

	initOnce sync.Once
	initErr  error
}

func New(cfg Config) *Storage {
	return &Storage{
		cfg:    cfg,
		legacy: flatstore.NewStore(cfg.FlatDir, cfg.FlatBudgetBytes),
		tokens: cfg.Tokens,
	}
}

// NewWithBackend wires a pre-resolved backend directly, bypassing backend
// probing and migration. Used by tests.
func NewWithBackend(backend Backend, cfg Config) *Storage {
	return &Storage{
		cfg:     cfg,
		backend: backend,
		legacy:  flatstore.NewStore(cfg.FlatDir, cfg.FlatBudgetBytes),
		tokens:  cfg.Tokens,
	}
}

// Init forces initialization eagerly. Every operation also initializes
// lazily, so calling it is optional.
func (s *Storage) Init(ctx context.Context) error {
	return s.init(ctx)
}

// init is the lazy, idempotent initialization protocol. Every public method
// waits on it; it runs exactly once regardless of call concurrency.
func (s *Storage) init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.doInit(ctx)
	})
	return s.initErr
}

func (s *Storage) doInit(ctx context.Context) error {
	if s.backend == nil {
		richer := db.NewStore(db.Config{
			DatabaseURL:   s.cfg.DatabaseURL,
			MigrationsDir: s.cfg.MigrationsDir,
			QuotaBytes:    s.cfg.QuotaBytes,
		})

		// Probe the richer backend; fall back to the flat store if it
		// can't open.
		if _, err := richer.GetMigrationStatus(ctx); err != nil {
			log.Printf("richer backend unavailable, running in degraded mode: %v", err)
			s.backend = s.legacy
			s.degraded = true
		} else {
			s.backend = richer
			s.migrator = migration.NewManager(s.legacy, richer)
		}
	}

	if s.migrator != nil {
		state, err := s.migrator.CheckRequired(ctx)
		if err != nil {
			log.Printf("error checking migration state: %v", err)
		} else if state == shared.MigrationRequired {
			log.Println("legacy data detected, running migration")
			if _, err := s.migrator.Perform(ctx, func(p shared.MigrationProgress) {
				log.Printf("migration progress: %d/%d (%s)", p.Current, p.Total, p.Task)
			}); err != nil {
				// Recoverable: migration is retryable and the legacy data is
				// still intact, so initialization continues.
				log.Printf("migration failed (will retry on next run): %v", err)
			}
		}
	}

	if !s.cfg.SkipSeed {
		if err := s.seedIfEmpty(ctx); err != nil {
			return err
		}
	}

	if _, err := s.backend.CleanupOldData(ctx, shared.CleanupOptions{}); err != nil {
		log.Printf("error running maintenance cleanup: %v", err)
	}

	return nil
}

// seedIfEmpty seeds the built-in dataset into an empty store. A store that
// holds users but no posts is repaired by re-seeding only the content
// collections.
func (s *Storage) seedIfEmpty(ctx context.Context) error {
	users, err := s.backend.GetAllUsers(ctx)
	if err != nil {
		return err
	}

	data := seed.Data()

	if len(users) == 0 {
		log.Println("empty store, seeding default dataset")
		for _, u := range data.Users {
			if err := s.backend.SaveUser(ctx, u); err != nil {
				return err
			}
		}
		return s.seedContent(ctx, data)
	}

	posts, err := s.backend.GetAllPosts(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		log.Println("store has users but no posts, re-seeding content")
		return s.seedContent(ctx, data)
	}

	return nil
}

func (s *Storage) seedContent(ctx context.Context, data *seed.Dataset) error {
	for _, p := range data.Posts {
		if err := s.backend.SavePost(ctx, p); err != nil {
			return err
		}
	}
	for _, c := range data.Comments {
		if err := s.backend.SaveComment(ctx, c); err != nil {
			return err
		}
	}
	for _, f := range data.Follows {
		if err := s.backend.SaveFollow(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Degraded reports whether the façade fell back to the flat store.
func (s *Storage) Degraded() bool {
	return s.degraded
}
