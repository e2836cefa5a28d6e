package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fingnet-server/shared"
)

const migrationStatusKey = "singleton"

func (s *Store) GetMigrationStatus(ctx context.Context) (*shared.MigrationStatus, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var doc []byte
	err := s.conn.GetContext(ctx, &doc,
		"SELECT doc FROM migration_status WHERE id = $1", migrationStatusKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting migration status: %v", err)
	}

	var status shared.MigrationStatus
	if err := json.Unmarshal(doc, &status); err != nil {
		return nil, fmt.Errorf("error unmarshalling migration status: %v", err)
	}
	return &status, nil
}

func (s *Store) PutMigrationStatus(ctx context.Context, status *shared.MigrationStatus) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	doc, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("error marshalling migration status: %v", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO migration_status (id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		migrationStatusKey, doc)
	if err != nil {
		return fmt.Errorf("error saving migration status: %v", err)
	}
	return nil
}
