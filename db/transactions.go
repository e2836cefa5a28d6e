package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a transaction. Any error (or panic) rolls the whole
// unit back so no collection is left half-written.
func (s *Store) WithTx(ctx context.Context, reason string, fn func(tx *sqlx.Tx) error) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %v", err)
	}

	var committed bool

	defer func() {
		panicErr := recover()
		if panicErr != nil {
			log.Printf("panic in WithTx (%s): %v\n%s", reason, panicErr, debug.Stack())
		}

		if committed {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil {
			if rbErr == sql.ErrTxDone {
				log.Printf("attempted to roll back transaction, but it was already committed: (%s)", reason)
			} else {
				log.Printf("transaction rollback error: (%s) %v\n", reason, rbErr)
			}
		} else {
			log.Printf("transaction rolled back: (%s)", reason)
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("error committing transaction: %v", err)
	}

	committed = true
	return nil
}
