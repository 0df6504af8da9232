// Package migrate applies the .sql files in migrations/ in lexical order,
// tracking what already ran in a schema_migrations ledger table.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ApplyDir runs every pending .sql file under dir against db. Files are
// ordered by name, so the numeric prefix convention (0001_..., 0002_...)
// decides execution order. Already-applied files are skipped.
func ApplyDir(ctx context.Context, db *sql.DB, dir string) error {
	pending, err := listSQLFiles(dir)
	if err != nil {
		return err
	}

	if err := ensureLedger(ctx, db); err != nil {
		return err
	}

	for _, path := range pending {
		name := filepath.Base(path)

		done, err := alreadyApplied(ctx, db, name)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		stmt, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}

		if err := recordApplied(ctx, db, name); err != nil {
			return err
		}
	}

	return nil
}

func listSQLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func ensureLedger(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name VARCHAR(255) NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (name)
) ENGINE=InnoDB;
`)
	return err
}

func alreadyApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRowContext(ctx, `SELECT name FROM schema_migrations WHERE name = ?`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func recordApplied(ctx context.Context, db *sql.DB, name string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (?)`, name)
	return err
}
