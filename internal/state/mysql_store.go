package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) GetStockRecord(ctx context.Context, variantID string) (domain.StockRecord, bool, error) {
	var available bool
	var checked, changed time.Time

	err := s.db.QueryRowContext(
		ctx,
		`SELECT available, last_checked, last_changed FROM stock_state WHERE variant_id = ?`,
		variantID,
	).Scan(&available, &checked, &changed)

	if err == sql.ErrNoRows {
		return domain.StockRecord{}, false, nil
	}
	if err != nil {
		return domain.StockRecord{}, false, err
	}

	return domain.StockRecord{
		VariantID:   variantID,
		Available:   domain.AvailabilityOf(available),
		LastChecked: checked.UTC(),
		LastChanged: changed.UTC(),
	}, true, nil
}

func (s *MySQLStore) UpsertStockRecord(ctx context.Context, variantID string, available bool, observedAt time.Time) error {
	// last_changed must be assigned before available so the comparison sees
	// the prior stored value.
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO stock_state (variant_id, available, last_checked, last_changed)
		 VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   last_changed = IF(available <> VALUES(available), VALUES(last_changed), last_changed),
		   available = VALUES(available),
		   last_checked = VALUES(last_checked)`,
		variantID, available, observedAt.UTC(), observedAt.UTC(),
	)
	return err
}

func (s *MySQLStore) ListStockRecords(ctx context.Context) ([]domain.StockRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT variant_id, available, last_checked, last_changed FROM stock_state ORDER BY variant_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.StockRecord, 0, 16)
	for rows.Next() {
		var id string
		var available bool
		var checked, changed time.Time
		if err := rows.Scan(&id, &available, &checked, &changed); err != nil {
			return nil, err
		}
		out = append(out, domain.StockRecord{
			VariantID:   id,
			Available:   domain.AvailabilityOf(available),
			LastChecked: checked.UTC(),
			LastChanged: changed.UTC(),
		})
	}
	return out, rows.Err()
}

func (s *MySQLStore) GetIdempotency(ctx context.Context, userID, endpoint string, idemKeyHash string) (IdempotencyRecord, bool, error) {
	var status int
	var body []byte
	var created time.Time
	var expires time.Time

	err := s.db.QueryRowContext(
		ctx,
		`SELECT status_code, response_body_json, created_at, expires_at
		 FROM idempotency
		 WHERE user_id = ? AND endpoint = ? AND idem_key_hash = ?`,
		userID, endpoint, idemKeyHash,
	).Scan(&status, &body, &created, &expires)

	if err == sql.ErrNoRows {
		return IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return IdempotencyRecord{}, false, err
	}

	if time.Now().UTC().After(expires.UTC()) {
		return IdempotencyRecord{}, false, nil
	}

	return IdempotencyRecord{
		StatusCode: status,
		BodyJSON:   body,
		CreatedAt:  created.UTC(),
		ExpiresAt:  expires.UTC(),
	}, true, nil
}

func (s *MySQLStore) PutIdempotency(ctx context.Context, userID, endpoint string, idemKeyHash string, rec IdempotencyRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO idempotency (user_id, endpoint, idem_key_hash, status_code, response_body_json, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   status_code = VALUES(status_code),
		   response_body_json = VALUES(response_body_json),
		   created_at = VALUES(created_at),
		   expires_at = VALUES(expires_at)`,
		userID, endpoint, idemKeyHash, rec.StatusCode, rec.BodyJSON, rec.CreatedAt.UTC(), rec.ExpiresAt.UTC(),
	)
	return err
}
