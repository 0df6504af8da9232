package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

func (s *MySQLStore) RegisterUser(ctx context.Context, userID, name string, defaultVariantIDs []string, now time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`INSERT IGNORE INTO users (user_id, name, created_at, last_active)
		 VALUES (?, ?, ?, ?)`,
		userID, name, now.UTC(), now.UTC(),
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		// Already registered; leave the existing subscription alone.
		return false, nil
	}

	for _, variantID := range defaultVariantIDs {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT IGNORE INTO user_variants (user_id, variant_id) VALUES (?, ?)`,
			userID, variantID,
		); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MySQLStore) GetSubscription(ctx context.Context, userID string) (domain.Subscription, bool, error) {
	var sub domain.Subscription
	var created, active time.Time

	err := s.db.QueryRowContext(
		ctx,
		`SELECT user_id, name, created_at, last_active FROM users WHERE user_id = ?`,
		userID,
	).Scan(&sub.UserID, &sub.Name, &created, &active)

	if err == sql.ErrNoRows {
		return domain.Subscription{}, false, nil
	}
	if err != nil {
		return domain.Subscription{}, false, err
	}

	sub.CreatedAt = created.UTC()
	sub.LastActive = active.UTC()

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT variant_id FROM user_variants WHERE user_id = ? ORDER BY variant_id`,
		userID,
	)
	if err != nil {
		return domain.Subscription{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return domain.Subscription{}, false, err
		}
		sub.VariantIDs = append(sub.VariantIDs, id)
	}
	if err := rows.Err(); err != nil {
		return domain.Subscription{}, false, err
	}

	return sub, true, nil
}

func (s *MySQLStore) SetSubscription(ctx context.Context, userID string, variantIDs []string, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE users SET last_active = ? WHERE user_id = ?`,
		now.UTC(), userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// UPDATE reports 0 rows both for missing users and no-op timestamp
		// writes; distinguish with an existence probe.
		var one int
		probeErr := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE user_id = ?`, userID).Scan(&one)
		if probeErr == sql.ErrNoRows {
			return ErrUserNotRegistered
		}
		if probeErr != nil {
			return probeErr
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_variants WHERE user_id = ?`, userID); err != nil {
		return err
	}

	for _, variantID := range variantIDs {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO user_variants (user_id, variant_id) VALUES (?, ?)`,
			userID, variantID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *MySQLStore) Subscribers(ctx context.Context, variantID string) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT user_id FROM user_variants WHERE variant_id = ? ORDER BY user_id`,
		variantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *MySQLStore) AllRegistered(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *MySQLStore) GetDevMode(ctx context.Context) (domain.DevMode, bool, error) {
	var enabled bool
	var userID string

	err := s.db.QueryRowContext(
		ctx,
		`SELECT enabled, user_id FROM dev_mode WHERE id = 1`,
	).Scan(&enabled, &userID)

	if err == sql.ErrNoRows {
		return domain.DevMode{}, false, nil
	}
	if err != nil {
		return domain.DevMode{}, false, err
	}

	return domain.DevMode{Enabled: enabled, UserID: userID}, true, nil
}

func (s *MySQLStore) SetDevMode(ctx context.Context, mode domain.DevMode) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO dev_mode (id, enabled, user_id) VALUES (1, ?, ?)
		 ON DUPLICATE KEY UPDATE enabled = VALUES(enabled), user_id = VALUES(user_id)`,
		mode.Enabled, mode.UserID,
	)
	return err
}

func (s *MySQLStore) GetNoticeState(ctx context.Context, userID string) (domain.NoticeState, error) {
	var st string

	err := s.db.QueryRowContext(
		ctx,
		`SELECT state FROM notice_state WHERE user_id = ?`,
		userID,
	).Scan(&st)

	if err == sql.ErrNoRows {
		return domain.NoticeStateActive, nil
	}
	if err != nil {
		return domain.NoticeStateActive, err
	}
	return domain.NoticeState(st), nil
}

func (s *MySQLStore) SetNoticeState(ctx context.Context, userID string, st domain.NoticeState) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO notice_state (user_id, state) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE state = VALUES(state)`,
		userID, string(st),
	)
	return err
}
