package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

// PasswordResetRepo provides data access to the password_resets table. All
// timestamps are stored in UTC.
type PasswordResetRepo struct{ DB *sql.DB }

func NewPasswordResetRepo(db *sql.DB) *PasswordResetRepo { return &PasswordResetRepo{DB: db} }

// Replace removes any previous records for rec.UserID and inserts rec in a
// single transaction, so at most one live code exists per user.
func (r *PasswordResetRepo) Replace(ctx context.Context, rec model.PasswordReset) (id uint64, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM password_resets WHERE user_id=?", rec.UserID); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO password_resets (user_id, otp, expires_at) VALUES (?,?,?)",
		rec.UserID, rec.OTP, rec.ExpiresAt.UTC())
	if err != nil {
		return 0, err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(lastID), nil
}

// FindByOTPAndUser returns the record matching both otp and userID.
func (r *PasswordResetRepo) FindByOTPAndUser(ctx context.Context, otp string, userID uint64) (model.PasswordReset, error) {
	var p model.PasswordReset
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, otp, expires_at, created_at FROM password_resets WHERE otp=? AND user_id=? LIMIT 1",
		otp, userID).Scan(&p.ID, &p.UserID, &p.OTP, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return model.PasswordReset{}, notFound(err)
	}
	return p, nil
}

// Consume deletes the record and stores the new password hash atomically.
// ErrNotFound means the record was already used or swept.
func (r *PasswordResetRepo) Consume(ctx context.Context, recordID, userID uint64, hash string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM password_resets WHERE id=? AND user_id=?", recordID, userID)
	if err != nil {
		return err
	}
	if err = checkAffected(res); err != nil {
		return err
	}
	res, err = tx.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, userID)
	if err != nil {
		return err
	}
	if err = checkAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteExpiredBefore removes every record whose expires_at is strictly
// before cutoff and returns how many were deleted.
func (r *PasswordResetRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM password_resets WHERE expires_at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
