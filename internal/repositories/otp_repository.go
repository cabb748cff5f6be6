package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

type otpRepository struct {
	db *sql.DB
}

// NewOtpRepository creates a new OTP verification repository
func NewOtpRepository(db *sql.DB) *otpRepository {
	return &otpRepository{
		db: db,
	}
}

// Create inserts a new OTP row after removing any previous code for the user.
// A newer code always supersedes older ones.
func (r *otpRepository) Create(ctx context.Context, otp *models.OtpVerification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM otp_verifications WHERE user_id = ?`, otp.UserID); err != nil {
		return fmt.Errorf("failed to supersede previous otp: %w", err)
	}

	query := `
		INSERT INTO otp_verifications (user_id, otp_hash, purpose, expires_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, otp.UserID, otp.OtpHash, otp.Purpose, otp.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	otp.ID = int(id)

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByUserID retrieves the active OTP for a user
func (r *otpRepository) GetByUserID(ctx context.Context, userID int) (*models.OtpVerification, error) {
	query := `
		SELECT id, user_id, otp_hash, purpose, expires_at, created_at
		FROM otp_verifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var o models.OtpVerification
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&o.ID, &o.UserID, &o.OtpHash, &o.Purpose, &o.ExpiresAt, &o.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("otp not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}

	return &o, nil
}

// DeleteByID removes an OTP row, called after successful verification
func (r *otpRepository) DeleteByID(ctx context.Context, id int) error {
	query := `DELETE FROM otp_verifications WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}

	return nil
}

// DeleteExpired removes all expired OTP rows
func (r *otpRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM otp_verifications WHERE expires_at < NOW()`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
