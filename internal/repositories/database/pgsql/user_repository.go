package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacaplanner/vacaplanner/internal/apperrors"
	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	portsrepo "github.com/vacaplanner/vacaplanner/internal/core/ports/repositories"
	"github.com/vacaplanner/vacaplanner/internal/models"
)

const uniqueViolationCode = "23505"

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID:             d.UserID,
		Email:              d.Email,
		PasswordHash:       d.PasswordHash,
		Name:               d.Name,
		Role:               string(d.Role),
		FirstName:          nullString(d.FirstName),
		LastName:           nullString(d.LastName),
		DateOfBirth:        nullString(d.DateOfBirth),
		JobTitle:           nullString(d.JobTitle),
		Department:         nullString(d.Department),
		Bio:                nullString(d.Bio),
		PhoneNumber:        nullString(d.PhoneNumber),
		AvatarURL:          nullString(d.AvatarURL),
		VacationDaysTotal:  d.VacationDaysTotal,
		VacationDaysUsed:   d.VacationDaysUsed,
		PersonalHoursTotal: d.PersonalHoursTotal,
		PersonalHoursUsed:  d.PersonalHoursUsed,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
		RefreshTokenHash: nullString(d.RefreshTokenHash),
	}
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:             m.UserID,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		Name:               m.Name,
		Role:               domain.UserRole(m.Role),
		FirstName:          stringPtr(m.FirstName),
		LastName:           stringPtr(m.LastName),
		DateOfBirth:        stringPtr(m.DateOfBirth),
		JobTitle:           stringPtr(m.JobTitle),
		Department:         stringPtr(m.Department),
		Bio:                stringPtr(m.Bio),
		PhoneNumber:        stringPtr(m.PhoneNumber),
		AvatarURL:          stringPtr(m.AvatarURL),
		VacationDaysTotal:  m.VacationDaysTotal,
		VacationDaysUsed:   m.VacationDaysUsed,
		PersonalHoursTotal: m.PersonalHoursTotal,
		PersonalHoursUsed:  m.PersonalHoursUsed,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		RefreshTokenHash:       stringPtr(m.RefreshTokenHash),
		RefreshTokenExpiryTime: timePtr(m.RefreshTokenExpiryTime),
	}
}

const userColumns = `user_id, email, password_hash, name, role,
		first_name, last_name, date_of_birth, job_title, department, bio, phone_number, avatar_url,
		vacation_days_total, vacation_days_used, personal_hours_total, personal_hours_used,
		created_at, created_by, last_updated_at, last_updated_by,
		refresh_token_hash, refresh_token_expiry_time`

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID, &m.Email, &m.PasswordHash, &m.Name, &m.Role,
		&m.FirstName, &m.LastName, &m.DateOfBirth, &m.JobTitle, &m.Department, &m.Bio, &m.PhoneNumber, &m.AvatarURL,
		&m.VacationDaysTotal, &m.VacationDaysUsed, &m.PersonalHoursTotal, &m.PersonalHoursUsed,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        INSERT INTO users (user_id, email, password_hash, name, role,
            first_name, last_name, date_of_birth, job_title, department, bio, phone_number, avatar_url,
            vacation_days_total, vacation_days_used, personal_hours_total, personal_hours_used,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
    `
	_, err := r.db.Exec(ctx, query,
		m.UserID, m.Email, m.PasswordHash, m.Name, m.Role,
		m.FirstName, m.LastName, m.DateOfBirth, m.JobTitle, m.Department, m.Bio, m.PhoneNumber, m.AvatarURL,
		m.VacationDaysTotal, m.VacationDaysUsed, m.PersonalHoursTotal, m.PersonalHoursUsed,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1;`, userColumns)
	m, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	u := toDomainUser(*m)
	return &u, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1;`, userColumns)
	m, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	u := toDomainUser(*m)
	return &u, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at ASC LIMIT $1 OFFSET $2;`, userColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, toDomainUser(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        UPDATE users SET
            name = $2, first_name = $3, last_name = $4, date_of_birth = $5,
            job_title = $6, department = $7, bio = $8, phone_number = $9, avatar_url = $10,
            vacation_days_total = $11, personal_hours_total = $12,
            last_updated_at = $13, last_updated_by = $14
        WHERE user_id = $1;
    `
	tag, err := r.db.Exec(ctx, query,
		m.UserID, m.Name, m.FirstName, m.LastName, m.DateOfBirth,
		m.JobTitle, m.Department, m.Bio, m.PhoneNumber, m.AvatarURL,
		m.VacationDaysTotal, m.PersonalHoursTotal,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateUserRole(ctx context.Context, userID string, role domain.UserRole, updaterUserID string, updatedAt time.Time) error {
	query := `
        UPDATE users SET role = $2, last_updated_at = $3, last_updated_by = $4
        WHERE user_id = $1;
    `
	tag, err := r.db.Exec(ctx, query, userID, string(role), updatedAt, updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to update role for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `
        UPDATE users SET refresh_token_hash = $2, refresh_token_expiry_time = $3, last_updated_at = NOW()
        WHERE user_id = $1;
    `
	tag, err := r.db.Exec(ctx, query, userID, refreshTokenHash, refreshTokenExpiryTime)
	if err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
        UPDATE users SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL, last_updated_at = NOW()
        WHERE user_id = $1;
    `
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
