package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacaplanner/vacaplanner/internal/apperrors"
	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/core/ledger"
	portsrepo "github.com/vacaplanner/vacaplanner/internal/core/ports/repositories"
	"github.com/vacaplanner/vacaplanner/internal/models"
)

type PgxLeaveRequestRepository struct {
	BaseRepository
}

func newPgxLeaveRequestRepository(db *pgxpool.Pool) portsrepo.LeaveRequestRepository {
	return &PgxLeaveRequestRepository{BaseRepository{Pool: db}}
}

// Ensure PgxLeaveRequestRepository implements portsrepo.LeaveRequestRepository
var _ portsrepo.LeaveRequestRepository = (*PgxLeaveRequestRepository)(nil)

func toModelLeaveRequest(d domain.LeaveRequest) models.LeaveRequest {
	m := models.LeaveRequest{
		RequestID:     d.RequestID,
		UserID:        d.UserID,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		StartTime:     nullString(d.StartTime),
		EndTime:       nullString(d.EndTime),
		Type:          string(d.Type),
		Status:        string(d.Status),
		Reason:        nullString(d.Reason),
		HandoverNotes: nullString(d.HandoverNotes),
		ReviewedBy:    nullString(d.ReviewedBy),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.ReviewedAt != nil {
		m.ReviewedAt.Time = *d.ReviewedAt
		m.ReviewedAt.Valid = true
	}
	return m
}

func toDomainLeaveRequest(m models.LeaveRequest) domain.LeaveRequest {
	return domain.LeaveRequest{
		RequestID:     m.RequestID,
		UserID:        m.UserID,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		StartTime:     stringPtr(m.StartTime),
		EndTime:       stringPtr(m.EndTime),
		Type:          domain.LeaveType(m.Type),
		Status:        domain.LeaveStatus(m.Status),
		Reason:        stringPtr(m.Reason),
		HandoverNotes: stringPtr(m.HandoverNotes),
		ReviewedBy:    stringPtr(m.ReviewedBy),
		ReviewedAt:    timePtr(m.ReviewedAt),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const leaveColumns = `lr.request_id, lr.user_id, lr.start_date, lr.end_date, lr.start_time, lr.end_time,
		lr.type, lr.status, lr.reason, lr.handover_notes, lr.reviewed_by, lr.reviewed_at,
		lr.created_at, lr.created_by, lr.last_updated_at, lr.last_updated_by`

func scanLeaveRequest(row pgx.Row) (*models.LeaveRequest, error) {
	var m models.LeaveRequest
	err := row.Scan(
		&m.RequestID, &m.UserID, &m.StartDate, &m.EndDate, &m.StartTime, &m.EndTime,
		&m.Type, &m.Status, &m.Reason, &m.HandoverNotes, &m.ReviewedBy, &m.ReviewedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// counterColumn maps a ledger unit to the users column it mutates. The column
// name never comes from caller input.
func counterColumn(unit ledger.Unit) (string, error) {
	switch unit {
	case ledger.UnitDays:
		return "vacation_days_used", nil
	case ledger.UnitHours:
		return "personal_hours_used", nil
	}
	return "", fmt.Errorf("unknown ledger unit %q", unit)
}

func (r *PgxLeaveRequestRepository) SaveLeaveRequest(ctx context.Context, req domain.LeaveRequest) error {
	m := toModelLeaveRequest(req)
	query := `
        INSERT INTO leave_requests (request_id, user_id, start_date, end_date, start_time, end_time,
            type, status, reason, handover_notes,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID, m.UserID, m.StartDate, m.EndDate, m.StartTime, m.EndTime,
		m.Type, m.Status, m.Reason, m.HandoverNotes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

func (r *PgxLeaveRequestRepository) FindLeaveRequestByID(ctx context.Context, requestID string) (*domain.LeaveRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_requests lr WHERE lr.request_id = $1;`, leaveColumns)
	m, err := scanLeaveRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leave request %s: %w", requestID, err)
	}
	d := toDomainLeaveRequest(*m)
	return &d, nil
}

const leaveDetailColumns = leaveColumns + `,
		u.name, u.first_name, u.last_name, u.avatar_url, u.vacation_days_total,
		rev.user_id, rev.name, rev.first_name, rev.last_name, rev.avatar_url, rev.vacation_days_total`

const leaveDetailJoins = `
        FROM leave_requests lr
        JOIN users u ON u.user_id = lr.user_id
        LEFT JOIN users rev ON rev.user_id = lr.reviewed_by`

func scanLeaveRequestDetail(row pgx.Row) (*domain.LeaveRequestDetail, error) {
	var m models.LeaveRequest
	var owner models.User
	var revID, revName, revFirst, revLast, revAvatar sql.NullString
	var revTotal sql.NullInt64

	err := row.Scan(
		&m.RequestID, &m.UserID, &m.StartDate, &m.EndDate, &m.StartTime, &m.EndTime,
		&m.Type, &m.Status, &m.Reason, &m.HandoverNotes, &m.ReviewedBy, &m.ReviewedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&owner.Name, &owner.FirstName, &owner.LastName, &owner.AvatarURL, &owner.VacationDaysTotal,
		&revID, &revName, &revFirst, &revLast, &revAvatar, &revTotal,
	)
	if err != nil {
		return nil, err
	}

	detail := domain.LeaveRequestDetail{
		LeaveRequest: toDomainLeaveRequest(m),
		User: domain.UserSummary{
			UserID:            m.UserID,
			Name:              owner.Name,
			FirstName:         stringPtr(owner.FirstName),
			LastName:          stringPtr(owner.LastName),
			AvatarURL:         stringPtr(owner.AvatarURL),
			VacationDaysTotal: owner.VacationDaysTotal,
		},
	}
	if revID.Valid {
		detail.Reviewer = &domain.UserSummary{
			UserID:            revID.String,
			Name:              revName.String,
			FirstName:         stringPtr(revFirst),
			LastName:          stringPtr(revLast),
			AvatarURL:         stringPtr(revAvatar),
			VacationDaysTotal: int(revTotal.Int64),
		}
	}
	return &detail, nil
}

func (r *PgxLeaveRequestRepository) FindLeaveRequestDetailByID(ctx context.Context, requestID string) (*domain.LeaveRequestDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE lr.request_id = $1;`, leaveDetailColumns, leaveDetailJoins)
	detail, err := scanLeaveRequestDetail(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leave request detail %s: %w", requestID, err)
	}
	return detail, nil
}

func (r *PgxLeaveRequestRepository) ListLeaveRequests(ctx context.Context, filter portsrepo.ListLeaveRequestsFilter) ([]domain.LeaveRequestDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s`, leaveDetailColumns, leaveDetailJoins)
	args := []any{}
	where := ""
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = fmt.Sprintf(" WHERE lr.user_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		if where == "" {
			where = fmt.Sprintf(" WHERE lr.status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND lr.status = $%d", len(args))
		}
	}
	query += where + " ORDER BY lr.created_at DESC;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	details := []domain.LeaveRequestDetail{}
	for rows.Next() {
		detail, err := scanLeaveRequestDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request row: %w", err)
		}
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave request rows: %w", err)
	}
	return details, nil
}

// ApplyReview flips the request out of PENDING and applies the balance delta
// to the owner inside one transaction. The status predicate doubles as the
// idempotence guard: a concurrent reviewer sees zero rows affected and the
// delta is never applied twice.
func (r *PgxLeaveRequestRepository) ApplyReview(ctx context.Context, requestID string, status domain.LeaveStatus, reviewerUserID string, reviewedAt time.Time, ownerUserID string, delta *ledger.Quantity) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	tag, err := tx.Exec(ctx, `
        UPDATE leave_requests
        SET status = $2, reviewed_by = $3, reviewed_at = $4, last_updated_at = $4, last_updated_by = $3
        WHERE request_id = $1 AND status = 'PENDING';
    `, requestID, string(status), reviewerUserID, reviewedAt)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM leave_requests WHERE request_id = $1;`, requestID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to inspect leave request status: %w", err)
		}
		return apperrors.ErrAlreadyReviewed
	}

	if delta != nil {
		column, err := counterColumn(delta.Unit)
		if err != nil {
			return err
		}
		query := fmt.Sprintf(`
            UPDATE users SET %s = %s + $2, last_updated_at = $3, last_updated_by = $4
            WHERE user_id = $1;
        `, column, column)
		tag, err := tx.Exec(ctx, query, ownerUserID, delta.Amount, reviewedAt, reviewerUserID)
		if err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteAndReverse removes the request and restores the owner's counter,
// floored at zero, inside one transaction. The status predicate keeps the
// reversal consistent with the charge: a request approved after the caller
// read it no longer matches and the caller must recompute the delta.
func (r *PgxLeaveRequestRepository) DeleteAndReverse(ctx context.Context, requestID string, ownerUserID string, observedStatus domain.LeaveStatus, delta *ledger.Quantity) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	tag, err := tx.Exec(ctx, `
        DELETE FROM leave_requests WHERE request_id = $1 AND status = $2;
    `, requestID, string(observedStatus))
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE request_id = $1);`, requestID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to inspect leave request: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrStaleStatus
	}

	if delta != nil {
		column, err := counterColumn(delta.Unit)
		if err != nil {
			return err
		}
		query := fmt.Sprintf(`
            UPDATE users SET %s = GREATEST(0, %s - $2), last_updated_at = NOW(), last_updated_by = $1
            WHERE user_id = $1;
        `, column, column)
		if _, err := tx.Exec(ctx, query, ownerUserID, delta.Amount); err != nil {
			return fmt.Errorf("failed to reverse balance delta: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}
