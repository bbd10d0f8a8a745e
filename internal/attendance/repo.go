package attendance

import (
	"context"
	"database/sql"
	"errors"
)

// Repository is the Postgres-backed Store.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `
	user_id, to_char(date, 'YYYY-MM-DD'), login_time::text, logout_time::text,
	status, total_working_time, break_type,
	break_time_start::text, break_time_end::text,
	lunch_break_start::text, lunch_break_end::text,
	lunch_adjusted, leave_applied
`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.UserID, &rec.Date, &rec.LoginTime, &rec.LogoutTime,
		&rec.Status, &rec.TotalWorkingTime, &rec.BreakType,
		&rec.BreakTimeStart, &rec.BreakTimeEnd,
		&rec.LunchBreakStart, &rec.LunchBreakEnd,
		&rec.LunchAdjusted, &rec.LeaveApplied,
	)
	return rec, err
}

// Create inserts the day's row. The unique constraint on (user_id, date) is
// the backstop against concurrent logins; a duplicate maps to
// ErrAlreadyRecorded.
func (r *Repository) Create(ctx context.Context, rec Record) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance
			(user_id, date, login_time, logout_time, status, total_working_time, break_type)
		VALUES ($1, $2::date, $3::time, $4::time, $5, $6, $7)
		ON CONFLICT (user_id, date) DO NOTHING
	`, rec.UserID, rec.Date, rec.LoginTime, rec.LogoutTime, rec.Status, rec.TotalWorkingTime, rec.BreakType)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyRecorded
	}
	return nil
}

// Mutate loads the row for (user, date) under FOR UPDATE, applies fn, and
// writes back the mutable columns in the same transaction. fn errors roll
// the transaction back untouched.
func (r *Repository) Mutate(ctx context.Context, userID int64, date string, fn func(*Record) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance
		WHERE user_id = $1 AND date = $2::date
		FOR UPDATE
	`, userID, date)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoRecordForToday
		}
		return err
	}

	if err := fn(&rec); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE attendance SET
			logout_time = $3::time,
			total_working_time = $4,
			break_type = $5,
			break_time_start = $6::time,
			break_time_end = $7::time,
			lunch_break_start = $8::time,
			lunch_break_end = $9::time,
			lunch_adjusted = $10
		WHERE user_id = $1 AND date = $2::date
	`, userID, date,
		rec.LogoutTime, rec.TotalWorkingTime, rec.BreakType,
		rec.BreakTimeStart, rec.BreakTimeEnd,
		rec.LunchBreakStart, rec.LunchBreakEnd,
		rec.LunchAdjusted)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ApplyLeave flags the day as leave. Zero matched rows is not an error.
func (r *Repository) ApplyLeave(ctx context.Context, userID int64, date string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE attendance SET leave_applied = 'Y'
		WHERE user_id = $1 AND date = $2::date
	`, userID, date)
	return err
}

// ListByUser returns the user's records, newest date first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance
		WHERE user_id = $1
		ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Overview returns attendance joined with users for the admin dashboard,
// newest date first.
func (r *Repository) Overview(ctx context.Context) ([]OverviewRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			a.user_id, u.name, u.role,
			to_char(a.date, 'YYYY-MM-DD'),
			a.login_time::text, a.logout_time::text,
			a.total_working_time, a.status, a.leave_applied
		FROM attendance a
		JOIN users u ON a.user_id = u.id
		ORDER BY a.date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []OverviewRow
	for rows.Next() {
		var o OverviewRow
		if err := rows.Scan(
			&o.UserID, &o.Name, &o.Role, &o.Date,
			&o.LoginTime, &o.LogoutTime,
			&o.TotalWorkingTime, &o.Status, &o.LeaveApplied,
		); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}
