package leads

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
)

// Repository persists leads and notifications in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const leadColumns = `
	id, name, email, phone_number, address, userid,
	status, remark, created_at, updated_at
`

func scanLead(row interface{ Scan(...any) error }) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.PhoneNumber, &l.Address, &l.AssignedTo,
		&l.Status, &l.Remark, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Insert writes one imported lead with the unassigned sentinel owner.
func (r *Repository) Insert(ctx context.Context, l Lead) error {
	owner := l.AssignedTo
	if owner == "" {
		owner = Unassigned
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (name, email, phone_number, address, userid)
		VALUES ($1, $2, $3, $4, $5)
	`, l.Name, l.Email, l.PhoneNumber, l.Address, owner)
	return err
}

// List returns all leads.
func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+leadColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListByAgent returns the leads assigned to an agent.
func (r *Repository) ListByAgent(ctx context.Context, agentID int64) ([]Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+leadColumns+` FROM customers WHERE userid = $1 ORDER BY id
	`, strconv.FormatInt(agentID, 10))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Exists reports whether a lead id is present.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE id = $1`, id)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AssignAgent bulk-sets the owner over a set of lead ids and returns how
// many rows changed.
func (r *Repository) AssignAgent(ctx context.Context, leadIDs []int64, agentID int64) (int64, error) {
	ids := make([]int32, 0, len(leadIDs))
	for _, id := range leadIDs {
		ids = append(ids, int32(id))
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET userid = $1, updated_at = NOW()
		WHERE id = ANY($2::int[])
	`, strconv.FormatInt(agentID, 10), ids)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateFollowUp sets remark and status on a lead and returns the updated
// subset of columns. A missing id returns ErrNotFound.
func (r *Repository) UpdateFollowUp(ctx context.Context, id int64, remark, status string) (*Lead, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE customers SET remark = $1, status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, remark, status
	`, remark, status, id)
	var l Lead
	if err := row.Scan(&l.ID, &l.Remark, &l.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// UpdateStatusForAgent updates status and remark only when the lead is owned
// by the agent; otherwise ErrNotFound.
func (r *Repository) UpdateStatusForAgent(ctx context.Context, id, agentID int64, status, remark string) (*Lead, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE customers SET status = $1, remark = $2, updated_at = NOW()
		WHERE id = $3 AND userid = $4
		RETURNING `+leadColumns+`
	`, status, remark, id, strconv.FormatInt(agentID, 10))
	l, err := scanLead(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// InsertNotification writes a worker-produced notification row.
func (r *Repository) InsertNotification(ctx context.Context, n Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, agent_id, lead_count, message)
		VALUES ($1, $2, $3, $4)
	`, n.ID, n.AgentID, n.LeadCount, n.Message)
	return err
}

// ListNotifications returns an agent's notifications, newest first.
func (r *Repository) ListNotifications(ctx context.Context, agentID int64) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, agent_id, lead_count, message, read, created_at
		FROM notifications
		WHERE agent_id = $1
		ORDER BY created_at DESC
	`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.AgentID, &n.LeadCount, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func collect(rows *sql.Rows) ([]Lead, error) {
	var res []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}
