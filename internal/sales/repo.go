package sales

import (
	"context"
	"database/sql"
)

// Repository is plain single-table CRUD over the sales, sales_agents and
// paid_customer tables.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertSale writes a sales row and returns it with the assigned id.
func (r *Repository) InsertSale(ctx context.Context, s Sale) (Sale, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sales
			(rank, date_of_joining, quality_score, agent, team_leader, sales, achievement, commitment)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, s.Rank, s.DateOfJoining, s.QualityScore, s.Agent, s.TeamLeader, s.Sales, s.Achievement, s.Commitment)
	if err := row.Scan(&s.ID); err != nil {
		return Sale{}, err
	}
	return s, nil
}

// ListSales returns all sales rows.
func (r *Repository) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, rank, to_char(date_of_joining, 'YYYY-MM-DD'), quality_score,
		       agent, team_leader, sales, achievement, commitment
		FROM sales ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.Rank, &s.DateOfJoining, &s.QualityScore,
			&s.Agent, &s.TeamLeader, &s.Sales, &s.Achievement, &s.Commitment); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// InsertAgentRow writes a sales_agents row.
func (r *Repository) InsertAgentRow(ctx context.Context, a AgentRow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sales_agents
			(rank, date_of_joining, quality_score, agent, team_leader, sales, achievement, commitment)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
	`, a.Rank, a.DateOfJoining, a.QualityScore, a.Agent, a.TeamLeader, a.Sales, a.Achievement, a.Commitment)
	return err
}

// ListAgentRows returns the sales_agents leaderboard ordered by rank.
func (r *Repository) ListAgentRows(ctx context.Context) ([]AgentRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, rank, to_char(date_of_joining, 'YYYY-MM-DD'), quality_score,
		       agent, team_leader, sales, achievement, commitment
		FROM sales_agents ORDER BY rank
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []AgentRow
	for rows.Next() {
		var a AgentRow
		if err := rows.Scan(&a.ID, &a.Rank, &a.DateOfJoining, &a.QualityScore,
			&a.Agent, &a.TeamLeader, &a.Sales, &a.Achievement, &a.Commitment); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

const paidCustomerColumns = `
	id, to_char(sale_date, 'YYYY-MM-DD'), customer_id, full_name, package,
	to_char(expiry_date, 'YYYY-MM-DD'), payment_mode, total_received,
	company_amount, tax, agent, percentage, shared_amount, remark
`

// ListPaidCustomers returns all paid customers, newest sale first.
func (r *Repository) ListPaidCustomers(ctx context.Context) ([]PaidCustomer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paidCustomerColumns+` FROM paid_customer ORDER BY sale_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []PaidCustomer
	for rows.Next() {
		var p PaidCustomer
		if err := rows.Scan(&p.ID, &p.SaleDate, &p.CustomerID, &p.FullName, &p.Package,
			&p.ExpiryDate, &p.PaymentMode, &p.TotalReceived,
			&p.CompanyAmount, &p.Tax, &p.Agent, &p.Percentage, &p.SharedAmount, &p.Remark); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// InsertPaidCustomer writes a paid-customer row.
func (r *Repository) InsertPaidCustomer(ctx context.Context, p PaidCustomer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO paid_customer
			(sale_date, customer_id, full_name, package, expiry_date, payment_mode,
			 total_received, company_amount, tax, agent, percentage, shared_amount, remark)
		VALUES ($1::date, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.SaleDate, p.CustomerID, p.FullName, p.Package, p.ExpiryDate, p.PaymentMode,
		p.TotalReceived, p.CompanyAmount, p.Tax, p.Agent, p.Percentage, p.SharedAmount, p.Remark)
	return err
}

// UpdatePaidCustomer overwrites a paid-customer row by id.
func (r *Repository) UpdatePaidCustomer(ctx context.Context, id int64, p PaidCustomer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE paid_customer SET
			sale_date = $1::date, customer_id = $2, full_name = $3, package = $4,
			expiry_date = $5::date, payment_mode = $6, total_received = $7,
			company_amount = $8, tax = $9, agent = $10, percentage = $11,
			shared_amount = $12, remark = $13
		WHERE id = $14
	`, p.SaleDate, p.CustomerID, p.FullName, p.Package, p.ExpiryDate, p.PaymentMode,
		p.TotalReceived, p.CompanyAmount, p.Tax, p.Agent, p.Percentage, p.SharedAmount, p.Remark, id)
	return err
}
