package sales

// Sale is one row of the sales board.
type Sale struct {
	ID            int64   `json:"id"`
	Rank          int     `json:"rank"`
	DateOfJoining string  `json:"date_of_joining"`
	QualityScore  float64 `json:"quality_score"`
	Agent         string  `json:"agent"`
	TeamLeader    string  `json:"team_leader"`
	Sales         float64 `json:"sales"`
	Achievement   float64 `json:"achievement"`
	Commitment    string  `json:"commitment"`
}

// AgentRow is one row of the sales_agents leaderboard.
type AgentRow struct {
	ID            int64   `json:"id"`
	Rank          int     `json:"rank"`
	DateOfJoining string  `json:"date_of_joining"`
	QualityScore  float64 `json:"quality_score"`
	Agent         string  `json:"agent"`
	TeamLeader    string  `json:"team_leader"`
	Sales         float64 `json:"sales"`
	Achievement   float64 `json:"achievement"`
	Commitment    string  `json:"commitment"`
}

// PaidCustomer is a recorded paying-customer transaction.
type PaidCustomer struct {
	ID            int64   `json:"id"`
	SaleDate      string  `json:"sale_date"`
	CustomerID    string  `json:"customer_id"`
	FullName      string  `json:"full_name"`
	Package       string  `json:"package"`
	ExpiryDate    string  `json:"expiry_date"`
	PaymentMode   string  `json:"payment_mode"`
	TotalReceived float64 `json:"total_received"`
	CompanyAmount float64 `json:"company_amount"`
	Tax           float64 `json:"tax"`
	Agent         string  `json:"agent"`
	Percentage    float64 `json:"percentage"`
	SharedAmount  float64 `json:"shared_amount"`
	Remark        string  `json:"remark"`
}
