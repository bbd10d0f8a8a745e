package attendance

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Break categories stored in the break_type column. Available means no break
// is in progress.
type BreakKind string

const (
	BreakAvailable = "Available"
	BreakGeneric   BreakKind = "break"
	BreakLunch     BreakKind = "lunch"
)

// lunchAllowanceMinutes is the paid lunch allowance; minutes beyond it are
// deducted from the day's working time.
const lunchAllowanceMinutes = 60.0

// BreakAction reports which side of the bracket a toggle hit.
type BreakAction string

const (
	BreakStarted BreakAction = "started"
	BreakEnded   BreakAction = "ended"
)

var (
	// ErrAlreadyRecorded means a second login for the same (user, date).
	ErrAlreadyRecorded = errors.New("attendance for today already recorded")
	// ErrNoRecordForToday means break/logout/leave before login.
	ErrNoRecordForToday = errors.New("no attendance record found for today")
	// ErrInvalidLoginTime means the stored login time is unparseable.
	ErrInvalidLoginTime = errors.New("invalid login time")
	// ErrInvalidLogoutOrder means logout is not after login.
	ErrInvalidLogoutOrder = errors.New("logout time must be after login time")
	// ErrInvalidLunchTime means a stored lunch bracket time is unparseable.
	ErrInvalidLunchTime = errors.New("invalid date for lunch break")
)

// Record is the single per-user-per-day attendance row. Times are wall-clock
// "HH:MM:SS" strings in the server's local zone; Date is "YYYY-MM-DD".
type Record struct {
	UserID           int64   `json:"user_id"`
	Date             string  `json:"date"`
	LoginTime        string  `json:"login_time"`
	LogoutTime       string  `json:"logout_time"`
	Status           string  `json:"status"`
	TotalWorkingTime float64 `json:"total_working_time"`
	BreakType        string  `json:"break_type"`
	BreakTimeStart   *string `json:"break_time_start"`
	BreakTimeEnd     *string `json:"break_time_end"`
	LunchBreakStart  *string `json:"lunch_break_start"`
	LunchBreakEnd    *string `json:"lunch_break_end"`
	LunchAdjusted    bool    `json:"-"`
	LeaveApplied     *string `json:"leave_applied"`
}

// OverviewRow is an attendance row joined with its user for the admin view.
type OverviewRow struct {
	UserID           int64   `json:"id"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	Date             string  `json:"date"`
	LoginTime        string  `json:"login_time"`
	LogoutTime       string  `json:"logout_time"`
	TotalWorkingTime float64 `json:"total_working_time"`
	Status           string  `json:"status"`
	LeaveApplied     *string `json:"leave_applied"`
}

// bracket returns the start/end columns for a break kind.
func (r *Record) bracket(kind BreakKind) (start, end *string) {
	if kind == BreakLunch {
		return r.LunchBreakStart, r.LunchBreakEnd
	}
	return r.BreakTimeStart, r.BreakTimeEnd
}

func (r *Record) setBracketStart(kind BreakKind, t string) {
	if kind == BreakLunch {
		r.LunchBreakStart = &t
	} else {
		r.BreakTimeStart = &t
	}
}

func (r *Record) setBracketEnd(kind BreakKind, t string) {
	if kind == BreakLunch {
		r.LunchBreakEnd = &t
	} else {
		r.BreakTimeEnd = &t
	}
}

// secondsOfDay parses "HH:MM:SS" into seconds since midnight.
func secondsOfDay(t string) (int, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(t, "%d:%d:%d", &h, &m, &s); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("out of range time %q", t)
	}
	return h*3600 + m*60 + s, nil
}

func formatDate(t time.Time) string { return t.Format("2006-01-02") }
func formatTime(t time.Time) string { return t.Format("15:04:05") }

// round2 keeps stored minute totals at two decimals, matching the numeric
// column scale.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
