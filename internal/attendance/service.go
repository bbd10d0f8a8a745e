package attendance

import (
	"context"
	"time"
)

// Store is the persistence surface for attendance rows. Mutate runs fn
// against the current row for (user, date) under a row lock and persists the
// mutation only when fn returns nil; it returns ErrNoRecordForToday when the
// row does not exist. Create must reject a duplicate (user, date) with
// ErrAlreadyRecorded.
type Store interface {
	Create(ctx context.Context, rec Record) error
	Mutate(ctx context.Context, userID int64, date string, fn func(*Record) error) error
	ApplyLeave(ctx context.Context, userID int64, date string) error
	ListByUser(ctx context.Context, userID int64) ([]Record, error)
	Overview(ctx context.Context) ([]OverviewRow, error)
}

// Service owns the daily attendance lifecycle: one row per user per day,
// login/logout bracketing and break accounting against it.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceWithClock is NewService with an injected clock.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Login records the first clock-in of the day. The logout time starts equal
// to the login time until a real logout happens.
func (s *Service) Login(ctx context.Context, userID int64) error {
	now := s.now()
	t := formatTime(now)
	err := s.store.Create(ctx, Record{
		UserID:           userID,
		Date:             formatDate(now),
		LoginTime:        t,
		LogoutTime:       t,
		Status:           "Present",
		TotalWorkingTime: 0,
		BreakType:        BreakAvailable,
	})
	if err == nil {
		transitionsTotal.WithLabelValues("login").Inc()
	}
	return err
}

// Logout closes the day. The total is recomputed purely from the login/logout
// span in seconds, overwriting any break-adjusted value accumulated earlier.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	now := s.now()
	logout := formatTime(now)
	err := s.store.Mutate(ctx, userID, formatDate(now), func(rec *Record) error {
		loginSec, perr := secondsOfDay(rec.LoginTime)
		if perr != nil {
			return ErrInvalidLoginTime
		}
		logoutSec, _ := secondsOfDay(logout)
		if logoutSec <= loginSec {
			return ErrInvalidLogoutOrder
		}
		rec.LogoutTime = logout
		rec.TotalWorkingTime = round2(float64(logoutSec-loginSec) / 60.0)
		return nil
	})
	if err == nil {
		transitionsTotal.WithLabelValues("logout").Inc()
	}
	return err
}

// ToggleBreak starts or ends a break bracket of the given kind. A kind other
// than lunch is treated as the generic break. Ending a lunch bracket longer
// than the allowance deducts the overage minutes from the day's total, at
// most once per day.
func (s *Service) ToggleBreak(ctx context.Context, userID int64, kind BreakKind) (BreakAction, error) {
	if kind != BreakLunch {
		kind = BreakGeneric
	}
	now := s.now()
	t := formatTime(now)

	var action BreakAction
	err := s.store.Mutate(ctx, userID, formatDate(now), func(rec *Record) error {
		// A completed lunch bracket from earlier toggles may still carry an
		// unapplied overage; settle it before touching the bracket.
		if kind == BreakLunch {
			if err := applyLunchOverage(rec); err != nil {
				return err
			}
		}

		start, _ := rec.bracket(kind)
		if start == nil || rec.BreakType == BreakAvailable {
			rec.setBracketStart(kind, t)
			rec.BreakType = string(kind)
			action = BreakStarted
			return nil
		}

		rec.setBracketEnd(kind, t)
		rec.BreakType = BreakAvailable
		if kind == BreakLunch {
			if err := applyLunchOverage(rec); err != nil {
				return err
			}
		}
		action = BreakEnded
		return nil
	})
	if err == nil {
		transitionsTotal.WithLabelValues("break_" + string(action)).Inc()
	}
	return action, err
}

// ApplyLeave flags the day's record as leave. Matching zero rows is not an
// error, mirroring the plain UPDATE this wraps.
func (s *Service) ApplyLeave(ctx context.Context, userID int64, date string) error {
	err := s.store.ApplyLeave(ctx, userID, date)
	if err == nil {
		transitionsTotal.WithLabelValues("leave").Inc()
	}
	return err
}

// History returns the user's records, newest date first.
func (s *Service) History(ctx context.Context, userID int64) ([]Record, error) {
	return s.store.ListByUser(ctx, userID)
}

// Overview returns all records joined with users, newest first.
func (s *Service) Overview(ctx context.Context) ([]OverviewRow, error) {
	return s.store.Overview(ctx)
}

// applyLunchOverage deducts lunch minutes beyond the allowance from the
// day's total. The LunchAdjusted flag guards against a second deduction on
// repeated toggles. A stored bracket time that no longer parses reports
// ErrInvalidLunchTime so the caller can reject the toggle.
func applyLunchOverage(rec *Record) error {
	if rec.LunchAdjusted || rec.LunchBreakStart == nil || rec.LunchBreakEnd == nil {
		return nil
	}
	startSec, err := secondsOfDay(*rec.LunchBreakStart)
	if err != nil {
		return ErrInvalidLunchTime
	}
	endSec, err := secondsOfDay(*rec.LunchBreakEnd)
	if err != nil {
		return ErrInvalidLunchTime
	}
	minutes := float64(endSec-startSec) / 60.0
	if minutes > lunchAllowanceMinutes {
		rec.TotalWorkingTime = round2(rec.TotalWorkingTime - (minutes - lunchAllowanceMinutes))
		rec.LunchAdjusted = true
	}
	return nil
}
