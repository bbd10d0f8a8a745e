package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"backoffice/internal/attendance"
)

type attendanceRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

// AttendanceLogin records the first clock-in of the day.
func (h *Handler) AttendanceLogin(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "userId is required")
		return
	}
	err := h.attendance.Login(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyRecorded) {
			c.String(http.StatusBadRequest, "Attendance for today already recorded")
			return
		}
		log.Printf("record attendance failed: %v", err)
		c.String(http.StatusInternalServerError, "Error recording attendance")
		return
	}
	c.String(http.StatusCreated, "Attendance recorded")
}

// AttendanceLogout closes the day and recomputes the working-time total.
func (h *Handler) AttendanceLogout(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "userId is required")
		return
	}
	err := h.attendance.Logout(c.Request.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNoRecordForToday):
			c.String(http.StatusBadRequest, "No attendance record found for today")
		case errors.Is(err, attendance.ErrInvalidLoginTime):
			c.String(http.StatusBadRequest, "Invalid login time. Unable to log out.")
		case errors.Is(err, attendance.ErrInvalidLogoutOrder):
			c.String(http.StatusBadRequest, "Logout time must be after login time")
		default:
			log.Printf("logout failed: %v", err)
			c.String(http.StatusInternalServerError, "Error logging out")
		}
		return
	}
	c.String(http.StatusOK, "User logged out successfully")
}

type breakRequest struct {
	UserID    int64  `json:"userId" binding:"required"`
	BreakType string `json:"breakType" binding:"required"`
}

// AttendanceBreak toggles a break bracket of the requested kind.
func (h *Handler) AttendanceBreak(c *gin.Context) {
	var req breakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "userId and breakType are required")
		return
	}
	kind := attendance.BreakGeneric
	if req.BreakType == string(attendance.BreakLunch) {
		kind = attendance.BreakLunch
	}
	action, err := h.attendance.ToggleBreak(c.Request.Context(), req.UserID, kind)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNoRecordForToday):
			c.String(http.StatusBadRequest, "No attendance record for today")
		case errors.Is(err, attendance.ErrInvalidLunchTime):
			c.String(http.StatusBadRequest, "Invalid date for lunch break")
		default:
			log.Printf("record break failed: %v", err)
			c.String(http.StatusInternalServerError, "Error recording break")
		}
		return
	}
	label := strings.ToUpper(req.BreakType[:1]) + req.BreakType[1:]
	c.String(http.StatusOK, "%s break %s", label, action)
}

type leaveRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

// ApplyLeave flags a day's record as leave.
func (h *Handler) ApplyLeave(c *gin.Context) {
	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "userId and date are required")
		return
	}
	if err := h.attendance.ApplyLeave(c.Request.Context(), req.UserID, req.Date); err != nil {
		log.Printf("apply leave failed: %v", err)
		c.String(http.StatusInternalServerError, "Error applying leave")
		return
	}
	c.String(http.StatusOK, "Leave applied successfully")
}

// AttendanceHistory returns a user's records, newest date first.
func (h *Handler) AttendanceHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid user id")
		return
	}
	recs, err := h.attendance.History(c.Request.Context(), id)
	if err != nil {
		log.Printf("fetch attendance failed: %v", err)
		c.String(http.StatusInternalServerError, "Error fetching attendance")
		return
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

// AttendanceOverview returns all records joined with users for the admin
// dashboard.
func (h *Handler) AttendanceOverview(c *gin.Context) {
	rows, err := h.attendance.Overview(c.Request.Context())
	if err != nil {
		log.Printf("fetch attendance overview failed: %v", err)
		c.String(http.StatusInternalServerError, "Error fetching attendance records")
		return
	}
	if rows == nil {
		rows = []attendance.OverviewRow{}
	}
	c.JSON(http.StatusOK, rows)
}
