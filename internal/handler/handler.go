package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/attendance"
	"backoffice/internal/auth"
	"backoffice/internal/leads"
	"backoffice/internal/sales"
	"backoffice/internal/users"
)

// Handler holds the services behind the REST surface.
type Handler struct {
	keys       auth.Keys
	users      *users.Service
	attendance *attendance.Service
	leads      *leads.Service
	sales      *sales.Repository
}

// New wires a handler.
func New(keys auth.Keys, us *users.Service, att *attendance.Service, ls *leads.Service, sr *sales.Repository) *Handler {
	return &Handler{keys: keys, users: us, attendance: att, leads: ls, sales: sr}
}

// Register mounts every route under /api. Token-guarded routes share the
// RequireAuth middleware; role and ownership checks live in the services.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/login", h.Login)
	api.POST("/refresh-token", h.RefreshToken)
	api.POST("/create-user", h.CreateUser)
	api.GET("/get-users", h.ListUsers)

	api.POST("/attendance/login", h.AttendanceLogin)
	api.POST("/attendance/logout", h.AttendanceLogout)
	api.POST("/attendance/break", h.AttendanceBreak)
	api.POST("/apply-leave", h.ApplyLeave)
	api.GET("/attendance/:userId", h.AttendanceHistory)
	api.GET("/admin/attendance", h.AttendanceOverview)

	api.POST("/uploadleads", h.UploadLeads)
	api.GET("/getleads", h.ListLeads)

	api.POST("/insert-sales", h.InsertSale)
	api.GET("/get-sales", h.ListSales)
	api.POST("/insert-sales-agents", h.InsertAgentRow)
	api.GET("/fetch-sales", h.FetchAgentRows)

	api.GET("/paid-customers", h.ListPaidCustomers)
	api.POST("/paid-customers", h.InsertPaidCustomer)
	api.PUT("/paid-customers/:id", h.UpdatePaidCustomer)

	authed := api.Group("", auth.RequireAuth(h.keys))
	authed.GET("/getuserprofile/:userId", h.UserProfile)
	authed.PUT("/updatelead/:id", h.UpdateLead)
	authed.POST("/assignagent", h.AssignAgent)
	authed.GET("/my-leads", h.MyLeads)
	authed.PATCH("/update-lead-status", h.UpdateLeadStatus)
	authed.GET("/notifications", h.Notifications)
}

// actor pulls the authenticated actor or aborts with 403.
func actor(c *gin.Context) (auth.Actor, bool) {
	a, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "User not authenticated"})
	}
	return a, ok
}
