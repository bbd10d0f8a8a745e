package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backoffice/internal/auth"
	"backoffice/internal/leads"
)

// UploadLeads ingests a multipart CSV of leads. Inserts are best-effort and
// sequential; rows before a failure stay committed.
func (h *Handler) UploadLeads(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer file.Close()

	count, err := h.leads.Import(c.Request.Context(), file)
	if err != nil {
		log.Printf("lead import failed after %d rows: %v", count, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error uploading leads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leads uploaded successfully.", "count": count})
}

// ListLeads returns every lead.
func (h *Handler) ListLeads(c *gin.Context) {
	list, err := h.leads.List(c.Request.Context())
	if err != nil {
		log.Printf("fetch leads failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching leads"})
		return
	}
	if list == nil {
		list = []leads.Lead{}
	}
	c.JSON(http.StatusOK, list)
}

type updateLeadRequest struct {
	Remark  string `json:"remark"`
	Status  string `json:"status"`
	UserIDs int64  `json:"userids"`
}

// UpdateLead sets remark and status on a lead. The caller must be the agent
// named in the body.
func (h *Handler) UpdateLead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid lead id"})
		return
	}
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Remark == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Remark and Status are required."})
		return
	}

	lead, err := h.leads.UpdateFollowUp(c.Request.Context(), a, leadID, req.Remark, req.Status, req.UserIDs)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update leads."})
		case errors.Is(err, leads.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Lead not found."})
		default:
			log.Printf("update lead failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating lead."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead updated successfully.", "lead": lead})
}

type assignAgentRequest struct {
	LeadIDs []int64 `json:"leadIds"`
	AgentID int64   `json:"agentId"`
}

// AssignAgent bulk-assigns leads to an agent. Admin only.
func (h *Handler) AssignAgent(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req assignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.LeadIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid array of lead IDs."})
		return
	}

	err := h.leads.Assign(c.Request.Context(), a, req.LeadIDs, req.AgentID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to assign agents."})
		case errors.Is(err, leads.ErrNoAgent):
			c.JSON(http.StatusNotFound, gin.H{"message": "Agent not found or invalid role."})
		case errors.Is(err, leads.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No leads were updated. Please check lead IDs."})
		default:
			log.Printf("assign agent failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error assigning agent"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leads assigned successfully."})
}

// MyLeads returns the leads assigned to the calling agent; 404 when none.
func (h *Handler) MyLeads(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	list, err := h.leads.Mine(c.Request.Context(), a)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to view this data."})
			return
		}
		log.Printf("fetch my leads failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching leads"})
		return
	}
	if len(list) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No leads assigned to you."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leads fetched successfully", "leads": list})
}

type updateLeadStatusRequest struct {
	LeadID    int64  `json:"leadId"`
	NewStatus string `json:"newStatus"`
	Remark    string `json:"remark"`
}

// UpdateLeadStatus patches status and remark on a lead owned by the caller.
func (h *Handler) UpdateLeadStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req updateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LeadID == 0 || req.NewStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Lead ID and new status are required."})
		return
	}

	lead, err := h.leads.PatchStatus(c.Request.Context(), a, req.LeadID, req.NewStatus, req.Remark)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to perform this action."})
		case errors.Is(err, leads.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Lead not found or not assigned to you."})
		default:
			log.Printf("update lead status failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating lead status"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead status updated successfully", "lead": lead})
}

// Notifications returns the calling agent's assignment notifications.
func (h *Handler) Notifications(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	list, err := h.leads.Notifications(c.Request.Context(), a)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to view this data."})
			return
		}
		log.Printf("fetch notifications failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching notifications"})
		return
	}
	if list == nil {
		list = []leads.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}
