package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backoffice/internal/sales"
)

// InsertSale writes a sales row and echoes it back with its id.
func (h *Handler) InsertSale(c *gin.Context) {
	var s sales.Sale
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sales payload"})
		return
	}
	inserted, err := h.sales.InsertSale(c.Request.Context(), s)
	if err != nil {
		log.Printf("insert sales failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert sales data"})
		return
	}
	c.JSON(http.StatusCreated, inserted)
}

// ListSales returns all sales rows.
func (h *Handler) ListSales(c *gin.Context) {
	list, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		log.Printf("fetch sales failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales data"})
		return
	}
	if list == nil {
		list = []sales.Sale{}
	}
	c.JSON(http.StatusOK, list)
}

// InsertAgentRow writes a sales_agents leaderboard row.
func (h *Handler) InsertAgentRow(c *gin.Context) {
	var a sales.AgentRow
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	if err := h.sales.InsertAgentRow(c.Request.Context(), a); err != nil {
		log.Printf("insert sales agent failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error inserting data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data inserted successfully"})
}

// FetchAgentRows returns the sales_agents leaderboard ordered by rank.
func (h *Handler) FetchAgentRows(c *gin.Context) {
	list, err := h.sales.ListAgentRows(c.Request.Context())
	if err != nil {
		log.Printf("fetch sales agents failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching data"})
		return
	}
	if list == nil {
		list = []sales.AgentRow{}
	}
	c.JSON(http.StatusOK, list)
}

// ListPaidCustomers returns all paid customers, newest sale first.
func (h *Handler) ListPaidCustomers(c *gin.Context) {
	list, err := h.sales.ListPaidCustomers(c.Request.Context())
	if err != nil {
		log.Printf("fetch paid customers failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch paid customers."})
		return
	}
	if list == nil {
		list = []sales.PaidCustomer{}
	}
	c.JSON(http.StatusOK, list)
}

// InsertPaidCustomer records a new paid customer.
func (h *Handler) InsertPaidCustomer(c *gin.Context) {
	var p sales.PaidCustomer
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	if err := h.sales.InsertPaidCustomer(c.Request.Context(), p); err != nil {
		log.Printf("insert paid customer failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add paid customer."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Paid customer added successfully."})
}

// UpdatePaidCustomer overwrites a paid-customer row.
func (h *Handler) UpdatePaidCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	var p sales.PaidCustomer
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	if err := h.sales.UpdatePaidCustomer(c.Request.Context(), id, p); err != nil {
		log.Printf("update paid customer failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update paid customer."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Paid customer updated successfully."})
}
