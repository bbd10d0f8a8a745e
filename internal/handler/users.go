package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backoffice/internal/users"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues the token pair.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, users.ErrBadCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		default:
			log.Printf("login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	pair, err := h.keys.Issue(u.ID, u.Role)
	if err != nil {
		log.Printf("token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"role":         u.Role,
		"userId":       u.ID,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken re-issues an access token from a valid refresh token.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.String(http.StatusForbidden, "Refresh token is required")
		return
	}
	access, err := h.keys.Refresh(req.RefreshToken)
	if err != nil {
		c.String(http.StatusForbidden, "Invalid or expired refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser registers an account with a bcrypt-hashed password.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, password and role are required"})
		return
	}
	if err := h.users.Create(c.Request.Context(), req.Username, req.Password, req.Role); err != nil {
		log.Printf("create user failed: %v", err)
		c.String(http.StatusInternalServerError, "Error creating user")
		return
	}
	c.String(http.StatusCreated, "User created successfully")
}

// ListUsers returns id/name/role for every user.
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		log.Printf("list users failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching users"})
		return
	}
	if list == nil {
		list = []users.User{}
	}
	c.JSON(http.StatusOK, list)
}

// UserProfile returns the profile for a user id. Requires a valid token.
func (h *Handler) UserProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	u, err := h.users.Profile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("fetch profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID, "name": u.Name, "role": u.Role})
}
