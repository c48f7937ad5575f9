package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/middleware"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
)

// UserHandler serves the central authority's account administration.
type UserHandler struct {
	Users  repository.Users
	Logger *zap.Logger
}

func NewUserHandler(users repository.Users, logger *zap.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) ToggleActive(c *gin.Context) {
	h.toggle(c, func(u *models.User) { u.IsActive = !u.IsActive })
}

func (h *UserHandler) ToggleVerify(c *gin.Context) {
	h.toggle(c, func(u *models.User) { u.IsVerified = !u.IsVerified })
}

func (h *UserHandler) toggle(c *gin.Context, flip func(*models.User)) {
	if c.Param("id") == c.GetString(middleware.ContextUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change your own account"})
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.Logger.Error("load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	flip(user)
	if err := h.Users.Update(c.Request.Context(), user); err != nil {
		h.Logger.Error("update user", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	h.Logger.Info("user flags changed",
		zap.String("user_id", user.ID),
		zap.Bool("is_active", user.IsActive),
		zap.Bool("is_verified", user.IsVerified),
	)
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"isActive":   user.IsActive,
		"isVerified": user.IsVerified,
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if c.Param("id") == c.GetString(middleware.ContextUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	err := h.Users.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.Logger.Error("delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
