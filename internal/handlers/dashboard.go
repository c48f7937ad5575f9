package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/middleware"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
)

type DashboardHandler struct {
	Users   repository.Users
	Hostels repository.Hostels
	Logger  *zap.Logger
}

func NewDashboardHandler(users repository.Users, hostels repository.Hostels, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Users: users, Hostels: hostels, Logger: logger}
}

// Get reports catalogue counts. A hostel authority only sees its own hostels.
func (h *DashboardHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	owner := ""
	if c.GetString(middleware.ContextRole) != models.RoleCentralAuthority {
		owner = c.GetString(middleware.ContextUserID)
	}

	resp := gin.H{}
	for key, filter := range map[string]repository.HostelFilter{
		"hostels":         {OwnerID: owner},
		"activeHostels":   {OwnerID: owner, ActiveOnly: true},
		"verifiedHostels": {OwnerID: owner, VerifiedOnly: true},
	} {
		n, err := h.Hostels.Count(ctx, filter)
		if err != nil {
			h.Logger.Error("count hostels", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
			return
		}
		resp[key] = n
	}
	if owner == "" {
		users, err := h.Users.Count(ctx)
		if err != nil {
			h.Logger.Error("count users", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
			return
		}
		resp["users"] = users
	}

	c.JSON(http.StatusOK, resp)
}
