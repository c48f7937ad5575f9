package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/middleware"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
)

type HostelHandler struct {
	Hostels repository.Hostels
	Users   repository.Users
	Logger  *zap.Logger
	Now     func() time.Time
}

type createHostelRequest struct {
	Name           string   `json:"name" binding:"required"`
	Location       string   `json:"location" binding:"required"`
	Address        string   `json:"address" binding:"required"`
	Gender         string   `json:"gender" binding:"required"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	Description    string   `json:"description" binding:"required"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"`
	Distance       string   `json:"distance"`
	TotalRooms     int      `json:"totalRooms" binding:"gte=0"`
	AvailableRooms int      `json:"availableRooms" binding:"gte=0"`
}

// updateHostelRequest carries only the fields the caller wants to change.
type updateHostelRequest struct {
	Name           *string   `json:"name"`
	Location       *string   `json:"location"`
	Address        *string   `json:"address"`
	Gender         *string   `json:"gender"`
	Price          *float64  `json:"price"`
	Description    *string   `json:"description"`
	Amenities      *[]string `json:"amenities"`
	Images         *[]string `json:"images"`
	Distance       *string   `json:"distance"`
	Rating         *float64  `json:"rating"`
	Reviews        *int      `json:"reviews"`
	TotalRooms     *int      `json:"totalRooms"`
	AvailableRooms *int      `json:"availableRooms"`
}

func NewHostelHandler(hostels repository.Hostels, users repository.Users, logger *zap.Logger) *HostelHandler {
	return &HostelHandler{Hostels: hostels, Users: users, Logger: logger, Now: time.Now}
}

// List returns active hostels, newest first.
func (h *HostelHandler) List(c *gin.Context) {
	h.list(c, repository.HostelFilter{ActiveOnly: true}, true)
}

func (h *HostelHandler) ListAll(c *gin.Context) {
	h.list(c, repository.HostelFilter{}, true)
}

func (h *HostelHandler) ListMine(c *gin.Context) {
	h.list(c, repository.HostelFilter{OwnerID: c.GetString(middleware.ContextUserID)}, false)
}

func (h *HostelHandler) list(c *gin.Context, filter repository.HostelFilter, withOwners bool) {
	hostels, err := h.Hostels.List(c.Request.Context(), filter)
	if err != nil {
		h.Logger.Error("list hostels", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load hostels"})
		return
	}
	if !withOwners {
		c.JSON(http.StatusOK, hostels)
		return
	}

	owners := map[string]*models.OwnerSummary{}
	views := make([]models.HostelView, 0, len(hostels))
	for _, hostel := range hostels {
		owner, seen := owners[hostel.OwnerID]
		if !seen {
			owner = h.ownerSummary(c, hostel.OwnerID)
			owners[hostel.OwnerID] = owner
		}
		views = append(views, models.HostelView{Hostel: hostel, Owner: owner})
	}
	c.JSON(http.StatusOK, views)
}

// ownerSummary is nil when the owner account no longer exists.
func (h *HostelHandler) ownerSummary(c *gin.Context, ownerID string) *models.OwnerSummary {
	user, err := h.Users.GetByID(c.Request.Context(), ownerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.Logger.Warn("load hostel owner", zap.String("owner_id", ownerID), zap.Error(err))
		}
		return nil
	}
	return &models.OwnerSummary{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}
}

func (h *HostelHandler) GetBySlug(c *gin.Context) {
	hostel, err := h.Hostels.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err == nil && !hostel.IsActive {
		err = repository.ErrNotFound
	}
	h.respondOne(c, hostel, err)
}

func (h *HostelHandler) GetByID(c *gin.Context) {
	hostel, err := h.Hostels.GetByID(c.Request.Context(), c.Param("id"))
	h.respondOne(c, hostel, err)
}

func (h *HostelHandler) respondOne(c *gin.Context, hostel *models.Hostel, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hostel not found"})
		return
	}
	if err != nil {
		h.Logger.Error("load hostel", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load hostel"})
		return
	}
	c.JSON(http.StatusOK, models.HostelView{Hostel: *hostel, Owner: h.ownerSummary(c, hostel.OwnerID)})
}

// Create stores a hostel owned by the caller. Hostels created by the central
// authority start verified.
func (h *HostelHandler) Create(c *gin.Context) {
	var req createHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide all required fields"})
		return
	}

	now := h.Now()
	hostel := &models.Hostel{
		Name:           strings.TrimSpace(req.Name),
		Slug:           models.HostelSlug(req.Name, now),
		OwnerID:        c.GetString(middleware.ContextUserID),
		Location:       req.Location,
		Address:        req.Address,
		Gender:         req.Gender,
		Price:          req.Price,
		Description:    req.Description,
		Amenities:      nonNil(req.Amenities),
		Images:         nonNil(req.Images),
		Distance:       req.Distance,
		TotalRooms:     req.TotalRooms,
		AvailableRooms: req.AvailableRooms,
		Verified:       c.GetString(middleware.ContextRole) == models.RoleCentralAuthority,
		IsActive:       true,
	}
	if err := hostel.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Hostels.Create(c.Request.Context(), hostel); err != nil {
		h.Logger.Error("create hostel", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	h.Logger.Info("hostel created", zap.String("hostel_id", hostel.ID), zap.String("owner_id", hostel.OwnerID))
	c.JSON(http.StatusCreated, hostel)
}

func (h *HostelHandler) Update(c *gin.Context) {
	hostel, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req updateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != hostel.Name {
		hostel.Name = strings.TrimSpace(*req.Name)
		hostel.Slug = models.HostelSlug(hostel.Name, h.Now())
	}
	setIf(&hostel.Location, req.Location)
	setIf(&hostel.Address, req.Address)
	setIf(&hostel.Gender, req.Gender)
	setIf(&hostel.Price, req.Price)
	setIf(&hostel.Description, req.Description)
	setIf(&hostel.Amenities, req.Amenities)
	setIf(&hostel.Images, req.Images)
	setIf(&hostel.Distance, req.Distance)
	setIf(&hostel.Rating, req.Rating)
	setIf(&hostel.Reviews, req.Reviews)
	setIf(&hostel.TotalRooms, req.TotalRooms)
	setIf(&hostel.AvailableRooms, req.AvailableRooms)

	if err := hostel.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.save(c, hostel)
}

func (h *HostelHandler) Delete(c *gin.Context) {
	hostel, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.Hostels.Delete(c.Request.Context(), hostel.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.Logger.Error("delete hostel", zap.String("hostel_id", hostel.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hostel deleted successfully"})
}

func (h *HostelHandler) ToggleVerified(c *gin.Context) {
	h.toggle(c, func(hostel *models.Hostel) { hostel.Verified = !hostel.Verified })
}

func (h *HostelHandler) ToggleFeatured(c *gin.Context) {
	h.toggle(c, func(hostel *models.Hostel) { hostel.Featured = !hostel.Featured })
}

func (h *HostelHandler) ToggleActive(c *gin.Context) {
	h.toggle(c, func(hostel *models.Hostel) { hostel.IsActive = !hostel.IsActive })
}

func (h *HostelHandler) toggle(c *gin.Context, flip func(*models.Hostel)) {
	hostel, ok := h.load(c)
	if !ok {
		return
	}
	flip(hostel)
	h.save(c, hostel)
}

func (h *HostelHandler) load(c *gin.Context) (*models.Hostel, bool) {
	hostel, err := h.Hostels.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hostel not found"})
		return nil, false
	}
	if err != nil {
		h.Logger.Error("load hostel", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load hostel"})
		return nil, false
	}
	return hostel, true
}

// loadOwned also requires the caller to own the hostel, unless they are the
// central authority.
func (h *HostelHandler) loadOwned(c *gin.Context) (*models.Hostel, bool) {
	hostel, ok := h.load(c)
	if !ok {
		return nil, false
	}
	if hostel.OwnerID != c.GetString(middleware.ContextUserID) &&
		c.GetString(middleware.ContextRole) != models.RoleCentralAuthority {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to modify this hostel"})
		return nil, false
	}
	return hostel, true
}

func (h *HostelHandler) save(c *gin.Context, hostel *models.Hostel) {
	if err := h.Hostels.Update(c.Request.Context(), hostel); err != nil {
		h.Logger.Error("update hostel", zap.String("hostel_id", hostel.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, hostel)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
