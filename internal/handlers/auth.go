package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/auth"
	"github.com/Anittaa1111/Hostel-Management/internal/email"
	"github.com/Anittaa1111/Hostel-Management/internal/middleware"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
	"github.com/Anittaa1111/Hostel-Management/internal/utils"
)

// AuthService is the credential flow the auth endpoints drive.
type AuthService interface {
	Signup(ctx context.Context, in auth.SignupInput) error
	Verify(ctx context.Context, in auth.VerifyInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

type AuthHandler struct {
	Service AuthService
	Users   repository.Users
	Hostels repository.Hostels
	Mailer  email.Sender
	Logger  *zap.Logger
}

type signupRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type verifyOTPRequest struct {
	signupRequest
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name            string `json:"name" binding:"omitempty,min=2"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"omitempty,min=6"`
}

type bookHostelRequest struct {
	HostelID string `json:"hostelId" binding:"required"`
}

func NewAuthHandler(service AuthService, users repository.Users, hostels repository.Hostels, mailer email.Sender, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Service: service, Users: users, Hostels: hostels, Mailer: mailer, Logger: logger}
}

func (r signupRequest) input() auth.SignupInput {
	return auth.SignupInput{
		Name:     strings.TrimSpace(r.Name),
		Email:    r.Email,
		Phone:    strings.TrimSpace(r.Phone),
		Password: r.Password,
		Role:     r.Role,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	err := h.Service.Signup(c.Request.Context(), req.input())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email"})
	case errors.Is(err, auth.ErrAlreadyRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
	case errors.Is(err, auth.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
	case errors.Is(err, auth.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many OTP requests. Please try again later."})
	default:
		h.Logger.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP. Check SMTP settings."})
	}
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	_, err := h.Service.Verify(c.Request.Context(), auth.VerifyInput{SignupInput: req.input(), OTP: req.OTP})
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "User verified and registered successfully!"})
	case errors.Is(err, auth.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
	case errors.Is(err, auth.ErrAlreadyRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
	case errors.Is(err, auth.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
	default:
		h.Logger.Error("otp verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	res, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Credentials"})
		return
	}
	if err != nil {
		h.Logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": res.Token,
		"user": gin.H{
			"id":    res.User.ID,
			"name":  res.User.Name,
			"email": res.User.Email,
			"role":  res.User.Role,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the caller's own name and phone. Changing the password
// requires the current one.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = phone
	}
	if req.NewPassword != "" {
		if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
			return
		}
		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			h.Logger.Error("hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password error"})
			return
		}
		user.PasswordHash = hash
	}

	if err := h.Users.Update(c.Request.Context(), user); err != nil {
		h.Logger.Error("update profile", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// BookHostel mails a booking confirmation for an active hostel to the caller.
func (h *AuthHandler) BookHostel(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req bookHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	hostel, err := h.Hostels.GetByID(c.Request.Context(), req.HostelID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !hostel.IsActive) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hostel not found"})
		return
	}
	if err != nil {
		h.Logger.Error("load hostel for booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process booking"})
		return
	}

	booking := email.Booking{
		UserName:   user.Name,
		HostelName: hostel.Name,
		Location:   hostel.Location,
		Price:      hostel.Price,
	}
	if err := h.Mailer.SendBookingConfirmation(c.Request.Context(), user.Email, booking); err != nil {
		h.Logger.Error("booking confirmation failed", zap.String("hostel_id", hostel.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process booking"})
		return
	}

	h.Logger.Info("hostel booked", zap.String("user_id", user.ID), zap.String("hostel_id", hostel.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Booking confirmed and email sent!"})
}
