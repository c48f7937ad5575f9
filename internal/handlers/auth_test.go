package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/auth"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
)

type stubService struct {
	signupErr error
	verifyErr error
	loginErr  error
}

func (s stubService) Signup(ctx context.Context, in auth.SignupInput) error { return s.signupErr }

func (s stubService) Verify(ctx context.Context, in auth.VerifyInput) (*models.User, error) {
	return &models.User{Email: in.Email}, s.verifyErr
}

func (s stubService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.LoginResult{Token: "tok", User: &models.User{ID: "u1", Email: email, Role: models.RoleUser}}, nil
}

func post(h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/", h)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const signupBody = `{"name":"Asha","email":"a@x.com","phone":"9876543210","password":"secret1","role":"user"}`

func TestSignup_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		body    string
		want    int
		message string
	}{
		{name: "sent", want: http.StatusOK, message: "OTP sent"},
		{name: "conflict", err: auth.ErrAlreadyRegistered, want: http.StatusBadRequest, message: "User already exists"},
		{name: "role", err: auth.ErrInvalidRole, want: http.StatusBadRequest, message: "invalid role"},
		{name: "throttled", err: fmt.Errorf("%w: wait", auth.ErrTooManyRequests), want: http.StatusTooManyRequests},
		{name: "delivery", err: fmt.Errorf("%w: smtp", auth.ErrDelivery), want: http.StatusInternalServerError, message: "Check SMTP settings"},
		{name: "store down", err: errors.New("db down"), want: http.StatusInternalServerError},
		{name: "short password", body: `{"name":"Asha","email":"a@x.com","phone":"1","password":"123"}`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(stubService{signupErr: tt.err}, nil, nil, nil, zap.NewNop())
			body := tt.body
			if body == "" {
				body = signupBody
			}
			rec := post(h.Signup, body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestVerifyOTP_StatusMapping(t *testing.T) {
	body := strings.TrimSuffix(signupBody, "}") + `,"otp":"123456"}`

	h := NewAuthHandler(stubService{}, nil, nil, nil, zap.NewNop())
	assert.Equal(t, http.StatusCreated, post(h.VerifyOTP, body).Code)

	h = NewAuthHandler(stubService{verifyErr: auth.ErrInvalidOTP}, nil, nil, nil, zap.NewNop())
	rec := post(h.VerifyOTP, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired OTP")

	h = NewAuthHandler(stubService{verifyErr: errors.New("db down")}, nil, nil, nil, zap.NewNop())
	assert.Equal(t, http.StatusInternalServerError, post(h.VerifyOTP, body).Code)

	nonNumeric := strings.TrimSuffix(signupBody, "}") + `,"otp":"12a456"}`
	assert.Equal(t, http.StatusBadRequest, post(h.VerifyOTP, nonNumeric).Code)
}

func TestLogin_StatusMapping(t *testing.T) {
	body := `{"email":"a@x.com","password":"secret1"}`

	h := NewAuthHandler(stubService{}, nil, nil, nil, zap.NewNop())
	rec := post(h.Login, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok","user":{"id":"u1","name":"","email":"a@x.com","role":"user"}}`, rec.Body.String())

	h = NewAuthHandler(stubService{loginErr: auth.ErrInvalidCredentials}, nil, nil, nil, zap.NewNop())
	rec = post(h.Login, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid Credentials"}`, rec.Body.String())

	h = NewAuthHandler(stubService{loginErr: errors.New("db down")}, nil, nil, nil, zap.NewNop())
	assert.Equal(t, http.StatusInternalServerError, post(h.Login, body).Code)
}
