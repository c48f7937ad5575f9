package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/middleware"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
)

type countingHostels struct {
	repository.Hostels
	err error
}

func (h countingHostels) Count(ctx context.Context, f repository.HostelFilter) (int64, error) {
	return 3, h.err
}

type countingUsers struct {
	repository.Users
	err error
}

func (u countingUsers) Count(ctx context.Context) (int64, error) { return 7, u.err }

func getDashboard(h *DashboardHandler, role string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "u1")
		c.Set(middleware.ContextRole, role)
	}, h.Get)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestDashboard_StorageFailure(t *testing.T) {
	down := errors.New("db down")

	h := NewDashboardHandler(countingUsers{}, countingHostels{err: down}, zap.NewNop())
	rec := getDashboard(h, models.RoleHostelAuthority)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hostels")

	h = NewDashboardHandler(countingUsers{err: down}, countingHostels{}, zap.NewNop())
	assert.Equal(t, http.StatusInternalServerError, getDashboard(h, models.RoleCentralAuthority).Code)
}

func TestDashboard_Counts(t *testing.T) {
	h := NewDashboardHandler(countingUsers{}, countingHostels{}, zap.NewNop())

	rec := getDashboard(h, models.RoleCentralAuthority)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hostels":3,"activeHostels":3,"verifiedHostels":3,"users":7}`, rec.Body.String())

	rec = getDashboard(h, models.RoleHostelAuthority)
	assert.JSONEq(t, `{"hostels":3,"activeHostels":3,"verifiedHostels":3}`, rec.Body.String())
}
