// Package auth implements OTP-gated signup, password login and bearer
// token authentication.
//
// Signup never persists profile fields. The caller resupplies them at
// verification, which is the only path that creates a User, always with
// isVerified set. Each email has at most one pending code, and a new signup
// overwrites it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/email"
	"github.com/Anittaa1111/Hostel-Management/internal/metrics"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/ratelimit"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
	"github.com/Anittaa1111/Hostel-Management/internal/utils"
)

var (
	ErrAlreadyRegistered  = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrTooManyRequests    = errors.New("too many OTP requests")
	ErrDelivery           = errors.New("otp delivery failed")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// Throttle limits how often a code may be issued for one email.
type Throttle interface {
	Allow(ctx context.Context, email string) error
	// Release undoes an Allow whose code was never delivered.
	Release(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

type Config struct {
	JwtSecret      string
	AccessTTL      time.Duration
	OtpTTL         time.Duration
	AdminBootstrap string
}

type Service struct {
	users    repository.Users
	pending  repository.PendingVerifications
	mailer   email.Sender
	throttle Throttle
	metrics  *metrics.Metrics
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time
}

type Option func(*Service)

func WithThrottle(t Throttle) Option { return func(s *Service) { s.throttle = t } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(users repository.Users, pending repository.PendingVerifications, mailer email.Sender, logger *zap.Logger, cfg Config, opts ...Option) *Service {
	s := &Service{
		users:   users,
		pending: pending,
		mailer:  mailer,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

type VerifyInput struct {
	SignupInput
	OTP string
}

type LoginResult struct {
	Token string
	User  *models.User
}

func (s *Service) resolveRole(addr, role string) (string, error) {
	if role == "" {
		return models.RoleUser, nil
	}
	switch role {
	case models.RoleUser, models.RoleHostelAuthority:
		return role, nil
	case models.RoleCentralAuthority:
		if s.cfg.AdminBootstrap != "" && models.NormalizeEmail(s.cfg.AdminBootstrap) == addr {
			return role, nil
		}
	}
	return "", ErrInvalidRole
}

// Signup issues a fresh code for in.Email and mails it. Any existing account
// with that email conflicts, verified or not, since emails are unique.
func (s *Service) Signup(ctx context.Context, in SignupInput) error {
	addr := models.NormalizeEmail(in.Email)

	if _, err := s.resolveRole(addr, in.Role); err != nil {
		s.metrics.Signup("invalid_role")
		return err
	}

	if _, err := s.users.GetByEmail(ctx, addr); err == nil {
		s.metrics.Signup("conflict")
		return ErrAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Allow(ctx, addr); err != nil {
			if errors.Is(err, ratelimit.ErrLimited) {
				s.metrics.Signup("throttled")
				return fmt.Errorf("%w: %v", ErrTooManyRequests, err)
			}
			s.logger.Error("otp throttle unavailable", zap.Error(err))
		}
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	codeHash, err := utils.HashOTP(code)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	now := s.now().UTC()
	pending := &models.PendingVerification{
		Email:     addr,
		CodeHash:  codeHash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.OtpTTL),
	}
	if err := s.pending.Upsert(ctx, pending); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, addr, code); err != nil {
		s.logger.Error("otp delivery failed", zap.String("email", addr), zap.Error(err))
		if derr := s.pending.Delete(ctx, addr); derr != nil {
			s.logger.Warn("discard undelivered otp", zap.String("email", addr), zap.Error(derr))
		}
		if s.throttle != nil {
			if rerr := s.throttle.Release(ctx, addr); rerr != nil {
				s.logger.Warn("release otp throttle", zap.String("email", addr), zap.Error(rerr))
			}
		}
		s.metrics.Signup("delivery_failed")
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	s.logger.Info("otp sent", zap.String("email", addr))
	s.metrics.Signup("sent")
	return nil
}

// Verify consumes the pending code and creates the verified account.
// A failed check leaves the pending record in place so the user can retry.
func (s *Service) Verify(ctx context.Context, in VerifyInput) (*models.User, error) {
	addr := models.NormalizeEmail(in.Email)

	role, err := s.resolveRole(addr, in.Role)
	if err != nil {
		s.metrics.Verification("invalid_role")
		return nil, err
	}

	pending, err := s.pending.Get(ctx, addr)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.Verification("invalid")
		return nil, ErrInvalidOTP
	} else if err != nil {
		return nil, fmt.Errorf("lookup otp: %w", err)
	}
	if pending.Expired(s.now()) || !utils.CheckOTP(pending.CodeHash, in.OTP) {
		s.logger.Info("otp verification failed", zap.String("email", addr))
		s.metrics.Verification("invalid")
		return nil, ErrInvalidOTP
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        addr,
		Phone:        in.Phone,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.Verification("conflict")
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.pending.Delete(ctx, addr); err != nil {
		s.logger.Warn("delete consumed otp", zap.String("email", addr), zap.Error(err))
	}
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, addr); err != nil {
			s.logger.Warn("reset otp throttle", zap.String("email", addr), zap.Error(err))
		}
	}

	s.logger.Info("user verified", zap.String("user_id", user.ID), zap.String("role", user.Role))
	s.metrics.Verification("verified")
	return user, nil
}

// Login returns ErrInvalidCredentials for every failure that depends on the
// account, so callers cannot tell an unknown email from a wrong password.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	addr := models.NormalizeEmail(emailAddr)

	user, err := s.users.GetByEmail(ctx, addr)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.Login("invalid_credentials")
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, password) || !user.CanAuthenticate() {
		s.metrics.Login("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateAccessToken(user.ID, user.Role, s.cfg.JwtSecret, s.now(), s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.metrics.Login("ok")
	return &LoginResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to an active, verified user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseAccessToken(token, s.cfg.JwtSecret, s.now)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	} else if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.CanAuthenticate() {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
