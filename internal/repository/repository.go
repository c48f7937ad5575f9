// Package repository holds the persistence contracts for users, pending
// signup verifications and hostels, with gorm and mongo implementations.
package repository

import (
	"context"
	"errors"

	"github.com/Anittaa1111/Hostel-Management/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Users interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// PendingVerifications stores at most one record per email.
type PendingVerifications interface {
	Upsert(ctx context.Context, pending *models.PendingVerification) error
	Get(ctx context.Context, email string) (*models.PendingVerification, error)
	Delete(ctx context.Context, email string) error
}

type HostelFilter struct {
	ActiveOnly   bool
	VerifiedOnly bool
	OwnerID      string
}

type Hostels interface {
	Create(ctx context.Context, hostel *models.Hostel) error
	GetByID(ctx context.Context, id string) (*models.Hostel, error)
	GetBySlug(ctx context.Context, slug string) (*models.Hostel, error)
	List(ctx context.Context, filter HostelFilter) ([]models.Hostel, error)
	Update(ctx context.Context, hostel *models.Hostel) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter HostelFilter) (int64, error)
}

type Store struct {
	Users    Users
	Pending  PendingVerifications
	Hostels  Hostels
	closeFns []func(context.Context) error
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for _, fn := range s.closeFns {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
