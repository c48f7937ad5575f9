package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Anittaa1111/Hostel-Management/internal/models"
)

// NewGormStore wires the gorm repositories over an opened database.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:   &GormUsers{DB: db},
		Pending: &GormPending{DB: db},
		Hostels: &GormHostels{DB: db},
		closeFns: []func(context.Context) error{func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}},
	}
}

// Migrate creates or updates the tables backing the gorm repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PendingVerification{},
		&models.Hostel{},
	)
}

func gormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

type GormUsers struct {
	DB *gorm.DB
}

func (r *GormUsers) Create(ctx context.Context, user *models.User) error {
	return gormErr(r.DB.WithContext(ctx).Create(user).Error)
}

func (r *GormUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, gormErr(err)
	}
	return &user, nil
}

func (r *GormUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, gormErr(err)
	}
	return &user, nil
}

func (r *GormUsers) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormUsers) Update(ctx context.Context, user *models.User) error {
	return gormErr(r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).Select("*").Omit("created_at").Updates(user).Error)
}

func (r *GormUsers) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

type GormPending struct {
	DB *gorm.DB
}

func (r *GormPending) Upsert(ctx context.Context, pending *models.PendingVerification) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "created_at", "expires_at"}),
	}).Create(pending).Error
}

func (r *GormPending) Get(ctx context.Context, email string) (*models.PendingVerification, error) {
	var pending models.PendingVerification
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&pending).Error; err != nil {
		return nil, gormErr(err)
	}
	return &pending, nil
}

func (r *GormPending) Delete(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Delete(&models.PendingVerification{}, "email = ?", email).Error
}

type GormHostels struct {
	DB *gorm.DB
}

func (r *GormHostels) scope(ctx context.Context, filter HostelFilter) *gorm.DB {
	query := r.DB.WithContext(ctx).Model(&models.Hostel{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.VerifiedOnly {
		query = query.Where("verified = ?", true)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	return query
}

func (r *GormHostels) Create(ctx context.Context, hostel *models.Hostel) error {
	return gormErr(r.DB.WithContext(ctx).Create(hostel).Error)
}

func (r *GormHostels) GetByID(ctx context.Context, id string) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := r.DB.WithContext(ctx).First(&hostel, "id = ?", id).Error; err != nil {
		return nil, gormErr(err)
	}
	return &hostel, nil
}

func (r *GormHostels) GetBySlug(ctx context.Context, slug string) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&hostel).Error; err != nil {
		return nil, gormErr(err)
	}
	return &hostel, nil
}

func (r *GormHostels) List(ctx context.Context, filter HostelFilter) ([]models.Hostel, error) {
	var hostels []models.Hostel
	if err := r.scope(ctx, filter).Order("created_at desc").Find(&hostels).Error; err != nil {
		return nil, err
	}
	return hostels, nil
}

func (r *GormHostels) Update(ctx context.Context, hostel *models.Hostel) error {
	return gormErr(r.DB.WithContext(ctx).Model(&models.Hostel{}).
		Where("id = ?", hostel.ID).Select("*").Omit("created_at").Updates(hostel).Error)
}

func (r *GormHostels) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Hostel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormHostels) Count(ctx context.Context, filter HostelFilter) (int64, error) {
	var n int64
	err := r.scope(ctx, filter).Count(&n).Error
	return n, err
}
