package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	GenderBoys  = "Boys Only"
	GenderGirls = "Girls Only"
	GenderCoed  = "Co-ed"
)

type Hostel struct {
	ID             string    `gorm:"type:char(36);primaryKey" bson:"_id" json:"id"`
	Name           string    `gorm:"size:255;not null" bson:"name" json:"name"`
	Slug           string    `gorm:"uniqueIndex;size:320;not null" bson:"slug" json:"slug"`
	OwnerID        string    `gorm:"type:char(36);index;not null" bson:"owner" json:"ownerId"`
	Location       string    `gorm:"size:255;not null" bson:"location" json:"location"`
	Address        string    `gorm:"size:512;not null" bson:"address" json:"address"`
	Gender         string    `gorm:"size:32;not null" bson:"gender" json:"gender"`
	Price          float64   `gorm:"not null" bson:"price" json:"price"`
	Description    string    `gorm:"type:text;not null" bson:"description" json:"description"`
	Amenities      []string  `gorm:"serializer:json" bson:"amenities" json:"amenities"`
	Images         []string  `gorm:"serializer:json" bson:"images" json:"images"`
	Rating         float64   `bson:"rating" json:"rating"`
	Reviews        int       `bson:"reviews" json:"reviews"`
	Distance       string    `gorm:"size:64" bson:"distance" json:"distance"`
	TotalRooms     int       `bson:"totalRooms" json:"totalRooms"`
	AvailableRooms int       `bson:"availableRooms" json:"availableRooms"`
	Featured       bool      `gorm:"not null" bson:"featured" json:"featured"`
	Verified       bool      `gorm:"not null;index" bson:"verified" json:"verified"`
	IsActive       bool      `gorm:"not null;index" bson:"isActive" json:"isActive"`
	CreatedAt      time.Time `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (h *Hostel) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// HostelSlug derives a unique URL slug from a hostel name.
func HostelSlug(name string, at time.Time) string {
	return fmt.Sprintf("%s-%d", slug.Make(name), at.UnixMilli())
}

func ValidGender(gender string) bool {
	return gender == GenderBoys || gender == GenderGirls || gender == GenderCoed
}

// Validate checks the field-level rules a hostel must satisfy before it is stored.
func (h *Hostel) Validate() error {
	switch {
	case h.Name == "" || h.Location == "" || h.Address == "" || h.Description == "":
		return errors.New("name, location, address and description are required")
	case !ValidGender(h.Gender):
		return fmt.Errorf("gender must be one of %q, %q, %q", GenderBoys, GenderGirls, GenderCoed)
	case h.Price <= 0:
		return errors.New("price must be positive")
	case h.Rating < 0 || h.Rating > 5:
		return errors.New("rating must be between 0 and 5")
	case h.TotalRooms < 0 || h.AvailableRooms < 0:
		return errors.New("room counts cannot be negative")
	case h.AvailableRooms > h.TotalRooms:
		return errors.New("available rooms cannot exceed total rooms")
	}
	return nil
}

// OwnerSummary is the public view of a hostel owner.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type HostelView struct {
	Hostel
	Owner *OwnerSummary `json:"owner,omitempty"`
}
