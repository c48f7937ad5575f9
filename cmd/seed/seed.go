package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
	"github.com/Anittaa1111/Hostel-Management/internal/utils"
)

const (
	adminEmail   = "admin@hostel.com"
	ownerEmail   = "owner@hostel.com"
	seedPassword = "admin123"
)

type seedResult struct {
	Users   int
	Hostels int
}

var sampleHostels = []models.Hostel{
	{
		Name:           "Sunshine Hostel",
		Location:       "Boring Road, Patna",
		Address:        "123, Boring Road, Near Patna Junction, Patna - 800001",
		Gender:         models.GenderCoed,
		Price:          8000,
		Description:    "A premium hostel with modern amenities and excellent connectivity. Perfect for students and working professionals.",
		Amenities:      []string{"WiFi", "AC", "Laundry", "Mess", "TV", "Gym"},
		Images:         []string{"https://images.unsplash.com/photo-1555854877-bab0e564b8d5", "https://images.unsplash.com/photo-1522771739844-6a9f6d5f14af"},
		Distance:       "1 km from Patna Junction",
		TotalRooms:     50,
		AvailableRooms: 12,
		Rating:         4.5,
		Reviews:        89,
		Featured:       true,
		Verified:       true,
	},
	{
		Name:           "Green Valley Hostel",
		Location:       "Kankarbagh, Patna",
		Address:        "456, Main Road, Kankarbagh, Patna - 800020",
		Gender:         models.GenderBoys,
		Price:          6500,
		Description:    "Comfortable and affordable hostel for boys with 24/7 security and good food.",
		Amenities:      []string{"WiFi", "Mess", "Parking", "Security", "Common Room"},
		Images:         []string{"https://images.unsplash.com/photo-1564501049412-61c2a3083791", "https://images.unsplash.com/photo-1631049307264-da0ec9d70304"},
		Distance:       "3 km from Patna Junction",
		TotalRooms:     30,
		AvailableRooms: 8,
		Rating:         4.2,
		Reviews:        56,
		Featured:       true,
		Verified:       true,
	},
	{
		Name:           "Rose Garden Hostel",
		Location:       "Patliputra Colony, Patna",
		Address:        "789, Patliputra Colony, Patna - 800013",
		Gender:         models.GenderGirls,
		Price:          9000,
		Description:    "Safe and secure hostel for girls with strict security measures and home-like atmosphere.",
		Amenities:      []string{"WiFi", "AC", "Laundry", "Mess", "CCTV", "Security Guard"},
		Images:         []string{"https://images.unsplash.com/photo-1595526114035-0d45ed16cfbf", "https://images.unsplash.com/photo-1598928506311-c55ded91a20c"},
		Distance:       "2.5 km from Patna Junction",
		TotalRooms:     40,
		AvailableRooms: 15,
		Rating:         4.7,
		Reviews:        123,
		Featured:       true,
		Verified:       true,
	},
	{
		Name:           "Student Paradise",
		Location:       "Rajendra Nagar, Patna",
		Address:        "321, Rajendra Nagar, Near IT Park, Patna - 800016",
		Gender:         models.GenderCoed,
		Price:          7500,
		Description:    "Modern hostel near IT companies and colleges with excellent facilities.",
		Amenities:      []string{"WiFi", "Mess", "Study Room", "Parking", "Power Backup"},
		Images:         []string{"https://images.unsplash.com/photo-1555854877-bab0e564b8d5"},
		Distance:       "4 km from Patna Junction",
		TotalRooms:     35,
		AvailableRooms: 10,
		Rating:         4.3,
		Reviews:        67,
		Verified:       true,
	},
	{
		Name:           "Budget Hostel",
		Location:       "Gandhi Maidan, Patna",
		Address:        "654, Gandhi Maidan Area, Patna - 800004",
		Gender:         models.GenderBoys,
		Price:          5000,
		Description:    "Affordable hostel with basic amenities for budget-conscious students.",
		Amenities:      []string{"WiFi", "Mess", "Common Room"},
		Images:         []string{"https://images.unsplash.com/photo-1564501049412-61c2a3083791"},
		Distance:       "1.5 km from Patna Junction",
		TotalRooms:     25,
		AvailableRooms: 5,
		Rating:         3.8,
		Reviews:        34,
	},
	{
		Name:           "Luxury Stay Hostel",
		Location:       "Bailey Road, Patna",
		Address:        "987, Bailey Road, Near Market, Patna - 800014",
		Gender:         models.GenderCoed,
		Price:          12000,
		Description:    "Premium hostel with luxury amenities and excellent service.",
		Amenities:      []string{"WiFi", "AC", "Laundry", "Mess", "Gym", "Swimming Pool", "Gaming Room"},
		Images:         []string{"https://images.unsplash.com/photo-1555854877-bab0e564b8d5", "https://images.unsplash.com/photo-1631049307264-da0ec9d70304"},
		Distance:       "2 km from Patna Junction",
		TotalRooms:     60,
		AvailableRooms: 20,
		Rating:         4.8,
		Reviews:        156,
		Featured:       true,
		Verified:       true,
	},
}

// seed wipes users and hostels, then recreates the fixture data.
func seed(ctx context.Context, store *repository.Store, now func() time.Time) (seedResult, error) {
	var res seedResult

	hostels, err := store.Hostels.List(ctx, repository.HostelFilter{})
	if err != nil {
		return res, fmt.Errorf("list hostels: %w", err)
	}
	for _, h := range hostels {
		if err := store.Hostels.Delete(ctx, h.ID); err != nil {
			return res, fmt.Errorf("delete hostel %s: %w", h.ID, err)
		}
	}
	users, err := store.Users.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if err := store.Users.Delete(ctx, u.ID); err != nil {
			return res, fmt.Errorf("delete user %s: %w", u.ID, err)
		}
	}

	hash, err := utils.HashPassword(seedPassword)
	if err != nil {
		return res, err
	}

	admin := &models.User{
		Name: "Central Admin", Email: adminEmail, Phone: "9876543210", PasswordHash: hash,
		Role: models.RoleCentralAuthority, IsActive: true, IsVerified: true,
	}
	owner := &models.User{
		Name: "Hostel Owner", Email: ownerEmail, Phone: "9876543211", PasswordHash: hash,
		Role: models.RoleHostelAuthority, IsActive: true, IsVerified: true,
	}
	for _, u := range []*models.User{admin, owner} {
		if err := store.Users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create %s: %w", u.Email, err)
		}
		res.Users++
	}

	for i, sample := range sampleHostels {
		hostel := sample
		hostel.OwnerID = owner.ID
		hostel.IsActive = true
		hostel.Slug = models.HostelSlug(hostel.Name, now().Add(time.Duration(i)*time.Millisecond))
		if err := hostel.Validate(); err != nil {
			return res, fmt.Errorf("sample %q: %w", hostel.Name, err)
		}
		if err := store.Hostels.Create(ctx, &hostel); err != nil {
			return res, fmt.Errorf("create hostel %q: %w", hostel.Name, err)
		}
		res.Hostels++
	}
	return res, nil
}
