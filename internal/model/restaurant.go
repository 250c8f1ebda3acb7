package model

import "time"

// Entity is implemented by every top-level record that can be archived.
type Entity interface {
	EntityID() string
}

type ContactInfo struct {
	Phone   string `json:"phone,omitempty" yaml:"phone"`
	Email   string `json:"email,omitempty" yaml:"email"`
	Website string `json:"website,omitempty" yaml:"website"`
}

type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

type Restaurant struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	CuisineType string      `json:"cuisine_type"`
	PriceRange  int         `json:"price_range"`
	Contact     ContactInfo `json:"contact"`
	Location    *Location   `json:"location,omitempty"`
	IsActive    bool        `json:"is_active"`
	CreatedBy   string      `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (r Restaurant) EntityID() string { return r.ID }

type RestaurantFilter struct {
	City        string
	CuisineType string
	Name        string
	Page        Page
}

type CreateRestaurantRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	CuisineType string      `json:"cuisine_type"`
	PriceRange  int         `json:"price_range"`
	Contact     ContactInfo `json:"contact"`
	Location    *Location   `json:"location,omitempty"`
}

// UpdateRestaurantRequest carries a partial update; nil fields are left untouched.
type UpdateRestaurantRequest struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Address     *string      `json:"address,omitempty"`
	City        *string      `json:"city,omitempty"`
	CuisineType *string      `json:"cuisine_type,omitempty"`
	PriceRange  *int         `json:"price_range,omitempty"`
	Contact     *ContactInfo `json:"contact,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	IsActive    *bool        `json:"is_active,omitempty"`
}

type RestaurantListData struct {
	Items []Restaurant `json:"items"`
}

// CatalogEntry is one restaurant with its menu, as loaded from seed data.
type CatalogEntry struct {
	Restaurant CreateRestaurantRequest
	Dishes     []CreateDishRequest
}
