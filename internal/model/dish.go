package model

import "time"

type Dish struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Category     string    `json:"category"`
	IsAvailable  bool      `json:"is_available"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (d Dish) EntityID() string { return d.ID }

type CreateDishRequest struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Price       int64  `json:"price" yaml:"price"`
	Category    string `json:"category" yaml:"category"`
	IsAvailable *bool  `json:"is_available,omitempty" yaml:"is_available"`
	ImageURL    string `json:"image_url,omitempty" yaml:"image_url"`
}

type UpdateDishRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type DishListData struct {
	Items []Dish `json:"items"`
}
