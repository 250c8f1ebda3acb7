package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database/databasetest"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/repository"
)

func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	db := databasetest.Open(t)
	session := db.NewSession()
	t.Cleanup(func() { _ = session.Close() })
	return repository.New(session)
}

func seedRestaurant(t *testing.T, repos *repository.Repositories, name, city string) model.Restaurant {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rest := model.Restaurant{
		ID:          uuid.NewString(),
		Name:        name,
		Description: "Cocina boyacense",
		Address:     "Calle 19 # 9-35",
		City:        city,
		CuisineType: "tipica",
		PriceRange:  2,
		Contact:     model.ContactInfo{Phone: "+57 608 742 0000", Email: "hola@example.co"},
		Location:    &model.Location{Latitude: 5.5353, Longitude: -73.3678},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repos.Restaurants.Create(context.Background(), rest, true))
	return rest
}

func seedDish(t *testing.T, repos *repository.Repositories, restaurantID, name string) model.Dish {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	dish := model.Dish{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        24000,
		Category:     "sopas",
		IsAvailable:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repos.Dishes.Create(context.Background(), dish, true))
	return dish
}

func seedUser(t *testing.T, repos *repository.Repositories, email, role string) model.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     "Usuario de prueba",
		PasswordHash: "$2a$10$hash",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repos.Users.Create(context.Background(), u, true))
	return u
}
