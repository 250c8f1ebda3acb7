package service

import (
	"context"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

type FavoriteService struct {
	db SessionFactory
}

func NewFavoriteService(db SessionFactory) *FavoriteService {
	return &FavoriteService{db: db}
}

func (s *FavoriteService) List(ctx context.Context, actor model.Actor, page model.Page) ([]model.Restaurant, model.Meta, error) {
	repos, done := open(s.db)
	defer done()

	page = page.Normalize()
	items, total, err := repos.Favorites.List(ctx, actor.UserID, page)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return items, page.Meta(total), nil
}

func (s *FavoriteService) Add(ctx context.Context, actor model.Actor, restaurantID string) error {
	repos, done := open(s.db)
	defer done()

	exists, err := repos.Restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrRestaurantNotFound
	}
	return repos.Favorites.Add(ctx, actor.UserID, restaurantID, true)
}

func (s *FavoriteService) Remove(ctx context.Context, actor model.Actor, restaurantID string) error {
	repos, done := open(s.db)
	defer done()

	return repos.Favorites.Remove(ctx, actor.UserID, restaurantID, true)
}
