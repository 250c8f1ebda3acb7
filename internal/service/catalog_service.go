package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

// ImportCatalog writes restaurants and their dishes in one transaction. It
// does nothing when any restaurant already exists and reports how many
// restaurants were written.
func (s *RestaurantService) ImportCatalog(ctx context.Context, entries []model.CatalogEntry) (int, error) {
	repos, done := open(s.db)
	defer done()

	_, total, err := repos.Restaurants.List(ctx, model.RestaurantFilter{Page: model.Page{Limit: 1}})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		slog.Info("catalog import skipped", "existing_restaurants", total)
		return 0, nil
	}

	dishes := 0
	for i, entry := range entries {
		rest, err := newRestaurant(entry.Restaurant, "")
		if err != nil {
			return 0, fmt.Errorf("restaurant %d: %w", i, err)
		}
		if err := repos.Restaurants.Create(ctx, rest, false); err != nil {
			return 0, err
		}

		for j, req := range entry.Dishes {
			dish, err := newDish(rest.ID, req)
			if err != nil {
				return 0, fmt.Errorf("restaurant %d dish %d: %w", i, j, err)
			}
			if err := repos.Dishes.Create(ctx, dish, false); err != nil {
				return 0, err
			}
			dishes++
		}
	}

	if err := repos.Session.Commit(); err != nil {
		return 0, err
	}

	slog.Info("catalog imported", "restaurants", len(entries), "dishes", dishes)
	return len(entries), nil
}
