package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

type DishService struct {
	db  SessionFactory
	bus event.Bus
}

func NewDishService(db SessionFactory, bus event.Bus) *DishService {
	return &DishService{db: db, bus: bus}
}

func (s *DishService) Get(ctx context.Context, id string) (model.Dish, error) {
	repos, done := open(s.db)
	defer done()

	return repos.Dishes.GetByID(ctx, id)
}

func (s *DishService) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Dish, error) {
	repos, done := open(s.db)
	defer done()

	exists, err := repos.Restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrRestaurantNotFound
	}
	return repos.Dishes.ListByRestaurant(ctx, restaurantID)
}

func (s *DishService) Create(ctx context.Context, actor model.Actor, restaurantID string, req model.CreateDishRequest) (model.Dish, error) {
	repos, done := open(s.db)
	defer done()

	exists, err := repos.Restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return model.Dish{}, err
	}
	if !exists {
		return model.Dish{}, model.ErrRestaurantNotFound
	}
	if err := canManageRestaurant(ctx, repos, actor, restaurantID); err != nil {
		return model.Dish{}, err
	}

	dish, err := newDish(restaurantID, req)
	if err != nil {
		return model.Dish{}, err
	}
	if err := repos.Dishes.Create(ctx, dish, true); err != nil {
		return model.Dish{}, err
	}

	publish(s.bus, event.TypeDishCreated, dish, actor.UserID)
	return dish, nil
}

func newDish(restaurantID string, req model.CreateDishRequest) (model.Dish, error) {
	name, err := requireText("name", req.Name, maxNameLength)
	if err != nil {
		return model.Dish{}, err
	}
	description, err := optionalText("description", req.Description, maxDescriptionLength)
	if err != nil {
		return model.Dish{}, err
	}
	if err := validatePrice(req.Price); err != nil {
		return model.Dish{}, err
	}
	if err := validateURL("image_url", req.ImageURL); err != nil {
		return model.Dish{}, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	now := time.Now().UTC()
	return model.Dish{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         name,
		Description:  description,
		Price:        req.Price,
		Category:     req.Category,
		IsAvailable:  available,
		ImageURL:     req.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *DishService) Update(ctx context.Context, actor model.Actor, id string, req model.UpdateDishRequest) (model.Dish, error) {
	repos, done := open(s.db)
	defer done()

	dish, err := repos.Dishes.GetByID(ctx, id)
	if err != nil {
		return model.Dish{}, err
	}
	if err := canManageRestaurant(ctx, repos, actor, dish.RestaurantID); err != nil {
		return model.Dish{}, err
	}

	if req.Name != nil {
		if dish.Name, err = requireText("name", *req.Name, maxNameLength); err != nil {
			return model.Dish{}, err
		}
	}
	if req.Description != nil {
		if dish.Description, err = optionalText("description", *req.Description, maxDescriptionLength); err != nil {
			return model.Dish{}, err
		}
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return model.Dish{}, err
		}
		dish.Price = *req.Price
	}
	if req.Category != nil {
		dish.Category = *req.Category
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}
	if req.ImageURL != nil {
		if err := validateURL("image_url", *req.ImageURL); err != nil {
			return model.Dish{}, err
		}
		dish.ImageURL = *req.ImageURL
	}
	dish.UpdatedAt = time.Now().UTC()

	if err := repos.Dishes.Update(ctx, dish, true); err != nil {
		return model.Dish{}, err
	}

	publish(s.bus, event.TypeDishUpdated, dish, actor.UserID)
	return dish, nil
}

// Delete archives the dish and removes it. Owners may delete dishes of
// their own restaurants.
func (s *DishService) Delete(ctx context.Context, actor model.Actor, id string, note string) (model.Archive, error) {
	repos, done := open(s.db)
	defer done()

	dish, err := repos.Dishes.GetByID(ctx, id)
	if err != nil {
		return model.Archive{}, err
	}
	if err := canManageRestaurant(ctx, repos, actor, dish.RestaurantID); err != nil {
		return model.Archive{}, err
	}

	deleter := NewArchiveDeleter[model.Dish](model.TableDishes, model.ErrDishNotFound,
		repos.Dishes, repos.Archives, repos.Session)
	archive, err := deleter.Execute(ctx, id, actor.ID(), optionalNote(note))
	if err != nil {
		return model.Archive{}, err
	}

	publish(s.bus, event.TypeDishArchived, archive, actor.UserID)
	return archive, nil
}
