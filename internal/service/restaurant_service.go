package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/repository"
)

type RestaurantService struct {
	db  SessionFactory
	bus event.Bus
}

func NewRestaurantService(db SessionFactory, bus event.Bus) *RestaurantService {
	return &RestaurantService{db: db, bus: bus}
}

func (s *RestaurantService) List(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, model.Meta, error) {
	repos, done := open(s.db)
	defer done()

	filter.Page = filter.Page.Normalize()
	items, total, err := repos.Restaurants.List(ctx, filter)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return items, filter.Page.Meta(total), nil
}

func (s *RestaurantService) Get(ctx context.Context, id string) (model.Restaurant, error) {
	repos, done := open(s.db)
	defer done()

	return repos.Restaurants.GetByID(ctx, id)
}

func (s *RestaurantService) Create(ctx context.Context, actor model.Actor, req model.CreateRestaurantRequest) (model.Restaurant, error) {
	if !actor.IsAdmin() {
		return model.Restaurant{}, model.ErrForbidden
	}

	rest, err := newRestaurant(req, actor.UserID)
	if err != nil {
		return model.Restaurant{}, err
	}

	repos, done := open(s.db)
	defer done()

	if err := repos.Restaurants.Create(ctx, rest, true); err != nil {
		return model.Restaurant{}, err
	}

	publish(s.bus, event.TypeRestaurantCreated, rest, actor.UserID)
	return rest, nil
}

func newRestaurant(req model.CreateRestaurantRequest, createdBy string) (model.Restaurant, error) {
	name, err := requireText("name", req.Name, maxNameLength)
	if err != nil {
		return model.Restaurant{}, err
	}
	city, err := requireText("city", req.City, maxNameLength)
	if err != nil {
		return model.Restaurant{}, err
	}
	description, err := optionalText("description", req.Description, maxDescriptionLength)
	if err != nil {
		return model.Restaurant{}, err
	}

	if req.PriceRange == 0 {
		req.PriceRange = 1
	}
	if err := validatePriceRange(req.PriceRange); err != nil {
		return model.Restaurant{}, err
	}
	if err := validateContact(req.Contact); err != nil {
		return model.Restaurant{}, err
	}
	if err := validateLocation(req.Location); err != nil {
		return model.Restaurant{}, err
	}

	now := time.Now().UTC()
	return model.Restaurant{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Address:     req.Address,
		City:        city,
		CuisineType: req.CuisineType,
		PriceRange:  req.PriceRange,
		Contact:     req.Contact,
		Location:    req.Location,
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *RestaurantService) Update(ctx context.Context, actor model.Actor, id string, req model.UpdateRestaurantRequest) (model.Restaurant, error) {
	repos, done := open(s.db)
	defer done()

	rest, err := repos.Restaurants.GetByID(ctx, id)
	if err != nil {
		return model.Restaurant{}, err
	}
	if err := canManageRestaurant(ctx, repos, actor, rest.ID); err != nil {
		return model.Restaurant{}, err
	}

	if req.Name != nil {
		if rest.Name, err = requireText("name", *req.Name, maxNameLength); err != nil {
			return model.Restaurant{}, err
		}
	}
	if req.City != nil {
		if rest.City, err = requireText("city", *req.City, maxNameLength); err != nil {
			return model.Restaurant{}, err
		}
	}
	if req.Description != nil {
		if rest.Description, err = optionalText("description", *req.Description, maxDescriptionLength); err != nil {
			return model.Restaurant{}, err
		}
	}
	if req.Address != nil {
		rest.Address = *req.Address
	}
	if req.CuisineType != nil {
		rest.CuisineType = *req.CuisineType
	}
	if req.PriceRange != nil {
		if err := validatePriceRange(*req.PriceRange); err != nil {
			return model.Restaurant{}, err
		}
		rest.PriceRange = *req.PriceRange
	}
	if req.Contact != nil {
		if err := validateContact(*req.Contact); err != nil {
			return model.Restaurant{}, err
		}
		rest.Contact = *req.Contact
	}
	if req.Location != nil {
		if err := validateLocation(req.Location); err != nil {
			return model.Restaurant{}, err
		}
		rest.Location = req.Location
	}
	if req.IsActive != nil {
		rest.IsActive = *req.IsActive
	}
	rest.UpdatedAt = time.Now().UTC()

	if err := repos.Restaurants.Update(ctx, rest, true); err != nil {
		return model.Restaurant{}, err
	}

	publish(s.bus, event.TypeRestaurantUpdated, rest, actor.UserID)
	return rest, nil
}

// Delete archives the restaurant and removes it. Restaurants that still
// have dishes fail with a constraint violation and stay untouched.
func (s *RestaurantService) Delete(ctx context.Context, actor model.Actor, id string, note string) (model.Archive, error) {
	if !actor.IsAdmin() {
		return model.Archive{}, model.ErrForbidden
	}

	repos, done := open(s.db)
	defer done()

	deleter := NewArchiveDeleter[model.Restaurant](model.TableRestaurants, model.ErrRestaurantNotFound,
		repos.Restaurants, repos.Archives, repos.Session)
	archive, err := deleter.Execute(ctx, id, actor.ID(), optionalNote(note))
	if err != nil {
		return model.Archive{}, err
	}

	publish(s.bus, event.TypeRestaurantArchived, archive, actor.UserID)
	return archive, nil
}

func (s *RestaurantService) ListOwners(ctx context.Context, restaurantID string) ([]model.RestaurantOwner, error) {
	repos, done := open(s.db)
	defer done()

	if _, err := repos.Restaurants.GetByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return repos.Owners.ListByRestaurant(ctx, restaurantID)
}

// AssignOwner links a user to a restaurant, promoting plain users to the
// owner role in the same transaction.
func (s *RestaurantService) AssignOwner(ctx context.Context, actor model.Actor, restaurantID, userID string) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}

	repos, done := open(s.db)
	defer done()

	if _, err := repos.Restaurants.GetByID(ctx, restaurantID); err != nil {
		return err
	}
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	owned, err := repos.Owners.IsOwner(ctx, restaurantID, userID)
	if err != nil {
		return err
	}
	if owned {
		return nil
	}

	if user.Role == model.RoleUser {
		user.Role = model.RoleOwner
		user.UpdatedAt = time.Now().UTC()
		if err := repos.Users.Update(ctx, user, false); err != nil {
			return err
		}
	}
	return repos.Owners.Assign(ctx, restaurantID, userID, true)
}

func (s *RestaurantService) RemoveOwner(ctx context.Context, actor model.Actor, restaurantID, userID string) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}

	repos, done := open(s.db)
	defer done()

	return repos.Owners.Remove(ctx, restaurantID, userID, true)
}

func (s *RestaurantService) Owned(ctx context.Context, actor model.Actor) ([]model.Restaurant, error) {
	repos, done := open(s.db)
	defer done()

	return repos.Owners.ListRestaurants(ctx, actor.UserID)
}

// canManageRestaurant allows admins and the restaurant's owners.
func canManageRestaurant(ctx context.Context, repos *repository.Repositories, actor model.Actor, restaurantID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.UserID == "" {
		return model.ErrUnauthorized
	}

	owner, err := repos.Owners.IsOwner(ctx, restaurantID, actor.UserID)
	if err != nil {
		return err
	}
	if !owner {
		return model.ErrForbidden
	}
	return nil
}
