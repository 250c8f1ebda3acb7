package service

import (
	"context"
	"strings"
	"time"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

type UserService struct {
	db  SessionFactory
	bus event.Bus
}

func NewUserService(db SessionFactory, bus event.Bus) *UserService {
	return &UserService{db: db, bus: bus}
}

func (s *UserService) List(ctx context.Context, page model.Page) ([]model.User, model.Meta, error) {
	repos, done := open(s.db)
	defer done()

	page = page.Normalize()
	users, total, err := repos.Users.List(ctx, page)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return users, page.Meta(total), nil
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	repos, done := open(s.db)
	defer done()

	return repos.Users.GetByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, actor model.Actor, id string, req model.UpdateUserRequest) (model.User, error) {
	if !actor.IsAdmin() {
		return model.User{}, model.ErrForbidden
	}

	repos, done := open(s.db)
	defer done()

	u, err := repos.Users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if !model.ValidRole(role) {
			return model.User{}, apierror.BadRequest("invalid role", role)
		}
		if u.ID == actor.UserID && role != model.RoleAdmin {
			return model.User{}, apierror.BadRequest("admins cannot demote themselves", "")
		}
		u.Role = role
	}
	if req.FullName != nil {
		if u.FullName, err = optionalText("full_name", *req.FullName, maxNameLength); err != nil {
			return model.User{}, err
		}
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
		if !u.IsActive {
			if err := repos.Tokens.RevokeAllForUser(ctx, u.ID, false); err != nil {
				return model.User{}, err
			}
		}
	}
	u.UpdatedAt = time.Now().UTC()

	if err := repos.Users.Update(ctx, u, true); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Delete archives the user and removes the account. Tokens, ownerships and
// favorites go with it. The password hash is never part of the snapshot.
func (s *UserService) Delete(ctx context.Context, actor model.Actor, id string, note string) (model.Archive, error) {
	if !actor.IsAdmin() {
		return model.Archive{}, model.ErrForbidden
	}
	if id == actor.UserID {
		return model.Archive{}, apierror.BadRequest("admins cannot delete their own account", id)
	}

	repos, done := open(s.db)
	defer done()

	deleter := NewArchiveDeleter[model.User](model.TableUsers, model.ErrUserNotFound,
		repos.Users, repos.Archives, repos.Session)
	archive, err := deleter.Execute(ctx, id, actor.ID(), optionalNote(note))
	if err != nil {
		return model.Archive{}, err
	}

	publish(s.bus, event.TypeUserArchived, archive, actor.UserID)
	return archive, nil
}
