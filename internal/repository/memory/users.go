package memory

import (
	"context"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.s.write(ctx, "users.create", func(d *data) error {
		for _, u := range d.users {
			if u.Email == user.Email {
				return repository.UniqueViolation("idx_users_email")
			}
			if u.Username == user.Username {
				return repository.UniqueViolation("idx_users_username")
			}
		}
		now := r.s.now()
		user.ID = newID(user.ID)
		user.CreatedAt, user.UpdatedAt = now, now
		if user.Role == "" {
			user.Role = model.RoleUser
		}
		d.users[user.ID] = *user
		d.userOrder = append(d.userOrder, user.ID)
		return nil
	})
}

func (r *userRepo) CreateStore(ctx context.Context, store *model.AdminStore) error {
	return r.s.write(ctx, "admin_stores.create", func(d *data) error {
		if _, ok := d.stores[store.AdminID]; ok {
			return repository.UniqueViolation("admin_stores_pkey")
		}
		store.CreatedAt = r.s.now()
		d.stores[store.AdminID] = *store
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.ID == id })
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.Email == email })
}

func (r *userRepo) GetByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (r *userRepo) find(ctx context.Context, match func(model.User) bool) (*model.User, error) {
	var found *model.User
	_ = r.s.read(ctx, func(d *data) error {
		for _, id := range d.userOrder {
			if u, ok := d.users[id]; ok && match(u) {
				found = &u
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *userRepo) GetStore(ctx context.Context, adminID uuid.UUID) (*model.AdminStore, error) {
	var found *model.AdminStore
	_ = r.s.read(ctx, func(d *data) error {
		if st, ok := d.stores[adminID]; ok {
			found = &st
		}
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *userRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	_, err := r.find(ctx, func(u model.User) bool { return u.Email == email || u.Username == username })
	if repository.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepo) update(ctx context.Context, op string, id uuid.UUID, fn func(u *model.User)) error {
	return r.s.write(ctx, op, func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return nil
		}
		fn(&u)
		u.UpdatedAt = r.s.now()
		d.users[id] = u
		return nil
	})
}

func (r *userRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, "users.verify", id, func(u *model.User) {
		u.IsVerified = true
		u.VerificationToken = nil
	})
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.update(ctx, "users.password", id, func(u *model.User) { u.Password = hash })
}

func (r *userRepo) UpdateProfilePicture(ctx context.Context, id uuid.UUID, path string) error {
	return r.update(ctx, "users.profile_picture", id, func(u *model.User) { u.ProfilePicture = &path })
}

// SetRole changes a stored user's role. Tests use it to model a demotion after login.
func (s *Store) SetRole(id uuid.UUID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.d.users[id]; ok {
		u.Role = role
		s.d.users[id] = u
	}
}
