package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/storage"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the interface for back-office account data access
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, fn func(*domain.User) error) (domain.User, error)
}

type userRepository struct {
	mu  sync.Mutex
	doc document[domain.User]
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(kv storage.Store, keys storage.Keys) UserRepository {
	return &userRepository{doc: document[domain.User]{kv: kv, key: keys.Users(), name: "users"}}
}

// Create appends user. Emails are unique ignoring case.
func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.doc.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrUserAlreadyExists
		}
	}

	return r.doc.save(ctx, append(users, user))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	users, err := r.doc.load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

func (r *userRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	users, err := r.doc.load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.doc.load(ctx)
}

func (r *userRepository) Update(ctx context.Context, id string, fn func(*domain.User) error) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.doc.load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		updated := users[i]
		if err := fn(&updated); err != nil {
			return domain.User{}, err
		}
		users[i] = updated
		if err := r.doc.save(ctx, users); err != nil {
			return domain.User{}, err
		}
		return updated, nil
	}
	return domain.User{}, ErrUserNotFound
}
