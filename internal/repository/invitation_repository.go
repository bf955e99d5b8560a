package repository

import (
	"context"
	"errors"
	"sync"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/storage"
)

var ErrInvitationNotFound = errors.New("invitation not found")

// InvitationRepository defines the interface for team invitation data access
type InvitationRepository interface {
	Create(ctx context.Context, invitation domain.UserInvitation) error
	FindByID(ctx context.Context, id string) (domain.UserInvitation, error)
	List(ctx context.Context) ([]domain.UserInvitation, error)
	Update(ctx context.Context, id string, fn func(*domain.UserInvitation) error) (domain.UserInvitation, error)
	Delete(ctx context.Context, id string) error
}

type invitationRepository struct {
	mu  sync.Mutex
	doc document[domain.UserInvitation]
}

// NewInvitationRepository creates a new instance of InvitationRepository
func NewInvitationRepository(kv storage.Store, keys storage.Keys) InvitationRepository {
	return &invitationRepository{doc: document[domain.UserInvitation]{kv: kv, key: keys.Invitations(), name: "invitations"}}
}

func (r *invitationRepository) Create(ctx context.Context, invitation domain.UserInvitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	invitations, err := r.doc.load(ctx)
	if err != nil {
		return err
	}
	return r.doc.save(ctx, append(invitations, invitation))
}

func (r *invitationRepository) FindByID(ctx context.Context, id string) (domain.UserInvitation, error) {
	invitations, err := r.doc.load(ctx)
	if err != nil {
		return domain.UserInvitation{}, err
	}
	for _, inv := range invitations {
		if inv.ID == id {
			return inv, nil
		}
	}
	return domain.UserInvitation{}, ErrInvitationNotFound
}

func (r *invitationRepository) List(ctx context.Context) ([]domain.UserInvitation, error) {
	return r.doc.load(ctx)
}

func (r *invitationRepository) Update(ctx context.Context, id string, fn func(*domain.UserInvitation) error) (domain.UserInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	invitations, err := r.doc.load(ctx)
	if err != nil {
		return domain.UserInvitation{}, err
	}
	for i := range invitations {
		if invitations[i].ID != id {
			continue
		}
		updated := invitations[i]
		if err := fn(&updated); err != nil {
			return domain.UserInvitation{}, err
		}
		invitations[i] = updated
		if err := r.doc.save(ctx, invitations); err != nil {
			return domain.UserInvitation{}, err
		}
		return updated, nil
	}
	return domain.UserInvitation{}, ErrInvitationNotFound
}

func (r *invitationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	invitations, err := r.doc.load(ctx)
	if err != nil {
		return err
	}
	for i := range invitations {
		if invitations[i].ID == id {
			return r.doc.save(ctx, append(invitations[:i], invitations[i+1:]...))
		}
	}
	return ErrInvitationNotFound
}
