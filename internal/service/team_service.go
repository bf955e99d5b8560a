package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/notify"
	"burns-farm-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken         = errors.New("invalid invitation token")
	ErrInvitationExpired    = errors.New("invitation has expired")
	ErrInvitationNotPending = errors.New("invitation is no longer pending")
)

const defaultInviter = "Current Admin"

// InviteInput is the admin invitation form
type InviteInput struct {
	Email     string      `json:"email" validate:"required,email"`
	FirstName string      `json:"firstName" validate:"required,max=100"`
	LastName  string      `json:"lastName" validate:"required,max=100"`
	Role      domain.Role `json:"role" validate:"required"`
	InvitedBy string      `json:"invitedBy" validate:"max=200"`
}

// InvitationClaims are carried by the signed invitation token
type InvitationClaims struct {
	InvitationID string      `json:"invitation_id"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// InvitationSettings configures token signing and the link sent by email
type InvitationSettings struct {
	Secret  string
	TTL     time.Duration
	BaseURL string
}

// TeamService defines the interface for back-office users and their invitations
type TeamService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ActivateUser(ctx context.Context, id string) (domain.User, error)
	DeactivateUser(ctx context.Context, id string) (domain.User, error)

	ListInvitations(ctx context.Context) ([]domain.UserInvitation, error)
	Invite(ctx context.Context, in InviteInput) (domain.UserInvitation, error)
	Resend(ctx context.Context, id string) (domain.UserInvitation, error)
	Cancel(ctx context.Context, id string) error
	Accept(ctx context.Context, token string) (domain.User, error)
	ValidateToken(token string) (*InvitationClaims, error)
}

type teamService struct {
	users       repository.UserRepository
	invitations repository.InvitationRepository
	notifier    notify.Notifier
	dispatcher  *notify.Dispatcher
	ids         *IDGenerator
	settings    InvitationSettings
	now         func() time.Time
	logger      *zap.Logger
}

// NewTeamService creates a new instance of TeamService
func NewTeamService(
	users repository.UserRepository,
	invitations repository.InvitationRepository,
	notifier notify.Notifier,
	dispatcher *notify.Dispatcher,
	ids *IDGenerator,
	settings InvitationSettings,
	now func() time.Time,
	logger *zap.Logger,
) TeamService {
	return &teamService{
		users:       users,
		invitations: invitations,
		notifier:    notifier,
		dispatcher:  dispatcher,
		ids:         ids,
		settings:    settings,
		now:         now,
		logger:      logger,
	}
}

func (s *teamService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *teamService) ActivateUser(ctx context.Context, id string) (domain.User, error) {
	return s.setUserStatus(ctx, id, domain.UserActive)
}

func (s *teamService) DeactivateUser(ctx context.Context, id string) (domain.User, error) {
	return s.setUserStatus(ctx, id, domain.UserInactive)
}

func (s *teamService) setUserStatus(ctx context.Context, id string, status domain.UserStatus) (domain.User, error) {
	user, err := s.users.Update(ctx, id, func(u *domain.User) error {
		u.Status = status
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("User status changed", zap.String("user_id", id), zap.String("status", string(status)))
	return user, nil
}

// ListInvitations reports pending invitations past their expiry as expired
func (s *teamService) ListInvitations(ctx context.Context) ([]domain.UserInvitation, error) {
	invitations, err := s.invitations.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range invitations {
		if invitations[i].Status == domain.InvitationPending && invitations[i].Expired(now) {
			invitations[i].Status = domain.InvitationExpired
		}
	}
	return invitations, nil
}

func (s *teamService) Invite(ctx context.Context, in InviteInput) (domain.UserInvitation, error) {
	if err := validate.Struct(in); err != nil {
		return domain.UserInvitation{}, err
	}

	email := strings.TrimSpace(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.UserInvitation{}, repository.ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.UserInvitation{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	invitedBy := strings.TrimSpace(in.InvitedBy)
	if invitedBy == "" {
		invitedBy = defaultInviter
	}

	now := s.now()
	inv := domain.UserInvitation{
		ID:        s.ids.Next(InvitationIDPrefix),
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      in.Role,
		InvitedBy: invitedBy,
		InvitedAt: now,
		ExpiresAt: now.Add(s.settings.TTL),
		Status:    domain.InvitationPending,
	}

	token, err := s.signToken(inv)
	if err != nil {
		return domain.UserInvitation{}, err
	}
	inv.Token = token

	if err := s.invitations.Create(ctx, inv); err != nil {
		return domain.UserInvitation{}, err
	}

	s.logger.Info("Invitation created",
		zap.String("invitation_id", inv.ID),
		zap.String("email", inv.Email),
		zap.String("role", string(inv.Role)),
	)
	s.sendInvitation(inv)

	return inv, nil
}

// Resend issues a fresh token and expiry and emails the invitation again.
// Tokens issued earlier stop working.
func (s *teamService) Resend(ctx context.Context, id string) (domain.UserInvitation, error) {
	now := s.now()
	inv, err := s.invitations.Update(ctx, id, func(inv *domain.UserInvitation) error {
		if inv.Status == domain.InvitationAccepted {
			return ErrInvitationNotPending
		}
		inv.Status = domain.InvitationPending
		inv.ExpiresAt = now.Add(s.settings.TTL)

		token, err := s.signToken(*inv)
		if err != nil {
			return err
		}
		inv.Token = token
		return nil
	})
	if err != nil {
		return domain.UserInvitation{}, err
	}

	s.logger.Info("Invitation resent", zap.String("invitation_id", inv.ID), zap.String("email", inv.Email))
	s.sendInvitation(inv)

	return inv, nil
}

func (s *teamService) Cancel(ctx context.Context, id string) error {
	if err := s.invitations.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Invitation cancelled", zap.String("invitation_id", id))
	return nil
}

// Accept turns a pending invitation into an active user
func (s *teamService) Accept(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		if errors.Is(err, ErrInvitationExpired) && claims != nil {
			// a superseded token must not expire the invitation it was replaced on
			if inv, findErr := s.invitations.FindByID(ctx, claims.InvitationID); findErr == nil && inv.Token == token {
				s.markExpired(ctx, inv.ID)
			} else {
				return domain.User{}, ErrInvalidToken
			}
		}
		return domain.User{}, err
	}

	inv, err := s.invitations.FindByID(ctx, claims.InvitationID)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, err
	}
	if inv.Token != token {
		return domain.User{}, ErrInvalidToken
	}
	if inv.Status != domain.InvitationPending {
		return domain.User{}, ErrInvitationNotPending
	}

	now := s.now()
	if inv.Expired(now) {
		s.markExpired(ctx, inv.ID)
		return domain.User{}, ErrInvitationExpired
	}

	joined := now
	user := domain.User{
		ID:        s.ids.Next(UserIDPrefix),
		Email:     inv.Email,
		FirstName: inv.FirstName,
		LastName:  inv.LastName,
		Role:      inv.Role,
		Status:    domain.UserActive,
		InvitedAt: inv.InvitedAt,
		JoinedAt:  &joined,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	if _, err := s.invitations.Update(ctx, inv.ID, func(i *domain.UserInvitation) error {
		i.Status = domain.InvitationAccepted
		return nil
	}); err != nil {
		return domain.User{}, fmt.Errorf("failed to mark invitation accepted: %w", err)
	}

	s.logger.Info("Invitation accepted",
		zap.String("invitation_id", inv.ID),
		zap.String("user_id", user.ID),
	)
	return user, nil
}

// ValidateToken checks the signature and expiry of an invitation token.
// Expired tokens return their claims together with ErrInvitationExpired.
func (s *teamService) ValidateToken(tokenString string) (*InvitationClaims, error) {
	claims := &InvitationClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.settings.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, ErrInvitationExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.InvitationID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *teamService) signToken(inv domain.UserInvitation) (string, error) {
	claims := InvitationClaims{
		InvitationID: inv.ID,
		Email:        inv.Email,
		Role:         inv.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   inv.ID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(inv.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.settings.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign invitation token: %w", err)
	}
	return signed, nil
}

func (s *teamService) markExpired(ctx context.Context, id string) {
	_, err := s.invitations.Update(ctx, id, func(i *domain.UserInvitation) error {
		if i.Status == domain.InvitationPending {
			i.Status = domain.InvitationExpired
		}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrInvitationNotFound) {
		s.logger.Warn("Failed to mark invitation expired", zap.String("invitation_id", id), zap.Error(err))
	}
}

func (s *teamService) sendInvitation(inv domain.UserInvitation) {
	link := strings.TrimRight(s.settings.BaseURL, "/") + "/" + inv.Token
	subject, body := notify.InvitationEmail(inv, link, s.settings.TTL)
	to := notify.Recipient{Name: strings.TrimSpace(inv.FirstName + " " + inv.LastName), Email: inv.Email}

	s.dispatcher.Schedule(inv.ID, 0, func(ctx context.Context) error {
		return s.notifier.SendEmail(ctx, to, subject, body)
	})
}
