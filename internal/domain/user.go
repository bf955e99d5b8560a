package domain

import "time"

// Role of a back-office account
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

func (r *Role) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "role", func(v string) bool { return Role(v).Valid() })
	if err != nil {
		return err
	}
	*r = Role(v)
	return nil
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserPending  UserStatus = "pending"
	UserInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserPending || s == UserInactive
}

func (s *UserStatus) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "user status", func(v string) bool { return UserStatus(v).Valid() })
	if err != nil {
		return err
	}
	*s = UserStatus(v)
	return nil
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

func (s InvitationStatus) Valid() bool {
	return s == InvitationPending || s == InvitationAccepted || s == InvitationExpired
}

func (s *InvitationStatus) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "invitation status", func(v string) bool { return InvitationStatus(v).Valid() })
	if err != nil {
		return err
	}
	*s = InvitationStatus(v)
	return nil
}

// User is a back-office account record. No credentials are kept.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	InvitedAt time.Time  `json:"invitedAt"`
	JoinedAt  *time.Time `json:"joinedAt,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// UserInvitation is a pending offer to join the back-office team
type UserInvitation struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Role      Role             `json:"role"`
	InvitedBy string           `json:"invitedBy"`
	InvitedAt time.Time        `json:"invitedAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Status    InvitationStatus `json:"status"`
	Token     string           `json:"token"`
}

// Expired reports whether the invitation can no longer be accepted at now
func (i UserInvitation) Expired(now time.Time) bool {
	return i.Status == InvitationExpired || !now.Before(i.ExpiresAt)
}

// CookiePreferences records a visitor's consent choice. Necessary cookies cannot be refused.
type CookiePreferences struct {
	Necessary bool `json:"necessary"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}
