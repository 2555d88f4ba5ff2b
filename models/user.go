package models

import "time"

const (
	RoleSupervisor    = "supervisor"
	RoleDistrictAdmin = "district_admin"
	RoleStateAnalyst  = "state_analyst"
	RolePolicyMaker   = "policy_maker"
)

// Roles lists every role a portal user can hold.
var Roles = []string{RoleSupervisor, RoleDistrictAdmin, RoleStateAnalyst, RolePolicyMaker}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	UserID    string     `json:"user_id" bson:"user_id"`
	Email     string     `json:"email" bson:"email"`
	Name      string     `json:"name" bson:"name"`
	Picture   *string    `json:"picture" bson:"picture,omitempty"`
	Role      string     `json:"role" bson:"role"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type Session struct {
	Token     string    `json:"session_token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type SessionResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}
