package domain

import "time"

// Tier is the ordinal access level carried by a user and their session key.
type Tier string

const (
	TierBasic         Tier = "basic"
	TierAdvanced      Tier = "advanced"
	TierAdministrator Tier = "administrator"
)

// Level returns the ordinal rank of the tier (basic=0 < advanced=1 <
// administrator=2). Unknown tiers rank below basic so they never authorize.
func (t Tier) Level() int {
	switch t {
	case TierBasic:
		return 0
	case TierAdvanced:
		return 1
	case TierAdministrator:
		return 2
	default:
		return -1
	}
}

// Meets reports whether the tier satisfies the required minimum tier.
func (t Tier) Meets(min Tier) bool {
	return t.Level() >= 0 && t.Level() >= min.Level()
}

// ParseTier validates a tier string.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierBasic, TierAdvanced, TierAdministrator:
		return Tier(s), true
	}
	return "", false
}

// User models an account that can log in. Email is unique and matched
// case-insensitively at login; the password is stored only as a bcrypt hash.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Tier         Tier      `json:"tier" bson:"tier"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Identity is the resolved view of a session key: who the caller is and the
// tier every authorization decision is based on.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Tier        Tier   `json:"tier"`
}
