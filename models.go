package tokenauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity record. The email is the unique, stable key; only the
// display name is mutable, and only through IdentityStore.UpdateDisplayName.
// The password is stored in clear by design (documented hardening gap) and is
// excluded from every serialization path.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Password      string     `bun:"password,notnull" json:"-"`
	DisplayName   string     `bun:"display_name" json:"name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Profile is the sanitized projection of a User returned from handlers. It is
// the only user shape that crosses the API boundary.
type Profile struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// Profile returns the sanitized projection of the user
func (u *User) Profile() *Profile {
	return &Profile{
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

// Clone returns a copy safe to hand outside the store's lock
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// Item is a public catalog entry
type Item struct {
	bun.BaseModel `bun:"table:items,alias:itm"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	Price         int64  `bun:"price,notnull" json:"price"`
}
