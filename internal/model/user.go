package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password is stored only as a bcrypt hash; outward-facing
// responses must use UserPublic, which has no hash field at all.
//
// Fields:
//  ID             – primary key identifier of the user.
//  Name           – unique login handle.
//  Email          – optional unique email address (nil when not provided).
//  HashedPassword – bcrypt hash of the password.
//  CreatedAt      – timestamp of creation (server default).
//  LastLogin      – timestamp of last login (server default; never updated on reads).
//  Disabled       – whether the account is blocked from authenticating.
type User struct {
	ID             uint64    // users.id
	Name           string    // users.name
	Email          *string   // users.email (nullable)
	HashedPassword string    // users.hashed_password
	CreatedAt      time.Time // users.created_at
	LastLogin      time.Time // users.last_login
	Disabled       bool      // users.disabled
}

// UserPublic is the wire projection of a User. It deliberately has no
// password field so a hash can never be serialized by accident.
type UserPublic struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
	Disabled  bool      `json:"disabled"`
}

// Public returns the outward-facing projection of the user.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
		Disabled:  u.Disabled,
	}
}
