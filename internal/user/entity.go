// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const (
	RoleAdmin     = "admin"
	RoleEmployer  = "employer"
	RoleJobSeeker = "job_seeker"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmployer, RoleJobSeeker:
		return true
	}
	return false
}
