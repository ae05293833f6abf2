package model

type UserRole string

const (
	UserRoleCandidate UserRole = "candidate"
	UserRoleEmployer  UserRole = "employer"
	UserRoleAdmin     UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCandidate, UserRoleEmployer, UserRoleAdmin:
		return true
	default:
		return false
	}
}
