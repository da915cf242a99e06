package model

import "strings"

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ParseRole разбирает роль из текста команды, по умолчанию student
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent, "":
		return RoleStudent, true
	case RoleInstructor:
		return RoleInstructor, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return RoleStudent, false
	}
}

// CanReserve может ли роль открывать форму бронирования из свободного слота
func (r Role) CanReserve() bool {
	return r == RoleInstructor
}

// IsAdmin доступны ли одобрение заявок и отчёты
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
