package auth

import (
	"strings"
	"time"
)

// Roles a user can sign up with. The role is fixed at signup; profile
// updates never touch it.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// ValidRole reports whether role is one of the accepted account roles.
func ValidRole(role string) bool {
	return role == RoleTeacher || role == RoleStudent
}

// User represents a marketplace account together with its profile fields.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	EducationLevel   string    `json:"education_level,omitempty"`
	SkillsInterests  string    `json:"skills_interests,omitempty"`
	EnrolledCourses  []int64   `json:"enrolled_courses"`
	CompletedCourses []int64   `json:"completed_courses"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Redacted returns a copy with the credential hash stripped. Handlers attach
// only redacted users to responses and request contexts.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

// NormalizeEmail canonicalizes an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
