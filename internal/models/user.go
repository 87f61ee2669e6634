package models

import (
	"strings"
	"unicode/utf8"
)

// MaxUsernameLength is the longest username accepted, counted in characters
// after surrounding whitespace is trimmed.
const MaxUsernameLength = 50

// Gender is the closed set of genders a user may declare.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

// ProjectID identifies one of the projects a user can be assigned to.
type ProjectID int

const (
	ProjectOne   ProjectID = 1
	ProjectTwo   ProjectID = 2
	ProjectThree ProjectID = 3
)

// Valid reports whether p is one of the known projects.
func (p ProjectID) Valid() bool {
	switch p {
	case ProjectOne, ProjectTwo, ProjectThree:
		return true
	}
	return false
}

// User represents a user record.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Gender    Gender    `json:"gender" gorm:"type:varchar(16);not null"`
	ProjectID ProjectID `json:"project_id" gorm:"not null"`
}

// TableName pins the collection name.
func (User) TableName() string {
	return "users"
}

// CreateUserRequest is the body of a create call. Every field is required.
type CreateUserRequest struct {
	Username  string    `json:"username" validate:"username"`
	Email     string    `json:"email" validate:"required,email"`
	Gender    Gender    `json:"gender" validate:"gender"`
	ProjectID ProjectID `json:"project_id" validate:"project"`
}

// ToUser builds the record that will be inserted. The ID is left empty for
// the store to assign.
func (r CreateUserRequest) ToUser() *User {
	return &User{
		Username:  r.Username,
		Email:     r.Email,
		Gender:    r.Gender,
		ProjectID: r.ProjectID,
	}
}

// UpdateUserRequest is a sparse patch. Nil fields are left untouched.
type UpdateUserRequest struct {
	Username  *string    `json:"username" validate:"omitnil,username"`
	Email     *string    `json:"email" validate:"omitnil,email"`
	Gender    *Gender    `json:"gender" validate:"omitnil,gender"`
	ProjectID *ProjectID `json:"project_id" validate:"omitnil,project"`
}

// IsEmpty reports whether the patch would change nothing.
func (r UpdateUserRequest) IsEmpty() bool {
	return r.Username == nil && r.Email == nil && r.Gender == nil && r.ProjectID == nil
}

// Fields returns the column/value pairs present in the patch.
func (r UpdateUserRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, 4)
	if r.Username != nil {
		fields["username"] = *r.Username
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.Gender != nil {
		fields["gender"] = *r.Gender
	}
	if r.ProjectID != nil {
		fields["project_id"] = *r.ProjectID
	}
	return fields
}

// Apply copies the present fields onto u.
func (r UpdateUserRequest) Apply(u *User) {
	if r.Username != nil {
		u.Username = *r.Username
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.Gender != nil {
		u.Gender = *r.Gender
	}
	if r.ProjectID != nil {
		u.ProjectID = *r.ProjectID
	}
}

// ValidUsername reports whether s is non-blank and at most
// MaxUsernameLength characters once trimmed.
func ValidUsername(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= 1 && n <= MaxUsernameLength
}
