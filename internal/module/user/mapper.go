package user

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/backoffice/internal/domain"
)

// Mapper converts user requests and records and hashes passwords.
type Mapper struct {
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

// FromCreate builds a new user with a hashed password.
func (m Mapper) FromCreate(in CreateUserRequest) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}
	hash, err := m.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Name: name, Email: email, PasswordHash: hash}
	u.IsActive = true
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	return u, nil
}

// ApplyUpdate copies in onto u, rehashing the password when one is given.
func (m Mapper) ApplyUpdate(u *domain.User, in UpdateUserRequest) error {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateNameEmail(name, email); err != nil {
		return err
	}
	if in.Password != "" {
		hash, err := m.hash(in.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	u.Name = name
	u.Email = email
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts u to its API representation.
func (Mapper) ToDTO(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		CreatedBy: u.CreatedBy,
		UpdatedBy: u.UpdatedBy,
	}
	for _, r := range u.Roles {
		resp.Roles = append(resp.Roles, RoleRef{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return resp
}

func (m Mapper) hash(password string) (string, error) {
	if len(password) < 8 {
		return "", domain.NewAppError(domain.CodeValidation, "password must be at least 8 characters", nil)
	}
	if len(password) > 72 {
		return "", domain.NewAppError(domain.CodeValidation, "password must not exceed 72 characters", nil)
	}
	cost := m.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	return string(hash), nil
}

// validateNameEmail checks the trimmed name length and the email address form.
func validateNameEmail(name, email string) error {
	if name == "" {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	if utf8.RuneCountInString(name) < 2 {
		return domain.NewAppError(domain.CodeValidation, "name must be at least 2 characters", nil)
	}
	if utf8.RuneCountInString(name) > 100 {
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	}

	if email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	return nil
}
