package service

import (
	"reportbot/internal/domain"
)

// AuthService checks department passwords
type AuthService struct {
	passwords map[domain.Department]string
}

// NewAuthService creates a new auth service. Departments missing from
// passwords fall back to their built-in password.
func NewAuthService(passwords map[domain.Department]string) *AuthService {
	p := make(map[domain.Department]string, len(domain.Departments))
	for _, d := range domain.Departments {
		p[d] = d.DefaultPassword()
		if pw, ok := passwords[d]; ok && pw != "" {
			p[d] = pw
		}
	}
	return &AuthService{passwords: p}
}

// CheckPassword verifies if provided password matches the department's
func (s *AuthService) CheckPassword(department domain.Department, password string) bool {
	expected, ok := s.passwords[department]
	return ok && password == expected
}
