package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// Credentials is a single username with a bcrypt hash of its password.
type Credentials struct {
	Username     string
	passwordHash string
}

// NewCredentials hashes password once so later checks never see plaintext.
func NewCredentials(username, password string, cost int) (*Credentials, error) {
	hashed, err := HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	return &Credentials{Username: username, passwordHash: hashed}, nil
}

// Match reports whether both username and password are correct.
func (c *Credentials) Match(username, password string) bool {
	if c == nil || username != c.Username {
		return false
	}
	return ComparePassword(c.passwordHash, password) == nil
}
