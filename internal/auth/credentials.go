package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/DermCareGo/internal/domain"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

const bcryptCost = 12

// Account is an authenticated principal known to the service.
type Account struct {
	Username     string
	PasswordHash []byte
	Role         domain.Role
}

// CredentialStore authenticates username/password pairs.
type CredentialStore interface {
	Authenticate(ctx context.Context, username, password string) (*Account, error)
}

// StaticCredentialStore holds a fixed in-memory account table. Accounts are
// seeded at construction and hashed with bcrypt.
type StaticCredentialStore struct {
	accounts map[string]*Account
	// dummyHash is compared against when the username is unknown so that
	// lookups take the same time either way.
	dummyHash []byte
}

// Seed is a plaintext account used to populate a StaticCredentialStore.
type Seed struct {
	Username string
	Password string
	Role     domain.Role
}

// DefaultSeeds returns the built-in demo accounts.
func DefaultSeeds() []Seed {
	return []Seed{
		{Username: "user1", Password: "pass1", Role: domain.RoleDoctor},
		{Username: "user2", Password: "pass2", Role: domain.RolePatient},
	}
}

// NewStaticCredentialStore hashes the given seeds and builds the store.
func NewStaticCredentialStore(seeds []Seed) (*StaticCredentialStore, error) {
	accounts := make(map[string]*Account, len(seeds))
	for _, s := range seeds {
		if !s.Role.IsValid() {
			return nil, fmt.Errorf("seed account %q: invalid role %q", s.Username, s.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", s.Username, err)
		}
		accounts[s.Username] = &Account{
			Username:     s.Username,
			PasswordHash: hash,
			Role:         s.Role,
		}
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte("dummy-comparison-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &StaticCredentialStore{accounts: accounts, dummyHash: dummyHash}, nil
}

// Authenticate verifies the username/password pair. The error never reveals
// whether the username or the password was wrong.
func (s *StaticCredentialStore) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	account, ok := s.accounts[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, apperrors.Unauthorized("incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("incorrect username or password")
	}

	return account, nil
}
