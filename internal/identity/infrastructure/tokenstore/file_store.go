// Package tokenstore persists OAuth tokens in local JSON files.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/identity/application/oauth"
	sharedCrypto "github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/security"
	"golang.org/x/oauth2"
)

type fileToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Encrypted    bool      `json:"encrypted,omitempty"`
}

// FileStore keeps one token in a JSON file. With an encrypter the access
// and refresh tokens are sealed with AES-GCM.
type FileStore struct {
	path      string
	encrypter sharedCrypto.Encrypter
	mu        sync.Mutex
}

// NewFileStore creates a store at path. encrypter may be nil.
func NewFileStore(path string, encrypter sharedCrypto.Encrypter) *FileStore {
	return &FileStore{path: path, encrypter: encrypter}
}

// Path returns the token file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the token. A missing file is oauth.ErrTokenNotFound.
func (s *FileStore) Load(_ context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := security.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oauth.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	var stored fileToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", s.path, err)
	}

	if stored.Encrypted {
		if s.encrypter == nil {
			return nil, fmt.Errorf("token %s is encrypted but no key is configured", s.path)
		}
		if stored.AccessToken, err = sharedCrypto.DecryptString(s.encrypter, stored.AccessToken); err != nil {
			return nil, fmt.Errorf("decrypt access token: %w", err)
		}
		if stored.RefreshToken != "" {
			if stored.RefreshToken, err = sharedCrypto.DecryptString(s.encrypter, stored.RefreshToken); err != nil {
				return nil, fmt.Errorf("decrypt refresh token: %w", err)
			}
		}
	}

	return &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
		Expiry:       stored.Expiry,
	}, nil
}

// Save writes the token atomically with owner-only permissions.
func (s *FileStore) Save(_ context.Context, token *oauth2.Token) error {
	stored := fileToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}

	if s.encrypter != nil {
		var err error
		if stored.AccessToken, err = sharedCrypto.EncryptString(s.encrypter, stored.AccessToken); err != nil {
			return fmt.Errorf("encrypt access token: %w", err)
		}
		if stored.RefreshToken != "" {
			if stored.RefreshToken, err = sharedCrypto.EncryptString(s.encrypter, stored.RefreshToken); err != nil {
				return fmt.Errorf("encrypt refresh token: %w", err)
			}
		}
		stored.Encrypted = true
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := security.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
