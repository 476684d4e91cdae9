// Package secrets stores sensitive values in the OS credential store
// instead of config files. Today that is the bearer token protecting the
// HTTP transport of the protocol server.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for OS credential store
	credentialService = "quill"
	// Key for the protocol server's HTTP bearer token
	serverTokenKey = "mcp_server_token"

	// minTokenLength rejects tokens too short to be worth checking against.
	minTokenLength = 16
)

// CredentialManager handles secure storage and retrieval of secrets.
type CredentialManager struct {
	service string
}

// NewCredentialManager creates a credential manager backed by the OS store.
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{service: credentialService}
}

// StoreServerToken stores the bearer token for the protocol server's HTTP
// transport.
func (cm *CredentialManager) StoreServerToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if len(token) < minTokenLength {
		return fmt.Errorf("token too short (minimum %d characters)", minTokenLength)
	}

	if err := keyring.Set(cm.service, serverTokenKey, token); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}
	return nil
}

// GetServerToken retrieves the stored bearer token. A missing token is not
// an error; it returns an empty string. Note that the HTTP transport refuses
// to serve without a token, so callers that need one should check for the
// empty string and tell the user to run `quill token set`.
func (cm *CredentialManager) GetServerToken() (string, error) {
	token, err := keyring.Get(cm.service, serverTokenKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}
	return strings.TrimSpace(token), nil
}

// DeleteServerToken removes the stored bearer token. Deleting a token that
// does not exist is not an error.
func (cm *CredentialManager) DeleteServerToken() error {
	err := keyring.Delete(cm.service, serverTokenKey)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

// HasServerToken checks whether a bearer token is stored without
// retrieving it.
func (cm *CredentialManager) HasServerToken() bool {
	_, err := keyring.Get(cm.service, serverTokenKey)
	return err == nil
}

// GenerateServerToken creates a random token, stores it, and returns it.
// Used by `quill token set` when no explicit token is given.
func (cm *CredentialManager) GenerateServerToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := cm.StoreServerToken(token); err != nil {
		return "", err
	}
	return token, nil
}
