// Package credentials loads the Google service-account key used to reach the
// spreadsheet.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"bikerental/tracker/internal/apperr"
)

// Credentials is the subset of a service-account key file the client needs.
type Credentials struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id,omitempty"`
	TokenURI     string `json:"token_uri,omitempty"`
}

// Loader reads the key file once and caches the parsed credentials for the
// life of the process. Failed reads are not cached.
type Loader struct {
	path string

	mu    sync.Mutex
	creds *Credentials
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the key file location.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the cached credentials, reading the file on first use.
func (l *Loader) Load() (*Credentials, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.creds != nil {
		return l.creds, nil
	}

	creds, err := readFile(l.path)
	if err != nil {
		return nil, err
	}
	l.creds = creds
	return creds, nil
}

func readFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Wrap(apperr.KindCredentials,
				fmt.Sprintf("Google credentials file not found at %s", path), err)
		}
		return nil, apperr.Wrap(apperr.KindCredentials, "failed to read Google credentials file", err)
	}
	return Parse(data)
}

// Parse decodes a key file and checks the mandatory fields.
func Parse(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, apperr.Wrap(apperr.KindCredentials, "invalid Google credentials format", err)
	}

	var missing []string
	if strings.TrimSpace(creds.ClientEmail) == "" {
		missing = append(missing, "client_email")
	}
	if strings.TrimSpace(creds.PrivateKey) == "" {
		missing = append(missing, "private_key")
	}
	if len(missing) > 0 {
		return nil, apperr.New(apperr.KindCredentials,
			"invalid Google credentials format: missing "+strings.Join(missing, ", "))
	}
	return &creds, nil
}
