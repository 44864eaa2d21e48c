package session

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vitalis-health/vitalis-go/pkg/crypto/adaptive"
)

// Credentials is the access/refresh token pair issued at login. Both
// tokens are opaque strings; the client never inspects their contents.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both tokens are present. A pair missing either
// half is treated as absent everywhere.
func (c Credentials) Valid() bool {
	return c.Access != "" && c.Refresh != ""
}

// Store persists the credential pair across process restarts. It is a
// passive surface: no validation, no business logic.
type Store interface {
	// Save persists the pair, replacing any previous one.
	Save(creds Credentials) error

	// Load returns the stored pair. ok is false when no valid pair is
	// stored; a partial pair loads as absent.
	Load() (creds Credentials, ok bool, err error)

	// Clear removes the stored pair. Clearing an empty store is a no-op.
	Clear() error
}

const (
	credsFile = "credentials.vault"
	keyFile   = "credentials.key"

	// credsAAD binds sealed data to its purpose and format version.
	credsAAD = "vitalis-credentials-v1"
)

// envelope is the on-disk layout of the sealed credential file.
type envelope struct {
	Cipher adaptive.CipherType `json:"cipher"`
	Data   []byte              `json:"data"`
}

// FileStore keeps the credential pair in a sealed file under dir. The
// sealing key is generated once and stored next to it; both files are
// private to the owning user.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("session: store dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save seals and writes the pair.
func (s *FileStore) Save(creds Credentials) error {
	key, err := s.loadOrCreateKey()
	if err != nil {
		return err
	}

	c, err := adaptive.New(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	plain, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	sealed, err := c.Seal(plain, []byte(credsAAD))
	if err != nil {
		return fmt.Errorf("seal credentials: %w", err)
	}

	data, err := json.Marshal(envelope{Cipher: c.Type(), Data: sealed})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := os.WriteFile(s.path(credsFile), data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Load reads and opens the stored pair.
func (s *FileStore) Load() (Credentials, bool, error) {
	data, err := os.ReadFile(s.path(credsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, false, nil
	}
	if err != nil {
		return Credentials{}, false, fmt.Errorf("read credentials: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Credentials{}, false, fmt.Errorf("parse envelope: %w", err)
	}

	key, err := s.loadOrCreateKey()
	if err != nil {
		return Credentials{}, false, err
	}

	c, err := adaptive.NewWithType(key, env.Cipher)
	if err != nil {
		return Credentials{}, false, fmt.Errorf("init cipher: %w", err)
	}

	plain, err := c.Open(env.Data, []byte(credsAAD))
	if err != nil {
		return Credentials{}, false, fmt.Errorf("open credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return Credentials{}, false, fmt.Errorf("parse credentials: %w", err)
	}

	if !creds.Valid() {
		return Credentials{}, false, nil
	}
	return creds, true, nil
}

// Clear removes the credential file. The key file stays; it holds no
// secrets once the credentials are gone.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path(credsFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// loadOrCreateKey returns the sealing key, generating it on first use.
func (s *FileStore) loadOrCreateKey() ([]byte, error) {
	path := s.path(keyFile)

	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != adaptive.KeySize {
			return nil, fmt.Errorf("key file %s: unexpected size %d", path, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read key: %w", err)
	}

	key = make([]byte, adaptive.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write key: %w", err)
	}
	return key, nil
}
