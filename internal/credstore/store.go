// Package credstore persists WiFi credentials in an encrypted file keyed to
// the device.
package credstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// DefaultFilename is the credential file name used when none is configured.
const DefaultFilename = "wifi-secure.json"

// Options configures a Store.
type Options struct {
	Path        string
	Cipher      *Cipher
	Persistence Persistence // defaults to FileSystem
	// Plaintext writes JSON without encryption. Loading accepts both forms.
	Plaintext bool
	Logger    *slog.Logger
}

// Store loads, merges and rewrites the credential file. Every write replaces
// the whole file.
type Store struct {
	mu        sync.Mutex
	path      string
	cipher    *Cipher
	persist   Persistence
	plaintext bool
	logger    *slog.Logger
	ssids     []string
}

// New returns a Store for opts.Path.
func New(opts Options) (*Store, error) {
	if opts.Path == "" {
		opts.Path = DefaultFilename
	}
	if opts.Cipher == nil && !opts.Plaintext {
		return nil, errors.New("credstore: cipher required for encrypted storage")
	}
	if opts.Persistence == nil {
		opts.Persistence = FileSystem{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		path:      opts.Path,
		cipher:    opts.Cipher,
		persist:   opts.Persistence,
		plaintext: opts.Plaintext,
		logger:    opts.Logger.With("component", "credstore"),
	}, nil
}

// Path returns the credential file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a credential file is present.
func (s *Store) Exists() bool { return s.persist.Exists(s.path) }

// ConfiguredSSIDs returns the SSIDs seen by the last Load, Save or Remove.
func (s *Store) ConfiguredSSIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ssids)
}

// Load reads and decodes the credential file.
func (s *Store) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Credentials, error) {
	raw, err := s.persist.ReadBytes(s.path)
	if err != nil {
		if errors.Is(err, ErrConfigMissing) {
			s.ssids = nil
			return Credentials{}, fmt.Errorf("%s: %w", s.path, ErrConfigMissing)
		}
		return Credentials{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	creds, err := s.decode(raw)
	if err != nil {
		return Credentials{}, fmt.Errorf("%s: %w", s.path, err)
	}
	s.ssids = creds.SSIDs()
	return creds, nil
}

func (s *Store) decode(raw []byte) (Credentials, error) {
	var decErr error
	if s.cipher != nil {
		text, err := s.cipher.Decrypt(raw)
		if err == nil {
			creds, perr := ParseCredentials(text)
			if perr == nil {
				return creds, nil
			}
			err = perr
		}
		decErr = err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if creds, err := ParseCredentials(string(trimmed)); err == nil {
			return creds, nil
		}
	}
	if decErr == nil {
		decErr = ErrCorruptCredentials
	}
	return Credentials{}, decErr
}

func (s *Store) write(creds Credentials) error {
	text, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	data := text
	if !s.plaintext {
		data = s.cipher.Encrypt(string(text))
	}
	if err := s.persist.WriteBytes(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.ssids = creds.SSIDs()
	return nil
}

// Save merges data into the existing file content and rewrites the file. A
// missing or unreadable file is overwritten.
func (s *Store) Save(data Credentials) error {
	if err := data.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	switch {
	case err == nil:
	case errors.Is(err, ErrConfigMissing):
		existing = Credentials{}
	case errors.Is(err, ErrCorruptCredentials):
		s.logger.Warn("overwriting unreadable credential file", "path", s.path, "error", err)
		existing = Credentials{}
	default:
		return err
	}

	merged := Merge(existing, data)
	if err := s.write(merged); err != nil {
		return err
	}
	s.logger.Info("saved networks", "ssids", data.SSIDs(), "total", merged.Len())
	return nil
}

// Remove deletes every entry whose SSID is in ssids and rewrites the
// remainder as a list.
func (s *Store) Remove(ssids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	remaining := existing.Without(ssids...)
	if err := s.write(remaining); err != nil {
		return err
	}
	s.logger.Info("removed networks", "ssids", ssids, "remaining", remaining.Len())
	return nil
}
