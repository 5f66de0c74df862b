package referrals

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type fileStoreConfig struct {
	path     string
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithFilePermissions sets the file permissions for the ledger file.
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

type ledgerFile struct {
	Referrals []Entry `yaml:"referrals"`
}

// FileStore persists decisions to a YAML file. Used by walletctl.
type FileStore struct {
	mu     sync.Mutex
	config fileStoreConfig
}

func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	cfg := fileStoreConfig{path: path, dirPerm: 0o755, filePerm: 0o600}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

func (s *FileStore) load() (map[string]Status, error) {
	data, err := os.ReadFile(s.config.path)
	if os.IsNotExist(err) {
		return map[string]Status{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read referral ledger: %w", err)
	}

	var f ledgerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse referral ledger: %w", err)
	}
	out := make(map[string]Status, len(f.Referrals))
	for _, e := range f.Referrals {
		out[e.Address] = e.Status
	}
	return out, nil
}

func (s *FileStore) save(entries map[string]Status) error {
	data, err := yaml.Marshal(ledgerFile{Referrals: sortedEntries(entries)})
	if err != nil {
		return fmt.Errorf("failed to marshal referral ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.config.path), s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create referral ledger directory: %w", err)
	}
	if err := os.WriteFile(s.config.path, data, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write referral ledger: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, address string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return StatusNone, err
	}
	return entries[address], nil
}

func (s *FileStore) Put(_ context.Context, address string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[address] = status
	return s.save(entries)
}

func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedEntries(entries), nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.config.path
}
