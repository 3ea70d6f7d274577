package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	UpdatedAt  time.Time `yaml:"updated_at"`
	Listen     string    `yaml:"listen"`
	ContentDir string    `yaml:"content_dir"`
	AssetsDir  string    `yaml:"assets_dir"`
	LogDir     string    `yaml:"log_dir"`

	TableFile string `yaml:"table_file"`
	RisksFile string `yaml:"risks_file"`
	NotesFile string `yaml:"notes_file"`

	EditorUser         string `yaml:"editor_user"`
	EditorPasswordHash string `yaml:"editor_password_hash"`

	// HeaderLogos maps exact table header labels to a CSS class
	// rendered as a logo marker in front of the label.
	HeaderLogos map[string]string `yaml:"header_logos,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Listen:     ":8642",
		ContentDir: filepath.Join("/deckview_data", "content"),
		AssetsDir:  "/usr/local/share/deckviewd/assets",
		LogDir:     "/deckview_data",
		TableFile:  "status.md",
		RisksFile:  "risks.md",
		NotesFile:  "notes.md",
		EditorUser: "presenter",
	}
}

// WithDefaults fills unset fields so a sparse config file still
// yields a runnable configuration.
func (c Config) WithDefaults() Config {
	def := defaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.ContentDir == "" {
		c.ContentDir = def.ContentDir
	}
	if c.AssetsDir == "" {
		c.AssetsDir = def.AssetsDir
	}
	if c.LogDir == "" {
		c.LogDir = def.LogDir
	}
	if c.TableFile == "" {
		c.TableFile = def.TableFile
	}
	if c.RisksFile == "" {
		c.RisksFile = def.RisksFile
	}
	if c.NotesFile == "" {
		c.NotesFile = def.NotesFile
	}
	if c.EditorUser == "" {
		c.EditorUser = def.EditorUser
	}
	return c
}

type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func DefaultPath() string {
	return filepath.Join("/deckview_data", "config.yaml")
}

func (s *Store) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = os.MkdirAll(filepath.Dir(s.path), 0755)
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			cfg.UpdatedAt = time.Now().UTC()
			return s.saveLocked(cfg)
		}
		return err
	}
	return nil
}

func (s *Store) Get() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked()
}

func (s *Store) SetEditorCredentials(user, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, _ := s.getLocked()
	if user != "" {
		cfg.EditorUser = user
	}
	cfg.EditorPasswordHash = passwordHash
	cfg.UpdatedAt = time.Now().UTC()
	return s.saveLocked(cfg)
}

func (s *Store) SetHeaderLogos(logos map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, _ := s.getLocked()
	cfg.HeaderLogos = logos
	cfg.UpdatedAt = time.Now().UTC()
	return s.saveLocked(cfg)
}

func (s *Store) getLocked() (Config, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return Config{}, err
	}
	if len(b) == 0 {
		return defaultConfig(), nil
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg.WithDefaults(), nil
}

func (s *Store) saveLocked(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
