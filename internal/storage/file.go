package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// FileStorage persists preferences as YAML. Writes go to a temp file that is
// renamed into place. Only user edits are stored: the default color always
// comes from defaults, and the custom-color switch is stored only while it
// differs from defaults.
type FileStorage struct {
	path     string
	defaults *domain.Preferences
	mu       sync.RWMutex
}

// NewFileStorage stores preferences at path. defaults is returned while the
// file does not exist yet.
func NewFileStorage(path string, defaults *domain.Preferences) (*FileStorage, error) {
	fs := &FileStorage{
		path:     path,
		defaults: defaults.Clone(),
	}

	if err := fs.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	return fs, nil
}

func (fs *FileStorage) initialize() error {
	return os.MkdirAll(filepath.Dir(fs.path), 0755)
}

func (fs *FileStorage) Path() string {
	return fs.path
}

func (fs *FileStorage) LoadPreferences() (*domain.Preferences, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs.defaults.Clone(), nil
		}
		return nil, err
	}

	var state preferenceState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fs.path, err)
	}
	return state.apply(fs.defaults), nil
}

func (fs *FileStorage) SavePreferences(prefs *domain.Preferences) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.saveYAML(fs.path, newPreferenceState(prefs, fs.defaults))
}

// preferenceState is the on-disk form of the user's edits.
type preferenceState struct {
	TagOrder        []string          `yaml:"tagOrder"`
	TagColors       map[string]string `yaml:"tagColors"`
	UseCustomColors *bool             `yaml:"useCustomColors,omitempty"`
}

func newPreferenceState(prefs, defaults *domain.Preferences) preferenceState {
	prefs = prefs.Clone()
	state := preferenceState{
		TagOrder:  prefs.TagOrder,
		TagColors: prefs.TagColors,
	}
	if prefs.UseCustomColors != defaults.UseCustomColors {
		useCustom := prefs.UseCustomColors
		state.UseCustomColors = &useCustom
	}
	return state
}

func (s preferenceState) apply(defaults *domain.Preferences) *domain.Preferences {
	prefs := defaults.Clone()
	if s.TagOrder != nil {
		prefs.TagOrder = append(prefs.TagOrder[:0], s.TagOrder...)
	}
	if s.TagColors != nil {
		prefs.TagColors = s.TagColors
	}
	if s.UseCustomColors != nil {
		prefs.UseCustomColors = *s.UseCustomColors
	}
	return prefs
}

func (fs *FileStorage) saveYAML(path string, data interface{}) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := encoder.Close(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, path)
}
