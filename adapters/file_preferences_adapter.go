package adapters

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FilePreferencesAdapter persists preferences as a flat YAML mapping.
type FilePreferencesAdapter struct {
	filepath string
	mu       sync.Mutex
}

var _ PreferencesAdapter = (*FilePreferencesAdapter)(nil)

// NewFilePreferencesAdapter creates a preferences store backed by filepath.
// The file is created on the first write.
func NewFilePreferencesAdapter(filepath string) *FilePreferencesAdapter {
	return &FilePreferencesAdapter{filepath: filepath}
}

func (f *FilePreferencesAdapter) GetString(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FilePreferencesAdapter) PutString(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FilePreferencesAdapter) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *FilePreferencesAdapter) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

func (f *FilePreferencesAdapter) save(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(f.filepath, data, 0600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
