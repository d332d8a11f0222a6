// Package session keeps the backend session cookies between CLI runs.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Cookie struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// File is the on-disk session. Cookies only apply to the BaseURL they were
// issued for.
type File struct {
	BaseURL string    `yaml:"base_url"`
	SavedAt time.Time `yaml:"saved_at"`
	Cookies []Cookie  `yaml:"cookies"`
}

// Load reads the session file. A missing file is an empty session.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return &file, nil
}

// Save writes cookies for baseURL, readable by the current user only.
func Save(path, baseURL string, cookies []*http.Cookie, now time.Time) error {
	file := File{
		BaseURL: baseURL,
		SavedAt: now,
		Cookies: make([]Cookie, 0, len(cookies)),
	}
	for _, cookie := range cookies {
		file.Cookies = append(file.Cookies, Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}

// Clear removes the session file if there is one.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("os.Remove(%s) > %w", path, err)
	}
	return nil
}

// HTTPCookies returns the cookies to restore for baseURL, or nil when the
// session belongs to another server.
func (f *File) HTTPCookies(baseURL string) []*http.Cookie {
	if f.BaseURL != baseURL {
		return nil
	}
	cookies := make([]*http.Cookie, 0, len(f.Cookies))
	for _, cookie := range f.Cookies {
		cookies = append(cookies, &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return cookies
}
