package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Profile is the account holder identity persisted between runs.
type Profile struct {
	Party         string   `json:"party"`
	IBAN          string   `json:"iban"`
	AddressLine1  string   `json:"address_line_1"`
	AddressLine2  string   `json:"address_line_2"`
	PersonalIBANs []string `json:"personal_ibans"`
}

// Empty reports whether the profile lacks the fields a statement needs.
func (p Profile) Empty() bool {
	return strings.TrimSpace(p.Party) == "" || strings.TrimSpace(p.IBAN) == ""
}

// Store manages the saved profile
type Store struct {
	filePath string
	Profile  Profile `json:"profile"`
}

// NewStore opens the store under the user's config directory
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return OpenStore(filepath.Join(homeDir, ".config", "revolut-sepa-converter", "settings.json"))
}

// OpenStore opens the store at filePath, loading it if the file exists.
func OpenStore(filePath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	store := &Store{filePath: filePath}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.Load(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func (s *Store) Path() string {
	return s.filePath
}

// Load reads the profile from disk
func (s *Store) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := json.Unmarshal(data, &s.Profile); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}

	return nil
}

// Save writes the profile to disk
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.Profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Update replaces the profile and persists it. IBANs are stored upper-cased.
func (s *Store) Update(p Profile) error {
	p.IBAN = strings.ToUpper(strings.TrimSpace(p.IBAN))
	personal := make([]string, 0, len(p.PersonalIBANs))
	for _, iban := range p.PersonalIBANs {
		if iban = strings.ToUpper(strings.TrimSpace(iban)); iban != "" {
			personal = append(personal, iban)
		}
	}
	p.PersonalIBANs = personal

	s.Profile = p
	return s.Save()
}
