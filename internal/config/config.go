package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/spf13/viper"
)

// Defaults for the diagnostics target. The backend's dev instance listens on
// 8001; the smoke user is a synthetic account the suite may freely touch.
const (
	DefaultBaseURL     = "http://localhost:8001"
	DefaultSmokeUser   = "test-user-123"
	DefaultCollection  = "expenses"
	DefaultHistoryPath = "$HOME/.local/share/pulse/pulse.db"
	DefaultDotenvFile  = ".env"
	credentialsFileEnv = "GOOGLE_APPLICATION_CREDENTIALS"
	projectIDEnv       = "GOOGLE_CLOUD_PROJECT"
)

// Target describes the backend instance the HTTP checks run against.
type Target struct {
	BaseURL string
	UserID  string
}

// Store describes the Firestore project the direct probes connect to.
type Store struct {
	CredentialsFile string
	ProjectID       string
	Collection      string
	UserID          string
}

// LoadTarget resolves the HTTP target from Viper and the environment.
// Precedence: Viper (flags, config file, PULSE_ env vars), then direct
// environment variables, then defaults.
func LoadTarget() (*Target, error) {
	t := &Target{
		BaseURL: viper.GetString("target.base_url"),
		UserID:  viper.GetString("target.user_id"),
	}

	if t.BaseURL == "" {
		t.BaseURL = os.Getenv("FINZE_BASE_URL")
	}
	if t.BaseURL == "" {
		t.BaseURL = DefaultBaseURL
	}

	if t.UserID == "" {
		t.UserID = os.Getenv("FINZE_TEST_USER")
	}
	if t.UserID == "" {
		t.UserID = DefaultSmokeUser
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks the target for obviously unusable values.
func (t *Target) Validate() error {
	u, err := url.Parse(t.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base URL %q: %v", common.ErrInvalidConfig, t.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: base URL %q must be http or https", common.ErrInvalidConfig, t.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: base URL %q has no host", common.ErrInvalidConfig, t.BaseURL)
	}
	if t.UserID == "" {
		return fmt.Errorf("%w: target user id", common.ErrMissingConfig)
	}
	return nil
}

// LoadStore resolves the Firestore connection settings. The credentials file
// follows the backend's own convention: an explicit path wins, otherwise
// GOOGLE_APPLICATION_CREDENTIALS, otherwise application default credentials.
// The probe user id has no baked-in default; it must come from configuration.
func LoadStore() (*Store, error) {
	s := &Store{
		CredentialsFile: viper.GetString("store.credentials_file"),
		ProjectID:       viper.GetString("store.project_id"),
		Collection:      viper.GetString("store.collection"),
		UserID:          viper.GetString("store.user_id"),
	}

	if s.CredentialsFile == "" {
		s.CredentialsFile = os.Getenv(credentialsFileEnv)
	}
	s.CredentialsFile = ExpandPath(s.CredentialsFile)

	if s.ProjectID == "" {
		s.ProjectID = os.Getenv(projectIDEnv)
	}

	if s.Collection == "" {
		s.Collection = DefaultCollection
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the store settings. A missing credentials file is allowed
// (application default credentials may still work); a configured path that
// does not exist is not.
func (s *Store) Validate() error {
	if s.Collection == "" {
		return fmt.Errorf("%w: store collection", common.ErrMissingConfig)
	}
	if s.CredentialsFile != "" {
		if _, err := os.Stat(s.CredentialsFile); err != nil {
			return fmt.Errorf("%w: %s: %v", common.ErrCredentialsFile, s.CredentialsFile, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the local run journal.
func HistoryPath() string {
	path := viper.GetString("history.path")
	if path == "" {
		path = DefaultHistoryPath
	}
	return ExpandPath(path)
}
