package kaggle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCredentials is returned when neither the environment nor kaggle.json
// supplies an API username and key.
var ErrNoCredentials = errors.New("kaggle credentials not found")

// Credentials authenticate against the Kaggle API.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// LoadCredentials returns username and key when both are set. Otherwise it
// reads kaggle.json from $KAGGLE_CONFIG_DIR, falling back to ~/.kaggle.
func LoadCredentials(username, key string) (Credentials, error) {
	if username != "" && key != "" {
		return Credentials{Username: username, Key: key}, nil
	}

	dir := os.Getenv("KAGGLE_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Credentials{}, fmt.Errorf("%w: %w", ErrNoCredentials, err)
		}
		dir = filepath.Join(home, ".kaggle")
	}
	path := filepath.Join(dir, "kaggle.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %w", ErrNoCredentials, err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if creds.Username == "" || creds.Key == "" {
		return Credentials{}, fmt.Errorf("%w: %s is incomplete", ErrNoCredentials, path)
	}
	return creds, nil
}
