package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var errAuthNotConfigured = errors.New("no credentials configured: set AUTH_CREDENTIALS_FILE or AUTH_USERNAME and AUTH_PASSWORD_HASH")

type Credential struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

type AuthConfig struct {
	Credentials []Credential
}

// Lookup returns the bcrypt hash stored for username.
func (a AuthConfig) Lookup(username string) (string, bool) {
	for _, c := range a.Credentials {
		if c.Username == username {
			return c.PasswordHash, true
		}
	}
	return "", false
}

type credentialFile struct {
	Credentials []Credential `yaml:"credentials"`
}

func loadAuth(path, username, hash string) (AuthConfig, error) {
	var out AuthConfig

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("read credentials file: %w", err)
		}
		var f credentialFile
		if err := yaml.Unmarshal(b, &f); err != nil {
			return AuthConfig{}, fmt.Errorf("parse credentials file: %w", err)
		}
		for i, c := range f.Credentials {
			c.Username = strings.TrimSpace(c.Username)
			c.PasswordHash = strings.TrimSpace(c.PasswordHash)
			if c.Username == "" || c.PasswordHash == "" {
				return AuthConfig{}, fmt.Errorf("credentials file entry %d: username and password_hash are required", i)
			}
			out.Credentials = append(out.Credentials, c)
		}
	}

	if username != "" || hash != "" {
		if username == "" || hash == "" {
			return AuthConfig{}, errors.New("AUTH_USERNAME and AUTH_PASSWORD_HASH must be set together")
		}
		out.Credentials = append(out.Credentials, Credential{Username: username, PasswordHash: hash})
	}

	if len(out.Credentials) == 0 {
		return AuthConfig{}, errAuthNotConfigured
	}
	return out, nil
}
