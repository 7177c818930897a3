package bugzilla

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Credentials holds the login for authenticated Bugzilla sessions.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type credentialsEntry struct {
	LoginInfo Credentials `yaml:"login_info"`
}

// LoadCredentials reads the first login_info entry from a YAML
// credentials file:
//
//	- login_info:
//	    username: user@example.com
//	    password: hunter2
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	var entries []credentialsEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	if len(entries) == 0 {
		return Credentials{}, fmt.Errorf("credentials file %s contains no login_info entry", path)
	}

	creds := entries[0].LoginInfo
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("credentials file %s is missing username or password", path)
	}

	return creds, nil
}
