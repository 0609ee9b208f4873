package gcp

import (
	"strings"

	"google.golang.org/api/option"
)

// credentialOptions turns ObjectStorageConfig.Credentials into client options.
// Empty means application default credentials; a leading "{" means inline
// service account JSON; anything else is a key file path.
func credentialOptions(cfg ObjectStorageConfig) []option.ClientOption {
	creds := strings.TrimSpace(cfg.Credentials)
	switch {
	case creds == "":
		return nil
	case strings.HasPrefix(creds, "{"):
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	default:
		return []option.ClientOption{option.WithCredentialsFile(creds)}
	}
}
