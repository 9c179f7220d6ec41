package adapters

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/go-gh/pkg/auth"
)

// AuthMethod is the resolved authentication strategy for a Git remote.
type AuthMethod interface {
	isAuthMethod()
}

// NoAuth means the remote is cloned anonymously.
type NoAuth struct{}

// TokenAuth authenticates with a bearer token (HTTPS basic auth, username "x-access-token").
type TokenAuth struct {
	Token string
}

// SSHAuth authenticates using a local SSH private key.
type SSHAuth struct {
	PrivateKeyPath string
}

func (NoAuth) isAuthMethod()    {}
func (TokenAuth) isAuthMethod() {}
func (SSHAuth) isAuthMethod()   {}

// ResolveAuth determines the authentication method to use when GitFetcher
// clones repoURL.
//
// Resolution priority:
//  1. GITHUB_TOKEN / GIT_TOKEN environment variables → TokenAuth
//  2. SSH keys in ~/.ssh/ → SSHAuth (for SSH-form URLs)
//  3. GitHub CLI (gh) authenticated token → TokenAuth (for HTTPS GitHub URLs)
//  4. NoAuth (public repositories)
func ResolveAuth(ctx context.Context, repoURL string) (AuthMethod, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return TokenAuth{Token: token}, nil
	}
	if token := os.Getenv("GIT_TOKEN"); token != "" {
		return TokenAuth{Token: token}, nil
	}

	if isSSHURL(repoURL) {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if keyPath := findSSHKey(homeDir); keyPath != "" {
				return SSHAuth{PrivateKeyPath: keyPath}, nil
			}
		}
	}

	if isGitHubURL(repoURL) && !isSSHURL(repoURL) {
		if token := getGitHubCLIToken(); token != "" {
			return TokenAuth{Token: token}, nil
		}
	}

	return NoAuth{}, nil
}

func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "ssh://")
}

// findSSHKey searches ~/.ssh for a usable private key, preferring ed25519.
func findSSHKey(homeDir string) string {
	sshDir := filepath.Join(homeDir, ".ssh")

	if ed25519Key := filepath.Join(sshDir, "id_ed25519"); fileExists(ed25519Key) {
		return ed25519Key
	}
	if rsaKey := filepath.Join(sshDir, "id_rsa"); fileExists(rsaKey) {
		return rsaKey
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// getGitHubCLIToken retrieves the token the GitHub CLI has stored for
// github.com, if the user has authenticated with `gh auth login`.
func getGitHubCLIToken() string {
	token, _ := auth.TokenForHost("github.com")
	return token
}

func isGitHubURL(url string) bool {
	return strings.Contains(url, "github.com")
}
