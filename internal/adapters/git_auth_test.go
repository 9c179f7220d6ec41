package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAuthEnvToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "secret-token")
	auth, err := ResolveAuth(context.Background(), "https://github.com/acme/widgets")
	assert.NoError(t, err)
	assert.Equal(t, TokenAuth{Token: "secret-token"}, auth)
}

func TestResolveAuthGitTokenFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GIT_TOKEN", "fallback-token")
	auth, err := ResolveAuth(context.Background(), "https://example.com/acme/widgets.git")
	assert.NoError(t, err)
	assert.Equal(t, TokenAuth{Token: "fallback-token"}, auth)
}

func TestResolveAuthNoAuthForPublicNonGitHub(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GIT_TOKEN", "")
	auth, err := ResolveAuth(context.Background(), "https://example.com/acme/widgets.git")
	assert.NoError(t, err)
	assert.Equal(t, NoAuth{}, auth)
}

func TestIsSSHURL(t *testing.T) {
	assert.True(t, isSSHURL("git@github.com:acme/widgets.git"))
	assert.True(t, isSSHURL("ssh://git@github.com/acme/widgets.git"))
	assert.False(t, isSSHURL("https://github.com/acme/widgets.git"))
}

func TestIsGitHubURL(t *testing.T) {
	assert.True(t, isGitHubURL("https://github.com/acme/widgets.git"))
	assert.False(t, isGitHubURL("https://gitlab.com/acme/widgets.git"))
}
