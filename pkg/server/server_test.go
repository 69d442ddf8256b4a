package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pauljbernard/content-sub002/pkg/config"
	"github.com/pauljbernard/content-sub002/pkg/crypto"
	"github.com/pauljbernard/content-sub002/pkg/schema"
	"github.com/pauljbernard/content-sub002/pkg/token"
)

func testConfig() *config.PlatformConfig {
	return &config.PlatformConfig{
		BindAddress:        "127.0.0.1",
		Port:               0,
		AccessTokenTTL:     900,
		RefreshTokenTTL:    604800,
		KBRoot:             "./testdata/kb",
		DefaultTenantID:    "default-tenant",
		DefaultOrgID:       "default-org",
		DefaultRole:        "teacher",
		APIListLimitMax:    1000,
		SecretVisibleChars: 2,
	}
}

func newTestCipher(t *testing.T) crypto.SymmetricCipher {
	t.Helper()
	cipher, err := crypto.NewSymmetric(crypto.DeriveKey("server-test"))
	require.NoError(t, err)
	return cipher
}

// The token manager must run off the key handed to NewServer, not
// ambient process state.
func TestNewServerUsesProvidedTokenKey(t *testing.T) {
	tokenKey := crypto.DeriveKey("token:server-test")
	s := NewServer(nil, newTestCipher(t), tokenKey, testConfig())

	pair, err := s.Tokens.IssuePair("user-42")
	require.NoError(t, err)

	independent := token.NewManager(tokenKey, "curricula", s.Config.AccessTTL(), s.Config.RefreshTTL())
	sub, err := independent.Verify(pair.AccessToken, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)

	otherKey := crypto.DeriveKey("token:some-other-secret")
	other := token.NewManager(otherKey, "curricula", s.Config.AccessTTL(), s.Config.RefreshTTL())
	_, err = other.Verify(pair.AccessToken, token.TypeAccess)
	assert.Error(t, err)
}

func TestNewServerAppliesConfiguredMaskWidth(t *testing.T) {
	tokenKey := crypto.DeriveKey("token:server-test")
	s := NewServer(nil, newTestCipher(t), tokenKey, testConfig())

	attrs := []schema.AttributeDefinition{
		{Name: "api_key", Type: schema.AttributeTypePasswordSecret},
	}
	out, result, err := s.Engine.ValidateWrite(attrs, map[string]any{"api_key": "sk-abcdef1234567890"})
	require.NoError(t, err)
	require.True(t, result.OK())

	masked, err := s.Engine.RevealSecrets(attrs, out, true)
	require.NoError(t, err)
	assert.Equal(t, "sk...90", masked["api_key"])
}
