package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager([]byte("0123456789abcdef0123456789abcdef"), "curricula", 15*time.Minute, 7*24*time.Hour)
}

func TestIssueAndVerifyPair(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	uid, err := m.Verify(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-7", uid)

	uid, err = m.Verify(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-7", uid)
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)

	_, err = m.Verify(pair.RefreshToken, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenUse)

	_, err = m.Verify(pair.AccessToken, TypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenUse)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)

	other := NewManager([]byte("another-key-entirely-0123456789a"), "curricula", time.Minute, time.Hour)
	_, err = other.Verify(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair("user-7")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	_, err = m.Verify(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager()
	_, err := m.Verify("not.a.token", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	other := NewManager([]byte("0123456789abcdef0123456789abcdef"), "someone-else", time.Minute, time.Hour)
	pair, err := other.IssuePair("user-7")
	require.NoError(t, err)

	m := newTestManager()
	_, err = m.Verify(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
