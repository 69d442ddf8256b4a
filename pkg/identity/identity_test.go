package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserIDString(t *testing.T) {
	assert.Equal(t, "user-7", UserIDString(7))
	assert.Equal(t, "user-123456", UserIDString(123456))
}

func TestContextRoundTrip(t *testing.T) {
	id := &Identity{UserID: "user-7", TenantID: "default-tenant", Role: "teacher"}

	ctx := Set(context.Background(), id)
	got, ok := Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = Get(context.Background())
	assert.False(t, ok)
}
