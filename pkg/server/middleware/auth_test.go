package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pauljbernard/content-sub002/pkg/access"
	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/store"
	"github.com/pauljbernard/content-sub002/pkg/token"
)

type fakeInstances struct {
	store.InstancesStore
	byType map[string][]model.ContentInstance
}

func (f *fakeInstances) FindInstance(contentTypeName, field, value, tenantID string) (*model.ContentInstance, error) {
	for i, inst := range f.byType[contentTypeName] {
		if inst.Field(field) == value {
			return &f.byType[contentTypeName][i], nil
		}
	}
	return nil, store.ErrNotFound
}

func newTestAuthenticator() (*BearerAuthenticator, *token.Manager) {
	instances := &fakeInstances{byType: map[string][]model.ContentInstance{
		access.TypeUserAccount: {
			{ID: "acct-1", Data: model.JSONMap{"user_id": "user-7", "tenant_id": "default-tenant", "status": "active"}},
		},
		access.TypeUserProfile: {
			{ID: "prof-1", Data: model.JSONMap{"user_id": "user-7", "role": "teacher"}},
		},
	}}
	tokens := token.NewManager([]byte("0123456789abcdef0123456789abcdef"), "curricula", time.Minute, time.Hour)
	return NewBearerAuthenticator(tokens, access.NewService(instances, access.DefaultSystemTypes())), tokens
}

func protectedHandler(t *testing.T, sawIdentity *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		require.True(t, ok)
		assert.Equal(t, "user-7", id.UserID)
		assert.Equal(t, "teacher", id.Role)
		*sawIdentity = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	auth, tokens := newTestAuthenticator()
	pair, err := tokens.IssuePair("user-7")
	require.NoError(t, err)

	var sawIdentity bool
	req := httptest.NewRequest("GET", "/content-types", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, &sawIdentity)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sawIdentity)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	auth, _ := newTestAuthenticator()

	req := httptest.NewRequest("GET", "/content-types", nil)
	w := httptest.NewRecorder()
	auth.Middleware(http.NotFoundHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	auth, _ := newTestAuthenticator()

	req := httptest.NewRequest("GET", "/content-types", nil)
	req.Header.Set("Authorization", "Token abcdef")
	w := httptest.NewRecorder()
	auth.Middleware(http.NotFoundHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsRefreshToken(t *testing.T) {
	auth, tokens := newTestAuthenticator()
	pair, err := tokens.IssuePair("user-7")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/content-types", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w := httptest.NewRecorder()
	auth.Middleware(http.NotFoundHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsUnknownUser(t *testing.T) {
	auth, tokens := newTestAuthenticator()
	pair, err := tokens.IssuePair("user-404")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/content-types", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	auth.Middleware(http.NotFoundHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
