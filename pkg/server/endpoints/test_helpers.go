package endpoints

import (
	"encoding/base64"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pauljbernard/content-sub002/pkg/bootstrap"
	"github.com/pauljbernard/content-sub002/pkg/config"
	"github.com/pauljbernard/content-sub002/pkg/crypto"
	"github.com/pauljbernard/content-sub002/pkg/server"
)

// NewTestServer creates a server instance for testing.
// It requires a running PostgreSQL database with migrations applied.
func NewTestServer(dbURL string, dataKey []byte) (*server.Server, error) {
	cipher, err := crypto.NewSymmetric(dataKey)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		return nil, err
	}

	cfg := &config.PlatformConfig{
		BindAddress:        "127.0.0.1",
		Port:               0,
		AccessTokenTTL:     900,
		RefreshTokenTTL:    604800,
		KBRoot:             "./testdata/kb",
		DefaultTenantID:    "test-tenant",
		DefaultOrgID:       "test-org",
		DefaultRole:        "teacher",
		APIListLimitMax:    1000,
		SecretVisibleChars: 4,
	}

	tokenKey := crypto.DeriveKey("token:" + base64.StdEncoding.EncodeToString(dataKey))
	s := server.NewServer(db, cipher, tokenKey, cfg)
	if err := bootstrap.Install(s.Types, s.Instances, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// CleanupTestData removes instances created during a test run. Types are
// left installed; they are shared fixtures.
func CleanupTestData(db *gorm.DB, tenantID string) error {
	db.Exec(`DELETE FROM content_relationships WHERE source_id IN (SELECT id FROM content_instances WHERE tenant_id = ?)`, tenantID)
	db.Exec(`DELETE FROM content_instances WHERE tenant_id = ?`, tenantID)
	db.Exec(`DELETE FROM content_instances WHERE data ->> 'tenant_id' = ?`, tenantID)
	return nil
}
