package gorm

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

type mockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

func newMockDB(t *testing.T) *mockDB {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		_ = db.Close()
		t.Fatalf("failed to open gorm: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return &mockDB{DB: db, Mock: mock, GormDB: gormDB}
}

func (m *mockDB) verify(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetTypeByName(t *testing.T) {
	m := newMockDB(t)
	types := NewTypesStore(m.GormDB)

	rows := sqlmock.NewRows([]string{"id", "name", "is_system"}).
		AddRow("type-1", "LessonPlan", false)
	m.Mock.ExpectQuery(`SELECT (.+) FROM "content_types"`).
		WithArgs("LessonPlan").
		WillReturnRows(rows)

	ct, err := types.GetTypeByName("LessonPlan")
	if err != nil {
		t.Fatalf("GetTypeByName() error = %v", err)
	}
	if ct.ID != "type-1" || ct.Name != "LessonPlan" {
		t.Errorf("GetTypeByName() = %+v", ct)
	}

	m.verify(t)
}

func TestGetTypeByNameNotFound(t *testing.T) {
	m := newMockDB(t)
	types := NewTypesStore(m.GormDB)

	m.Mock.ExpectQuery(`SELECT (.+) FROM "content_types"`).
		WithArgs("Nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := types.GetTypeByName("Nope")
	if !errors.Is(err, store.ErrUnknownContentType) {
		t.Errorf("expected ErrUnknownContentType, got %v", err)
	}

	m.verify(t)
}

func TestDeleteTypeRefusesSystemType(t *testing.T) {
	m := newMockDB(t)
	types := NewTypesStore(m.GormDB)

	m.Mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id", "name", "is_system"}).
		AddRow("type-1", "UserAccount", true)
	m.Mock.ExpectQuery(`SELECT (.+) FROM "content_types"`).
		WithArgs("type-1").
		WillReturnRows(rows)
	m.Mock.ExpectRollback()

	err := types.DeleteType("type-1")
	if !errors.Is(err, store.ErrSystemType) {
		t.Errorf("expected ErrSystemType, got %v", err)
	}

	m.verify(t)
}

func TestDeleteTypeRefusesTypeInUse(t *testing.T) {
	m := newMockDB(t)
	types := NewTypesStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`SELECT (.+) FROM "content_types"`).
		WithArgs("type-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_system"}).
			AddRow("type-1", "LessonPlan", false))
	m.Mock.ExpectQuery(`SELECT count\(.\) FROM "content_instances"`).
		WithArgs("type-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	m.Mock.ExpectRollback()

	err := types.DeleteType("type-1")
	if !errors.Is(err, store.ErrTypeInUse) {
		t.Errorf("expected ErrTypeInUse, got %v", err)
	}

	m.verify(t)
}

func TestGetInstanceNotFound(t *testing.T) {
	m := newMockDB(t)
	instances := NewInstancesStore(m.GormDB)

	m.Mock.ExpectQuery(`SELECT (.+) FROM "content_instances"`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := instances.GetInstance("missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	m.verify(t)
}

func TestCreateInstanceGuardedDuplicate(t *testing.T) {
	m := newMockDB(t)
	instances := NewInstancesStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`SELECT count\(.\) FROM "content_instances"`).
		WithArgs("type-1", "email", "amara@example.com", "tenant-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	m.Mock.ExpectRollback()

	inst := &model.ContentInstance{
		ContentTypeID: "type-1",
		TenantID:      "tenant-1",
		Data:          model.JSONMap{"email": "amara@example.com"},
	}
	err := instances.CreateInstanceGuarded(inst, "email")
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	m.verify(t)
}

// FindInstance must pick the same row on every call, so the query has to
// carry a total order.
func TestFindInstanceOrdersDeterministically(t *testing.T) {
	m := newMockDB(t)
	instances := NewInstancesStore(m.GormDB)

	m.Mock.ExpectQuery(`SELECT (.+) FROM "content_types"`).
		WithArgs("UserAccount").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_system"}).
			AddRow("type-1", "UserAccount", true))
	m.Mock.ExpectQuery(`SELECT (.+) FROM "content_instances" (.+) ORDER BY created_at, id`).
		WithArgs("type-1", "email", "amara@example.com", model.StatusArchived).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content_type_id"}).
			AddRow("inst-1", "type-1"))

	inst, err := instances.FindInstance("UserAccount", "email", "amara@example.com", "")
	if err != nil {
		t.Fatalf("FindInstance() error = %v", err)
	}
	if inst.ID != "inst-1" {
		t.Errorf("FindInstance() = %+v", inst)
	}

	m.verify(t)
}

func TestUpdateInstanceNotFound(t *testing.T) {
	m := newMockDB(t)
	instances := NewInstancesStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`UPDATE "content_instances"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	m.Mock.ExpectCommit()

	err := instances.UpdateInstance(&model.ContentInstance{
		ID:     "missing",
		Status: model.StatusPublished,
		Data:   model.JSONMap{"title": "x"},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	m.verify(t)
}
