package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

func newRecordRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("record_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedContact(t *testing.T, db *gorm.DB, id, tenant, first, last, email string) domain.Contact {
	t.Helper()
	c := domain.Contact{ID: id, TenantID: tenant, FirstName: first, LastName: last, Email: email}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed contact %s: %v", id, err)
	}
	return c
}

func TestActiveSummaries_MapsFieldsAndOrdersByID(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c2", "t1", "Ann", "Lee", "ann@x.com")
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")

	got, err := ActiveSummaries(context.Background(), db, "t1", domain.EntityContact)
	if err != nil {
		t.Fatalf("ActiveSummaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c2" {
		t.Fatalf("not ordered by id: %v", got)
	}
	if got[0].Primary != "Jon Smith" || got[0].Secondary != "jon@x.com" {
		t.Fatalf("unexpected projection: %+v", got[0])
	}
}

func TestActiveSummaries_ExcludesTombstonedAndOtherTenants(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")
	seedContact(t, db, "c2", "t1", "Gone", "Soon", "gone@x.com")
	seedContact(t, db, "c3", "t2", "Other", "Tenant", "o@x.com")

	if err := db.Transaction(func(tx *gorm.DB) error {
		return Tombstone(tx, domain.EntityContact, "t1", "c2", "c1")
	}); err != nil {
		t.Fatalf("tombstone: %v", err)
	}

	got, err := ActiveSummaries(context.Background(), db, "t1", domain.EntityContact)
	if err != nil {
		t.Fatalf("ActiveSummaries: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("tombstone or tenant leak: %v", got)
	}
}

func TestGetRecordView_ActiveAndMissing(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")

	v, err := GetRecordView(context.Background(), db, domain.EntityContact, "t1", "c1", false)
	if err != nil {
		t.Fatalf("GetRecordView: %v", err)
	}
	if v.Tombstoned || v.Fields["first_name"] != "Jon" || v.Fields["email"] != "jon@x.com" {
		t.Fatalf("unexpected view: %+v", v)
	}

	if _, err := GetRecordView(context.Background(), db, domain.EntityContact, "t1", "nope", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record err = %v, want ErrNotFound", err)
	}
}

func TestGetRecordView_TombstoneVisibility(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")
	seedContact(t, db, "c2", "t1", "Old", "Copy", "old@x.com")

	if err := db.Transaction(func(tx *gorm.DB) error {
		return Tombstone(tx, domain.EntityContact, "t1", "c2", "c1")
	}); err != nil {
		t.Fatalf("tombstone: %v", err)
	}

	if _, err := GetRecordView(context.Background(), db, domain.EntityContact, "t1", "c2", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("scoped read of tombstone err = %v, want ErrNotFound", err)
	}

	v, err := GetRecordView(context.Background(), db, domain.EntityContact, "t1", "c2", true)
	if err != nil {
		t.Fatalf("unscoped read: %v", err)
	}
	if !v.Tombstoned || v.MergedIntoID == nil || *v.MergedIntoID != "c1" {
		t.Fatalf("tombstone state not reported: %+v", v)
	}
}

func TestLockActive(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")

	if err := db.Transaction(func(tx *gorm.DB) error {
		return LockActive(tx, domain.EntityContact, "t1", "c1")
	}); err != nil {
		t.Fatalf("lock active: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return LockActive(tx, domain.EntityContact, "t2", "c1")
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant lock err = %v, want ErrNotFound", err)
	}
}

func TestMergeableColumns(t *testing.T) {
	cols := MergeableColumns(domain.EntityContact)
	for _, f := range []string{"first_name", "last_name", "email", "phone", "company_id"} {
		if _, ok := cols[f]; !ok {
			t.Fatalf("contact mergeable columns missing %q: %v", f, cols)
		}
	}
	if _, ok := cols["tenant_id"]; ok {
		t.Fatalf("tenant_id must never be merge-selectable")
	}

	cc := MergeableColumns(domain.EntityCompany)
	for _, f := range []string{"name", "website", "industry"} {
		if _, ok := cc[f]; !ok {
			t.Fatalf("company mergeable columns missing %q: %v", f, cc)
		}
	}
}

func TestApplyFieldSelections_UpdatesSurvivor(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")

	err := db.Transaction(func(tx *gorm.DB) error {
		return ApplyFieldSelections(tx, domain.EntityContact, "t1", "c1", map[string]any{
			"email": "kept@acme.com",
			"phone": "555-0101",
		})
	})
	if err != nil {
		t.Fatalf("apply selections: %v", err)
	}

	var got domain.Contact
	if err := db.First(&got, "id = ?", "c1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Email != "kept@acme.com" || got.Phone != "555-0101" || got.FirstName != "Jon" {
		t.Fatalf("selections not applied correctly: %+v", got)
	}
}

func TestTombstone_SetsRedirectAndSoftDeletes(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")
	seedContact(t, db, "c2", "t1", "Dup", "Smith", "dup@x.com")

	if err := db.Transaction(func(tx *gorm.DB) error {
		return Tombstone(tx, domain.EntityContact, "t1", "c2", "c1")
	}); err != nil {
		t.Fatalf("tombstone: %v", err)
	}

	var got domain.Contact
	if err := db.Unscoped().First(&got, "id = ?", "c2").Error; err != nil {
		t.Fatalf("unscoped reload: %v", err)
	}
	if got.MergedIntoID == nil || *got.MergedIntoID != "c1" || !got.DeletedAt.Valid {
		t.Fatalf("tombstone incomplete: %+v", got)
	}

	// The loser is no longer active, so a second tombstone cannot find it.
	err := db.Transaction(func(tx *gorm.DB) error {
		return Tombstone(tx, domain.EntityContact, "t1", "c2", "c1")
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("re-tombstone err = %v, want ErrNotFound", err)
	}
}

func TestCollapseRedirects_RepointsOldTombstones(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "a", "t1", "A", "A", "a@x.com")
	seedContact(t, db, "b", "t1", "B", "B", "b@x.com")
	seedContact(t, db, "c", "t1", "C", "C", "c@x.com")

	// a was merged into b earlier.
	if err := db.Transaction(func(tx *gorm.DB) error {
		return Tombstone(tx, domain.EntityContact, "t1", "a", "b")
	}); err != nil {
		t.Fatalf("first merge tombstone: %v", err)
	}

	// Now b merges into c; a's redirect must follow to c.
	var moved int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		moved, err = CollapseRedirects(tx, domain.EntityContact, "t1", "b", "c")
		if err != nil {
			return err
		}
		return Tombstone(tx, domain.EntityContact, "t1", "b", "c")
	})
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if moved != 1 {
		t.Fatalf("collapsed %d redirects, want 1", moved)
	}

	var gotA domain.Contact
	if err := db.Unscoped().First(&gotA, "id = ?", "a").Error; err != nil {
		t.Fatalf("reload a: %v", err)
	}
	if gotA.MergedIntoID == nil || *gotA.MergedIntoID != "c" {
		t.Fatalf("redirect chain not collapsed: %+v", gotA)
	}
}
