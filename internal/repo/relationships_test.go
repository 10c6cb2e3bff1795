package repo

import (
	"context"
	"sort"
	"testing"

	"gorm.io/gorm"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

func strptr(s string) *string { return &s }

func TestRelationshipNames_SortedAndComplete(t *testing.T) {
	names := RelationshipNames(domain.EntityContact)
	if !sort.StringsAreSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
	if len(names) != len(contactRelationships) {
		t.Fatalf("got %d names, want %d", len(names), len(contactRelationships))
	}

	// Companies additionally reparent their member contacts.
	compNames := RelationshipNames(domain.EntityCompany)
	found := false
	for _, n := range compNames {
		if n == "contacts" {
			found = true
		}
	}
	if !found {
		t.Fatalf("company catalog missing member contacts: %v", compNames)
	}
}

func TestCountRelated_CountsPerType(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "c1", "t1", "Jon", "Smith", "jon@x.com")

	mustCreate(t, db,
		&domain.Deal{ID: NewID(), TenantID: "t1", Title: "d1", ContactID: strptr("c1")},
		&domain.Deal{ID: NewID(), TenantID: "t1", Title: "d2", ContactID: strptr("c1")},
		&domain.Note{ID: NewID(), TenantID: "t1", Body: "n1", ContactID: strptr("c1")},
		// Different tenant, must not count.
		&domain.Deal{ID: NewID(), TenantID: "t2", Title: "x", ContactID: strptr("c1")},
	)

	counts, err := CountRelated(context.Background(), db, RelationshipsFor(domain.EntityContact), "t1", "c1")
	if err != nil {
		t.Fatalf("CountRelated: %v", err)
	}
	if counts["deals"] != 2 || counts["notes"] != 1 || counts["quotes"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestReparentRelated_MovesRowsAndReportsCounts(t *testing.T) {
	db := newRecordRepoDB(t)
	seedContact(t, db, "survivor", "t1", "Jon", "Smith", "jon@x.com")
	seedContact(t, db, "loser", "t1", "Jonathan", "Smith", "jsmith@x.com")

	mustCreate(t, db,
		&domain.Deal{ID: "d1", TenantID: "t1", ContactID: strptr("loser")},
		&domain.Deal{ID: "d2", TenantID: "t1", ContactID: strptr("loser")},
		&domain.Deal{ID: "d3", TenantID: "t1", ContactID: strptr("loser")},
		&domain.Note{ID: "n1", TenantID: "t1", Body: "b", ContactID: strptr("loser")},
		&domain.Lead{ID: "l1", TenantID: "t1", ConvertedContactID: strptr("loser")},
		// Other tenant's deal must stay put.
		&domain.Deal{ID: "d9", TenantID: "t2", ContactID: strptr("loser")},
	)

	var counts map[string]int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		counts, err = ReparentRelated(tx, RelationshipsFor(domain.EntityContact), "t1", "loser", "survivor")
		return err
	})
	if err != nil {
		t.Fatalf("ReparentRelated: %v", err)
	}
	if counts["deals"] != 3 || counts["notes"] != 1 || counts["leads"] != 1 {
		t.Fatalf("unexpected transfer counts: %v", counts)
	}

	var moved int64
	if err := db.Model(&domain.Deal{}).
		Where("tenant_id = ? AND contact_id = ?", "t1", "survivor").
		Count(&moved).Error; err != nil {
		t.Fatalf("count moved: %v", err)
	}
	if moved != 3 {
		t.Fatalf("%d deals on survivor, want 3", moved)
	}

	var other domain.Deal
	if err := db.First(&other, "id = ?", "d9").Error; err != nil {
		t.Fatalf("reload d9: %v", err)
	}
	if other.ContactID == nil || *other.ContactID != "loser" {
		t.Fatalf("cross-tenant deal was reparented: %+v", other)
	}
}

func TestReparentRelated_CompanyMovesMemberContacts(t *testing.T) {
	db := newRecordRepoDB(t)

	mustCreate(t, db,
		&domain.Company{ID: "co1", TenantID: "t1", Name: "Acme"},
		&domain.Company{ID: "co2", TenantID: "t1", Name: "Acme Corp"},
		&domain.Contact{ID: "c1", TenantID: "t1", FirstName: "Jon", CompanyID: strptr("co2")},
		&domain.Contact{ID: "c2", TenantID: "t1", FirstName: "Ann", CompanyID: strptr("co2")},
	)

	var counts map[string]int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		counts, err = ReparentRelated(tx, RelationshipsFor(domain.EntityCompany), "t1", "co2", "co1")
		return err
	})
	if err != nil {
		t.Fatalf("ReparentRelated: %v", err)
	}
	if counts["contacts"] != 2 {
		t.Fatalf("member contacts moved = %d, want 2", counts["contacts"])
	}
}

func mustCreate(t *testing.T, db *gorm.DB, rows ...any) {
	t.Helper()
	for _, r := range rows {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed %T: %v", r, err)
		}
	}
}
