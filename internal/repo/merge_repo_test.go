package repo

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

func TestCreateMergeRecord_PersistsCounts(t *testing.T) {
	db := newRecordRepoDB(t)
	mergedAt := time.Now().UTC().Truncate(time.Second)

	var rec *domain.MergeRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = CreateMergeRecord(tx, "t1", domain.EntityContact, "survivor", "loser", "user-1",
			map[string]int{"deals": 3, "notes": 1}, mergedAt)
		return err
	})
	if err != nil {
		t.Fatalf("CreateMergeRecord: %v", err)
	}
	if rec.ID == "" || rec.SurvivorID != "survivor" || rec.LoserID != "loser" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	var got domain.MergeRecord
	if err := db.First(&got, "id = ?", rec.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	counts := got.TransferCountMap()
	if counts["deals"] != 3 || counts["notes"] != 1 {
		t.Fatalf("transfer counts lost: %v", counts)
	}
	if got.ActingUserID != "user-1" {
		t.Fatalf("acting user lost: %+v", got)
	}
}

func TestListMergeRecords_NewestFirstAndLimited(t *testing.T) {
	db := newRecordRepoDB(t)
	base := time.Now().UTC().Add(-time.Hour)

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 3; i++ {
			if _, err := CreateMergeRecord(tx, "t1", domain.EntityContact, "s", NewID(), "u",
				nil, base.Add(time.Duration(i)*time.Minute)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed merges: %v", err)
	}

	got, err := ListMergeRecords(context.Background(), db, "t1", domain.EntityContact, 2)
	if err != nil {
		t.Fatalf("ListMergeRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit ignored: got %d rows", len(got))
	}
	if got[0].MergedAt.Before(got[1].MergedAt) {
		t.Fatalf("not newest first: %v then %v", got[0].MergedAt, got[1].MergedAt)
	}
}
