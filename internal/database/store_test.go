package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		db, err := NewDB(path)
		if err != nil {
			t.Fatalf("NewDB() pass %d error = %v", i+1, err)
		}
		CloseDB(db)
	}
}

func TestStore_AdviceRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	first := &AdviceRecord{Profile: `{"name":null}`, Status: StatusOK, Response: `{"a":1}`, DurationMS: 12}
	second := &AdviceRecord{Profile: `{"name":"Ada"}`, Status: StatusInvalidJSON, Response: "not json at all", Error: "Model returned invalid JSON"}
	for _, r := range []*AdviceRecord{first, second} {
		if err := store.SaveAdviceRecord(ctx, r); err != nil {
			t.Fatalf("SaveAdviceRecord() error = %v", err)
		}
		if r.ID == 0 {
			t.Error("SaveAdviceRecord() did not set ID")
		}
	}

	records, err := store.ListAdviceRecords(ctx, 10)
	if err != nil {
		t.Fatalf("ListAdviceRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListAdviceRecords() returned %d records, want 2", len(records))
	}
	if records[0].ID != second.ID || records[0].Status != StatusInvalidJSON || records[0].Response != "not json at all" {
		t.Errorf("newest record = %+v, want %+v", records[0], second)
	}
	if records[1].DurationMS != 12 || records[1].CreatedAt.IsZero() {
		t.Errorf("oldest record = %+v", records[1])
	}

	limited, err := store.ListAdviceRecords(ctx, 1)
	if err != nil {
		t.Fatalf("ListAdviceRecords(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListAdviceRecords(1) returned %d records", len(limited))
	}
}

func TestStore_SaveRejectsMissingStatus(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.SaveAdviceRecord(context.Background(), &AdviceRecord{Profile: "{}"}); err == nil {
		t.Error("SaveAdviceRecord() error = nil, want error for missing status")
	}
	if err := store.SaveChatRecord(context.Background(), nil); err == nil {
		t.Error("SaveChatRecord(nil) error = nil, want error")
	}
}

func TestStore_ChatRecordsAndPrune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	now := time.Now().UTC()
	old := &ChatRecord{CreatedAt: now.Add(-48 * time.Hour), Message: "old", Status: StatusOK, Reply: "r"}
	recent := &ChatRecord{CreatedAt: now.Add(-time.Hour), HistoryTurns: 4, Message: "recent", Status: StatusError, Error: "quota exceeded"}
	for _, r := range []*ChatRecord{old, recent} {
		if err := store.SaveChatRecord(ctx, r); err != nil {
			t.Fatalf("SaveChatRecord() error = %v", err)
		}
	}
	oldAdvice := &AdviceRecord{CreatedAt: now.Add(-72 * time.Hour), Profile: "{}", Status: StatusOK}
	if err := store.SaveAdviceRecord(ctx, oldAdvice); err != nil {
		t.Fatalf("SaveAdviceRecord() error = %v", err)
	}

	deleted, err := store.PruneBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneBefore() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("PruneBefore() deleted %d, want 2", deleted)
	}

	chats, err := store.ListChatRecords(ctx, 0)
	if err != nil {
		t.Fatalf("ListChatRecords() error = %v", err)
	}
	if len(chats) != 1 || chats[0].Message != "recent" || chats[0].HistoryTurns != 4 {
		t.Errorf("ListChatRecords() = %+v, want only the recent record", chats)
	}

	advice, err := store.ListAdviceRecords(ctx, 0)
	if err != nil {
		t.Fatalf("ListAdviceRecords() error = %v", err)
	}
	if len(advice) != 0 {
		t.Errorf("ListAdviceRecords() = %+v, want none", advice)
	}

	if err := store.RunSQLMaintenance(ctx); err != nil {
		t.Errorf("RunSQLMaintenance() error = %v", err)
	}
}
