package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"dapurbooks/backend/internal/domain"
	"dapurbooks/backend/internal/store"
)

func TestCreateDailyRecordDuplicateDateConflict(t *testing.T) {
	databaseURL := os.Getenv("DAPURBOOKS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set DAPURBOOKS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	// A date far in the past keeps this test clear of real data.
	recordDate := time.Date(1991, time.March, 7, 0, 0, 0, 0, time.UTC)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM daily_economy_records WHERE record_date = $1`, recordDate)
	})

	first, err := s.CreateDailyRecord(ctx, domain.DailyEconomyRecord{
		RecordDate:  recordDate,
		TotalIncome: 150000,
		GrossProfit: 90000,
	})
	if err != nil {
		t.Fatalf("create first record: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated record id")
	}

	_, err = s.CreateDailyRecord(ctx, domain.DailyEconomyRecord{
		RecordDate:  recordDate,
		TotalIncome: 999,
	})
	if err == nil {
		t.Fatalf("expected duplicate date conflict")
	}
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict sentinel, got %v", err)
	}

	var dup *store.DuplicateDateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateDateError, got %T", err)
	}
	if dup.ExistingID != first.ID {
		t.Fatalf("expected existing id %s, got %s", first.ID, dup.ExistingID)
	}

	found, err := s.FindDailyRecordByDate(ctx, recordDate)
	if err != nil {
		t.Fatalf("find by date: %v", err)
	}
	if found.ID != first.ID || found.TotalIncome != 150000 {
		t.Fatalf("expected original record untouched, got %+v", found)
	}
}
