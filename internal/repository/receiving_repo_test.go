package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/unbox/internal/entity"
	"github.com/bitfantasy/unbox/internal/testutil"
)

func newRecord(poNumber, serial string) *entity.ReceivingRecord {
	return &entity.ReceivingRecord{
		PONumber:     poNumber,
		EmployeeName: "王小明",
		BatchNumber:  "B202507211430",
		Category:     "耳機",
		ProductName:  "降噪耳機",
		SerialNumber: serial,
		Quantity:     1,
	}
}

func TestAppendRejectsDuplicateSerial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewReceivingRepository(db)
	ctx := context.Background()

	if err := repo.Append(ctx, newRecord("PO20250721", "SN00001")); err != nil {
		t.Fatalf("First append failed: %v", err)
	}
	err := repo.Append(ctx, newRecord("20250722001", "SN00001"))
	if !errors.Is(err, ErrDuplicateSerial) {
		t.Fatalf("Expected ErrDuplicateSerial, got %v", err)
	}

	count, err := repo.CountByPO(ctx, "20250722001")
	if err != nil {
		t.Fatalf("CountByPO failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Rejected append must not persist, got %d rows", count)
	}
}

func TestFindBySerial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewReceivingRepository(db)
	ctx := context.Background()

	if _, err := repo.FindBySerial(ctx, "SN00001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := repo.Append(ctx, newRecord("PO20250721", "SN00001")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	rec, err := repo.FindBySerial(ctx, "SN00001")
	if err != nil {
		t.Fatalf("FindBySerial failed: %v", err)
	}
	if rec.SheetRow() != 2 {
		t.Errorf("Expected first record on sheet row 2, got %d", rec.SheetRow())
	}

	// serial lookups are case sensitive
	if _, err := repo.FindBySerial(ctx, "sn00001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected case sensitive lookup, got %v", err)
	}
}

func TestListAllOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewReceivingRepository(db)
	ctx := context.Background()

	for _, serial := range []string{"SN00001", "SN00002", "SN00003"} {
		if err := repo.Append(ctx, newRecord("PO20250721", serial)); err != nil {
			t.Fatalf("Append %s failed: %v", serial, err)
		}
	}

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.SheetRow() != i+2 {
			t.Errorf("Expected record %d on sheet row %d, got %d", i, i+2, rec.SheetRow())
		}
	}
}
