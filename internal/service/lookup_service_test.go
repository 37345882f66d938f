package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bitfantasy/unbox/internal/config"
	"github.com/bitfantasy/unbox/internal/sheet"
	"github.com/bitfantasy/unbox/internal/testutil"
	"go.uber.org/zap"
)

func poHeaderCSV(t *testing.T, rows ...[]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Repeat(",", 19) + "\n") // header row
	for _, row := range rows {
		padded := make([]string, 20)
		copy(padded, row)
		b.WriteString(strings.Join(padded, ",") + "\n")
	}
	return b.String()
}

func TestLookupLoadAllFromSource(t *testing.T) {
	row := make([]string, 20)
	row[0] = "20250801001"
	row[1] = "2025-08-01"
	row[2] = "測試供應商"
	row[19] = "30"

	srv := testutil.CSVSourceServer(t, map[string]string{
		"po_header":         poHeaderCSV(t, row),
		"supplier_contacts": "代碼,名稱\n007,測試供應商\n",
		"員工名冊":              "員工編號,姓名\nE100,測試員\n",
	})

	cfg := config.TablesConfig{
		SourceURL:     srv.URL,
		POHeaderSheet: "po_header",
		SupplierSheet: "supplier_contacts",
		EmployeeSheet: "員工名冊",
	}
	logger := zap.NewNop()
	lookup := NewLookupService(sheet.NewSource(cfg, nil, logger), cfg, config.BatchConfig{}, logger)
	lookup.LoadAll(context.Background())

	if lookup.Degraded() {
		t.Fatal("Expected all tables to load from the source")
	}

	po, ok := lookup.FindPurchaseOrder("20250801001")
	if !ok {
		t.Fatal("Expected purchase order from the source")
	}
	if po.Supplier != "測試供應商" || po.ExpectedQuantity != 30 {
		t.Errorf("Unexpected purchase order: %+v", po)
	}

	if code := lookup.SupplierCodeForPO("20250801001"); code != "007" {
		t.Errorf("Expected supplier code 007, got %s", code)
	}
	if code := lookup.SupplierCodeForPO("nope"); code != "000" {
		t.Errorf("Expected default code 000 for unknown PO, got %s", code)
	}

	openers := lookup.OpenerNames()
	if len(openers) != 1 || openers[0] != "測試員" {
		t.Errorf("Unexpected openers: %v", openers)
	}
}

func TestLookupReloadsWhenStale(t *testing.T) {
	row := make([]string, 20)
	row[0] = "20250801001"
	row[2] = "測試供應商"

	sheets := map[string]string{
		"po_header":         poHeaderCSV(t, row),
		"supplier_contacts": "代碼,名稱\n007,測試供應商\n",
		"員工名冊":              "員工編號,姓名\nE100,測試員\n",
	}
	srv := testutil.CSVSourceServer(t, sheets)

	cfg := config.TablesConfig{
		SourceURL:     srv.URL,
		CacheTTL:      time.Nanosecond, // every access is stale
		POHeaderSheet: "po_header",
		SupplierSheet: "supplier_contacts",
		EmployeeSheet: "員工名冊",
	}
	logger := zap.NewNop()
	lookup := NewLookupService(sheet.NewSource(cfg, nil, logger), cfg, config.BatchConfig{}, logger)
	lookup.LoadAll(context.Background())

	if _, ok := lookup.FindPurchaseOrder("20250802001"); ok {
		t.Fatal("New purchase order must not exist yet")
	}

	// the sheet gains a purchase order after boot
	added := make([]string, 20)
	added[0] = "20250802001"
	added[2] = "測試供應商"
	sheets["po_header"] = poHeaderCSV(t, row, added)

	if _, ok := lookup.FindPurchaseOrder("20250802001"); !ok {
		t.Error("Expected stale tables to be refetched on lookup")
	}
}

func TestLookupNoReloadWithoutTTL(t *testing.T) {
	row := make([]string, 20)
	row[0] = "20250801001"

	sheets := map[string]string{
		"po_header":         poHeaderCSV(t, row),
		"supplier_contacts": "代碼,名稱\n",
		"員工名冊":              "員工編號,姓名\n",
	}
	srv := testutil.CSVSourceServer(t, sheets)

	cfg := config.TablesConfig{
		SourceURL:     srv.URL,
		POHeaderSheet: "po_header",
		SupplierSheet: "supplier_contacts",
		EmployeeSheet: "員工名冊",
	}
	logger := zap.NewNop()
	lookup := NewLookupService(sheet.NewSource(cfg, nil, logger), cfg, config.BatchConfig{}, logger)
	lookup.LoadAll(context.Background())

	added := make([]string, 20)
	added[0] = "20250802001"
	sheets["po_header"] = poHeaderCSV(t, row, added)

	if _, ok := lookup.FindPurchaseOrder("20250802001"); ok {
		t.Error("Expected tables to stay pinned when cache_ttl is zero")
	}
}

func TestLookupDegradesToSamples(t *testing.T) {
	// missing sheets make every fetch fail
	srv := testutil.CSVSourceServer(t, map[string]string{})

	cfg := config.TablesConfig{
		SourceURL:     srv.URL,
		POHeaderSheet: "po_header",
		SupplierSheet: "supplier_contacts",
		EmployeeSheet: "員工名冊",
	}
	logger := zap.NewNop()
	lookup := NewLookupService(sheet.NewSource(cfg, nil, logger), cfg, config.BatchConfig{}, logger)
	lookup.LoadAll(context.Background())

	if !lookup.Degraded() {
		t.Fatal("Expected degraded mode when fetches fail")
	}
	if _, ok := lookup.FindPurchaseOrder("PO20250721"); !ok {
		t.Error("Expected sample purchase order to be served")
	}
	if len(lookup.AllEmployees()) != 3 {
		t.Errorf("Expected 3 sample employees, got %d", len(lookup.AllEmployees()))
	}
}
