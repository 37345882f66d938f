package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/bitfantasy/unbox/internal/config"
	"github.com/bitfantasy/unbox/internal/entity"
	"github.com/bitfantasy/unbox/internal/handler"
	"github.com/bitfantasy/unbox/internal/repository"
	"github.com/bitfantasy/unbox/internal/service"
	"github.com/bitfantasy/unbox/internal/sheet"
	"github.com/bitfantasy/unbox/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startServer runs the real API on an isolated database and returns a
// client pointed at it. Lookup tables degrade to the built-in samples.
func startServer(t *testing.T) (*Client, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	logger := zap.NewNop()
	source := sheet.NewSource(config.TablesConfig{}, nil, logger)
	svcs, err := service.NewServices(repos, source, &config.Config{}, logger)
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	svcs.Lookup.LoadAll(context.Background())

	h := handler.NewHandlers(svcs, logger)
	r := testutil.SetupRouter()
	api := r.Group("/api/v1")
	api.POST("/receiving", h.Receiving.Submit)
	api.POST("/receiving/batch", h.Receiving.SubmitBatch)
	api.POST("/actions", h.Lookup.Dispatch)
	api.GET("/actions", h.Lookup.DispatchQuery)
	api.GET("/export/:table", h.Export.Table)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), db
}

func seedRecord(t *testing.T, db *gorm.DB, poNumber, serial string) {
	t.Helper()
	rec := &entity.ReceivingRecord{
		PONumber:     poNumber,
		EmployeeName: "王小明",
		BatchNumber:  "003000001",
		Category:     "耳機",
		ProductName:  "降噪耳機",
		SerialNumber: serial,
		Quantity:     1,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("seed record failed: %v", err)
	}
}

func TestScanSessionSearchPO(t *testing.T) {
	client, db := startServer(t)
	seedRecord(t, db, "PO20250721", "SEED001")
	seedRecord(t, db, "PO20250721", "SEED002")

	session := NewScanSession(client)
	po, err := session.SearchPO(context.Background(), "PO20250721")
	if err != nil {
		t.Fatalf("SearchPO failed: %v", err)
	}
	if po.Supplier != "員力科技股份有限公司" {
		t.Errorf("Unexpected supplier: %s", po.Supplier)
	}
	// counter seeds from the 2 uploaded records
	entry, err := session.AddSerial("耳機", "降噪耳機", "SN10001")
	if err != nil {
		t.Fatalf("AddSerial failed: %v", err)
	}
	if entry.BatchNumber != "003000003" {
		t.Errorf("Expected preview batch 003000003, got %s", entry.BatchNumber)
	}
}

func TestScanSessionAddSerial(t *testing.T) {
	client, _ := startServer(t)
	session := NewScanSession(client)

	if _, err := session.AddSerial("耳機", "降噪耳機", "SN10001"); err == nil {
		t.Error("Expected error before a purchase order is selected")
	}

	if _, err := session.SearchPO(context.Background(), "PO20250721"); err != nil {
		t.Fatalf("SearchPO failed: %v", err)
	}

	first, err := session.AddSerial("耳機", "降噪耳機", "SN10001")
	if err != nil {
		t.Fatalf("AddSerial failed: %v", err)
	}
	second, err := session.AddSerial("耳機", "降噪耳機", "SN10002")
	if err != nil {
		t.Fatalf("AddSerial failed: %v", err)
	}
	if first.BatchNumber == second.BatchNumber {
		t.Errorf("Expected increasing preview batches, got %s twice", first.BatchNumber)
	}

	if _, err := session.AddSerial("耳機", "降噪耳機", "SN10001"); err == nil {
		t.Error("Expected local duplicate to be rejected")
	}
	if _, err := session.AddSerial("", "降噪耳機", "SN10003"); err == nil {
		t.Error("Expected empty category to be rejected")
	}
	if len(session.Pending()) != 2 {
		t.Errorf("Expected 2 pending entries, got %d", len(session.Pending()))
	}
}

func TestScanSessionRemove(t *testing.T) {
	client, _ := startServer(t)
	session := NewScanSession(client)
	ctx := context.Background()

	if _, err := session.SearchPO(ctx, "PO20250721"); err != nil {
		t.Fatalf("SearchPO failed: %v", err)
	}
	session.AddSerial("耳機", "降噪耳機", "SN10001")
	session.AddSerial("耳機", "降噪耳機", "SN10002")

	if err := session.Remove(0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	pending := session.Pending()
	if len(pending) != 1 || pending[0].Serial != "SN10002" {
		t.Errorf("Unexpected pending list: %v", pending)
	}
	if err := session.Remove(5); err == nil {
		t.Error("Expected out-of-range remove to fail")
	}
}

func TestScanSessionUpload(t *testing.T) {
	client, db := startServer(t)
	session := NewScanSession(client)
	ctx := context.Background()

	if _, err := session.Upload(ctx, "王小明"); err == nil {
		t.Error("Expected upload of empty queue to fail")
	}

	if _, err := session.SearchPO(ctx, "PO20250721"); err != nil {
		t.Fatalf("SearchPO failed: %v", err)
	}
	session.AddSerial("耳機", "降噪耳機", "SN10001")
	session.AddSerial("耳機", "降噪耳機", "SN10002")

	if _, err := session.Upload(ctx, ""); err == nil {
		t.Error("Expected upload without employee to fail")
	}

	res, err := session.Upload(ctx, "王小明")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !res.Success || res.UploadedCount != 2 {
		t.Fatalf("Expected 2 uploaded, got %+v", res)
	}
	if len(session.Pending()) != 0 {
		t.Errorf("Expected queue cleared after upload, got %d", len(session.Pending()))
	}
	if session.UploadedCount() != 2 {
		t.Errorf("Expected session uploaded count 2, got %d", session.UploadedCount())
	}

	var count int64
	db.Model(&entity.ReceivingRecord{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 rows persisted, got %d", count)
	}

	// server-side count now reflects the upload
	n, err := client.UploadedCount(ctx, "PO20250721")
	if err != nil {
		t.Fatalf("UploadedCount failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected server count 2, got %d", n)
	}
}

func TestScanSessionUploadPartialFailure(t *testing.T) {
	client, db := startServer(t)
	// SN10001 is already committed server-side, so its upload will collide
	seedRecord(t, db, "PO20250721", "SN10001")

	session := NewScanSession(client)
	ctx := context.Background()
	if _, err := session.SearchPO(ctx, "PO20250721"); err != nil {
		t.Fatalf("SearchPO failed: %v", err)
	}
	session.AddSerial("耳機", "降噪耳機", "SN10001")
	session.AddSerial("耳機", "降噪耳機", "SN10002")

	res, err := session.Upload(ctx, "王小明")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if res.Success || res.UploadedCount != 1 {
		t.Fatalf("Expected partial failure with 1 uploaded, got %+v", res)
	}

	// committed entries leave the queue, only the failed one stays
	pending := session.Pending()
	if len(pending) != 1 || pending[0].Serial != "SN10001" {
		t.Fatalf("Expected only the rejected entry pending, got %v", pending)
	}
	if session.UploadedCount() != 1 {
		t.Errorf("Expected session uploaded count 1, got %d", session.UploadedCount())
	}

	// retrying the survivor keeps failing on the duplicate but never
	// resurrects the committed one
	res2, err := session.Upload(ctx, "王小明")
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if res2.UploadedCount != 0 {
		t.Errorf("Expected nothing new uploaded on retry, got %d", res2.UploadedCount)
	}
	if len(session.Pending()) != 1 {
		t.Errorf("Expected rejected entry still pending, got %d", len(session.Pending()))
	}

	var count int64
	db.Model(&entity.ReceivingRecord{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 rows total (seed + SN10002), got %d", count)
	}
}

func TestClientQueries(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	employees, err := client.GetAllEmployees(ctx)
	if err != nil {
		t.Fatalf("GetAllEmployees failed: %v", err)
	}
	if len(employees) != 3 {
		t.Errorf("Expected 3 employees, got %d", len(employees))
	}

	emp, err := client.QueryEmployee(ctx, "E001")
	if err != nil {
		t.Fatalf("QueryEmployee failed: %v", err)
	}
	if emp.Name != "王小明" {
		t.Errorf("Expected 王小明, got %s", emp.Name)
	}

	if _, err := client.QueryEmployee(ctx, "E999"); err == nil {
		t.Error("Expected miss to surface as error")
	}

	code, err := client.SupplierCode(ctx, "員力科技股份有限公司")
	if err != nil {
		t.Fatalf("SupplierCode failed: %v", err)
	}
	if code != "003" {
		t.Errorf("Expected code 003, got %s", code)
	}
}
