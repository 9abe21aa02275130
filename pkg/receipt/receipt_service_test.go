package receipt

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Grocery-Receipt-Tracker/domain"
	"Grocery-Receipt-Tracker/entities"
	"Grocery-Receipt-Tracker/pkg/scanning"
)

// stubScanner returns a canned extraction result and records invocations.
type stubScanner struct {
	result *scanning.ParsedReceipt
	err    error
	calls  int
}

func (s *stubScanner) ParseReceipt(_ context.Context, _ []byte, _ scanning.ImageType, _ string) (*scanning.ParsedReceipt, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubScanner) Close() error { return nil }

func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("img_file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["img_file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestUploadReceiptRejectsUnsupportedExtension(t *testing.T) {
	db := setupTestDB(t)
	scanner := &stubScanner{result: marketPayload("alice")}
	service := NewReceiptService(NewReceiptRepository(db), scanner, nil)

	req := domain.UploadReceiptRequest{ReceiptImage: multipartFileHeader(t, "receipt.gif", []byte("receipt-1"))}
	_, err := service.UploadReceipt(context.Background(), req, "alice")

	require.ErrorIs(t, err, domain.ErrUnsupportedImageType)
	assert.Zero(t, scanner.calls)
	assert.EqualValues(t, 0, countRows(t, db, &entities.GroceryReceipt{}))
}

func TestUploadReceiptDuplicateShortCircuitsBeforeExtraction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReceiptRepository(db)
	image := []byte("receipt-1")
	_, err := repo.IngestReceipt(context.Background(), image, marketPayload("alice"))
	require.NoError(t, err)

	scanner := &stubScanner{result: marketPayload("alice")}
	service := NewReceiptService(repo, scanner, nil)

	req := domain.UploadReceiptRequest{ReceiptImage: multipartFileHeader(t, "receipt.jpg", image)}
	_, err = service.UploadReceipt(context.Background(), req, "alice")

	require.ErrorIs(t, err, domain.ErrDuplicateReceipt)
	assert.Zero(t, scanner.calls, "duplicate must be detected before the model is called")
	assert.EqualValues(t, 1, countRows(t, db, &entities.GroceryReceipt{}))
}

func TestUploadReceiptInvalidExtraction(t *testing.T) {
	db := setupTestDB(t)
	scanner := &stubScanner{result: &scanning.ParsedReceipt{IsValid: false}}
	service := NewReceiptService(NewReceiptRepository(db), scanner, nil)

	req := domain.UploadReceiptRequest{ReceiptImage: multipartFileHeader(t, "photo.png", []byte("not a receipt"))}
	_, err := service.UploadReceipt(context.Background(), req, "alice")

	require.ErrorIs(t, err, domain.ErrInvalidExtraction)
	assert.Equal(t, 1, scanner.calls)
	assert.EqualValues(t, 0, countRows(t, db, &entities.User{}))
	assert.EqualValues(t, 0, countRows(t, db, &entities.GroceryReceipt{}))
}

func TestUploadReceiptRequiresUsername(t *testing.T) {
	db := setupTestDB(t)
	scanner := &stubScanner{result: marketPayload("alice")}
	service := NewReceiptService(NewReceiptRepository(db), scanner, nil)

	req := domain.UploadReceiptRequest{ReceiptImage: multipartFileHeader(t, "receipt.jpg", []byte("receipt-1"))}
	_, err := service.UploadReceipt(context.Background(), req, "")

	require.ErrorIs(t, err, domain.ErrUsernameRequired)
	assert.Zero(t, scanner.calls)
}

func TestUploadReceiptSuccess(t *testing.T) {
	db := setupTestDB(t)
	scanner := &stubScanner{result: marketPayload("alice")}
	service := NewReceiptService(NewReceiptRepository(db), scanner, nil)

	image := []byte("receipt-1")
	req := domain.UploadReceiptRequest{ReceiptImage: multipartFileHeader(t, "receipt.jpeg", image)}
	res, err := service.UploadReceipt(context.Background(), req, "alice")
	require.NoError(t, err)

	assert.NotZero(t, res.ReceiptID)
	assert.Equal(t, entities.HashImage(image), res.ImageHash)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "Market", res.StoreName)
	assert.Equal(t, 1, res.PurchaseCount)
	assert.Empty(t, res.ImageURL)

	assert.EqualValues(t, 1, countRows(t, db, &entities.GroceryReceipt{}))
	assert.EqualValues(t, 1, countRows(t, db, &entities.Transaction{}))
}

func TestGetReceiptsUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(NewReceiptRepository(db), &stubScanner{}, nil)

	receipts, count, err := service.GetReceipts(context.Background(), "nobody", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, receipts)
}

func TestGetReceiptsSummaries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReceiptRepository(db)
	service := NewReceiptService(repo, &stubScanner{}, nil)

	payload := marketPayload("alice")
	payload.Purchases = []scanning.ParsedPurchase{
		{Name: "Milk", Quantity: 2, UnitPrice: 3.50, UnitType: entities.UnitTypeEach, Category: entities.CategoryDairy},
		{Name: "Apples", Quantity: 1.5, UnitPrice: 2.00, UnitType: entities.UnitTypePound, Category: entities.CategoryProduce},
	}
	_, err := repo.IngestReceipt(context.Background(), []byte("receipt-1"), payload)
	require.NoError(t, err)

	receipts, count, err := service.GetReceipts(context.Background(), "alice", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, receipts, 1)

	assert.Equal(t, "Market", receipts[0].StoreName)
	assert.Equal(t, 2, receipts[0].PurchaseCount)
	assert.InDelta(t, 10.0, receipts[0].TotalCost, 1e-9)
}

func TestGetReceiptDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReceiptRepository(db)
	service := NewReceiptService(repo, &stubScanner{}, nil)

	ingested, err := repo.IngestReceipt(context.Background(), []byte("receipt-1"), marketPayload("alice"))
	require.NoError(t, err)

	details, err := service.GetReceiptDetails(context.Background(), ingested.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", details.Username)
	assert.Equal(t, "Market", details.StoreName)
	require.Len(t, details.Purchases, 1)
	assert.Equal(t, "Milk", details.Purchases[0].ItemName)
	assert.Equal(t, string(entities.CategoryDairy), details.Purchases[0].Category)
	assert.InDelta(t, 3.50, details.TotalCost, 1e-9)
}

func TestGetReceiptDetailsAccessControl(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReceiptRepository(db)
	service := NewReceiptService(repo, &stubScanner{}, nil)

	ingested, err := repo.IngestReceipt(context.Background(), []byte("receipt-1"), marketPayload("alice"))
	require.NoError(t, err)

	_, err = service.GetReceiptDetails(context.Background(), ingested.ID, "mallory")
	require.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	_, err = service.GetReceiptDetails(context.Background(), ingested.ID+100, "alice")
	require.ErrorIs(t, err, domain.ErrReceiptNotFound)
}
