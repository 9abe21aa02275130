package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"Grocery-Receipt-Tracker/domain"
	"Grocery-Receipt-Tracker/entities"
	"Grocery-Receipt-Tracker/internal/utils"
	"Grocery-Receipt-Tracker/internal/utils/storage"
	"Grocery-Receipt-Tracker/pkg/scanning"
)

type (
	ReceiptService interface {
		UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, username string) (domain.UploadReceiptResponse, error)
		GetReceipts(ctx context.Context, username string, page, limit int) ([]domain.ReceiptSummaryResponse, int64, error)
		GetReceiptDetails(ctx context.Context, id uint, username string) (domain.ReceiptDetailsResponse, error)
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		scanner           scanning.Scanner
		s3                storage.AwsS3
		log               *logrus.Logger
	}
)

func NewReceiptService(receiptRepository ReceiptRepository, scanner scanning.Scanner, s3 storage.AwsS3) ReceiptService {
	return &receiptService{
		receiptRepository: receiptRepository,
		scanner:           scanner,
		s3:                s3,
		log:               utils.GetLogger(),
	}
}

// UploadReceipt runs the full ingestion flow for one uploaded image:
// extension check, dedup pre-check, vision extraction, then the atomic write.
// A duplicate image short-circuits before the extractor is ever called.
func (s *receiptService) UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, username string) (domain.UploadReceiptResponse, error) {
	if username == "" {
		return domain.UploadReceiptResponse{}, domain.ErrUsernameRequired
	}

	imageType, err := scanning.ImageTypeFromExtension(filepath.Ext(req.ReceiptImage.Filename))
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	file, err := req.ReceiptImage.Open()
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}
	defer file.Close()

	imageContent, err := io.ReadAll(file)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}
	if len(imageContent) == 0 {
		return domain.UploadReceiptResponse{}, domain.ErrInvalidExtraction
	}

	imageHash := entities.HashImage(imageContent)
	exists, err := s.receiptRepository.ExistsByImageHash(ctx, imageHash)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}
	if exists {
		return domain.UploadReceiptResponse{}, domain.ErrDuplicateReceipt
	}

	parsed, err := s.scanner.ParseReceipt(ctx, imageContent, imageType, username)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}
	if !parsed.IsValid {
		return domain.UploadReceiptResponse{}, domain.ErrInvalidExtraction
	}
	if parsed.User.Username == "" {
		parsed.User.Username = username
	}

	imageURL := s.archiveImage(ctx, imageContent, imageType)

	ingested, err := s.receiptRepository.IngestReceipt(ctx, imageContent, parsed)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	res := domain.UploadReceiptResponse{
		ReceiptID:     ingested.ID,
		ImageHash:     ingested.ImageHash,
		Username:      parsed.User.Username,
		DateTime:      ingested.DateTime,
		PurchaseCount: len(parsed.Purchases),
		ImageURL:      imageURL,
	}
	if parsed.Store != nil {
		res.StoreName = parsed.Store.Name
	}
	return res, nil
}

// archiveImage stores the original bytes in S3 for later review. Archival is
// best effort: a failure is logged and ingestion continues.
func (s *receiptService) archiveImage(ctx context.Context, imageContent []byte, imageType scanning.ImageType) string {
	if s.s3 == nil || !s.s3.Enabled() {
		return ""
	}

	fileName := fmt.Sprintf("receipt-%s.%s", uuid.New().String(), imageType)
	objectKey, err := s.s3.UploadBytes(ctx, fileName, imageContent, imageType.MimeType(), "receipts")
	if err != nil {
		utils.LogError(s.log, "receipt", "archiveImage", "uploading receipt image", err)
		return ""
	}
	return s.s3.GetPublicLinkKey(objectKey)
}

func (s *receiptService) GetReceipts(ctx context.Context, username string, page, limit int) ([]domain.ReceiptSummaryResponse, int64, error) {
	user, err := s.receiptRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No receipts ingested for this user yet.
			return []domain.ReceiptSummaryResponse{}, 0, nil
		}
		return nil, 0, err
	}

	receipts, count, err := s.receiptRepository.GetReceipts(ctx, user.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ReceiptSummaryResponse, 0, len(receipts))
	for _, r := range receipts {
		summary := domain.ReceiptSummaryResponse{
			ID:            r.ID,
			DateTime:      r.DateTime,
			PurchaseCount: len(r.Transactions),
			CreatedAt:     r.CreatedAt,
		}
		if r.Store != nil {
			summary.StoreName = r.Store.Name
		}
		for _, t := range r.Transactions {
			summary.TotalCost += t.Quantity * t.UnitPrice
		}
		response = append(response, summary)
	}

	return response, count, nil
}

func (s *receiptService) GetReceiptDetails(ctx context.Context, id uint, username string) (domain.ReceiptDetailsResponse, error) {
	receipt, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptDetailsResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptDetailsResponse{}, err
	}

	if receipt.User == nil || receipt.User.Username != username {
		return domain.ReceiptDetailsResponse{}, domain.ErrUnauthorizedAccess
	}

	response := domain.ReceiptDetailsResponse{
		ID:        receipt.ID,
		Username:  receipt.User.Username,
		DateTime:  receipt.DateTime,
		ImageHash: receipt.ImageHash,
		Purchases: make([]domain.PurchaseLineResponse, 0, len(receipt.Transactions)),
		CreatedAt: receipt.CreatedAt,
	}
	if receipt.Store != nil {
		response.StoreName = receipt.Store.Name
	}

	for _, t := range receipt.Transactions {
		line := domain.PurchaseLineResponse{
			Quantity:  t.Quantity,
			UnitPrice: t.UnitPrice,
			UnitType:  string(t.UnitType),
		}
		if t.Item != nil {
			line.ItemName = t.Item.Name
			line.Category = string(t.Item.Category)
			if t.Item.Brand != nil {
				line.Brand = *t.Item.Brand
			}
		}
		response.Purchases = append(response.Purchases, line)
		response.TotalCost += t.Quantity * t.UnitPrice
	}

	return response, nil
}
