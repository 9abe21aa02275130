package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessUploadReceipt     = "receipt ingested successfully"
	MessageSuccessGetReceipts       = "receipts retrieved successfully"
	MessageSuccessGetReceiptDetails = "receipt details retrieved successfully"

	MessageFailedUploadReceipt     = "failed to upload receipt"
	MessageFailedParseReceipt      = "failed to parse receipt image"
	MessageFailedGetReceipts       = "failed to retrieve receipts"
	MessageFailedGetReceiptDetails = "failed to retrieve receipt details"
	MessageDuplicateReceipt        = "receipt already exists"

	ErrDuplicateReceipt     = errors.New("receipt already ingested")
	ErrInvalidExtraction    = errors.New("image is not a readable grocery receipt")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrUsernameRequired     = errors.New("username is required")
	ErrReceiptNotFound      = errors.New("receipt not found")
	ErrUnauthorizedAccess   = errors.New("unauthorized access to receipt")
)

type (
	UploadReceiptRequest struct {
		ReceiptImage *multipart.FileHeader `json:"img_file" form:"img_file" validate:"required"`
	}

	UploadReceiptResponse struct {
		ReceiptID     uint       `json:"receipt_id"`
		ImageHash     string     `json:"image_hash"`
		Username      string     `json:"username"`
		StoreName     string     `json:"store_name,omitempty"`
		DateTime      *time.Time `json:"date_time,omitempty"`
		PurchaseCount int        `json:"purchase_count"`
		ImageURL      string     `json:"image_url,omitempty"`
	}

	ReceiptSummaryResponse struct {
		ID            uint       `json:"id"`
		StoreName     string     `json:"store_name,omitempty"`
		DateTime      *time.Time `json:"date_time,omitempty"`
		PurchaseCount int        `json:"purchase_count"`
		TotalCost     float64    `json:"total_cost"`
		CreatedAt     time.Time  `json:"created_at"`
	}

	PurchaseLineResponse struct {
		ItemName  string  `json:"item_name"`
		Category  string  `json:"category"`
		Brand     string  `json:"brand,omitempty"`
		Quantity  float64 `json:"quantity"`
		UnitPrice float64 `json:"unit_price"`
		UnitType  string  `json:"unit_type"`
	}

	ReceiptDetailsResponse struct {
		ID        uint                   `json:"id"`
		Username  string                 `json:"username"`
		StoreName string                 `json:"store_name,omitempty"`
		DateTime  *time.Time             `json:"date_time,omitempty"`
		ImageHash string                 `json:"image_hash"`
		Purchases []PurchaseLineResponse `json:"purchases"`
		TotalCost float64                `json:"total_cost"`
		CreatedAt time.Time              `json:"created_at"`
	}
)
