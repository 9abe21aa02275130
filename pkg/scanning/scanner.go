package scanning

import (
	"context"
	"strings"
	"time"

	"Grocery-Receipt-Tracker/domain"
	"Grocery-Receipt-Tracker/entities"
)

// ImageType is the closed set of accepted receipt image formats.
type ImageType string

const (
	ImageTypeJPEG ImageType = "jpeg"
	ImageTypeJPG  ImageType = "jpg"
	ImageTypePNG  ImageType = "png"
	ImageTypeHEIC ImageType = "heic"
)

// ImageTypeFromExtension maps a file extension (with or without the leading
// dot) onto the allow-list. Anything else is rejected before bytes are hashed
// or sent to the model.
func ImageTypeFromExtension(extension string) (ImageType, error) {
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	switch ImageType(ext) {
	case ImageTypeJPEG, ImageTypeJPG, ImageTypePNG, ImageTypeHEIC:
		return ImageType(ext), nil
	}
	return "", domain.ErrUnsupportedImageType
}

// MimeType returns the image MIME type for the upload transport.
func (t ImageType) MimeType() string {
	if t == ImageTypeJPG {
		return "image/jpeg"
	}
	return "image/" + string(t)
}

type (
	ParsedUser struct {
		Username string `json:"username"`
	}

	ParsedStore struct {
		Name    string  `json:"name"`
		Address *string `json:"address,omitempty"`
		Phone   *string `json:"phone,omitempty"`
	}

	ParsedPurchase struct {
		Name      string                   `json:"name"`
		Quantity  float64                  `json:"quantity"`
		UnitPrice float64                  `json:"unit_price"`
		UnitType  entities.UnitType        `json:"unit_type"`
		Category  entities.GroceryCategory `json:"category"`
		Brand     *string                  `json:"brand,omitempty"`
	}

	// ParsedReceipt is the structured extraction result. IsValid is false when
	// the model decides the image is not a readable grocery receipt; callers
	// must check it before ingesting.
	ParsedReceipt struct {
		IsValid   bool             `json:"is_valid"`
		User      ParsedUser       `json:"user"`
		Store     *ParsedStore     `json:"store,omitempty"`
		DateTime  *time.Time       `json:"date_time,omitempty"`
		Purchases []ParsedPurchase `json:"purchases"`
	}
)

// Scanner turns raw receipt image bytes into a structured extraction result.
type Scanner interface {
	ParseReceipt(ctx context.Context, imageData []byte, imageType ImageType, username string) (*ParsedReceipt, error)
	Close() error
}
