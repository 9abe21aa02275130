package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Grocery-Receipt-Tracker/domain"
	"Grocery-Receipt-Tracker/internal/api/presenters"
	"Grocery-Receipt-Tracker/pkg/receipt"
)

type (
	ReceiptHandler interface {
		UploadReceipt(c *fiber.Ctx) error
		GetReceipts(c *fiber.Ctx) error
		GetReceiptDetails(c *fiber.Ctx) error
	}

	receiptHandler struct {
		receiptService receipt.ReceiptService
		validator      *validator.Validate
	}
)

func NewReceiptHandler(receiptService receipt.ReceiptService, validator *validator.Validate) ReceiptHandler {
	return &receiptHandler{
		receiptService: receiptService,
		validator:      validator,
	}
}

func (h *receiptHandler) UploadReceipt(c *fiber.Ctx) error {
	username := c.Locals("username").(string)
	req := new(domain.UploadReceiptRequest)

	file, err := c.FormFile("img_file")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.ReceiptImage = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadReceipt, err)
	}

	res, err := h.receiptService.UploadReceipt(c.Context(), *req, username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateReceipt):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageDuplicateReceipt, err)
		case errors.Is(err, domain.ErrUnsupportedImageType):
			return presenters.ErrorResponse(c, fiber.StatusUnsupportedMediaType, domain.MessageFailedUploadReceipt, err)
		case errors.Is(err, domain.ErrInvalidExtraction), errors.Is(err, domain.ErrUsernameRequired):
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedParseReceipt, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadReceipt)
}

func (h *receiptHandler) GetReceipts(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	receipts, count, err := h.receiptService.GetReceipts(c.Context(), username, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetReceipts, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"receipts": receipts,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetReceipts)
}

func (h *receiptHandler) GetReceiptDetails(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetReceiptDetails, err)
	}

	res, err := h.receiptService.GetReceiptDetails(c.Context(), uint(id), username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReceiptNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetReceiptDetails, err)
		case errors.Is(err, domain.ErrUnauthorizedAccess):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedGetReceiptDetails, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetReceiptDetails, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReceiptDetails)
}
