package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/application/purchases"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// PurchaseHandler maneja las peticiones HTTP de compras (protegido).
type PurchaseHandler struct {
	uc *purchases.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create registra una compra con sus líneas.
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Replace reemplaza líneas y cabecera de una compra existente.
func (h *PurchaseHandler) Replace(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	purchaseID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Replace(c.Context(), userID, purchaseID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Delete elimina la compra y debita el stock de sus líneas.
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	purchaseID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	resp, err := h.uc.Delete(c.Context(), purchaseID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetByID devuelve la compra con sus líneas.
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchaseID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	resp, err := h.uc.GetByID(c.Context(), purchaseID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// List devuelve compras filtradas por rango de fechas.
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	filter, err := purchaseFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	resp, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(resp), "compras": resp})
}

func purchaseFilterFromQuery(c *fiber.Ctx) (repository.PurchaseFilter, error) {
	var filter repository.PurchaseFilter
	if raw := c.Query("desde"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := c.Query("hasta"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	filter.Limit = c.QueryInt("limit")
	filter.Offset = c.QueryInt("offset")
	return filter, nil
}
