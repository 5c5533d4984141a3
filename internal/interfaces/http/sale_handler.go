package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/application/sales"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas y abonos (protegido).
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create registra una venta con sus líneas y pagos iniciales.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Replace reemplaza líneas y cabecera de una venta existente.
func (h *SaleHandler) Replace(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	saleID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Replace(c.Context(), userID, saleID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Delete elimina la venta y restituye el stock de sus líneas.
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	saleID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	resp, err := h.uc.Delete(c.Context(), saleID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetByID devuelve la venta con líneas y pagos.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	saleID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	resp, err := h.uc.GetByID(c.Context(), saleID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// List devuelve ventas filtradas por estado, fiado y rango de fechas.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	filter, err := saleFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	resp, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(resp), "ventas": resp})
}

// ListCredit devuelve la cartera: ventas fiadas con saldo pendiente.
func (h *SaleHandler) ListCredit(c *fiber.Ctx) error {
	filter, err := saleFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	isCredit := true
	filter.IsCredit = &isCredit
	filter.Status = entity.SaleStatusPending
	resp, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(resp), "ventas": resp})
}

// RegisterPayment registra un abono sobre una venta fiada.
func (h *SaleHandler) RegisterPayment(c *fiber.Ctx) error {
	saleID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.RegisterPayment(c.Context(), saleID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func saleFilterFromQuery(c *fiber.Ctx) (repository.SaleFilter, error) {
	var filter repository.SaleFilter
	filter.Status = c.Query("estado")
	if raw := c.Query("fiado"); raw != "" {
		isCredit, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.IsCredit = &isCredit
	}
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
