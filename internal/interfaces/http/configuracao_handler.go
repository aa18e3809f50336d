package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	fiscaluc "github.com/aladinsys/fiscal-api/internal/application/fiscal"
	"github.com/aladinsys/fiscal-api/internal/application/dto"
	"github.com/aladinsys/fiscal-api/internal/domain"
)

// ConfiguracaoFiscalHandler trata a configuração fiscal por loja (protegido).
type ConfiguracaoFiscalHandler struct {
	uc *fiscaluc.ConfiguracaoFiscalUseCase
}

// NewConfiguracaoFiscalHandler constrói o handler.
func NewConfiguracaoFiscalHandler(uc *fiscaluc.ConfiguracaoFiscalUseCase) *ConfiguracaoFiscalHandler {
	return &ConfiguracaoFiscalHandler{uc: uc}
}

// lojaDoToken valida que o :id da rota pertence à loja do token.
func lojaDoToken(c *fiber.Ctx) (string, error) {
	lojaID := GetLojaID(c)
	if lojaID == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if id := c.Params("id"); id != "" && id != lojaID {
		return "", c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado à loja"})
	}
	return lojaID, nil
}

// Get devolve a configuração fiscal da loja.
// GET /api/lojas/:id/configuracao-fiscal
func (h *ConfiguracaoFiscalHandler) Get(c *fiber.Ctx) error {
	lojaID, err := lojaDoToken(c)
	if lojaID == "" {
		return err
	}
	out, err := h.uc.Obter(c.Context(), lojaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "loja sem configuração fiscal"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Put cria ou atualiza a configuração fiscal da loja (upsert).
// PUT /api/lojas/:id/configuracao-fiscal
func (h *ConfiguracaoFiscalHandler) Put(c *fiber.Ctx) error {
	lojaID, err := lojaDoToken(c)
	if lojaID == "" {
		return err
	}
	var in dto.ConfiguracaoFiscalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Salvar(c.Context(), lojaID, in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "loja não encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
