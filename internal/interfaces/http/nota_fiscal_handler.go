package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	fiscaluc "github.com/aladinsys/fiscal-api/internal/application/fiscal"
	"github.com/aladinsys/fiscal-api/internal/application/dto"
	"github.com/aladinsys/fiscal-api/internal/domain"
	"github.com/aladinsys/fiscal-api/internal/domain/entity"
)

var validate = validator.New()

// NotaFiscalHandler trata as rotas de notas fiscais de saída (protegido).
type NotaFiscalHandler struct {
	criar     *fiscaluc.CriarNotaUseCase
	consulta  *fiscaluc.ConsultaNotaUseCase
	impostos  *fiscaluc.ImpostosNotaUseCase
	autorizar *fiscaluc.AutorizarNotaUseCase
}

// NewNotaFiscalHandler constrói o handler.
func NewNotaFiscalHandler(
	criar *fiscaluc.CriarNotaUseCase,
	consulta *fiscaluc.ConsultaNotaUseCase,
	impostos *fiscaluc.ImpostosNotaUseCase,
	autorizar *fiscaluc.AutorizarNotaUseCase,
) *NotaFiscalHandler {
	return &NotaFiscalHandler{criar: criar, consulta: consulta, impostos: impostos, autorizar: autorizar}
}

// List lista notas de saída da loja com filtros e estatísticas.
// GET /api/notas-saida
func (h *NotaFiscalHandler) List(c *fiber.Ctx) error {
	lojaID := GetLojaID(c)
	if lojaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ListNotasRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parâmetros inválidos"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.consulta.List(c.Context(), lojaID, in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Create cria uma nota RASCUNHO a partir de um pedido de venda.
// POST /api/notas-saida
func (h *NotaFiscalHandler) Create(c *fiber.Ctx) error {
	lojaID := GetLojaID(c)
	userID := GetUserID(c)
	if lojaID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CriarNotaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	nota, err := h.criar.CriarRascunhoParaPedido(c.Context(), lojaID, userID, in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toNotaResponse(nota))
}

// GetByID obtém o detalhe completo de uma nota: cabeçalho, totais e itens.
// GET /api/notas-saida/:id
func (h *NotaFiscalHandler) GetByID(c *fiber.Ctx) error {
	lojaID := GetLojaID(c)
	if lojaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.consulta.Detalhe(c.Context(), lojaID, id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Impostos devolve os totais fiscais da nota. Autorizada lê do snapshot;
// rascunho calcula ao vivo; ?recalcular=true força o recálculo (somente
// leitura, nunca altera o snapshot).
// GET /api/notas-saida/:id/impostos
func (h *NotaFiscalHandler) Impostos(c *fiber.Ctx) error {
	lojaID := GetLojaID(c)
	if lojaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	recalcular := c.QueryBool("recalcular", false)
	totais, origem, err := h.impostos.ObterImpostos(c.Context(), lojaID, id, recalcular)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ImpostosNotaResponse{NotaID: id, Origem: origem, Totais: totais})
}

// Autorizar congela os impostos da nota: calcula, grava o snapshot e muda
// o status para AUTORIZADA em uma única transação. Idempotente para notas
// já autorizadas.
// POST /api/notas-saida/:id/autorizar
func (h *NotaFiscalHandler) Autorizar(c *fiber.Ctx) error {
	lojaID := GetLojaID(c)
	if lojaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	totais, err := h.autorizar.Autorizar(c.Context(), lojaID, id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ImpostosNotaResponse{NotaID: id, Origem: fiscaluc.OrigemSnapshot, Totais: totais})
}

func (h *NotaFiscalHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrValorInvalido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso não encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	case errors.Is(err, domain.ErrPedidoSemItens):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PEDIDO_SEM_ITENS", Message: "pedido sem itens ativos"})
	case errors.Is(err, domain.ErrNotaNaoAutorizavel):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOTA_NAO_AUTORIZAVEL", Message: "nota rejeitada ou cancelada não pode ser autorizada"})
	case errors.Is(err, domain.ErrSemNumeroDisponivel):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SEM_NUMERO", Message: "sem número disponível na série"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "operação conflita com o estado atual da nota"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toNotaResponse(nota *entity.NotaFiscalSaida) dto.NotaResponse {
	out := dto.NotaResponse{
		ID:            nota.ID,
		LojaID:        nota.LojaID,
		ClienteID:     nota.ClienteID,
		TipoDocumento: nota.TipoDocumento,
		Numero:        nota.Numero,
		Serie:         nota.Serie,
		ChaveAcesso:   nota.ChaveAcesso,
		ValorTotal:    nota.ValorTotal,
		Status:        nota.Status,
	}
	if nota.PedidoVendaID != nil {
		out.PedidoID = *nota.PedidoVendaID
	}
	if nota.DataEmissao != nil {
		out.DataEmissao = nota.DataEmissao.Format("2006-01-02 15:04:05")
	}
	return out
}
