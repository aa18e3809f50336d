package http

import (
	"github.com/gofiber/fiber/v2"

	fiscaluc "github.com/aladinsys/fiscal-api/internal/application/fiscal"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	CriarNota          *fiscaluc.CriarNotaUseCase
	ConsultaNota       *fiscaluc.ConsultaNotaUseCase
	ImpostosNota       *fiscaluc.ImpostosNotaUseCase
	AutorizarNota      *fiscaluc.AutorizarNotaUseCase
	ConfiguracaoFiscal *fiscaluc.ConfiguracaoFiscalUseCase
	JWTSecret          string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rotas protegidas (requerem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Notas fiscais de saída (protegido)
	notas := protected.Group("/notas-saida")
	notaHandler := NewNotaFiscalHandler(deps.CriarNota, deps.ConsultaNota, deps.ImpostosNota, deps.AutorizarNota)
	notas.Get("/", notaHandler.List)
	notas.Post("/", notaHandler.Create)
	notas.Get("/:id", notaHandler.GetByID)
	notas.Get("/:id/impostos", notaHandler.Impostos)
	notas.Post("/:id/autorizar", notaHandler.Autorizar)

	// Configuração fiscal por loja (protegido)
	lojas := protected.Group("/lojas")
	configHandler := NewConfiguracaoFiscalHandler(deps.ConfiguracaoFiscal)
	lojas.Get("/:id/configuracao-fiscal", configHandler.Get)
	lojas.Put("/:id/configuracao-fiscal", configHandler.Put)
}
