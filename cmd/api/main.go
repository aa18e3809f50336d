package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	fiscaluc "github.com/aladinsys/fiscal-api/internal/application/fiscal"
	"github.com/aladinsys/fiscal-api/internal/infrastructure/postgres"
	httpRouter "github.com/aladinsys/fiscal-api/internal/interfaces/http"
	"github.com/aladinsys/fiscal-api/pkg/config"
	"github.com/aladinsys/fiscal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	notaRepo := postgres.NewNotaFiscalRepository(pool)
	configRepo := postgres.NewConfiguracaoFiscalRepository(pool)
	pedidoRepo := postgres.NewPedidoVendaRepository(pool)
	clienteRepo := postgres.NewClienteRepository(pool)
	lojaRepo := postgres.NewLojaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	impostosUC := fiscaluc.NewImpostosNotaUseCase(notaRepo, configRepo, pedidoRepo, log)
	autorizarUC := fiscaluc.NewAutorizarNotaUseCase(txRunner, notaRepo, impostosUC, log)
	criarUC := fiscaluc.NewCriarNotaUseCase(txRunner, notaRepo, pedidoRepo, log)
	consultaUC := fiscaluc.NewConsultaNotaUseCase(notaRepo, clienteRepo, configRepo, pedidoRepo, impostosUC)
	configuracaoUC := fiscaluc.NewConfiguracaoFiscalUseCase(configRepo, lojaRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CriarNota:          criarUC,
		ConsultaNota:       consultaUC,
		ImpostosNota:       impostosUC,
		AutorizarNota:      autorizarUC,
		ConfiguracaoFiscal: configuracaoUC,
		JWTSecret:          cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
