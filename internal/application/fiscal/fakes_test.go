package fiscal_test

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	fiscaluc "github.com/aladinsys/fiscal-api/internal/application/fiscal"
	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
	"github.com/aladinsys/fiscal-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória dos portos de persistência
// ──────────────────────────────────────────────────────────────────────────────

type fakeNotaRepo struct {
	notas map[string]*entity.NotaFiscalSaida

	// contadores de escrita para os testes de idempotência
	autorizacoes int
	criadas      int
}

func newFakeNotaRepo() *fakeNotaRepo {
	return &fakeNotaRepo{notas: map[string]*entity.NotaFiscalSaida{}}
}

func (r *fakeNotaRepo) Create(nota *entity.NotaFiscalSaida) error {
	cp := *nota
	r.notas[nota.ID] = &cp
	r.criadas++
	return nil
}

func (r *fakeNotaRepo) GetByID(id string) (*entity.NotaFiscalSaida, error) {
	nota, ok := r.notas[id]
	if !ok {
		return nil, nil
	}
	cp := *nota
	return &cp, nil
}

func (r *fakeNotaRepo) GetByIDForUpdate(id string) (*entity.NotaFiscalSaida, error) {
	return r.GetByID(id)
}

func (r *fakeNotaRepo) GetAtivaByPedido(pedidoID, tipoDocumento string) (*entity.NotaFiscalSaida, error) {
	for _, nota := range r.notas {
		if nota.Ativa && nota.TipoDocumento == tipoDocumento &&
			nota.PedidoVendaID != nil && *nota.PedidoVendaID == pedidoID {
			cp := *nota
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeNotaRepo) List(f repository.NotaFiscalFilter) ([]*entity.NotaFiscalSaida, int, error) {
	var list []*entity.NotaFiscalSaida
	for _, nota := range r.notas {
		if r.casa(nota, f) {
			cp := *nota
			list = append(list, &cp)
		}
	}
	return list, len(list), nil
}

func (r *fakeNotaRepo) SomaValor(f repository.NotaFiscalFilter) (decimal.Decimal, error) {
	soma := decimal.Zero
	for _, nota := range r.notas {
		if r.casa(nota, f) {
			soma = soma.Add(nota.ValorTotal)
		}
	}
	return soma, nil
}

func (r *fakeNotaRepo) casa(nota *entity.NotaFiscalSaida, f repository.NotaFiscalFilter) bool {
	if !nota.Ativa {
		return false
	}
	if f.LojaID != "" && nota.LojaID != f.LojaID {
		return false
	}
	if f.Status != "" && nota.Status != f.Status {
		return false
	}
	if f.TipoDocumento != "" && nota.TipoDocumento != f.TipoDocumento {
		return false
	}
	if f.Busca != "" && !strings.Contains(nota.ChaveAcesso, f.Busca) {
		return false
	}
	return true
}

func (r *fakeNotaRepo) ExisteNumero(lojaID, tipoDocumento, serie string, numero int) (bool, error) {
	for _, nota := range r.notas {
		if nota.LojaID == lojaID && nota.TipoDocumento == tipoDocumento &&
			nota.Serie == serie && nota.Numero == numero {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotaRepo) MaxNumero(lojaID, tipoDocumento, serie string) (int, error) {
	max := 0
	for _, nota := range r.notas {
		if nota.LojaID == lojaID && nota.TipoDocumento == tipoDocumento &&
			nota.Serie == serie && nota.Numero > max {
			max = nota.Numero
		}
	}
	return max, nil
}

func (r *fakeNotaRepo) AtualizarAutorizacao(nota *entity.NotaFiscalSaida) error {
	cp := *nota
	r.notas[nota.ID] = &cp
	r.autorizacoes++
	return nil
}

type fakeConfigRepo struct {
	configs map[string]*entity.ConfiguracaoFiscalLoja
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: map[string]*entity.ConfiguracaoFiscalLoja{}}
}

func (r *fakeConfigRepo) GetByLoja(lojaID string) (*entity.ConfiguracaoFiscalLoja, error) {
	config, ok := r.configs[lojaID]
	if !ok {
		return nil, nil
	}
	cp := *config
	return &cp, nil
}

func (r *fakeConfigRepo) Salvar(cfg *entity.ConfiguracaoFiscalLoja) error {
	cp := *cfg
	r.configs[cfg.LojaID] = &cp
	return nil
}

func (r *fakeConfigRepo) AtualizarProximoNumeroNFE(lojaID string, proximo int) error {
	if config, ok := r.configs[lojaID]; ok {
		config.ProximoNumeroNFE = proximo
	}
	return nil
}

type fakePedidoRepo struct {
	pedidos map[string]*entity.PedidoVenda
	itens   map[string][]*entity.ItemPedidoVenda
}

func newFakePedidoRepo() *fakePedidoRepo {
	return &fakePedidoRepo{
		pedidos: map[string]*entity.PedidoVenda{},
		itens:   map[string][]*entity.ItemPedidoVenda{},
	}
}

func (r *fakePedidoRepo) GetByID(id string) (*entity.PedidoVenda, error) {
	pedido, ok := r.pedidos[id]
	if !ok {
		return nil, nil
	}
	cp := *pedido
	return &cp, nil
}

func (r *fakePedidoRepo) GetItensAtivos(pedidoID string) ([]*entity.ItemPedidoVenda, error) {
	return r.itens[pedidoID], nil
}

// fakeTxRunner executa a função diretamente sobre os fakes, sem transação.
type fakeTxRunner struct {
	notaRepo   *fakeNotaRepo
	configRepo *fakeConfigRepo
	pedidoRepo *fakePedidoRepo
}

func (r *fakeTxRunner) RunFiscal(_ context.Context, fn func(
	notaRepo repository.NotaFiscalRepository,
	configRepo repository.ConfiguracaoFiscalRepository,
	pedidoRepo repository.PedidoVendaRepository,
) error) error {
	return fn(r.notaRepo, r.configRepo, r.pedidoRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cenário base: loja do Simples com Reforma ligada, pedido de 2 itens
// ──────────────────────────────────────────────────────────────────────────────

const (
	testLojaID   = "loja-1"
	testPedidoID = "pedido-1"
	testNotaID   = "nota-1"
	testUserID   = "user-1"
)

type cenario struct {
	notaRepo   *fakeNotaRepo
	configRepo *fakeConfigRepo
	pedidoRepo *fakePedidoRepo
	txRunner   *fakeTxRunner

	impostos  *fiscaluc.ImpostosNotaUseCase
	autorizar *fiscaluc.AutorizarNotaUseCase
	criar     *fiscaluc.CriarNotaUseCase
}

func novoCenario() *cenario {
	notaRepo := newFakeNotaRepo()
	configRepo := newFakeConfigRepo()
	pedidoRepo := newFakePedidoRepo()
	txRunner := &fakeTxRunner{notaRepo: notaRepo, configRepo: configRepo, pedidoRepo: pedidoRepo}

	log := logger.New(logger.Config{Env: "production", Level: "error"})
	impostos := fiscaluc.NewImpostosNotaUseCase(notaRepo, configRepo, pedidoRepo, log)

	return &cenario{
		notaRepo:   notaRepo,
		configRepo: configRepo,
		pedidoRepo: pedidoRepo,
		txRunner:   txRunner,
		impostos:   impostos,
		autorizar:  fiscaluc.NewAutorizarNotaUseCase(txRunner, notaRepo, impostos, log),
		criar:      fiscaluc.NewCriarNotaUseCase(txRunner, notaRepo, pedidoRepo, log),
	}
}

func (c *cenario) comConfig(usarReforma bool) *cenario {
	c.configRepo.configs[testLojaID] = &entity.ConfiguracaoFiscalLoja{
		ID:                    "cfg-1",
		LojaID:                testLojaID,
		RegimeTributario:      entity.RegimeSimplesNacional,
		Ambiente:              "HOMOLOGACAO",
		SerieNFE:              "001",
		SerieNFCE:             "001",
		ProximoNumeroNFE:      10,
		ProximoNumeroNFCE:     1,
		UsarReforma2026:       usarReforma,
		AliquotaIBSPadrao2026: entity.AliquotaIBSPadrao2026,
		AliquotaCBSPadrao2026: entity.AliquotaCBSPadrao2026,
	}
	return c
}

func (c *cenario) comPedido() *cenario {
	prodID := "prod-1"
	c.pedidos()[testPedidoID] = &entity.PedidoVenda{
		ID:         testPedidoID,
		LojaID:     testLojaID,
		ClienteID:  "cliente-1",
		TipoVenda:  entity.TipoVendaExterna,
		ValorTotal: mustDec("150.00"),
		Ativo:      true,
		CreatedBy:  testUserID,
	}
	c.pedidoRepo.itens[testPedidoID] = []*entity.ItemPedidoVenda{
		{
			ID:            "item-1",
			PedidoID:      testPedidoID,
			ProdutoID:     &prodID,
			Quantidade:    mustDec("2"),
			PrecoUnitario: mustDec("50.00"),
			Total:         mustDec("100.00"),
			Ativo:         true,
			Produto: &entity.Produto{
				ID:             prodID,
				Descricao:      "Cabo HDMI 2m",
				CSOSNCST:       "102",
				AliquotaICMS:   mustDec("18.00"),
				PISCST:         "01",
				AliquotaPIS:    mustDec("1.65"),
				COFINSCST:      "01",
				AliquotaCOFINS: mustDec("7.60"),
				IPIVendaCST:    "52",
			},
		},
		{
			ID:            "item-2",
			PedidoID:      testPedidoID,
			ServicoID:     strPtr("srv-1"),
			Quantidade:    mustDec("1"),
			PrecoUnitario: mustDec("50.00"),
			Total:         mustDec("50.00"),
			Ativo:         true,
			Servico: &entity.Servico{
				ID:   "srv-1",
				Nome: "Instalação",
			},
		},
	}
	return c
}

func (c *cenario) comNotaRascunho() *cenario {
	pedidoID := testPedidoID
	c.notaRepo.notas[testNotaID] = &entity.NotaFiscalSaida{
		ID:            testNotaID,
		LojaID:        testLojaID,
		ClienteID:     "cliente-1",
		PedidoVendaID: &pedidoID,
		TipoDocumento: entity.TipoDocumentoNFE,
		Numero:        10,
		Serie:         "001",
		ValorTotal:    mustDec("150.00"),
		Status:        entity.StatusRascunho,
		Ativa:         true,
		CreatedBy:     testUserID,
	}
	return c
}

func (c *cenario) pedidos() map[string]*entity.PedidoVenda {
	return c.pedidoRepo.pedidos
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }
