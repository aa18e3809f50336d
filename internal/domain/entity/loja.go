package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Loja representa uma loja (filial) da empresa.
type Loja struct {
	ID        string
	Nome      string
	CNPJ      string
	Cidade    string
	UF        string
	Ativa     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Regimes tributários reconhecidos no campo RegimeTributario.
// O campo é texto livre; o cálculo fiscal só inspeciona a substring "SIMPLES".
const (
	RegimeSimplesNacional = "SIMPLES_NACIONAL"
	RegimeLucroPresumido  = "LUCRO_PRESUMIDO"
	RegimeLucroReal       = "LUCRO_REAL"
)

// Alíquotas padrão da Reforma Tributária 2026 (fase de testes).
var (
	AliquotaIBSPadrao2026 = decimal.NewFromFloat(0.10) // 0,10%
	AliquotaCBSPadrao2026 = decimal.NewFromFloat(0.90) // 0,90%
)

// ConfiguracaoFiscalLoja guarda a configuração fiscal de uma loja para
// emissão de NF-e / NFC-e. Pode não existir: nesse caso o sistema opera
// com regime desconhecido e reforma desligada.
type ConfiguracaoFiscalLoja struct {
	ID                string
	LojaID            string
	InscricaoEstadual string
	RegimeTributario  string // Ex: SIMPLES_NACIONAL, LUCRO_PRESUMIDO, LUCRO_REAL
	Ambiente          string // HOMOLOGACAO | PRODUCAO
	SerieNFE          string
	SerieNFCE         string
	ProximoNumeroNFE  int
	ProximoNumeroNFCE int

	// Reforma Tributária 2026. UsarReforma2026 começa desligado: desligado,
	// o sistema calcula exatamente como antes; ligado, inclui CBS/IBS.
	UsarReforma2026       bool
	AliquotaIBSPadrao2026 decimal.Decimal
	AliquotaCBSPadrao2026 decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSimplesNacional informa se o regime configurado é Simples Nacional.
// A comparação é por substring, igual à regra usada no cálculo de impostos.
func (c *ConfiguracaoFiscalLoja) IsSimplesNacional() bool {
	if c == nil {
		return false
	}
	return strings.Contains(strings.ToUpper(c.RegimeTributario), "SIMPLES")
}
