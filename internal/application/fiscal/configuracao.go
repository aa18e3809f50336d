package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aladinsys/fiscal-api/internal/application/dto"
	"github.com/aladinsys/fiscal-api/internal/domain"
	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

// ConfiguracaoFiscalUseCase lê e grava a configuração fiscal por loja.
type ConfiguracaoFiscalUseCase struct {
	configRepo repository.ConfiguracaoFiscalRepository
	lojaRepo   repository.LojaRepository
}

// NewConfiguracaoFiscalUseCase constrói o caso de uso.
func NewConfiguracaoFiscalUseCase(
	configRepo repository.ConfiguracaoFiscalRepository,
	lojaRepo repository.LojaRepository,
) *ConfiguracaoFiscalUseCase {
	return &ConfiguracaoFiscalUseCase{configRepo: configRepo, lojaRepo: lojaRepo}
}

// Obter devolve a configuração fiscal da loja. Loja sem configuração
// devolve ErrNotFound (para a engine de cálculo, ausência é estado válido;
// para a API de administração, é 404).
func (uc *ConfiguracaoFiscalUseCase) Obter(ctx context.Context, lojaID string) (*dto.ConfiguracaoFiscalResponse, error) {
	config, err := uc.configRepo.GetByLoja(lojaID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, domain.ErrNotFound
	}
	return toConfiguracaoResponse(config), nil
}

// Salvar cria ou atualiza a configuração fiscal da loja.
func (uc *ConfiguracaoFiscalUseCase) Salvar(ctx context.Context, lojaID string, in dto.ConfiguracaoFiscalRequest) (*dto.ConfiguracaoFiscalResponse, error) {
	loja, err := uc.lojaRepo.GetByID(lojaID)
	if err != nil {
		return nil, err
	}
	if loja == nil {
		return nil, domain.ErrNotFound
	}

	agora := time.Now()
	config, err := uc.configRepo.GetByLoja(lojaID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &entity.ConfiguracaoFiscalLoja{
			ID:                uuid.New().String(),
			LojaID:            lojaID,
			Ambiente:          "HOMOLOGACAO",
			SerieNFE:          "001",
			SerieNFCE:         "001",
			ProximoNumeroNFE:  1,
			ProximoNumeroNFCE: 1,
			// Padrões da fase de testes da Reforma.
			AliquotaIBSPadrao2026: entity.AliquotaIBSPadrao2026,
			AliquotaCBSPadrao2026: entity.AliquotaCBSPadrao2026,
			CreatedAt:             agora,
		}
	}

	config.InscricaoEstadual = in.InscricaoEstadual
	config.RegimeTributario = in.RegimeTributario
	if in.Ambiente != "" {
		config.Ambiente = in.Ambiente
	}
	if in.SerieNFE != "" {
		config.SerieNFE = in.SerieNFE
	}
	if in.SerieNFCE != "" {
		config.SerieNFCE = in.SerieNFCE
	}
	config.UsarReforma2026 = in.UsarReforma2026
	if in.AliquotaIBSPadrao2026 != nil {
		config.AliquotaIBSPadrao2026 = *in.AliquotaIBSPadrao2026
	}
	if in.AliquotaCBSPadrao2026 != nil {
		config.AliquotaCBSPadrao2026 = *in.AliquotaCBSPadrao2026
	}
	config.UpdatedAt = agora

	if err := uc.configRepo.Salvar(config); err != nil {
		return nil, err
	}
	return toConfiguracaoResponse(config), nil
}

func toConfiguracaoResponse(config *entity.ConfiguracaoFiscalLoja) *dto.ConfiguracaoFiscalResponse {
	return &dto.ConfiguracaoFiscalResponse{
		LojaID:            config.LojaID,
		InscricaoEstadual: config.InscricaoEstadual,
		RegimeTributario:  config.RegimeTributario,
		Ambiente:          config.Ambiente,
		SerieNFE:          config.SerieNFE,
		SerieNFCE:         config.SerieNFCE,
		ProximoNumeroNFE:  config.ProximoNumeroNFE,
		ProximoNumeroNFCE: config.ProximoNumeroNFCE,

		UsarReforma2026:       config.UsarReforma2026,
		AliquotaIBSPadrao2026: config.AliquotaIBSPadrao2026,
		AliquotaCBSPadrao2026: config.AliquotaCBSPadrao2026,
	}
}
