package fiscal

import "github.com/aladinsys/fiscal-api/internal/domain/entity"

// CalcularImpostosNota calcula os totais da nota somando o breakdown de
// cada item, campo a campo. Lista vazia produz totais zerados, não erro.
//
// As alíquotas resolvidas e os códigos da Reforma são por item e não
// aparecem nos totais; apenas bases e valores são somados.
func CalcularImpostosNota(itens []ItemNota, regime string, config *entity.ConfiguracaoFiscalLoja) TotaisNota {
	totais := TotaisNota{
		RegimeTributario:  regime,
		IsSimplesNacional: RegimeSimples(regime),
	}

	for _, item := range itens {
		imp := CalcularImpostosItem(item, regime, config)

		totais.BaseICMS = totais.BaseICMS.Add(imp.BaseICMS)
		totais.ValorICMS = totais.ValorICMS.Add(imp.ValorICMS)
		totais.BaseICMSST = totais.BaseICMSST.Add(imp.BaseICMSST)
		totais.ValorICMSST = totais.ValorICMSST.Add(imp.ValorICMSST)
		totais.BasePIS = totais.BasePIS.Add(imp.BasePIS)
		totais.ValorPIS = totais.ValorPIS.Add(imp.ValorPIS)
		totais.BaseCOFINS = totais.BaseCOFINS.Add(imp.BaseCOFINS)
		totais.ValorCOFINS = totais.ValorCOFINS.Add(imp.ValorCOFINS)
		totais.BaseIPI = totais.BaseIPI.Add(imp.BaseIPI)
		totais.ValorIPI = totais.ValorIPI.Add(imp.ValorIPI)

		totais.BaseIBS = totais.BaseIBS.Add(imp.BaseIBS)
		totais.ValorIBS = totais.ValorIBS.Add(imp.ValorIBS)
		totais.BaseCBS = totais.BaseCBS.Add(imp.BaseCBS)
		totais.ValorCBS = totais.ValorCBS.Add(imp.ValorCBS)

		if item != nil {
			totais.ValorProdutos = totais.ValorProdutos.Add(item.ValorTotal())
		}
	}

	return totais
}
