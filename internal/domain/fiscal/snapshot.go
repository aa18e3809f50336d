package fiscal

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SnapshotItem é o registro por linha gravado na autorização da nota.
// Usa apenas tipos primitivos (decimais serializam como string JSON) para
// ser seguro em armazenamento estruturado genérico (coluna JSONB).
type SnapshotItem struct {
	ItemID        string            `json:"item_id"`
	ProdutoID     *string           `json:"produto_id"`
	ServicoID     *string           `json:"servico_id"`
	Descricao     string            `json:"descricao"`
	Quantidade    decimal.Decimal   `json:"quantidade"`
	ValorUnitario decimal.Decimal   `json:"valor_unitario"`
	ValorTotal    decimal.Decimal   `json:"valor_total"`
	Impostos      *SnapshotImpostos `json:"impostos"`
}

// SnapshotImpostos é o breakdown serializado de um item. Campos ausentes
// decodificam como zero; campo não numérico ou bloco "impostos" ausente
// invalidam o snapshot inteiro.
type SnapshotImpostos struct {
	BaseICMS    decimal.Decimal `json:"base_icms"`
	ValorICMS   decimal.Decimal `json:"valor_icms"`
	BaseICMSST  decimal.Decimal `json:"base_icms_st"`
	ValorICMSST decimal.Decimal `json:"valor_icms_st"`
	BasePIS     decimal.Decimal `json:"base_pis"`
	ValorPIS    decimal.Decimal `json:"valor_pis"`
	BaseCOFINS  decimal.Decimal `json:"base_cofins"`
	ValorCOFINS decimal.Decimal `json:"valor_cofins"`
	BaseIPI     decimal.Decimal `json:"base_ipi"`
	ValorIPI    decimal.Decimal `json:"valor_ipi"`

	BaseIBS     decimal.Decimal `json:"base_ibs"`
	ValorIBS    decimal.Decimal `json:"valor_ibs"`
	AliquotaIBS decimal.Decimal `json:"aliquota_ibs"`
	BaseCBS     decimal.Decimal `json:"base_cbs"`
	ValorCBS    decimal.Decimal `json:"valor_cbs"`
	AliquotaCBS decimal.Decimal `json:"aliquota_cbs"`

	CClassTrib *string `json:"cclass_trib"`
	CSTIBS     *string `json:"cst_ibs"`
	CSTCBS     *string `json:"cst_cbs"`
}

// ErroSnapshotInvalido indica snapshot persistido malformado. É capturado
// na borda de leitura (ObterImpostos) e degrada para recálculo ao vivo;
// nunca chega ao chamador.
type ErroSnapshotInvalido struct {
	Motivo string
	Indice int // índice do registro ofensor; -1 quando o problema é global
	Err    error
}

func (e *ErroSnapshotInvalido) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("snapshot inválido (registro %d): %s: %v", e.Indice, e.Motivo, e.Err)
	}
	return fmt.Sprintf("snapshot inválido (registro %d): %s", e.Indice, e.Motivo)
}

func (e *ErroSnapshotInvalido) Unwrap() error { return e.Err }

// CodificarSnapshotItem monta o registro de snapshot de uma linha com o
// breakdown já calculado.
func CodificarSnapshotItem(item ItemNota, impostos ImpostosItem) SnapshotItem {
	rec := SnapshotItem{
		Impostos: &SnapshotImpostos{
			BaseICMS:    impostos.BaseICMS,
			ValorICMS:   impostos.ValorICMS,
			BaseICMSST:  impostos.BaseICMSST,
			ValorICMSST: impostos.ValorICMSST,
			BasePIS:     impostos.BasePIS,
			ValorPIS:    impostos.ValorPIS,
			BaseCOFINS:  impostos.BaseCOFINS,
			ValorCOFINS: impostos.ValorCOFINS,
			BaseIPI:     impostos.BaseIPI,
			ValorIPI:    impostos.ValorIPI,

			BaseIBS:     impostos.BaseIBS,
			ValorIBS:    impostos.ValorIBS,
			AliquotaIBS: impostos.AliquotaIBS,
			BaseCBS:     impostos.BaseCBS,
			ValorCBS:    impostos.ValorCBS,
			AliquotaCBS: impostos.AliquotaCBS,

			CClassTrib: impostos.CClassTrib,
			CSTIBS:     impostos.CSTIBS,
			CSTCBS:     impostos.CSTCBS,
		},
	}
	switch it := item.(type) {
	case *ItemProduto:
		rec.ItemID = it.ItemID
		rec.ProdutoID = &it.ProdutoID
		rec.Descricao = it.Descricao
		rec.Quantidade = it.Quantidade
		rec.ValorUnitario = it.PrecoUnitario
		rec.ValorTotal = it.Total
	case *ItemServico:
		rec.ItemID = it.ItemID
		rec.ServicoID = &it.ServicoID
		rec.Descricao = it.Descricao
		rec.Quantidade = it.Quantidade
		rec.ValorUnitario = it.PrecoUnitario
		rec.ValorTotal = it.Total
	}
	return rec
}

// MarshalSnapshot serializa os registros para a coluna JSONB da nota.
// A serialização é determinística: congelar duas vezes a mesma nota
// produz exatamente os mesmos bytes.
func MarshalSnapshot(registros []SnapshotItem) (json.RawMessage, error) {
	b, err := json.Marshal(registros)
	if err != nil {
		return nil, fmt.Errorf("serializar snapshot: %w", err)
	}
	return b, nil
}

// CacheReforma são os totais de IBS/CBS congelados na própria nota.
// Na decodificação eles são lidos direto do cache, não ressomados dos
// registros — atalho intencional herdado do formato original.
type CacheReforma struct {
	BaseIBS  decimal.Decimal
	ValorIBS decimal.Decimal
	BaseCBS  decimal.Decimal
	ValorCBS decimal.Decimal
}

// DecodificarSnapshot reconstrói os totais da nota a partir do snapshot
// persistido: os impostos legados são somados registro a registro (não há
// cache separado para eles) e os campos da Reforma vêm do cache da nota.
//
// Registro sem bloco "impostos" ou com valor não numérico é falha de
// decodificação (ErroSnapshotInvalido), nunca tratado como zero: assumir
// zero subestimaria silenciosamente o imposto declarado.
func DecodificarSnapshot(raw json.RawMessage, cache CacheReforma) (TotaisNota, error) {
	var totais TotaisNota

	if len(raw) == 0 {
		return totais, &ErroSnapshotInvalido{Motivo: "snapshot vazio", Indice: -1}
	}

	var registros []SnapshotItem
	if err := json.Unmarshal(raw, &registros); err != nil {
		return totais, &ErroSnapshotInvalido{Motivo: "JSON malformado ou valor não numérico", Indice: -1, Err: err}
	}
	if len(registros) == 0 {
		return totais, &ErroSnapshotInvalido{Motivo: "snapshot sem registros", Indice: -1}
	}

	for i, rec := range registros {
		if rec.Impostos == nil {
			return TotaisNota{}, &ErroSnapshotInvalido{Motivo: "registro sem bloco 'impostos'", Indice: i}
		}
		imp := rec.Impostos

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

		totais.ValorProdutos = totais.ValorProdutos.Add(rec.ValorTotal)
	}

	totais.BaseIBS = cache.BaseIBS
	totais.ValorIBS = cache.ValorIBS
	totais.BaseCBS = cache.BaseCBS
	totais.ValorCBS = cache.ValorCBS

	return totais, nil
}
