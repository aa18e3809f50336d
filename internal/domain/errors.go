package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound     = errors.New("recurso não encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("não autorizado")
	ErrForbidden    = errors.New("acesso negado")
	ErrConflict     = errors.New("conflito com o estado atual")

	// ErrPedidoSemItens indica que o pedido não possui itens ativos;
	// uma nota fiscal nunca é emitida sem pelo menos um item.
	ErrPedidoSemItens = errors.New("pedido não possui itens ativos")

	// ErrNotaNaoAutorizavel indica tentativa de autorizar uma nota
	// REJEITADA ou CANCELADA. A operação é recusada, nunca sobrescreve.
	ErrNotaNaoAutorizavel = errors.New("nota rejeitada ou cancelada não pode ser autorizada")

	// ErrValorInvalido indica quantidade, preço ou alíquota inválida
	// (negativa ou não numérica). Tratar como zero subestimaria imposto,
	// então o cálculo é abortado.
	ErrValorInvalido = errors.New("valor numérico inválido no item")

	// ErrSemNumeroDisponivel indica esgotamento da faixa de numeração
	// ao procurar o próximo número livre de NF-e para a loja/série.
	ErrSemNumeroDisponivel = errors.New("não há número de nota disponível para a série")
)
