package entity

import "time"

// Cliente representa o destinatário de uma nota fiscal.
type Cliente struct {
	ID              string
	NomeRazaoSocial string
	CPFCNPJ         string
	Email           string
	Telefone        string
	Ativo           bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
