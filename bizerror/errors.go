package bizerror

import (
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrNoContent       = errors.New("no content")
	ErrInvalidPassword = errors.New("invalid password")

	// ErrProdutoNotFound is the one hard failure of the forecaster: a line
	// item references a product that cannot be resolved, so the computation
	// cannot proceed even partially.
	ErrProdutoNotFound = errors.New("produto not found")

	ErrCalendarioInvalido   = errors.New("calendario invalido")
	ErrPrevisaoEncerrada    = errors.New("previsao is not em_andamento")
	ErrLoteEncerrado        = errors.New("lote is not em_andamento")
	ErrProducaoEmAberto     = errors.New("producao already em_aberto")
	ErrStatusInvalido       = errors.New("invalid status transition")
	ErrUserNameUsed         = errors.New("user name is already used")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)
