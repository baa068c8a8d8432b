package domain

const (
	// lifecycle of a Previsao and of a Lote
	StatusEmAndamento = "em_andamento"
	StatusConcluida   = "concluida"
	StatusCancelada   = "cancelada"

	// lifecycle of a single Producao work session
	ProducaoEmAberto   = "em_aberto"
	ProducaoFinalizado = "finalizado"
	ProducaoCancelado  = "cancelado"

	// derived status of a stage progress bucket
	ProgressoPendente    = "pendente"
	ProgressoEmAndamento = "em_andamento"
	ProgressoConcluida   = "concluida"
)
