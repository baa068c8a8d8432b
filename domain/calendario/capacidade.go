package calendario

import (
	"time"
)

// LimiteDiasSimulacao bounds the day-by-day walk; a forecast that cannot be
// satisfied within a year is reported as incomplete instead of looping.
const LimiteDiasSimulacao = 365

type DiaPlano struct {
	Data               time.Time `json:"data"`
	MinutosDisponiveis float64   `json:"minutosDisponiveis"`
	MinutosConsumidos  float64   `json:"minutosConsumidos"`
}

type Cronograma struct {
	Dias          []DiaPlano `json:"dias"`
	DataConclusao time.Time  `json:"dataConclusao"`
	DiasUteis     int        `json:"diasUteis"`
	Incompleto    bool       `json:"incompleto"`
}

// CalcularCronograma walks the tenant calendar day by day from agora,
// consuming minutosNecessarios against each day's capacity. The current day
// only offers what is left of its two shifts relative to the wall clock;
// later days offer full capacity. Inactive days are skipped and not counted.
func CalcularCronograma(minutosNecessarios float64, cal *CalendarioSemanal, agora time.Time) *Cronograma {
	cron := &Cronograma{Dias: []DiaPlano{}, DataConclusao: dateOnly(agora)}
	restante := minutosNecessarios
	if restante <= 0 {
		return cron
	}

	dia := dateOnly(agora)
	for i := 0; i < LimiteDiasSimulacao; i++ {
		config := cal.Dia(dia.Weekday())
		var capacidade float64
		if i == 0 {
			capacidade = capacidadeRestanteHoje(config, agora)
		} else {
			capacidade = cal.CapacidadeDia(dia.Weekday())
		}

		if capacidade > 0 {
			consumo := restante
			if consumo > capacidade {
				consumo = capacidade
			}
			cron.Dias = append(cron.Dias, DiaPlano{Data: dia, MinutosDisponiveis: capacidade, MinutosConsumidos: consumo})
			cron.DiasUteis++
			restante -= consumo
			if restante <= 0 {
				cron.DataConclusao = dia
				return cron
			}
		}

		dia = dia.AddDate(0, 0, 1)
	}

	cron.Incompleto = true
	if n := len(cron.Dias); n > 0 {
		cron.DataConclusao = cron.Dias[n-1].Data
	}
	return cron
}

// capacidadeRestanteHoje intersects "now" with the two shifts of the current
// day: [entrada, saidaAlmoco) and [voltaAlmoco, saida), both clamped to
// non-negative.
func capacidadeRestanteHoje(config DiaCalendarioConfig, agora time.Time) float64 {
	if !config.Ativo {
		return 0
	}
	entrada, saidaAlmoco, voltaAlmoco, saida, err := config.minutos()
	if err != nil {
		return 0
	}
	agoraMin := agora.Hour()*60 + agora.Minute()

	manha := saidaAlmoco - max(entrada, agoraMin)
	if manha < 0 {
		manha = 0
	}
	tarde := saida - max(voltaAlmoco, agoraMin)
	if tarde < 0 {
		tarde = 0
	}
	return float64(manha + tarde)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
