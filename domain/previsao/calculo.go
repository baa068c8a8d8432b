package previsao

import (
	"math"
	"time"

	"oficina/domain"
	"oficina/domain/calendario"
	"oficina/domain/produto"

	"github.com/fundwit/go-commons/types"
)

// HorasPorDiaUtil is the planning convention of one business day. The
// calendar-aware cronograma refines this; the headline numbers of a forecast
// stay on the flat convention so quotes are comparable between tenants.
const HorasPorDiaUtil = 9

// MinimoProducoesConfiaveis is how many finalized productions an average
// needs before the forecast stops flagging it as thin data.
const MinimoProducoesConfiaveis = 3

type ItemPrevisao struct {
	ProdutoID  types.ID `json:"produtoId" binding:"required"`
	Quantidade float64  `json:"quantidade" binding:"required,gt=0"`
}

// EtapaPrevista is the forecast of one stage (or sub-stage) of one product:
// how fast the selected team moves through it, how long the quantity takes
// and what that labor costs.
type EtapaPrevista struct {
	ProdutoID    types.ID  `json:"produtoId"`
	EtapaID      types.ID  `json:"etapaId"`
	SubetapaID   *types.ID `json:"subetapaId"`
	EtapaNome    string    `json:"etapaNome"`
	SubetapaNome *string   `json:"subetapaNome"`
	Ordem        int       `json:"ordem"`

	Quantidade               float64 `json:"quantidade"`
	VelocidadePecasPorMinuto float64 `json:"velocidadePecasPorMinuto"`
	TempoMinutos             float64 `json:"tempoMinutos"`
	Custo                    float64 `json:"custo"`

	AlertaSemColaborador bool `json:"alertaSemColaborador"`
	AlertaPoucosDados    bool `json:"alertaPoucosDados"`
}

type ResultadoCalculo struct {
	Etapas []EtapaPrevista `json:"etapas"`

	HorasTotais          float64 `json:"horasTotais"`
	CustoTotal           float64 `json:"custoTotal"`
	DiasUteisNecessarios int     `json:"diasUteisNecessarios"`
	DiasUteisDisponiveis int     `json:"diasUteisDisponiveis"`

	DataConclusaoPrevista time.Time `json:"dataConclusaoPrevista"`
	PrecisaHoraExtra      bool      `json:"precisaHoraExtra"`
	HoraExtraPorDia       float64   `json:"horaExtraPorDia"`
}

type EntradaCalculo struct {
	Itens            []ItemPrevisao
	ColaboradoresIDs []types.ID
	EtapasPorProduto map[types.ID][]produto.EtapaDetail
	Rendimentos      []domain.Rendimento

	DataDesejada time.Time
	Agora        time.Time
}

// CalcularPrevisao is the pure forecast core. Team speed through a stage is
// the sum of each selected collaborator's pieces-per-minute rate; a stage
// nobody has history on yields zero time and an alert instead of an error.
func CalcularPrevisao(entrada EntradaCalculo) *ResultadoCalculo {
	porColaborador := map[types.ID][]domain.Rendimento{}
	for _, r := range entrada.Rendimentos {
		porColaborador[r.ColaboradorID] = append(porColaborador[r.ColaboradorID], r)
	}

	resultado := ResultadoCalculo{Etapas: []EtapaPrevista{}}
	for _, item := range entrada.Itens {
		for _, etapa := range entrada.EtapasPorProduto[item.ProdutoID] {
			if len(etapa.Subetapas) == 0 {
				resultado.Etapas = append(resultado.Etapas,
					preverEtapa(item, etapa, nil, entrada.ColaboradoresIDs, porColaborador))
				continue
			}
			for i := range etapa.Subetapas {
				resultado.Etapas = append(resultado.Etapas,
					preverEtapa(item, etapa, &etapa.Subetapas[i], entrada.ColaboradoresIDs, porColaborador))
			}
		}
	}

	for _, e := range resultado.Etapas {
		resultado.HorasTotais += e.TempoMinutos / 60
		resultado.CustoTotal += e.Custo
	}

	resultado.DiasUteisNecessarios = int(math.Ceil(resultado.HorasTotais / HorasPorDiaUtil))
	resultado.DataConclusaoPrevista = calendario.AdicionarDiasUteis(entrada.Agora, resultado.DiasUteisNecessarios)

	// negative when the desired date is already past, read as "overdue"
	disponiveis := calendario.ContarDiasUteis(entrada.Agora, entrada.DataDesejada)
	resultado.DiasUteisDisponiveis = disponiveis
	resultado.PrecisaHoraExtra = resultado.DiasUteisNecessarios > disponiveis
	if resultado.PrecisaHoraExtra && disponiveis > 0 {
		resultado.HoraExtraPorDia = (resultado.HorasTotais - float64(disponiveis)*HorasPorDiaUtil) / float64(disponiveis)
	}

	return &resultado
}

func preverEtapa(item ItemPrevisao, etapa produto.EtapaDetail, sub *domain.Subetapa,
	colaboradoresIds []types.ID, porColaborador map[types.ID][]domain.Rendimento) EtapaPrevista {

	prevista := EtapaPrevista{
		ProdutoID: item.ProdutoID,
		EtapaID:   etapa.ID, EtapaNome: etapa.Nome, Ordem: etapa.Ordem,
		Quantidade: item.Quantidade,
	}
	var subetapaId *types.ID
	if sub != nil {
		prevista.SubetapaID = &sub.ID
		prevista.SubetapaNome = &sub.Nome
		subetapaId = &sub.ID
	}

	velocidade := 0.0
	for _, colaboradorId := range colaboradoresIds {
		r := escolherRendimento(porColaborador[colaboradorId], etapa.ID, subetapaId)
		if r == nil || r.TempoMedioPorPecaMinutos <= 0 {
			continue
		}
		velocidade += 1 / r.TempoMedioPorPecaMinutos
		if r.TotalProducoes < MinimoProducoesConfiaveis {
			prevista.AlertaPoucosDados = true
		}
	}

	prevista.VelocidadePecasPorMinuto = velocidade
	if velocidade > 0 {
		prevista.TempoMinutos = item.Quantidade / velocidade
	} else {
		prevista.AlertaSemColaborador = true
	}

	custoPorHora := etapa.CustoPorHora
	if sub != nil && sub.CustoPorHora > 0 {
		custoPorHora = sub.CustoPorHora
	}
	prevista.Custo = prevista.TempoMinutos / 60 * custoPorHora

	return prevista
}

// escolherRendimento picks the throughput record to use for one stage slot.
// An exact match wins. A stage forecast without a sub-stage slot accepts any
// of the collaborator's sub-stage records (the best-backed one); a sub-stage
// slot falls back to the collaborator's stage-level record.
func escolherRendimento(registros []domain.Rendimento, etapaId types.ID, subetapaId *types.ID) *domain.Rendimento {
	var fallback *domain.Rendimento
	for i := range registros {
		r := &registros[i]
		if r.EtapaID != etapaId {
			continue
		}
		if subetapaId == nil {
			if r.SubetapaID == nil {
				return r
			}
			if fallback == nil || r.TotalProducoes > fallback.TotalProducoes {
				fallback = r
			}
			continue
		}
		if r.SubetapaID != nil && *r.SubetapaID == *subetapaId {
			return r
		}
		if r.SubetapaID == nil {
			fallback = r
		}
	}
	return fallback
}
