package previsao_test

import (
	"encoding/json"
	"testing"
	"time"

	"oficina/domain"
	"oficina/domain/previsao"
	"oficina/domain/produto"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

var (
	// 2025-03-03 is a Monday
	segunda = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	ana = types.ID(101)
	bia = types.ID(102)
)

func etapasSimples() map[types.ID][]produto.EtapaDetail {
	return map[types.ID][]produto.EtapaDetail{
		1: {{Etapa: domain.Etapa{ID: 10, ProdutoID: 1, Nome: "Corte", Ordem: 1, CustoPorHora: 60}}},
	}
}

func TestCalcularPrevisaoSomaVelocidadesDaEquipe(t *testing.T) {
	g := NewGomegaWithT(t)

	resultado := previsao.CalcularPrevisao(previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 100}},
		ColaboradoresIDs: []types.ID{ana, bia},
		EtapasPorProduto: etapasSimples(),
		Rendimentos: []domain.Rendimento{
			{ColaboradorID: ana, EtapaID: 10, TempoMedioPorPecaMinutos: 2, TotalProducoes: 5},
			{ColaboradorID: bia, EtapaID: 10, TempoMedioPorPecaMinutos: 3, TotalProducoes: 4},
		},
		DataDesejada: segunda.AddDate(0, 0, 10),
		Agora:        segunda,
	})

	g.Expect(len(resultado.Etapas)).To(Equal(1))
	corte := resultado.Etapas[0]
	// 1/2 + 1/3 pieces per minute; 100 pieces take 120 minutes
	g.Expect(corte.VelocidadePecasPorMinuto).To(BeNumerically("~", 5.0/6.0, 1e-9))
	g.Expect(corte.TempoMinutos).To(BeNumerically("~", 120, 1e-9))
	g.Expect(corte.Custo).To(BeNumerically("~", 120, 1e-9))
	g.Expect(corte.AlertaSemColaborador).To(BeFalse())
	g.Expect(corte.AlertaPoucosDados).To(BeFalse())
}

func TestCalcularPrevisaoAlertas(t *testing.T) {
	g := NewGomegaWithT(t)

	resultado := previsao.CalcularPrevisao(previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 50}},
		ColaboradoresIDs: []types.ID{ana},
		EtapasPorProduto: etapasSimples(),
		Rendimentos:      []domain.Rendimento{},
		DataDesejada:     segunda.AddDate(0, 0, 10),
		Agora:            segunda,
	})

	corte := resultado.Etapas[0]
	g.Expect(corte.AlertaSemColaborador).To(BeTrue())
	g.Expect(corte.TempoMinutos).To(Equal(float64(0)))
	g.Expect(corte.Custo).To(Equal(float64(0)))
	g.Expect(resultado.HorasTotais).To(Equal(float64(0)))
	g.Expect(resultado.DiasUteisNecessarios).To(Equal(0))
	g.Expect(resultado.PrecisaHoraExtra).To(BeFalse())

	resultado = previsao.CalcularPrevisao(previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 50}},
		ColaboradoresIDs: []types.ID{ana},
		EtapasPorProduto: etapasSimples(),
		Rendimentos: []domain.Rendimento{
			{ColaboradorID: ana, EtapaID: 10, TempoMedioPorPecaMinutos: 2, TotalProducoes: 2},
		},
		DataDesejada: segunda.AddDate(0, 0, 10),
		Agora:        segunda,
	})
	g.Expect(resultado.Etapas[0].AlertaPoucosDados).To(BeTrue())
}

func TestCalcularPrevisaoSubetapas(t *testing.T) {
	g := NewGomegaWithT(t)

	sub1, sub2 := types.ID(21), types.ID(22)
	etapas := map[types.ID][]produto.EtapaDetail{
		1: {{
			Etapa: domain.Etapa{ID: 20, ProdutoID: 1, Nome: "Costura", Ordem: 1, CustoPorHora: 60},
			Subetapas: []domain.Subetapa{
				{ID: sub1, EtapaID: 20, Nome: "Frente", CustoPorHora: 90},
				{ID: sub2, EtapaID: 20, Nome: "Verso"},
			},
		}},
	}

	resultado := previsao.CalcularPrevisao(previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 60}},
		ColaboradoresIDs: []types.ID{ana},
		EtapasPorProduto: etapas,
		Rendimentos: []domain.Rendimento{
			{ColaboradorID: ana, EtapaID: 20, SubetapaID: &sub1, TempoMedioPorPecaMinutos: 1, TotalProducoes: 9},
			// stage-level history backs the sub-stage nobody measured
			{ColaboradorID: ana, EtapaID: 20, TempoMedioPorPecaMinutos: 2, TotalProducoes: 9},
		},
		DataDesejada: segunda.AddDate(0, 0, 10),
		Agora:        segunda,
	})

	g.Expect(len(resultado.Etapas)).To(Equal(2))

	frente := resultado.Etapas[0]
	g.Expect(frente.TempoMinutos).To(BeNumerically("~", 60, 1e-9))
	// sub-stage hourly rate overrides the stage rate
	g.Expect(frente.Custo).To(BeNumerically("~", 90, 1e-9))

	verso := resultado.Etapas[1]
	g.Expect(verso.TempoMinutos).To(BeNumerically("~", 120, 1e-9))
	g.Expect(verso.Custo).To(BeNumerically("~", 120, 1e-9))
}

func TestCalcularPrevisaoEtapaSemSubetapaAceitaHistoricoDeSubetapa(t *testing.T) {
	g := NewGomegaWithT(t)

	sub := types.ID(77)
	resultado := previsao.CalcularPrevisao(previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 10}},
		ColaboradoresIDs: []types.ID{ana},
		EtapasPorProduto: etapasSimples(),
		Rendimentos: []domain.Rendimento{
			{ColaboradorID: ana, EtapaID: 10, SubetapaID: &sub, TempoMedioPorPecaMinutos: 4, TotalProducoes: 6},
		},
		DataDesejada: segunda.AddDate(0, 0, 10),
		Agora:        segunda,
	})

	corte := resultado.Etapas[0]
	g.Expect(corte.AlertaSemColaborador).To(BeFalse())
	g.Expect(corte.TempoMinutos).To(BeNumerically("~", 40, 1e-9))
}

func TestCalcularPrevisaoPrazoEHoraExtra(t *testing.T) {
	g := NewGomegaWithT(t)

	// 540 pieces at 2 min/piece is 18 hours, two nine-hour days
	entrada := previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 540}},
		ColaboradoresIDs: []types.ID{ana},
		EtapasPorProduto: etapasSimples(),
		Rendimentos: []domain.Rendimento{
			{ColaboradorID: ana, EtapaID: 10, TempoMedioPorPecaMinutos: 2, TotalProducoes: 8},
		},
		DataDesejada: segunda.AddDate(0, 0, 1),
		Agora:        segunda,
	}
	resultado := previsao.CalcularPrevisao(entrada)

	g.Expect(resultado.HorasTotais).To(BeNumerically("~", 18, 1e-9))
	g.Expect(resultado.DiasUteisNecessarios).To(Equal(2))
	g.Expect(resultado.DataConclusaoPrevista.Weekday()).To(Equal(time.Wednesday))
	g.Expect(resultado.DiasUteisDisponiveis).To(Equal(1))
	g.Expect(resultado.PrecisaHoraExtra).To(BeTrue())
	g.Expect(resultado.HoraExtraPorDia).To(BeNumerically("~", 9, 1e-9))

	// with a comfortable deadline no overtime is needed
	entrada.DataDesejada = segunda.AddDate(0, 0, 7)
	resultado = previsao.CalcularPrevisao(entrada)
	g.Expect(resultado.DiasUteisDisponiveis).To(Equal(5))
	g.Expect(resultado.PrecisaHoraExtra).To(BeFalse())
	g.Expect(resultado.HoraExtraPorDia).To(Equal(float64(0)))
}

func TestResultadoCalculoJSONRoundTrip(t *testing.T) {
	g := NewGomegaWithT(t)

	// fractional speeds produce non-terminating decimals, the harshest case
	resultado := previsao.CalcularPrevisao(previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 100}},
		ColaboradoresIDs: []types.ID{ana, bia},
		EtapasPorProduto: etapasSimples(),
		Rendimentos: []domain.Rendimento{
			{ColaboradorID: ana, EtapaID: 10, TempoMedioPorPecaMinutos: 2, TotalProducoes: 5},
			{ColaboradorID: bia, EtapaID: 10, TempoMedioPorPecaMinutos: 3, TotalProducoes: 4},
		},
		DataDesejada: segunda.AddDate(0, 0, 10),
		Agora:        segunda,
	})

	encoded, err := json.Marshal(resultado)
	g.Expect(err).To(BeNil())

	decoded := previsao.ResultadoCalculo{}
	g.Expect(json.Unmarshal(encoded, &decoded)).To(BeNil())
	g.Expect(decoded).To(Equal(*resultado))
}

func TestCalcularPrevisaoDataDesejadaNoPassado(t *testing.T) {
	g := NewGomegaWithT(t)

	resultado := previsao.CalcularPrevisao(previsao.EntradaCalculo{
		Itens:            []previsao.ItemPrevisao{{ProdutoID: 1, Quantidade: 540}},
		ColaboradoresIDs: []types.ID{ana},
		EtapasPorProduto: etapasSimples(),
		Rendimentos: []domain.Rendimento{
			{ColaboradorID: ana, EtapaID: 10, TempoMedioPorPecaMinutos: 3, TotalProducoes: 8},
		},
		DataDesejada: segunda.AddDate(0, 0, -7),
		Agora:        segunda,
	})

	// a week overdue; callers render the negative count as "atrasada"
	g.Expect(resultado.DiasUteisDisponiveis).To(Equal(-5))
	g.Expect(resultado.PrecisaHoraExtra).To(BeTrue())
	// no available day to spread overtime over
	g.Expect(resultado.HoraExtraPorDia).To(Equal(float64(0)))
}
