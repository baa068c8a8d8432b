package lote_test

import (
	"encoding/json"
	"testing"

	"oficina/domain"
	"oficina/domain/lote"
	"oficina/domain/produto"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func buildEtapas() []produto.EtapaDetail {
	return []produto.EtapaDetail{
		{Etapa: domain.Etapa{ID: 1, Nome: "Corte", Ordem: 1}},
		{Etapa: domain.Etapa{ID: 2, Nome: "Costura", Ordem: 2}, Subetapas: []domain.Subetapa{
			{ID: 21, EtapaID: 2, Nome: "Frente"},
			{ID: 22, EtapaID: 2, Nome: "Verso"},
		}},
		{Etapa: domain.Etapa{ID: 3, Nome: "Acabamento", Ordem: 3}},
	}
}

func TestAgruparProgressoSemProducao(t *testing.T) {
	g := NewGomegaWithT(t)

	result := lote.AgruparProgresso(nil, 100, buildEtapas())

	g.Expect(len(result)).To(Equal(4))
	g.Expect(result[0].EtapaNome).To(Equal("Corte"))
	g.Expect(result[0].SubetapaID).To(BeNil())
	g.Expect(*result[1].SubetapaNome).To(Equal("Frente"))
	g.Expect(*result[2].SubetapaNome).To(Equal("Verso"))
	g.Expect(result[3].EtapaNome).To(Equal("Acabamento"))

	for _, p := range result {
		g.Expect(p.Status).To(Equal(domain.ProgressoPendente))
		g.Expect(p.Percentual).To(Equal(0))
		g.Expect(p.QuantidadeTotal).To(Equal(float64(100)))
		g.Expect(p.Colaboradores).To(Equal([]string{}))
		g.Expect(p.Orfa).To(BeFalse())
	}
}

func TestAgruparProgressoAcumulaQuantidadeTempoECusto(t *testing.T) {
	g := NewGomegaWithT(t)

	sub := types.ID(21)
	producoes := []domain.ProducaoDetalhe{
		{Producao: domain.Producao{EtapaID: 1, ColaboradorNome: "Ana", ColaboradorCustoHora: 30,
			QuantidadeProduzida: 40, MinutosNormais: 120, MinutosExtras: 0,
			Status: domain.ProducaoFinalizado}},
		{Producao: domain.Producao{EtapaID: 1, ColaboradorNome: "Bia", ColaboradorCustoHora: 20, ColaboradorCustoExtra: 40,
			QuantidadeProduzida: 60, MinutosNormais: 60, MinutosExtras: 30,
			Status: domain.ProducaoFinalizado}},
		{Producao: domain.Producao{EtapaID: 2, SubetapaID: &sub, ColaboradorNome: "Ana", ColaboradorCustoHora: 30,
			QuantidadeProduzida: 10, MinutosNormais: 45,
			Status: domain.ProducaoEmAberto}},
	}

	result := lote.AgruparProgresso(producoes, 100, buildEtapas())
	g.Expect(len(result)).To(Equal(4))

	corte := result[0]
	g.Expect(corte.QuantidadeProduzida).To(Equal(float64(100)))
	g.Expect(corte.Percentual).To(Equal(100))
	g.Expect(corte.Status).To(Equal(domain.ProgressoConcluida))
	g.Expect(corte.TempoNormal).To(Equal(float64(180)))
	g.Expect(corte.TempoExtra).To(Equal(float64(30)))
	g.Expect(corte.TempoTotal).To(Equal(float64(210)))
	// 120min*30 + 60min*20 = 60 + 20; extra 30min*40 = 20
	g.Expect(corte.CustoNormal).To(Equal(float64(80)))
	g.Expect(corte.CustoExtra).To(Equal(float64(20)))
	g.Expect(corte.CustoTotal).To(Equal(float64(100)))
	g.Expect(corte.Colaboradores).To(Equal([]string{"Ana", "Bia"}))

	frente := result[1]
	g.Expect(*frente.SubetapaNome).To(Equal("Frente"))
	g.Expect(frente.QuantidadeProduzida).To(Equal(float64(10)))
	g.Expect(frente.Percentual).To(Equal(10))
	g.Expect(frente.Status).To(Equal(domain.ProgressoEmAndamento))
	g.Expect(frente.CustoNormal).To(Equal(float64(22.5)))

	g.Expect(result[2].Status).To(Equal(domain.ProgressoPendente))
	g.Expect(result[3].Status).To(Equal(domain.ProgressoPendente))
}

func TestAgruparProgressoCustoDeSessaoCancelada(t *testing.T) {
	g := NewGomegaWithT(t)

	producoes := []domain.ProducaoDetalhe{
		{Producao: domain.Producao{EtapaID: 1, ColaboradorNome: "Ana", ColaboradorCustoHora: 30,
			QuantidadeProduzida: 50, MinutosNormais: 60,
			Status: domain.ProducaoCancelado}},
	}

	result := lote.AgruparProgresso(producoes, 100, buildEtapas())
	corte := result[0]

	// labor already spent costs money, but a cancelled session moves no pieces
	g.Expect(corte.CustoNormal).To(Equal(float64(30)))
	g.Expect(corte.QuantidadeProduzida).To(Equal(float64(0)))
	g.Expect(corte.TempoTotal).To(Equal(float64(0)))
	g.Expect(corte.Colaboradores).To(Equal([]string{}))
	g.Expect(corte.Status).To(Equal(domain.ProgressoPendente))
}

func TestAgruparProgressoBucketOrfa(t *testing.T) {
	g := NewGomegaWithT(t)

	nome := "Bainha"
	sub := types.ID(99)
	producoes := []domain.ProducaoDetalhe{
		{
			Producao: domain.Producao{EtapaID: 9, SubetapaID: &sub, ColaboradorNome: "Ana",
				QuantidadeProduzida: 5, MinutosNormais: 10, Status: domain.ProducaoFinalizado},
			EtapaNome: "Removida", EtapaOrdem: 7, SubetapaNome: &nome,
		},
	}

	result := lote.AgruparProgresso(producoes, 100, buildEtapas())
	g.Expect(len(result)).To(Equal(5))

	orfa := result[4]
	g.Expect(orfa.Orfa).To(BeTrue())
	g.Expect(orfa.EtapaNome).To(Equal("Removida"))
	g.Expect(*orfa.SubetapaNome).To(Equal("Bainha"))
	g.Expect(orfa.Ordem).To(Equal(7))
	g.Expect(orfa.QuantidadeProduzida).To(Equal(float64(5)))
	g.Expect(orfa.Status).To(Equal(domain.ProgressoEmAndamento))
}

func TestAgruparProgressoArredondamentoEOrdem(t *testing.T) {
	g := NewGomegaWithT(t)

	etapas := []produto.EtapaDetail{
		{Etapa: domain.Etapa{ID: 2, Nome: "Segunda", Ordem: 5}},
		{Etapa: domain.Etapa{ID: 1, Nome: "Primeira", Ordem: 1}},
		{Etapa: domain.Etapa{ID: 3, Nome: "Empate", Ordem: 5}},
	}
	producoes := []domain.ProducaoDetalhe{
		{Producao: domain.Producao{EtapaID: 1, ColaboradorNome: "Ana",
			QuantidadeProduzida: 1, Status: domain.ProducaoFinalizado}},
	}

	result := lote.AgruparProgresso(producoes, 3, etapas)

	g.Expect(result[0].EtapaNome).To(Equal("Primeira"))
	g.Expect(result[1].EtapaNome).To(Equal("Segunda"))
	g.Expect(result[2].EtapaNome).To(Equal("Empate"))

	// 1/3 of 3 units rounds to 33 percent
	g.Expect(result[0].Percentual).To(Equal(33))
	g.Expect(result[0].Status).To(Equal(domain.ProgressoEmAndamento))
}

func TestProgressoEtapaJSONRoundTrip(t *testing.T) {
	g := NewGomegaWithT(t)

	sub := types.ID(21)
	producoes := []domain.ProducaoDetalhe{
		{Producao: domain.Producao{EtapaID: 1, ColaboradorNome: "Ana", ColaboradorCustoHora: 30,
			QuantidadeProduzida: 40, MinutosNormais: 125, MinutosExtras: 35,
			Status: domain.ProducaoFinalizado}},
		{Producao: domain.Producao{EtapaID: 2, SubetapaID: &sub, ColaboradorNome: "Bia", ColaboradorCustoHora: 22.5,
			QuantidadeProduzida: 10, MinutosNormais: 45,
			Status: domain.ProducaoEmAberto}},
	}

	progresso := lote.AgruparProgresso(producoes, 100, buildEtapas())

	encoded, err := json.Marshal(progresso)
	g.Expect(err).To(BeNil())

	decoded := []lote.ProgressoEtapa{}
	g.Expect(json.Unmarshal(encoded, &decoded)).To(BeNil())
	g.Expect(len(decoded)).To(Equal(len(progresso)))

	corte := decoded[0]
	g.Expect(corte.TempoNormal).To(Equal(float64(125)))
	g.Expect(corte.TempoExtra).To(Equal(float64(35)))
	g.Expect(corte.CustoNormal).To(Equal(progresso[0].CustoNormal))
	g.Expect(corte.CustoTotal).To(Equal(progresso[0].CustoTotal))
	g.Expect(corte.Colaboradores).To(Equal([]string{"Ana"}))

	frente := decoded[1]
	g.Expect(*frente.SubetapaNome).To(Equal("Frente"))
	g.Expect(frente.CustoNormal).To(Equal(progresso[1].CustoNormal))

	reencoded, err := json.Marshal(decoded)
	g.Expect(err).To(BeNil())
	g.Expect(string(reencoded)).To(MatchJSON(string(encoded)))
}

func TestAgruparProgressoSemTotalDefinido(t *testing.T) {
	g := NewGomegaWithT(t)

	producoes := []domain.ProducaoDetalhe{
		{Producao: domain.Producao{EtapaID: 1, ColaboradorNome: "Ana",
			QuantidadeProduzida: 10, Status: domain.ProducaoFinalizado}},
	}

	result := lote.AgruparProgresso(producoes, 0, buildEtapas())
	corte := result[0]

	g.Expect(corte.Percentual).To(Equal(0))
	g.Expect(corte.Status).To(Equal(domain.ProgressoEmAndamento))
}
