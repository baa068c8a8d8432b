package ranking_test

import (
	"testing"

	"oficina/domain/ranking"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestRanking(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ranking Suite")
}

var _ = Describe("Classificar", func() {
	It("should order by pieces, pace and name, stamping positions", func() {
		itens := []ranking.ItemRanking{
			{ColaboradorNome: "Bia", PecasProduzidas: 80, PecasPorHora: 10},
			{ColaboradorNome: "Ana", PecasProduzidas: 120, PecasPorHora: 8},
			{ColaboradorNome: "Caio", PecasProduzidas: 80, PecasPorHora: 12},
			{ColaboradorNome: "Duda", PecasProduzidas: 80, PecasPorHora: 10},
		}

		ranking.Classificar(itens)

		Expect(itens[0].ColaboradorNome).To(Equal("Ana"))
		Expect(itens[1].ColaboradorNome).To(Equal("Caio"))
		Expect(itens[2].ColaboradorNome).To(Equal("Bia"))
		Expect(itens[3].ColaboradorNome).To(Equal("Duda"))

		for i, item := range itens {
			Expect(item.Posicao).To(Equal(i + 1))
		}
	})

	It("should keep an empty scoreboard empty", func() {
		itens := []ranking.ItemRanking{}
		ranking.Classificar(itens)
		Expect(itens).To(BeEmpty())
	})
})
