package calendario_test

import (
	"testing"
	"time"

	"oficina/domain/calendario"

	. "github.com/onsi/gomega"
)

func TestCalcularCronogramaDiaAtualParcial(t *testing.T) {
	g := NewGomegaWithT(t)
	cal := calendario.CalendarioPadrao()

	// 10:00 on a Monday: 120 minutes left before lunch, 300 after
	agora := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	cron := calendario.CalcularCronograma(500, cal, agora)

	g.Expect(cron.Incompleto).To(BeFalse())
	g.Expect(cron.DiasUteis).To(Equal(2))
	g.Expect(len(cron.Dias)).To(Equal(2))
	g.Expect(cron.Dias[0].MinutosDisponiveis).To(Equal(float64(420)))
	g.Expect(cron.Dias[0].MinutosConsumidos).To(Equal(float64(420)))
	g.Expect(cron.Dias[1].MinutosDisponiveis).To(Equal(float64(540)))
	g.Expect(cron.Dias[1].MinutosConsumidos).To(Equal(float64(80)))
	g.Expect(cron.DataConclusao.Weekday()).To(Equal(time.Tuesday))
}

func TestCalcularCronogramaPulaFimDeSemana(t *testing.T) {
	g := NewGomegaWithT(t)
	cal := calendario.CalendarioPadrao()

	// Friday 17:00: one hour today, the rest lands on Monday
	sexta := time.Date(2025, 3, 7, 17, 0, 0, 0, time.UTC)
	cron := calendario.CalcularCronograma(120, cal, sexta)

	g.Expect(cron.DiasUteis).To(Equal(2))
	g.Expect(cron.Dias[0].MinutosDisponiveis).To(Equal(float64(60)))
	g.Expect(cron.Dias[1].Data.Weekday()).To(Equal(time.Monday))
	g.Expect(cron.Dias[1].MinutosConsumidos).To(Equal(float64(60)))
	g.Expect(cron.DataConclusao.Weekday()).To(Equal(time.Monday))
}

func TestCalcularCronogramaSemDemanda(t *testing.T) {
	g := NewGomegaWithT(t)
	cal := calendario.CalendarioPadrao()

	agora := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	cron := calendario.CalcularCronograma(0, cal, agora)

	g.Expect(len(cron.Dias)).To(Equal(0))
	g.Expect(cron.DiasUteis).To(Equal(0))
	g.Expect(cron.Incompleto).To(BeFalse())
}

func TestCalcularCronogramaIncompleto(t *testing.T) {
	g := NewGomegaWithT(t)

	// a calendar with no active day can never satisfy the demand
	cal := &calendario.CalendarioSemanal{}
	agora := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	cron := calendario.CalcularCronograma(60, cal, agora)

	g.Expect(cron.Incompleto).To(BeTrue())
	g.Expect(len(cron.Dias)).To(Equal(0))
}

func TestCalendarioValidar(t *testing.T) {
	g := NewGomegaWithT(t)

	cal := calendario.CalendarioPadrao()
	g.Expect(cal.Validar()).To(Succeed())
	g.Expect(cal.CapacidadeDia(time.Monday)).To(Equal(float64(540)))
	g.Expect(cal.CapacidadeDia(time.Sunday)).To(Equal(float64(0)))

	cal.Dias[int(time.Monday)].Saida = "12:30"
	g.Expect(cal.Validar()).NotTo(Succeed())

	cal = calendario.CalendarioPadrao()
	cal.Dias[int(time.Monday)].Entrada = "25:00"
	g.Expect(cal.Validar()).NotTo(Succeed())
}
