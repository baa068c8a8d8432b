package calendario_test

import (
	"testing"
	"time"

	"oficina/domain/calendario"

	. "github.com/onsi/gomega"
)

// 2025-03-03 is a Monday, 2025-03-07 a Friday.
var (
	segunda = time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC)
	sexta   = time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
)

func TestContarDiasUteis(t *testing.T) {
	g := NewGomegaWithT(t)

	g.Expect(calendario.ContarDiasUteis(segunda, segunda)).To(Equal(0))

	// the start day never counts, the end day does
	g.Expect(calendario.ContarDiasUteis(segunda, segunda.AddDate(0, 0, 1))).To(Equal(1))
	g.Expect(calendario.ContarDiasUteis(segunda, segunda.AddDate(0, 0, 7))).To(Equal(5))

	// Friday to next Monday crosses only the weekend
	g.Expect(calendario.ContarDiasUteis(sexta, sexta.AddDate(0, 0, 3))).To(Equal(1))

	// weekend endpoints count nothing
	sabado := sexta.AddDate(0, 0, 1)
	g.Expect(calendario.ContarDiasUteis(sexta, sabado)).To(Equal(0))
	g.Expect(calendario.ContarDiasUteis(sabado, sabado.AddDate(0, 0, 1))).To(Equal(0))

	// reversed interval is negative with the same magnitude
	g.Expect(calendario.ContarDiasUteis(segunda.AddDate(0, 0, 7), segunda)).To(Equal(-5))

	// time of day is irrelevant
	fimTarde := time.Date(2025, 3, 4, 23, 59, 0, 0, time.UTC)
	g.Expect(calendario.ContarDiasUteis(segunda, fimTarde)).To(Equal(1))
}

func TestAdicionarDiasUteis(t *testing.T) {
	g := NewGomegaWithT(t)

	g.Expect(calendario.AdicionarDiasUteis(segunda, 0)).To(Equal(segunda))

	g.Expect(calendario.AdicionarDiasUteis(segunda, 1).Weekday()).To(Equal(time.Tuesday))
	g.Expect(calendario.AdicionarDiasUteis(segunda, 5).Weekday()).To(Equal(time.Monday))

	// adding one weekday to Friday lands on Monday
	proxima := calendario.AdicionarDiasUteis(sexta, 1)
	g.Expect(proxima.Weekday()).To(Equal(time.Monday))
	g.Expect(proxima.Day()).To(Equal(10))

	// starting on a weekend, the first added day is Monday
	sabado := sexta.AddDate(0, 0, 1)
	g.Expect(calendario.AdicionarDiasUteis(sabado, 1).Weekday()).To(Equal(time.Monday))
}
