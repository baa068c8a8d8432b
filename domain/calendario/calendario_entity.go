package calendario

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

// DiaCalendario is the configured schedule of one weekday for one tenant.
// Times are wall-clock "HH:MM". An inactive day contributes zero capacity.
type DiaCalendario struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId" gorm:"index:idx_calendario_tenant"`

	DiaSemana int `json:"diaSemana"` // 0 = domingo ... 6 = sabado, time.Weekday numbering

	DiaCalendarioConfig
}

func (r *DiaCalendario) TableName() string {
	return "calendario_trabalho"
}

type DiaCalendarioConfig struct {
	Ativo       bool   `json:"ativo"`
	Entrada     string `json:"entrada" binding:"omitempty,len=5"`
	SaidaAlmoco string `json:"saidaAlmoco" binding:"omitempty,len=5"`
	VoltaAlmoco string `json:"voltaAlmoco" binding:"omitempty,len=5"`
	Saida       string `json:"saida" binding:"omitempty,len=5"`
}

// CalendarioSemanal is a full weekly schedule keyed by weekday.
type CalendarioSemanal struct {
	Dias [7]DiaCalendarioConfig `json:"dias"`
}

func (c *CalendarioSemanal) Dia(wd time.Weekday) DiaCalendarioConfig {
	return c.Dias[int(wd)]
}

// CapacidadeDia is the full-day capacity in minutes:
// (saidaAlmoco-entrada) + (saida-voltaAlmoco). Zero for inactive days.
func (c *CalendarioSemanal) CapacidadeDia(wd time.Weekday) float64 {
	dia := c.Dias[int(wd)]
	if !dia.Ativo {
		return 0
	}
	entrada, saidaAlmoco, voltaAlmoco, saida, err := dia.minutos()
	if err != nil {
		return 0
	}
	return float64((saidaAlmoco - entrada) + (saida - voltaAlmoco))
}

// Validar checks entrada < saidaAlmoco <= voltaAlmoco < saida on every
// active day.
func (c *CalendarioSemanal) Validar() error {
	for wd, dia := range c.Dias {
		if !dia.Ativo {
			continue
		}
		entrada, saidaAlmoco, voltaAlmoco, saida, err := dia.minutos()
		if err != nil {
			return fmt.Errorf("dia %d: %w", wd, err)
		}
		if !(entrada < saidaAlmoco && saidaAlmoco <= voltaAlmoco && voltaAlmoco < saida) {
			return fmt.Errorf("dia %d: horarios fora de ordem", wd)
		}
	}
	return nil
}

func (d DiaCalendarioConfig) minutos() (entrada, saidaAlmoco, voltaAlmoco, saida int, err error) {
	if entrada, err = parseHoraMinutos(d.Entrada); err != nil {
		return
	}
	if saidaAlmoco, err = parseHoraMinutos(d.SaidaAlmoco); err != nil {
		return
	}
	if voltaAlmoco, err = parseHoraMinutos(d.VoltaAlmoco); err != nil {
		return
	}
	saida, err = parseHoraMinutos(d.Saida)
	return
}

func parseHoraMinutos(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("horario invalido: %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("horario invalido: %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("horario invalido: %q", v)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("horario invalido: %q", v)
	}
	return h*60 + m, nil
}

// CalendarioPadrao is the fallback applied before a tenant configures its
// own schedule: Monday to Friday, 08:00-12:00 and 13:00-18:00 (nine hours).
func CalendarioPadrao() *CalendarioSemanal {
	c := CalendarioSemanal{}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		c.Dias[int(wd)] = DiaCalendarioConfig{
			Ativo: true, Entrada: "08:00", SaidaAlmoco: "12:00", VoltaAlmoco: "13:00", Saida: "18:00",
		}
	}
	return &c
}
