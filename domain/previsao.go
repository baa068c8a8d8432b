package domain

import (
	"github.com/fundwit/go-commons/types"
)

// Previsao is a saved forecast/order. HorasAjustadas is a cached running sum
// over the adjustment ledger; the effective total is
// HorasTotaisPrevistas + HorasAjustadas.
type Previsao struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId" gorm:"index:idx_previsao_tenant"`

	DataDesejada          types.Timestamp `json:"dataDesejada" sql:"type:DATETIME(6) NOT NULL"`
	DataConclusaoPrevista types.Timestamp `json:"dataConclusaoPrevista" sql:"type:DATETIME(6) NOT NULL"`

	HorasTotaisPrevistas float64 `json:"horasTotaisPrevistas"`
	HorasAjustadas       float64 `json:"horasAjustadas"`

	ColaboradoresIDs    IDList        `json:"colaboradoresIds" sql:"type:TEXT"`
	ProdutosQuantidades QuantidadeMap `json:"produtosQuantidades" sql:"type:TEXT"`

	PrecisaHoraExtra bool    `json:"precisaHoraExtra"`
	HoraExtraPorDia  float64 `json:"horaExtraPorDia"`

	LoteID *types.ID `json:"loteId"`
	Status string    `json:"status"`

	CriadorID   types.ID        `json:"criadorId"`
	CriadorNome string          `json:"criadorNome"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Previsao) TableName() string {
	return "previsoes"
}

// HorasEfetivas is the running forecast total after adjustments.
func (r *Previsao) HorasEfetivas() float64 {
	return r.HorasTotaisPrevistas + r.HorasAjustadas
}
