package domain

import (
	"github.com/fundwit/go-commons/types"
)

const (
	AjusteImprevisto = "imprevisto"
	AjusteEquipe     = "equipe"
	AjusteQuantidade = "quantidade"
	AjusteExclusao   = "exclusao"
)

// Ajuste is one immutable entry of the adjustment ledger of a forecast.
// The cached Previsao.HorasAjustadas is always the sum of HorasDelta over
// the forecast's entries; undoing an entry appends a compensating one
// instead of rewriting history.
type Ajuste struct {
	ID         types.ID `json:"id" gorm:"primary_key"`
	TenantID   types.ID `json:"tenantId"`
	PrevisaoID types.ID `json:"previsaoId" gorm:"index:idx_ajuste_previsao"`

	Tipo       string  `json:"tipo"`
	Descricao  string  `json:"descricao"`
	HorasDelta float64 `json:"horasDelta"`

	// reversal entries point at the entry they cancel
	OrigemID *types.ID `json:"origemId"`

	CriadorID   types.ID        `json:"criadorId"`
	CriadorNome string          `json:"criadorNome"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Ajuste) TableName() string {
	return "ajustes"
}
