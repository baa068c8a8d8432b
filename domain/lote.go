package domain

import (
	"github.com/fundwit/go-commons/types"
)

// Lote is a production batch of one product.
type Lote struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId" gorm:"index:idx_lote_tenant"`

	Codigo          string   `json:"codigo" gorm:"unique_index:lote_codigo_unique"`
	ProdutoID       types.ID `json:"produtoId"`
	QuantidadeTotal float64  `json:"quantidadeTotal"`
	Status          string   `json:"status"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	FimTime    types.Timestamp `json:"fimTime" sql:"type:DATETIME(6)"`
}

func (r *Lote) TableName() string {
	return "lotes"
}

// Producao is one work session of one collaborator on one stage of a lot.
// Collaborator name and hourly rates are denormalized at registration time,
// so progress and cost reports survive roster changes.
type Producao struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId"`
	LoteID   types.ID `json:"loteId" gorm:"index:idx_producao_lote"`

	EtapaID    types.ID  `json:"etapaId"`
	SubetapaID *types.ID `json:"subetapaId"`

	ColaboradorID         types.ID `json:"colaboradorId"`
	ColaboradorNome       string   `json:"colaboradorNome"`
	ColaboradorCustoHora  float64  `json:"colaboradorCustoHora"`
	ColaboradorCustoExtra float64  `json:"colaboradorCustoExtra"`

	QuantidadeProduzida   float64 `json:"quantidadeProduzida"`
	TempoProdutivoMinutos float64 `json:"tempoProdutivoMinutos"`
	MinutosNormais        float64 `json:"minutosNormais"`
	MinutosExtras         float64 `json:"minutosExtras"`

	Status string `json:"status"`

	InicioTime types.Timestamp `json:"inicioTime" sql:"type:DATETIME(6) NOT NULL"`
	FimTime    types.Timestamp `json:"fimTime" sql:"type:DATETIME(6)"`
}

func (r *Producao) TableName() string {
	return "producoes"
}

// ProducaoDetalhe is a Producao row joined with the names the progress
// aggregation renders. Joined fields may be absent when the stage definition
// was deleted after the fact; the aggregator tolerates that.
type ProducaoDetalhe struct {
	Producao

	EtapaNome    string  `json:"etapaNome"`
	EtapaOrdem   int     `json:"etapaOrdem"`
	SubetapaNome *string `json:"subetapaNome"`
}
