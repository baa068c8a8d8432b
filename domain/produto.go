package domain

import (
	"github.com/fundwit/go-commons/types"
)

type Produto struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId" gorm:"index:idx_produto_tenant"`

	ProdutoCreating

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Produto) TableName() string {
	return "produtos"
}

type ProdutoCreating struct {
	Nome      string `json:"nome" binding:"required,lte=128"`
	Codigo    string `json:"codigo" binding:"required,lte=32"`
	Descricao string `json:"descricao" binding:"omitempty,lte=512"`
}

// Etapa is one production stage of a product, ordered by Ordem.
type Etapa struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	TenantID  types.ID `json:"tenantId"`
	ProdutoID types.ID `json:"produtoId" gorm:"index:idx_etapa_produto"`

	Nome         string  `json:"nome"`
	Ordem        int     `json:"ordem"`
	CustoPorHora float64 `json:"custoPorHora"`
}

func (r *Etapa) TableName() string {
	return "etapas"
}

// Subetapa refines an Etapa; its CustoPorHora, when set, overrides the
// stage's own rate.
type Subetapa struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	EtapaID types.ID `json:"etapaId" gorm:"index:idx_subetapa_etapa"`

	Nome         string  `json:"nome"`
	CustoPorHora float64 `json:"custoPorHora"`
}

func (r *Subetapa) TableName() string {
	return "subetapas"
}

// MetricaEtapaProduto is the historical average throughput/cost of a stage
// (optionally a sub-stage) of a product, derived from finalized productions.
type MetricaEtapaProduto struct {
	ID         types.ID  `json:"id" gorm:"primary_key"`
	TenantID   types.ID  `json:"tenantId"`
	ProdutoID  types.ID  `json:"produtoId" gorm:"index:idx_metrica_produto"`
	EtapaID    types.ID  `json:"etapaId"`
	SubetapaID *types.ID `json:"subetapaId"`

	TempoMedioPorPecaMinutos float64 `json:"tempoMedioPorPecaMinutos"`
	CustoMedioPorPeca        float64 `json:"custoMedioPorPeca"`
	TotalProducoes           int     `json:"totalProducoes"`

	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *MetricaEtapaProduto) TableName() string {
	return "metricas_etapa_produto"
}
