package domain

import (
	"github.com/fundwit/go-commons/types"
)

type Colaborador struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId" gorm:"index:idx_colaborador_tenant"`

	ColaboradorCreating

	Ativo      bool            `json:"ativo"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Colaborador) TableName() string {
	return "colaboradores"
}

type ColaboradorCreating struct {
	Nome           string  `json:"nome" binding:"required,lte=128"`
	CustoHora      float64 `json:"custoHora" binding:"gte=0"`
	CustoHoraExtra float64 `json:"custoHoraExtra" binding:"gte=0"`
}

// Rendimento is the measured throughput of one collaborator on one stage
// (optionally one sub-stage): average minutes per produced unit, and how many
// finalized productions back that average.
type Rendimento struct {
	ID            types.ID  `json:"id" gorm:"primary_key"`
	TenantID      types.ID  `json:"tenantId"`
	ColaboradorID types.ID  `json:"colaboradorId" gorm:"index:idx_rendimento_colaborador"`
	EtapaID       types.ID  `json:"etapaId"`
	SubetapaID    *types.ID `json:"subetapaId"`

	TempoMedioPorPecaMinutos float64 `json:"tempoMedioPorPecaMinutos"`
	TotalProducoes           int     `json:"totalProducoes"`

	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Rendimento) TableName() string {
	return "rendimentos"
}
