package domain

import (
	"github.com/fundwit/go-commons/types"
)

// Oficina is a tenant: one small manufacturing business. Every domain row
// carries the tenant id and every query is scoped by it.
type Oficina struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Nome       string          `json:"nome"`
	Identifier string          `json:"identifier" gorm:"unique_index:oficina_identifier_unique"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Oficina) TableName() string {
	return "oficinas"
}
