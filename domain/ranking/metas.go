package ranking

import (
	"errors"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// Meta is the monthly production target of one collaborator.
type Meta struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId" gorm:"index:idx_meta_tenant"`

	ColaboradorID types.ID `json:"colaboradorId"`
	Ano           int      `json:"ano"`
	Mes           int      `json:"mes"`
	PecasAlvo     float64  `json:"pecasAlvo"`

	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Meta) TableName() string {
	return "metas"
}

type MetaSaving struct {
	ColaboradorID types.ID `json:"colaboradorId" binding:"required"`
	Ano           int      `json:"ano" binding:"required,gte=2000"`
	Mes           int      `json:"mes" binding:"required,gte=1,lte=12"`
	PecasAlvo     float64  `json:"pecasAlvo" binding:"gte=0"`
}

func SaveMeta(saving *MetaSaving, s *session.Session) (*Meta, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := Meta{}
	err := db.Where(&Meta{TenantID: s.TenantID, ColaboradorID: saving.ColaboradorID,
		Ano: saving.Ano, Mes: saving.Mes}).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = Meta{
			ID: idgen.NextID(idWorker), TenantID: s.TenantID,
			ColaboradorID: saving.ColaboradorID, Ano: saving.Ano, Mes: saving.Mes,
		}
	}
	record.PecasAlvo = saving.PecasAlvo
	record.UpdateTime = types.CurrentTimestamp()
	if err := db.Save(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func QueryMetas(ano, mes int, s *session.Session) (*[]Meta, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []Meta
	if err := db.Where(&Meta{TenantID: s.TenantID, Ano: ano, Mes: mes}).Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}
