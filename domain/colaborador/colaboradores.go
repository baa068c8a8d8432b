package colaborador

import (
	"oficina/authority"
	"oficina/bizerror"
	"oficina/domain"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var (
	CreateColaboradorFunc = CreateColaborador
	QueryColaboradoresFunc = QueryColaboradores
	UpdateColaboradorFunc = UpdateColaborador

	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

type ColaboradorQuery struct {
	Ativo *bool `form:"ativo"`
}

func QueryColaboradores(query ColaboradorQuery, s *session.Session) (*[]domain.Colaborador, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Where(&domain.Colaborador{TenantID: s.TenantID})
	if query.Ativo != nil {
		q = q.Where("ativo = ?", *query.Ativo)
	}
	var records []domain.Colaborador
	if err := q.Order("nome ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func CreateColaborador(c *domain.ColaboradorCreating, s *session.Session) (*domain.Colaborador, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	record := domain.Colaborador{
		ID:                  idgen.NextID(idWorker),
		TenantID:            s.TenantID,
		ColaboradorCreating: *c,
		Ativo:               true,
		CreateTime:          types.CurrentTimestamp(),
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

type ColaboradorUpdating struct {
	Nome           *string  `json:"nome" binding:"omitempty,lte=128"`
	CustoHora      *float64 `json:"custoHora" binding:"omitempty,gte=0"`
	CustoHoraExtra *float64 `json:"custoHoraExtra" binding:"omitempty,gte=0"`
	Ativo          *bool    `json:"ativo"`
}

func UpdateColaborador(id types.ID, u *ColaboradorUpdating, s *session.Session) error {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return bizerror.ErrForbidden
	}

	changes := map[string]interface{}{}
	if u.Nome != nil {
		changes["nome"] = *u.Nome
	}
	if u.CustoHora != nil {
		changes["custo_hora"] = *u.CustoHora
	}
	if u.CustoHoraExtra != nil {
		changes["custo_hora_extra"] = *u.CustoHoraExtra
	}
	if u.Ativo != nil {
		changes["ativo"] = *u.Ativo
	}
	if len(changes) == 0 {
		return nil
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Model(&domain.Colaborador{}).
		Where(&domain.Colaborador{ID: id, TenantID: s.TenantID}).
		Updates(changes)
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected != 1 {
		return bizerror.ErrNotFound
	}
	return nil
}
