package produto

import (
	"errors"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/domain"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	CreateProdutoFunc     = CreateProduto
	QueryProdutosFunc     = QueryProdutos
	CreateEtapaFunc       = CreateEtapa
	QueryEtapasProdutoFunc = QueryEtapasProduto

	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

func CreateProduto(c *domain.ProdutoCreating, s *session.Session) (*domain.Produto, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}
	record := domain.Produto{
		ID:              idgen.NextID(idWorker),
		TenantID:        s.TenantID,
		ProdutoCreating: *c,
		CreateTime:      types.CurrentTimestamp(),
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func QueryProdutos(s *session.Session) (*[]domain.Produto, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []domain.Produto
	if err := db.Where(&domain.Produto{TenantID: s.TenantID}).Order("nome ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

type SubetapaCreating struct {
	Nome         string  `json:"nome" binding:"required,lte=128"`
	CustoPorHora float64 `json:"custoPorHora" binding:"gte=0"`
}

type EtapaCreating struct {
	Nome         string             `json:"nome" binding:"required,lte=128"`
	Ordem        int                `json:"ordem" binding:"gte=0"`
	CustoPorHora float64            `json:"custoPorHora" binding:"gte=0"`
	Subetapas    []SubetapaCreating `json:"subetapas" binding:"omitempty,dive"`
}

func CreateEtapa(produtoId types.ID, c *EtapaCreating, s *session.Session) (*EtapaDetail, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	produto := domain.Produto{}
	if err := db.Where(&domain.Produto{ID: produtoId, TenantID: s.TenantID}).First(&produto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrProdutoNotFound
		}
		return nil, err
	}

	detail := EtapaDetail{}
	err := db.Transaction(func(tx *gorm.DB) error {
		etapa := domain.Etapa{
			ID: idgen.NextID(idWorker), TenantID: s.TenantID, ProdutoID: produtoId,
			Nome: c.Nome, Ordem: c.Ordem, CustoPorHora: c.CustoPorHora,
		}
		if err := tx.Create(&etapa).Error; err != nil {
			return err
		}
		detail.Etapa = etapa
		for _, sc := range c.Subetapas {
			sub := domain.Subetapa{
				ID: idgen.NextID(idWorker), EtapaID: etapa.ID,
				Nome: sc.Nome, CustoPorHora: sc.CustoPorHora,
			}
			if err := tx.Create(&sub).Error; err != nil {
				return err
			}
			detail.Subetapas = append(detail.Subetapas, sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

type EtapaDetail struct {
	domain.Etapa
	Subetapas []domain.Subetapa `json:"subetapas"`
}

// QueryEtapasProduto returns the ordered stage list of a product with its
// sub-stages; the forecaster and the progress aggregation both consume it.
// A missing product is a hard failure: the forecast cannot proceed.
func QueryEtapasProduto(produtoId types.ID, s *session.Session) ([]EtapaDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	produto := domain.Produto{}
	if err := db.Where(&domain.Produto{ID: produtoId, TenantID: s.TenantID}).First(&produto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrProdutoNotFound
		}
		return nil, err
	}

	var etapas []domain.Etapa
	if err := db.Where(&domain.Etapa{ProdutoID: produtoId}).Order("ordem ASC, id ASC").Find(&etapas).Error; err != nil {
		return nil, err
	}
	if len(etapas) == 0 {
		return []EtapaDetail{}, nil
	}

	etapaIds := make([]types.ID, 0, len(etapas))
	for _, e := range etapas {
		etapaIds = append(etapaIds, e.ID)
	}
	var subetapas []domain.Subetapa
	if err := db.Where("etapa_id IN (?)", etapaIds).Order("id ASC").Find(&subetapas).Error; err != nil {
		return nil, err
	}
	porEtapa := map[types.ID][]domain.Subetapa{}
	for _, sub := range subetapas {
		porEtapa[sub.EtapaID] = append(porEtapa[sub.EtapaID], sub)
	}

	details := make([]EtapaDetail, 0, len(etapas))
	for _, e := range etapas {
		details = append(details, EtapaDetail{Etapa: e, Subetapas: porEtapa[e.ID]})
	}
	return details, nil
}
