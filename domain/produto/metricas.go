package produto

import (
	"errors"

	"oficina/domain"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	QueryMetricasProdutoFunc = QueryMetricasProduto
	RecalcularMetricasFunc   = RecalcularMetricas
)

func QueryMetricasProduto(produtoId types.ID, s *session.Session) (*[]domain.MetricaEtapaProduto, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []domain.MetricaEtapaProduto
	if err := db.Where(&domain.MetricaEtapaProduto{TenantID: s.TenantID, ProdutoID: produtoId}).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

type metricaAgregada struct {
	EtapaID         types.ID
	SubetapaID      *types.ID
	TotalMinutos    float64
	TotalQuantidade float64
	TotalCusto      float64
	TotalProducoes  int
}

// RecalcularMetricas rebuilds the historical stage averages of one product
// from its finalized production records. Invoked when a lot finalizes.
func RecalcularMetricas(produtoId types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var aggs []metricaAgregada
	err := db.Raw(`SELECT p.etapa_id, p.subetapa_id,
			COALESCE(SUM(p.tempo_produtivo_minutos), 0) AS total_minutos,
			COALESCE(SUM(p.quantidade_produzida), 0) AS total_quantidade,
			COALESCE(SUM(p.minutos_normais / 60 * p.colaborador_custo_hora
				+ p.minutos_extras / 60 * p.colaborador_custo_extra), 0) AS total_custo,
			COUNT(*) AS total_producoes
		FROM producoes p JOIN lotes l ON p.lote_id = l.id
		WHERE l.produto_id = ? AND p.tenant_id = ? AND p.status = ?
		GROUP BY p.etapa_id, p.subetapa_id`,
		produtoId, s.TenantID, domain.ProducaoFinalizado).Scan(&aggs).Error
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, agg := range aggs {
			record := domain.MetricaEtapaProduto{}
			q := tx.Where("tenant_id = ? AND produto_id = ? AND etapa_id = ?", s.TenantID, produtoId, agg.EtapaID)
			if agg.SubetapaID != nil {
				q = q.Where("subetapa_id = ?", *agg.SubetapaID)
			} else {
				q = q.Where("subetapa_id IS NULL")
			}
			err := q.First(&record).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				record = domain.MetricaEtapaProduto{
					ID: idgen.NextID(idWorker), TenantID: s.TenantID,
					ProdutoID: produtoId, EtapaID: agg.EtapaID, SubetapaID: agg.SubetapaID,
				}
			}
			if agg.TotalQuantidade > 0 {
				record.TempoMedioPorPecaMinutos = agg.TotalMinutos / agg.TotalQuantidade
				record.CustoMedioPorPeca = agg.TotalCusto / agg.TotalQuantidade
			} else {
				record.TempoMedioPorPecaMinutos = 0
				record.CustoMedioPorPeca = 0
			}
			record.TotalProducoes = agg.TotalProducoes
			record.UpdateTime = types.CurrentTimestamp()
			if err := tx.Save(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
