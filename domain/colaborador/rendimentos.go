package colaborador

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
	QueryRendimentosFunc    = QueryRendimentos
	AtualizarRendimentoFunc = AtualizarRendimento
)

type RendimentoQuery struct {
	ColaboradoresIDs []types.ID `form:"colaboradorId" json:"colaboradoresIds"`
	EtapaID          *types.ID  `form:"etapaId" json:"etapaId"`
}

// QueryRendimentos is the throughput feed of the forecaster: per-collaborator,
// per-stage average minutes per unit.
func QueryRendimentos(query RendimentoQuery, s *session.Session) (*[]domain.Rendimento, error) {
	records := []domain.Rendimento{}
	if len(query.ColaboradoresIDs) == 0 {
		return &records, nil
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Where("tenant_id = ? AND colaborador_id IN (?)", s.TenantID, query.ColaboradoresIDs)
	if query.EtapaID != nil {
		q = q.Where("etapa_id = ?", *query.EtapaID)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

// AtualizarRendimento recomputes one collaborator/stage average from the
// finalized production records. Called whenever a work session finalizes.
func AtualizarRendimento(colaboradorId, etapaId types.ID, subetapaId *types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	type agregado struct {
		TotalMinutos    float64
		TotalQuantidade float64
		TotalProducoes  int
	}
	agg := agregado{}
	q := db.Model(&domain.Producao{}).
		Select("COALESCE(SUM(tempo_produtivo_minutos),0) as total_minutos, COALESCE(SUM(quantidade_produzida),0) as total_quantidade, COUNT(*) as total_producoes").
		Where("tenant_id = ? AND colaborador_id = ? AND etapa_id = ? AND status = ?",
			s.TenantID, colaboradorId, etapaId, domain.ProducaoFinalizado)
	if subetapaId != nil {
		q = q.Where("subetapa_id = ?", *subetapaId)
	} else {
		q = q.Where("subetapa_id IS NULL")
	}
	if err := q.Scan(&agg).Error; err != nil {
		return err
	}

	tempoMedio := 0.0
	if agg.TotalQuantidade > 0 {
		tempoMedio = agg.TotalMinutos / agg.TotalQuantidade
	}

	return db.Transaction(func(tx *gorm.DB) error {
		record := domain.Rendimento{}
		q := tx.Where("tenant_id = ? AND colaborador_id = ? AND etapa_id = ?", s.TenantID, colaboradorId, etapaId)
		if subetapaId != nil {
			q = q.Where("subetapa_id = ?", *subetapaId)
		} else {
			q = q.Where("subetapa_id IS NULL")
		}
		err := q.First(&record).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = domain.Rendimento{
				ID: idgen.NextID(idWorker), TenantID: s.TenantID,
				ColaboradorID: colaboradorId, EtapaID: etapaId, SubetapaID: subetapaId,
			}
		}
		record.TempoMedioPorPecaMinutos = tempoMedio
		record.TotalProducoes = agg.TotalProducoes
		record.UpdateTime = types.CurrentTimestamp()
		return tx.Save(&record).Error
	})
}
