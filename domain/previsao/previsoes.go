package previsao

import (
	"errors"
	"math"
	"time"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/domain"
	"oficina/domain/calendario"
	"oficina/domain/colaborador"
	"oficina/domain/produto"
	"oficina/event"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	SimularPrevisaoFunc = SimularPrevisao
	CreatePrevisaoFunc  = CreatePrevisao
	QueryPrevisoesFunc  = QueryPrevisoes
	DetailPrevisaoFunc  = DetailPrevisao
	UpdateStatusFunc    = UpdateStatus
	VincularLoteFunc    = VincularLote
	CronogramaFunc      = Cronograma
	LoadPrevisoesFunc   = LoadPrevisoes

	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
	nowFunc  = time.Now
)

type PrevisaoRequest struct {
	Itens            []ItemPrevisao  `json:"itens" binding:"required,min=1,dive"`
	ColaboradoresIDs []types.ID      `json:"colaboradoresIds" binding:"required"`
	DataDesejada     types.Timestamp `json:"dataDesejada" binding:"required"`
}

// SimularPrevisao loads the stage definitions and throughput history the
// request needs and runs the forecast core. A product that does not exist is
// a hard failure; a collaborator with no history only degrades the result.
func SimularPrevisao(req *PrevisaoRequest, s *session.Session) (*ResultadoCalculo, error) {
	entrada := EntradaCalculo{
		Itens:            req.Itens,
		ColaboradoresIDs: req.ColaboradoresIDs,
		EtapasPorProduto: map[types.ID][]produto.EtapaDetail{},
		DataDesejada:     time.Time(req.DataDesejada),
		Agora:            nowFunc(),
	}

	for _, item := range req.Itens {
		if _, loaded := entrada.EtapasPorProduto[item.ProdutoID]; loaded {
			continue
		}
		etapas, err := produto.QueryEtapasProdutoFunc(item.ProdutoID, s)
		if err != nil {
			return nil, err
		}
		entrada.EtapasPorProduto[item.ProdutoID] = etapas
	}

	rendimentos, err := colaborador.QueryRendimentosFunc(
		colaborador.RendimentoQuery{ColaboradoresIDs: req.ColaboradoresIDs}, s)
	if err != nil {
		return nil, err
	}
	entrada.Rendimentos = *rendimentos

	return CalcularPrevisao(entrada), nil
}

type PrevisaoDetail struct {
	domain.Previsao

	HorasEfetivas       float64 `json:"horasEfetivas"`
	HorasReais          float64 `json:"horasReais"`
	ProgressoPercentual float64 `json:"progressoPercentual"`
}

// CreatePrevisao runs the forecast and saves it as an order candidate. The
// headline numbers are frozen on the record; later adjustments move
// HorasAjustadas through the ledger, never these fields.
func CreatePrevisao(req *PrevisaoRequest, s *session.Session) (*PrevisaoDetail, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	resultado, err := SimularPrevisaoFunc(req, s)
	if err != nil {
		return nil, err
	}

	quantidades := domain.QuantidadeMap{}
	for _, item := range req.Itens {
		quantidades[item.ProdutoID.String()] += item.Quantidade
	}

	record := domain.Previsao{
		ID:       idgen.NextID(idWorker),
		TenantID: s.TenantID,

		DataDesejada:          req.DataDesejada,
		DataConclusaoPrevista: types.Timestamp(resultado.DataConclusaoPrevista),

		HorasTotaisPrevistas: resultado.HorasTotais,

		ColaboradoresIDs:    domain.IDList(req.ColaboradoresIDs),
		ProdutosQuantidades: quantidades,

		PrecisaHoraExtra: resultado.PrecisaHoraExtra,
		HoraExtraPorDia:  resultado.HoraExtraPorDia,

		Status: domain.StatusEmAndamento,

		CriadorID:   s.Identity.ID,
		CriadorNome: s.Identity.Nickname,
		CreateTime:  types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var ev *event.EventRecord
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypePrevisao, record.ID, record.ID.String(),
			event.EventCategoryCreated, nil, s, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	event.InvokeHandlersFunc(ev)

	return &PrevisaoDetail{Previsao: record, HorasEfetivas: record.HorasEfetivas()}, nil
}

type PrevisaoQuery struct {
	Status string `form:"status" json:"status"`
}

func QueryPrevisoes(query PrevisaoQuery, s *session.Session) (*[]domain.Previsao, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Where(&domain.Previsao{TenantID: s.TenantID})
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	var records []domain.Previsao
	if err := q.Order("create_time DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

// DetailPrevisao renders one forecast with the effective total and, once a
// lot is linked, the hours actually spent so far.
func DetailPrevisao(id types.ID, s *session.Session) (*PrevisaoDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Previsao{}
	if err := db.Where(&domain.Previsao{ID: id, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	detail := PrevisaoDetail{Previsao: record, HorasEfetivas: record.HorasEfetivas()}
	if record.LoteID != nil {
		minutos := struct{ Total float64 }{}
		err := db.Model(&domain.Producao{}).
			Select("COALESCE(SUM(tempo_produtivo_minutos),0) as total").
			Where("tenant_id = ? AND lote_id = ? AND status IN (?)", s.TenantID, *record.LoteID,
				[]string{domain.ProducaoFinalizado, domain.ProducaoEmAberto}).
			Scan(&minutos).Error
		if err != nil {
			return nil, err
		}
		detail.HorasReais = minutos.Total / 60
	}
	if detail.HorasEfetivas > 0 {
		detail.ProgressoPercentual = math.Min(detail.HorasReais/detail.HorasEfetivas*100, 100)
	}
	return &detail, nil
}

type StatusUpdating struct {
	Status string `json:"status" binding:"required,oneof=concluida cancelada"`
}

// UpdateStatus closes a forecast. Closed forecasts reject adjustments.
func UpdateStatus(id types.ID, u *StatusUpdating, s *session.Session) (*domain.Previsao, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Previsao{}
	if err := db.Where(&domain.Previsao{ID: id, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if record.Status != domain.StatusEmAndamento {
		return nil, bizerror.ErrStatusInvalido
	}

	statusAnterior := record.Status
	record.Status = u.Status

	var ev *event.EventRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		// guarded on the open status, so concurrent closes cannot both win
		q := tx.Model(&domain.Previsao{}).
			Where("id = ? AND tenant_id = ? AND status = ?", record.ID, s.TenantID, domain.StatusEmAndamento).
			Update("status", record.Status)
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected != 1 {
			return bizerror.ErrStatusInvalido
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypePrevisao, record.ID, record.ID.String(),
			event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "status", PropertyDesc: "Status",
				OldValue: statusAnterior, OldValueDesc: statusAnterior,
				NewValue: record.Status, NewValueDesc: record.Status,
			}}, s, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	event.InvokeHandlersFunc(ev)
	return &record, nil
}

type LoteVinculando struct {
	LoteID types.ID `json:"loteId" binding:"required"`
}

// VincularLote links the production lot that realizes a forecast, enabling
// planned-versus-actual reporting.
func VincularLote(id types.ID, v *LoteVinculando, s *session.Session) (*domain.Previsao, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Previsao{}
	if err := db.Where(&domain.Previsao{ID: id, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if record.Status != domain.StatusEmAndamento {
		return nil, bizerror.ErrPrevisaoEncerrada
	}

	lote := domain.Lote{}
	if err := db.Where(&domain.Lote{ID: v.LoteID, TenantID: s.TenantID}).First(&lote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	q := db.Model(&domain.Previsao{}).
		Where("id = ? AND tenant_id = ? AND status = ?", record.ID, s.TenantID, domain.StatusEmAndamento).
		Update("lote_id", lote.ID)
	if q.Error != nil {
		return nil, q.Error
	}
	if q.RowsAffected != 1 {
		return nil, bizerror.ErrPrevisaoEncerrada
	}
	record.LoteID = &lote.ID
	return &record, nil
}

// Cronograma spreads the effective forecast hours over the tenant calendar
// starting now, day by day.
func Cronograma(id types.ID, s *session.Session) (*calendario.Cronograma, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Previsao{}
	if err := db.Where(&domain.Previsao{ID: id, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	cal, err := calendario.DetailCalendarioFunc(s)
	if err != nil {
		return nil, err
	}
	return calendario.CalcularCronograma(record.HorasEfetivas()*60, cal, nowFunc()), nil
}

// LoadPrevisoes pages through forecasts of every tenant in id order. The
// search index full sync feeds on it.
func LoadPrevisoes(lastId types.ID, size int) ([]domain.Previsao, error) {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []domain.Previsao
	if err := db.Where("id > ?", lastId).Order("id ASC").Limit(size).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
