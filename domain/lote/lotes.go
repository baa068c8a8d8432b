package lote

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
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	CreateLoteFunc            = CreateLote
	QueryLotesFunc            = QueryLotes
	DetailLoteFunc            = DetailLote
	FinalizarLoteFunc         = FinalizarLote
	IniciarProducaoFunc       = IniciarProducao
	FinalizarProducaoFunc     = FinalizarProducao
	QueryProducoesDetalheFunc = QueryProducoesDetalhe

	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
	nowFunc  = time.Now
)

type LoteCreating struct {
	Codigo          string   `json:"codigo" binding:"required,lte=64"`
	ProdutoID       types.ID `json:"produtoId" binding:"required"`
	QuantidadeTotal float64  `json:"quantidadeTotal" binding:"required,gt=0"`
}

func CreateLote(c *LoteCreating, s *session.Session) (*domain.Lote, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	p := domain.Produto{}
	if err := db.Where(&domain.Produto{ID: c.ProdutoID, TenantID: s.TenantID}).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrProdutoNotFound
		}
		return nil, err
	}

	record := domain.Lote{
		ID:       idgen.NextID(idWorker),
		TenantID: s.TenantID,

		Codigo:          c.Codigo,
		ProdutoID:       c.ProdutoID,
		QuantidadeTotal: c.QuantidadeTotal,
		Status:          domain.StatusEmAndamento,

		CreateTime: types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypeLote, record.ID, record.Codigo,
			event.EventCategoryCreated, nil, s, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	event.InvokeHandlersFunc(ev)
	return &record, nil
}

type LoteQuery struct {
	Status    string    `form:"status" json:"status"`
	ProdutoID *types.ID `form:"produtoId" json:"produtoId"`
}

func QueryLotes(query LoteQuery, s *session.Session) (*[]domain.Lote, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Where(&domain.Lote{TenantID: s.TenantID})
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.ProdutoID != nil {
		q = q.Where("produto_id = ?", *query.ProdutoID)
	}
	var records []domain.Lote
	if err := q.Order("create_time DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

type LoteDetail struct {
	domain.Lote

	ProdutoNome string           `json:"produtoNome"`
	Progresso   []ProgressoEtapa `json:"progresso"`
	HorasReais  float64          `json:"horasReais"`
}

// DetailLote renders a lot with its per-stage progress. Stage definitions
// deleted after production started surface as orphan buckets rather than
// breaking the report.
func DetailLote(id types.ID, s *session.Session) (*LoteDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Lote{}
	if err := db.Where(&domain.Lote{ID: id, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	detail := LoteDetail{Lote: record}

	p := domain.Produto{}
	if err := db.Where(&domain.Produto{ID: record.ProdutoID, TenantID: s.TenantID}).First(&p).Error; err == nil {
		detail.ProdutoNome = p.Nome
	}

	etapas, err := produto.QueryEtapasProdutoFunc(record.ProdutoID, s)
	if err != nil {
		if !errors.Is(err, bizerror.ErrProdutoNotFound) {
			return nil, err
		}
		etapas = []produto.EtapaDetail{}
	}

	producoes, err := QueryProducoesDetalheFunc(id, s)
	if err != nil {
		return nil, err
	}

	detail.Progresso = AgruparProgresso(producoes, record.QuantidadeTotal, etapas)
	for _, pe := range detail.Progresso {
		detail.HorasReais += pe.TempoTotal / 60
	}
	return &detail, nil
}

// QueryProducoesDetalhe loads the production records of a lot joined with
// stage names. LEFT JOINs keep records whose stage was deleted afterwards.
func QueryProducoesDetalhe(loteId types.ID, s *session.Session) ([]domain.ProducaoDetalhe, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []domain.ProducaoDetalhe
	err := db.Raw(`SELECT p.*,
			COALESCE(e.nome, '') AS etapa_nome, COALESCE(e.ordem, 0) AS etapa_ordem,
			se.nome AS subetapa_nome
		FROM producoes p
		LEFT JOIN etapas e ON p.etapa_id = e.id
		LEFT JOIN subetapas se ON p.subetapa_id = se.id
		WHERE p.lote_id = ? AND p.tenant_id = ?
		ORDER BY p.inicio_time ASC, p.id ASC`, loteId, s.TenantID).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

type ProducaoCreating struct {
	LoteID        types.ID  `json:"loteId" binding:"required"`
	EtapaID       types.ID  `json:"etapaId" binding:"required"`
	SubetapaID    *types.ID `json:"subetapaId"`
	ColaboradorID types.ID  `json:"colaboradorId" binding:"required"`
}

// IniciarProducao opens a work session of one collaborator on one stage of a
// lot. A collaborator holds at most one open session per stage of a lot.
func IniciarProducao(c *ProducaoCreating, s *session.Session) (*domain.Producao, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	lote := domain.Lote{}
	if err := db.Where(&domain.Lote{ID: c.LoteID, TenantID: s.TenantID}).First(&lote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if lote.Status != domain.StatusEmAndamento {
		return nil, bizerror.ErrLoteEncerrado
	}

	col := domain.Colaborador{}
	if err := db.Where(&domain.Colaborador{ID: c.ColaboradorID, TenantID: s.TenantID}).First(&col).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	abertas := 0
	q := db.Model(&domain.Producao{}).
		Where("tenant_id = ? AND lote_id = ? AND etapa_id = ? AND colaborador_id = ? AND status = ?",
			s.TenantID, c.LoteID, c.EtapaID, c.ColaboradorID, domain.ProducaoEmAberto)
	if c.SubetapaID != nil {
		q = q.Where("subetapa_id = ?", *c.SubetapaID)
	} else {
		q = q.Where("subetapa_id IS NULL")
	}
	if err := q.Count(&abertas).Error; err != nil {
		return nil, err
	}
	if abertas > 0 {
		return nil, bizerror.ErrProducaoEmAberto
	}

	record := domain.Producao{
		ID:       idgen.NextID(idWorker),
		TenantID: s.TenantID,
		LoteID:   c.LoteID,

		EtapaID:    c.EtapaID,
		SubetapaID: c.SubetapaID,

		ColaboradorID:         col.ID,
		ColaboradorNome:       col.Nome,
		ColaboradorCustoHora:  col.CustoHora,
		ColaboradorCustoExtra: col.CustoHoraExtra,

		Status:     domain.ProducaoEmAberto,
		InicioTime: types.Timestamp(nowFunc()),
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

type ProducaoFinishing struct {
	QuantidadeProduzida float64 `json:"quantidadeProduzida" binding:"gte=0"`
}

// FinalizarProducao closes a work session, stamping the produced quantity and
// the elapsed minutes. Minutes beyond the calendar capacity of the start day
// count as overtime. The collaborator's throughput average is refreshed
// afterwards.
func FinalizarProducao(id types.ID, f *ProducaoFinishing, s *session.Session) (*domain.Producao, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	record := domain.Producao{}
	if err := db.Where(&domain.Producao{ID: id, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if record.Status != domain.ProducaoEmAberto {
		return nil, bizerror.ErrStatusInvalido
	}

	cal, err := calendario.DetailCalendarioFunc(s)
	if err != nil {
		return nil, err
	}

	fim := nowFunc()
	inicio := time.Time(record.InicioTime)
	tempo := fim.Sub(inicio).Minutes()
	if tempo < 0 {
		tempo = 0
	}
	normais := math.Min(tempo, cal.CapacidadeDia(inicio.Weekday()))

	record.QuantidadeProduzida = f.QuantidadeProduzida
	record.TempoProdutivoMinutos = tempo
	record.MinutosNormais = normais
	record.MinutosExtras = tempo - normais
	record.Status = domain.ProducaoFinalizado
	record.FimTime = types.Timestamp(fim)

	if err := db.Save(&record).Error; err != nil {
		return nil, err
	}

	if err := colaborador.AtualizarRendimentoFunc(record.ColaboradorID, record.EtapaID, record.SubetapaID, s); err != nil {
		logrus.Warnln("failed to refresh rendimento of colaborador", record.ColaboradorID, err)
	}
	return &record, nil
}

type LoteFinishing struct {
	Status string `json:"status" binding:"required,oneof=concluida cancelada"`
}

// FinalizarLote closes a lot. Open work sessions must be finalized first.
// Completing a lot refreshes the product's historical stage metrics.
func FinalizarLote(id types.ID, f *LoteFinishing, s *session.Session) (*domain.Lote, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Lote{}
	if err := db.Where(&domain.Lote{ID: id, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if record.Status != domain.StatusEmAndamento {
		return nil, bizerror.ErrStatusInvalido
	}

	abertas := 0
	if err := db.Model(&domain.Producao{}).
		Where("tenant_id = ? AND lote_id = ? AND status = ?", s.TenantID, id, domain.ProducaoEmAberto).
		Count(&abertas).Error; err != nil {
		return nil, err
	}
	if abertas > 0 {
		return nil, bizerror.ErrProducaoEmAberto
	}

	statusAnterior := record.Status
	record.Status = f.Status
	record.FimTime = types.CurrentTimestamp()

	var ev *event.EventRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Lote{ID: record.ID}).
			Updates(map[string]interface{}{"status": record.Status, "fim_time": record.FimTime}).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypeLote, record.ID, record.Codigo,
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

	if record.Status == domain.StatusConcluida {
		if err := produto.RecalcularMetricasFunc(record.ProdutoID, s); err != nil {
			logrus.Warnln("failed to refresh metricas of produto", record.ProdutoID, err)
		}
	}
	return &record, nil
}
