package ajuste

import (
	"errors"
	"fmt"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/common"
	"oficina/domain"
	"oficina/event"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	QueryAjustesFunc        = QueryAjustes
	RegistrarImprevistoFunc = RegistrarImprevisto
	ExcluirImprevistoFunc   = ExcluirImprevisto
	AjustarEquipeFunc       = AjustarEquipe
	AjustarQuantidadeFunc   = AjustarQuantidade

	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

// PoliticaAjuste holds the commercial conversion rates between disruptive
// events and forecast hours. Rates are tenant policy, not physics; keeping
// them in one place makes renegotiation a one-line change.
type PoliticaAjuste struct {
	HorasPorColaborador float64
	HorasPorUnidade     float64
}

var PoliticaPadrao = PoliticaAjuste{
	HorasPorColaborador: 15,
	HorasPorUnidade:     0.76,
}

func QueryAjustes(previsaoId types.ID, s *session.Session) (*[]domain.Ajuste, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []domain.Ajuste
	if err := db.Where(&domain.Ajuste{TenantID: s.TenantID, PrevisaoID: previsaoId}).
		Order("create_time ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

type ImprevistoCreating struct {
	Descricao string  `json:"descricao" binding:"required,lte=512"`
	Horas     float64 `json:"horas" binding:"required,gt=0"`
}

// RegistrarImprevisto appends a manual delay entry (machine down, rework,
// absence) to the ledger of an open forecast.
func RegistrarImprevisto(previsaoId types.ID, c *ImprevistoCreating, s *session.Session) (*domain.Ajuste, error) {
	return aplicarAjuste(previsaoId, domain.AjusteImprevisto, c.Descricao, c.Horas, nil, nil, s)
}

// ExcluirImprevisto cancels a ledger entry by appending the compensating
// entry. The cached total moves back by the same amount in the same
// transaction.
func ExcluirImprevisto(previsaoId, ajusteId types.ID, s *session.Session) (*domain.Ajuste, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	origem := domain.Ajuste{}
	if err := db.Where(&domain.Ajuste{ID: ajusteId, TenantID: s.TenantID, PrevisaoID: previsaoId}).
		First(&origem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if origem.Tipo == domain.AjusteExclusao {
		return nil, bizerror.ErrStatusInvalido
	}

	jaExcluido := 0
	if err := db.Model(&domain.Ajuste{}).
		Where("tenant_id = ? AND origem_id = ?", s.TenantID, origem.ID).
		Count(&jaExcluido).Error; err != nil {
		return nil, err
	}
	if jaExcluido > 0 {
		return nil, bizerror.ErrStatusInvalido
	}

	descricao := fmt.Sprintf("exclusao de ajuste: %s", origem.Descricao)
	return aplicarAjuste(previsaoId, domain.AjusteExclusao, descricao, -origem.HorasDelta, &origem.ID, nil, s)
}

type EquipeAjustando struct {
	ColaboradoresIDs []types.ID `json:"colaboradoresIds" binding:"required"`
}

// AjustarEquipe replaces the forecast team. Each collaborator removed adds
// the policy hours to the forecast, each one added subtracts them.
func AjustarEquipe(previsaoId types.ID, a *EquipeAjustando, s *session.Session) (*domain.Ajuste, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Previsao{}
	if err := db.Where(&domain.Previsao{ID: previsaoId, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	nova := domain.IDList(a.ColaboradoresIDs)
	removidos, adicionados := 0, 0
	for _, id := range record.ColaboradoresIDs {
		if !nova.Contains(id) {
			removidos++
		}
	}
	for _, id := range nova {
		if !record.ColaboradoresIDs.Contains(id) {
			adicionados++
		}
	}
	if removidos == 0 && adicionados == 0 {
		return nil, &common.ErrBadParam{Cause: errors.New("equipe inalterada")}
	}

	delta := float64(removidos-adicionados) * PoliticaPadrao.HorasPorColaborador
	descricao := fmt.Sprintf("equipe alterada: %d removido(s), %d adicionado(s)", removidos, adicionados)
	extra := map[string]interface{}{"colaboradores_ids": nova}
	return aplicarAjuste(previsaoId, domain.AjusteEquipe, descricao, delta, nil, extra, s)
}

type QuantidadeAjustando struct {
	ProdutoID       types.ID `json:"produtoId" binding:"required"`
	QuantidadeDelta float64  `json:"quantidadeDelta" binding:"required"`
}

// AjustarQuantidade moves the ordered quantity of one product and converts
// the difference to forecast hours at the policy rate.
func AjustarQuantidade(previsaoId types.ID, a *QuantidadeAjustando, s *session.Session) (*domain.Ajuste, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Previsao{}
	if err := db.Where(&domain.Previsao{ID: previsaoId, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	chave := a.ProdutoID.String()
	quantidades := domain.QuantidadeMap{}
	for k, v := range record.ProdutosQuantidades {
		quantidades[k] = v
	}
	if quantidades[chave]+a.QuantidadeDelta < 0 {
		return nil, &common.ErrBadParam{Cause: errors.New("quantidade resultante negativa")}
	}
	quantidades[chave] += a.QuantidadeDelta

	delta := a.QuantidadeDelta * PoliticaPadrao.HorasPorUnidade
	descricao := fmt.Sprintf("quantidade do produto %s alterada em %+g", chave, a.QuantidadeDelta)
	extra := map[string]interface{}{"produtos_quantidades": quantidades}
	return aplicarAjuste(previsaoId, domain.AjusteQuantidade, descricao, delta, nil, extra, s)
}

// aplicarAjuste appends the ledger entry and moves the cached total by the
// same delta with a relative update, in one transaction. The update is
// guarded on the open status, so a forecast closed by a concurrent request
// cannot be adjusted afterwards.
func aplicarAjuste(previsaoId types.ID, tipo, descricao string, horasDelta float64,
	origemId *types.ID, extraChanges map[string]interface{}, s *session.Session) (*domain.Ajuste, error) {

	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	entrada := domain.Ajuste{
		ID:         idgen.NextID(idWorker),
		TenantID:   s.TenantID,
		PrevisaoID: previsaoId,

		Tipo:       tipo,
		Descricao:  descricao,
		HorasDelta: horasDelta,
		OrigemID:   origemId,

		CriadorID:   s.Identity.ID,
		CriadorNome: s.Identity.Nickname,
		CreateTime:  types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var ev *event.EventRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		changes := map[string]interface{}{
			"horas_ajustadas": gorm.Expr("horas_ajustadas + ?", horasDelta),
		}
		for column, value := range extraChanges {
			changes[column] = value
		}
		q := tx.Model(&domain.Previsao{}).
			Where("id = ? AND tenant_id = ? AND status = ?", previsaoId, s.TenantID, domain.StatusEmAndamento).
			Updates(changes)
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected != 1 {
			exists := 0
			if err := tx.Model(&domain.Previsao{}).
				Where("id = ? AND tenant_id = ?", previsaoId, s.TenantID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return bizerror.ErrNotFound
			}
			return bizerror.ErrPrevisaoEncerrada
		}

		if err := tx.Create(&entrada).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypePrevisao, previsaoId, previsaoId.String(),
			event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "horasAjustadas", PropertyDesc: "Horas Ajustadas",
				NewValue: fmt.Sprintf("%+g", horasDelta), NewValueDesc: descricao,
			}}, s, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	event.InvokeHandlersFunc(ev)
	return &entrada, nil
}
