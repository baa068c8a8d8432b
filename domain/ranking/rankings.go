package ranking

import (
	"sort"
	"time"

	"oficina/domain"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var (
	QueryRankingFunc = QueryRanking
	SaveMetaFunc     = SaveMeta
	QueryMetasFunc   = QueryMetas

	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
	nowFunc  = time.Now
)

type RankingQuery struct {
	Ano int `form:"ano" json:"ano"`
	Mes int `form:"mes" json:"mes" binding:"omitempty,gte=1,lte=12"`
}

// ItemRanking is the monthly scoreboard line of one collaborator.
type ItemRanking struct {
	Posicao int `json:"posicao"`

	ColaboradorID   types.ID `json:"colaboradorId"`
	ColaboradorNome string   `json:"colaboradorNome"`

	PecasProduzidas    float64 `json:"pecasProduzidas"`
	MinutosTrabalhados float64 `json:"minutosTrabalhados"`
	CustoTotal         float64 `json:"custoTotal"`
	PecasPorHora       float64 `json:"pecasPorHora"`

	PecasAlvo             float64 `json:"pecasAlvo"`
	AtingimentoPercentual float64 `json:"atingimentoPercentual"`
}

// QueryRanking aggregates the finalized production of one month per
// collaborator and matches it against that month's targets. Defaults to the
// current month.
func QueryRanking(query RankingQuery, s *session.Session) ([]ItemRanking, error) {
	agora := nowFunc()
	if query.Ano == 0 {
		query.Ano = agora.Year()
	}
	if query.Mes == 0 {
		query.Mes = int(agora.Month())
	}
	inicio := time.Date(query.Ano, time.Month(query.Mes), 1, 0, 0, 0, 0, time.Local)
	fim := inicio.AddDate(0, 1, 0)

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	type agregado struct {
		ColaboradorID   types.ID
		ColaboradorNome string
		Pecas           float64
		Minutos         float64
		Custo           float64
	}
	var aggs []agregado
	err := db.Raw(`SELECT colaborador_id, colaborador_nome,
			COALESCE(SUM(quantidade_produzida), 0) AS pecas,
			COALESCE(SUM(tempo_produtivo_minutos), 0) AS minutos,
			COALESCE(SUM(minutos_normais / 60 * colaborador_custo_hora
				+ minutos_extras / 60 * colaborador_custo_extra), 0) AS custo
		FROM producoes
		WHERE tenant_id = ? AND status = ? AND fim_time >= ? AND fim_time < ?
		GROUP BY colaborador_id, colaborador_nome`,
		s.TenantID, domain.ProducaoFinalizado, inicio, fim).Scan(&aggs).Error
	if err != nil {
		return nil, err
	}

	metas, err := QueryMetasFunc(query.Ano, query.Mes, s)
	if err != nil {
		return nil, err
	}
	alvos := map[types.ID]float64{}
	for _, m := range *metas {
		alvos[m.ColaboradorID] = m.PecasAlvo
	}

	itens := make([]ItemRanking, 0, len(aggs))
	for _, agg := range aggs {
		item := ItemRanking{
			ColaboradorID:   agg.ColaboradorID,
			ColaboradorNome: agg.ColaboradorNome,

			PecasProduzidas:    agg.Pecas,
			MinutosTrabalhados: agg.Minutos,
			CustoTotal:         agg.Custo,

			PecasAlvo: alvos[agg.ColaboradorID],
		}
		if agg.Minutos > 0 {
			item.PecasPorHora = agg.Pecas / (agg.Minutos / 60)
		}
		if item.PecasAlvo > 0 {
			item.AtingimentoPercentual = item.PecasProduzidas / item.PecasAlvo * 100
		}
		itens = append(itens, item)
	}

	Classificar(itens)
	return itens, nil
}

// Classificar orders the scoreboard by produced pieces, breaking ties by
// pieces per hour and then by name, and stamps positions starting at 1.
func Classificar(itens []ItemRanking) {
	sort.SliceStable(itens, func(i, j int) bool {
		if itens[i].PecasProduzidas != itens[j].PecasProduzidas {
			return itens[i].PecasProduzidas > itens[j].PecasProduzidas
		}
		if itens[i].PecasPorHora != itens[j].PecasPorHora {
			return itens[i].PecasPorHora > itens[j].PecasPorHora
		}
		return itens[i].ColaboradorNome < itens[j].ColaboradorNome
	})
	for i := range itens {
		itens[i].Posicao = i + 1
	}
}
