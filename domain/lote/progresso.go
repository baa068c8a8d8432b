package lote

import (
	"fmt"
	"math"
	"sort"

	"oficina/domain"
	"oficina/domain/produto"

	"github.com/fundwit/go-commons/types"
)

// ProgressoEtapa is the rolled-up progress of one stage (or one sub-stage)
// of a lot. Orfa marks buckets created for records whose stage definition no
// longer exists; they are rendered from the record's own joined names.
type ProgressoEtapa struct {
	EtapaID      types.ID  `json:"etapaId"`
	SubetapaID   *types.ID `json:"subetapaId"`
	EtapaNome    string    `json:"etapaNome"`
	SubetapaNome *string   `json:"subetapaNome"`
	Ordem        int       `json:"ordem"`
	Orfa         bool      `json:"orfa"`

	QuantidadeProduzida float64 `json:"quantidadeProduzida"`
	QuantidadeTotal     float64 `json:"quantidadeTotal"`
	Percentual          int     `json:"percentual"`

	TempoTotal  float64 `json:"tempoTotal"`
	TempoNormal float64 `json:"tempoNormal"`
	TempoExtra  float64 `json:"tempoExtra"`

	CustoNormal float64 `json:"custoNormal"`
	CustoExtra  float64 `json:"custoExtra"`
	CustoTotal  float64 `json:"custoTotal"`

	Colaboradores []string `json:"colaboradores"`
	Status        string   `json:"status"`

	colaboradores map[string]bool
	seq           int
}

func chaveEtapa(etapaId types.ID, subetapaId *types.ID) string {
	if subetapaId == nil {
		return fmt.Sprintf("%d/main", etapaId)
	}
	return fmt.Sprintf("%d/%d", etapaId, *subetapaId)
}

// AgruparProgresso rolls raw production records up into per-stage progress.
// It is a pure function: every defined stage appears in the output even with
// zero production, records referencing unknown stages get an orphan bucket,
// and malformed rows degrade to zero values instead of failing.
//
// Cost accrues for every record with registered minutes, including sessions
// still em_aberto; quantity and time accrue only for finalizado/em_aberto
// records, trusting the record's own quantidade.
func AgruparProgresso(producoes []domain.ProducaoDetalhe, quantidadeTotal float64, etapas []produto.EtapaDetail) []ProgressoEtapa {
	buckets := map[string]*ProgressoEtapa{}
	seq := 0

	seed := func(p ProgressoEtapa) {
		p.QuantidadeTotal = quantidadeTotal
		p.Colaboradores = []string{}
		p.colaboradores = map[string]bool{}
		p.seq = seq
		seq++
		buckets[chaveEtapa(p.EtapaID, p.SubetapaID)] = &p
	}

	for _, etapa := range etapas {
		if len(etapa.Subetapas) == 0 {
			seed(ProgressoEtapa{EtapaID: etapa.ID, EtapaNome: etapa.Nome, Ordem: etapa.Ordem})
			continue
		}
		for i := range etapa.Subetapas {
			sub := etapa.Subetapas[i]
			subId, subNome := sub.ID, sub.Nome
			seed(ProgressoEtapa{
				EtapaID: etapa.ID, SubetapaID: &subId,
				EtapaNome: etapa.Nome, SubetapaNome: &subNome,
				Ordem: etapa.Ordem,
			})
		}
	}

	for i := range producoes {
		p := &producoes[i]
		bucket, found := buckets[chaveEtapa(p.EtapaID, p.SubetapaID)]
		if !found {
			// stage definition deleted after the record was written
			orfa := ProgressoEtapa{
				EtapaID: p.EtapaID, SubetapaID: p.SubetapaID,
				EtapaNome: p.EtapaNome, SubetapaNome: p.SubetapaNome,
				Ordem: p.EtapaOrdem, Orfa: true,
			}
			seed(orfa)
			bucket = buckets[chaveEtapa(p.EtapaID, p.SubetapaID)]
		}

		// labor already spent costs money even while the session is open
		if p.MinutosNormais > 0 || p.MinutosExtras > 0 {
			bucket.CustoNormal += p.MinutosNormais / 60 * p.ColaboradorCustoHora
			bucket.CustoExtra += p.MinutosExtras / 60 * p.ColaboradorCustoExtra
		}

		if p.Status == domain.ProducaoFinalizado || p.Status == domain.ProducaoEmAberto {
			bucket.QuantidadeProduzida += p.QuantidadeProduzida
			bucket.TempoNormal += p.MinutosNormais
			bucket.TempoExtra += p.MinutosExtras
			bucket.TempoTotal += p.MinutosNormais + p.MinutosExtras

			if p.ColaboradorNome != "" && !bucket.colaboradores[p.ColaboradorNome] {
				bucket.colaboradores[p.ColaboradorNome] = true
				bucket.Colaboradores = append(bucket.Colaboradores, p.ColaboradorNome)
			}
		}
	}

	result := make([]ProgressoEtapa, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.CustoTotal = bucket.CustoNormal + bucket.CustoExtra
		if bucket.QuantidadeTotal > 0 {
			bucket.Percentual = int(math.Round(bucket.QuantidadeProduzida / bucket.QuantidadeTotal * 100))
		}
		switch {
		case bucket.Percentual >= 100:
			bucket.Status = domain.ProgressoConcluida
		case bucket.QuantidadeProduzida > 0 || len(bucket.Colaboradores) > 0:
			bucket.Status = domain.ProgressoEmAndamento
		default:
			bucket.Status = domain.ProgressoPendente
		}
		sort.Strings(bucket.Colaboradores)
		result = append(result, *bucket)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Ordem != result[j].Ordem {
			return result[i].Ordem < result[j].Ordem
		}
		return result[i].seq < result[j].seq
	})
	return result
}
