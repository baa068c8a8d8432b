package ajuste_test

import (
	"os"
	"testing"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/domain"
	"oficina/domain/ajuste"
	"oficina/event"
	"oficina/persistence"
	"oficina/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestPoliticaPadrao(t *testing.T) {
	g := NewGomegaWithT(t)

	g.Expect(ajuste.PoliticaPadrao.HorasPorColaborador).To(Equal(float64(15)))
	g.Expect(ajuste.PoliticaPadrao.HorasPorUnidade).To(Equal(0.76))
}

func TestAjustesLedger(t *testing.T) {
	if os.Getenv("TEST_MYSQL_SERVICE") == "" {
		t.Skip("TEST_MYSQL_SERVICE is not set")
	}
	g := NewGomegaWithT(t)

	testDatabase := testinfra.StartMysqlTestDatabase("oficina")
	defer testinfra.StopMysqlTestDatabase(testDatabase)
	persistence.ActiveDataSourceManager = testDatabase.DS

	db := testDatabase.DS.GormDB(nil)
	err := db.AutoMigrate(&domain.Previsao{}, &domain.Ajuste{}, &event.EventRecord{}).Error
	g.Expect(err).To(BeNil())

	tenantId := types.ID(100)
	s := testinfra.BuildSession(tenantId, authority.RoleGestor)

	previsao := domain.Previsao{
		ID: 500, TenantID: tenantId,
		DataDesejada:          types.CurrentTimestamp(),
		DataConclusaoPrevista: types.CurrentTimestamp(),
		HorasTotaisPrevistas:  40,
		ColaboradoresIDs:      domain.IDList{1, 2},
		ProdutosQuantidades:   domain.QuantidadeMap{"9": 10},
		Status:                domain.StatusEmAndamento,
		CreateTime:            types.CurrentTimestamp(),
	}
	g.Expect(db.Create(&previsao).Error).To(BeNil())

	reload := func() domain.Previsao {
		r := domain.Previsao{}
		g.Expect(db.Where("id = ?", previsao.ID).First(&r).Error).To(BeNil())
		return r
	}

	imprevisto, err := ajuste.RegistrarImprevisto(previsao.ID,
		&ajuste.ImprevistoCreating{Descricao: "maquina parada", Horas: 5}, s)
	g.Expect(err).To(BeNil())
	g.Expect(imprevisto.HorasDelta).To(Equal(float64(5)))
	g.Expect(reload().HorasAjustadas).To(BeNumerically("~", 5, 1e-9))

	// dropping one collaborator costs the policy hours
	_, err = ajuste.AjustarEquipe(previsao.ID, &ajuste.EquipeAjustando{ColaboradoresIDs: []types.ID{1}}, s)
	g.Expect(err).To(BeNil())
	atual := reload()
	g.Expect(atual.HorasAjustadas).To(BeNumerically("~", 20, 1e-9))
	g.Expect(atual.ColaboradoresIDs).To(Equal(domain.IDList{1}))

	// ten more units at the policy rate
	_, err = ajuste.AjustarQuantidade(previsao.ID,
		&ajuste.QuantidadeAjustando{ProdutoID: 9, QuantidadeDelta: 10}, s)
	g.Expect(err).To(BeNil())
	atual = reload()
	g.Expect(atual.HorasAjustadas).To(BeNumerically("~", 27.6, 1e-9))
	g.Expect(atual.ProdutosQuantidades["9"]).To(BeNumerically("~", 20, 1e-9))

	// cancelling the delay entry compensates it
	reversao, err := ajuste.ExcluirImprevisto(previsao.ID, imprevisto.ID, s)
	g.Expect(err).To(BeNil())
	g.Expect(reversao.HorasDelta).To(Equal(float64(-5)))
	g.Expect(*reversao.OrigemID).To(Equal(imprevisto.ID))
	g.Expect(reload().HorasAjustadas).To(BeNumerically("~", 22.6, 1e-9))

	// an entry cannot be cancelled twice
	_, err = ajuste.ExcluirImprevisto(previsao.ID, imprevisto.ID, s)
	g.Expect(err).To(Equal(bizerror.ErrStatusInvalido))

	ajustes, err := ajuste.QueryAjustes(previsao.ID, s)
	g.Expect(err).To(BeNil())
	g.Expect(len(*ajustes)).To(Equal(4))

	// closed forecasts reject adjustments
	g.Expect(db.Model(&domain.Previsao{}).Where("id = ?", previsao.ID).
		Update("status", domain.StatusConcluida).Error).To(BeNil())
	_, err = ajuste.RegistrarImprevisto(previsao.ID,
		&ajuste.ImprevistoCreating{Descricao: "tarde demais", Horas: 1}, s)
	g.Expect(err).To(Equal(bizerror.ErrPrevisaoEncerrada))
}
