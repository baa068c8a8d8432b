package previsao_test

import (
	"os"
	"testing"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/domain"
	"oficina/domain/previsao"
	"oficina/event"
	"oficina/persistence"
	"oficina/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestUpdateStatusEVinculoDeLote(t *testing.T) {
	if os.Getenv("TEST_MYSQL_SERVICE") == "" {
		t.Skip("TEST_MYSQL_SERVICE is not set")
	}
	g := NewGomegaWithT(t)

	testDatabase := testinfra.StartMysqlTestDatabase("oficina")
	defer testinfra.StopMysqlTestDatabase(testDatabase)
	persistence.ActiveDataSourceManager = testDatabase.DS

	db := testDatabase.DS.GormDB(nil)
	err := db.AutoMigrate(&domain.Previsao{}, &domain.Lote{}, &event.EventRecord{}).Error
	g.Expect(err).To(BeNil())

	tenantId := types.ID(100)
	s := testinfra.BuildSession(tenantId, authority.RoleGestor)

	record := domain.Previsao{
		ID: 700, TenantID: tenantId,
		DataDesejada:          types.CurrentTimestamp(),
		DataConclusaoPrevista: types.CurrentTimestamp(),
		HorasTotaisPrevistas:  10,
		ColaboradoresIDs:      domain.IDList{1},
		ProdutosQuantidades:   domain.QuantidadeMap{"9": 10},
		Status:                domain.StatusEmAndamento,
		CreateTime:            types.CurrentTimestamp(),
	}
	g.Expect(db.Create(&record).Error).To(BeNil())

	fechada, err := previsao.UpdateStatus(record.ID, &previsao.StatusUpdating{Status: domain.StatusConcluida}, s)
	g.Expect(err).To(BeNil())
	g.Expect(fechada.Status).To(Equal(domain.StatusConcluida))

	// the status update is guarded on the open status, so a close that lost
	// the race is rejected instead of overwriting the winner
	_, err = previsao.UpdateStatus(record.ID, &previsao.StatusUpdating{Status: domain.StatusCancelada}, s)
	g.Expect(err).To(Equal(bizerror.ErrStatusInvalido))

	atual := domain.Previsao{}
	g.Expect(db.Where("id = ?", record.ID).First(&atual).Error).To(BeNil())
	g.Expect(atual.Status).To(Equal(domain.StatusConcluida))

	// only the winning close left an audit event
	eventos := 0
	g.Expect(db.Model(&event.EventRecord{}).
		Where("source_type = ? AND source_id = ?", event.SourceTypePrevisao, record.ID).
		Count(&eventos).Error).To(BeNil())
	g.Expect(eventos).To(Equal(1))

	// a closed forecast cannot be linked to a lot anymore
	lote := domain.Lote{ID: 800, TenantID: tenantId, Codigo: "L-800", ProdutoID: 9,
		QuantidadeTotal: 10, Status: domain.StatusEmAndamento, CreateTime: types.CurrentTimestamp()}
	g.Expect(db.Create(&lote).Error).To(BeNil())
	_, err = previsao.VincularLote(record.ID, &previsao.LoteVinculando{LoteID: lote.ID}, s)
	g.Expect(err).To(Equal(bizerror.ErrPrevisaoEncerrada))
}
