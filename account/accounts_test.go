package account_test

import (
	"os"
	"testing"

	"oficina/account"
	"oficina/authority"
	"oficina/bizerror"
	"oficina/persistence"
	"oficina/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestResetUserSecret(t *testing.T) {
	if os.Getenv("TEST_MYSQL_SERVICE") == "" {
		t.Skip("TEST_MYSQL_SERVICE is not set")
	}
	g := NewGomegaWithT(t)

	testDatabase := testinfra.StartMysqlTestDatabase("oficina")
	defer testinfra.StopMysqlTestDatabase(testDatabase)
	persistence.ActiveDataSourceManager = testDatabase.DS

	db := testDatabase.DS.GormDB(nil)
	g.Expect(db.AutoMigrate(&account.User{}).Error).To(BeNil())

	alvo := account.User{
		ID: 200, TenantID: 100,
		Name: "ana", Secret: account.HashSha256("original1"),
		Role: authority.RoleApontador, CreateTime: types.CurrentTimestamp(),
	}
	g.Expect(db.Create(&alvo).Error).To(BeNil())

	reload := func() account.User {
		u := account.User{}
		g.Expect(db.Where("id = ?", alvo.ID).First(&u).Error).To(BeNil())
		return u
	}

	// a manager resets a locked-out user without the old secret
	gestor := testinfra.BuildSession(100, authority.RoleGestor)
	err := account.ResetUserSecret(alvo.ID, &account.SecretResetting{NewSecret: "renovada1"}, gestor)
	g.Expect(err).To(BeNil())
	g.Expect(reload().Secret).To(Equal(account.HashSha256("renovada1")))

	// a worker may not reset anyone
	apontador := testinfra.BuildSession(100, authority.RoleApontador)
	err = account.ResetUserSecret(alvo.ID, &account.SecretResetting{NewSecret: "invasao1"}, apontador)
	g.Expect(err).To(Equal(bizerror.ErrForbidden))

	// a manager of another workshop cannot reach the user
	outroGestor := testinfra.BuildSession(999, authority.RoleGestor)
	err = account.ResetUserSecret(alvo.ID, &account.SecretResetting{NewSecret: "invasao1"}, outroGestor)
	g.Expect(err).To(Equal(bizerror.ErrNotFound))
	g.Expect(reload().Secret).To(Equal(account.HashSha256("renovada1")))

	// the system admin crosses workshop boundaries
	admin := testinfra.BuildSession(1, authority.RoleSystemAdmin)
	err = account.ResetUserSecret(alvo.ID, &account.SecretResetting{NewSecret: "denovo11"}, admin)
	g.Expect(err).To(BeNil())
	g.Expect(reload().Secret).To(Equal(account.HashSha256("denovo11")))

	// unknown user
	err = account.ResetUserSecret(types.ID(404), &account.SecretResetting{NewSecret: "qualquer1"}, gestor)
	g.Expect(err).To(Equal(bizerror.ErrNotFound))
}
