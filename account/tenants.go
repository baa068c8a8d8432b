package account

import (
	"errors"
	"os"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/domain"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

type OficinaCreation struct {
	Nome       string `json:"nome" binding:"required,lte=128"`
	Identifier string `json:"identifier" binding:"required,lte=32"`

	GestorName   string `json:"gestorName" binding:"required,lte=32"`
	GestorSecret string `json:"gestorSecret" binding:"required,gte=6,lte=32"`
}

// CreateOficina provisions a workshop with its first manager account.
func CreateOficina(c *OficinaCreation, s *session.Session) (*domain.Oficina, error) {
	if !s.Perms.HasRole(authority.RoleSystemAdmin) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	existing := 0
	if err := db.Model(&User{}).Where("name = ?", c.GestorName).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, bizerror.ErrUserNameUsed
	}

	record := domain.Oficina{
		ID:         idgen.NextID(userIdWorker),
		Nome:       c.Nome,
		Identifier: c.Identifier,
		CreateTime: types.CurrentTimestamp(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		gestor := User{
			ID:       idgen.NextID(userIdWorker),
			TenantID: record.ID,

			Name:     c.GestorName,
			Secret:   HashSha256(c.GestorSecret),
			Nickname: c.GestorName,
			Role:     authority.RoleGestor,

			CreateTime: types.CurrentTimestamp(),
		}
		return tx.Create(&gestor).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func QueryOficinas(s *session.Session) (*[]domain.Oficina, error) {
	if !s.Perms.HasRole(authority.RoleSystemAdmin) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []domain.Oficina
	if err := db.Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

// Bootstrap ensures the system workshop and the admin account exist. The
// initial admin secret comes from ADMIN_SECRET; without it a fresh install
// gets a well-known secret that must be rotated on first login.
func Bootstrap() error {
	db := persistence.ActiveDataSourceManager.GormDB(nil)

	sistema := domain.Oficina{}
	err := db.Where(&domain.Oficina{Identifier: "system"}).First(&sistema).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sistema = domain.Oficina{
			ID:         idgen.NextID(userIdWorker),
			Nome:       "Sistema",
			Identifier: "system",
			CreateTime: types.CurrentTimestamp(),
		}
		if err := db.Create(&sistema).Error; err != nil {
			return err
		}
	}

	admin := User{}
	err = db.Where(&User{Name: "admin"}).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		secret = "admin123"
		logrus.Warnln("ADMIN_SECRET is not set, the admin account uses the default secret")
	}
	admin = User{
		ID:       idgen.NextID(userIdWorker),
		TenantID: sistema.ID,

		Name:     "admin",
		Secret:   HashSha256(secret),
		Nickname: "Administrador",
		Role:     authority.RoleSystemAdmin,

		CreateTime: types.CurrentTimestamp(),
	}
	return db.Create(&admin).Error
}
