package calendario

import (
	"errors"
	"fmt"
	"time"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
	"github.com/sony/sonyflake"
)

var (
	DetailCalendarioFunc = DetailCalendario
	UpdateCalendarioFunc = UpdateCalendario

	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	// read-mostly: forecasting hits the calendar on every request
	calendarioCache = cache.New(5*time.Minute, 1*time.Minute)
)

// DetailCalendario loads the weekly schedule of the session tenant, falling
// back to CalendarioPadrao for weekdays never configured.
func DetailCalendario(s *session.Session) (*CalendarioSemanal, error) {
	if cached, found := calendarioCache.Get(s.TenantID.String()); found {
		if cal, ok := cached.(*CalendarioSemanal); ok {
			return cal, nil
		}
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []DiaCalendario
	if err := db.Where(&DiaCalendario{TenantID: s.TenantID}).Find(&records).Error; err != nil {
		return nil, err
	}

	cal := CalendarioPadrao()
	for _, r := range records {
		if r.DiaSemana < 0 || r.DiaSemana > 6 {
			continue
		}
		cal.Dias[r.DiaSemana] = r.DiaCalendarioConfig
	}

	calendarioCache.Set(s.TenantID.String(), cal, cache.DefaultExpiration)
	return cal, nil
}

type CalendarioUpdating struct {
	Dias [7]DiaCalendarioConfig `json:"dias" binding:"required"`
}

// UpdateCalendario replaces the tenant schedule. Only tenant managers may
// change the calendar.
func UpdateCalendario(u *CalendarioUpdating, s *session.Session) (*CalendarioSemanal, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	cal := &CalendarioSemanal{Dias: u.Dias}
	if err := cal.Validar(); err != nil {
		return nil, fmt.Errorf("%w: %v", bizerror.ErrCalendarioInvalido, err)
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		for wd := 0; wd < 7; wd++ {
			record := DiaCalendario{}
			err := tx.Where(&DiaCalendario{TenantID: s.TenantID, DiaSemana: wd}).First(&record).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				record = DiaCalendario{ID: idgen.NextID(idWorker), TenantID: s.TenantID, DiaSemana: wd}
			}
			record.DiaCalendarioConfig = u.Dias[wd]
			if err := tx.Save(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	calendarioCache.Delete(s.TenantID.String())
	return cal, nil
}

// InvalidateCache drops the cached schedule of one tenant. Used by tests and
// by admin tooling after direct database fixes.
func InvalidateCache(tenantId types.ID) {
	calendarioCache.Delete(tenantId.String())
}
