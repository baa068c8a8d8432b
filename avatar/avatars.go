package avatar

import (
	"errors"
	"io"
	"io/ioutil"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/client/s3"
	"oficina/domain"
	"oficina/persistence"
	"oficina/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	DetailFotoFunc = DetailFoto
	CreateFotoFunc = CreateFoto
)

func fotoKey(id types.ID) string {
	return "fotos/" + id.String() + ".png"
}

// DetailFoto streams the stored photo of one collaborator of the session
// tenant.
func DetailFoto(colaboradorId types.ID, s *session.Session) ([]byte, error) {
	if err := verificarColaborador(colaboradorId, s); err != nil {
		return nil, err
	}

	r, err := s3.GetObjectFunc(fotoKey(colaboradorId), s)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

// CreateFoto stores the photo of one collaborator. Only managers change
// roster photos.
func CreateFoto(colaboradorId types.ID, r io.Reader, s *session.Session) error {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return bizerror.ErrForbidden
	}
	if err := verificarColaborador(colaboradorId, s); err != nil {
		return err
	}

	return s3.PutObjectFunc(fotoKey(colaboradorId), r, s)
}

func verificarColaborador(colaboradorId types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	record := domain.Colaborador{}
	if err := db.Where(&domain.Colaborador{ID: colaboradorId, TenantID: s.TenantID}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotFound
		}
		return err
	}
	return nil
}
