package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/idgen"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	CreateUserFunc      = CreateUser
	QueryUsersFunc      = QueryUsers
	LoadPermsFunc       = LoadPerms
	ResetUserSecretFunc = ResetUserSecret

	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// LoadPerms maps a user record to session permissions.
func LoadPerms(u *User) authority.Permissions {
	if u.Role == "" {
		return authority.Permissions{}
	}
	return authority.Permissions{u.Role}
}

func QueryUsers(s *session.Session) (*[]UserInfo, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var users []UserInfo
	q := db.Model(&User{})
	if !s.Perms.HasRole(authority.RoleSystemAdmin) {
		q = q.Where("tenant_id = ?", s.TenantID)
	}
	if err := q.Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

// CreateUser registers a user in the caller's own workshop. Only managers
// may create users, and a manager cannot grant more than it holds.
func CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	existing := 0
	if err := db.Model(&User{}).Where("name = ?", c.Name).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, bizerror.ErrUserNameUsed
	}

	user := User{
		ID:       idgen.NextID(userIdWorker),
		TenantID: s.TenantID,

		Name:     c.Name,
		Secret:   HashSha256(c.Secret),
		Nickname: c.Nickname,
		Role:     c.Role,

		CreateTime: types.CurrentTimestamp(),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, TenantID: user.TenantID, Name: user.Name,
		Nickname: user.Nickname, Role: user.Role}, nil
}

func DeleteUser(userId types.ID, s *session.Session) error {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return bizerror.ErrForbidden
	}
	if userId == s.Identity.ID {
		return bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Where("id = ?", userId)
	if !s.Perms.HasRole(authority.RoleSystemAdmin) {
		q = q.Where("tenant_id = ?", s.TenantID)
	}
	result := q.Delete(&User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return bizerror.ErrNotFound
	}
	return nil
}

// ResetUserSecret overwrites a user's secret without the old one, for users
// locked out of their account. Managers reach their own workshop only.
func ResetUserSecret(userId types.ID, r *SecretResetting, s *session.Session) error {
	if !s.Perms.HasAnyRole(authority.RoleSystemAdmin, authority.RoleGestor) {
		return bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Model(&User{}).Where("id = ?", userId)
	if !s.Perms.HasRole(authority.RoleSystemAdmin) {
		q = q.Where("tenant_id = ?", s.TenantID)
	}
	result := q.Update("secret", HashSha256(r.NewSecret))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return bizerror.ErrNotFound
	}
	return nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	user := User{}
	err := db.Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrInvalidPassword
		}
		return err
	}
	return db.Model(&User{ID: user.ID}).Update("secret", HashSha256(u.NewSecret)).Error
}

func QueryAccountNames(ids []types.ID) (map[types.ID]string, error) {
	result := map[types.ID]string{}
	if len(ids) == 0 {
		return result, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []UserInfo
	if err := db.Model(&User{}).Where("id IN (?)", ids).Scan(&records).Error; err != nil {
		return nil, err
	}
	for _, r := range records {
		result[r.ID] = r.DisplayName()
	}
	return result, nil
}
