package account

import "github.com/fundwit/go-commons/types"

type User struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	TenantID types.ID `json:"tenantId" gorm:"index:idx_user_tenant"`

	Name   string `json:"name" gorm:"unique_index:user_name_unique"`
	Secret string `json:"secret"`

	Nickname string `json:"nickname"`
	Role     string `json:"role"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *User) TableName() string {
	return "users"
}

type UserInfo struct {
	ID       types.ID `json:"id"`
	TenantID types.ID `json:"tenantId"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Role     string   `json:"role"`
}

type UserCreation struct {
	Name     string `json:"name" binding:"required,lte=32"`
	Secret   string `json:"secret" binding:"required,gte=6,lte=32"`
	Nickname string `json:"nickname" binding:"omitempty,gte=1,lte=32"`
	Role     string `json:"role" binding:"required,oneof=gestor apontador"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6,lte=32"`
}

type SecretResetting struct {
	NewSecret string `json:"newSecret" binding:"required,gte=6,lte=32"`
}

func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

func (u UserInfo) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}
