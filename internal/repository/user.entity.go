package repository

import (
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
)

type UserEntity struct {
	ID        int64      `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string     `db:"name"       gorm:"column:name;not null"`
	Email     string     `db:"email"      gorm:"column:email;not null;uniqueIndex"`
	Password  string     `db:"password"   gorm:"column:password;not null"`
	Role      string     `db:"role"       gorm:"column:role;not null;default:user"`
	CreatedAt time.Time  `db:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `db:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt *time.Time `db:"deleted_at" gorm:"column:deleted_at;index"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserEntity(u *model.User) *UserEntity {
	if u == nil {
		return nil
	}
	return &UserEntity{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Password:  e.Password,
		Role:      model.UserRole(e.Role),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		DeletedAt: e.DeletedAt,
	}
}
