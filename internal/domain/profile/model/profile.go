package model

import (
	"errors"
	baseModel "redcable_club/pkg/model"

	"gorm.io/gorm"
)

// 角色
const (
	RoleUser  = 1
	RoleAdmin = 2
)

var ErrNegativeBalance = errors.New("points and coins must not be negative")

// Profile 会员档案
type Profile struct {
	baseModel.BaseModel
	Nickname string `gorm:"type:varchar(64);not null" json:"nickname"`
	Points   int    `gorm:"type:bigint;not null;default:0" json:"points"` // RedExp 积分，决定会员等级
	Coins    int    `gorm:"type:bigint;not null;default:0" json:"coins"`
	Role     int    `gorm:"not null;default:1" json:"role"`
}

// NewProfile 创建档案，积分与金币不能为负
func NewProfile(nickname string, points, coins int) (*Profile, error) {
	p := &Profile{
		Nickname: nickname,
		Points:   points,
		Coins:    coins,
		Role:     RoleUser,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) Validate() error {
	if p.Points < 0 || p.Coins < 0 {
		return ErrNegativeBalance
	}
	return nil
}

// BeforeSave 钩子：落库前校验余额
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}
