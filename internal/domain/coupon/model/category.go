package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// Category 商品品类
type Category string

const (
	CategoryPhone       Category = "Phone"
	CategoryAudio       Category = "Audio"
	CategoryTablet      Category = "Tablet"
	CategoryWearables   Category = "Wearables"
	CategoryAccessories Category = "Accessories"
)

var ErrUnknownCategory = errors.New("unknown product category")

// AllCategories 全部品类，按展示顺序排列
func AllCategories() []Category {
	return []Category{CategoryPhone, CategoryAudio, CategoryTablet, CategoryWearables, CategoryAccessories}
}

// ParseCategory 不区分大小写解析品类名称
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Categories 优惠券适用的品类集合，数据库中以逗号分隔的文本保存
type Categories []Category

// NewCategories 去重并保留首次出现的顺序
func NewCategories(cs ...Category) Categories {
	out := make(Categories, 0, len(cs))
	for _, c := range cs {
		if !out.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// ParseCategories 解析品类名称列表
func ParseCategories(names []string) (Categories, error) {
	cs := make([]Category, 0, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return NewCategories(cs...), nil
}

func (cs Categories) Contains(c Category) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}

// Value 实现 driver.Valuer
func (cs Categories) Value() (driver.Value, error) {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ","), nil
}

// Scan 实现 sql.Scanner
func (cs *Categories) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*cs = Categories{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("categories: unsupported scan type %T", src)
	}

	if raw == "" {
		*cs = Categories{}
		return nil
	}

	parsed, err := ParseCategories(strings.Split(raw, ","))
	if err != nil {
		return err
	}
	*cs = parsed
	return nil
}
