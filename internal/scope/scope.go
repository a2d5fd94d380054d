// Package scope 定义按角色派生的行级过滤谓词。
//
// 谓词以"派生 id 集合"的形式表达（而非 join 级 ACL），因此可与调用方追加的
// 任意条件（分页、搜索）自由组合。前置查询结果为空时谓词必须收敛为
// "匹配零行"（fail-closed），绝不允许退化为"匹配全部"。
package scope

import (
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
)

// Resource 受角色过滤约束的资源类型
type Resource string

const (
	ResourceStudents Resource = "students"
	ResourceTeachers Resource = "teachers"
	ResourceSubjects Resource = "subjects"
	ResourceGroups   Resource = "groups"
	ResourceGrades   Resource = "grades"
)

// Identity 解析后的调用者身份，由 IdentityService 产出并显式传入每次受限查询
type Identity struct {
	UserID    string
	Role      model.Role
	ProfileID string // teacher/student 的档案 id；admin 为空
}

type filterKind int

const (
	kindMatchAll filterKind = iota
	kindMatchNone
	kindIDIn
)

// Filter 行级过滤谓词：匹配全部（admin）、匹配零行（fail-closed）或 id 集合过滤
type Filter struct {
	kind   filterKind
	column string
	ids    []string
}

// MatchAll 无限制谓词（仅 admin）
func MatchAll() Filter {
	return Filter{kind: kindMatchAll}
}

// MatchNone 匹配零行谓词
func MatchNone() Filter {
	return Filter{kind: kindMatchNone}
}

// IDIn column IN (ids) 谓词；ids 为空时收敛为 MatchNone
func IDIn(column string, ids []string) Filter {
	if len(ids) == 0 {
		return MatchNone()
	}
	return Filter{kind: kindIDIn, column: column, ids: ids}
}

// IDEq column = id 谓词；id 为空时收敛为 MatchNone
func IDEq(column, id string) Filter {
	if id == "" {
		return MatchNone()
	}
	return Filter{kind: kindIDIn, column: column, ids: []string{id}}
}

// Apply 将谓词叠加到查询上；MatchAll 不改动查询，MatchNone 注入恒假条件
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	switch f.kind {
	case kindMatchAll:
		return db
	case kindMatchNone:
		return db.Where("1 = 0")
	default:
		if len(f.ids) == 1 {
			return db.Where(f.column+" = ?", f.ids[0])
		}
		return db.Where(f.column+" IN ?", f.ids)
	}
}

// IsMatchAll 是否为无限制谓词
func (f Filter) IsMatchAll() bool { return f.kind == kindMatchAll }

// IsMatchNone 是否为匹配零行谓词
func (f Filter) IsMatchNone() bool { return f.kind == kindMatchNone }

// Column 谓词作用的列名（MatchAll/MatchNone 返回空）
func (f Filter) Column() string { return f.column }

// IDs 谓词允许的 id 集合副本
func (f Filter) IDs() []string {
	if len(f.ids) == 0 {
		return nil
	}
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}

// AllowsID 判断某行的过滤列取值是否通过谓词（用于内存侧复核）
func (f Filter) AllowsID(id string) bool {
	switch f.kind {
	case kindMatchAll:
		return true
	case kindMatchNone:
		return false
	default:
		for _, v := range f.ids {
			if v == id {
				return true
			}
		}
		return false
	}
}
