package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/pkg/apperrors"
)

func TestIdentityResolve(t *testing.T) {
	repo, store := newTestRepo()
	svc := NewIdentityService(repo, zap.NewNop())
	ctx := context.Background()

	store.users["u-admin"] = &model.User{UserID: "u-admin", Email: "admin@escuela.com", Role: model.RoleAdmin}
	store.users["u-teacher"] = &model.User{UserID: "u-teacher", Email: "profe@escuela.com", Role: model.RoleTeacher}
	store.teachers["t-1"] = &model.Teacher{TeacherID: "t-1", UserID: "u-teacher", Name: "Carlos", Surname1: "Ramírez"}
	store.users["u-student"] = &model.User{UserID: "u-student", Email: "alumno@escuela.com", Role: model.RoleStudent}
	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-student", Name: "Ana", Surname1: "García"}

	ident, err := svc.Resolve(ctx, "u-admin")
	if err != nil {
		t.Fatalf("解析管理员身份失败: %v", err)
	}
	if ident.Role != model.RoleAdmin || ident.ProfileID != "" {
		t.Errorf("管理员身份错误: role=%s profile=%s", ident.Role, ident.ProfileID)
	}

	ident, err = svc.Resolve(ctx, "u-teacher")
	if err != nil {
		t.Fatalf("解析教师身份失败: %v", err)
	}
	if ident.ProfileID != "t-1" {
		t.Errorf("教师档案 id 应为 t-1, 实际 %s", ident.ProfileID)
	}

	ident, err = svc.Resolve(ctx, "u-student")
	if err != nil {
		t.Fatalf("解析学生身份失败: %v", err)
	}
	if ident.ProfileID != "s-1" {
		t.Errorf("学生档案 id 应为 s-1, 实际 %s", ident.ProfileID)
	}
}

func TestIdentityResolveNotFound(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewIdentityService(repo, zap.NewNop())

	_, err := svc.Resolve(context.Background(), "no-such-user")
	if !errors.Is(err, apperrors.ErrIdentityNotFound) {
		t.Errorf("users 表无记录时应返回 ErrIdentityNotFound, 实际 %v", err)
	}
}

func TestIdentityResolveProfileMissing(t *testing.T) {
	repo, store := newTestRepo()
	svc := NewIdentityService(repo, zap.NewNop())

	// 用户记录存在但档案缺失：不得降级为无档案身份
	store.users["u-broken"] = &model.User{UserID: "u-broken", Email: "broken@escuela.com", Role: model.RoleStudent}

	_, err := svc.Resolve(context.Background(), "u-broken")
	if !errors.Is(err, apperrors.ErrProfileMissing) {
		t.Errorf("档案缺失时应返回 ErrProfileMissing, 实际 %v", err)
	}
}
