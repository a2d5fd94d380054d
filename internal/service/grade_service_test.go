package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/scope"
	"github.com/drcvmx/school-system/pkg/apperrors"
)

func newGradeSvc(t *testing.T) (GradeService, *mockStore) {
	t.Helper()
	repo, store := newTestRepo()
	scopeSvc := NewScopeService(repo, zap.NewNop())
	return NewGradeService(repo, scopeSvc, zap.NewNop()), store
}

func seedGradeFixture(store *mockStore) {
	store.teachers["t-1"] = &model.Teacher{TeacherID: "t-1", UserID: "u-t1"}
	store.teachers["t-2"] = &model.Teacher{TeacherID: "t-2", UserID: "u-t2"}
	store.assignments["a-1"] = &model.Assignment{AssignmentID: "a-1", TeacherID: "t-1", SubjectID: "sub-1", GroupID: "g-1", SchoolCycleID: "c-1"}
	store.assignments["a-2"] = &model.Assignment{AssignmentID: "a-2", TeacherID: "t-2", SubjectID: "sub-2", GroupID: "g-2", SchoolCycleID: "c-1"}
	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-s1", GroupID: strPtr("g-1")}
}

func TestGradeCreateStampsAudit(t *testing.T) {
	svc, store := newGradeSvc(t)
	ctx := context.Background()
	seedGradeFixture(store)

	teacher := &scope.Identity{UserID: "u-t1", Role: model.RoleTeacher, ProfileID: "t-1"}
	resp, err := svc.Create(ctx, teacher, &dto.CreateGradeRequest{
		StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-1", Value: 8.5,
	})
	if err != nil {
		t.Fatalf("录入成绩失败: %v", err)
	}

	grade := store.grades[resp.ID]
	if grade == nil {
		t.Fatal("成绩未落库")
	}
	if grade.CreatedBy == nil || *grade.CreatedBy != "u-t1" {
		t.Error("created_by 应落款为操作者 user id")
	}
	if grade.UpdatedBy == nil || *grade.UpdatedBy != "u-t1" {
		t.Error("updated_by 应落款为操作者 user id")
	}
}

func TestGradeCreateOutOfRange(t *testing.T) {
	svc, store := newGradeSvc(t)
	ctx := context.Background()
	seedGradeFixture(store)

	admin := adminIdent()
	for _, value := range []float64{-0.1, 10.01} {
		_, err := svc.Create(ctx, admin, &dto.CreateGradeRequest{
			StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-1", Value: value,
		})
		if !errors.Is(err, apperrors.ErrGradeOutOfRange) {
			t.Errorf("成绩 %v 应被拒绝, 实际 %v", value, err)
		}
	}
	if len(store.grades) != 0 {
		t.Error("越界成绩不应落库")
	}
}

func TestGradeCreateForeignAssignmentForbidden(t *testing.T) {
	svc, store := newGradeSvc(t)
	ctx := context.Background()
	seedGradeFixture(store)

	// t-1 试图为 t-2 的授课录入成绩
	teacher := &scope.Identity{UserID: "u-t1", Role: model.RoleTeacher, ProfileID: "t-1"}
	_, err := svc.Create(ctx, teacher, &dto.CreateGradeRequest{
		StudentID: "s-1", AssignmentID: "a-2", PeriodID: "p-1", Value: 8,
	})
	if !errors.Is(err, ErrGradeForbidden) {
		t.Errorf("教师为他人授课录入成绩应返回 ErrGradeForbidden, 实际 %v", err)
	}
}

func TestGradeCreateDuplicate(t *testing.T) {
	svc, store := newGradeSvc(t)
	ctx := context.Background()
	seedGradeFixture(store)

	store.grades["g-1"] = &model.Grade{GradeID: "g-1", StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-1", Value: 7}

	_, err := svc.Create(ctx, adminIdent(), &dto.CreateGradeRequest{
		StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-1", Value: 9,
	})
	if !errors.Is(err, ErrGradeExists) {
		t.Errorf("重复录入应返回 ErrGradeExists, 实际 %v", err)
	}
}

func TestGradeUpdateScopedAndStamped(t *testing.T) {
	svc, store := newGradeSvc(t)
	ctx := context.Background()
	seedGradeFixture(store)

	creator := "u-t1"
	store.grades["g-1"] = &model.Grade{GradeID: "g-1", StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-1", Value: 7}
	store.grades["g-1"].CreatedBy = &creator
	store.grades["g-1"].UpdatedBy = &creator

	newValue := 9.5
	admin := adminIdent()
	if _, err := svc.Update(ctx, admin, "g-1", &dto.UpdateGradeRequest{Value: &newValue}); err != nil {
		t.Fatalf("更新成绩失败: %v", err)
	}

	grade := store.grades["g-1"]
	if grade.Value != 9.5 {
		t.Errorf("成绩值应更新为 9.5, 实际 %v", grade.Value)
	}
	if grade.CreatedBy == nil || *grade.CreatedBy != "u-t1" {
		t.Error("更新不应改写 created_by")
	}
	if grade.UpdatedBy == nil || *grade.UpdatedBy != "u-admin" {
		t.Error("updated_by 应改写为本次操作者")
	}

	// 其他教师不可更新
	other := &scope.Identity{UserID: "u-t2", Role: model.RoleTeacher, ProfileID: "t-2"}
	if _, err := svc.Update(ctx, other, "g-1", &dto.UpdateGradeRequest{Value: &newValue}); !errors.Is(err, ErrGradeNotFound) {
		t.Errorf("范围外成绩更新应返回 ErrGradeNotFound, 实际 %v", err)
	}
}

func TestGradeListScoped(t *testing.T) {
	svc, store := newGradeSvc(t)
	ctx := context.Background()
	seedGradeFixture(store)

	store.grades["g-1"] = &model.Grade{GradeID: "g-1", StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-1", Value: 8}
	store.grades["g-2"] = &model.Grade{GradeID: "g-2", StudentID: "s-9", AssignmentID: "a-2", PeriodID: "p-1", Value: 6}

	// 学生仅见本人成绩
	student := &scope.Identity{UserID: "u-s1", Role: model.RoleStudent, ProfileID: "s-1"}
	rows, total, err := svc.List(ctx, student, &dto.GradeListRequest{})
	if err != nil {
		t.Fatalf("学生查询成绩失败: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].StudentID != "s-1" {
		t.Errorf("学生应仅可见本人成绩, 实际 total=%d", total)
	}

	// 教师仅见自己授课的成绩
	teacher := &scope.Identity{UserID: "u-t1", Role: model.RoleTeacher, ProfileID: "t-1"}
	rows, total, err = svc.List(ctx, teacher, &dto.GradeListRequest{})
	if err != nil {
		t.Fatalf("教师查询成绩失败: %v", err)
	}
	if total != 1 || rows[0].ID != "g-1" {
		t.Errorf("教师应仅可见自己授课的成绩, 实际 total=%d", total)
	}
}

func TestGradeAveragesScoped(t *testing.T) {
	svc, store := newGradeSvc(t)
	ctx := context.Background()
	seedGradeFixture(store)

	store.grades["g-1"] = &model.Grade{GradeID: "g-1", StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-1", Value: 10}
	store.grades["g-2"] = &model.Grade{GradeID: "g-2", StudentID: "s-1", AssignmentID: "a-1", PeriodID: "p-2", Value: 8}

	student := &scope.Identity{UserID: "u-s1", Role: model.RoleStudent, ProfileID: "s-1"}
	avg, err := svc.SubjectAverage(ctx, student, "s-1", "sub-1", "c-1")
	if err != nil {
		t.Fatalf("查询科目均分失败: %v", err)
	}
	if avg == nil || *avg != 9 {
		t.Errorf("科目均分应为 9, 实际 %v", avg)
	}

	// 学生不可查询他人均分
	if _, err := svc.SubjectAverage(ctx, student, "s-2", "sub-1", "c-1"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("查询他人均分应返回 ErrStudentNotFound, 实际 %v", err)
	}
}
