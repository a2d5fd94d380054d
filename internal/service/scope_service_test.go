package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/scope"
)

func strPtr(s string) *string { return &s }

func TestScopeAdminMatchAll(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewScopeService(repo, zap.NewNop())
	ctx := context.Background()

	admin := &scope.Identity{UserID: "u-admin", Role: model.RoleAdmin}
	for _, resource := range []scope.Resource{
		scope.ResourceStudents, scope.ResourceTeachers, scope.ResourceSubjects,
		scope.ResourceGroups, scope.ResourceGrades,
	} {
		f, err := svc.FilterFor(ctx, admin, resource)
		if err != nil {
			t.Fatalf("管理员 %s 谓词推导失败: %v", resource, err)
		}
		if !f.IsMatchAll() {
			t.Errorf("管理员在 %s 上应为无限制谓词", resource)
		}
	}
}

func TestScopeTeacherWithoutAssignmentsFailsClosed(t *testing.T) {
	repo, store := newTestRepo()
	svc := NewScopeService(repo, zap.NewNop())
	ctx := context.Background()

	// 教师存在但没有任何授课分配
	store.teachers["t-1"] = &model.Teacher{TeacherID: "t-1", UserID: "u-t"}
	teacher := &scope.Identity{UserID: "u-t", Role: model.RoleTeacher, ProfileID: "t-1"}

	for _, resource := range []scope.Resource{
		scope.ResourceStudents, scope.ResourceSubjects, scope.ResourceGroups, scope.ResourceGrades,
	} {
		f, err := svc.FilterFor(ctx, teacher, resource)
		if err != nil {
			t.Fatalf("教师 %s 谓词推导失败: %v", resource, err)
		}
		if !f.IsMatchNone() {
			t.Errorf("无授课分配的教师在 %s 上必须收敛为匹配零行，不得放开为匹配全部", resource)
		}
	}
}

func TestScopeTeacherDerivedSets(t *testing.T) {
	repo, store := newTestRepo()
	svc := NewScopeService(repo, zap.NewNop())
	ctx := context.Background()

	store.teachers["t-1"] = &model.Teacher{TeacherID: "t-1", UserID: "u-t"}
	store.assignments["a-1"] = &model.Assignment{AssignmentID: "a-1", TeacherID: "t-1", SubjectID: "sub-1", GroupID: "g-1", SchoolCycleID: "c-1"}
	store.assignments["a-2"] = &model.Assignment{AssignmentID: "a-2", TeacherID: "t-1", SubjectID: "sub-2", GroupID: "g-1", SchoolCycleID: "c-1"}
	store.assignments["a-other"] = &model.Assignment{AssignmentID: "a-other", TeacherID: "t-2", SubjectID: "sub-3", GroupID: "g-2", SchoolCycleID: "c-1"}
	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-s1", GroupID: strPtr("g-1")}
	store.students["s-2"] = &model.Student{StudentID: "s-2", UserID: "u-s2", GroupID: strPtr("g-2")}
	store.students["s-3"] = &model.Student{StudentID: "s-3", UserID: "u-s3"}

	teacher := &scope.Identity{UserID: "u-t", Role: model.RoleTeacher, ProfileID: "t-1"}

	f, err := svc.FilterFor(ctx, teacher, scope.ResourceStudents)
	if err != nil {
		t.Fatalf("学生谓词推导失败: %v", err)
	}
	if !f.AllowsID("s-1") {
		t.Error("授课班级内的学生应在可见范围内")
	}
	if f.AllowsID("s-2") || f.AllowsID("s-3") {
		t.Error("其他班级与未分班的学生不应可见")
	}

	f, err = svc.FilterFor(ctx, teacher, scope.ResourceSubjects)
	if err != nil {
		t.Fatalf("科目谓词推导失败: %v", err)
	}
	if !f.AllowsID("sub-1") || !f.AllowsID("sub-2") || f.AllowsID("sub-3") {
		t.Errorf("教师可见科目应为授课科目集合, 实际 %v", f.IDs())
	}

	f, err = svc.FilterFor(ctx, teacher, scope.ResourceGrades)
	if err != nil {
		t.Fatalf("成绩谓词推导失败: %v", err)
	}
	if f.Column() != "assignment_id" {
		t.Errorf("教师成绩谓词应作用于 assignment_id, 实际 %s", f.Column())
	}
	if !f.AllowsID("a-1") || f.AllowsID("a-other") {
		t.Error("教师成绩谓词应仅覆盖其授课分配")
	}

	f, err = svc.FilterFor(ctx, teacher, scope.ResourceTeachers)
	if err != nil {
		t.Fatalf("教师谓词推导失败: %v", err)
	}
	if !f.AllowsID("t-1") || f.AllowsID("t-2") {
		t.Error("教师在教师资源上只应看到自己")
	}
}

func TestScopeStudent(t *testing.T) {
	repo, store := newTestRepo()
	svc := NewScopeService(repo, zap.NewNop())
	ctx := context.Background()

	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-s", GroupID: strPtr("g-1")}
	store.assignments["a-1"] = &model.Assignment{AssignmentID: "a-1", TeacherID: "t-1", SubjectID: "sub-1", GroupID: "g-1"}

	student := &scope.Identity{UserID: "u-s", Role: model.RoleStudent, ProfileID: "s-1"}

	f, err := svc.FilterFor(ctx, student, scope.ResourceGrades)
	if err != nil {
		t.Fatalf("成绩谓词推导失败: %v", err)
	}
	if f.Column() != "student_id" || !f.AllowsID("s-1") || f.AllowsID("s-2") {
		t.Error("学生成绩谓词应仅覆盖本人")
	}

	f, err = svc.FilterFor(ctx, student, scope.ResourceTeachers)
	if err != nil {
		t.Fatalf("教师谓词推导失败: %v", err)
	}
	if !f.IsMatchNone() {
		t.Error("学生不应可见教师名录")
	}

	f, err = svc.FilterFor(ctx, student, scope.ResourceSubjects)
	if err != nil {
		t.Fatalf("科目谓词推导失败: %v", err)
	}
	if !f.AllowsID("sub-1") {
		t.Error("学生应可见本班授课科目")
	}
}

func TestScopeStudentWithoutGroupFailsClosed(t *testing.T) {
	repo, store := newTestRepo()
	svc := NewScopeService(repo, zap.NewNop())
	ctx := context.Background()

	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-s"}
	student := &scope.Identity{UserID: "u-s", Role: model.RoleStudent, ProfileID: "s-1"}

	for _, resource := range []scope.Resource{scope.ResourceSubjects, scope.ResourceGroups} {
		f, err := svc.FilterFor(ctx, student, resource)
		if err != nil {
			t.Fatalf("%s 谓词推导失败: %v", resource, err)
		}
		if !f.IsMatchNone() {
			t.Errorf("未分班学生在 %s 上必须收敛为匹配零行", resource)
		}
	}
}

func TestReportCardFilter(t *testing.T) {
	repo, store := newTestRepo()
	svc := NewScopeService(repo, zap.NewNop())
	ctx := context.Background()

	store.teachers["t-1"] = &model.Teacher{TeacherID: "t-1", UserID: "u-t"}
	store.assignments["a-1"] = &model.Assignment{AssignmentID: "a-1", TeacherID: "t-1", GroupID: "g-1", SubjectID: "sub-1"}
	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-s1", GroupID: strPtr("g-1")}
	store.students["s-2"] = &model.Student{StudentID: "s-2", UserID: "u-s2", GroupID: strPtr("g-2")}

	f, err := svc.ReportCardFilter(ctx, &scope.Identity{Role: model.RoleAdmin})
	if err != nil || !f.IsMatchAll() {
		t.Errorf("管理员成绩单谓词应为无限制, err=%v", err)
	}

	f, err = svc.ReportCardFilter(ctx, &scope.Identity{Role: model.RoleTeacher, ProfileID: "t-1"})
	if err != nil {
		t.Fatalf("教师成绩单谓词推导失败: %v", err)
	}
	if !f.AllowsID("s-1") || f.AllowsID("s-2") {
		t.Error("教师成绩单谓词应仅覆盖授课班级学生")
	}

	f, err = svc.ReportCardFilter(ctx, &scope.Identity{Role: model.RoleStudent, ProfileID: "s-2"})
	if err != nil {
		t.Fatalf("学生成绩单谓词推导失败: %v", err)
	}
	if !f.AllowsID("s-2") || f.AllowsID("s-1") {
		t.Error("学生成绩单谓词应仅覆盖本人")
	}
}
