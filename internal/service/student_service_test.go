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

func newStudentSvc(t *testing.T) (StudentService, *mockStore) {
	t.Helper()
	repo, store := newTestRepo()
	scopeSvc := NewScopeService(repo, zap.NewNop())
	return NewStudentService(repo, scopeSvc, zap.NewNop()), store
}

func adminIdent() *scope.Identity {
	return &scope.Identity{UserID: "u-admin", Role: model.RoleAdmin}
}

func TestStudentCreate(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, adminIdent(), &dto.CreateStudentRequest{
		Name:       "Ana",
		Surname1:   "García",
		NationalID: "CURP001",
		BirthDate:  "2010-05-04",
		Email:      "ana@escuela.com",
		Password:   "123456",
	})
	if err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}

	// 三步开通：认证账号、用户记录、学生档案各一条且 id 关联一致
	if len(store.accounts) != 1 || len(store.users) != 1 || len(store.students) != 1 {
		t.Fatalf("开通后应各有一条记录: accounts=%d users=%d students=%d",
			len(store.accounts), len(store.users), len(store.students))
	}
	student := store.students[resp.ID]
	if student == nil {
		t.Fatal("学生档案未落库")
	}
	if store.users[student.UserID] == nil || store.accounts[student.UserID] == nil {
		t.Error("学生档案应与用户记录、认证账号共享同一 id")
	}
	if store.users[student.UserID].Role != model.RoleStudent {
		t.Error("用户角色应为 student")
	}
}

func TestStudentCreateDuplicateEmail(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	store.accounts["u-1"] = &model.Account{AccountID: "u-1", Email: "ana@escuela.com"}

	_, err := svc.Create(ctx, adminIdent(), &dto.CreateStudentRequest{
		Name: "Ana", Surname1: "García", NationalID: "CURP001",
		BirthDate: "2010-05-04", Email: "ana@escuela.com", Password: "123456",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱应返回 ErrEmailTaken, 实际 %v", err)
	}
}

func TestStudentCreatePartialFailureKeepsAccount(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	// 档案写入失败：认证账号与用户记录保留，返回 ProvisioningError
	store.studentCreateErr = errors.New("db down")

	_, err := svc.Create(ctx, adminIdent(), &dto.CreateStudentRequest{
		Name: "Ana", Surname1: "García", NationalID: "CURP001",
		BirthDate: "2010-05-04", Email: "ana@escuela.com", Password: "123456",
	})

	var provErr *apperrors.ProvisioningError
	if !errors.As(err, &provErr) {
		t.Fatalf("档案写入失败应返回 ProvisioningError, 实际 %v", err)
	}
	if provErr.Step != "profile" {
		t.Errorf("失败步骤应为 profile, 实际 %s", provErr.Step)
	}
	if len(store.accounts) != 1 {
		t.Error("已创建的认证账号不应被回滚")
	}
	if store.accounts[provErr.AccountID] == nil {
		t.Error("ProvisioningError 应携带已创建账号的 id")
	}
}

func TestStudentCreateUserStepFailure(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	store.userCreateErr = errors.New("db down")

	_, err := svc.Create(ctx, adminIdent(), &dto.CreateStudentRequest{
		Name: "Ana", Surname1: "García", NationalID: "CURP001",
		BirthDate: "2010-05-04", Email: "ana@escuela.com", Password: "123456",
	})

	var provErr *apperrors.ProvisioningError
	if !errors.As(err, &provErr) {
		t.Fatalf("users 写入失败应返回 ProvisioningError, 实际 %v", err)
	}
	if provErr.Step != "user" {
		t.Errorf("失败步骤应为 user, 实际 %s", provErr.Step)
	}
	if len(store.students) != 0 {
		t.Error("user 步骤失败后不应继续写入学生档案")
	}
}

func TestStudentDeleteTwoStep(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-1"}
	store.users["u-1"] = &model.User{UserID: "u-1", Role: model.RoleStudent}

	if err := svc.Delete(ctx, adminIdent(), "s-1"); err != nil {
		t.Fatalf("删除学生失败: %v", err)
	}
	if len(store.students) != 0 || len(store.users) != 0 {
		t.Error("删除应清理学生档案与用户记录")
	}
}

func TestStudentDeleteFailFast(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-1"}
	store.users["u-1"] = &model.User{UserID: "u-1", Role: model.RoleStudent}
	store.studentDeleteErr = errors.New("db down")

	if err := svc.Delete(ctx, adminIdent(), "s-1"); err == nil {
		t.Fatal("档案删除失败应返回错误")
	}
	// 第一步失败后立即中止，用户记录不应被删除
	if store.users["u-1"] == nil {
		t.Error("档案删除失败后不应继续删除用户记录")
	}
}

func TestStudentDeleteUserStepFailureLeavesReported(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-1"}
	store.users["u-1"] = &model.User{UserID: "u-1", Role: model.RoleStudent}
	store.userDeleteErr = errors.New("db down")

	if err := svc.Delete(ctx, adminIdent(), "s-1"); err == nil {
		t.Fatal("用户记录删除失败应上报错误而非静默吞掉")
	}
	if len(store.students) != 0 {
		t.Error("第一步档案删除应已生效")
	}
}

func TestStudentGetScoped(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-s1", GroupID: strPtr("g-1")}
	store.students["s-2"] = &model.Student{StudentID: "s-2", UserID: "u-s2", GroupID: strPtr("g-2")}

	// 学生本人可见自己，不可见他人
	student := &scope.Identity{UserID: "u-s1", Role: model.RoleStudent, ProfileID: "s-1"}
	if _, err := svc.Get(ctx, student, "s-1"); err != nil {
		t.Errorf("学生应可查看本人档案: %v", err)
	}
	if _, err := svc.Get(ctx, student, "s-2"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("学生查看他人档案应返回 ErrStudentNotFound, 实际 %v", err)
	}
}

func TestStudentListScopedByTeacher(t *testing.T) {
	svc, store := newStudentSvc(t)
	ctx := context.Background()

	store.teachers["t-1"] = &model.Teacher{TeacherID: "t-1", UserID: "u-t"}
	store.assignments["a-1"] = &model.Assignment{AssignmentID: "a-1", TeacherID: "t-1", GroupID: "g-1", SubjectID: "sub-1"}
	store.students["s-1"] = &model.Student{StudentID: "s-1", UserID: "u-s1", GroupID: strPtr("g-1")}
	store.students["s-2"] = &model.Student{StudentID: "s-2", UserID: "u-s2", GroupID: strPtr("g-2")}

	teacher := &scope.Identity{UserID: "u-t", Role: model.RoleTeacher, ProfileID: "t-1"}
	list, total, err := svc.List(ctx, teacher, &dto.StudentListRequest{})
	if err != nil {
		t.Fatalf("教师查询学生列表失败: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != "s-1" {
		t.Errorf("教师应仅可见授课班级学生, 实际 total=%d list=%v", total, list)
	}
}
