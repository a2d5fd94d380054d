package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/config"
	"github.com/drcvmx/school-system/internal/model"
)

func newSetupSvc(t *testing.T) (SetupService, *mockStore) {
	t.Helper()
	repo, store := newTestRepo()
	cfg := &config.SetupConfig{DefaultPassword: "123456"}
	return NewSetupService(repo, cfg, zap.NewNop()), store
}

func TestSetupProvisionCreatesAll(t *testing.T) {
	svc, store := newSetupSvc(t)

	resp := svc.ProvisionSeedAccounts(context.Background())
	if !resp.Success {
		t.Fatalf("首次开通应全部成功: %+v", resp.Results)
	}
	if len(resp.Results) != 9 {
		t.Fatalf("种子清单应为 9 个账号, 实际 %d", len(resp.Results))
	}
	for _, result := range resp.Results {
		if result.Status != "created" {
			t.Errorf("账号 %s 状态应为 created, 实际 %s", result.Email, result.Status)
		}
		if result.ID == "" {
			t.Errorf("账号 %s 结果应携带 id", result.Email)
		}
	}

	if len(store.accounts) != 9 || len(store.users) != 9 {
		t.Errorf("应创建 9 个认证账号与用户记录: accounts=%d users=%d", len(store.accounts), len(store.users))
	}
	if len(store.teachers) != 3 {
		t.Errorf("应创建 3 个教师档案, 实际 %d", len(store.teachers))
	}
	if len(store.students) != 5 {
		t.Errorf("应创建 5 个学生档案, 实际 %d", len(store.students))
	}

	// 默认密码可通过校验
	admin, err := repoAccountByEmail(store, "admin@escuela.com")
	if err != nil {
		t.Fatal("管理员账号未创建")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("123456")) != nil {
		t.Error("种子账号密码应为配置的默认密码")
	}
	adminUser := store.users[admin.AccountID]
	if adminUser == nil || adminUser.Role != model.RoleAdmin {
		t.Error("admin@escuela.com 角色应为 admin")
	}
}

func TestSetupProvisionIdempotent(t *testing.T) {
	svc, store := newSetupSvc(t)
	ctx := context.Background()

	first := svc.ProvisionSeedAccounts(ctx)
	if !first.Success {
		t.Fatalf("首次开通失败: %+v", first.Results)
	}
	accountCount := len(store.accounts)

	second := svc.ProvisionSeedAccounts(ctx)
	if !second.Success {
		t.Fatalf("重复开通不应报错: %+v", second.Results)
	}
	for _, result := range second.Results {
		if result.Status != "already exists" {
			t.Errorf("第二次开通账号 %s 状态应为 already exists, 实际 %s", result.Email, result.Status)
		}
	}
	if len(store.accounts) != accountCount {
		t.Error("重复开通不应新增账号")
	}
}

func TestSetupPartialFailureReported(t *testing.T) {
	svc, store := newSetupSvc(t)

	// 教师档案写入失败：对应条目为 error，其余账号继续处理
	store.teacherCreateErr = errTeacherDown

	resp := svc.ProvisionSeedAccounts(context.Background())
	if resp.Success {
		t.Error("存在失败条目时 Success 应为 false")
	}

	var errorCount, createdCount int
	for _, result := range resp.Results {
		switch result.Status {
		case "error":
			errorCount++
			if result.Message == "" {
				t.Errorf("error 条目 %s 应携带失败信息", result.Email)
			}
		case "created":
			createdCount++
		}
	}
	if errorCount != 3 {
		t.Errorf("3 个教师账号应标记为 error, 实际 %d", errorCount)
	}
	if createdCount != 6 {
		t.Errorf("其余 6 个账号应正常创建, 实际 %d", createdCount)
	}
}

var errTeacherDown = errors.New("db down")

func repoAccountByEmail(store *mockStore, email string) (*model.Account, error) {
	for _, account := range store.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
