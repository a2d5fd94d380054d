package apperrors

import (
	"errors"
	"fmt"
)

// ── 跨模块业务错误 ──

var (
	// ErrIdentityNotFound 会话有效但 users 表中不存在对应记录（账号开通不完整）
	ErrIdentityNotFound = errors.New("用户身份不存在")

	// ErrProfileMissing 角色为 teacher/student 但档案表缺少关联记录，属于数据完整性错误
	ErrProfileMissing = errors.New("用户档案缺失")

	// ErrGradeOutOfRange 成绩超出 0-10 范围
	ErrGradeOutOfRange = errors.New("成绩必须在 0 到 10 之间")
)

// DataAccessError 包装数据库访问失败，保留表名与操作便于定位
type DataAccessError struct {
	Table string
	Op    string
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("数据访问失败: %s.%s: %v", e.Table, e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// NewDataAccessError 创建 DataAccessError
func NewDataAccessError(table, op string, err error) *DataAccessError {
	return &DataAccessError{Table: table, Op: op, Err: err}
}

// ProvisioningError 创建学生/教师的多步流程中，认证账号已创建但后续关联记录写入失败。
// 已创建的账号保留原样，不做自动补偿回滚。
type ProvisioningError struct {
	Step      string // "user" | "profile"
	AccountID string
	Err       error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("账号开通不完整: 认证账号 %s 已创建，%s 步骤失败: %v", e.AccountID, e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
