package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/pkg/apperrors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Account    AccountRepository
	User       UserRepository
	Student    StudentRepository
	Teacher    TeacherRepository
	Subject    SubjectRepository
	Group      GroupRepository
	Cycle      CycleRepository
	Period     PeriodRepository
	Assignment AssignmentRepository
	Grade      GradeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Account:    NewAccountRepo(db),
		User:       NewUserRepo(db),
		Student:    NewStudentRepo(db),
		Teacher:    NewTeacherRepo(db),
		Subject:    NewSubjectRepo(db),
		Group:      NewGroupRepo(db),
		Cycle:      NewCycleRepo(db),
		Period:     NewPeriodRepo(db),
		Assignment: NewAssignmentRepo(db),
		Grade:      NewGradeRepo(db),
	}
}

// wrapErr 统一包装数据访问错误。
// "记录不存在"原样透传（可选查询把它当普通结果处理），其余包装为 DataAccessError。
func wrapErr(table, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return apperrors.NewDataAccessError(table, op, err)
}
