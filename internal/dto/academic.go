package dto

// ── 学务模块 DTO：科目 / 班级 / 学年周期 / 评估周期 / 授课分配 ──

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name    string `json:"name"    binding:"required,max=100"`
	Credits int    `json:"credits" binding:"omitempty,min=0"`
}

// UpdateSubjectRequest 更新科目请求
type UpdateSubjectRequest struct {
	Name    *string `json:"name"    binding:"omitempty,max=100"`
	Credits *int    `json:"credits" binding:"omitempty,min=0"`
}

// SubjectResponse 科目响应
type SubjectResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// CreateGroupRequest 创建班级请求
type CreateGroupRequest struct {
	Grade         int    `json:"grade"           binding:"required,min=1"`
	Section       string `json:"section"         binding:"required,max=10"`
	SchoolCycleID string `json:"school_cycle_id" binding:"required,uuid"`
}

// UpdateGroupRequest 更新班级请求
type UpdateGroupRequest struct {
	Grade   *int    `json:"grade"   binding:"omitempty,min=1"`
	Section *string `json:"section" binding:"omitempty,max=10"`
}

// GroupResponse 班级响应
type GroupResponse struct {
	ID         string `json:"id"`
	Grade      int    `json:"grade"`
	Section    string `json:"section"`
	Label      string `json:"label"`
	CycleLabel string `json:"cycle_label,omitempty"`
}

// CreateCycleRequest 创建学年周期请求
type CreateCycleRequest struct {
	Name      string `json:"name"       binding:"required,max=50"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	Active    bool   `json:"active"`
}

// CycleResponse 学年周期响应
type CycleResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Active    bool   `json:"active"`
}

// CreatePeriodRequest 创建评估周期请求
type CreatePeriodRequest struct {
	Name          string `json:"name"            binding:"required,max=50"`
	SchoolCycleID string `json:"school_cycle_id" binding:"required,uuid"`
	StartDate     string `json:"start_date"      binding:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date"        binding:"required,datetime=2006-01-02"`
}

// PeriodResponse 评估周期响应
type PeriodResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SchoolCycleID string `json:"school_cycle_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// CreateAssignmentRequest 创建授课分配请求
type CreateAssignmentRequest struct {
	TeacherID     string `json:"teacher_id"      binding:"required,uuid"`
	SubjectID     string `json:"subject_id"      binding:"required,uuid"`
	GroupID       string `json:"group_id"        binding:"required,uuid"`
	SchoolCycleID string `json:"school_cycle_id" binding:"required,uuid"`
}

// AssignmentResponse 授课分配响应
type AssignmentResponse struct {
	ID            string           `json:"id"`
	TeacherID     string           `json:"teacher_id"`
	SubjectID     string           `json:"subject_id"`
	GroupID       string           `json:"group_id"`
	SchoolCycleID string           `json:"school_cycle_id"`
	Teacher       *TeacherResponse `json:"teacher,omitempty"`
	Subject       *SubjectResponse `json:"subject,omitempty"`
	Group         *GroupResponse   `json:"group,omitempty"`
}
