package dto

// ── 成绩模块 DTO ──

// CreateGradeRequest 创建成绩请求
type CreateGradeRequest struct {
	StudentID    string  `json:"student_id"    binding:"required,uuid"`
	AssignmentID string  `json:"assignment_id" binding:"required,uuid"`
	PeriodID     string  `json:"period_id"     binding:"required,uuid"`
	Value        float64 `json:"value"         binding:"min=0,max=10"`
	Notes        *string `json:"notes"`
}

// UpdateGradeRequest 更新成绩请求（仅更新非 nil 字段）
type UpdateGradeRequest struct {
	Value *float64 `json:"value" binding:"omitempty,min=0,max=10"`
	Notes *string  `json:"notes"`
}

// GradeListRequest 成绩列表查询参数
type GradeListRequest struct {
	PaginationRequest
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
	PeriodID  string `form:"period_id"  binding:"omitempty,uuid"`
}

// GradeResponse 成绩响应（落库行）
type GradeResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	AssignmentID string  `json:"assignment_id"`
	PeriodID     string  `json:"period_id"`
	Value        float64 `json:"value"`
	Notes        *string `json:"notes,omitempty"`
	CreatedBy    *string `json:"created_by,omitempty"`
	UpdatedBy    *string `json:"updated_by,omitempty"`
}

// GradeRowResponse 成绩明细视图行响应
type GradeRowResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	SubjectName string  `json:"subject_name"`
	TeacherName string  `json:"teacher_name"`
	PeriodName  string  `json:"period_name"`
	GroupLabel  string  `json:"group_label"`
	CycleLabel  string  `json:"cycle_label"`
	Value       float64 `json:"value"`
	Notes       *string `json:"notes,omitempty"`
}
