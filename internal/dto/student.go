package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求
// 同时开通认证账号（email 缺省时按 national_id 生成）
type CreateStudentRequest struct {
	Name       string  `json:"name"        binding:"required,max=100"`
	Surname1   string  `json:"surname1"    binding:"required,max=100"`
	Surname2   *string `json:"surname2"    binding:"omitempty,max=100"`
	NationalID string  `json:"national_id" binding:"required,max=30"`
	BirthDate  string  `json:"birth_date"  binding:"required,datetime=2006-01-02"`
	GroupID    *string `json:"group_id"    binding:"omitempty,uuid"`
	Email      string  `json:"email"       binding:"omitempty,email"`
	Password   string  `json:"password"    binding:"required,min=6"`
}

// UpdateStudentRequest 更新学生请求（仅更新非 nil 字段）
type UpdateStudentRequest struct {
	Name      *string `json:"name"       binding:"omitempty,max=100"`
	Surname1  *string `json:"surname1"   binding:"omitempty,max=100"`
	Surname2  *string `json:"surname2"   binding:"omitempty,max=100"`
	BirthDate *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	GroupID   *string `json:"group_id"   binding:"omitempty,uuid"`
	Active    *bool   `json:"active"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	GroupID string `form:"group_id" binding:"omitempty,uuid"`
	Keyword string `form:"keyword"  binding:"omitempty,max=50"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Name       string         `json:"name"`
	Surname1   string         `json:"surname1"`
	Surname2   *string        `json:"surname2,omitempty"`
	NationalID string         `json:"national_id"`
	BirthDate  string         `json:"birth_date"`
	Active     bool           `json:"active"`
	Group      *GroupResponse `json:"group,omitempty"`
}
