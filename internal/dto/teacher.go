package dto

// ── 教师模块 DTO ──

// CreateTeacherRequest 创建教师请求（同时开通认证账号）
type CreateTeacherRequest struct {
	Name      string  `json:"name"      binding:"required,max=100"`
	Surname1  string  `json:"surname1"  binding:"required,max=100"`
	Surname2  *string `json:"surname2"  binding:"omitempty,max=100"`
	Specialty *string `json:"specialty" binding:"omitempty,max=100"`
	Email     string  `json:"email"     binding:"required,email"`
	Password  string  `json:"password"  binding:"required,min=6"`
}

// UpdateTeacherRequest 更新教师请求（仅更新非 nil 字段）
type UpdateTeacherRequest struct {
	Name      *string `json:"name"      binding:"omitempty,max=100"`
	Surname1  *string `json:"surname1"  binding:"omitempty,max=100"`
	Surname2  *string `json:"surname2"  binding:"omitempty,max=100"`
	Specialty *string `json:"specialty" binding:"omitempty,max=100"`
	Active    *bool   `json:"active"`
}

// TeacherListRequest 教师列表查询参数
type TeacherListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// TeacherResponse 教师信息响应
type TeacherResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Surname1  string  `json:"surname1"`
	Surname2  *string `json:"surname2,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Active    bool    `json:"active"`
}
