package dto

// ── 初始账号种子 DTO ──

// SetupAccountResult 单个种子账号的处理结果
type SetupAccountResult struct {
	Email   string `json:"email"`
	Status  string `json:"status"` // "created" | "already exists" | "error"
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

// SetupUsersResponse 种子账号批量处理响应
type SetupUsersResponse struct {
	Success bool                 `json:"success"`
	Results []SetupAccountResult `json:"results"`
}
