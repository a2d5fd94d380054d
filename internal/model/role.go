package model

// Role 用户角色（封闭枚举，禁止裸字符串比较）
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid 检查角色取值是否合法
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// HasProfile 该角色是否关联档案表（teachers/students）
func (r Role) HasProfile() bool {
	switch r {
	case RoleTeacher, RoleStudent:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

func (r Role) String() string { return string(r) }
