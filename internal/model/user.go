package model

// Account 认证账号表 — 对应 auth_accounts
// 等价于托管认证服务中的账号记录，与 users 表一对一
type Account struct {
	AccountID    string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"                   json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                               json:"-"`
	BaseModel
}

// TableName 指定表名
func (Account) TableName() string { return "auth_accounts" }

// User 用户表 — 对应 users
// id 与 auth_accounts.id 相同；角色决定关联哪张档案表
type User struct {
	UserID string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email  string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Role   Role   `gorm:"type:varchar(20);not null"              json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
