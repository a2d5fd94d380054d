package model

// Teacher 教师档案表 — 对应 teachers
type Teacher struct {
	TeacherID string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name      string  `gorm:"type:varchar(100);not null"     json:"name"`
	Surname1  string  `gorm:"type:varchar(100);not null"     json:"surname1"`
	Surname2  *string `gorm:"type:varchar(100)"              json:"surname2,omitempty"`
	Specialty *string `gorm:"type:varchar(100)"              json:"specialty,omitempty"`
	Active    bool    `gorm:"not null;default:true"          json:"active"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// FullName 教师显示姓名
func (t *Teacher) FullName() string {
	name := t.Name + " " + t.Surname1
	if t.Surname2 != nil && *t.Surname2 != "" {
		name += " " + *t.Surname2
	}
	return name
}
