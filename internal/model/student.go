package model

import "time"

// Student 学生档案表 — 对应 students
type Student struct {
	StudentID  string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name       string    `gorm:"type:varchar(100);not null"     json:"name"`
	Surname1   string    `gorm:"type:varchar(100);not null"     json:"surname1"`
	Surname2   *string   `gorm:"type:varchar(100)"              json:"surname2,omitempty"`
	NationalID string    `gorm:"type:varchar(30);not null;uniqueIndex" json:"national_id"`
	BirthDate  time.Time `gorm:"type:date;not null"             json:"birth_date"`
	GroupID    *string   `gorm:"type:uuid"                      json:"group_id,omitempty"`
	Active     bool      `gorm:"not null;default:true"          json:"active"`
	BaseModel

	// 关联
	Group *Group `gorm:"foreignKey:GroupID;references:GroupID" json:"group,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// FullName 学生显示姓名
func (s *Student) FullName() string {
	name := s.Name + " " + s.Surname1
	if s.Surname2 != nil && *s.Surname2 != "" {
		name += " " + *s.Surname2
	}
	return name
}
