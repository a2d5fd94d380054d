package model

import (
	"fmt"
	"time"
)

// SchoolCycle 学年周期表 — 对应 school_cycles
type SchoolCycle struct {
	SchoolCycleID string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string    `gorm:"type:varchar(50);not null" json:"name"`
	StartDate     time.Time `gorm:"type:date;not null"        json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null"        json:"end_date"`
	Active        bool      `gorm:"not null;default:false"    json:"active"`
	BaseModel
}

// TableName 指定表名
func (SchoolCycle) TableName() string { return "school_cycles" }

// Group 班级表 — 对应 groups
type Group struct {
	GroupID       string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Grade         int    `gorm:"not null"                   json:"grade"`
	Section       string `gorm:"type:varchar(10);not null"  json:"section"`
	SchoolCycleID string `gorm:"type:uuid;not null"         json:"school_cycle_id"`
	BaseModel

	// 关联
	SchoolCycle *SchoolCycle `gorm:"foreignKey:SchoolCycleID;references:SchoolCycleID" json:"school_cycle,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }

// Label 班级显示名，如 "3A"
func (g *Group) Label() string {
	return fmt.Sprintf("%d%s", g.Grade, g.Section)
}

// Subject 科目表 — 对应 subjects
type Subject struct {
	SubjectID string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Credits   int    `gorm:"not null;default:0"         json:"credits"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// Assignment 授课分配表 — 对应 assignments
// 教师 × 科目 × 班级 × 学年周期 的绑定关系
type Assignment struct {
	AssignmentID  string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeacherID     string `gorm:"type:uuid;not null" json:"teacher_id"`
	SubjectID     string `gorm:"type:uuid;not null" json:"subject_id"`
	GroupID       string `gorm:"type:uuid;not null" json:"group_id"`
	SchoolCycleID string `gorm:"type:uuid;not null" json:"school_cycle_id"`
	BaseModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Group   *Group   `gorm:"foreignKey:GroupID;references:GroupID"     json:"group,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// EvaluationPeriod 评估周期表 — 对应 evaluation_periods
type EvaluationPeriod struct {
	PeriodID      string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string    `gorm:"type:varchar(50);not null" json:"name"`
	SchoolCycleID string    `gorm:"type:uuid;not null"        json:"school_cycle_id"`
	StartDate     time.Time `gorm:"type:date;not null"        json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null"        json:"end_date"`
	BaseModel

	// 关联
	SchoolCycle *SchoolCycle `gorm:"foreignKey:SchoolCycleID;references:SchoolCycleID" json:"school_cycle,omitempty"`
}

// TableName 指定表名
func (EvaluationPeriod) TableName() string { return "evaluation_periods" }
