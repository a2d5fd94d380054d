package model

// Grade 成绩表 — 对应 grades
// value 取值范围 0-10，由 Service 层与数据库 CHECK 双重约束
type Grade struct {
	GradeID      string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID    string  `gorm:"type:uuid;not null"      json:"student_id"`
	AssignmentID string  `gorm:"type:uuid;not null"      json:"assignment_id"`
	PeriodID     string  `gorm:"type:uuid;not null"      json:"period_id"`
	Value        float64 `gorm:"type:numeric(4,2);not null" json:"value"`
	Notes        *string `gorm:"type:text"               json:"notes,omitempty"`
	AuditModel

	// 关联
	Student    *Student          `gorm:"foreignKey:StudentID;references:StudentID"          json:"student,omitempty"`
	Assignment *Assignment       `gorm:"foreignKey:AssignmentID;references:AssignmentID"    json:"assignment,omitempty"`
	Period     *EvaluationPeriod `gorm:"foreignKey:PeriodID;references:PeriodID"            json:"period,omitempty"`
}

// TableName 指定表名
func (Grade) TableName() string { return "grades" }

// StudentGradeRow 成绩明细视图行 — 对应只读视图 student_grades_view
type StudentGradeRow struct {
	ID            string   `gorm:"column:id"              json:"id"`
	StudentID     string   `gorm:"column:student_id"      json:"student_id"`
	StudentName   string   `gorm:"column:student_name"    json:"student_name"`
	SubjectID     string   `gorm:"column:subject_id"      json:"subject_id"`
	SubjectName   string   `gorm:"column:subject_name"    json:"subject_name"`
	TeacherName   string   `gorm:"column:teacher_name"    json:"teacher_name"`
	AssignmentID  string   `gorm:"column:assignment_id"   json:"assignment_id"`
	GroupID       string   `gorm:"column:group_id"        json:"group_id"`
	PeriodID      string   `gorm:"column:period_id"       json:"period_id"`
	PeriodName    string   `gorm:"column:period_name"     json:"period_name"`
	GroupLabel    string   `gorm:"column:group_label"     json:"group_label"`
	SchoolCycleID string   `gorm:"column:school_cycle_id" json:"school_cycle_id"`
	CycleLabel    string   `gorm:"column:cycle_label"     json:"cycle_label"`
	Value         float64  `gorm:"column:value"           json:"value"`
	Notes         *string  `gorm:"column:notes"           json:"notes,omitempty"`
}

// TableName 指定视图名
func (StudentGradeRow) TableName() string { return "student_grades_view" }

// ReportCardRow 成绩单视图行 — 对应只读视图 report_card_view
// 每行是一个 学生×科目×周期 的均分；subject_average 可能为 NULL（尚无成绩）
type ReportCardRow struct {
	StudentID      string   `gorm:"column:student_id"      json:"student_id"`
	StudentName    string   `gorm:"column:student_name"    json:"student_name"`
	GroupLabel     string   `gorm:"column:group_label"     json:"group_label"`
	SchoolCycleID  string   `gorm:"column:school_cycle_id" json:"school_cycle_id"`
	CycleLabel     string   `gorm:"column:cycle_label"     json:"cycle_label"`
	SubjectID      string   `gorm:"column:subject_id"      json:"subject_id"`
	SubjectName    string   `gorm:"column:subject_name"    json:"subject_name"`
	PeriodID       *string  `gorm:"column:period_id"       json:"period_id"`
	SubjectAverage *float64 `gorm:"column:subject_average" json:"subject_average"`
}

// TableName 指定视图名
func (ReportCardRow) TableName() string { return "report_card_view" }
