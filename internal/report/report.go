// Package report 实现成绩聚合与成绩单装配。
//
// 口径约定：
//   - 科目均分 = 该科目所有成绩的算术平均（跨评估周期，不加权）
//   - 总均分 = 各科目均分的算术平均（两级均值，各科等权，与成绩条数无关）
//   - 空输入产出 nil（"无数据"与"零分"必须可区分）
package report

import "github.com/drcvmx/school-system/internal/model"

// PassingThreshold 及格线（含）
const PassingThreshold = 7.0

// Average 算术平均；空输入返回 nil，而不是 0 或 NaN
func Average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

// IsPassing 判断分数是否达到及格线
func IsPassing(value float64) bool {
	return value >= PassingThreshold
}

// SubjectGrade 单条成绩的科目归属
type SubjectGrade struct {
	SubjectID   string
	SubjectName string
	Value       float64
}

// SubjectAverage 科目均分
type SubjectAverage struct {
	SubjectID   string
	SubjectName string
	Average     float64
}

// PerSubjectAverages 按科目聚合均分，保持科目在输入中的首次出现顺序
func PerSubjectAverages(grades []SubjectGrade) []SubjectAverage {
	var order []string
	names := make(map[string]string)
	values := make(map[string][]float64)

	for _, g := range grades {
		if _, seen := values[g.SubjectID]; !seen {
			order = append(order, g.SubjectID)
			names[g.SubjectID] = g.SubjectName
		}
		values[g.SubjectID] = append(values[g.SubjectID], g.Value)
	}

	result := make([]SubjectAverage, 0, len(order))
	for _, id := range order {
		avg := Average(values[id])
		result = append(result, SubjectAverage{
			SubjectID:   id,
			SubjectName: names[id],
			Average:     *avg,
		})
	}
	return result
}

// OverallAverage 总均分 = 科目均分的均值；无科目时返回 nil
func OverallAverage(subjects []SubjectAverage) *float64 {
	values := make([]float64, 0, len(subjects))
	for _, s := range subjects {
		values = append(values, s.Average)
	}
	return Average(values)
}

// BestSubject 均分最高的科目；并列时取输入顺序靠前者，空输入返回 nil
func BestSubject(subjects []SubjectAverage) *SubjectAverage {
	if len(subjects) == 0 {
		return nil
	}
	best := subjects[0]
	for _, s := range subjects[1:] {
		if s.Average > best.Average {
			best = s
		}
	}
	return &best
}

// SubjectResult 成绩单中的单科结果；Average 为 nil 表示该科尚无成绩
type SubjectResult struct {
	SubjectID   string   `json:"subject_id"`
	SubjectName string   `json:"subject_name"`
	Average     *float64 `json:"average"`
}

// ReportCard 成绩单视图模型（派生数据，不落库）
type ReportCard struct {
	StudentID      string          `json:"student_id"`
	StudentName    string          `json:"student_name"`
	GroupLabel     string          `json:"group_label"`
	SchoolCycleID  string          `json:"school_cycle_id"`
	CycleLabel     string          `json:"cycle_label"`
	Subjects       []SubjectResult `json:"subjects"`
	OverallAverage *float64        `json:"overall_average"`
}

// Assemble 将成绩单视图的平铺行装配为按学生分组的成绩单。
//
//   - 学生顺序与科目顺序均保持输入中的首次出现顺序，结果可确定性复算
//   - 同一学生×科目出现多行（多评估周期）时取各行均值，而不是最后一行
//   - 总均分按 OverallAverage 口径计算，仅统计已有成绩的科目
func Assemble(rows []model.ReportCardRow) []ReportCard {
	var studentOrder []string
	byStudent := make(map[string][]model.ReportCardRow)

	for _, row := range rows {
		if _, seen := byStudent[row.StudentID]; !seen {
			studentOrder = append(studentOrder, row.StudentID)
		}
		byStudent[row.StudentID] = append(byStudent[row.StudentID], row)
	}

	cards := make([]ReportCard, 0, len(studentOrder))
	for _, studentID := range studentOrder {
		items := byStudent[studentID]
		first := items[0]

		var subjectOrder []string
		subjectNames := make(map[string]string)
		subjectValues := make(map[string][]float64)

		for _, item := range items {
			if _, seen := subjectNames[item.SubjectID]; !seen {
				subjectOrder = append(subjectOrder, item.SubjectID)
				subjectNames[item.SubjectID] = item.SubjectName
			}
			if item.SubjectAverage != nil {
				subjectValues[item.SubjectID] = append(subjectValues[item.SubjectID], *item.SubjectAverage)
			}
		}

		subjects := make([]SubjectResult, 0, len(subjectOrder))
		var known []SubjectAverage
		for _, subjectID := range subjectOrder {
			avg := Average(subjectValues[subjectID])
			subjects = append(subjects, SubjectResult{
				SubjectID:   subjectID,
				SubjectName: subjectNames[subjectID],
				Average:     avg,
			})
			if avg != nil {
				known = append(known, SubjectAverage{SubjectID: subjectID, Average: *avg})
			}
		}

		cards = append(cards, ReportCard{
			StudentID:      studentID,
			StudentName:    first.StudentName,
			GroupLabel:     first.GroupLabel,
			SchoolCycleID:  first.SchoolCycleID,
			CycleLabel:     first.CycleLabel,
			Subjects:       subjects,
			OverallAverage: OverallAverage(known),
		})
	}

	return cards
}
