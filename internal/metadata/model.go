package metadata

import (
	"fmt"
	"strings"
)

// GradingMetadata 是一封批改邮件携带的全部结构化字段。
// 字段以具名成员而不是自由映射的形式存在，使必填项检查可以静态表达；
// Raw 保留原始的键值映射，用于台账中的取证副本。
type GradingMetadata struct {
	StudentName    string
	StudentNumber  string
	StudentEmail   string
	CourseCode     string
	Assignment     string
	SectionNumber  string
	ProfessorName  string
	ProfessorEmail string
	OverallGrade   string

	// Raw 是未经规范化的原始元数据映射
	Raw map[string]string
}

// 存储系统中使用的规范字段键。
// 这些键以小写形式参与规范化比较；OverallGrade沿用了历史上不带连字符的写法。
const (
	keyStudentName    = "student-name"
	keyStudentNumber  = "student-number"
	keyStudentEmail   = "student-email"
	keyCourseCode     = "course-code"
	keyAssignment     = "assignment"
	keySectionNumber  = "section-number"
	keyProfessorName  = "professor"
	keyProfessorEmail = "professor-email"
	keyOverallGrade   = "overallgrade"
)

// ValidationError 表示必填元数据字段缺失。
// 它在任何副作用（存储写入、台账写入、通知）发生之前被抛出。
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("必填元数据字段缺失: %s", strings.Join(e.Missing, ", "))
}

// Validate 检查学生邮箱和教授邮箱是否存在。
// 缺失时返回*ValidationError，并列出全部缺失的字段名。
func (m *GradingMetadata) Validate() error {
	var missing []string
	if m.StudentEmail == "" {
		missing = append(missing, keyStudentEmail)
	}
	if m.ProfessorEmail == "" {
		missing = append(missing, keyProfessorEmail)
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// StorageMap 把元数据转换成附着在暂存对象上的用户元数据映射。
// 只包含非空字段，键使用存储系统的规范写法。
func (m *GradingMetadata) StorageMap() map[string]string {
	out := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	put("Student-Name", m.StudentName)
	put("Student-Number", m.StudentNumber)
	put("Student-Email", m.StudentEmail)
	put("Course-Code", m.CourseCode)
	put("Assignment", m.Assignment)
	put("Section-Number", m.SectionNumber)
	put("Professor", m.ProfessorName)
	put("Professor-Email", m.ProfessorEmail)
	put("OverallGrade", m.OverallGrade)
	return out
}
