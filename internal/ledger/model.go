package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/metadata"
	"gorm.io/datatypes"
)

// Record 是台账中的一行：每个被搬运的归档文档对应一条，只追加，从不更新。
// Identifier 是搬运时生成的匿名键，也是与归档对象之间唯一的关联。
type Record struct {
	Identifier     string `gorm:"primaryKey;type:varchar(64)" json:"identifier"`
	StudentEmail   string `json:"studentEmail"`
	ProfessorEmail string `json:"professorEmail"`
	StudentName    string `json:"studentName"`
	Assignment     string `json:"assignment"`
	StudentNumber  string `json:"studentNumber"`
	CourseCode     string `json:"courseCode"`
	OverallGrade   string `json:"overallGrade"`
	SectionNumber  string `json:"sectionNumber"`
	ProfessorName  string `json:"professorName"`

	// Timestamp 是搬运时刻的ISO-8601字符串
	Timestamp string `json:"timestamp"`

	// RawMetadata 是原始元数据映射的完整序列化副本，仅用于取证
	RawMetadata datatypes.JSON `json:"rawMetadataJson"`
}

// NewRecord 由生成的标识符、规范化的元数据和当前时间构造一条台账记录。
func NewRecord(identifier string, m metadata.GradingMetadata, now time.Time) (*Record, error) {
	rawJSON, err := json.Marshal(m.Raw)
	if err != nil {
		return nil, fmt.Errorf("无法序列化原始元数据: %w", err)
	}

	return &Record{
		Identifier:     identifier,
		StudentEmail:   m.StudentEmail,
		ProfessorEmail: m.ProfessorEmail,
		StudentName:    m.StudentName,
		Assignment:     m.Assignment,
		StudentNumber:  m.StudentNumber,
		CourseCode:     m.CourseCode,
		OverallGrade:   m.OverallGrade,
		SectionNumber:  m.SectionNumber,
		ProfessorName:  m.ProfessorName,
		Timestamp:      now.UTC().Format(time.RFC3339),
		RawMetadata:    rawJSON,
	}, nil
}
