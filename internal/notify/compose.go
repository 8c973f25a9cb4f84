package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/SlpAus/grade-relay-backend/internal/metadata"
)

// reportRows 把一次批改结果按固定顺序展开成"条目-内容"行。
// 纯文本和HTML两种渲染共用同一份行数据，保证两个版本的内容同步。
func reportRows(m metadata.GradingMetadata, identifier string) [][2]string {
	return [][2]string{
		{"Student Name", m.StudentName},
		{"Student ID", m.StudentNumber},
		{"Student Email", m.StudentEmail},
		{"Course Code", m.CourseCode},
		{"Assignment", m.Assignment},
		{"Overall Grade", m.OverallGrade},
		{"Section Number", m.SectionNumber},
		{"Professor", m.ProfessorName},
		{"Professor Email", m.ProfessorEmail},
		{"Object Key", identifier},
	}
}

// composeText 渲染通知的纯文本版本。
func composeText(m metadata.GradingMetadata, identifier, downloadURL string) string {
	var b strings.Builder
	b.WriteString("Assignment Grading Report\n")
	for _, row := range reportRows(m, identifier) {
		fmt.Fprintf(&b, "%s: %s\n", row[0], row[1])
	}
	fmt.Fprintf(&b, "Download Link: %s\n", downloadURL)
	return b.String()
}

// composeHTML 渲染通知的HTML表格版本。
func composeHTML(m metadata.GradingMetadata, identifier, downloadURL string) string {
	var b strings.Builder
	b.WriteString("<html>\n<head></head>\n<body>\n")
	b.WriteString("<h1>Assignment Grading Report</h1>\n")
	b.WriteString("<table border=\"1\">\n<tr><th>Item</th><th>Detail</th></tr>\n")
	for _, row := range reportRows(m, identifier) {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n", row[0], html.EscapeString(row[1]))
	}
	fmt.Fprintf(&b, "<tr><td>Download Link</td><td><a href=%q>Download Graded Assignment</a></td></tr>\n", downloadURL)
	b.WriteString("</table>\n</body>\n</html>")
	return b.String()
}
