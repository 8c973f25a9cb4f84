package metadata

import (
	"strings"
	"unicode/utf8"
)

// bodyPrefixes 把邮件正文中固定的行前缀映射到GradingMetadata的字段。
// 前缀匹配是行定位且大小写敏感的；不认识的行会被直接跳过。
var bodyPrefixes = []struct {
	prefix string
	assign func(m *GradingMetadata, value string)
}{
	{"Student Name:", func(m *GradingMetadata, v string) { m.StudentName = v }},
	{"Student Number:", func(m *GradingMetadata, v string) { m.StudentNumber = v }},
	{"Student Email:", func(m *GradingMetadata, v string) { m.StudentEmail = v }},
	{"Course Code:", func(m *GradingMetadata, v string) { m.CourseCode = v }},
	{"Assignment:", func(m *GradingMetadata, v string) { m.Assignment = v }},
	{"Section Number:", func(m *GradingMetadata, v string) { m.SectionNumber = v }},
	{"Professor:", func(m *GradingMetadata, v string) { m.ProfessorName = v }},
	{"Professor Email:", func(m *GradingMetadata, v string) { m.ProfessorEmail = v }},
}

// ExtractFromBody 从邮件的纯文本正文中提取批改元数据。
// 解析是尽力而为的：单行的问题只产生警告，绝不让整封邮件的解析失败；
// 同一前缀出现多次时，后出现的值覆盖先出现的值。
func ExtractFromBody(body string) (GradingMetadata, []string) {
	var m GradingMetadata
	var warnings []string

	if body == "" {
		return m, warnings
	}
	if !utf8.ValidString(body) {
		// 正文无法完整解码时依然继续逐行解析，只记录一条警告。
		warnings = append(warnings, "正文包含无法解码的字节序列")
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, p := range bodyPrefixes {
			if strings.HasPrefix(line, p.prefix) {
				p.assign(&m, strings.TrimSpace(line[len(p.prefix):]))
				break
			}
		}
	}

	m.Raw = m.StorageMap()
	return m, warnings
}
