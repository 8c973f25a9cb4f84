package metadata

import "strings"

// storagePrefix 是存储系统给用户元数据键加上的前缀。
// 同一个逻辑字段可能以带前缀或裸键两种形式出现，两者必须解析到同一字段。
const storagePrefix = "x-amz-meta-"

// Normalize 把对象头部携带的元数据映射规范化为GradingMetadata。
// 键比较不区分大小写，带前缀的形式优先于裸键；
// 规范化在摄取路径上只做一次，调用方拿到的就是规范字段记录。
func Normalize(stored map[string]string) GradingMetadata {
	lower := make(map[string]string, len(stored))
	for k, v := range stored {
		lower[strings.ToLower(k)] = v
	}

	value := func(key string) string {
		if v, ok := lower[storagePrefix+key]; ok {
			return v
		}
		return lower[key]
	}

	raw := make(map[string]string, len(stored))
	for k, v := range stored {
		raw[k] = v
	}

	return GradingMetadata{
		StudentName:    value(keyStudentName),
		StudentNumber:  value(keyStudentNumber),
		StudentEmail:   value(keyStudentEmail),
		CourseCode:     value(keyCourseCode),
		Assignment:     value(keyAssignment),
		SectionNumber:  value(keySectionNumber),
		ProfessorName:  value(keyProfessorName),
		ProfessorEmail: value(keyProfessorEmail),
		OverallGrade:   value(keyOverallGrade),
		Raw:            raw,
	}
}
