package metadata

import "testing"

func TestExtractFromBodyRecognizedPrefixes(t *testing.T) {
	body := "Hello grader,\n" +
		"Student Name: Ada Lovelace\r\n" +
		"Student Number:  123456 \n" +
		"Student Email: ada@example.edu\n" +
		"Course Code: CS900\n" +
		"Assignment: Final Report\n" +
		"Section Number: 2\n" +
		"Professor: Grace Hopper\n" +
		"Professor Email: prof@example.edu\n" +
		"Best regards\n"

	m, warnings := ExtractFromBody(body)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	cases := []struct{ name, got, want string }{
		{"StudentName", m.StudentName, "Ada Lovelace"},
		{"StudentNumber", m.StudentNumber, "123456"},
		{"StudentEmail", m.StudentEmail, "ada@example.edu"},
		{"CourseCode", m.CourseCode, "CS900"},
		{"Assignment", m.Assignment, "Final Report"},
		{"SectionNumber", m.SectionNumber, "2"},
		{"ProfessorName", m.ProfessorName, "Grace Hopper"},
		{"ProfessorEmail", m.ProfessorEmail, "prof@example.edu"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestExtractFromBodyIgnoresUnrecognizedLines(t *testing.T) {
	body := "Random chatter\nstudent name: lowercase label is not a match\nStudent Email: a@b.edu\n\nPS: bye"
	m, _ := ExtractFromBody(body)
	if m.StudentName != "" {
		t.Errorf("StudentName = %q, want empty (prefix matching is case-sensitive)", m.StudentName)
	}
	if m.StudentEmail != "a@b.edu" {
		t.Errorf("StudentEmail = %q, want a@b.edu", m.StudentEmail)
	}
}

func TestExtractFromBodyLastOccurrenceWins(t *testing.T) {
	body := "Course Code: CS100\nCourse Code: CS900\n"
	m, _ := ExtractFromBody(body)
	if m.CourseCode != "CS900" {
		t.Errorf("CourseCode = %q, want CS900", m.CourseCode)
	}
}

func TestExtractFromBodyEmptyBody(t *testing.T) {
	m, warnings := ExtractFromBody("")
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(m.StorageMap()) != 0 {
		t.Errorf("StorageMap() = %v, want empty", m.StorageMap())
	}
}

func TestExtractFromBodyUndecodableBytes(t *testing.T) {
	body := "Student Email: a@b.edu\n\xff\xfe\n"
	m, warnings := ExtractFromBody(body)
	if len(warnings) == 0 {
		t.Error("want a decoding warning, got none")
	}
	// 解码问题不中断解析
	if m.StudentEmail != "a@b.edu" {
		t.Errorf("StudentEmail = %q, want a@b.edu", m.StudentEmail)
	}
}

func TestExtractFromBodyFieldOrderIndependent(t *testing.T) {
	forward := "Student Email: a@b.edu\nProfessor Email: p@b.edu\n"
	backward := "Professor Email: p@b.edu\nStudent Email: a@b.edu\n"

	m1, _ := ExtractFromBody(forward)
	m2, _ := ExtractFromBody(backward)
	if m1.StudentEmail != m2.StudentEmail || m1.ProfessorEmail != m2.ProfessorEmail {
		t.Errorf("field extraction depends on line order: %+v vs %+v", m1, m2)
	}
}
