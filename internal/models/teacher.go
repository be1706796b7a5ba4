package models

import "time"

// Teacher represents an instructor eligible for timetable allocation.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherSubject links a teacher to a subject they teach. Position keeps the
// order in which subjects were assigned.
type TeacherSubject struct {
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	SubjectID   string `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Position    int    `db:"position" json:"position"`
}

// TeacherWithSubjects bundles a teacher with their ordered subjects.
type TeacherWithSubjects struct {
	Teacher
	Subjects []TeacherSubject `json:"subjects"`
}
