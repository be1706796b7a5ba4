package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeacherRepository reads teachers and their teachable subjects.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository instantiates the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = `id, email, full_name, active, created_at, updated_at`

// FindByID retrieves a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ListActiveWithSubjects returns active teachers ordered by creation, each
// with subjects in assignment order. Subjects that no longer exist are
// dropped by the join.
func (r *TeacherRepository) ListActiveWithSubjects(ctx context.Context) ([]models.TeacherWithSubjects, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE active = TRUE ORDER BY created_at ASC, id ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list active teachers: %w", err)
	}
	if len(teachers) == 0 {
		return nil, nil
	}

	const subjectsQuery = `SELECT ts.teacher_id, ts.subject_id, s.name AS subject_name, ts.position
FROM teacher_subjects ts
JOIN subjects s ON s.id = ts.subject_id
JOIN teachers t ON t.id = ts.teacher_id
WHERE t.active = TRUE
ORDER BY ts.teacher_id ASC, ts.position ASC`
	var links []models.TeacherSubject
	if err := r.db.SelectContext(ctx, &links, subjectsQuery); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}

	byTeacher := make(map[string][]models.TeacherSubject, len(teachers))
	for _, link := range links {
		byTeacher[link.TeacherID] = append(byTeacher[link.TeacherID], link)
	}

	result := make([]models.TeacherWithSubjects, 0, len(teachers))
	for _, teacher := range teachers {
		result = append(result, models.TeacherWithSubjects{Teacher: teacher, Subjects: byTeacher[teacher.ID]})
	}
	return result, nil
}
