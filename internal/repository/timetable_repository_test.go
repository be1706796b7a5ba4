package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var runColumns = []string{"id", "academic_year", "semester", "status", "stats", "error_message", "created_at", "finished_at"}

func TestTimetableRunRepositoryLifecycle(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTimetableRunRepository(db)

	mock.ExpectExec("INSERT INTO timetable_runs").
		WithArgs("run-1", 2025, 1, "RUNNING", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	run := &models.TimetableRun{ID: "run-1", AcademicYear: 2025, Semester: 1, Status: models.TimetableRunRunning}
	require.NoError(t, repo.Create(context.Background(), nil, run))
	assert.False(t, run.CreatedAt.IsZero())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetable_runs SET status = ?, stats = ?, error_message = ?, finished_at = ? WHERE id = ?")).
		WithArgs("ACTIVE", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	finished := time.Now()
	run.Status = models.TimetableRunActive
	run.FinishedAt = &finished
	require.NoError(t, repo.UpdateStatus(context.Background(), nil, run))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_runs WHERE status = 'ACTIVE' AND id <> $1")).
		WithArgs("run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteActiveExcept(context.Background(), nil, "run-1"))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_runs WHERE status = 'ACTIVE' ORDER BY created_at DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows(runColumns).AddRow("run-1", 2025, 1, "ACTIVE", `{"assigned":3}`, nil, now, now))
	active, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TimetableRunActive, active.Status)
	require.NotNil(t, active.FinishedAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_runs WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSlotRepositoryInsertAndList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTimetableSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_slots")).
		WillReturnResult(sqlmock.NewResult(0, 10))
	require.NoError(t, repo.DeleteAll(context.Background(), nil))

	mock.ExpectExec("INSERT INTO timetable_slots").
		WithArgs(
			sqlmock.AnyArg(), "run-1", "Monday", "9:00 AM", "t1", "math", "g1", "r1", sqlmock.AnyArg(),
			sqlmock.AnyArg(), "run-1", "Monday", "10:00 AM", "t1", "math", "g1", "r1", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	slots := []models.TimetableSlot{
		{TimetableRunID: "run-1", DayName: "Monday", TimeSlotName: "9:00 AM", TeacherID: "t1", SubjectID: "math", StudentGroupID: "g1", ClassroomID: "r1"},
		{TimetableRunID: "run-1", DayName: "Monday", TimeSlotName: "10:00 AM", TeacherID: "t1", SubjectID: "math", StudentGroupID: "g1", ClassroomID: "r1"},
	}
	require.NoError(t, repo.InsertBatch(context.Background(), nil, slots))
	assert.NotEmpty(t, slots[0].ID)
	assert.NotEqual(t, slots[0].ID, slots[1].ID)
	require.NoError(t, repo.InsertBatch(context.Background(), nil, nil))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ts.timetable_run_id = $1 AND ts.student_group_id = $2 AND ts.teacher_id = $3 ORDER BY g.name ASC")).
		WithArgs("run-1", "g1", "t1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "timetable_run_id", "day_name", "time_slot_name", "teacher_id", "subject_id", "student_group_id", "classroom_id", "created_at",
			"teacher_name", "subject_name", "student_group_name", "classroom_name",
		}).AddRow("s1", "run-1", "Monday", "9:00 AM", "t1", "math", "g1", "r1", now, "Ada", "Mathematics", "X-1", "Lab"))

	detail, err := repo.ListDetailed(context.Background(), "run-1", models.TimetableSlotFilter{StudentGroupID: "g1", TeacherID: "t1"})
	require.NoError(t, err)
	require.Len(t, detail, 1)
	assert.Equal(t, "Ada", detail[0].TeacherName)
	assert.Equal(t, "Lab", detail[0].ClassroomName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSlotRepositoryInsertBatchSplitsLargeRuns(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTimetableSlotRepository(db)

	perStatement := maxBindParams / slotColumns
	slots := make([]models.TimetableSlot, perStatement+1)
	for i := range slots {
		slots[i] = models.TimetableSlot{TimetableRunID: "run-1", DayName: "Monday", TimeSlotName: "9:00 AM", TeacherID: "t1", SubjectID: "math", StudentGroupID: "g1", ClassroomID: "r1"}
	}
	slots[perStatement].StudentGroupID = "g-last"

	mock.ExpectExec("INSERT INTO timetable_slots").
		WillReturnResult(sqlmock.NewResult(0, int64(perStatement)))
	mock.ExpectExec("INSERT INTO timetable_slots").
		WithArgs(sqlmock.AnyArg(), "run-1", "Monday", "9:00 AM", "t1", "math", "g-last", "r1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertBatch(context.Background(), nil, slots))
	assert.NoError(t, mock.ExpectationsWereMet())
}
