package catalog

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newCourseStore(t *testing.T) (*PGCourseStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPGCourseStore(db), mock
}

func TestCourseStoreCreate(t *testing.T) {
	store, mock := newCourseStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`insert into courses`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &Course{CourseID: 101, Title: "Intro to Go", Description: "Basics", Duration: "6 weeks"}
	if err := store.Create(context.Background(), course); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCourseStoreCreateDuplicate(t *testing.T) {
	store, mock := newCourseStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`insert into courses`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	course := &Course{CourseID: 101, Title: "Intro to Go", Description: "Basics", Duration: "6 weeks"}
	err := store.Create(context.Background(), course)
	if !errors.Is(err, ErrDuplicateCourse) {
		t.Fatalf("err = %v, want ErrDuplicateCourse", err)
	}
}

func TestCourseStoreFindNotFound(t *testing.T) {
	store, mock := newCourseStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`where course_id=$1`)).
		WithArgs(int64(9999)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Find(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCourseStoreFind(t *testing.T) {
	store, mock := newCourseStore(t)

	rows := sqlmock.NewRows([]string{
		"course_id", "title", "category", "description", "instructor",
		"duration", "difficulty_level", "prerequisites", "tags", "rating",
	}).AddRow(int64(101), "Intro to Go", "programming", "Basics", "Alice",
		"6 weeks", "beginner", "", "go,backend", 4.5)
	mock.ExpectQuery(regexp.QuoteMeta(`where course_id=$1`)).
		WithArgs(int64(101)).
		WillReturnRows(rows)

	course, err := store.Find(context.Background(), 101)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if course.CourseID != 101 || course.Title != "Intro to Go" || course.Rating != 4.5 {
		t.Fatalf("course = %+v", course)
	}
}

func TestInteractionStoreCoursesTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := NewPGInteractionStore(db)

	rows := sqlmock.NewRows([]string{"course_id"}).
		AddRow(int64(101)).
		AddRow(int64(205))
	mock.ExpectQuery(regexp.QuoteMeta(`select distinct course_id from interactions`)).
		WithArgs("user-1").
		WillReturnRows(rows)

	taken, err := store.CoursesTaken(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CoursesTaken: %v", err)
	}
	if len(taken) != 2 || taken[0] != 101 || taken[1] != 205 {
		t.Fatalf("taken = %v", taken)
	}
}

func TestCourseValidate(t *testing.T) {
	valid := Course{CourseID: 1, Title: "T", Description: "D", Duration: "1 week"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid course rejected: %v", err)
	}

	cases := []Course{
		{Title: "T", Description: "D", Duration: "1 week"},
		{CourseID: 1, Description: "D", Duration: "1 week"},
		{CourseID: 1, Title: "T", Duration: "1 week"},
		{CourseID: 1, Title: "T", Description: "D"},
	}
	for i, c := range cases {
		if err := c.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: err = %v, want ErrInvalidInput", i, err)
		}
	}
}
