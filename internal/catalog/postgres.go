package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"codecrafted.org/internal/ids"
)

const uniqueViolation = "23505"

var (
	_ CourseStore      = (*PGCourseStore)(nil)
	_ InteractionStore = (*PGInteractionStore)(nil)
)

// PGCourseStore implements CourseStore using PostgreSQL. course_id is the
// primary key, so duplicate catalog entries fail at the storage layer.
type PGCourseStore struct {
	db *sql.DB
}

func NewPGCourseStore(db *sql.DB) *PGCourseStore {
	return &PGCourseStore{db: db}
}

func (s *PGCourseStore) Create(ctx context.Context, c *Course) error {
	_, err := s.db.ExecContext(ctx,
		`insert into courses(course_id, title, category, description, instructor, duration, difficulty_level, prerequisites, tags, rating)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.CourseID, c.Title, c.Category, c.Description, c.Instructor,
		c.Duration, c.DifficultyLevel, c.Prerequisites, c.Tags, c.Rating,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCourse
	}
	return err
}

func (s *PGCourseStore) Find(ctx context.Context, courseID int64) (*Course, error) {
	row := s.db.QueryRowContext(ctx, selectCourse+` where course_id=$1`, courseID)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *PGCourseStore) List(ctx context.Context) ([]*Course, error) {
	rows, err := s.db.QueryContext(ctx, selectCourse+` order by course_id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

const selectCourse = `select course_id, title, category, description, instructor, duration, difficulty_level, prerequisites, tags, rating from courses`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*Course, error) {
	var c Course
	if err := row.Scan(
		&c.CourseID, &c.Title, &c.Category, &c.Description, &c.Instructor,
		&c.Duration, &c.DifficultyLevel, &c.Prerequisites, &c.Tags, &c.Rating,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// PGInteractionStore implements InteractionStore using PostgreSQL.
type PGInteractionStore struct {
	db *sql.DB
}

func NewPGInteractionStore(db *sql.DB) *PGInteractionStore {
	return &PGInteractionStore{db: db}
}

func (s *PGInteractionStore) Create(ctx context.Context, i *Interaction) error {
	if i.ID == "" {
		i.ID = ids.New()
	}
	scores, _ := json.Marshal(i.QuizScores)
	_, err := s.db.ExecContext(ctx,
		`insert into interactions(id, user_id, course_id, progress, time_spent, quiz_scores, total_clicks, feedback)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		i.ID, i.UserID, i.CourseID, i.Progress, i.TimeSpent, scores, i.TotalClicks, i.Feedback,
	)
	return err
}

func (s *PGInteractionStore) List(ctx context.Context) ([]*Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, course_id, progress, time_spent, quiz_scores, total_clicks, feedback from interactions order by id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Interaction
	for rows.Next() {
		var (
			i      Interaction
			scores []byte
		)
		if err := rows.Scan(&i.ID, &i.UserID, &i.CourseID, &i.Progress, &i.TimeSpent, &scores, &i.TotalClicks, &i.Feedback); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(scores, &i.QuizScores)
		items = append(items, &i)
	}
	return items, rows.Err()
}

func (s *PGInteractionStore) CoursesTaken(ctx context.Context, userID string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`select distinct course_id from interactions where user_id=$1 order by course_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courseIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		courseIDs = append(courseIDs, id)
	}
	return courseIDs, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
