package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"codecrafted.org/internal/ids"
)

const uniqueViolation = "23505"

var _ UserStore = (*PGUserStore)(nil)

// PGUserStore implements UserStore using PostgreSQL. The users table carries
// a unique index on email, so Create reports ErrDuplicateEmail even when two
// signups race past the application-level existence check.
type PGUserStore struct {
	db *sql.DB
}

func NewPGUserStore(db *sql.DB) *PGUserStore {
	return &PGUserStore{db: db}
}

func (s *PGUserStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	enrolled, _ := json.Marshal(u.EnrolledCourses)
	completed, _ := json.Marshal(u.CompletedCourses)
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, name, email, password_hash, role, education_level, skills_interests, enrolled_courses, completed_courses)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role,
		u.EducationLevel, u.SkillsInterests, enrolled, completed,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *PGUserStore) Find(ctx context.Context, id string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, selectUser+` where id=$1`, id))
}

func (s *PGUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, selectUser+` where email=$1`, email))
}

func (s *PGUserStore) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, selectUser+` order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update persists profile fields. Email and role are immutable here: the
// statement never touches them.
func (s *PGUserStore) Update(ctx context.Context, u *User) error {
	enrolled, _ := json.Marshal(u.EnrolledCourses)
	completed, _ := json.Marshal(u.CompletedCourses)
	res, err := s.db.ExecContext(ctx,
		`update users set name=$2, education_level=$3, skills_interests=$4,
		 enrolled_courses=$5, completed_courses=$6, updated_at=now()
		 where id=$1`,
		u.ID, u.Name, u.EducationLevel, u.SkillsInterests, enrolled, completed,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGUserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const selectUser = `select id, name, email, password_hash, role, education_level, skills_interests, enrolled_courses, completed_courses, created_at, updated_at from users`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PGUserStore) scanOne(row rowScanner) (*User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u         User
		enrolled  []byte
		completed []byte
	)
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.EducationLevel, &u.SkillsInterests, &enrolled, &completed,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	_ = json.Unmarshal(enrolled, &u.EnrolledCourses)
	_ = json.Unmarshal(completed, &u.CompletedCourses)
	return &u, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
