package catalog

import "errors"

var (
	ErrNotFound        = errors.New("catalog: not found")
	ErrDuplicateCourse = errors.New("catalog: course already exists")
	ErrInvalidInput    = errors.New("catalog: invalid input")
)

// Course is a catalog entry. JSON field names follow the wire contract the
// web client consumes.
type Course struct {
	CourseID        int64   `json:"CourseID"`
	Title           string  `json:"CourseTitle"`
	Category        string  `json:"Category,omitempty"`
	Description     string  `json:"Description"`
	Instructor      string  `json:"Instructor,omitempty"`
	Duration        string  `json:"Duration"`
	DifficultyLevel string  `json:"DifficultyLevel,omitempty"`
	Prerequisites   string  `json:"PreRequisites,omitempty"`
	Tags            string  `json:"Tags,omitempty"`
	Rating          float64 `json:"CourseRating,omitempty"`
}

// Interaction records one user's engagement with one course.
type Interaction struct {
	ID          string             `json:"id"`
	UserID      string             `json:"UserID"`
	CourseID    int64              `json:"CourseID"`
	Progress    float64            `json:"CourseProgress"`
	TimeSpent   float64            `json:"TimeSpent"`
	QuizScores  map[string]float64 `json:"QuizScores,omitempty"`
	TotalClicks int64              `json:"TotalClicks"`
	Feedback    string             `json:"Feedback,omitempty"`
}

// Validate checks the fields required to list a course.
func (c *Course) Validate() error {
	if c.CourseID <= 0 {
		return ErrInvalidInput
	}
	if c.Title == "" || c.Description == "" || c.Duration == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks the fields required to record an interaction.
func (i *Interaction) Validate() error {
	if i.UserID == "" || i.CourseID <= 0 {
		return ErrInvalidInput
	}
	return nil
}
