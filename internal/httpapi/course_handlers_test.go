package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateAndGetCourse(t *testing.T) {
	env := newTestAPI(t)

	rec := postJSON(t, env.api.Handler(), "/api/courses/create",
		`{"CourseID":101,"CourseTitle":"Intro to Go","Description":"Basics","Duration":"6 weeks","Category":"programming"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/courses/course/101", nil)
	rec = httptest.NewRecorder()
	env.api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d, want 200", rec.Code)
	}
	var got struct {
		CourseID int64  `json:"CourseID"`
		Title    string `json:"CourseTitle"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.CourseID != 101 || got.Title != "Intro to Go" {
		t.Fatalf("got %+v", got)
	}
}

func TestCreateCourseValidation(t *testing.T) {
	env := newTestAPI(t)

	rec := postJSON(t, env.api.Handler(), "/api/courses/create",
		`{"CourseID":101,"CourseTitle":"","Description":"Basics","Duration":"6 weeks"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateCourseDuplicate(t *testing.T) {
	env := newTestAPI(t)
	body := `{"CourseID":101,"CourseTitle":"Intro to Go","Description":"Basics","Duration":"6 weeks"}`

	if rec := postJSON(t, env.api.Handler(), "/api/courses/create", body); rec.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d", rec.Code)
	}
	rec := postJSON(t, env.api.Handler(), "/api/courses/create", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: status = %d, want 400", rec.Code)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	env := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/courses/course/9999", nil)
	rec := httptest.NewRecorder()
	env.api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Course not found" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestListCoursesEmpty(t *testing.T) {
	env := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/courses/", nil)
	rec := httptest.NewRecorder()
	env.api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("expected a JSON array, got %s", rec.Body.String())
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(got))
	}
}

func TestCreateInteraction(t *testing.T) {
	env := newTestAPI(t)

	rec := postJSON(t, env.api.Handler(), "/api/interactions/",
		`{"UserID":"user-1","CourseID":101,"CourseProgress":0.5,"TimeSpent":120,"TotalClicks":42}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var got struct {
		ID       string `json:"id"`
		UserID   string `json:"UserID"`
		CourseID int64  `json:"CourseID"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID == "" || got.UserID != "user-1" || got.CourseID != 101 {
		t.Fatalf("got %+v", got)
	}
}

func TestCreateInteractionValidation(t *testing.T) {
	env := newTestAPI(t)

	rec := postJSON(t, env.api.Handler(), "/api/interactions/",
		`{"CourseID":101}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
