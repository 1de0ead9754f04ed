package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"codecrafted.org/internal/audit"
	"codecrafted.org/internal/catalog"
)

func (a *API) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var course catalog.Course
	if err := decodeJSON(w, r, &course); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := course.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "CourseID, CourseTitle, Description and Duration are required")
		return
	}

	if err := a.courses.Create(r.Context(), &course); err != nil {
		if errors.Is(err, catalog.ErrDuplicateCourse) {
			writeError(w, r, http.StatusBadRequest, "Course with the same CourseID already exists")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "catalog.course.created", map[string]any{
		"course_id": course.CourseID,
	})

	writeJSON(w, http.StatusCreated, course)
}

func (a *API) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := a.courses.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if courses == nil {
		courses = []*catalog.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (a *API) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := a.courses.Find(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Course not found"})
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, course)
}
