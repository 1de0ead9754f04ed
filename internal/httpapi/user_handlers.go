package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"codecrafted.org/internal/audit"
	"codecrafted.org/internal/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Message string    `json:"message"`
	User    auth.User `json:"user"`
	Token   string    `json:"token"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || strings.TrimSpace(req.Role) == "" {
		writeError(w, r, http.StatusBadRequest, "All fields (name, email, password, role) are required")
		return
	}

	session, err := a.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			writeError(w, r, http.StatusBadRequest, "User with the same email already exists")
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "role must be either teacher or student")
		default:
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.user.registered", map[string]any{
		"user_id": session.User.ID,
		"role":    session.User.Role,
	})

	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "User created successfully",
		User:    session.User,
		Token:   session.Token,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrInvalidCredential):
			writeError(w, r, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "email and password are required")
		default:
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.user.login", map[string]any{
		"user_id": session.User.ID,
	})

	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Login successful",
		User:    session.User,
		Token:   session.Token,
	})
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]auth.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Redacted())
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user.Redacted())
}

type updateUserRequest struct {
	Name             *string  `json:"name"`
	EducationLevel   *string  `json:"education_level"`
	SkillsInterests  *string  `json:"skills_interests"`
	EnrolledCourses  *[]int64 `json:"enrolled_courses"`
	CompletedCourses *[]int64 `json:"completed_courses"`
}

// handleUpdateUser updates profile fields. Email and role are immutable:
// the request shape has no way to express them and the store never writes
// them.
func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.EducationLevel != nil {
		user.EducationLevel = *req.EducationLevel
	}
	if req.SkillsInterests != nil {
		user.SkillsInterests = *req.SkillsInterests
	}
	if req.EnrolledCourses != nil {
		user.EnrolledCourses = *req.EnrolledCourses
	}
	if req.CompletedCourses != nil {
		user.CompletedCourses = *req.CompletedCourses
	}

	if err := a.users.Update(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user.Redacted(),
	})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.user.deleted", map[string]any{
		"target_user_id": id,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully",
	})
}
