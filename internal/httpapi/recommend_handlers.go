package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"codecrafted.org/internal/auth"
	"codecrafted.org/internal/recommend"
)

type recommendRequest struct {
	UserID string `json:"userId"`
}

// Profile rating sent to the recommender when no per-user rating exists yet.
const defaultProfileRating = 4.0

const defaultRecommendationCount = 10

func (a *API) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if a.rec == nil {
		writeError(w, r, http.StatusServiceUnavailable, "recommendation service is not configured")
		return
	}
	var req recommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "userId is required")
		return
	}

	user, err := a.users.Find(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	body, err := a.rec.Recommend(r.Context(), recommend.Request{
		UserProfile: recommend.UserProfile{
			UserID:            user.ID,
			TotalCoursesTaken: len(user.CompletedCourses),
			AvgRating:         defaultProfileRating,
		},
		CandidateCourseIDs:  []int64{},
		NumRecommendations:  defaultRecommendationCount,
		ExcludeTakenCourses: true,
	})
	if err != nil {
		upstreamFailure(w, "Failed to fetch recommendations", err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (a *API) handleBatchRecommend(w http.ResponseWriter, r *http.Request) {
	if a.rec == nil {
		writeError(w, r, http.StatusServiceUnavailable, "recommendation service is not configured")
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	body, err := a.rec.BatchRecommend(r.Context(), payload)
	if err != nil {
		upstreamFailure(w, "Failed to fetch batch recommendations", err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// upstreamFailure mirrors the recommender's status when it answered, and
// reports a bad gateway when it did not.
func upstreamFailure(w http.ResponseWriter, msg string, err error) {
	status := http.StatusBadGateway
	var ue *recommend.UpstreamError
	if errors.As(err, &ue) {
		status = ue.StatusCode
	}
	writeJSON(w, status, map[string]any{
		"message": msg,
		"error":   err.Error(),
	})
}

func writeRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
