package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codecrafted.org/internal/recommend"
)

func newRecommendAPI(t *testing.T, upstream http.HandlerFunc) *testEnv {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	rec, err := recommend.New(server.URL)
	if err != nil {
		t.Fatalf("recommend.New: %v", err)
	}
	return newTestAPI(t, func(cfg *Config) {
		cfg.Recommender = rec
	})
}

func TestRecommend(t *testing.T) {
	var gotPayload recommend.Request
	env := newRecommendAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommend" {
			t.Errorf("upstream path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode upstream payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recommendations":[{"CourseID":7}]}`))
	})
	user, _ := env.seedUser(t, "Alice", "alice@example.com", "pass123", "student")

	rec := postJSON(t, env.api.Handler(), "/api/recommend", `{"userId":"`+user.ID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Recommendations []json.RawMessage `json:"recommendations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Recommendations) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(body.Recommendations))
	}

	if gotPayload.UserProfile.UserID != user.ID {
		t.Fatalf("upstream UserID = %q, want %q", gotPayload.UserProfile.UserID, user.ID)
	}
	if gotPayload.UserProfile.AvgRating != 4.0 {
		t.Fatalf("upstream avg_rating = %v, want 4.0", gotPayload.UserProfile.AvgRating)
	}
	if gotPayload.NumRecommendations != 10 || !gotPayload.ExcludeTakenCourses {
		t.Fatalf("upstream request = %+v", gotPayload)
	}
}

func TestRecommendUnknownUser(t *testing.T) {
	env := newRecommendAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for unknown users")
	})

	rec := postJSON(t, env.api.Handler(), "/api/recommend", `{"userId":"ghost"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "User not found" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestRecommendUpstreamFailure(t *testing.T) {
	env := newRecommendAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusInternalServerError)
	})
	user, _ := env.seedUser(t, "Alice", "alice@example.com", "pass123", "student")

	rec := postJSON(t, env.api.Handler(), "/api/recommend", `{"userId":"`+user.ID+`"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want mirrored 500", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Failed to fetch recommendations" || body.Error == "" {
		t.Fatalf("body = %+v", body)
	}
}

func TestRecommendNotConfigured(t *testing.T) {
	env := newTestAPI(t)
	user, _ := env.seedUser(t, "Alice", "alice@example.com", "pass123", "student")

	rec := postJSON(t, env.api.Handler(), "/api/recommend", `{"userId":"`+user.ID+`"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestBatchRecommendForwardsVerbatim(t *testing.T) {
	const payload = `{"users":[{"UserID":"user-1"}],"num_recommendations":3}`
	env := newRecommendAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/batch-recommend" {
			t.Errorf("upstream path = %q", r.URL.Path)
		}
		var got, want any
		body := json.NewDecoder(r.Body)
		if err := body.Decode(&got); err != nil {
			t.Errorf("decode upstream payload: %v", err)
		}
		_ = json.Unmarshal([]byte(payload), &want)
		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(want)
		if string(gotJSON) != string(wantJSON) {
			t.Errorf("payload = %s, want %s", gotJSON, wantJSON)
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	rec := postJSON(t, env.api.Handler(), "/api/batch-recommend", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}
