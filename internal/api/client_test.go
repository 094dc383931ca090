package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edupi-school/edupi-client/pkg/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, slog.Default())
}

func TestAdminVerify_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/auth/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"admin": map[string]any{"id": "1", "username": "x"},
		})
	})

	actor, err := c.AdminVerify(context.Background(), "abc")
	if err != nil {
		t.Fatalf("AdminVerify failed: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if actor.Username != "x" {
		t.Errorf("expected username 'x', got %q", actor.Username)
	}
}

func TestAdminVerify_InvalidToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
	})

	_, err := c.AdminVerify(context.Background(), "expired")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid token" {
		t.Errorf("expected message from body, got %q", apiErr.Message)
	}
	if !apiErr.IsAuthError() {
		t.Error("expected IsAuthError for 401")
	}
}

func TestStudentLogin(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/student-auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		json.Unmarshal(body, &req)
		if req["email"] != "ada@example.com" {
			t.Errorf("expected email in body, got %v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token":   "xyz",
			"student": map[string]any{"_id": "stu_2", "studentName": "Ada"},
		})
	})

	token, actor, err := c.StudentLogin(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("StudentLogin failed: %v", err)
	}
	if token != "xyz" {
		t.Errorf("expected token 'xyz', got %q", token)
	}
	if actor.ID() != "stu_2" {
		t.Errorf("expected actor id 'stu_2', got %q", actor.ID())
	}
}

func TestStudentRegister_ValidationError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "email already registered"})
	})

	_, _, err := c.StudentRegister(context.Background(), RegisterRequest{
		StudentName: "Ada", Email: "ada@example.com", Password: "pw",
	})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Message != "email already registered" {
		t.Errorf("expected form-level message, got %q", apiErr.Message)
	}
}

func TestListCourses(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "c1", "title": "Algebra I"},
			{"_id": "c2", "title": "Scratch Basics"},
		})
	})

	courses, err := c.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	if courses[0].Title != "Algebra I" {
		t.Errorf("expected first course 'Algebra I', got %q", courses[0].Title)
	}
}

func TestSubmitAssessment(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/progress/assessment/as1/attempt" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Answers map[string]int `json:"answers"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Answers["q1"] != 2 {
			t.Errorf("expected answer q1=2, got %v", req.Answers)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"assessmentId": "as1", "score": 8, "maxScore": 10, "passed": true,
		})
	})

	result, err := c.SubmitAssessment(context.Background(), "as1", "tok", map[string]int{"q1": 2})
	if err != nil {
		t.Fatalf("SubmitAssessment failed: %v", err)
	}
	if !result.Passed || result.Score != 8 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestDo_NonJSONErrorBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := c.ListCourses(context.Background())
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", apiErr.StatusCode)
	}
}
