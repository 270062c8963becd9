package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medconnect/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/", StaticToken(token))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New("/api", nil); err == nil {
		t.Error("expected error for a relative base url")
	}
}

func TestBearerAndQuery(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		_, _ = io.WriteString(w, `[{"_id":"U1","name":"Rao","email":"rao@example.com","role":"doctor"}]`)
	}, "tok")

	users, err := c.SearchUsers(context.Background(), "heart & lungs")
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/users/search" || gotQuery != "heart & lungs" {
		t.Errorf("path %q query %q", gotPath, gotQuery)
	}
	if len(users) != 1 || users[0].ID != "U1" || users[0].Role != models.RoleDoctor {
		t.Errorf("users = %+v", users)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var sawAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = io.WriteString(w, `[]`)
	}, "")
	if _, err := c.Users(context.Background()); err != nil {
		t.Fatalf("Users: %v", err)
	}
	if sawAuth {
		t.Error("Authorization sent without a token")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{"message", 409, `{"status":409,"message":"This time slot is already booked","code":"SLOT_TAKEN"}`, "This time slot is already booked", "SLOT_TAKEN"},
		{"error key", 401, `{"error":"Invalid token"}`, "Invalid token", ""},
		{"html", 502, `<html>bad gateway</html>`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "tok")

			_, err := c.UpdateAppointmentStatus(context.Background(), "A1", models.StatusConfirmed)
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Message != tt.wantMsg || apiErr.Code != tt.wantCode {
				t.Errorf("error = %+v", apiErr)
			}
			want := tt.wantMsg
			if want == "" {
				want = "fallback"
			}
			if got := MessageOr(err, "fallback"); got != want {
				t.Errorf("MessageOr = %q, want %q", got, want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Health record not found"}`)
	}, "tok")
	_, err := c.HealthRecord(context.Background(), "A1")
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound on a plain error")
	}
}

func TestAllAppointmentsUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"appointments":[{"_id":"A1","date":"2025-01-10","timeSlot":"09:00 AM - 10:00 AM","status":"pending","doctor":{"_id":"D1","name":"Rao"}}]}`)
	}, "tok")
	got, err := c.AllAppointments(context.Background())
	if err != nil {
		t.Fatalf("AllAppointments: %v", err)
	}
	if len(got) != 1 || got[0].ID != "A1" || got[0].DoctorName() != "Rao" {
		t.Errorf("appointments = %+v", got)
	}
}

func TestApplyDoctorMultipart(t *testing.T) {
	var fields map[string]string
	var file string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, _, err := r.FormFile("certificate")
		if err == nil {
			raw, _ := io.ReadAll(f)
			file = string(raw)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Application submitted"}`)
	}, "tok")

	msg, err := c.ApplyDoctor(context.Background(), DoctorApplication{
		Specialization:   "Cardiology",
		RegisterNumber:   "123456",
		ConsultingCenter: "City Clinic",
		ConsultingPlace:  "Kochi",
		CertificateName:  "cert.pdf",
		Certificate:      strings.NewReader("%PDF"),
	})
	if err != nil {
		t.Fatalf("ApplyDoctor: %v", err)
	}
	if msg != "Application submitted" {
		t.Errorf("message = %q", msg)
	}
	if fields["registerNumber"] != "123456" || fields["consultingPlace"] != "Kochi" {
		t.Errorf("fields = %v", fields)
	}
	if file != "%PDF" {
		t.Errorf("certificate = %q", file)
	}
}
