package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medconnect/internal/config"
	"medconnect/internal/models"
	"medconnect/internal/utils"
)

const testSecret = "routes-secret"

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "routes.db"),
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	router := gin.New()
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationMinutes: 60}
	if err := SetupRoutes(router, db, cfg); err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}
	return &testServer{t: t, router: router, db: db}
}

// user inserts an account and returns it with a signed token.
func (s *testServer) user(name string, role models.Role) (*models.User, string) {
	s.t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Mobile: name, Role: role}
	if err := u.SetPassword("password1"); err != nil {
		s.t.Fatalf("SetPassword: %v", err)
	}
	if err := s.db.Create(u).Error; err != nil {
		s.t.Fatalf("create %s: %v", name, err)
	}
	token, err := utils.GenerateToken(u, testSecret, time.Hour)
	if err != nil {
		s.t.Fatalf("GenerateToken: %v", err)
	}
	return u, token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func future(days int) string {
	return time.Now().AddDate(0, 0, days).Format(models.DateLayout)
}

func (s *testServer) book(userID, token, doctorID, date, slot string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/book/appointments/book/"+userID, token, map[string]string{
		"doctorId": doctorID, "date": date, "timeSlot": slot,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	reg := map[string]string{"name": "Meera", "email": "meera@example.com", "mobile": "3000000000", "password": "password1"}

	if w := s.do(http.MethodPost, "/api/auth/register", "", reg); w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodPost, "/api/auth/register", "", reg); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: %d", w.Code)
	}

	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "3000000000", "password": "password1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body)
	}
	out := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, w)
	claims, err := utils.ValidateToken(out.Token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != models.RoleUser || claims.UserID != out.User.ID {
		t.Errorf("claims = %+v", claims)
	}

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "meera@example.com", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(http.MethodGet, "/api/book/my-appointments", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/book/my-appointments", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: %d", w.Code)
	}
	_, token := s.user("meera", models.RoleUser)
	if w := s.do(http.MethodGet, "/api/book/all-appointments", token, nil); w.Code != http.StatusForbidden {
		t.Errorf("non-admin overview: %d", w.Code)
	}
}

func TestBookAppointment(t *testing.T) {
	s := newTestServer(t)
	doctor, _ := s.user("rao", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)
	other, otherToken := s.user("binu", models.RoleUser)
	date := future(3)

	w := s.book(patient.ID, token, doctor.ID, date, models.TimeSlots[0])
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body)
	}
	out := decode[struct {
		Message     string             `json:"message"`
		Appointment models.Appointment `json:"appointment"`
	}](t, w)
	if out.Appointment.Status != models.StatusPending || out.Appointment.DoctorName() != "rao" {
		t.Errorf("appointment = %+v", out.Appointment)
	}

	tests := []struct {
		name   string
		userID string
		token  string
		doctor string
		date   string
		slot   string
		want   int
	}{
		{"slot taken", other.ID, otherToken, doctor.ID, date, models.TimeSlots[0], http.StatusConflict},
		{"other slot", other.ID, otherToken, doctor.ID, date, models.TimeSlots[1], http.StatusCreated},
		{"past date", patient.ID, token, doctor.ID, "2020-01-01", models.TimeSlots[2], http.StatusBadRequest},
		{"bad slot", patient.ID, token, doctor.ID, date, "11:00 AM - 12:00 PM", http.StatusBadRequest},
		{"bad date", patient.ID, token, doctor.ID, "10-01-2025", models.TimeSlots[2], http.StatusBadRequest},
		{"not a doctor", patient.ID, token, other.ID, date, models.TimeSlots[2], http.StatusNotFound},
		{"someone else's account", other.ID, token, doctor.ID, date, models.TimeSlots[3], http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.book(tt.userID, tt.token, tt.doctor, tt.date, tt.slot); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
		})
	}

	w = s.do(http.MethodGet, "/api/book/my-appointments", token, nil)
	mine := decode[[]models.Appointment](t, w)
	if len(mine) != 1 {
		t.Errorf("my appointments = %d, want 1", len(mine))
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	s := newTestServer(t)
	doctor, _ := s.user("rao", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)
	date := future(2)

	w := s.book(patient.ID, token, doctor.ID, date, models.TimeSlots[4])
	id := decode[struct {
		Appointment models.Appointment `json:"appointment"`
	}](t, w).Appointment.ID

	if w := s.do(http.MethodPut, "/api/book/appointments/"+id, token, map[string]string{"status": "cancelled"}); w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body)
	}
	if w := s.book(patient.ID, token, doctor.ID, date, models.TimeSlots[4]); w.Code != http.StatusCreated {
		t.Errorf("rebook: %d %s", w.Code, w.Body)
	}
}

func TestUpdateAppointmentStatus(t *testing.T) {
	s := newTestServer(t)
	doctor, doctorToken := s.user("rao", models.RoleDoctor)
	_, otherDoctorToken := s.user("iyer", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)

	w := s.book(patient.ID, token, doctor.ID, future(1), models.TimeSlots[0])
	id := decode[struct {
		Appointment models.Appointment `json:"appointment"`
	}](t, w).Appointment.ID
	path := "/api/book/appointments/" + id

	steps := []struct {
		name   string
		token  string
		status string
		want   int
	}{
		{"patient cannot confirm", token, "confirmed", http.StatusForbidden},
		{"other doctor", otherDoctorToken, "confirmed", http.StatusForbidden},
		{"unknown status", doctorToken, "done", http.StatusBadRequest},
		{"accept", doctorToken, "confirmed", http.StatusOK},
		{"confirmed cannot be cancelled", token, "cancelled", http.StatusConflict},
		{"reject", doctorToken, "rejected", http.StatusOK},
		{"accept again", doctorToken, "confirmed", http.StatusOK},
	}
	for _, st := range steps {
		w := s.do(http.MethodPut, path, st.token, map[string]string{"status": st.status})
		if w.Code != st.want {
			t.Fatalf("%s: status = %d, want %d: %s", st.name, w.Code, st.want, w.Body)
		}
	}

	var got models.Appointment
	if err := s.db.First(&got, "id = ?", id).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != models.StatusConfirmed {
		t.Errorf("final status = %s", got.Status)
	}
}

func TestHealthRecord(t *testing.T) {
	s := newTestServer(t)
	doctor, doctorToken := s.user("rao", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)
	_, strangerToken := s.user("binu", models.RoleUser)

	w := s.book(patient.ID, token, doctor.ID, future(1), models.TimeSlots[0])
	id := decode[struct {
		Appointment models.Appointment `json:"appointment"`
	}](t, w).Appointment.ID
	path := "/api/book/health-record/" + id
	record := map[string]any{"diseases": []string{"flu"}, "drugs": []string{"paracetamol"}, "notes": "rest"}

	if w := s.do(http.MethodPost, path, doctorToken, record); w.Code != http.StatusBadRequest {
		t.Errorf("record on pending: %d", w.Code)
	}
	if w := s.do(http.MethodGet, path, doctorToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing record: %d", w.Code)
	}

	s.do(http.MethodPut, "/api/book/appointments/"+id, doctorToken, map[string]string{"status": "confirmed"})
	if w := s.do(http.MethodPost, path, doctorToken, record); w.Code != http.StatusOK {
		t.Fatalf("save: %d %s", w.Code, w.Body)
	}
	record["notes"] = "rest and fluids"
	if w := s.do(http.MethodPost, path, doctorToken, record); w.Code != http.StatusOK {
		t.Fatalf("overwrite: %d %s", w.Code, w.Body)
	}

	w = s.do(http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("patient read: %d", w.Code)
	}
	got := decode[models.HealthRecord](t, w)
	if got.Notes != "rest and fluids" || len(got.Diseases) != 1 || got.Diseases[0] != "flu" {
		t.Errorf("record = %+v", got)
	}
	if w := s.do(http.MethodGet, path, strangerToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("stranger read: %d", w.Code)
	}

	var count int64
	s.db.Model(&models.HealthRecord{}).Count(&count)
	if count != 1 {
		t.Errorf("records = %d, want 1", count)
	}
}

func TestAdminAppointments(t *testing.T) {
	s := newTestServer(t)
	doctor, doctorToken := s.user("rao", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)
	_, adminToken := s.user("admin", models.RoleAdmin)

	s.book(patient.ID, token, doctor.ID, future(1), models.TimeSlots[0])
	w := s.book(patient.ID, token, doctor.ID, future(1), models.TimeSlots[1])
	id := decode[struct {
		Appointment models.Appointment `json:"appointment"`
	}](t, w).Appointment.ID

	w = s.do(http.MethodGet, "/api/book/all-appointments", adminToken, nil)
	all := decode[struct {
		Appointments []models.Appointment `json:"appointments"`
	}](t, w).Appointments
	if len(all) != 2 || all[0].TimeSlot != models.TimeSlots[0] {
		t.Fatalf("all = %+v", all)
	}

	if w := s.do(http.MethodDelete, "/api/book/appointment/"+id, doctorToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("doctor delete: %d", w.Code)
	}
	if w := s.do(http.MethodDelete, "/api/book/appointment/"+id, adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("admin delete: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodDelete, "/api/book/appointment/"+id, adminToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/book/doctor/"+doctor.ID, doctorToken, nil)
	if queue := decode[[]models.Appointment](t, w); len(queue) != 1 {
		t.Errorf("queue = %d rows, want 1", len(queue))
	}
}

func TestDoctorVerificationAndUsers(t *testing.T) {
	s := newTestServer(t)
	applicant, applicantToken := s.user("rao", models.RoleUser)
	_, adminToken := s.user("admin", models.RoleAdmin)

	info := models.DoctorInfo{UserID: applicant.ID, Specialization: "Cardiology", RegisterNumber: "123456", Status: models.DoctorPending}
	if err := s.db.Create(&info).Error; err != nil {
		t.Fatalf("create doctor info: %v", err)
	}

	w := s.do(http.MethodGet, "/api/admin/doctorapprove", adminToken, nil)
	if pending := decode[[]models.User](t, w); len(pending) != 1 || pending[0].DoctorInfo == nil {
		t.Fatalf("pending = %+v", pending)
	}
	if w := s.do(http.MethodGet, "/api/admin/doctorapprove?status=retired", adminToken, nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown status: %d", w.Code)
	}
	if w := s.do(http.MethodPut, "/api/doctor/verify-doctor/"+applicant.ID, applicantToken, map[string]string{"status": "active"}); w.Code != http.StatusForbidden {
		t.Errorf("self verify: %d", w.Code)
	}
	if w := s.do(http.MethodPut, "/api/doctor/verify-doctor/"+applicant.ID, adminToken, map[string]string{"status": "active"}); w.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", w.Code, w.Body)
	}

	var got models.User
	s.db.First(&got, "id = ?", applicant.ID)
	if got.Role != models.RoleDoctor {
		t.Errorf("role after activation = %s", got.Role)
	}

	w = s.do(http.MethodGet, "/api/users/search?query=Dr%20cardio", "", nil)
	if found := decode[[]models.User](t, w); len(found) != 1 || found[0].ID != applicant.ID {
		t.Errorf("search = %+v", found)
	}

	s.do(http.MethodPut, "/api/doctor/verify-doctor/"+applicant.ID, adminToken, map[string]string{"status": "block"})
	s.db.First(&got, "id = ?", applicant.ID)
	if got.Role != models.RoleUser {
		t.Errorf("role after block = %s", got.Role)
	}

	if w := s.do(http.MethodPut, "/api/admin/promoteuser/"+applicant.ID, adminToken, map[string]string{"role": "admin"}); w.Code != http.StatusOK {
		t.Errorf("promote: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodDelete, "/api/admin/deleteuser/"+applicant.ID, adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("delete user: %d %s", w.Code, w.Body)
	}
	var infos int64
	s.db.Model(&models.DoctorInfo{}).Where("user_id = ?", applicant.ID).Count(&infos)
	if infos != 0 {
		t.Errorf("doctor info left behind: %d", infos)
	}
}

func TestAppointmentsOrderedBySlot(t *testing.T) {
	s := newTestServer(t)
	doctor, doctorToken := s.user("rao", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)
	date := future(4)

	// booked out of order; text order would put the PM slots first
	for _, i := range []int{4, 0, 2, 1} {
		if w := s.book(patient.ID, token, doctor.ID, date, models.TimeSlots[i]); w.Code != http.StatusCreated {
			t.Fatalf("book slot %d: %d %s", i, w.Code, w.Body)
		}
	}
	s.book(patient.ID, token, doctor.ID, future(3), models.TimeSlots[3])

	want := []string{models.TimeSlots[3], models.TimeSlots[0], models.TimeSlots[1], models.TimeSlots[2], models.TimeSlots[4]}
	for _, path := range []string{"/api/book/my-appointments", "/api/book/doctor/" + doctor.ID} {
		tok := token
		if path != "/api/book/my-appointments" {
			tok = doctorToken
		}
		got := decode[[]models.Appointment](t, s.do(http.MethodGet, path, tok, nil))
		if len(got) != len(want) {
			t.Fatalf("%s: %d rows", path, len(got))
		}
		for i := range want {
			if got[i].TimeSlot != want[i] {
				t.Errorf("%s[%d] = %s %s, want %s", path, i, got[i].Date, got[i].TimeSlot, want[i])
			}
		}
	}
}

func TestStoredRoleOverridesToken(t *testing.T) {
	s := newTestServer(t)
	applicant, applicantToken := s.user("rao", models.RoleUser)
	doctor, doctorToken := s.user("iyer", models.RoleDoctor)
	_, adminToken := s.user("admin", models.RoleAdmin)
	s.db.Create(&models.DoctorInfo{UserID: applicant.ID, Specialization: "ENT", RegisterNumber: "654321", Status: models.DoctorPending})
	s.db.Create(&models.DoctorInfo{UserID: doctor.ID, Specialization: "ENT", RegisterNumber: "111111", Status: models.DoctorActive})

	// the token still says "user" but the account is now a doctor
	s.do(http.MethodPut, "/api/doctor/verify-doctor/"+applicant.ID, adminToken, map[string]string{"status": "active"})
	if w := s.do(http.MethodGet, "/api/book/doctor/"+applicant.ID, applicantToken, nil); w.Code != http.StatusOK {
		t.Fatalf("after activation: %d %s", w.Code, w.Body)
	}

	queue := "/api/book/doctor/" + doctor.ID
	if w := s.do(http.MethodGet, queue, doctorToken, nil); w.Code != http.StatusOK {
		t.Fatalf("before block: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodPut, "/api/doctor/verify-doctor/"+doctor.ID, adminToken, map[string]string{"status": "block"}); w.Code != http.StatusOK {
		t.Fatalf("block: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodGet, queue, doctorToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("blocked doctor's token: %d, want 403", w.Code)
	}
}

func TestDeletedUserTokenRejected(t *testing.T) {
	s := newTestServer(t)
	doctor, _ := s.user("rao", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)
	_, adminToken := s.user("admin", models.RoleAdmin)

	if w := s.do(http.MethodDelete, "/api/admin/deleteuser/"+patient.ID, adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body)
	}
	if w := s.book(patient.ID, token, doctor.ID, future(1), models.TimeSlots[0]); w.Code != http.StatusUnauthorized {
		t.Errorf("book with deleted account: %d, want 401", w.Code)
	}
	var count int64
	s.db.Model(&models.Appointment{}).Count(&count)
	if count != 0 {
		t.Errorf("appointments = %d, want 0", count)
	}
}

func (s *testServer) apply(token, regnum string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"specialization":   "Dermatology",
		"registerNumber":   regnum,
		"consultingCenter": "City Clinic",
		"consultingPlace":  "Kochi",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			s.t.Fatalf("WriteField: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("certificate", "cert-"+regnum+".pdf")
	if err != nil {
		s.t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("%PDF-" + regnum))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/doctor/apply-doctor", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestReapplyReplacesCertificate(t *testing.T) {
	s := newTestServer(t)
	applicant, token := s.user("rao", models.RoleUser)

	for _, regnum := range []string{"123456", "654321"} {
		if w := s.apply(token, regnum); w.Code != http.StatusCreated {
			t.Fatalf("apply %s: %d %s", regnum, w.Code, w.Body)
		}
	}
	if w := s.apply(token, "12345"); w.Code != http.StatusBadRequest {
		t.Errorf("short register number: %d", w.Code)
	}

	var certs []models.DoctorCertificate
	s.db.Where("user_id = ?", applicant.ID).Find(&certs)
	if len(certs) != 1 || certs[0].FileName != "cert-654321.pdf" || string(certs[0].FileData) != "%PDF-654321" {
		t.Errorf("certificates = %d rows, %+v", len(certs), certs)
	}
	var info models.DoctorInfo
	s.db.First(&info, "user_id = ?", applicant.ID)
	if info.RegisterNumber != "654321" || info.Status != models.DoctorPending {
		t.Errorf("info = %+v", info)
	}
}

func (s *testServer) upload(token, description, name, content string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("description", description)
	fw, err := mw.CreateFormFile("video", name)
	if err != nil {
		s.t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/videoposts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestVideoPosts(t *testing.T) {
	s := newTestServer(t)
	author, authorToken := s.user("meera", models.RoleUser)
	_, otherToken := s.user("binu", models.RoleUser)
	_, adminToken := s.user("admin", models.RoleAdmin)

	var ids []string
	for i := 0; i < 7; i++ {
		w := s.upload(authorToken, fmt.Sprintf("clip %d", i), "clip.mp4", "frames")
		if w.Code != http.StatusCreated {
			t.Fatalf("upload: %d %s", w.Code, w.Body)
		}
		p := decode[struct {
			Post models.VideoPost `json:"post"`
		}](t, w).Post
		if p.AuthorID() != author.ID || p.Video != "videoposts/video/"+p.ID {
			t.Fatalf("post = %+v", p)
		}
		ids = append(ids, p.ID)
	}
	if w := s.do(http.MethodPost, "/api/videoposts", authorToken, map[string]string{"description": "no file"}); w.Code != http.StatusBadRequest {
		t.Errorf("upload without file: %d", w.Code)
	}

	seen := map[string]bool{}
	for _, tc := range []struct{ skip, want int }{{0, 5}, {5, 2}, {10, 0}} {
		path := fmt.Sprintf("/api/videoposts?limit=5&skip=%d", tc.skip)
		page := decode[[]models.VideoPost](t, s.do(http.MethodGet, path, otherToken, nil))
		if len(page) != tc.want {
			t.Errorf("skip %d: %d posts, want %d", tc.skip, len(page), tc.want)
		}
		for _, p := range page {
			if seen[p.ID] {
				t.Errorf("post %s on two pages", p.ID)
			}
			seen[p.ID] = true
		}
	}
	if w := s.do(http.MethodGet, "/api/videoposts?skip=-1", otherToken, nil); w.Code != http.StatusBadRequest {
		t.Errorf("negative skip: %d", w.Code)
	}
	if page := decode[[]models.VideoPost](t, s.do(http.MethodGet, "/api/videoposts?userId=nobody", otherToken, nil)); len(page) != 0 {
		t.Errorf("author filter: %d posts", len(page))
	}

	w := s.do(http.MethodGet, "/api/videoposts/video/"+ids[0], otherToken, nil)
	if w.Code != http.StatusOK || w.Body.String() != "frames" {
		t.Errorf("video: %d %q", w.Code, w.Body)
	}

	like := "/api/videoposts/like/" + ids[0]
	out := decode[struct {
		LikesCount int      `json:"likesCount"`
		LikedBy    []string `json:"likedBy"`
	}](t, s.do(http.MethodPut, like, otherToken, nil))
	if out.LikesCount != 1 || len(out.LikedBy) != 1 {
		t.Errorf("like = %+v", out)
	}
	s.do(http.MethodPut, like, authorToken, nil)
	got := decode[models.VideoPost](t, s.do(http.MethodGet, "/api/videoposts/"+ids[0], otherToken, nil))
	if got.LikesCount != 2 || !got.LikedBy(author.ID) {
		t.Errorf("post likes = %d %+v", got.LikesCount, got.Likes)
	}
	out = decode[struct {
		LikesCount int      `json:"likesCount"`
		LikedBy    []string `json:"likedBy"`
	}](t, s.do(http.MethodPut, like, otherToken, nil))
	if out.LikesCount != 1 || out.LikedBy[0] != author.ID {
		t.Errorf("unlike = %+v", out)
	}

	if w := s.do(http.MethodPut, "/api/videoposts/"+ids[0], otherToken, map[string]string{"description": "mine"}); w.Code != http.StatusForbidden {
		t.Errorf("edit by stranger: %d", w.Code)
	}
	if w := s.do(http.MethodPut, "/api/videoposts/"+ids[0], authorToken, map[string]string{"description": "edited"}); w.Code != http.StatusOK {
		t.Errorf("edit: %d %s", w.Code, w.Body)
	}

	comment := "/api/videoposts/comment/" + ids[0]
	if w := s.do(http.MethodPost, comment, otherToken, map[string]string{"text": " "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank comment: %d", w.Code)
	}
	if w := s.do(http.MethodPost, comment, otherToken, map[string]string{"text": "nice"}); w.Code != http.StatusCreated {
		t.Fatalf("comment: %d %s", w.Code, w.Body)
	}
	comments := decode[[]models.VideoComment](t, s.do(http.MethodPost, comment, authorToken, map[string]string{"text": "thanks"}))
	if len(comments) != 2 || comments[0].Text != "nice" {
		t.Fatalf("comments = %+v", comments)
	}
	if w := s.do(http.MethodDelete, "/api/videoposts/comment/"+comments[1].ID, otherToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("delete author's comment by stranger: %d", w.Code)
	}
	if w := s.do(http.MethodDelete, "/api/videoposts/comment/"+comments[0].ID, authorToken, nil); w.Code != http.StatusOK {
		t.Errorf("post author deletes comment: %d %s", w.Code, w.Body)
	}
	if left := decode[[]models.VideoComment](t, s.do(http.MethodGet, "/api/videoposts/comments/"+ids[0], otherToken, nil)); len(left) != 1 {
		t.Errorf("comments left = %d", len(left))
	}

	if w := s.do(http.MethodDelete, "/api/videoposts/"+ids[0], otherToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("delete by stranger: %d", w.Code)
	}
	if w := s.do(http.MethodDelete, "/api/videoposts/"+ids[0], adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("delete by admin: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodGet, "/api/videoposts/video/"+ids[0], otherToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("video after delete: %d", w.Code)
	}
	var orphans int64
	s.db.Model(&models.VideoComment{}).Where("post_id = ?", ids[0]).Count(&orphans)
	if orphans != 0 {
		t.Errorf("comments left behind: %d", orphans)
	}
}

func TestFollowAndProfile(t *testing.T) {
	s := newTestServer(t)
	doctor, doctorToken := s.user("rao", models.RoleDoctor)
	patient, token := s.user("meera", models.RoleUser)
	_, adminToken := s.user("admin", models.RoleAdmin)

	follow := "/api/users/follow/" + doctor.ID
	if w := s.do(http.MethodPost, follow, token, nil); w.Code != http.StatusOK {
		t.Fatalf("follow: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodPost, follow, token, nil); w.Code != http.StatusConflict {
		t.Errorf("follow twice: %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/api/users/follow/"+patient.ID, token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("follow self: %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/api/users/follow/nobody", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("follow unknown: %d", w.Code)
	}
	s.do(http.MethodPost, "/api/users/follow/"+patient.ID, doctorToken, nil)

	profile := decode[models.Profile](t, s.do(http.MethodGet, "/api/admin/profile/"+doctor.ID, token, nil))
	if profile.ID != doctor.ID || !profile.FollowedBy(patient.ID) || len(profile.Following) != 1 {
		t.Errorf("profile = %+v", profile)
	}

	unfollow := "/api/users/unfollow/" + doctor.ID
	if w := s.do(http.MethodPost, unfollow, token, nil); w.Code != http.StatusOK {
		t.Fatalf("unfollow: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodPost, unfollow, token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("unfollow twice: %d", w.Code)
	}

	s.do(http.MethodDelete, "/api/admin/deleteuser/"+doctor.ID, adminToken, nil)
	var follows int64
	s.db.Model(&models.Follow{}).Count(&follows)
	if follows != 0 {
		t.Errorf("follows left behind: %d", follows)
	}
}

func TestReviews(t *testing.T) {
	s := newTestServer(t)
	doctor, doctorToken := s.user("rao", models.RoleDoctor)
	plain, _ := s.user("binu", models.RoleUser)
	_, token := s.user("meera", models.RoleUser)
	_, adminToken := s.user("admin", models.RoleAdmin)

	tests := []struct {
		name string
		body map[string]any
		tok  string
		want int
	}{
		{"no rating", map[string]any{"user": doctor.ID, "comment": "ok"}, token, http.StatusBadRequest},
		{"rating too high", map[string]any{"user": doctor.ID, "rating": 6, "comment": "ok"}, token, http.StatusBadRequest},
		{"blank comment", map[string]any{"user": doctor.ID, "rating": 4, "comment": "  "}, token, http.StatusBadRequest},
		{"not a doctor", map[string]any{"user": plain.ID, "rating": 4, "comment": "ok"}, token, http.StatusNotFound},
		{"self review", map[string]any{"user": doctor.ID, "rating": 5, "comment": "great"}, doctorToken, http.StatusBadRequest},
		{"first review", map[string]any{"user": doctor.ID, "rating": 4, "comment": "kind"}, token, http.StatusCreated},
		{"second review", map[string]any{"user": doctor.ID, "rating": 2, "comment": "again"}, token, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(http.MethodPost, "/api/review", tt.tok, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
		})
	}

	list := decode[struct {
		Reviews []models.Review `json:"reviews"`
	}](t, s.do(http.MethodGet, "/api/review/"+doctor.ID, doctorToken, nil)).Reviews
	if len(list) != 1 || list[0].ReviewerName() != "meera" || list[0].Rating != 4 {
		t.Fatalf("reviews = %+v", list)
	}

	path := "/api/review/" + list[0].ID
	if w := s.do(http.MethodDelete, path, doctorToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("doctor deletes review: %d", w.Code)
	}
	if w := s.do(http.MethodDelete, path, adminToken, nil); w.Code != http.StatusOK {
		t.Errorf("admin deletes review: %d %s", w.Code, w.Body)
	}
	if w := s.do(http.MethodDelete, path, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("delete twice: %d", w.Code)
	}
}
