package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/session"
	"medconnect/internal/utils"
)

// fakeAPI is an in-memory stand-in for the API client.
type fakeAPI struct {
	mu sync.Mutex

	appointments []models.Appointment
	records      map[string]*models.HealthRecord
	users        []models.User

	err error

	booked       []apiclient.BookingRequest
	bookedFor    []string
	statusCalls  []statusCall
	deleted      []string
	saved        map[string]apiclient.HealthRecordInput
	searches     []string
	verified     []statusCall
	appStatuses  []models.DoctorStatus
	applications []apiclient.DoctorApplication
}

type statusCall struct {
	ID     string
	Status string
}

func (f *fakeAPI) BookAppointment(_ context.Context, userID string, req apiclient.BookingRequest) (*apiclient.BookingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.booked = append(f.booked, req)
	f.bookedFor = append(f.bookedFor, userID)
	return &apiclient.BookingResult{Message: "Appointment booked successfully"}, nil
}

func (f *fakeAPI) list() ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Appointment(nil), f.appointments...), nil
}

func (f *fakeAPI) MyAppointments(context.Context) ([]models.Appointment, error) { return f.list() }
func (f *fakeAPI) AllAppointments(context.Context) ([]models.Appointment, error) { return f.list() }

func (f *fakeAPI) DoctorAppointments(_ context.Context, _ string) ([]models.Appointment, error) {
	return f.list()
}

func (f *fakeAPI) UpdateAppointmentStatus(_ context.Context, id string, status models.AppointmentStatus) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.statusCalls = append(f.statusCalls, statusCall{id, string(status)})
	return "Appointment status updated", nil
}

func (f *fakeAPI) DeleteAppointment(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.deleted = append(f.deleted, id)
	return "Appointment deleted successfully", nil
}

func (f *fakeAPI) HealthRecord(_ context.Context, appointmentID string) (*models.HealthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.records[appointmentID]; ok {
		return r, nil
	}
	return nil, &apiclient.Error{StatusCode: 404, Message: "Health record not found"}
}

func (f *fakeAPI) SaveHealthRecord(_ context.Context, appointmentID string, in apiclient.HealthRecordInput) (*models.HealthRecord, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, "", f.err
	}
	if f.saved == nil {
		f.saved = map[string]apiclient.HealthRecordInput{}
	}
	f.saved[appointmentID] = in
	return &models.HealthRecord{AppointmentID: appointmentID, Diseases: in.Diseases, Drugs: in.Drugs, Notes: in.Notes}, "Health record saved", nil
}

func (f *fakeAPI) Users(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeAPI) DeleteUser(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.deleted = append(f.deleted, id)
	return "User deleted", nil
}

func (f *fakeAPI) PromoteUser(_ context.Context, id string, role models.Role) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.statusCalls = append(f.statusCalls, statusCall{id, string(role)})
	return "User role updated", nil
}

func (f *fakeAPI) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.searches = append(f.searches, query)
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeAPI) ApplyDoctor(_ context.Context, app apiclient.DoctorApplication) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.applications = append(f.applications, app)
	return "Application submitted", nil
}

func (f *fakeAPI) DoctorApplications(_ context.Context, status models.DoctorStatus) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.appStatuses = append(f.appStatuses, status)
	var out []models.User
	for _, u := range f.users {
		if u.DoctorInfo != nil && u.DoctorInfo.Status == status {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeAPI) VerifyDoctor(_ context.Context, userID string, status models.DoctorStatus) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.verified = append(f.verified, statusCall{userID, string(status)})
	for i := range f.users {
		if f.users[i].ID == userID && f.users[i].DoctorInfo != nil {
			f.users[i].DoctorInfo.Status = status
		}
	}
	return "Doctor status updated", nil
}

func appointment(id string, status models.AppointmentStatus) models.Appointment {
	a := models.Appointment{
		Date:     "2025-01-10",
		TimeSlot: models.TimeSlots[0],
		Status:   status,
		User:     &models.User{Name: "Patient " + id},
		Doctor:   &models.User{Name: "Dr Rao"},
	}
	a.ID = id
	return a
}

func testSession(t *testing.T, id string, role models.Role) *session.Session {
	t.Helper()
	user := &models.User{Name: "Tester", Role: role}
	user.ID = id
	token, err := utils.GenerateToken(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	sess, err := session.FromToken(token)
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	return sess
}
