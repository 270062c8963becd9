package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/remotelist"
)

// DoctorAPI is the part of the API client used by the doctor application
// and approval screens.
type DoctorAPI interface {
	ApplyDoctor(ctx context.Context, app apiclient.DoctorApplication) (string, error)
	DoctorApplications(ctx context.Context, status models.DoctorStatus) ([]models.User, error)
	VerifyDoctor(ctx context.Context, userID string, status models.DoctorStatus) (string, error)
}

// DoctorApplicationForm is a user's request to be verified as a doctor.
type DoctorApplicationForm struct {
	Specialization   string
	RegisterNumber   string
	ConsultingCenter string
	ConsultingPlace  string
	CertificateName  string
	Certificate      io.Reader

	api      DoctorAPI
	notifier notify.Notifier
}

// NewDoctorApplication returns an empty application form.
func NewDoctorApplication(api DoctorAPI, n notify.Notifier) *DoctorApplicationForm {
	return &DoctorApplicationForm{api: api, notifier: n}
}

// Submit uploads the application with its certificate.
func (f *DoctorApplicationForm) Submit(ctx context.Context) error {
	if len(f.RegisterNumber) != 6 {
		f.notifier.Error("Register number must be exactly 6 digits.")
		return fmt.Errorf("%w: register number", ErrInvalidForm)
	}
	if f.Certificate == nil {
		f.notifier.Error("Please upload your certificate.")
		return fmt.Errorf("%w: certificate", ErrInvalidForm)
	}

	msg, err := f.api.ApplyDoctor(ctx, apiclient.DoctorApplication{
		Specialization:   strings.TrimSpace(f.Specialization),
		RegisterNumber:   f.RegisterNumber,
		ConsultingCenter: strings.TrimSpace(f.ConsultingCenter),
		ConsultingPlace:  strings.TrimSpace(f.ConsultingPlace),
		CertificateName:  f.CertificateName,
		Certificate:      f.Certificate,
	})
	if err != nil {
		f.notifier.Error(apiclient.MessageOr(err, "Error submitting application"))
		return err
	}
	if msg == "" {
		msg = "Application submitted successfully"
	}
	f.notifier.Success(msg)
	return nil
}

// MatchApplicant reports whether term occurs in the applicant's name, email,
// application status, specialization or register number.
func MatchApplicant(u models.User, term string) bool {
	fields := []string{u.Name, u.Email}
	if info := u.DoctorInfo; info != nil {
		fields = append(fields, string(info.Status), info.Specialization, info.RegisterNumber)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// DoctorApprovalPageSize is the page size of the approval list.
const DoctorApprovalPageSize = 5

// DoctorApproval lists doctor applications with one status for an admin to
// decide on.
type DoctorApproval struct {
	*remotelist.List[models.User]

	mu       sync.Mutex
	status   models.DoctorStatus
	api      DoctorAPI
	notifier notify.Notifier
}

// NewDoctorApproval returns an unloaded list of pending applications.
func NewDoctorApproval(api DoctorAPI, n notify.Notifier) *DoctorApproval {
	v := &DoctorApproval{status: models.DoctorPending, api: api, notifier: n}
	fetch := func(ctx context.Context) ([]models.User, error) {
		return api.DoctorApplications(ctx, v.Status())
	}
	v.List = remotelist.New[models.User](fetch, MatchApplicant, DoctorApprovalPageSize)
	return v
}

// Status returns the application status being listed.
func (v *DoctorApproval) Status() models.DoctorStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Load fetches the applications with the current status.
func (v *DoctorApproval) Load(ctx context.Context) error {
	if err := v.List.Load(ctx); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching doctor applications"))
		return err
	}
	return nil
}

// SetFilter switches the listed status and reloads from the first page.
func (v *DoctorApproval) SetFilter(ctx context.Context, status models.DoctorStatus) error {
	if !status.Valid() {
		v.notifier.Error("Unknown doctor status " + string(status))
		return fmt.Errorf("%w: unknown doctor status %q", ErrInvalidForm, status)
	}
	v.mu.Lock()
	v.status = status
	v.mu.Unlock()
	v.SetPage(1)
	return v.Load(ctx)
}

// UpdateStatus records a decision on userID's application and reloads the list.
func (v *DoctorApproval) UpdateStatus(ctx context.Context, userID string, status models.DoctorStatus) error {
	if !status.Valid() {
		v.notifier.Error("Unknown doctor status " + string(status))
		return fmt.Errorf("%w: unknown doctor status %q", ErrInvalidForm, status)
	}
	if _, err := v.api.VerifyDoctor(ctx, userID, status); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error updating doctor status"))
		return err
	}
	v.notifier.Success(fmt.Sprintf("Doctor status updated to %s", status))
	return v.Load(ctx)
}
