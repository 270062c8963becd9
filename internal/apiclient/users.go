package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"medconnect/internal/models"
)

// RegisterRequest is the body of an account registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// Register creates an account and returns it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// Login exchanges an email or mobile number and a password for a token.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	in := struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}{identifier, password}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers finds users by name, email or specialization.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "users/search", url.Values{"query": {query}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users lists every account (admin).
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "admin/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes an account (admin).
func (c *Client) DeleteUser(ctx context.Context, id string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodDelete, "admin/deleteuser/"+id, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// PromoteUser changes an account's role (admin).
func (c *Client) PromoteUser(ctx context.Context, id string, role models.Role) (string, error) {
	in := struct {
		Role models.Role `json:"role"`
	}{role}
	var out messageBody
	if err := c.do(ctx, http.MethodPut, "admin/promoteuser/"+id, nil, in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DoctorApplication is a request to be verified as a doctor.
type DoctorApplication struct {
	Specialization   string
	RegisterNumber   string
	ConsultingCenter string
	ConsultingPlace  string
	CertificateName  string
	Certificate      io.Reader
}

// ApplyDoctor submits the caller's doctor application as a multipart form.
func (c *Client) ApplyDoctor(ctx context.Context, app DoctorApplication) (string, error) {
	form := upload{
		fields: []formField{
			{"specialization", app.Specialization},
			{"registerNumber", app.RegisterNumber},
			{"consultingCenter", app.ConsultingCenter},
			{"consultingPlace", app.ConsultingPlace},
		},
		fileField: "certificate",
		fileName:  app.CertificateName,
		file:      app.Certificate,
	}
	var out messageBody
	if err := c.postMultipart(ctx, "doctor/apply-doctor", form, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DoctorApplications lists the users whose application has the given status (admin).
func (c *Client) DoctorApplications(ctx context.Context, status models.DoctorStatus) ([]models.User, error) {
	var out []models.User
	query := url.Values{"status": {string(status)}}
	if err := c.do(ctx, http.MethodGet, "admin/doctorapprove", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyDoctor records an admin decision on a doctor application.
func (c *Client) VerifyDoctor(ctx context.Context, userID string, status models.DoctorStatus) (string, error) {
	in := struct {
		Status models.DoctorStatus `json:"status"`
	}{status}
	var out messageBody
	if err := c.do(ctx, http.MethodPut, "doctor/verify-doctor/"+userID, nil, in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
