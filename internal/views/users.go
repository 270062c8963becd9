package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"medconnect/internal/apiclient"
	"medconnect/internal/debounce"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/remotelist"
)

// UserPageSize is the page size of the user administration list.
const UserPageSize = 10

// UserAPI is the part of the API client used by the user screens.
type UserAPI interface {
	Users(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) (string, error)
	PromoteUser(ctx context.Context, id string, role models.Role) (string, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

// MatchUser reports whether term occurs in the user's name, email, mobile,
// role or specialization. term must be lower-case.
func MatchUser(u models.User, term string) bool {
	fields := []string{u.Name, u.Email, u.Mobile, string(u.Role)}
	if u.DoctorInfo != nil {
		fields = append(fields, u.DoctorInfo.Specialization)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func userByID(id string) func(models.User) bool {
	return func(u models.User) bool { return u.ID == id }
}

// UserAdmin is the admin list of every account.
type UserAdmin struct {
	*remotelist.List[models.User]

	api      UserAPI
	notifier notify.Notifier
}

// NewUserAdmin returns an unloaded user list.
func NewUserAdmin(api UserAPI, n notify.Notifier) *UserAdmin {
	return &UserAdmin{
		List:     remotelist.New[models.User](api.Users, MatchUser, UserPageSize),
		api:      api,
		notifier: n,
	}
}

// Load fetches every account.
func (v *UserAdmin) Load(ctx context.Context) error {
	if err := v.List.Load(ctx); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching users"))
		return err
	}
	return nil
}

// Delete removes account id and drops it from the list.
func (v *UserAdmin) Delete(ctx context.Context, id string) error {
	if _, ok := v.Find(userByID(id)); !ok {
		return ErrNotFound
	}
	if _, err := v.api.DeleteUser(ctx, id); err != nil {
		v.notifier.Error("User Deleting Failed")
		return err
	}
	v.Remove(userByID(id))
	v.notifier.Success("User Deleted")
	return nil
}

// Promote gives account id the role and updates the row in place.
func (v *UserAdmin) Promote(ctx context.Context, id string, role models.Role) error {
	if !role.Valid() {
		v.notifier.Error("Unknown role " + string(role))
		return fmt.Errorf("%w: unknown role %q", ErrInvalidForm, role)
	}
	if _, ok := v.Find(userByID(id)); !ok {
		return ErrNotFound
	}
	msg, err := v.api.PromoteUser(ctx, id, role)
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error updating user role"))
		return err
	}
	v.Update(userByID(id), func(u *models.User) { u.Role = role })
	if msg == "" {
		msg = "User role updated"
	}
	v.notifier.Success(msg)
	return nil
}

// UserSearch runs a user search once typing has paused.
type UserSearch struct {
	api      UserAPI
	notifier notify.Notifier
	debounce *debounce.Debouncer

	// OnResults, when set, is called after every completed search.
	OnResults func([]models.User)

	mu      sync.Mutex
	query   string
	seq     uint64 // bumped by every Run; only the latest may publish
	results []models.User
}

// NewUserSearch returns a search that waits delay after the last keystroke.
func NewUserSearch(api UserAPI, n notify.Notifier, delay time.Duration) *UserSearch {
	s := &UserSearch{api: api, notifier: n}
	s.debounce = debounce.New(delay, func(q string) {
		_ = s.Run(context.Background(), q)
	})
	return s
}

// SetQuery records the current input and schedules a search.
func (s *UserSearch) SetQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
	s.debounce.Trigger(q)
}

// Run searches immediately. Honorifics such as "Dr" are stripped first; a
// query that ends up empty clears the results without calling the server.
// A response that arrives after a newer Run has started is discarded.
func (s *UserSearch) Run(ctx context.Context, q string) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	cleaned := models.CleanSearchQuery(q)
	if cleaned == "" {
		s.setResults(seq, nil)
		return nil
	}

	users, err := s.api.SearchUsers(ctx, cleaned)
	if err != nil {
		if s.current(seq) {
			s.notifier.Error(apiclient.MessageOr(err, "Error searching users"))
		}
		return err
	}
	s.setResults(seq, users)
	return nil
}

func (s *UserSearch) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}

func (s *UserSearch) setResults(seq uint64, users []models.User) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.results = users
	cb := s.OnResults
	s.mu.Unlock()
	if cb != nil {
		cb(users)
	}
}

// Query returns the last typed input.
func (s *UserSearch) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the last search results.
func (s *UserSearch) Results() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.results...)
}

// Close stops any pending search.
func (s *UserSearch) Close() {
	s.debounce.Stop()
}
