package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"medconnect/internal/models"
	"medconnect/internal/views"
)

var errUsage = errors.New("invalid arguments")

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error { *l = append(*l, v); return nil }

// listFlags are shared by every list command.
type listFlags struct {
	search string
	page   int
}

func (f *listFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.search, "search", "", "filter rows containing `term`")
	fs.IntVar(&f.page, "page", 1, "page `number`")
}

func (f *listFlags) apply(l interface {
	SetSearch(string)
	SetPage(int)
}) {
	l.SetSearch(f.search)
	l.SetPage(f.page)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprintf(os.Stderr, "usage: medconnect %s\n", commands[name].usage) }
	return fs
}

// oneArg returns the single positional argument of a command.
func oneArg(name string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: usage: medconnect %s", errUsage, commands[name].usage)
	}
	return args[0], nil
}

// local reports errors the notifier has not shown.
func local(err error) error {
	if errors.Is(err, views.ErrUnavailable) || errors.Is(err, views.ErrNotFound) || errors.Is(err, errUsage) {
		log.Error(err)
	}
	return err
}

func runLogin(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["login"].usage))
	}
	form := views.NewLogin(a.client, a.store, a.notifier)
	form.Identifier, form.Password = args[0], args[1]
	sess, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", sess.Name, sess.Role)
	return nil
}

func runLogout(_ context.Context, a *app, _ []string) error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	a.notifier.Success("Logged out")
	return nil
}

func runBook(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("book")
	doctor := fs.String("doctor", "", "doctor `id`")
	date := fs.String("date", "", "appointment date `YYYY-MM-DD`")
	slot := fs.String("slot", "", "time slot number (1-5) or label")
	patient := fs.String("for", "", "book for another patient with this `name`")
	email := fs.String("email", "", "other patient's email")
	mobile := fs.String("mobile", "", "other patient's mobile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b := views.NewBooking(a.client, a.session, a.notifier, *doctor)
	b.Date = *date
	b.TimeSlot = slotLabel(*slot)
	if *patient != "" {
		b.BookForOthers = true
		b.PatientName, b.PatientEmail, b.PatientMobile = *patient, *email, *mobile
	}
	return b.Submit(ctx)
}

// slotLabel resolves a 1-based slot number to its label.
func slotLabel(s string) string {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(models.TimeSlots) {
		return models.TimeSlots[n-1]
	}
	return s
}

type appointmentList interface {
	Load(ctx context.Context) error
	SetSearch(string)
	SetPage(int)
	Page() []models.Appointment
	CurrentPage() int
	TotalPages() int
	Actions(models.Appointment) []views.Action
}

func showAppointments(ctx context.Context, a *app, name string, v appointmentList, args []string) error {
	fs := newFlagSet(name)
	var lf listFlags
	lf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := v.Load(ctx); err != nil {
		return err
	}
	lf.apply(v)
	printAppointments(a.out, v.Page(), v.Actions)
	printPager(a.out, v.CurrentPage(), v.TotalPages())
	return nil
}

func runHistory(ctx context.Context, a *app, args []string) error {
	return showAppointments(ctx, a, "history", views.NewPatientHistory(a.client, a.notifier), args)
}

func runQueue(ctx context.Context, a *app, args []string) error {
	return showAppointments(ctx, a, "queue", views.NewDoctorQueue(a.client, a.session, a.notifier), args)
}

func runAll(ctx context.Context, a *app, args []string) error {
	return showAppointments(ctx, a, "all", views.NewAdminOverview(a.client, a.notifier), args)
}

func runCancel(ctx context.Context, a *app, args []string) error {
	id, err := oneArg("cancel", args)
	if err != nil {
		return local(err)
	}
	v := views.NewPatientHistory(a.client, a.notifier)
	if err := v.Load(ctx); err != nil {
		return err
	}
	return local(v.Cancel(ctx, id))
}

func runAccept(ctx context.Context, a *app, args []string) error {
	return queueAction(ctx, a, "accept", args, (*views.DoctorQueue).Accept)
}

func runReject(ctx context.Context, a *app, args []string) error {
	return queueAction(ctx, a, "reject", args, (*views.DoctorQueue).Reject)
}

func queueAction(ctx context.Context, a *app, name string, args []string, act func(*views.DoctorQueue, context.Context, string) error) error {
	id, err := oneArg(name, args)
	if err != nil {
		return local(err)
	}
	v := views.NewDoctorQueue(a.client, a.session, a.notifier)
	if err := v.Load(ctx); err != nil {
		return err
	}
	return local(act(v, ctx, id))
}

func runRecord(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["record"].usage))
	}
	id := args[0]
	fs := newFlagSet("record")
	var diseases, drugs stringList
	fs.Var(&diseases, "disease", "add a `disease` (repeatable)")
	fs.Var(&drugs, "drug", "add a `drug` (repeatable)")
	notes := fs.String("notes", "", "replace the notes")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	v := views.NewDoctorQueue(a.client, a.session, a.notifier)
	if err := v.Load(ctx); err != nil {
		return err
	}
	editor, err := v.OpenHealthRecord(ctx, id)
	if err != nil {
		return local(err)
	}

	if len(diseases) == 0 && len(drugs) == 0 && *notes == "" {
		printRecord(a.out, editor)
		return nil
	}
	for _, d := range diseases {
		editor.AddDisease(d)
	}
	for _, d := range drugs {
		editor.AddDrug(d)
	}
	if *notes != "" {
		editor.Notes = *notes
	}
	if err := editor.Save(ctx); err != nil {
		return err
	}
	printRecord(a.out, editor)
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	id, err := oneArg("delete", args)
	if err != nil {
		return local(err)
	}
	v := views.NewAdminOverview(a.client, a.notifier)
	if err := v.Load(ctx); err != nil {
		return err
	}
	return local(v.Delete(ctx, id))
}

func runSearch(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["search"].usage))
	}
	done := make(chan []models.User, 1)
	s := views.NewUserSearch(a.client, a.notifier, a.cfg.Client.SearchDebounce)
	s.OnResults = func(users []models.User) { done <- users }
	defer s.Close()

	s.SetQuery(strings.Join(args, " "))
	select {
	case users := <-done:
		printUsers(a.out, users)
		return nil
	case <-time.After(a.cfg.Client.SearchDebounce + a.cfg.Client.RequestTimeout):
		// a failed search reports through the notifier and never delivers results
		return errors.New("search did not complete")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func runApply(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("apply")
	form := views.NewDoctorApplication(a.client, a.notifier)
	fs.StringVar(&form.Specialization, "specialization", "", "medical specialization")
	fs.StringVar(&form.RegisterNumber, "regno", "", "6-digit register number")
	fs.StringVar(&form.ConsultingCenter, "center", "", "consulting center")
	fs.StringVar(&form.ConsultingPlace, "place", "", "consulting place")
	certificate := fs.String("certificate", "", "certificate `file`")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *certificate != "" {
		f, err := os.Open(*certificate)
		if err != nil {
			a.notifier.Error("Could not open the certificate file")
			return err
		}
		defer f.Close()
		form.Certificate = f
		form.CertificateName = filepath.Base(*certificate)
	}
	return form.Submit(ctx)
}

func runApprovals(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("approvals")
	var lf listFlags
	lf.register(fs)
	status := fs.String("status", string(models.DoctorPending), "application `status`")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := views.NewDoctorApproval(a.client, a.notifier)
	if err := v.SetFilter(ctx, models.DoctorStatus(*status)); err != nil {
		return local(err)
	}
	lf.apply(v)
	printApplicants(a.out, v.Page())
	printPager(a.out, v.CurrentPage(), v.TotalPages())
	return nil
}

func runVerify(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["verify"].usage))
	}
	v := views.NewDoctorApproval(a.client, a.notifier)
	return local(v.UpdateStatus(ctx, args[0], models.DoctorStatus(args[1])))
}

func runUsers(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("users")
	var lf listFlags
	lf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	v := views.NewUserAdmin(a.client, a.notifier)
	if err := v.Load(ctx); err != nil {
		return err
	}
	lf.apply(v)
	printUsers(a.out, v.Page())
	printPager(a.out, v.CurrentPage(), v.TotalPages())
	return nil
}

func runPromote(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["promote"].usage))
	}
	v := views.NewUserAdmin(a.client, a.notifier)
	if err := v.Load(ctx); err != nil {
		return err
	}
	return local(v.Promote(ctx, args[0], models.Role(args[1])))
}

func runDeleteUser(ctx context.Context, a *app, args []string) error {
	id, err := oneArg("deluser", args)
	if err != nil {
		return local(err)
	}
	v := views.NewUserAdmin(a.client, a.notifier)
	if err := v.Load(ctx); err != nil {
		return err
	}
	return local(v.Delete(ctx, id))
}
