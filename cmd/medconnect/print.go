package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"medconnect/internal/models"
	"medconnect/internal/views"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printAppointments(w io.Writer, rows []models.Appointment, actions func(models.Appointment) []views.Action) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No appointments found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tPATIENT\tDOCTOR\tDATE\tSLOT\tSTATUS\tACTIONS")
	for _, a := range rows {
		acts := make([]string, 0, 3)
		for _, act := range actions(a) {
			acts = append(acts, string(act))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.PatientDisplayName(), a.DoctorName(), models.FormatDate(a.Date),
			a.TimeSlot, a.Status, strings.Join(acts, ","))
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tMOBILE\tROLE\tSPECIALIZATION")
	for _, u := range users {
		specialization := ""
		if u.DoctorInfo != nil {
			specialization = u.DoctorInfo.Specialization
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Mobile, u.Role, specialization)
	}
	tw.Flush()
}

func printApplicants(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No applications found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALIZATION\tREG NO\tCENTER\tPLACE\tSTATUS")
	for _, u := range users {
		info := u.DoctorInfo
		if info == nil {
			info = &models.DoctorInfo{}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, info.Specialization,
			info.RegisterNumber, info.ConsultingCenter, info.ConsultingPlace, info.Status)
	}
	tw.Flush()
}

func printRecord(w io.Writer, e *views.HealthRecordEditor) {
	a := e.Appointment
	fmt.Fprintf(w, "Patient:  %s\n", a.PatientDisplayName())
	fmt.Fprintf(w, "Date:     %s %s\n", models.FormatDate(a.Date), a.TimeSlot)
	fmt.Fprintf(w, "Diseases: %s\n", strings.Join(e.Diseases, ", "))
	fmt.Fprintf(w, "Drugs:    %s\n", strings.Join(e.Drugs, ", "))
	fmt.Fprintf(w, "Notes:    %s\n", e.Notes)
	if !e.CanSave() {
		fmt.Fprintln(w, "(read only: the appointment date has passed)")
	}
}

func printPager(w io.Writer, page, total int) {
	if total > 1 {
		fmt.Fprintf(w, "Page %d of %d\n", page, total)
	}
}

func printPosts(w io.Writer, posts []models.VideoPost, feed *views.Feed) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No videos found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tAUTHOR\tLIKES\tDESCRIPTION\tVIDEO")
	for _, p := range posts {
		author := ""
		if p.User != nil {
			author = p.User.Name
		}
		likes := fmt.Sprint(p.LikesCount)
		if feed.LikedByMe(p) {
			likes += " (you)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, author, likes, p.Description, p.Video)
	}
	tw.Flush()
}

func printComments(w io.Writer, comments []models.VideoComment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tAUTHOR\tCOMMENT")
	for _, c := range comments {
		author := ""
		if c.User != nil {
			author = c.User.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, author, c.Text)
	}
	tw.Flush()
}

func printProfile(w io.Writer, v *views.ProfileView) {
	p := v.Profile()
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.Role)
	if p.DoctorInfo != nil {
		fmt.Fprintf(w, "%s, %s, %s\n", p.DoctorInfo.Specialization, p.DoctorInfo.ConsultingCenter, p.DoctorInfo.ConsultingPlace)
	}
	following := ""
	if v.IsFollowing() {
		following = " (you follow)"
	}
	fmt.Fprintf(w, "Followers: %d%s  Following: %d\n", v.FollowersCount(), following, v.FollowingCount())

	reviews := v.Reviews()
	if len(reviews) == 0 {
		return
	}
	fmt.Fprintf(w, "Rating: %.1f from %d reviews\n", v.AverageRating(), len(reviews))
	tw := table(w)
	fmt.Fprintln(tw, "ID\tREVIEWER\tRATING\tCOMMENT")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.ReviewerName(), r.Rating, r.Comment)
	}
	tw.Flush()
}
