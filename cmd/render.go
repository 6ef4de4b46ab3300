package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// accuracyStyle paints a crash's accuracy green at 50% and above.
func accuracyStyle(pct int) lipgloss.Style {
	if pct >= 50 {
		return goodStyle
	}
	return badStyle
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func flush(w io.Writer, b *strings.Builder, what string) error {
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errs.Wrapf(err, "write %s output", what)
	}
	return nil
}

func renderProfile(w io.Writer, p user.Profile) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", titleStyle.Render(strings.TrimSpace(p.FirstName+" "+p.LastName)), p.Handle)
	fmt.Fprintf(&b, "UserID: %s\n", p.UserID)
	fmt.Fprintf(&b, "SocialCredit: %d (%d ratings)\n", p.SocialCreditRating, p.RatingCount)
	fmt.Fprintf(&b, "CrashesWitnessed: %d\n", p.CrashesWitnessed)
	fmt.Fprintf(&b, "Submitted: %d  Commented: %d\n", len(p.SubmittedCrashIDs), len(p.CommentedCrashIDs))
	fmt.Fprintf(&b, "Location: %s, %s\n", dash(p.City), dash(p.State))
	fmt.Fprintf(&b, "SignupDate: %s\n", p.SignupDate)
	lastLogin := "-"
	if p.LastLogin != nil {
		lastLogin = *p.LastLogin
	}
	fmt.Fprintf(&b, "LastLogin: %s\n", lastLogin)
	switch p.ViewerVote {
	case 1:
		b.WriteString(dimStyle.Render("you rated this user up") + "\n")
	case -1:
		b.WriteString(dimStyle.Render("you rated this user down") + "\n")
	}
	return flush(w, &b, "profile")
}

func renderProfiles(w io.Writer, profiles []user.Profile) error {
	var b strings.Builder
	if len(profiles) == 0 {
		b.WriteString("no users\n")
	}
	for _, p := range profiles {
		fmt.Fprintf(&b, "%s %-16s %s %s score=%d witnessed=%d\n",
			p.UserID, p.Handle, p.LastName, p.FirstName, p.SocialCreditRating, p.CrashesWitnessed)
	}
	return flush(w, &b, "user list")
}

func renderCrashList(w io.Writer, items []crash.CrashListItem) error {
	var b strings.Builder
	if len(items) == 0 {
		b.WriteString("no crashes\n")
	}
	for _, item := range items {
		pct := accuracyStyle(item.AccuracyPercentage).Render(fmt.Sprintf("%3d%%", item.AccuracyPercentage))
		fmt.Fprintf(&b, "%s %s %-13s %s accuracy=%s witnesses=%d comments=%d\n",
			item.CrashID, item.OccurredAt, item.Borough, dash(item.OnStreet), pct, item.WitnessCount, item.CommentCount)
	}
	return flush(w, &b, "crash list")
}

func renderCrashDetail(w io.Writer, d crash.CrashDetail) error {
	c := d.Crash
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Crash "+c.CrashID))
	fmt.Fprintf(&b, "OccurredAt: %s\n", c.OccurredAt)
	fmt.Fprintf(&b, "Borough: %s  Zip: %s\n", c.Borough, dash(c.ZipCode))
	fmt.Fprintf(&b, "Location: %s / %s / %s (%.5f, %.5f)\n", dash(c.OnStreet), dash(c.CrossStreet), dash(c.OffStreet), c.Latitude, c.Longitude)
	fmt.Fprintf(&b, "Source: %s  Collision: %s  CreatedBy: %s\n", c.Source, c.CollisionID, c.CreatedBy)
	fmt.Fprintf(&b, "Accuracy: %s\n", accuracyStyle(c.AccuracyPercentage).Render(fmt.Sprintf("%d%%", c.AccuracyPercentage)))
	cas := c.Casualties
	fmt.Fprintf(&b, "Injured/Killed: persons %d/%d pedestrians %d/%d cyclists %d/%d motorists %d/%d\n",
		cas.PersonsInjured, cas.PersonsKilled, cas.PedestriansInjured, cas.PedestriansKilled,
		cas.CyclistsInjured, cas.CyclistsKilled, cas.MotoristsInjured, cas.MotoristsKilled)
	if c.Summary != "" {
		fmt.Fprintf(&b, "\n%s\n", c.Summary)
	}

	if len(c.Vehicles) > 0 {
		fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Vehicles"))
		for _, v := range c.Vehicles {
			year := "-"
			if v.Year != nil {
				year = fmt.Sprint(*v.Year)
			}
			fmt.Fprintf(&b, "- %s %s %s %s plate=%s damage=%s\n", year, dash(v.Make), dash(v.Model), dash(v.VehicleType), dash(v.VehicleID), dash(v.Damage))
		}
	}

	fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Witnesses"))
	if len(d.Witnesses) == 0 {
		b.WriteString(dimStyle.Render("none") + "\n")
	}
	for _, wv := range d.Witnesses {
		fmt.Fprintf(&b, "- %s: %s\n", wv.Display, wv.Vote)
	}

	fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Comments"))
	if len(d.TopLevel) == 0 {
		b.WriteString(dimStyle.Render("none") + "\n")
	}
	for _, top := range d.TopLevel {
		fmt.Fprintf(&b, "- [%s] %s %s: %s\n", top.ID, top.FirstName, top.LastName, top.Text)
		for _, reply := range d.Replies {
			if reply.ParentCommentID != nil && *reply.ParentCommentID == top.ID {
				fmt.Fprintf(&b, "    > %s %s: %s\n", reply.FirstName, reply.LastName, reply.Text)
			}
		}
	}
	return flush(w, &b, "crash detail")
}

func renderStatistics(w io.Writer, stats ports.CrashStatistics) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", sectionStyle.Render("By borough"))
	for _, row := range stats.ByBorough {
		fmt.Fprintf(&b, "%-13s crashes=%d injured=%d killed=%d\n", row.Borough, row.Crashes, row.PersonsInjured, row.PersonsKilled)
	}
	fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("By borough and year"))
	for _, row := range stats.ByBoroughYear {
		fmt.Fprintf(&b, "%-13s %s crashes=%d injured=%d killed=%d\n", row.Borough, row.Year, row.Crashes, row.PersonsInjured, row.PersonsKilled)
	}
	return flush(w, &b, "statistics")
}

func renderVehicleMatches(w io.Writer, matches []ports.VehicleMatch) error {
	var b strings.Builder
	if len(matches) == 0 {
		b.WriteString("no vehicles\n")
	}
	for _, m := range matches {
		year := "-"
		if m.Vehicle.Year != nil {
			year = fmt.Sprint(*m.Vehicle.Year)
		}
		fmt.Fprintf(&b, "crash=%s plate=%s %s %s %s %s\n", m.CrashID, dash(m.Vehicle.VehicleID), year, dash(m.Vehicle.Make), dash(m.Vehicle.Model), dash(m.Vehicle.VehicleType))
	}
	return flush(w, &b, "vehicle lookup")
}
