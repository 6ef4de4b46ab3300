package crash

import (
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

type WitnessView struct {
	Display string
	Vote    domaincrash.VoteKind
}

// CrashDetail is a crash as seen by one viewer.
type CrashDetail struct {
	Crash       ports.Crash
	Witnesses   []WitnessView
	HasVerified bool
	HasRejected bool
	TopLevel    []domaincrash.Comment
	Replies     []domaincrash.Comment
}

type CrashListItem struct {
	CrashID            string
	OccurredAt         string
	Borough            string
	OnStreet           string
	CrossStreet        string
	Summary            string
	AccuracyPercentage int
	WitnessCount       int
	CommentCount       int
}

type CommentItem struct {
	CrashID string
	Comment domaincrash.Comment
}

func newCrashDetail(crash ports.Crash, viewerID string) CrashDetail {
	detail := CrashDetail{
		Crash:     crash,
		Witnesses: make([]WitnessView, 0, len(crash.WitnessReports)),
	}
	for _, report := range crash.WitnessReports {
		detail.Witnesses = append(detail.Witnesses, WitnessView{Display: report.RaterDisplay, Vote: report.Vote})
	}
	if viewerID != "" {
		if report, ok := domaincrash.FindWitnessReport(crash.WitnessReports, viewerID); ok {
			detail.HasVerified = report.Vote == domaincrash.VoteVerify
			detail.HasRejected = report.Vote == domaincrash.VoteReject
		}
	}
	detail.TopLevel, detail.Replies = domaincrash.SplitThread(crash.Comments)
	return detail
}

func newCrashListItems(crashes []ports.Crash) []CrashListItem {
	items := make([]CrashListItem, 0, len(crashes))
	for _, crash := range crashes {
		items = append(items, CrashListItem{
			CrashID:            crash.CrashID,
			OccurredAt:         crash.OccurredAt,
			Borough:            crash.Borough,
			OnStreet:           crash.OnStreet,
			CrossStreet:        crash.CrossStreet,
			Summary:            crash.Summary,
			AccuracyPercentage: crash.AccuracyPercentage,
			WitnessCount:       len(crash.WitnessReports),
			CommentCount:       len(crash.Comments),
		})
	}
	return items
}
