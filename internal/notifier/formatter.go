package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"EconomyBench/internal/report"
)

// digestTracks is how many ROI rows a digest lists.
const digestTracks = 3

// FormatReportDigest renders a short HTML digest of a report bundle.
func FormatReportDigest(b *report.Bundle, now time.Time) string {
	var sb strings.Builder
	s := b.Summary

	fmt.Fprintf(&sb, "📊 <b>EconomyBench report</b> | %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "%d days, %d assistants\n", s.Days, s.Assistants)
	fmt.Fprintf(&sb, "Final cash: %s (%s/day)\n", report.Money(s.FinalCash), report.Money(s.AvgDailyChange))
	fmt.Fprintf(&sb, "Low point: %s\n", report.Money(s.LowCash))
	if s.Days > 0 {
		fmt.Fprintf(&sb, "Recent average: %s, %.0f%% of the run's range\n", report.Money(s.TrailingCash), s.RangePosition*100)
	}
	if s.Growth != nil {
		fmt.Fprintf(&sb, "Doubling: %s\n", report.Days(s.Growth.DoublingDays()))
	}

	if len(b.ROI) > 0 {
		sb.WriteString("\n🎓 <b>Best education tracks:</b>\n")
		for i, r := range b.ROI[:min(digestTracks, len(b.ROI))] {
			fmt.Fprintf(&sb, "  %d. %s: %s/day, payback %s\n",
				i+1, html.EscapeString(r.Track), report.Money(r.IncrementalDaily), report.Days(r.PaybackDays))
		}
	}

	var losing []string
	for _, a := range b.Assistants {
		if a.Assistants > 0 && !a.Sustainable() {
			losing = append(losing, fmt.Sprint(a.Assistants))
		}
	}
	if len(losing) > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Cash shrinks with %s assistants\n", strings.Join(losing, ", "))
	}
	return sb.String()
}
