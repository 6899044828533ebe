// Package calendar renders enriched inspection records as an ICS-style
// plain-text feed and buckets them by day for calendar-grid consumers.
// Pure string formatting over already-enriched records; no additional
// computation happens here.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/matthewbaird/compliance/internal/types"
)

const icsTimeLayout = "20060102T150405Z"

// Export renders one VEVENT block per inspection. The property supplies
// the address used for description and location.
func Export(property types.Property, inspections []types.InspectionRecord) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//compliance//inspection-schedule//EN\r\n")

	for _, rec := range inspections {
		writeEvent(&b, property, rec)
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func writeEvent(b *strings.Builder, property types.Property, rec types.InspectionRecord) {
	start := rec.NextDueDate.UTC()
	end := start.Add(time.Hour)
	addr := property.Address.String()

	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(b, "UID:%s\r\n", rec.ID)
	fmt.Fprintf(b, "DTSTART:%s\r\n", start.Format(icsTimeLayout))
	fmt.Fprintf(b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
	fmt.Fprintf(b, "SUMMARY:%s\r\n", escapeText(rec.InspectionType))
	fmt.Fprintf(b, "DESCRIPTION:%s\r\n", escapeText(eventDescription(addr, rec)))
	fmt.Fprintf(b, "LOCATION:%s\r\n", escapeText(addr))
	b.WriteString("END:VEVENT\r\n")
}

func eventDescription(addr string, rec types.InspectionRecord) string {
	status := string(rec.CalculatedStatus)
	if status == "" {
		status = string(rec.RawStatus)
	}
	return fmt.Sprintf("%s | Status: %s | Est. cost: %s",
		addr, status, FormatCostRange(rec.EstimatedCost))
}

// FormatCostRange renders a cost band in whole dollars, e.g. "$300 - $500".
// Estimated costs are stored in cents.
func FormatCostRange(c types.CostRange) string {
	return fmt.Sprintf("%s - %s", formatDollars(c.MinCents), formatDollars(c.MaxCents))
}

func formatDollars(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("$%d", cents/100)
	}
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// escapeText escapes the characters ICS text fields reserve.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}

// DayBucket groups the inspections due on one calendar day.
type DayBucket struct {
	Date        time.Time                `json:"date"` // midnight UTC
	Inspections []types.InspectionRecord `json:"inspections"`
}

// BucketByDay groups enriched records by due date, ordered by day. The
// calendar grid itself is the presentation layer's concern; this is the
// day-bucketing it consumes.
func BucketByDay(inspections []types.InspectionRecord) []DayBucket {
	byDay := make(map[time.Time][]types.InspectionRecord)
	for _, rec := range inspections {
		y, m, d := rec.NextDueDate.UTC().Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		byDay[day] = append(byDay[day], rec)
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for day, recs := range byDay {
		buckets = append(buckets, DayBucket{Date: day, Inspections: recs})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date.Before(buckets[j].Date) })
	return buckets
}
