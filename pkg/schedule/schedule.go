// Package schedule turns the flat day/time fields posted by the profile forms
// into a types.WeeklySchedule and back into display form.
//
// A day is enabled through a checkbox named "<prefix>_<day>" and carries its
// window in "from_<day>" and "to_<day>". Parsing is deliberately permissive:
// anything incomplete is dropped instead of reported, and time strings are
// stored exactly as submitted.
package schedule

import (
	"net/url"
	"strings"

	"github.com/gopher93185789/redshow/pkg/types"
)

const (
	OwnerPrefix  = "days"
	ArtistPrefix = "day"
)

// Weekdays is the canonical day order used for every form and summary.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

func EnabledField(prefix, day string) string { return prefix + "_" + day }
func FromField(day string) string { return "from_" + day }
func ToField(day string) string { return "to_" + day }

// Parse collects every day whose checkbox is set and whose start and end
// times are both present. The result is never nil.
func Parse(form url.Values, days []string, prefix string) types.WeeklySchedule {
	out := make(types.WeeklySchedule, len(days))
	for _, day := range days {
		if form.Get(EnabledField(prefix, day)) == "" {
			continue
		}

		from, to := form.Get(FromField(day)), form.Get(ToField(day))
		if from == "" || to == "" {
			continue
		}

		out[day] = types.DayHours{From: from, To: to}
	}
	return out
}

// Summary renders one "<day> de <from> a <to>" line per scheduled day, in
// the order of days.
func Summary(s types.WeeklySchedule, days []string) string {
	lines := make([]string, 0, len(s))
	for _, day := range days {
		h, ok := s[day]
		if !ok {
			continue
		}
		lines = append(lines, day+" de "+h.From+" a "+h.To)
	}
	return strings.Join(lines, "\n")
}

// Normalize returns a slot for every day in days so templates never have to
// deal with a missing entry.
func Normalize(s types.WeeklySchedule, days []string) []types.DaySlot {
	slots := make([]types.DaySlot, 0, len(days))
	for _, day := range days {
		h, ok := s[day]
		slots = append(slots, types.DaySlot{
			Day:     day,
			From:    h.From,
			To:      h.To,
			Enabled: ok,
		})
	}
	return slots
}
