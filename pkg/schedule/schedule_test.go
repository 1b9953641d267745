package schedule

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/gopher93185789/redshow/pkg/types"
)

var english = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func TestParse(t *testing.T) {
	t.Run("complete day", func(t *testing.T) {
		form := url.Values{}
		form.Set("days_Monday", "on")
		form.Set("from_Monday", "09:00")
		form.Set("to_Monday", "18:00")

		got := Parse(form, english, OwnerPrefix)
		want := types.WeeklySchedule{"Monday": {From: "09:00", To: "18:00"}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Parse() = %v, want %v", got, want)
		}
	})

	t.Run("missing end time", func(t *testing.T) {
		form := url.Values{}
		form.Set("days_Monday", "on")
		form.Set("from_Monday", "09:00")

		if got := Parse(form, english, OwnerPrefix); len(got) != 0 {
			t.Fatalf("Parse() = %v, want empty", got)
		}
	})

	t.Run("unchecked day with times", func(t *testing.T) {
		form := url.Values{}
		form.Set("from_Friday", "20:00")
		form.Set("to_Friday", "23:00")

		if got := Parse(form, english, OwnerPrefix); len(got) != 0 {
			t.Fatalf("Parse() = %v, want empty", got)
		}
	})

	t.Run("prefix distinguishes owner and artist forms", func(t *testing.T) {
		form := url.Values{}
		form.Set("day_Lunes", "on")
		form.Set("from_Lunes", "10:00")
		form.Set("to_Lunes", "12:00")

		if got := Parse(form, Weekdays, OwnerPrefix); len(got) != 0 {
			t.Errorf("owner prefix picked up artist checkbox: %v", got)
		}
		if got := Parse(form, Weekdays, ArtistPrefix); len(got) != 1 {
			t.Errorf("artist prefix: got %v, want Lunes only", got)
		}
	})

	t.Run("empty form", func(t *testing.T) {
		got := Parse(url.Values{}, Weekdays, ArtistPrefix)
		if got == nil || len(got) != 0 {
			t.Fatalf("Parse() = %#v, want empty non-nil schedule", got)
		}
	})
}

// Every combination of checkbox/from/to for every day: a day is kept iff all
// three are present.
func TestParseInclusionRule(t *testing.T) {
	for _, day := range Weekdays {
		for mask := 0; mask < 8; mask++ {
			form := url.Values{}
			if mask&1 != 0 {
				form.Set(EnabledField(OwnerPrefix, day), "on")
			}
			if mask&2 != 0 {
				form.Set(FromField(day), "08:00")
			}
			if mask&4 != 0 {
				form.Set(ToField(day), "16:00")
			}

			got := Parse(form, Weekdays, OwnerPrefix)
			_, ok := got[day]
			if want := mask == 7; ok != want {
				t.Errorf("%s mask=%03b: included=%v, want %v", day, mask, ok, want)
			}
		}
	}
}

func TestParseIsIdempotent(t *testing.T) {
	form := url.Values{}
	for _, day := range []string{"Lunes", "Miércoles", "Sábado"} {
		form.Set(EnabledField(ArtistPrefix, day), "on")
		form.Set(FromField(day), "19:00")
		form.Set(ToField(day), "02:00")
	}
	form.Set(EnabledField(ArtistPrefix, "Domingo"), "on")

	first := Parse(form, Weekdays, ArtistPrefix)
	second := Parse(form, Weekdays, ArtistPrefix)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Parse() not idempotent: %v vs %v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("len = %d, want 3", len(first))
	}
}

func TestSummary(t *testing.T) {
	s := types.WeeklySchedule{
		"Viernes": {From: "20:00", To: "03:00"},
		"Lunes":   {From: "09:00", To: "18:00"},
		"Otro":    {From: "00:00", To: "01:00"},
	}

	got := Summary(s, Weekdays)
	want := "Lunes de 09:00 a 18:00\nViernes de 20:00 a 03:00"
	if got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	if got := Summary(types.WeeklySchedule{}, Weekdays); got != "" {
		t.Errorf("Summary(empty) = %q, want empty", got)
	}
}

func TestNormalize(t *testing.T) {
	slots := Normalize(types.WeeklySchedule{"Martes": {From: "10:00", To: "14:00"}}, Weekdays)
	if len(slots) != len(Weekdays) {
		t.Fatalf("len = %d, want %d", len(slots), len(Weekdays))
	}

	for i, slot := range slots {
		if slot.Day != Weekdays[i] {
			t.Errorf("slot %d day = %q, want %q", i, slot.Day, Weekdays[i])
		}
		if slot.Day == "Martes" {
			if !slot.Enabled || slot.From != "10:00" || slot.To != "14:00" {
				t.Errorf("Martes slot = %+v", slot)
			}
			continue
		}
		if slot.Enabled || slot.From != "" || slot.To != "" {
			t.Errorf("%s slot = %+v, want empty", slot.Day, slot)
		}
	}

	if got := Normalize(nil, Weekdays); len(got) != 7 {
		t.Errorf("Normalize(nil) len = %d, want 7", len(got))
	}
}
