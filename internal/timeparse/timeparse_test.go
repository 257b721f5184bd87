package timeparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtcolectivo/backend-colectivo/internal/timeparse"
)

func TestParseAcceptedFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  timeparse.TimeOfDay
	}{
		{"dotted meridiem with seconds", "3:22:00 a.m.", timeparse.TimeOfDay{Hour: 3, Minute: 22}},
		{"dotted meridiem pm", "4:15 p.m.", timeparse.TimeOfDay{Hour: 16, Minute: 15}},
		{"plain meridiem", "9:00 am", timeparse.TimeOfDay{Hour: 9}},
		{"uppercase meridiem", "7 PM", timeparse.TimeOfDay{Hour: 19}},
		{"spaced dotted meridiem", "11:45 a. m.", timeparse.TimeOfDay{Hour: 11, Minute: 45}},
		{"noon", "12:00 pm", timeparse.TimeOfDay{Hour: 12}},
		{"midnight", "12:00 am", timeparse.TimeOfDay{Hour: 0}},
		{"24 hour", "14:30", timeparse.TimeOfDay{Hour: 14, Minute: 30}},
		{"24 hour with seconds", "08:05:30", timeparse.TimeOfDay{Hour: 8, Minute: 5, Second: 30}},
		{"single digit 24 hour", "9:00", timeparse.TimeOfDay{Hour: 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := timeparse.Parse(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseBogusMeridiemFallsBackTo24Hour(t *testing.T) {
	t.Parallel()

	// Users sometimes append am/pm to a value that is clearly 24-hour.
	got, err := timeparse.Parse("15:30 pm")
	require.NoError(t, err)
	require.Equal(t, timeparse.TimeOfDay{Hour: 15, Minute: 30}, got)

	got, err = timeparse.Parse("18:00:15 a.m.")
	require.NoError(t, err)
	require.Equal(t, timeparse.TimeOfDay{Hour: 18, Minute: 0, Second: 15}, got)
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "mediodía", "25:00", "9:99", "am"} {
		_, err := timeparse.Parse(input)
		require.ErrorIs(t, err, timeparse.ErrUnparseable, "input %q", input)
	}
}

func TestHours(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 9.5, timeparse.TimeOfDay{Hour: 9, Minute: 30}.Hours(), 1e-9)
	require.InDelta(t, 13.0, timeparse.TimeOfDay{Hour: 13}.Hours(), 1e-9)
}
