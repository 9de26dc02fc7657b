package dates

import (
	"testing"
	"time"
)

func TestEndDate_TableTests(t *testing.T) {
	tests := []struct {
		name           string
		start          time.Time
		durationMonths int
		want           time.Time
	}{
		{
			name:           "one month plan",
			start:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			durationMonths: 1,
			want:           time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "three month plan",
			start:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			durationMonths: 3,
			want:           time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "twelve month plan",
			start:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			durationMonths: 12,
			want:           time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "year transition",
			start:          time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC),
			durationMonths: 6,
			want:           time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "end of january clamps to leap february",
			start:          time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			durationMonths: 1,
			want:           time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "end of january clamps to short february",
			start:          time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			durationMonths: 1,
			want:           time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "end of march clamps to thirty day month",
			start:          time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			durationMonths: 1,
			want:           time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndDate(tt.start, tt.durationMonths)
			if !got.Equal(tt.want) {
				t.Errorf("EndDate(%v, %d) = %v, want %v",
					tt.start, tt.durationMonths, got, tt.want)
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	end := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "before end date",
			now:  time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "at end date",
			now:  end,
			want: false,
		},
		{
			name: "after end date",
			now:  time.Date(2024, 4, 16, 0, 0, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpired(end, tt.now); got != tt.want {
				t.Errorf("IsExpired(%v, %v) = %v, want %v", end, tt.now, got, tt.want)
			}
		})
	}
}

func TestToday_NoTimeComponent(t *testing.T) {
	today := Today()
	if today.Hour() != 0 || today.Minute() != 0 || today.Second() != 0 {
		t.Errorf("Today() = %v, expected midnight UTC", today)
	}
	if today.Location() != time.UTC {
		t.Errorf("Today() location = %v, want UTC", today.Location())
	}
}
