package features

import "testing"

func TestVector_Order(t *testing.T) {
	rec := InputRecord{
		StudyHoursPerDay:             1.5,
		SocialMediaHours:             2.25,
		NetflixHours:                 0.75,
		SleepHours:                   6,
		MentalHealthRating:           7,
		AttendancePercentage:         88.5,
		PartTimeJob:                  true,
		ExtracurricularParticipation: false,
	}

	got := Vector(rec)
	want := []float64{1.5, 2.25, 0.75, 6, 7, 88.5, 1, 0}

	if len(got) != Count {
		t.Fatalf("Vector length = %d, want %d", len(got), Count)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vector[%d] (%s) = %v, want %v", i, Names[i], got[i], want[i])
		}
	}
}

func TestVector_BooleanEncoding(t *testing.T) {
	got := Vector(InputRecord{PartTimeJob: false, ExtracurricularParticipation: true})
	if got[6] != 0 || got[7] != 1 {
		t.Errorf("Expected booleans encoded as [0 1], got [%v %v]", got[6], got[7])
	}
}

func TestNamesMatchCount(t *testing.T) {
	if len(Names) != Count {
		t.Errorf("len(Names) = %d, want %d", len(Names), Count)
	}
}

func TestScreenTime(t *testing.T) {
	rec := InputRecord{SocialMediaHours: 2, NetflixHours: 1.5}
	if rec.ScreenTime() != 3.5 {
		t.Errorf("ScreenTime() = %v, want 3.5", rec.ScreenTime())
	}
}
