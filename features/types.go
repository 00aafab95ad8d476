// Package features holds the self-reported metrics a student submits and
// turns them into the numeric vector the classifier was trained on.
package features

// Field names as they appear on the wire. The order of Names is the order of
// the feature vector and must match the trained model's input layout.
const (
	StudyHoursPerDay             = "study_hours_per_day"
	SocialMediaHours             = "social_media_hours"
	NetflixHours                 = "netflix_hours"
	SleepHours                   = "sleep_hours"
	MentalHealthRating           = "mental_health_rating"
	AttendancePercentage         = "attendance_percentage"
	PartTimeJob                  = "part_time_job"
	ExtracurricularParticipation = "extracurricular_participation"
)

// Names lists every input field in vector order.
var Names = []string{
	StudyHoursPerDay,
	SocialMediaHours,
	NetflixHours,
	SleepHours,
	MentalHealthRating,
	AttendancePercentage,
	PartTimeJob,
	ExtracurricularParticipation,
}

// Count is the length of the feature vector.
const Count = 8

// InputRecord is one submission of study and lifestyle metrics
type InputRecord struct {
	StudyHoursPerDay             float64 `json:"study_hours_per_day"`
	SocialMediaHours             float64 `json:"social_media_hours"`
	NetflixHours                 float64 `json:"netflix_hours"`
	SleepHours                   float64 `json:"sleep_hours"`
	MentalHealthRating           int     `json:"mental_health_rating"`
	AttendancePercentage         float64 `json:"attendance_percentage"`
	PartTimeJob                  bool    `json:"part_time_job"`
	ExtracurricularParticipation bool    `json:"extracurricular_participation"`
}

// ScreenTime is the combined social media and streaming time in hours.
func (r InputRecord) ScreenTime() float64 {
	return r.SocialMediaHours + r.NetflixHours
}

// Vector maps a validated record to the classifier's input layout.
// Booleans are encoded as 0/1. No scaling is applied: the model was trained
// on raw-unit features.
func Vector(r InputRecord) []float64 {
	return []float64{
		r.StudyHoursPerDay,
		r.SocialMediaHours,
		r.NetflixHours,
		r.SleepHours,
		float64(r.MentalHealthRating),
		r.AttendancePercentage,
		boolToFloat(r.PartTimeJob),
		boolToFloat(r.ExtracurricularParticipation),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
