package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const (
	msgRequired = "Ce champ est obligatoire."
	msgNumber   = "Un nombre valide est requis."
	msgInteger  = "Un nombre entier valide est requis."
	msgBoolean  = "Doit être un booléen valide."
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid or missing field of a submission.
// Fields follow the order of Names.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid input record: " + strings.Join(parts, "; ")
}

// Details groups field messages by field name for API responses.
func (e *ValidationError) Details() map[string][]string {
	details := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		details[f.Field] = append(details[f.Field], f.Message)
	}
	return details
}

// Has reports whether the given field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type fieldKind int

const (
	kindHours fieldKind = iota
	kindRating
	kindPercentage
	kindBool
)

var fieldKinds = map[string]fieldKind{
	StudyHoursPerDay:             kindHours,
	SocialMediaHours:             kindHours,
	NetflixHours:                 kindHours,
	SleepHours:                   kindHours,
	MentalHealthRating:           kindRating,
	AttendancePercentage:         kindPercentage,
	PartTimeJob:                  kindBool,
	ExtracurricularParticipation: kindBool,
}

// Parse validates an untyped submission (typically a decoded JSON object)
// and returns the typed record. Every field is checked before returning, so
// a *ValidationError names all problems at once rather than the first one.
// Unknown keys are ignored.
func Parse(raw map[string]any) (InputRecord, error) {
	var (
		rec  InputRecord
		errs []FieldError
	)

	numbers := make(map[string]float64, Count)
	bools := make(map[string]bool, 2)

	for _, name := range Names {
		value, present := raw[name]
		if !present || value == nil {
			errs = append(errs, FieldError{Field: name, Message: msgRequired})
			continue
		}

		switch fieldKinds[name] {
		case kindBool:
			b, ok := value.(bool)
			if !ok {
				errs = append(errs, FieldError{Field: name, Message: msgBoolean})
				continue
			}
			bools[name] = b

		case kindRating:
			n, ok := toNumber(value)
			if !ok || n != math.Trunc(n) {
				errs = append(errs, FieldError{Field: name, Message: msgInteger})
				continue
			}
			if n < 1 || n > 10 {
				errs = append(errs, FieldError{Field: name, Message: "Assurez-vous que cette valeur est comprise entre 1 et 10."})
				continue
			}
			numbers[name] = n

		case kindPercentage:
			n, ok := toNumber(value)
			if !ok {
				errs = append(errs, FieldError{Field: name, Message: msgNumber})
				continue
			}
			if n < 0 || n > 100 {
				errs = append(errs, FieldError{Field: name, Message: "Assurez-vous que cette valeur est comprise entre 0 et 100."})
				continue
			}
			numbers[name] = n

		default:
			n, ok := toNumber(value)
			if !ok {
				errs = append(errs, FieldError{Field: name, Message: msgNumber})
				continue
			}
			if n < 0 {
				errs = append(errs, FieldError{Field: name, Message: "Assurez-vous que cette valeur est supérieure ou égale à 0."})
				continue
			}
			numbers[name] = n
		}
	}

	if len(errs) > 0 {
		return InputRecord{}, &ValidationError{Fields: errs}
	}

	rec.StudyHoursPerDay = numbers[StudyHoursPerDay]
	rec.SocialMediaHours = numbers[SocialMediaHours]
	rec.NetflixHours = numbers[NetflixHours]
	rec.SleepHours = numbers[SleepHours]
	rec.MentalHealthRating = int(numbers[MentalHealthRating])
	rec.AttendancePercentage = numbers[AttendancePercentage]
	rec.PartTimeJob = bools[PartTimeJob]
	rec.ExtracurricularParticipation = bools[ExtracurricularParticipation]
	return rec, nil
}

// toNumber accepts the numeric shapes a decoded JSON document can carry.
// Strings and booleans are rejected, as are NaN and infinities.
func toNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Map is the inverse of Parse: it renders a record as the untyped object
// clients send and receive.
func Map(r InputRecord) map[string]any {
	return map[string]any{
		StudyHoursPerDay:             r.StudyHoursPerDay,
		SocialMediaHours:             r.SocialMediaHours,
		NetflixHours:                 r.NetflixHours,
		SleepHours:                   r.SleepHours,
		MentalHealthRating:           r.MentalHealthRating,
		AttendancePercentage:         r.AttendancePercentage,
		PartTimeJob:                  r.PartTimeJob,
		ExtracurricularParticipation: r.ExtracurricularParticipation,
	}
}
