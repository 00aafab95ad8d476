// Package report lays out and renders the downloadable PDF summary of a
// prediction result.
package report

import (
	"errors"
	"sort"
	"strings"

	"github.com/liamcoop/edupredict/accounts"
	"github.com/liamcoop/edupredict/advisory"
	"github.com/liamcoop/edupredict/features"
)

const (
	msgRequired      = "Ce champ est obligatoire."
	msgString        = "Une chaîne de caractères est requise."
	msgInputsMissing = "Un objet décrivant les données saisies est requis."
)

// Bundle is everything a report shows. It is supplied by the caller and
// never loaded from storage.
type Bundle struct {
	Student    accounts.Identity
	Prediction string
	Advice     []string
	Input      features.InputRecord
}

// InputError lists the problems found in a report request. Keys are
// "prediction", "advice", "inputs" or "inputs.<field>".
type InputError struct {
	Problems map[string][]string
}

func (e *InputError) Error() string {
	keys := make([]string, 0, len(e.Problems))
	for k := range e.Problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Problems[k], ", "))
	}
	return "invalid report request: " + strings.Join(parts, "; ")
}

func (e *InputError) add(key, msg string) {
	if e.Problems == nil {
		e.Problems = make(map[string][]string)
	}
	e.Problems[key] = append(e.Problems[key], msg)
}

// ParseRequest builds a Bundle from a decoded request body. It requires a
// non-empty prediction string, a non-empty advice string and an inputs
// object that is a valid input record.
func ParseRequest(requester accounts.Identity, raw map[string]any) (Bundle, error) {
	var inErr InputError
	bundle := Bundle{Student: requester}

	prediction, problem := requiredString(raw, "prediction")
	if problem != "" {
		inErr.add("prediction", problem)
	}
	bundle.Prediction = prediction

	advice, problem := requiredString(raw, "advice")
	if problem != "" {
		inErr.add("advice", problem)
	}
	bundle.Advice = advisory.Split(advice)

	inputs, ok := raw["inputs"].(map[string]any)
	if !ok {
		inErr.add("inputs", msgInputsMissing)
	} else {
		record, err := features.Parse(inputs)
		var vErr *features.ValidationError
		switch {
		case errors.As(err, &vErr):
			for _, f := range vErr.Fields {
				inErr.add("inputs."+f.Field, f.Message)
			}
		case err != nil:
			inErr.add("inputs", err.Error())
		}
		bundle.Input = record
	}

	if len(inErr.Problems) > 0 {
		return Bundle{}, &inErr
	}
	return bundle, nil
}

func requiredString(raw map[string]any, key string) (string, string) {
	value, present := raw[key]
	if !present || value == nil {
		return "", msgRequired
	}
	s, ok := value.(string)
	if !ok {
		return "", msgString
	}
	if strings.TrimSpace(s) == "" {
		return "", msgRequired
	}
	return s, ""
}
