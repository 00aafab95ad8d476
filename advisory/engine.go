// Package advisory turns a submission and its classification into an
// ordered, human-readable list of advice lines.
package advisory

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/liamcoop/edupredict/features"
)

// costLimit bounds the evaluation cost of a single condition.
const costLimit = 10000

type compiledRule struct {
	id      string
	message string
	program cel.Program
}

type compiledSection struct {
	name  string
	rules []compiledRule
}

// Engine evaluates an ordered rule table. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	sections []compiledSection
}

// NewEngine compiles the default rule table.
func NewEngine() (*Engine, error) {
	return NewEngineWithSections(DefaultSections())
}

// NewEngineWithSections compiles a custom rule table. Every condition must
// compile and type-check to bool; the first failure is returned.
func NewEngineWithSections(sections []Section) (*Engine, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	en := &Engine{sections: make([]compiledSection, 0, len(sections))}
	seen := make(map[string]bool)

	for _, section := range sections {
		cs := compiledSection{name: section.Name}
		for _, rule := range section.Rules {
			if seen[rule.ID] {
				return nil, fmt.Errorf("duplicate advisory rule ID %q", rule.ID)
			}
			seen[rule.ID] = true

			prog, err := compileCondition(env, rule.Condition)
			if err != nil {
				return nil, fmt.Errorf("failed to compile rule %s: %w", rule.ID, err)
			}
			cs.rules = append(cs.rules, compiledRule{id: rule.ID, message: rule.Message, program: prog})
		}
		en.sections = append(en.sections, cs)
	}

	return en, nil
}

func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(FactLabel, cel.IntType),
		cel.Variable(FactStudyHours, cel.DoubleType),
		cel.Variable(FactScreenTime, cel.DoubleType),
		cel.Variable(FactSleepHours, cel.DoubleType),
		cel.Variable(FactMentalHealth, cel.IntType),
		cel.Variable(FactAttendance, cel.DoubleType),
		cel.Variable(FactPartTimeJob, cel.BoolType),
		cel.Variable(FactExtracurricular, cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

func compileCondition(env *cel.Env, expression string) (cel.Program, error) {
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("condition %q must evaluate to bool, got %s", expression, ast.OutputType())
	}

	prog, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}
	return prog, nil
}

// facts builds the evaluation input for a record and its label.
func facts(r features.InputRecord, label int) map[string]any {
	return map[string]any{
		FactLabel:           int64(label),
		FactStudyHours:      r.StudyHoursPerDay,
		FactScreenTime:      r.ScreenTime(),
		FactSleepHours:      r.SleepHours,
		FactMentalHealth:    int64(r.MentalHealthRating),
		FactAttendance:      r.AttendancePercentage,
		FactPartTimeJob:     r.PartTimeJob,
		FactExtracurricular: r.ExtracurricularParticipation,
	}
}

// Advise returns the advisory lines for a record and its classification
// label, one line per section at most, in section order. The result depends
// only on its arguments.
func (en *Engine) Advise(r features.InputRecord, label int) ([]string, error) {
	activation := facts(r, label)

	lines := make([]string, 0, len(en.sections))
	for _, section := range en.sections {
		for _, rule := range section.rules {
			out, _, err := rule.program.Eval(activation)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate rule %s: %w", rule.id, err)
			}
			if matched, ok := out.Value().(bool); ok && matched {
				lines = append(lines, rule.message)
				break
			}
		}
	}
	return lines, nil
}

// Join renders advisory lines as the newline-separated text sent to clients.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

// Split is the inverse of Join. Surrounding whitespace is trimmed from each
// line.
func Split(text string) []string {
	parts := strings.Split(text, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, strings.TrimSpace(p))
	}
	return lines
}
