package advisory

// Rule is one candidate advisory line. Condition is a CEL expression over
// the facts declared by the engine's environment and must evaluate to bool.
type Rule struct {
	ID        string
	Condition string
	Message   string
}

// Section groups mutually exclusive rules about one habit. At most one line
// is emitted per section: the first rule whose condition holds.
type Section struct {
	Name  string
	Rules []Rule
}

// Fact names available to rule conditions.
const (
	FactLabel           = "label"
	FactStudyHours      = "study_hours"
	FactScreenTime      = "screen_time"
	FactSleepHours      = "sleep_hours"
	FactMentalHealth    = "mental_health"
	FactAttendance      = "attendance"
	FactPartTimeJob     = "part_time_job"
	FactExtracurricular = "extracurricular"
)

// DefaultSections is the advisory rule table. Section order is the order of
// lines in the advisory text. Thresholds are contractual: boundary values
// fall in the bucket written with the inclusive comparison.
func DefaultSections() []Section {
	return []Section{
		{
			Name: "opening",
			Rules: []Rule{
				{ID: "opening-at-risk", Condition: `label == 1`,
					Message: "Vous semblez en difficulté. Voici une analyse personnalisée de vos habitudes :"},
				{ID: "opening-not-at-risk", Condition: `label != 1`,
					Message: "Vous n'êtes pas en difficulté. Voici une évaluation de vos habitudes :"},
			},
		},
		{
			Name: "study",
			Rules: []Rule{
				{ID: "study-low", Condition: `study_hours < 2.0`,
					Message: "- Vous étudiez peu. Essayez d’atteindre au moins 2 à 3h/jour."},
				{ID: "study-balanced", Condition: `study_hours >= 2.0 && study_hours <= 4.0`,
					Message: "- Temps d’étude modéré, c’est une bonne base."},
				{ID: "study-overwork", Condition: `study_hours > 4.0`,
					Message: "- Vous étudiez beaucoup. Attention au surmenage, ménagez-vous."},
			},
		},
		{
			Name: "screen",
			Rules: []Rule{
				{ID: "screen-none", Condition: `screen_time == 0.0`,
					Message: "- Aucun écran détecté. Si c’est volontaire, parfait ! Sinon, n’hésitez pas à vous accorder du temps libre sainement."},
				{ID: "screen-moderate", Condition: `screen_time <= 3.0`,
					Message: "- Temps d’écran modéré. Restez vigilant à l'équilibre."},
				{ID: "screen-high", Condition: `screen_time > 3.0`,
					Message: "- Temps d’écran élevé. Réduisez un peu pour ne pas impacter vos performances."},
			},
		},
		{
			Name: "sleep",
			Rules: []Rule{
				{ID: "sleep-insufficient", Condition: `sleep_hours < 6.0`,
					Message: "- Sommeil insuffisant. Essayez d’atteindre 7-8h pour mieux apprendre."},
				{ID: "sleep-adequate", Condition: `sleep_hours >= 6.0 && sleep_hours <= 8.0`,
					Message: "- Sommeil correct. Continuez à bien dormir."},
				{ID: "sleep-excessive", Condition: `sleep_hours > 8.0`,
					Message: "- Sommeil long. Assurez-vous qu’il ne remplace pas du temps d’étude."},
			},
		},
		{
			Name: "mental-health",
			Rules: []Rule{
				{ID: "mental-low", Condition: `mental_health <= 3`,
					Message: "- Votre état mental est bas. N'hésitez pas à en parler à un adulte ou un professionnel."},
				{ID: "mental-moderate", Condition: `mental_health >= 4 && mental_health <= 6`,
					Message: "- Santé mentale moyenne. Prenez soin de vous et accordez-vous des pauses."},
				{ID: "mental-strong", Condition: `mental_health >= 7`,
					Message: "- Très bonne santé mentale. C’est un point fort à maintenir."},
			},
		},
		{
			Name: "attendance",
			Rules: []Rule{
				{ID: "attendance-good", Condition: `attendance >= 90.0`,
					Message: "- Très bonne présence en classe. Cela favorise vos apprentissages."},
				{ID: "attendance-low", Condition: `attendance < 90.0`,
					Message: "- Présence en classe moyenne ou faible. Essayez d'être plus régulier."},
			},
		},
		{
			Name: "part-time-job",
			Rules: []Rule{
				{ID: "part-time-job", Condition: `part_time_job`,
					Message: "- Vous avez un job à côté. Pensez à bien gérer votre énergie et votre emploi du temps."},
			},
		},
		{
			Name: "extracurricular",
			Rules: []Rule{
				{ID: "extracurricular-yes", Condition: `extracurricular`,
					Message: "- Vous participez à des activités. Cela renforce l’équilibre et la motivation."},
				{ID: "extracurricular-no", Condition: `!extracurricular`,
					Message: "- Vous n'avez pas d'activités extérieures. Envisagez-en une pour vous aérer l’esprit."},
			},
		},
	}
}
