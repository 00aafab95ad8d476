package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/liamcoop/edupredict/features"
)

// A4 in points
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

const (
	topMargin       = 50.0
	leftMargin      = 50.0
	indent          = 70.0
	lineStep        = 18.0
	summaryBreak    = PageHeight - 70
	adviceBreak     = PageHeight - 50
	adviceHeadingUp = 20.0
	adviceFirstLine = 40.0

	// DateFormat renders the report timestamp as "14/10/2026 à 09:30".
	DateFormat = "02/01/2006 à 15:04"
)

const (
	title          = "EduPredict - Rapport de prédiction scolaire"
	resultHeading  = "Résultat de la prédiction :"
	summaryHeading = "Résumé des données saisies :"
	adviceHeading  = "Conseils pratiques :"
)

// Style selects the font and colour of a line
type Style int

const (
	StyleTitle Style = iota
	StyleHeading
	StyleText
	StyleDetail
)

// Line is one string placed on a page. Y is the baseline measured from the
// top edge.
type Line struct {
	X     float64
	Y     float64
	Text  string
	Style Style
}

// Page is the ordered content of one page
type Page struct {
	Lines []Line
}

// Document is a laid out report
type Document struct {
	Pages []Page
}

// Lines returns the text of every line in document order.
func (d *Document) Lines() []string {
	var out []string
	for _, p := range d.Pages {
		for _, l := range p.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}

// Renderer lays out and encodes reports. The zero value stamps reports with
// the current UTC time.
type Renderer struct {
	Now      func() time.Time
	Location *time.Location
}

// NewRenderer creates a renderer that formats timestamps in loc
func NewRenderer(loc *time.Location) *Renderer {
	return &Renderer{Now: time.Now, Location: loc}
}

func (r *Renderer) timestamp() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format(DateFormat)
}

// cursor tracks the vertical position on the current page. A break becomes
// a new page only when another line is placed, so a document never ends
// with an empty page.
type cursor struct {
	doc     *Document
	y       float64
	pending bool
}

func (c *cursor) newPage() {
	c.doc.Pages = append(c.doc.Pages, Page{})
	c.y = topMargin
	c.pending = false
}

func (c *cursor) place(x, y float64, text string, style Style) {
	page := &c.doc.Pages[len(c.doc.Pages)-1]
	page.Lines = append(page.Lines, Line{X: x, Y: y, Text: text, Style: style})
}

// flow places a line at the cursor and advances it, scheduling a page break
// once the cursor passes limit.
func (c *cursor) flow(text string, style Style, limit float64) {
	if c.pending {
		c.newPage()
	}
	c.place(indent, c.y, text, style)
	c.y += lineStep
	if c.y > limit {
		c.pending = true
	}
}

// Layout positions every section of the report in fixed order: title,
// identity, result, input summary and advice. Long sections continue on
// new pages; no line is dropped or repeated.
func (r *Renderer) Layout(b Bundle) (*Document, error) {
	if strings.TrimSpace(b.Prediction) == "" {
		return nil, errors.New("report has no prediction")
	}

	doc := &Document{}
	c := &cursor{doc: doc}
	c.newPage()

	c.place(leftMargin, 50, title, StyleTitle)
	c.place(leftMargin, 90, "Nom : "+b.Student.FullName, StyleText)
	c.place(leftMargin, 110, "Email : "+b.Student.Email, StyleText)
	c.place(leftMargin, 130, "Date : "+r.timestamp(), StyleText)

	c.place(leftMargin, 170, resultHeading, StyleHeading)
	c.place(indent, 190, b.Prediction, StyleText)

	c.place(leftMargin, 230, summaryHeading, StyleHeading)
	c.y = 250
	for _, item := range summaryItems(b.Input) {
		c.flow(fmt.Sprintf("- %s : %s", item.label, item.value), StyleDetail, summaryBreak)
	}

	if c.pending || c.y+adviceFirstLine > adviceBreak {
		c.newPage()
	}
	c.place(leftMargin, c.y+adviceHeadingUp, adviceHeading, StyleHeading)
	c.y += adviceFirstLine
	for _, line := range b.Advice {
		c.flow(strings.TrimSpace(line), StyleDetail, adviceBreak)
	}

	return doc, nil
}

type summaryItem struct {
	label string
	value string
}

func summaryItems(in features.InputRecord) []summaryItem {
	return []summaryItem{
		{"Heures d’étude par jour", formatFloat(in.StudyHoursPerDay)},
		{"Heures sur les réseaux sociaux", formatFloat(in.SocialMediaHours)},
		{"Heures de Netflix", formatFloat(in.NetflixHours)},
		{"Heures de sommeil", formatFloat(in.SleepHours)},
		{"État de santé mentale", strconv.Itoa(in.MentalHealthRating)},
		{"Présence en classe (%)", formatFloat(in.AttendancePercentage)},
		{"Travail à temps partiel", yesNo(in.PartTimeJob)},
		{"Activités extrascolaires", yesNo(in.ExtracurricularParticipation)},
	}
}

// formatFloat keeps a decimal point on whole numbers: 2 renders as "2.0".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}
