package out

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"kokushi/internal/modules/quiz/domain"
	quizout "kokushi/internal/modules/quiz/port/out"
)

// HTMLWriter renders a question as an HTML fragment. Every label passes
// through html/template escaping.
type HTMLWriter struct {
	tmpl *template.Template
}

var _ quizout.ViewWriter = (*HTMLWriter)(nil)

const questionTemplate = `<section class="question" data-question-id="{{.View.QuestionID}}" data-mode="{{.View.Mode}}">
<header>
<span class="counter">{{.Progress.Counter}}</span>
<div class="progress-bar"><div class="progress-fill" style="width: {{printf "%.1f" .Progress.Percent}}%"></div></div>
<span id="timer" class="timer{{if .Timer.Band}} timer-{{.Timer.Band}}{{end}}">{{.Timer.Text}}</span>
</header>
{{- if .View.Category}}
<p class="category">{{.View.Category}}</p>
{{- end}}
<p class="question-text">{{range $i, $l := .View.Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
{{- if .View.Cue}}
<aside class="cue">{{.View.Cue}}</aside>
{{- end}}
{{- with .View.NoChoice}}
<div class="no-choice-data">
<p>No choice data for this question.</p>
<p>Correct answer: {{keys .CorrectKeys}}</p>
{{- if .Theme}}
<p>Theme: {{.Theme}}</p>
{{- end}}
</div>
{{- else}}
<ul class="choices">
{{- range .View.Choices}}
<li class="{{choiceClass .}}" data-choice="{{.Key}}"{{if .Disabled}} aria-disabled="true"{{end}}><span class="key">{{.Key}}</span> {{.Label}}</li>
{{- end}}
</ul>
{{- end}}
{{- with .View.Feedback}}
<div class="feedback {{if .Correct}}correct{{else}}incorrect{{end}}">
<p class="banner">{{if .Correct}}Correct{{else}}Incorrect: answer {{keys .CorrectKeys}}{{end}}</p>
{{- if .Explanation}}
<p class="explanation">{{.Explanation}}</p>
{{- end}}
{{- if .Hint}}
<p class="hint">{{.Hint}}</p>
{{- end}}
{{- if .Theme}}
<p class="theme">{{.Theme}}</p>
{{- end}}
</div>
{{- end}}
<nav>
<button class="prev"{{if .Progress.PrevDisabled}} disabled{{end}}>Previous</button>
<button class="next"{{if .Progress.NextDisabled}} disabled{{end}}>Next</button>
</nav>
</section>
`

func NewHTMLWriter() *HTMLWriter {
	funcs := template.FuncMap{
		"keys": func(sel fmt.Stringer) string { return sel.String() },
		"choiceClass": func(c domain.ChoiceView) string {
			classes := []string{"choice"}
			if c.Selected {
				classes = append(classes, "selected")
			}
			switch c.Mark {
			case domain.MarkCorrect:
				classes = append(classes, "correct")
			case domain.MarkIncorrect:
				classes = append(classes, "incorrect")
			}
			if c.Placeholder {
				classes = append(classes, "no-data")
			}
			return strings.Join(classes, " ")
		},
	}
	return &HTMLWriter{tmpl: template.Must(template.New("question").Funcs(funcs).Parse(questionTemplate))}
}

func (h *HTMLWriter) Write(w io.Writer, view domain.QuestionView, progress domain.Progress, timer domain.Reading) error {
	data := struct {
		View     domain.QuestionView
		Progress domain.Progress
		Timer    domain.Reading
	}{view, progress, timer}
	if err := h.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
