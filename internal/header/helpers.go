package header

import (
	"bytes"
	"errors"
	"strings"
	"text/template"

	"trialheader/internal/progress"
)

const (
	HelperIsTestingPhase = "isTestingPhase"
	HelperThisTrial      = "thisTrial"
	HelperNumTrials      = "numTrials"
)

// Helpers exposes the three header queries by name. Every call reads r again,
// so a template executed after a session change sees the new values.
func Helpers(r progress.Reader) template.FuncMap {
	return template.FuncMap{
		HelperIsTestingPhase: func() (bool, error) {
			snap, err := progress.Load(r)
			if err != nil {
				return false, err
			}
			return progress.IsTestingPhase(snap), nil
		},
		HelperThisTrial: func() (int, error) {
			snap, err := progress.Load(r)
			if err != nil {
				return 0, err
			}
			return progress.ThisTrial(snap), nil
		},
		HelperNumTrials: func() (int, error) {
			snap, err := progress.Load(r)
			if err != nil {
				return 0, err
			}
			return progress.NumTrials(snap), nil
		},
	}
}

// Template is a header line template bound to a session reader.
type Template struct {
	tmpl *template.Template
}

func ParseTemplate(text string, r progress.Reader) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("template is required")
	}
	tmpl, err := template.New("header").Funcs(Helpers(r)).Parse(text)
	if err != nil {
		return nil, err
	}
	return &Template{tmpl: tmpl}, nil
}

// Execute renders the template. Reader errors stay matchable with errors.Is.
func (t *Template) Execute() (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}
