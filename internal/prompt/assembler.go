// Package prompt composes a prompt-ready bundle from the structural
// summary, the scan findings, the diff text, and any work-item
// descriptions the caller resolved through its work-item collaborator. The
// assembler is deterministic and never performs I/O beyond reading its own
// embedded templates at construction.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/sevigo/codelens/internal/match"
	"github.com/sevigo/codelens/internal/rules"
	"github.com/sevigo/codelens/internal/summary"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Inputs is everything one Assemble call works from. Every field is
// optional; an all-zero Inputs assembles to an empty bundle.
type Inputs struct {
	// WorkItems are opaque description strings, already fetched by the
	// work-item collaborator. The assembler never resolves IDs itself.
	WorkItems []string
	// DiffText is the raw unified diff under review.
	DiffText string
	// Summary is the structural summary for the same diff.
	Summary *summary.StructuralSummary
	// Findings are the scan findings for the touched files.
	Findings []match.Finding
	// MaxFindings bounds how many findings the bundle includes, highest
	// severity first; 0 means all.
	MaxFindings int
}

// Assembler renders Inputs into a single prompt-ready string with a fixed
// section order: work-items, diff, structural summary, findings.
type Assembler struct {
	tmpl *template.Template
}

// NewAssembler parses the embedded section templates.
func NewAssembler() (*Assembler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("prompt: failed to parse embedded templates: %w", err)
	}
	return &Assembler{tmpl: tmpl}, nil
}

type severityGroup struct {
	Severity string
	Findings []match.Finding
}

type findingsView struct {
	Groups  []severityGroup
	Omitted int
}

// Assemble renders the bundle. Empty sections are skipped entirely rather
// than rendered as bare headings.
func (a *Assembler) Assemble(in Inputs) (string, error) {
	var sections []string

	if len(in.WorkItems) > 0 {
		s, err := a.render("workitems.tmpl", in.WorkItems)
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}
	if in.DiffText != "" {
		s, err := a.render("diff.tmpl", in.DiffText)
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}
	if in.Summary != nil && len(in.Summary.Files) > 0 {
		s, err := a.render("summary.tmpl", in.Summary)
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}
	if len(in.Findings) > 0 {
		s, err := a.render("findings.tmpl", groupFindings(in.Findings, in.MaxFindings))
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}

	if len(sections) == 0 {
		return "", nil
	}
	return strings.Join(sections, "\n\n") + "\n", nil
}

func (a *Assembler) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("prompt: render %s: %w", name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// severityOrder lists the groups highest severity first; findings inside a
// group keep the caller's (file, line, column) order.
var severityOrder = []rules.Severity{rules.Error, rules.Warning, rules.Info, rules.Hint}

func groupFindings(findings []match.Finding, maxFindings int) findingsView {
	bySeverity := map[rules.Severity][]match.Finding{}
	for _, f := range findings {
		bySeverity[f.Severity] = append(bySeverity[f.Severity], f)
	}

	budget := maxFindings
	if budget <= 0 {
		budget = len(findings)
	}

	var view findingsView
	included := 0
	for _, sev := range severityOrder {
		group := bySeverity[sev]
		if len(group) == 0 {
			continue
		}
		remaining := budget - included
		if remaining <= 0 {
			break
		}
		if len(group) > remaining {
			group = group[:remaining]
		}
		included += len(group)
		view.Groups = append(view.Groups, severityGroup{Severity: string(sev), Findings: group})
	}
	view.Omitted = len(findings) - included
	return view
}
