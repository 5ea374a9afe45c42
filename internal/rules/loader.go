package rules

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/codelens/internal/lang"
)

// Format is the closed set of rule-document encodings the loader accepts.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatForPath derives a Format from a file extension, for callers loading
// an entire rule-source directory.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, true
	case ".toml":
		return TOML, true
	case ".json":
		return JSON, true
	default:
		return "", false
	}
}

type ruleDocument struct {
	Rules []rawRule `yaml:"rules" toml:"rules" json:"rules"`
}

type rawRule struct {
	ID       string         `yaml:"id" toml:"id" json:"id"`
	Language string         `yaml:"language" toml:"language" json:"language"`
	Severity string         `yaml:"severity" toml:"severity" json:"severity"`
	Category string         `yaml:"category" toml:"category" json:"category"`
	Message  string         `yaml:"message" toml:"message" json:"message"`
	Note     string         `yaml:"note" toml:"note" json:"note"`
	Rule     rawPatternSpec `yaml:"rule" toml:"rule" json:"rule"`
}

type rawPatternSpec struct {
	Pattern  string   `yaml:"pattern" toml:"pattern" json:"pattern"`
	Any      []string `yaml:"any" toml:"any" json:"any"`
	Matches  string   `yaml:"matches" toml:"matches" json:"matches"`
	Regex    string   `yaml:"regex" toml:"regex" json:"regex"`
	NotEmpty []string `yaml:"not_empty" toml:"not_empty" json:"not_empty"`
}

// Load decodes a rule document of the given format and compiles every entry
// into a Rule, quarantining (never dropping) anything that fails
// validation. sourceName and priority are stamped onto every rule for later
// catalog merging.
func Load(data []byte, format Format, sourceName string, priority int) ([]Rule, error) {
	var doc ruleDocument
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	case TOML:
		err = toml.Unmarshal(data, &doc)
	case JSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("rules: unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("rules: decode %s document from %s: %w", format, sourceName, err)
	}

	seen := map[string]bool{}
	out := make([]Rule, 0, len(doc.Rules))
	for _, raw := range doc.Rules {
		r := build(raw, sourceName, priority)
		if seen[r.ID] {
			quarantine(&r, "duplicate rule id within this document")
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

func build(raw rawRule, sourceName string, priority int) Rule {
	r := Rule{
		ID:         raw.ID,
		Message:    raw.Message,
		Note:       raw.Note,
		SourceName: sourceName,
		Priority:   priority,
		Spec: PatternSpec{
			Pattern:  raw.Rule.Pattern,
			Any:      raw.Rule.Any,
			Matches:  raw.Rule.Matches,
			Regex:    raw.Rule.Regex,
			NotEmpty: raw.Rule.NotEmpty,
		},
	}

	if r.ID == "" {
		quarantine(&r, "missing required field: id")
		return r
	}
	if r.Message == "" {
		quarantine(&r, "missing required field: message")
		return r
	}

	tag, ok := lang.Get(lang.Tag(strings.ToLower(raw.Language)))
	if !ok {
		quarantine(&r, fmt.Sprintf("unrecognised language tag %q", raw.Language))
		return r
	}
	r.Language = tag.Tag

	sev, ok := ParseSeverity(raw.Severity)
	if !ok {
		quarantine(&r, fmt.Sprintf("unrecognised severity %q", raw.Severity))
		return r
	}
	r.Severity = sev
	r.Category = ParseCategory(raw.Category)

	compile(&r)
	return r
}
