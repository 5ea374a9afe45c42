package rules

import "github.com/sevigo/codelens/internal/lang"

// Diagnostic records a non-fatal problem encountered while loading or
// merging rules: a quarantined rule, a dropped duplicate, or a shadowed id.
type Diagnostic struct {
	RuleID  string
	Source  string
	Message string
}

// Catalog is an id-indexed, read-only-after-build set of rules. Once built
// it is shared across concurrent scans without further locking (Design Note
// "Cyclic references": findings reference rules by id, never by pointer).
type Catalog struct {
	rules       map[string]Rule
	diagnostics []Diagnostic
}

// NewCatalog builds a Catalog from documents, each already parsed into
// Rules tagged with their source name and priority. Sources are merged in
// the order given; for a given rule id, the highest-priority definition
// wins and ties go to the earlier-merged source.
func NewCatalog(docs ...[]Rule) *Catalog {
	c := &Catalog{rules: make(map[string]Rule)}
	for _, doc := range docs {
		c.merge(doc)
	}
	return c
}

func (c *Catalog) merge(doc []Rule) {
	seenInDoc := map[string]bool{}
	for _, r := range doc {
		if seenInDoc[r.ID] {
			c.diagnostics = append(c.diagnostics, Diagnostic{
				RuleID: r.ID, Source: r.SourceName,
				Message: "duplicate rule id within source, later definition dropped",
			})
			continue
		}
		seenInDoc[r.ID] = true

		existing, ok := c.rules[r.ID]
		if ok && existing.Priority >= r.Priority {
			c.diagnostics = append(c.diagnostics, Diagnostic{
				RuleID: r.ID, Source: r.SourceName,
				Message: "shadowed by higher- or equal-priority source " + existing.SourceName,
			})
			continue
		}
		if ok {
			c.diagnostics = append(c.diagnostics, Diagnostic{
				RuleID: existing.ID, Source: existing.SourceName,
				Message: "shadowed by higher-priority source " + r.SourceName,
			})
		}
		c.rules[r.ID] = r
	}
}

// Get returns the rule for id, if present (quarantined rules are still
// present; callers filter on Quarantined).
func (c *Catalog) Get(id string) (Rule, bool) {
	r, ok := c.rules[id]
	return r, ok
}

// All returns every rule in the catalog, in no particular order.
func (c *Catalog) All() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r)
	}
	return out
}

// ForLanguage returns the non-quarantined rules applicable to tag.
func (c *Catalog) ForLanguage(tag lang.Tag) []Rule {
	out := make([]Rule, 0)
	for _, r := range c.rules {
		if r.Quarantined {
			continue
		}
		if r.Language == tag {
			out = append(out, r)
		}
	}
	return out
}

// Diagnostics returns every non-fatal issue encountered while merging.
func (c *Catalog) Diagnostics() []Diagnostic {
	return c.diagnostics
}

// Len returns the number of distinct rule ids in the catalog, including
// quarantined ones.
func (c *Catalog) Len() int {
	return len(c.rules)
}
