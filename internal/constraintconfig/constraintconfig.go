// Package constraintconfig parses the line-oriented constraint-configuration
// grammar (spec.md §6.3): HARD:/SOFT:/CONFIG:/GOAL: directives, blank lines
// and #-comments, grounded on russross-schedule's Parse (switch on line
// prefix, line-numbered errors).
package constraintconfig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tag is one HARD: or SOFT: declaration: a name, free-text description,
// and (soft only) a weight in [0,1].
type Tag struct {
	Name        string
	Description string
	Weight      float64
}

// Manifest is the set of constraint tags a configuration file names.
// Known tags are validated against knownHard/knownSoft; anything else
// lands in Custom so an operator can stage a new constraint name ahead of
// engine support for it. The engine's own hard constraints are fixed
// (§6.3: "for reporting only") — a Manifest never changes what the engine
// enforces.
type Manifest struct {
	Hard   []Tag
	Soft   []Tag
	Custom []string
	Goals  []string
}

// Overrides carries the CONFIG: directives that adjust the calendar shape
// before a solve (applied onto domain.Input.Config by the caller).
type Overrides struct {
	PeriodsPerDay *int
	DaysPerWeek   *int
}

var knownHard = map[string]bool{
	"NO_TEACHER_CONFLICT":  true,
	"NO_STUDENT_CONFLICT":  true,
	"NO_ROOM_CONFLICT":     true,
	"ROOM_CAPACITY":        true,
	"TEACHER_QUALIFIED":    true,
	"TEACHER_AVAILABILITY": true,
	"ROOM_FEATURES":        true,
	"GRADE_RESTRICTION":    true,
	"TEACHER_MAX_SECTIONS": true,
}

var knownSoft = map[string]bool{
	"BALANCED_SECTIONS":           true,
	"STUDENT_ELECTIVE_PREFERENCE": true,
	"MINIMIZE_GAPS":               true,
	"TEACHER_PREFERENCES":         true,
	"LUNCH_AVAILABILITY":          true,
}

// ParseError reports the 1-based line a directive failed on.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("constraint config line %d: %s", e.Line, e.Text)
}

// Parse reads a constraint-configuration document and returns the
// Manifest and Overrides it names.
func Parse(r io.Reader) (*Manifest, *Overrides, error) {
	manifest := &Manifest{}
	overrides := &Overrides{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		directive, rest, ok := splitDirective(line)
		if !ok {
			return nil, nil, &ParseError{Line: lineNo, Text: "expected a HARD:, SOFT:, CONFIG: or GOAL: directive"}
		}

		switch directive {
		case "HARD":
			tag := parseTag(rest)
			name := strings.ToUpper(tag.Name)
			if knownHard[name] {
				manifest.Hard = append(manifest.Hard, tag)
			} else {
				manifest.Custom = append(manifest.Custom, tag.Name)
			}
		case "SOFT":
			tag, err := parseSoftTag(rest)
			if err != nil {
				return nil, nil, &ParseError{Line: lineNo, Text: err.Error()}
			}
			name := strings.ToUpper(tag.Name)
			if knownSoft[name] {
				manifest.Soft = append(manifest.Soft, tag)
			} else {
				manifest.Custom = append(manifest.Custom, tag.Name)
			}
		case "GOAL":
			manifest.Goals = append(manifest.Goals, strings.TrimSpace(rest))
		case "CONFIG":
			if err := applyConfig(overrides, rest); err != nil {
				return nil, nil, &ParseError{Line: lineNo, Text: err.Error()}
			}
		default:
			return nil, nil, &ParseError{Line: lineNo, Text: "unknown directive " + directive}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return manifest, overrides, nil
}

func splitDirective(line string) (directive, rest string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	directive = strings.ToUpper(strings.TrimSpace(line[:idx]))
	rest = line[idx+1:]
	switch directive {
	case "HARD", "SOFT", "CONFIG", "GOAL":
		return directive, rest, true
	default:
		return directive, rest, false
	}
}

// parseTag splits a "NAME | description" body into its parts. A document
// that omits the description (bare "HARD: NAME") still parses: the whole
// trimmed body becomes the name.
func parseTag(rest string) Tag {
	parts := strings.SplitN(rest, "|", 2)
	name := strings.TrimSpace(parts[0])
	var description string
	if len(parts) == 2 {
		description = strings.TrimSpace(parts[1])
	}
	return Tag{Name: name, Description: description}
}

// parseSoftTag additionally expects a trailing "weight=<float>" segment in
// [0,1] (§6.3).
func parseSoftTag(rest string) (Tag, error) {
	parts := strings.Split(rest, "|")
	name := strings.TrimSpace(parts[0])
	tag := Tag{Name: name}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if w, ok := strings.CutPrefix(part, "weight="); ok {
			weight, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
			if err != nil {
				return Tag{}, fmt.Errorf("SOFT %s has a malformed weight %q", name, w)
			}
			if weight < 0 || weight > 1 {
				return Tag{}, fmt.Errorf("SOFT %s weight %v is outside [0,1]", name, weight)
			}
			tag.Weight = weight
			continue
		}
		if tag.Description == "" {
			tag.Description = part
		}
	}
	return tag, nil
}

func applyConfig(overrides *Overrides, rest string) error {
	parts := strings.SplitN(strings.TrimSpace(rest), "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("CONFIG directive must be KEY=VALUE, got %q", rest)
	}
	key := strings.ToUpper(strings.TrimSpace(parts[0]))
	value := strings.TrimSpace(parts[1])

	// Unknown keys are accepted and ignored; their values are not kept
	// anywhere. Only the two known keys are parsed.
	switch key {
	case "PERIODS_PER_DAY":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("CONFIG %s expects an integer value, got %q", key, value)
		}
		overrides.PeriodsPerDay = &n
	case "DAYS_PER_WEEK":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("CONFIG %s expects an integer value, got %q", key, value)
		}
		overrides.DaysPerWeek = &n
	}
	return nil
}
