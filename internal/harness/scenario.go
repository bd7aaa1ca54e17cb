package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a harness test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Values is a value document: a mapping of names to values.
	Values yaml.Node `yaml:"values"`

	// Routines are built in order, each with a fresh builder.
	Routines []RoutineDef `yaml:"routines,omitempty"`

	// Assertions are evaluated after everything is built.
	Assertions []Assertion `yaml:"assertions"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// RoutineDef describes a routine as a list of calls.
//
// Operands are written as strings: a parameter or step name refers to that
// local, and a leading quote ('name) quotes the named value.
type RoutineDef struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
	Steps  []Step   `yaml:"steps,omitempty"`
	Result string   `yaml:"result"`
}

// Step is one call whose result is bound to Let.
type Step struct {
	Let  string   `yaml:"let"`
	Call string   `yaml:"call"`
	Args []string `yaml:"args,omitempty"`
}

// Assertion checks a property of the built values or routines.
type Assertion struct {
	// Type is one of match, hash_equal, hash_differs or store_roundtrip.
	Type string `yaml:"type"`

	// Value names the value under test (match, store_roundtrip).
	Value string `yaml:"value,omitempty"`

	// Routine names the routine under test (store_roundtrip).
	Routine string `yaml:"routine,omitempty"`

	// Parser is the combinator to run (match): atom, cons, nil, list,
	// triplet, atoms or form.
	Parser string `yaml:"parser,omitempty"`

	// Keyword is the head atom for the form parser.
	Keyword string `yaml:"keyword,omitempty"`

	// Matches is the expected outcome (match). Defaults to true.
	Matches *bool `yaml:"matches,omitempty"`

	// Length is the expected number of yielded elements (match).
	Length *int `yaml:"length,omitempty"`

	// Elements are the expected renderings of the yielded elements (match).
	Elements []string `yaml:"elements,omitempty"`

	// Values names the values to compare (hash_equal, hash_differs).
	Values []string `yaml:"values,omitempty"`
}

// Assertion type constants.
const (
	AssertMatch          = "match"
	AssertHashEqual      = "hash_equal"
	AssertHashDiffers    = "hash_differs"
	AssertStoreRoundtrip = "store_roundtrip"
)

// Parser names accepted by match assertions.
var parserNames = map[string]bool{
	"atom":    true,
	"cons":    true,
	"nil":     true,
	"list":    true,
	"triplet": true,
	"atoms":   true,
	"form":    true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.Path = path
	return scenario, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, r := range s.Routines {
		if r.Name == "" {
			return fmt.Errorf("routines[%d]: name is required", i)
		}
		if r.Result == "" {
			return fmt.Errorf("routines[%d]: result is required", i)
		}
		for j, step := range r.Steps {
			if step.Let == "" {
				return fmt.Errorf("routines[%d].steps[%d]: let is required", i, j)
			}
			if step.Call == "" {
				return fmt.Errorf("routines[%d].steps[%d]: call is required", i, j)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertMatch:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for match", index)
		}
		if !parserNames[a.Parser] {
			return fmt.Errorf("assertions[%d]: unknown parser %q", index, a.Parser)
		}
		if a.Parser == "form" && a.Keyword == "" {
			return fmt.Errorf("assertions[%d]: keyword is required for the form parser", index)
		}
		if a.Length != nil && *a.Length < 0 {
			return fmt.Errorf("assertions[%d]: length must be non-negative", index)
		}
	case AssertHashEqual, AssertHashDiffers:
		if len(a.Values) < 2 {
			return fmt.Errorf("assertions[%d]: at least two values are required for %s", index, a.Type)
		}
	case AssertStoreRoundtrip:
		if (a.Value == "") == (a.Routine == "") {
			return fmt.Errorf("assertions[%d]: exactly one of value or routine is required for store_roundtrip", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
