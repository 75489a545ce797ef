// Package schema loads and checks form schemas.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/quick-form/model"
	"github.com/mbolis/quick-form/validation"
	"gopkg.in/yaml.v3"
)

// Today is the minDate value resolved to the load date.
const Today = "today"

//go:embed onboarding.yaml
var onboarding []byte

var reFieldID = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Default returns the embedded onboarding form.
func Default(now time.Time) (*model.FormSchema, error) {
	return Load(bytes.NewReader(onboarding), now)
}

func LoadFile(path string, now time.Time) (*model.FormSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f, now)
}

// Load decodes a YAML (or JSON) schema, resolves relative dates against now
// and checks it. Unknown keys are rejected.
func Load(r io.Reader, now time.Time) (*model.FormSchema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &model.FormSchema{}
	err := dec.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("schema.decode: %w", err)
	}

	resolveDates(s, now)

	err = Check(s)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func resolveDates(s *model.FormSchema, now time.Time) {
	for i := range s.Fields {
		c := s.Fields[i].Validation
		if c != nil && c.MinDate == Today {
			c.MinDate = now.Format(time.DateOnly)
		}
	}
}

// Check reports every problem of s at once.
func Check(s *model.FormSchema) error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if len(s.Fields) == 0 {
		fail("schema has no fields")
	}

	seen := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		switch {
		case f.ID == "":
			fail("field #%d: missing id", i+1)
		case !reFieldID.MatchString(f.ID):
			fail("field %q: id must be an identifier", f.ID)
		case seen[f.ID]:
			fail("field %q: duplicate id", f.ID)
		}
		seen[f.ID] = true

		if f.Label == "" {
			fail("field %q: missing label", f.ID)
		}
		if !f.Type.Known() {
			fail("field %q: unknown type %q", f.ID, f.Type)
			continue
		}

		if f.Type.HasOptions() {
			if len(f.Options) == 0 {
				fail("field %q: %s needs options", f.ID, f.Type)
			}
			values := make(map[string]bool, len(f.Options))
			for _, o := range f.Options {
				if values[o.Value] {
					fail("field %q: duplicate option %q", f.ID, o.Value)
				}
				values[o.Value] = true
			}
		} else if len(f.Options) > 0 {
			fail("field %q: options are not allowed on %s", f.ID, f.Type)
		}

		if f.Validation != nil {
			for _, err := range checkConstraints(f.Type, f.Validation) {
				fail("field %q: %v", f.ID, err)
			}
		}
	}

	return result.ErrorOrNil()
}

func checkConstraints(t model.FieldType, c *model.Constraints) (errs []error) {
	misplaced := func(name string) {
		errs = append(errs, fmt.Errorf("%s is not allowed on %s", name, t))
	}
	text := t == model.FieldText || t == model.FieldTextarea

	if c.MinLength != 0 || c.MaxLength != 0 || c.Regex != "" {
		if !text {
			misplaced("minLength/maxLength/regex")
		}
		if c.MinLength < 0 || c.MaxLength < 0 {
			errs = append(errs, fmt.Errorf("lengths must not be negative"))
		}
		if c.MaxLength > 0 && c.MinLength > c.MaxLength {
			errs = append(errs, fmt.Errorf("minLength exceeds maxLength"))
		}
		if c.Regex != "" {
			if _, err := validation.CompilePattern(c.Regex); err != nil {
				errs = append(errs, fmt.Errorf("regex: %w", err))
			}
		}
	}

	if c.Min != nil || c.Max != nil {
		if t != model.FieldNumber {
			misplaced("min/max")
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			errs = append(errs, fmt.Errorf("min exceeds max"))
		}
	}

	if c.MinDate != "" {
		if t != model.FieldDate {
			misplaced("minDate")
		}
		if _, err := time.Parse(time.DateOnly, c.MinDate); err != nil {
			errs = append(errs, fmt.Errorf("minDate must be YYYY-MM-DD or %q", Today))
		}
	}

	if c.MinSelected != 0 || c.MaxSelected != 0 {
		if t != model.FieldMultiSelect {
			misplaced("minSelected/maxSelected")
		}
		if c.MinSelected < 0 || c.MaxSelected < 0 {
			errs = append(errs, fmt.Errorf("selection bounds must not be negative"))
		}
		if c.MaxSelected > 0 && c.MinSelected > c.MaxSelected {
			errs = append(errs, fmt.Errorf("minSelected exceeds maxSelected"))
		}
	}

	return errs
}
