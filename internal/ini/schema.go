// Package ini loads INI files through an explicit schema: every expected
// key is bound to a destination and a converter before loading.
package ini

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

var ErrMissing = errors.New("missing")

// FieldError names the section and key that failed to load.
type FieldError struct {
	Section   string
	Key       string
	Value     string
	Converter string
	Err       error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissing) {
		return fmt.Sprintf("[%s] %s: missing", e.Section, e.Key)
	}
	return fmt.Sprintf("[%s] %s: '%s' is not a valid value of '%s': %v", e.Section, e.Key, e.Value, e.Converter, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

type field struct {
	section    string
	key        string
	converter  string
	hasDefault bool
	set        func(raw string) error
	setDefault func()
}

// Schema is the set of bound keys. The zero value is ready to use.
type Schema struct {
	fields []field
}

// Bind registers a required key.
func Bind[T any](s *Schema, section, key string, dst *T, c Converter[T]) {
	s.fields = append(s.fields, field{
		section:   section,
		key:       key,
		converter: c.Name,
		set: func(raw string) error {
			v, err := c.Parse(raw)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
	})
}

// BindDefault registers an optional key that falls back to def.
func BindDefault[T any](s *Schema, section, key string, dst *T, c Converter[T], def T) {
	Bind(s, section, key, dst, c)
	f := &s.fields[len(s.fields)-1]
	f.hasDefault = true
	f.setDefault = func() { *dst = def }
}

// Load reads source (a file path or []byte) and fills every bound
// destination. It stops at the first invalid or missing key.
func (s *Schema) Load(source any) error {
	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, source)
	if err != nil {
		return fmt.Errorf("load ini: %w", err)
	}
	for _, fd := range s.fields {
		raw, ok := lookup(f, fd.section, fd.key)
		if !ok {
			if fd.hasDefault {
				fd.setDefault()
				continue
			}
			return &FieldError{Section: fd.section, Key: fd.key, Converter: fd.converter, Err: ErrMissing}
		}
		if err := fd.set(raw); err != nil {
			return &FieldError{Section: fd.section, Key: fd.key, Value: raw, Converter: fd.converter, Err: err}
		}
	}
	return nil
}

func lookup(f *ini.File, section, key string) (string, bool) {
	sec, err := f.GetSection(section)
	if err != nil {
		return "", false
	}
	key = strings.ToLower(key)
	if !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}
