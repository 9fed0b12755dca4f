package ini

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Converter parses a raw INI value. Name appears in error messages.
type Converter[T any] struct {
	Name  string
	Parse func(raw string) (T, error)
}

func Int() Converter[int] {
	return Converter[int]{Name: "Int", Parse: strconv.Atoi}
}

// String accepts any value; empty values only when allowEmpty is set.
func String(allowEmpty bool) Converter[string] {
	return Converter[string]{Name: "String", Parse: func(s string) (string, error) {
		if !allowEmpty && s == "" {
			return "", errors.New("empty string not allowed")
		}
		return s, nil
	}}
}

// Choice restricts elem to a fixed set of raw values. It panics when a
// choice is itself invalid for elem.
func Choice[T any](elem Converter[T], choices ...string) Converter[T] {
	for _, c := range choices {
		if _, err := elem.Parse(c); err != nil {
			panic(fmt.Sprintf("choice '%s' is not a valid value of '%s': %v", c, elem.Name, err))
		}
	}
	return Converter[T]{Name: "Choice", Parse: func(s string) (T, error) {
		for _, c := range choices {
			if s == c {
				return elem.Parse(s)
			}
		}
		var zero T
		return zero, fmt.Errorf("'%s' is not a valid choice in [%s]", s, strings.Join(choices, ", "))
	}}
}
