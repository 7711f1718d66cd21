package hhana

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ArrayFlag is a repeatable command-line flag. The first Set discards the
// default values.
type ArrayFlag[T any] struct {
	Array   []T
	parse   func(string) (T, error)
	beenSet bool
}

func (f *ArrayFlag[T]) Set(valueStr string) error {
	value, err := f.parse(valueStr)
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *ArrayFlag[T]) String() string {
	if f == nil {
		return "[]"
	}
	return fmt.Sprint(f.Array)
}

// FloatArrayFlags collects float values, e.g. ΔR cuts.
func FloatArrayFlags(defaults ...float64) *ArrayFlag[float64] {
	return &ArrayFlag[float64]{
		Array: defaults,
		parse: func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
	}
}

// StringArrayFlags collects names, e.g. categories. Use Names to split
// comma-separated values.
func StringArrayFlags(defaults ...string) *ArrayFlag[string] {
	f := &ArrayFlag[string]{Array: defaults}
	f.parse = func(s string) (string, error) {
		if s == "" {
			return "", fmt.Errorf("empty value")
		}
		return s, nil
	}
	return f
}

// Names splits comma-separated entries of a string flag.
func Names(f *ArrayFlag[string]) []string {
	var out []string
	for _, v := range f.Array {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// PrintUsage writes the usage header of a command taking event files. The
// caller follows it with the flag defaults.
func PrintUsage(w io.Writer, name, about string) {
	fmt.Fprintf(w, "Usage: %s [options] <event-files>...\n\n%s\n\noptions:\n", name, strings.TrimSpace(about))
}
