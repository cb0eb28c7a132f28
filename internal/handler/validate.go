package handler

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// phonePattern accepts "(11) 1234-5678" and "(11) 91234-5678".
var phonePattern = regexp.MustCompile(`^\(\d{2}\)\s\d{4,5}-\d{4}$`)

// field describes one required string field of a JSON body.
type field struct {
	name    string
	min     int
	max     int // characters, matches the VARCHAR size of the column
	maxLen  int // bytes
	pattern *regexp.Regexp
	format  string
}

var (
	usernameField = field{name: "username", min: 3, max: 64}
	passwordField = field{name: "password", min: 6, maxLen: 72}
	nameField     = field{name: "name", min: 2, max: 255}
	phoneField    = field{name: "phone", pattern: phonePattern, format: "(XX) XXXXX-XXXX"}
)

// bindFields decodes the JSON body and checks every field. It returns the
// field values when all pass, otherwise one message per failing field in
// the order the fields were given. A body that is not a JSON object is
// reported as an error.
func bindFields(c echo.Context, fields ...field) (map[string]string, []string, error) {
	var body map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return nil, nil, err
	}
	vals := make(map[string]string, len(fields))
	var problems []string
	for _, f := range fields {
		v, msg := f.check(body)
		if msg != "" {
			problems = append(problems, msg)
			continue
		}
		vals[f.name] = v
	}
	return vals, problems, nil
}

func (f field) check(body map[string]any) (string, string) {
	raw, present := body[f.name]
	if !present || raw == nil {
		return "", "field " + f.name + " is required"
	}
	s, isStr := raw.(string)
	if !isStr {
		return "", "field " + f.name + " must be a string"
	}
	if s == "" {
		return "", "field " + f.name + " is required"
	}
	n := utf8.RuneCountInString(s)
	if f.min > 0 && n < f.min {
		return "", fmt.Sprintf("field %s must be at least %d characters", f.name, f.min)
	}
	if f.max > 0 && n > f.max {
		return "", fmt.Sprintf("field %s must be at most %d characters", f.name, f.max)
	}
	if f.maxLen > 0 && len(s) > f.maxLen {
		return "", fmt.Sprintf("field %s must be at most %d bytes", f.name, f.maxLen)
	}
	if f.pattern != nil && !f.pattern.MatchString(s) {
		return "", fmt.Sprintf("field %s must match the format %s", f.name, f.format)
	}
	return s, ""
}
