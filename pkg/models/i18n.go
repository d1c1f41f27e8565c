package models

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"slices"
	"sort"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/talesforge/talesforge/pkg/errcodes"
)

// I18n holds per-locale variants of a text field, keyed by locale code. It is
// stored as a JSON object in a TEXT column, NULL when empty.
type I18n map[string]string

// Value implements driver.Valuer.
func (m I18n) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *I18n) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.Errorf("cannot scan %T into I18n", src)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	out := map[string]string{}
	if err := json.Unmarshal(data, &out); err != nil {
		return errors.WithStack(err)
	}
	*m = out
	return nil
}

// Set stores value for locale, allocating the map when needed. An empty value
// removes the locale.
func (m *I18n) Set(locale, value string) {
	if value == "" {
		if *m != nil {
			delete(*m, locale)
		}
		return
	}
	if *m == nil {
		*m = I18n{}
	}
	(*m)[locale] = value
}

var localeRE = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// Translations is the `translations` part of admin payloads:
// {locale: {field: value}}.
type Translations map[string]map[string]string

// Validate checks that every locale is well formed and only names fields in
// allowed.
func (t Translations) Validate(allowed ...string) error {
	var issues []errcodes.Issue
	for _, locale := range sortedKeys(t) {
		if !localeRE.MatchString(locale) {
			issues = append(issues, errcodes.Issue{
				Path:    "translations." + locale,
				Message: fmt.Sprintf("%q is not a valid locale", locale),
			})
			continue
		}
		for _, field := range sortedKeys(t[locale]) {
			if !slices.Contains(allowed, field) {
				issues = append(issues, errcodes.Issue{
					Path:    "translations." + locale + "." + field,
					Message: fmt.Sprintf("%q is not a translatable field", field),
				})
			}
		}
	}
	if len(issues) > 0 {
		return errcodes.ValidationIssues(issues)
	}
	return nil
}

// Apply merges the translations into targets, keyed by field name, and
// returns the columns that changed. Call Validate first.
func (t Translations) Apply(targets map[string]*I18n) []string {
	touched := map[string]bool{}
	for locale, fields := range t {
		for field, value := range fields {
			target, ok := targets[field]
			if !ok {
				continue
			}
			target.Set(locale, value)
			touched[field] = true
		}
	}
	columns := make([]string, 0, len(touched))
	for _, field := range sortedKeys(touched) {
		columns = append(columns, field+"_i18n")
	}
	return columns
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
