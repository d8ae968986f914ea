// Package validate checks request structs against `validate` struct tags.
//
// Supported rules (comma-separated):
//
//	required       field must not be zero/empty
//	nullable       if empty, skip the remaining rules
//	email          valid email address
//	url            absolute http/https URL
//	min=N          string: min length | number: min value
//	max=N          string: max length | number: max value
//	digits=N       exactly N decimal digits
//	in=a,b,c       value must be one of the listed items
//	media          a MIME type of an image or video
//	base64         standard base64 payload
//	maxitems=N     slice holds at most N items
//
// Example:
//
//	type Input struct {
//	    Role  string `json:"role"  validate:"required,in=IMPORTER,MERCHANT,ADMIN,TEAM"`
//	    Email string `json:"email" validate:"nullable,email"`
//	}
package validate

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		value := rv.Field(i)
		name := jsonFieldName(field)
		rules := splitRules(tag)

		if contains(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	raw := ""
	if v.Kind() == reflect.String {
		raw = v.String()
	} else if v.CanInterface() {
		raw = fmt.Sprintf("%v", v.Interface())
	}

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
	case "min", "max":
		n, _ := strconv.ParseFloat(param, 64)
		size, unit := measure(v, raw)
		if key == "min" && size < n {
			return fmt.Sprintf("The %s must be at least %s%s.", field, param, unit)
		}
		if key == "max" && size > n {
			return fmt.Sprintf("The %s must not exceed %s%s.", field, param, unit)
		}
	case "digits":
		n, _ := strconv.Atoi(param)
		if !digitsRE.MatchString(raw) || len(raw) != n {
			return fmt.Sprintf("The %s must be %s digits.", field, param)
		}
	case "in":
		for _, allowed := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "media":
		if !strings.HasPrefix(raw, "image/") && !strings.HasPrefix(raw, "video/") {
			return fmt.Sprintf("The %s must be an image or video type.", field)
		}
	case "base64":
		if _, err := base64.StdEncoding.DecodeString(raw); err != nil {
			return fmt.Sprintf("The %s must be base64 encoded.", field)
		}
	case "maxitems":
		n, _ := strconv.Atoi(param)
		if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Len() > n {
			return fmt.Sprintf("The %s may not have more than %d items.", field, n)
		}
	}

	return ""
}

var (
	emailRE  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitsRE = regexp.MustCompile(`^\d+$`)
)

func measure(v reflect.Value, raw string) (float64, string) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), ""
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), ""
	case reflect.Float32, reflect.Float64:
		return v.Float(), ""
	case reflect.Slice, reflect.Array, reflect.Map:
		return float64(v.Len()), " items"
	}
	return float64(len([]rune(raw))), " characters"
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

var ruleNames = map[string]bool{
	"required": true, "nullable": true, "email": true, "url": true, "min": true, "max": true,
	"digits": true, "in": true, "media": true, "base64": true, "maxitems": true,
}

// splitRules splits a tag on commas, folding bare values that follow an
// in= rule back into its parameter list.
// "required,in=FREE,PRO,max=4" → ["required", "in=FREE,PRO", "max=4"]
func splitRules(tag string) []string {
	var rules []string
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		name, _, _ := strings.Cut(tok, "=")
		if !ruleNames[name] && len(rules) > 0 && strings.HasPrefix(rules[len(rules)-1], "in=") {
			rules[len(rules)-1] += "," + tok
			continue
		}
		rules = append(rules, tok)
	}
	return rules
}

func contains(rules []string, want string) bool {
	for _, r := range rules {
		if r == want {
			return true
		}
	}
	return false
}
