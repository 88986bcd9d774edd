package chi

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/places/internal/domain"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
)

// timeLayouts are the accepted date-time formats. Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BindParams reads every parameter of reg from q.
// Absent parameters with a default take the default. Unregistered keys are ignored.
func BindParams(q url.Values, reg domquery.Registry) (domquery.Params, error) {
	values := make(map[string]any)
	for _, spec := range reg.Specs() {
		raw, ok := rawValues(q, spec)
		if !ok {
			if spec.Default != nil {
				values[spec.Name] = defaultValue(spec.Default)
			}
			continue
		}
		v, err := bindValue(spec, raw)
		if err != nil {
			return domquery.Params{}, err
		}
		values[spec.Name] = v
	}
	return domquery.NewParams(values), nil
}

// rawValues collects name occurrences in query order. List kinds also take name[].
func rawValues(q url.Values, spec domquery.Spec) ([]string, bool) {
	plain, okPlain := q[spec.Name]
	var list []string
	var okList bool
	if spec.Kind == domquery.KindIntList || spec.Kind == domquery.KindStringList {
		list, okList = q[spec.Name+"[]"]
	}
	if !okPlain && !okList {
		return nil, false
	}
	out := make([]string, 0, len(plain)+len(list))
	out = append(out, plain...)
	return append(out, list...), true
}

func defaultValue(v any) any {
	if s, ok := v.([]string); ok {
		return slices.Clone(s)
	}
	return v
}

func bindValue(spec domquery.Spec, raw []string) (any, error) {
	last := raw[len(raw)-1]

	switch spec.Kind {
	case domquery.KindInt:
		var n int
		if err := runtime.BindQueryParameter("form", true, true, spec.Name, url.Values{spec.Name: {last}}, &n); err != nil {
			return nil, invalidType(spec)
		}
		if err := checkBounds(spec, n); err != nil {
			return nil, err
		}
		return n, nil

	case domquery.KindIntList:
		items := splitList(raw)
		if len(items) == 0 {
			return []int64{}, nil
		}
		var ids []int64
		joined := url.Values{spec.Name: {strings.Join(items, ",")}}
		if err := runtime.BindQueryParameter("form", false, true, spec.Name, joined, &ids); err != nil {
			return nil, invalidType(spec)
		}
		return ids, nil

	case domquery.KindString:
		v, ok := canonical(spec, last)
		if !ok {
			return nil, notInEnum(spec)
		}
		return v, nil

	case domquery.KindStringList:
		items := splitList(raw)
		out := make([]string, 0, len(items))
		for _, item := range items {
			v, ok := canonical(spec, item)
			if !ok {
				return nil, notInEnum(spec)
			}
			out = append(out, v)
		}
		return out, nil

	case domquery.KindBool:
		var b bool
		if err := runtime.BindQueryParameter("form", true, true, spec.Name, url.Values{spec.Name: {last}}, &b); err != nil {
			return nil, invalidType(spec)
		}
		return b, nil

	case domquery.KindDateTime:
		ts, err := parseTime(last)
		if err != nil {
			return nil, domain.NewValidationError(spec.Name, "Invalid date.")
		}
		return ts, nil
	}

	return nil, fmt.Errorf("param %s: unsupported kind %q", spec.Name, spec.Kind)
}

// splitList flattens repeated and comma separated values, dropping blanks.
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// canonical returns the enum spelling of v, matching case-insensitively.
func canonical(spec domquery.Spec, v string) (string, bool) {
	if spec.Allows(v) {
		return v, true
	}
	for _, e := range spec.Enum {
		if strings.EqualFold(e, v) {
			return e, true
		}
	}
	return "", false
}

func parseTime(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		ts, err := time.Parse(layout, v)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func checkBounds(spec domquery.Spec, n int) error {
	switch {
	case spec.Min != nil && spec.Max != nil && (n < *spec.Min || n > *spec.Max):
		return domain.NewValidationError(spec.Name,
			fmt.Sprintf("%s must be between %d (inclusive) and %d (inclusive)", spec.Name, *spec.Min, *spec.Max))
	case spec.Min != nil && n < *spec.Min:
		return domain.NewValidationError(spec.Name,
			fmt.Sprintf("%s must be greater than or equal to %d", spec.Name, *spec.Min))
	case spec.Max != nil && n > *spec.Max:
		return domain.NewValidationError(spec.Name,
			fmt.Sprintf("%s must be less than or equal to %d", spec.Name, *spec.Max))
	}
	return nil
}

func invalidType(spec domquery.Spec) error {
	return domain.NewValidationError(spec.Name, fmt.Sprintf("%s is not of type %s.", spec.Name, spec.Kind))
}

func notInEnum(spec domquery.Spec) error {
	return domain.NewValidationError(spec.Name,
		fmt.Sprintf("%s is not one of %s.", spec.Name, strings.Join(spec.Enum, ", ")))
}
