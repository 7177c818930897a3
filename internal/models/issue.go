package models

// Issue represents a single tracked item returned by a tracker backend.
// Fields carries every attribute the service returned for the issue;
// backends flatten their native record shape into this map so the
// aggregation pipeline stays backend-agnostic.
type Issue struct {
	ID     int                    `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// StringField returns the named attribute as a string. Missing, null and
// non-string attributes yield the empty string. Attributes the service
// returns as a list collapse to their first element.
func (i Issue) StringField(name string) string {
	v, ok := i.Fields[name]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		if len(val) == 0 {
			return ""
		}
		if s, ok := val[0].(string); ok {
			return s
		}
		return ""
	default:
		return ""
	}
}

// GroupedCount is one bar of a report: how many issues share a given
// value of the grouping field.
type GroupedCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}
