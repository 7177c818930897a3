package models

// QueryDefinition is one declarative search against the tracker: a set of
// filter fields, each accepting one or more values, plus an optional list
// of attributes to retain on the returned issues. Filter field names are
// passed through to the backend verbatim.
type QueryDefinition struct {
	Filters       map[string][]string
	IncludeFields []string
}

// Values returns the accepted values for a filter field, nil when the
// field is not part of the definition.
func (q QueryDefinition) Values(field string) []string {
	if q.Filters == nil {
		return nil
	}
	return q.Filters[field]
}

// GroupingFields are the documented selectors for bucketing issues.
var GroupingFields = []string{"component", "qa_contact", "assigned_to", "creator"}

// IsGroupingField reports whether field is one of the documented
// grouping selectors.
func IsGroupingField(field string) bool {
	for _, f := range GroupingFields {
		if f == field {
			return true
		}
	}
	return false
}
