package i18n

// Merge deep-merges an overlay table onto a base table and returns the result.
// Neither input is modified. An empty string leaf in the overlay never
// overrides a non-empty leaf from the base, so partial translations inherit
// missing strings from richer fallbacks.
func Merge(base, overlay Table) Table {
	merged := make(Table, len(base))
	for k, v := range base {
		merged[k] = v
	}

	for k, v := range overlay {
		existing, exists := merged[k]

		overlayTable, overlayIsTable := asTable(v)
		baseTable, baseIsTable := asTable(existing)

		switch {
		case overlayIsTable && baseIsTable:
			merged[k] = Merge(baseTable, overlayTable)
		case overlayIsTable:
			merged[k] = Merge(Table{}, overlayTable)
		default:
			if s, ok := v.(string); ok && s == "" && exists {
				continue
			}
			if v == nil && exists {
				continue
			}
			merged[k] = v
		}
	}

	return merged
}

// MergeAll folds a list of partial tables left to right
func MergeAll(tables ...Table) Table {
	merged := Table{}
	for _, t := range tables {
		merged = Merge(merged, t)
	}
	return merged
}

func asTable(v interface{}) (Table, bool) {
	switch t := v.(type) {
	case Table:
		return t, true
	case map[string]interface{}:
		return Table(t), true
	default:
		return nil, false
	}
}
