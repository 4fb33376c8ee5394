package frontmatter

// Merge combines existing frontmatter with newly computed fields under a
// fill-empty-only policy: an incoming value is taken only when the existing
// one is absent, nil, empty, or the NOT_DEFINED sentinel. Anything the user
// already set survives. Callers that want to force an overwrite must clear
// the field to a sentinel first.
func Merge(existing, incoming *Mapping) *Mapping {
	out := existing.Clone()
	for _, key := range incoming.keys {
		inVal := incoming.values[key]
		if inVal == nil {
			continue
		}
		if cur, ok := out.Get(key); ok && !isUnset(cur) {
			continue
		}
		out.Set(key, inVal)
	}
	return out
}

func isUnset(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return s == "" || s == NotDefined
}
