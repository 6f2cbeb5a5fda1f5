package grib

// matchKeys reports whether every filter entry is present and equal in the
// message keys. Selection is a subset match: keys the filter doesn't name
// are free.
func matchKeys(keys, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := keys[k]
		if !ok || !keyEqual(got, want) {
			return false
		}
	}
	return true
}

// keyEqual compares numerically when both sides are numbers, otherwise as
// strings. Filters carry ints where the backend may expose a float, so a
// plain == on the interface values would miss.
func keyEqual(got, want any) bool {
	gf, gok := asFloat(got)
	wf, wok := asFloat(want)
	if gok && wok {
		return gf == wf
	}
	gs, gok := got.(string)
	ws, wok := want.(string)
	return gok && wok && gs == ws
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
