package normalize

import "github.com/leenscore/leenscore/internal/model"

// counterStrategy attempts to extract counters from one historical payload
// layout. It reports whether that layout was present at all; values from a
// present layout are taken as-is, even when zero.
type counterStrategy func(root, result map[string]interface{}) (model.KeyPointCounters, bool)

// counterStrategies is the fixed extraction priority order. The first
// strategy whose layout is present wins; layouts are never merged.
var counterStrategies = []counterStrategy{
	nestedKeyPoints,
	legacyResultCounts,
	legacyRootCounts,
}

// extractCounters resolves the key-point counters across the historical
// payload layouts
func extractCounters(root, result map[string]interface{}) model.KeyPointCounters {
	for _, strategy := range counterStrategies {
		if counters, ok := strategy(root, result); ok {
			return counters
		}
	}
	return model.KeyPointCounters{}
}

// nestedKeyPoints reads the current layout: result.keyPoints.{confirmed,...}
func nestedKeyPoints(_, result map[string]interface{}) (model.KeyPointCounters, bool) {
	kp := getMap(result, "keyPoints")
	if kp == nil {
		return model.KeyPointCounters{}, false
	}
	return model.KeyPointCounters{
		Confirmed:    nonNegative(getInt(kp, "confirmed")),
		Uncertain:    nonNegative(getInt(kp, "uncertain")),
		Contradicted: nonNegative(getInt(kp, "contradicted")),
	}, true
}

// legacyResultCounts reads the legacy flat fields inside result, either
// directly (result.confirmedCount) or nested (result.counters.confirmedCount)
func legacyResultCounts(_, result map[string]interface{}) (model.KeyPointCounters, bool) {
	if counters, ok := flatCounts(getMap(result, "counters")); ok {
		return counters, true
	}
	return flatCounts(result)
}

// legacyRootCounts reads the oldest layout: count fields at the payload root
func legacyRootCounts(root, _ map[string]interface{}) (model.KeyPointCounters, bool) {
	return flatCounts(root)
}

// flatCounts reads *Count fields from a map, present if any of them exists
func flatCounts(obj map[string]interface{}) (model.KeyPointCounters, bool) {
	if obj == nil {
		return model.KeyPointCounters{}, false
	}
	_, hasConfirmed := obj["confirmedCount"]
	_, hasUncertain := obj["uncertainCount"]
	_, hasContradicted := obj["contradictedCount"]
	if !hasConfirmed && !hasUncertain && !hasContradicted {
		return model.KeyPointCounters{}, false
	}
	return model.KeyPointCounters{
		Confirmed:    nonNegative(getInt(obj, "confirmedCount")),
		Uncertain:    nonNegative(getInt(obj, "uncertainCount")),
		Contradicted: nonNegative(getInt(obj, "contradictedCount")),
	}, true
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
