package services

import "github.com/JoseLuisBVaz/Water-Regsister/internal/store"

// SumActivities returns the total liters and the activity count for a set
// of activity documents. A missing or non-numeric litersUsed contributes 0
// liters but the activity still counts. Order-independent, no I/O.
func SumActivities(activities []store.Document) (float64, int) {
	var total float64
	for _, activity := range activities {
		total += numericField(activity.Fields, "litersUsed")
	}
	return total, len(activities)
}

// numericField reads a numeric field, tolerating the integer and float
// encodings Firestore produces for the same logical number. Anything else
// is 0.
func numericField(fields map[string]any, name string) float64 {
	switch v := fields[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}
