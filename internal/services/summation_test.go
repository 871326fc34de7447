package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

func activityDoc(id string, liters any) store.Document {
	fields := map[string]any{"activityName": "Ducha"}
	if liters != nil {
		fields["litersUsed"] = liters
	}
	return store.Document{ID: id, Fields: fields}
}

func TestSumActivities(t *testing.T) {
	tests := []struct {
		name       string
		activities []store.Document
		wantLiters float64
		wantCount  int
	}{
		{
			name:       "empty",
			activities: nil,
			wantLiters: 0,
			wantCount:  0,
		},
		{
			name: "mixed numeric encodings",
			activities: []store.Document{
				activityDoc("a", float64(6)),
				activityDoc("b", int64(70)),
				activityDoc("c", 15),
			},
			wantLiters: 91,
			wantCount:  3,
		},
		{
			name: "missing liters still counts the activity",
			activities: []store.Document{
				activityDoc("a", nil),
				activityDoc("b", float64(8)),
			},
			wantLiters: 8,
			wantCount:  2,
		},
		{
			name: "non-numeric liters treated as zero",
			activities: []store.Document{
				activityDoc("a", "mucho"),
				activityDoc("b", float64(2)),
			},
			wantLiters: 2,
			wantCount:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			liters, count := SumActivities(tt.activities)
			assert.Equal(t, tt.wantLiters, liters)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestSumActivitiesOrderIndependent(t *testing.T) {
	forward := []store.Document{
		activityDoc("a", float64(6)),
		activityDoc("b", int64(70)),
		activityDoc("c", float64(15)),
	}
	backward := []store.Document{forward[2], forward[1], forward[0]}

	fl, fc := SumActivities(forward)
	bl, bc := SumActivities(backward)
	assert.Equal(t, fl, bl)
	assert.Equal(t, fc, bc)
}
