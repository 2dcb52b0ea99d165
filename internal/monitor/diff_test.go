package monitor

import (
	"sort"
	"testing"
)

func TestDiffKeys(t *testing.T) {
	tests := []struct {
		name        string
		previous    map[int]string
		current     map[int]string
		wantCreated []int
		wantEnded   []int
	}{
		{
			name:     "no change",
			previous: map[int]string{1: "a", 2: "b"},
			current:  map[int]string{1: "a", 2: "b"},
		},
		{
			name:        "all new",
			previous:    map[int]string{},
			current:     map[int]string{1: "a", 2: "b"},
			wantCreated: []int{1, 2},
		},
		{
			name:      "all gone",
			previous:  map[int]string{1: "a", 2: "b"},
			current:   map[int]string{},
			wantEnded: []int{1, 2},
		},
		{
			name:        "disjoint",
			previous:    map[int]string{1: "a"},
			current:     map[int]string{2: "b"},
			wantCreated: []int{2},
			wantEnded:   []int{1},
		},
		{
			name:        "overlap",
			previous:    map[int]string{1: "a", 2: "b"},
			current:     map[int]string{2: "b", 3: "c"},
			wantCreated: []int{3},
			wantEnded:   []int{1},
		},
		{
			// Values are irrelevant: only key membership matters.
			name:     "value change is not a diff",
			previous: map[int]string{1: "a"},
			current:  map[int]string{1: "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, ended := diffKeys(tt.previous, tt.current)
			sort.Ints(created)
			sort.Ints(ended)

			if !equalInts(created, tt.wantCreated) {
				t.Errorf("created = %v, want %v", created, tt.wantCreated)
			}
			if !equalInts(ended, tt.wantEnded) {
				t.Errorf("ended = %v, want %v", ended, tt.wantEnded)
			}
		})
	}
}

func equalInts(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
