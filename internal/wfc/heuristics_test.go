package wfc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/blytheSchen/SketchTiler-sub000/internal/bitset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
)

// waveOf builds a 1-row wave with the given cell contents over size patterns
func waveOf(size int, cells ...[]int) *grid.Grid[*bitset.Bitset] {
	w := grid.New[*bitset.Bitset](len(cells), 1)
	for i, members := range cells {
		w.SetAt(i, bitset.Of(size, members...))
	}
	return w
}

func uniformSet(n int) *PatternSet {
	ps := &PatternSet{Weights: make([]int, n), plogp: make([]float64, n)}
	for i := range ps.Weights {
		ps.Weights[i] = 1
	}
	return ps
}

func TestLexicalSelector(t *testing.T) {
	s := NewLexicalSelector()
	wave := waveOf(3, []int{0}, []int{1, 2}, []int{0, 1})

	if got := s.Next(wave, nil, nil); got != 1 {
		t.Fatalf("Next = %d, want 1", got)
	}
	wave.At(1).ClearAll()
	wave.At(1).Set(2)
	if got := s.Next(wave, nil, nil); got != 2 {
		t.Fatalf("Next = %d, want 2", got)
	}
	wave.At(2).ClearAll()
	wave.At(2).Set(0)
	if got := s.Next(wave, nil, nil); got != -1 {
		t.Fatalf("Next = %d, want -1", got)
	}

	s.Reset()
	fresh := waveOf(3, []int{0, 1}, []int{0})
	if got := s.Next(fresh, nil, nil); got != 0 {
		t.Errorf("Next after Reset = %d, want 0", got)
	}
}

func TestEntropySelectorPrefersFewerChoices(t *testing.T) {
	ps := uniformSet(4)
	wave := waveOf(4, []int{0, 1, 2}, []int{0}, []int{1, 3}, []int{0, 1, 2, 3})
	s := NewEntropySelector()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		if got := s.Next(wave, ps, rng); got != 2 {
			t.Fatalf("Next = %d, want 2", got)
		}
	}
}

func TestEntropySelectorBreaksTiesRandomly(t *testing.T) {
	ps := uniformSet(2)
	wave := waveOf(2, []int{0, 1}, []int{0, 1}, []int{0, 1})
	s := NewEntropySelector()
	rng := rand.New(rand.NewSource(1))

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[s.Next(wave, ps, rng)] = true
	}
	if len(seen) != 3 {
		t.Errorf("tied cells chosen = %v, want all three", seen)
	}
}

func TestEntropySelectorWeighted(t *testing.T) {
	// weights 9:1 carry less uncertainty than 1:1
	ps := &PatternSet{Weights: []int{9, 1, 1, 1}}
	ps.plogp = make([]float64, len(ps.Weights))
	for i, w := range ps.Weights {
		fw := float64(w)
		ps.plogp[i] = fw * math.Log(fw)
	}
	wave := waveOf(4, []int{2, 3}, []int{0, 1})
	if got := NewEntropySelector().Next(wave, ps, rand.New(rand.NewSource(1))); got != 1 {
		t.Errorf("Next = %d, want 1", got)
	}
}

func TestEntropySelectorAllResolved(t *testing.T) {
	wave := waveOf(2, []int{0}, []int{1})
	if got := NewEntropySelector().Next(wave, uniformSet(2), rand.New(rand.NewSource(1))); got != -1 {
		t.Errorf("Next = %d, want -1", got)
	}
}

func TestWeightedSelectorDistribution(t *testing.T) {
	ps := &PatternSet{Weights: []int{1, 3, 100}}
	cell := bitset.Of(3, 0, 1)
	s := NewWeightedSelector()
	rng := rand.New(rand.NewSource(2))

	counts := [3]int{}
	const draws = 8000
	for i := 0; i < draws; i++ {
		counts[s.Pick(cell, ps, rng)]++
	}
	if counts[2] != 0 {
		t.Fatalf("picked a pattern outside the cell %d times", counts[2])
	}
	// expect 3:1
	ratio := float64(counts[1]) / float64(counts[0])
	if ratio < 2.5 || ratio > 3.5 {
		t.Errorf("pick ratio = %.2f (%v), want about 3", ratio, counts)
	}
}

func TestWeightedSelectorSingleton(t *testing.T) {
	ps := &PatternSet{Weights: []int{5, 5, 5}}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		if got := NewWeightedSelector().Pick(bitset.Of(3, 2), ps, rng); got != 2 {
			t.Fatalf("Pick = %d, want 2", got)
		}
	}
}

func TestParseHeuristic(t *testing.T) {
	tests := []struct {
		in      string
		want    Heuristic
		wantErr bool
	}{
		{"", HeuristicEntropy, false},
		{"entropy", HeuristicEntropy, false},
		{"lexical", HeuristicLexical, false},
		{"spiral", "", true},
	}

	for _, tc := range tests {
		got, err := ParseHeuristic(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseHeuristic(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHeuristic(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
