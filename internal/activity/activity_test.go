package activity

import (
	"strings"
	"testing"
)

func validTable() *Table {
	return &Table{
		Activities: []Activity{
			{ID: 1, AvgDuration: 10, UncertaintyPct: 20},
			{ID: 2, AvgDuration: 5, UncertaintyPct: 50, Predecessors: []int{1}},
			{ID: 3, AvgDuration: 8, UncertaintyPct: 10, Predecessors: []int{1, 2}},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validTable().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Empty(t *testing.T) {
	tbl := &Table{}
	if err := tbl.Validate(); err == nil {
		t.Fatal("expected error for empty table")
	}
}

func TestValidate_NonContiguousIDs(t *testing.T) {
	tbl := validTable()
	tbl.Activities[2].ID = 5
	err := tbl.Validate()
	if err == nil || !strings.Contains(err.Error(), "contiguous") {
		t.Fatalf("expected contiguous-ID error, got %v", err)
	}
}

func TestValidate_NonPositiveDuration(t *testing.T) {
	tbl := validTable()
	tbl.Activities[0].AvgDuration = 0
	if err := tbl.Validate(); err == nil {
		t.Fatal("expected error for zero average duration")
	}
}

func TestValidate_NegativeUncertainty(t *testing.T) {
	tbl := validTable()
	tbl.Activities[1].UncertaintyPct = -5
	if err := tbl.Validate(); err == nil {
		t.Fatal("expected error for negative uncertainty")
	}
}

func TestValidate_PredecessorNotLowerIndexed(t *testing.T) {
	tbl := validTable()
	tbl.Activities[1].Predecessors = []int{2} // self-reference
	err := tbl.Validate()
	if err == nil || !strings.Contains(err.Error(), "lower-indexed") {
		t.Fatalf("expected ordering error, got %v", err)
	}

	tbl = validTable()
	tbl.Activities[0].Predecessors = []int{3} // forward reference
	if err := tbl.Validate(); err == nil {
		t.Fatal("expected ordering error for forward reference")
	}
}

func TestValidate_PredecessorOutOfRange(t *testing.T) {
	tbl := validTable()
	tbl.Activities[2].Predecessors = []int{99}
	err := tbl.Validate()
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestValidate_TooManyPredecessors(t *testing.T) {
	tbl := &Table{
		Activities: []Activity{
			{ID: 1, AvgDuration: 1},
			{ID: 2, AvgDuration: 1},
			{ID: 3, AvgDuration: 1},
			{ID: 4, AvgDuration: 1},
			{ID: 5, AvgDuration: 1, Predecessors: []int{1, 2, 3, 4}},
		},
	}
	if err := tbl.Validate(); err == nil {
		t.Fatal("expected error for 4 predecessors under the default cap of 3")
	}

	tbl.MaxPredecessors = 4
	if err := tbl.Validate(); err != nil {
		t.Fatalf("cap of 4 should allow 4 predecessors: %v", err)
	}
}

func TestWarnings_HighUncertainty(t *testing.T) {
	tbl := validTable()
	if w := tbl.Warnings(); len(w) != 0 {
		t.Fatalf("expected no warnings, got %v", w)
	}

	tbl.Activities[1].UncertaintyPct = 150
	w := tbl.Warnings()
	if len(w) != 1 || !strings.Contains(w[0], "negative") {
		t.Fatalf("expected one negative-duration warning, got %v", w)
	}
}

func TestLast(t *testing.T) {
	tbl := validTable()
	if got := tbl.Last().ID; got != 3 {
		t.Fatalf("expected last activity 3, got %d", got)
	}
}
