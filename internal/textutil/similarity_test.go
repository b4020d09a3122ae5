package textutil

import "testing"

func TestRatioIdentical(t *testing.T) {
	if got := Ratio("budget review", "budget review"); got != 100 {
		t.Errorf("Ratio(identical) = %d, want 100", got)
	}
}

func TestRatioEmpty(t *testing.T) {
	if got := Ratio("", ""); got != 100 {
		t.Errorf("Ratio(empty, empty) = %d, want 100", got)
	}
	if got := Ratio("abc", ""); got != 0 {
		t.Errorf("Ratio(abc, empty) = %d, want 0", got)
	}
}

func TestRatioTypo(t *testing.T) {
	got := Ratio("budget", "budgit")
	if got < 80 || got >= 100 {
		t.Errorf("Ratio(budget, budgit) = %d, want high but below 100", got)
	}
}

func TestRatioDisjoint(t *testing.T) {
	if got := Ratio("aaaa", "zzzz"); got != 0 {
		t.Errorf("Ratio(disjoint) = %d, want 0", got)
	}
}

func TestPartialRatioSubstring(t *testing.T) {
	got := PartialRatio("budget", "we will discuss the budget for next quarter")
	if got != 100 {
		t.Errorf("PartialRatio(substring) = %d, want 100", got)
	}
}

func TestPartialRatioNearMiss(t *testing.T) {
	got := PartialRatio("budgit", "we will discuss the budget for next quarter")
	if got < 80 {
		t.Errorf("PartialRatio(near miss) = %d, want >= 80", got)
	}
}

func TestPartialRatioEmptyQuery(t *testing.T) {
	if got := PartialRatio("", "anything"); got != 0 {
		t.Errorf("PartialRatio(empty query) = %d, want 0", got)
	}
}

func TestPartialRatioSymmetricOrder(t *testing.T) {
	a, b := "budget", "the budget meeting"
	if PartialRatio(a, b) != PartialRatio(b, a) {
		t.Error("PartialRatio is not symmetric in argument order")
	}
}
