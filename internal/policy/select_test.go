package policy

import "testing"

func scored(url string, score float64, sameSite bool) Candidate {
	return Candidate{AbsoluteURL: url, Score: score, SameSite: sameSite}
}

func TestSelectPicksHighestScore(t *testing.T) {
	result := Select([]Candidate{
		scored("https://example.com/terms", 90, true),
		scored("https://example.com/legal/terms", 140, true),
		scored("https://example.com/tos", 60, true),
	}, TypeTerms)

	if result == nil {
		t.Fatal("expected a selection")
	}

	if result.URL != "https://example.com/legal/terms" {
		t.Errorf("expected highest-scored candidate, got %s", result.URL)
	}

	if result.Score != 140 {
		t.Errorf("expected score 140, got %v", result.Score)
	}
}

func TestSelectThresholdBoundary(t *testing.T) {
	if Select([]Candidate{scored("https://example.com/terms", 49, true)}, TypeTerms) != nil {
		t.Error("score 49 must not be selected")
	}

	if Select([]Candidate{scored("https://example.com/terms", 50, true)}, TypeTerms) == nil {
		t.Error("score 50 must be eligible")
	}
}

func TestSelectPrefersSameSitePool(t *testing.T) {
	result := Select([]Candidate{
		scored("https://thirdparty.io/terms", 200, false),
		scored("https://example.com/terms", 90, true),
	}, TypeTerms)

	if result == nil {
		t.Fatal("expected a selection")
	}

	if result.URL != "https://example.com/terms" {
		t.Errorf("same-site candidate must win despite lower score, got %s", result.URL)
	}
}

func TestSelectFallsBackToOffSitePool(t *testing.T) {
	result := Select([]Candidate{
		scored("https://docs.thirdparty.io/terms", 120, false),
	}, TypeTerms)

	if result == nil || result.URL != "https://docs.thirdparty.io/terms" {
		t.Error("off-site candidates are usable when no same-site candidate exists")
	}
}

func TestSelectStableTieBreak(t *testing.T) {
	result := Select([]Candidate{
		scored("https://example.com/first", 80, true),
		scored("https://example.com/second", 80, true),
	}, TypeTerms)

	if result == nil || result.URL != "https://example.com/first" {
		t.Error("equal scores must resolve to first-encountered order")
	}
}

func TestSelectNegativePathRecheck(t *testing.T) {
	// a candidate that somehow scored above threshold but sits under /careers/
	result := Select([]Candidate{
		scored("https://example.com/careers/terms", 120, true),
	}, TypeTerms)

	if result != nil {
		t.Errorf("hard-negative path must be rejected at selection, got %s", result.URL)
	}
}

func TestSelectEmptyInput(t *testing.T) {
	if Select(nil, TypeTerms) != nil {
		t.Error("no candidates must yield no selection")
	}
}

func TestScoreAndSelectEndToEnd(t *testing.T) {
	candidates := ExtractCandidates(candidateFixture, "https://www.example.com")

	result := ScoreAndSelect(candidates, TypeTerms)
	if result == nil {
		t.Fatal("expected a terms selection from the fixture")
	}

	if result.URL != "https://www.example.com/legal/terms" {
		t.Errorf("expected /legal/terms, got %s", result.URL)
	}

	privacy := ScoreAndSelect(candidates, TypePrivacy)
	if privacy == nil {
		t.Fatal("expected a privacy selection from the fixture")
	}

	if privacy.URL != "https://cdn.example.com/privacy" {
		t.Errorf("expected same-site privacy link, got %s", privacy.URL)
	}
}

func TestSelectDoesNotMutateInputOrder(t *testing.T) {
	candidates := []Candidate{
		scored("https://example.com/a", 60, true),
		scored("https://example.com/b", 90, true),
	}

	_ = Select(candidates, TypeTerms)

	if candidates[0].AbsoluteURL != "https://example.com/a" {
		t.Error("caller's slice order must be preserved")
	}
}
