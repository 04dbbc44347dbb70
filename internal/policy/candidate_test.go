package policy

import "testing"

const candidateFixture = `
<html>
<body>
	<header class="site-header">
		<a href="/pricing">Pricing</a>
	</header>
	<nav id="main-menu">
		<a href="/about">About Us</a>
	</nav>
	<main>
		<a href="/signup" target="_blank">Sign   Up</a>
		<a href="#top">Back to top</a>
		<a href="javascript:void(0)">Open menu</a>
		<a href="mailto:hi@example.com">Contact</a>
	</main>
	<footer class="site-footer">
		<div class="legal-links">
			<a href="/legal/terms" rel="terms nofollow" title="Terms of Service">Terms</a>
			<a href="https://cdn.example.com/privacy">Privacy Policy</a>
			<a href="https://thirdparty.io/privacy">Partner Privacy</a>
		</div>
	</footer>
</body>
</html>`

func TestExtractCandidatesResolvesAndFilters(t *testing.T) {
	candidates := ExtractCandidates(candidateFixture, "https://www.example.com/home")

	if len(candidates) != 6 {
		t.Fatalf("expected 6 candidates, got %d: %+v", len(candidates), candidates)
	}

	byURL := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byURL[c.AbsoluteURL] = c
	}

	terms, ok := byURL["https://www.example.com/legal/terms"]
	if !ok {
		t.Fatal("relative /legal/terms was not resolved against the base")
	}

	if terms.Region != RegionFooter {
		t.Errorf("expected footer region, got %s", terms.Region)
	}

	if terms.TitleAttr != "terms of service" {
		t.Errorf("title attribute not normalized: %q", terms.TitleAttr)
	}

	if len(terms.RelTokens) != 2 || terms.RelTokens[0] != "terms" {
		t.Errorf("rel tokens not split: %v", terms.RelTokens)
	}

	if !terms.SameSite {
		t.Error("same-host link must be same-site")
	}
}

func TestExtractCandidatesSameSiteCoversSubdomains(t *testing.T) {
	candidates := ExtractCandidates(candidateFixture, "https://www.example.com")

	for _, c := range candidates {
		switch c.AbsoluteURL {
		case "https://cdn.example.com/privacy":
			if !c.SameSite {
				t.Error("subdomain of the base registrable domain must be same-site")
			}
		case "https://thirdparty.io/privacy":
			if c.SameSite {
				t.Error("unrelated domain must not be same-site")
			}
		}
	}
}

func TestExtractCandidatesRegionClassification(t *testing.T) {
	candidates := ExtractCandidates(candidateFixture, "https://example.com")

	regions := make(map[string]Region, len(candidates))
	for _, c := range candidates {
		regions[c.RawHref] = c.Region
	}

	if regions["/pricing"] != RegionHeader {
		t.Errorf("expected header region for /pricing, got %s", regions["/pricing"])
	}

	if regions["/about"] != RegionNav {
		t.Errorf("expected nav region for /about, got %s", regions["/about"])
	}

	if regions["/signup"] != RegionBody {
		t.Errorf("expected body region for /signup, got %s", regions["/signup"])
	}
}

func TestExtractCandidatesCollapsesText(t *testing.T) {
	candidates := ExtractCandidates(candidateFixture, "https://example.com")

	for _, c := range candidates {
		if c.RawHref == "/signup" {
			if c.Text != "sign up" {
				t.Errorf("expected collapsed lower-cased text, got %q", c.Text)
			}

			if !c.OpensNewTab {
				t.Error("target=_blank anchor must set OpensNewTab")
			}
		}
	}
}

func TestExtractCandidatesPathMetadata(t *testing.T) {
	html := `<html><body>
		<a href="/a/b/c/d/e/f">Deep</a>
		<a href="/posts/123456/terms-discussion">Thread</a>
	</body></html>`

	candidates := ExtractCandidates(html, "https://example.com")
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	if candidates[0].PathSegmentCount != 6 {
		t.Errorf("expected 6 segments, got %d", candidates[0].PathSegmentCount)
	}

	if !candidates[1].PathHasDigits {
		t.Error("numeric id segment must set PathHasDigits")
	}
}

func TestExtractCandidatesNeverFailsOnBrokenMarkup(t *testing.T) {
	inputs := []string{
		"",
		"<<<<not html at all",
		`<a href="https://example.com/terms">unclosed`,
		`<a href="ht tp://bad host">bad</a>`,
	}

	for _, in := range inputs {
		// must not panic; partial results are acceptable
		_ = ExtractCandidates(in, "https://example.com")
	}
}

func TestExtractCandidatesEmptyForAnchorlessPage(t *testing.T) {
	candidates := ExtractCandidates("<html><body><p>hello</p></body></html>", "https://example.com")

	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}
