package skill

import "testing"

// TestMatchScore_NameSubstring verifies the 2.0 name-substring bonus.
func TestMatchScore_NameSubstring(t *testing.T) {
	d := New("web_research", "web research", "")

	got := d.MatchScore("please do some web research for me")
	if got != 2.0 {
		t.Errorf("expected score 2.0, got %v", got)
	}
}

// TestMatchScore_TagHits verifies each matching tag contributes 1.0.
func TestMatchScore_TagHits(t *testing.T) {
	d := New("coder", "coder", "").WithTags([]string{"golang", "python"})

	got := d.MatchScore("write some golang and python code")
	if got != 2.0 {
		t.Errorf("expected score 2.0 for two tag hits, got %v", got)
	}
}

// TestMatchScore_DescriptionOverlapCountsRepeats mirrors the Rust
// ground truth: the overlap term counts every task token found in the
// description's word set, including repeats, divided by the
// description's own (undeduplicated) token count — not the task's.
func TestMatchScore_DescriptionOverlapCountsRepeats(t *testing.T) {
	// "data" appears three times in the task; the description has two
	// words ("analyze", "data"), so each "data" occurrence should add
	// one hit against the description's 2-word denominator.
	repeated := Descriptor{ID: "x", Description: "analyze data", Proficiency: 1.0}
	got := repeated.MatchScore("data data data")
	want := (3.0 / 2.0) * 2.0
	if got != want {
		t.Errorf("expected overlap score %v, got %v", want, got)
	}
}

// TestMatchScore_DescriptionOverlapIgnoresTaskLength checks the
// denominator is the description's token count, not the task's — a
// task with many unrelated words shouldn't dilute the overlap score.
func TestMatchScore_DescriptionOverlapIgnoresTaskLength(t *testing.T) {
	d := Descriptor{ID: "x", Description: "fix bug", Proficiency: 1.0}

	got := d.MatchScore("please fix this bug in the login flow today")
	want := (2.0 / 2.0) * 2.0 // both "fix" and "bug" present once each
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestMatchScore_ProficiencyScales confirms the combined score is
// scaled by Proficiency.
func TestMatchScore_ProficiencyScales(t *testing.T) {
	full := New("x", "x-skill", "").WithProficiency(1.0)
	half := New("x", "x-skill", "").WithProficiency(0.5)

	task := "use the x-skill now"
	if got, want := half.MatchScore(task), full.MatchScore(task)*0.5; got != want {
		t.Errorf("expected half-proficiency score %v, got %v", want, got)
	}
}

// TestMatchScore_NoOverlapIsZero ensures an unrelated task scores 0.
func TestMatchScore_NoOverlapIsZero(t *testing.T) {
	d := New("security_audit", "security audit", "scan for vulnerabilities")

	got := d.MatchScore("bake a cake")
	if got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

// TestClamp verifies Proficiency is restricted to [min, max].
func TestClamp(t *testing.T) {
	d := Descriptor{Proficiency: 1.5}.Clamp(0.1, 1.0)
	if d.Proficiency != 1.0 {
		t.Errorf("expected clamp to 1.0, got %v", d.Proficiency)
	}

	d = Descriptor{Proficiency: -0.5}.Clamp(0.1, 1.0)
	if d.Proficiency != 0.1 {
		t.Errorf("expected clamp to 0.1, got %v", d.Proficiency)
	}
}
