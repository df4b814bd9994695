package domain

import "testing"

func TestSpectrumQuestionCorpus(t *testing.T) {
	if got := len(SpectrumQuestions); got != 12 {
		t.Fatalf("question count = %d, want 12", got)
	}

	perAxis := map[AxisID]int{}
	seen := map[string]bool{}
	for _, q := range SpectrumQuestions {
		if seen[q.ID] {
			t.Fatalf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if _, ok := AxisByID(q.Axis); !ok {
			t.Fatalf("question %q references unknown axis %q", q.ID, q.Axis)
		}
		perAxis[q.Axis]++

		if len(q.Options) != 5 {
			t.Fatalf("question %q has %d options, want 5", q.ID, len(q.Options))
		}
		for i, opt := range q.Options {
			if want := i - 2; opt.Value != want {
				t.Fatalf("question %q option %d value = %d, want %d", q.ID, i, opt.Value, want)
			}
			if opt.Label == "" {
				t.Fatalf("question %q option %d has empty label", q.ID, i)
			}
		}
	}

	for _, axis := range SpectrumAxes {
		if perAxis[axis.ID] != 3 {
			t.Fatalf("axis %q has %d questions, want 3", axis.ID, perAxis[axis.ID])
		}
	}
}

func TestArchetypeCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Archetypes {
		if seen[a.Key] {
			t.Fatalf("duplicate archetype key %q", a.Key)
		}
		seen[a.Key] = true
		if len(a.Conditions) == 0 {
			t.Fatalf("archetype %q has no conditions", a.Key)
		}
		for axis := range a.Conditions {
			if _, ok := AxisByID(axis); !ok {
				t.Fatalf("archetype %q conditions reference unknown axis %q", a.Key, axis)
			}
		}
	}
	if len(DefaultArchetype.Conditions) != 0 {
		t.Fatalf("default archetype must be unconditional")
	}
}

func TestMemberCatalogConsistency(t *testing.T) {
	if len(Members) == 0 {
		t.Fatal("member catalog is empty")
	}
	profiles := map[string]MemberProfile{}
	for _, p := range MemberProfiles {
		profiles[p.MemberID] = p
	}

	for _, m := range Members {
		p, ok := profiles[m.ID]
		if !ok {
			t.Fatalf("member %q has no spectrum profile", m.ID)
		}
		for _, axis := range SpectrumAxes {
			v, ok := p.Values[axis.ID]
			if !ok {
				t.Fatalf("member %q profile misses axis %q", m.ID, axis.ID)
			}
			if v < 0 || v > 100 {
				t.Fatalf("member %q axis %q value %d out of range", m.ID, axis.ID, v)
			}
		}
		if _, ok := MemberStyleGuides[m.ID]; !ok {
			t.Fatalf("member %q has no style guide", m.ID)
		}
		if _, ok := SignatureScent(m.ID); !ok {
			t.Fatalf("member %q has no signature scent", m.ID)
		}
	}
}

func TestFindScentNote(t *testing.T) {
	note, ok := FindScentNote("베르가못")
	if !ok {
		t.Fatal("expected bergamot by Korean name")
	}
	if note.NameEn != "Bergamot" {
		t.Fatalf("NameEn = %q, want Bergamot", note.NameEn)
	}

	note, ok = FindScentNote("white musk")
	if !ok {
		t.Fatal("expected case-insensitive English lookup")
	}
	if note.Name != "화이트머스크" {
		t.Fatalf("Name = %q", note.Name)
	}

	if _, ok := FindScentNote("nonexistent"); ok {
		t.Fatal("unexpected match for unknown note")
	}
}

func TestStyleIntensityInfluence(t *testing.T) {
	cases := map[StyleIntensity]int{
		StyleIntensityLight:  30,
		StyleIntensityMedium: 60,
		StyleIntensityBold:   90,
	}
	for id, want := range cases {
		if got := id.InfluencePercent(); got != want {
			t.Fatalf("influence(%q) = %d, want %d", id, got, want)
		}
		if _, ok := StyleIntensityByID(id); !ok {
			t.Fatalf("intensity %q missing from catalog", id)
		}
	}
	if got := StyleIntensity("extreme").InfluencePercent(); got != 0 {
		t.Fatalf("unknown intensity influence = %d, want 0", got)
	}
}
