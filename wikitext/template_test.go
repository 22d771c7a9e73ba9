package wikitext_test

import (
	"testing"

	"github.com/wikimedia-sverige/project-start/wikitext"
)

func TestString_RendersParametersOnSeparateLines(t *testing.T) {
	template := wikitext.NewSubst("Projekt-sida")
	template.AddParameter("beskrivning", "Test")
	template.AddParameter("samarbetspartners", "")

	want := "{{subst:Projekt-sida\n| beskrivning = Test\n| samarbetspartners = \n}}"
	if got := template.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestString_WithoutParametersClosesImmediately(t *testing.T) {
	template := wikitext.New("Dokumentation")

	if got := template.String(); got != "{{Dokumentation}}" {
		t.Fatalf("String() = %q, want %q", got, "{{Dokumentation}}")
	}
}

func TestString_WithoutSubstPrefix(t *testing.T) {
	template := wikitext.New(":Projekt:Testar/Projektdata")

	if got := template.String(); got != "{{:Projekt:Testar/Projektdata}}" {
		t.Fatalf("String() = %q", got)
	}
}

func TestMultiline_NestsTemplatesOneLevelDeeper(t *testing.T) {
	goals := wikitext.NewSubst("Mål och mätetal 2019")
	goals.AddParameter("T.1.1", "25")
	goals.AddParameter("T.1.2", "3")

	page := wikitext.NewSubst("Projekt-sida/Mål")
	page.AddNumber("år", 2019)
	page.AddTemplate("mål", goals)
	page.AddParameter("måluppfyllnad", "")

	want := "{{subst:Projekt-sida/Mål\n" +
		"| år = 2019\n" +
		"| mål = {{subst:Mål och mätetal 2019\n" +
		"  | T.1.1 = 25\n" +
		"  | T.1.2 = 3\n" +
		"  }}\n" +
		"| måluppfyllnad = \n" +
		"}}"
	if got := page.Multiline(); got != want {
		t.Fatalf("Multiline() = %q, want %q", got, want)
	}
}

func TestInline_CompactsParametersWithoutSpaces(t *testing.T) {
	template := wikitext.NewSubst("Projekt-sida")
	template.AddParameter("beskrivning", "Test")
	template.AddNumber("år", 2019)

	want := "{{subst:Projekt-sida|beskrivning=Test|år=2019}}"
	if got := template.Inline(); got != want {
		t.Fatalf("Inline() = %q, want %q", got, want)
	}
}

func TestPositional_RendersPipeJoinedWithoutLabels(t *testing.T) {
	comment := wikitext.NewPositional("Utkommenterat", true, wikitext.Text("191002"))

	want := "{{subst:Utkommenterat|191002}}"
	for _, got := range []string{comment.String(), comment.Multiline(), comment.Inline()} {
		if got != want {
			t.Fatalf("positional render = %q, want %q", got, want)
		}
	}
}

func TestString_NestedTemplateRendersInline(t *testing.T) {
	inner := wikitext.New("Fas")
	inner.AddParameter("status", "pågår")

	outer := wikitext.New("Projektdata")
	outer.AddTemplate("fas", inner)

	want := "{{Projektdata\n| fas = {{Fas|status=pågår}}\n}}"
	if got := outer.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestAddParameter_ReplacesValueInPlace(t *testing.T) {
	template := wikitext.New("Projektdata")
	template.AddParameter("ansvarig", "A")
	template.AddParameter("budget", "100")
	template.AddParameter("ansvarig", "B")

	want := "{{Projektdata\n| ansvarig = B\n| budget = 100\n}}"
	if got := template.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestRender_IsIdempotent(t *testing.T) {
	template := wikitext.NewSubst("Projekt-sida")
	template.AddParameter("beskrivning", "Test")
	template.AddTemplate("mål", wikitext.New("Mål").AddParameter("T.1.1", "25"))

	if template.Multiline() != template.Multiline() {
		t.Fatal("Multiline() is not idempotent")
	}
	if template.String() != template.String() {
		t.Fatal("String() is not idempotent")
	}
	if template.Inline() != template.Inline() {
		t.Fatal("Inline() is not idempotent")
	}
}
