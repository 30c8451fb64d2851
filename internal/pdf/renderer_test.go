package pdf

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/internal/domain"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

func TestRenderMissingFonts(t *testing.T) {
	r := New(Config{FontDir: t.TempDir(), FontRegular: "missing.ttf", FontBold: "missing-bold.ttf"})
	_, err := r.Render(context.Background(), ExampleResume(), domain.TemplateBasic, false)
	if err == nil {
		t.Fatal("expected error when fonts are missing")
	}
	if !strings.Contains(err.Error(), "load font") {
		t.Errorf("error = %v, want font load failure", err)
	}
}

func TestStyleForTemplates(t *testing.T) {
	creative := styleFor(domain.TemplateCreative)
	if creative.titles.summary != "About Me" {
		t.Errorf("creative summary title = %q, want About Me", creative.titles.summary)
	}
	if creative.titles.experience != "Career Path" {
		t.Errorf("creative experience title = %q, want Career Path", creative.titles.experience)
	}

	modern := styleFor(domain.TemplateModern)
	if modern.headerFill == nil {
		t.Error("modern style should fill the header band")
	}
	blue := rgb{0, 102, 204}
	if modern.accent != blue {
		t.Errorf("modern accent = %+v, want blue", modern.accent)
	}

	basic := styleFor(domain.TemplateBasic)
	if basic.headerFill != nil {
		t.Error("basic style should not fill the header")
	}
	if basic.titles != defaultTitles {
		t.Errorf("basic titles = %+v, want defaults", basic.titles)
	}
}

func TestTemplateGating(t *testing.T) {
	for _, tpl := range domain.PremiumTemplates() {
		if !tpl.Premium() {
			t.Errorf("%s should be premium", tpl)
		}
	}
	if domain.TemplateBasic.Premium() {
		t.Error("basic template should be free")
	}
}

func TestContactLine(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a@b.com|+1 555| Austin ", "a@b.com | +1 555 | Austin"},
		{"  a@b.com  ", "a@b.com"},
		{"a@b.com || ", "a@b.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := contactLine(tc.in); got != tc.want {
			t.Errorf("contactLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExampleResumeComplete(t *testing.T) {
	if !ExampleResume().Complete() {
		t.Error("example resume must have every section filled")
	}
}
