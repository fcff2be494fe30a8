package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if expected := "deferred"; Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	content := strings.TrimSpace(string(buf))
	if content == "" {
		t.Fatal("VERSION file is empty")
	}

	if Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestApply(t *testing.T) {
	type config struct{ n int }

	inc := func(c config) config { c.n++; return c }
	dbl := func(c config) config { c.n *= 2; return c }

	got := Apply(config{n: 1}, inc, nil, dbl)
	if got.n != 4 {
		t.Errorf("Apply() = %d, want 4", got.n)
	}

	if got := Apply(config{n: 7}); got.n != 7 {
		t.Errorf("Apply() without options = %d, want 7", got.n)
	}
}

func TestDirs(t *testing.T) {
	prefix := Prefix()
	if prefix == "" {
		t.Fatal("Prefix() is empty")
	}

	for name, dir := range map[string]string{
		"ConfigDir": ConfigDir(),
		"CacheDir":  CacheDir(),
	} {
		if filepath.Base(dir) != prefix {
			t.Errorf("%s() = %q, want base %q", name, dir, prefix)
		}
	}
}
