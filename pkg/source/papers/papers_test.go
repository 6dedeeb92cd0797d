package papers

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/tree"
)

const dataset = `Authors,Title,Year,Category,Url,Citations
"Ada, B.",Intro Study,2001,Teaching: Pedagogy,doi/1,10
C. Dee,Tools Survey,2001,Tools,doi/2,5
E. Eff,Pair Programming,2002,Teaching: Pedagogy: Pairs,doi/3,7
G. Hay,Lecture Notes,2002,Teaching,doi/4,3
I. Jay,Grading at Scale,2001,Teaching: Pedagogy,doi/5,0
`

func names(n *tree.Node) string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Name())
	}
	return strings.Join(out, ",")
}

func child(n *tree.Node, name string) *tree.Node {
	for _, c := range n.Children() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestReadByCategory(t *testing.T) {
	root, err := Read(strings.NewReader(dataset), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if root.Name() != DefaultRootName {
		t.Errorf("root = %q, want %q", root.Name(), DefaultRootName)
	}
	if got := names(root); got != "Teaching,Tools" {
		t.Errorf("root children = %s", got)
	}
	if root.Weight() != 25 {
		t.Errorf("root weight = %d, want 25", root.Weight())
	}

	teaching := child(root, "Teaching")
	if got := names(teaching); got != "Pedagogy,Lecture Notes" {
		t.Errorf("Teaching children = %s", got)
	}
	pedagogy := child(teaching, "Pedagogy")
	// Papers arrived before the Pairs subcategory and keep their slot.
	if got := names(pedagogy); got != "Intro Study,Grading at Scale,Pairs" {
		t.Errorf("Pedagogy children = %s", got)
	}
	if pedagogy.Weight() != 17 {
		t.Errorf("Pedagogy weight = %d, want 17", pedagogy.Weight())
	}

	intro := child(pedagogy, "Intro Study")
	if intro.Meta()[MetaAuthors] != "Ada, B." || intro.Meta()[MetaDOI] != "doi/1" || intro.Meta()[MetaYear] != "2001" {
		t.Errorf("metadata = %v", intro.Meta())
	}
	if err := root.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestReadByYear(t *testing.T) {
	root, err := Read(strings.NewReader(dataset), Options{ByYear: true, RootName: "SIGCSE"})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if root.Name() != "SIGCSE" {
		t.Errorf("root = %q", root.Name())
	}
	if got := names(root); got != "2001,2002" {
		t.Errorf("years = %s", got)
	}
	y2001 := child(root, "2001")
	if got := names(y2001); got != "Teaching,Tools" {
		t.Errorf("2001 children = %s", got)
	}
	if y2001.Weight() != 15 {
		t.Errorf("2001 weight = %d, want 15", y2001.Weight())
	}
	y2002 := child(root, "2002")
	if got := names(child(y2002, "Teaching")); got != "Pedagogy,Lecture Notes" {
		t.Errorf("2002/Teaching children = %s", got)
	}
}

func TestReadEmpty(t *testing.T) {
	for _, in := range []string{"", "Authors,Title,Year,Category,Url,Citations\n"} {
		root, err := Read(strings.NewReader(in), Options{})
		if err != nil {
			t.Fatalf("Read(%q): %v", in, err)
		}
		if !root.IsLeaf() || root.Weight() != 0 {
			t.Errorf("Read(%q) should give an empty root", in)
		}
	}
}

func TestReadErrors(t *testing.T) {
	const header = "Authors,Title,Year,Category,Url,Citations\n"
	tests := []struct {
		name     string
		row      string
		contains string
	}{
		{"too many columns", "A,T,2001,Cat,doi,1,extra\n", "expected 6 columns"},
		{"missing column", "A,T,2001,Cat,1\n", "expected 6 columns"},
		{"non-integer citations", "A,T,2001,Cat,doi,many\n", "not an integer"},
		{"negative citations", "A,T,2001,Cat,doi,-3\n", "negative"},
		{"empty segment", "A,T,2001,Cat: : Sub,doi,1\n", "empty category"},
		{"empty category", "A,T,2001,,doi,1\n", "empty category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(header+tt.row), Options{})
			if !errs.Is(err, errs.ErrCodeInvalidSource) {
				t.Fatalf("err = %v, want INVALID_SOURCE", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("err = %v, want it to mention %q", err, tt.contains)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("err = %v, want line 2", err)
			}
		})
	}
}

func TestReadCitationOverflow(t *testing.T) {
	const header = "Authors,Title,Year,Category,Url,Citations\n"
	tests := []struct {
		name string
		rows string
		line string
	}{
		{"two maximal rows", "A,T1,2001,Cat,doi,9223372036854775807\nB,T2,2001,Cat,doi,9223372036854775807\n", "line 3"},
		{"across categories", "A,T1,2001,X,doi,9223372036854775000\nB,T2,2002,Y,doi,5\nC,T3,2003,Z,doi,1000\n", "line 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Read(strings.NewReader(header+tt.rows), Options{ByYear: true})
			if root != nil {
				t.Errorf("root = %v, want nil", root.Weight())
			}
			if !errs.Is(err, errs.ErrCodeInvalidSource) {
				t.Fatalf("err = %v, want INVALID_SOURCE", err)
			}
			if !strings.Contains(err.Error(), tt.line) || !strings.Contains(err.Error(), "overflows") {
				t.Errorf("err = %v, want an overflow on %s", err, tt.line)
			}
		})
	}

	root, err := Read(strings.NewReader(header+"A,T1,2001,Cat,doi,9223372036854775806\nB,T2,2001,Cat,doi,1\n"), Options{})
	if err != nil {
		t.Fatalf("Read at the limit: %v", err)
	}
	if root.Weight() != math.MaxInt64 {
		t.Errorf("weight = %d, want %d", root.Weight(), int64(math.MaxInt64))
	}
}

func TestLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	if err := os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	l := New(path, Options{})
	root, err := l.Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if root.Weight() != 25 {
		t.Errorf("weight = %d", root.Weight())
	}

	fp1, err := l.Fingerprint(ctx)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fp2, _ := New(path, Options{ByYear: true}).Fingerprint(ctx)
	if fp1 == "" || fp1 == fp2 {
		t.Errorf("fingerprints should be non-empty and depend on options: %q %q", fp1, fp2)
	}

	if err := os.WriteFile(path, []byte(dataset+"K,New,2003,Tools,doi/6,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fp3, _ := l.Fingerprint(ctx)
	if fp3 == fp1 {
		t.Error("fingerprint should change with the file content")
	}

	_, err = New(filepath.Join(t.TempDir(), "missing.csv"), Options{}).Build(ctx)
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoaderURL(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/papers.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(dataset))
	}))
	defer srv.Close()
	ctx := context.Background()

	l := New(srv.URL+"/papers.csv", Options{})
	if _, err := l.Fingerprint(ctx); err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	root, err := l.Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if root.Weight() != 25 {
		t.Errorf("weight = %d", root.Weight())
	}
	if hits != 2 {
		t.Errorf("requests = %d, want 2 without a cache", hits)
	}

	_, err = New(srv.URL+"/missing.csv", Options{}).Build(ctx)
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPathString(t *testing.T) {
	root, err := Read(strings.NewReader(dataset), Options{})
	if err != nil {
		t.Fatal(err)
	}
	pairs := child(child(child(root, "Teaching"), "Pedagogy"), "Pairs")
	paper := pairs.Child(0)

	want := "CS1 : Teaching : Pedagogy : Pairs : Pair Programming 7 Citations"
	if got := paper.PathString(Formatter()); got != want {
		t.Errorf("PathString = %q, want %q", got, want)
	}
}
