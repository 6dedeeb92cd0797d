package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/config"
	errs "github.com/matzehuels/treemap/pkg/errors"
	pkgio "github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/session"
	"github.com/matzehuels/treemap/pkg/tree"
)

// runCLI executes the root command with a config file holding cfg.
func runCLI(t *testing.T, cfg string, args ...string) error {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(append([]string{"--config", path}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
	for _, name := range []string{"scan", "papers", "explore", "serve", "session", "cache", "config", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"--version"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if want := appName + " version " + buildinfo.Version; !strings.Contains(out.String(), want) {
		t.Errorf("output = %q, want it to contain %q", out.String(), want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "svg"},
		{"svg", "svg"},
		{"svg,png,dot", "svg|png|dot"},
	}
	for _, tt := range tests {
		if got := strings.Join(parseFormats(tt.input), "|"); got != tt.want {
			t.Errorf("parseFormats(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/papers.csv", "papers"},
		{"", "/home/me/src", "src"},
		{"", "/home/me/src/", "src"},
		{"", ".", appName},
		{"", "https://example.org/data/cs1.csv?v=2", "cs1"},
		{"out.svg", "src", "out"},
		{"out/report.png", "src", "out/report"},
		{"out.v1", "src", "out.v1"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("report.svg", "src", "svg", true); got != "report.svg" {
		t.Errorf("single format keeps -o as is, got %q", got)
	}
	if got := outputPath("", "src", "png", true); got != "src.png" {
		t.Errorf("got %q, want src.png", got)
	}
	if got := outputPath("report.svg", "src", "json", false); got != "report.json" {
		t.Errorf("got %q, want report.json", got)
	}
}

func TestDetectKind(t *testing.T) {
	tests := map[string]string{
		"papers.csv":                         "papers",
		"PAPERS.CSV":                         "papers",
		"tree.json":                          kindSnapshot,
		"/home/me/src":                       "fs",
		"notes.md":                           "fs",
		"archive.tar.gz":                     "fs",
		"https://example.org/export?fmt=csv": "papers",
	}
	for path, want := range tests {
		if got := detectKind(path); got != want {
			t.Errorf("detectKind(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()

	c, err := newCache(ctx, cfg, false)
	if err != nil {
		t.Fatalf("newCache(file): %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend gave %T", c)
	}

	if c, _ := newCache(ctx, cfg, true); c != cache.NewNullCache() {
		t.Errorf("--no-cache gave %T", c)
	}

	cfg.Cache.Backend = config.CacheNone
	if c, _ := newCache(ctx, cfg, false); c != cache.NewNullCache() {
		t.Errorf("none backend gave %T", c)
	}

	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.RedisURL = "not-a-url"
	if _, err := newCache(ctx, cfg, false); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad redis url: err = %v", err)
	}
}

func TestScanCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(filepath.Join(src, "pkg"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, size := range map[string]int{"main.go": 300, "pkg/util.go": 700} {
		if err := os.WriteFile(filepath.Join(src, name), bytes.Repeat([]byte("x"), size), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := t.TempDir()
	snapshot := filepath.Join(out, "tree.json")

	err := runCLI(t, "[cache]\nbackend = \"none\"\n",
		"scan", src, "-o", filepath.Join(out, "src"), "-f", "svg,dot", "--labels", "--export", snapshot)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(out, "src.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `viewBox="0 0 800 600"`) {
		t.Errorf("svg does not use the configured viewport: %.200s", svg)
	}
	if _, err := os.Stat(filepath.Join(out, "src.dot")); err != nil {
		t.Errorf("dot output missing: %v", err)
	}

	kind, root, err := pkgio.ImportJSON(snapshot)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if kind != "fs" || root.Weight() != 1000 || !root.Expanded() {
		t.Errorf("snapshot kind %q weight %d expanded %v", kind, root.Weight(), root.Expanded())
	}
}

func TestScanCommandErrors(t *testing.T) {
	cfg := "[cache]\nbackend = \"none\"\n"
	if err := runCLI(t, cfg, "scan", t.TempDir(), "-f", "gif"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad format: err = %v", err)
	}
	if err := runCLI(t, cfg, "scan", t.TempDir(), "--width=-5"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad width: err = %v", err)
	}
	if err := runCLI(t, cfg, "scan", filepath.Join(t.TempDir(), "missing")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing dir: err = %v", err)
	}
	if err := runCLI(t, "[cache]\nbackend = \"tape\"\n", "scan", t.TempDir()); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad config: err = %v", err)
	}
}

func TestPapersCommand(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "papers.csv")
	data := "Authors,Title,Year,Category,Url,Citations\n" +
		"A,Intro,2001,Teaching: Pedagogy,doi/1,10\n" +
		"B,Tools,2002,Tools,doi/2,5\n"
	if err := os.WriteFile(csv, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := "width = 400\nheight = 300\n[cache]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n[papers]\nroot_name = \"SIGCSE\"\n"

	base := filepath.Join(dir, "out", "cites")
	if err := runCLI(t, cfg, "papers", csv, "-o", base, "-f", "svg,json", "-d", "-1"); err != nil {
		t.Fatalf("papers: %v", err)
	}
	tiles, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"width": 400`, `"name": "Intro"`, "SIGCSE : Teaching : Pedagogy : Intro 10 Citations"} {
		if !strings.Contains(string(tiles), want) {
			t.Errorf("json output lacks %q", want)
		}
	}

	// A second run is served from the file cache.
	if err := runCLI(t, cfg, "papers", csv, "-o", base+".svg"); err != nil {
		t.Fatalf("papers (cached): %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "cache"))
	if len(entries) == 0 {
		t.Error("expected cache entries")
	}
}

func TestSessionCommands(t *testing.T) {
	dir := t.TempDir()
	store, err := session.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	root := tree.MustNew("root", []*tree.Node{tree.MustNew("a", nil, 3)}, 0)
	sess := session.New("fs", "/src", root)
	if err := store.Set(context.Background(), sess); err != nil {
		t.Fatal(err)
	}

	cfg := "[session]\ndir = \"" + filepath.ToSlash(dir) + "\"\n"
	out := captureStdout(t)
	if err := runCLI(t, cfg, "session", "list"); err != nil {
		t.Errorf("session list: %v", err)
	}
	if !strings.Contains(out.String(), sess.ID) {
		t.Errorf("session list output lacks the ID: %q", out.String())
	}
	out.Reset()
	if err := runCLI(t, cfg, "session", "show", sess.ID, "-d", "-1"); err != nil {
		t.Errorf("session show: %v", err)
	}
	if !strings.Contains(out.String(), "/src") || !strings.Contains(out.String(), "  a") {
		t.Errorf("session show output = %q", out.String())
	}
	if err := runCLI(t, cfg, "session", "show", "not-a-uuid"); !errs.Is(err, errs.ErrCodeInvalidSession) {
		t.Errorf("session show bad id: err = %v", err)
	}
	if err := runCLI(t, cfg, "session", "rm", sess.ID); err != nil {
		t.Errorf("session rm: %v", err)
	}
	if _, err := store.Get(context.Background(), sess.ID); !errs.Is(err, errs.ErrCodeSessionNotFound) {
		t.Errorf("session still present: err = %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"--config", path, "config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Width != config.Default().Width {
		t.Errorf("width = %d", cfg.Width)
	}
}

func TestCompletionCommand(t *testing.T) {
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("completion script should mention the program")
	}

	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
