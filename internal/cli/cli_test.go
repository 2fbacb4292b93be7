package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bandfill/pkg/render"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	want := []string{"cache", "completion", "fill", "inspect", "serve"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("subcommands (-want +got):\n%s", diff)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version") {
		t.Errorf("--version output = %q", out)
	}
}

func TestFill(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	base := filepath.Join(t.TempDir(), "out", "orders")

	out, err := run(t, "fill", filepath.Join("testdata", "orders.toml"),
		"--data", filepath.Join("testdata", "orders.json"),
		"-f", "json,svg,pdf", "-o", base+".pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Filled orders") || !strings.Contains(out, "3 records") {
		t.Errorf("fill output = %q", out)
	}
	for _, f := range render.Formats {
		data, err := os.ReadFile(base + "." + f)
		if err != nil {
			t.Fatalf("read %s output: %v", f, err)
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", f)
		}
	}

	// Second run is served from the file cache.
	out, err = run(t, "fill", filepath.Join("testdata", "orders.toml"),
		"--data", filepath.Join("testdata", "orders.json"), "-o", base)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second fill should hit the cache: %q", out)
	}
}

func TestFillStdout(t *testing.T) {
	out, err := run(t, "fill", filepath.Join("testdata", "orders.toml"),
		"--data", filepath.Join("testdata", "orders.json"), "--no-cache", "-f", "svg", "-o", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<svg") || !strings.Contains(out, "total 15") {
		t.Errorf("stdout = %.80q", out)
	}
}

func TestFillErrors(t *testing.T) {
	tpl := filepath.Join("testdata", "orders.toml")
	tests := []struct {
		name string
		args []string
	}{
		{"NoTemplate", []string{"fill"}},
		{"BadFormat", []string{"fill", tpl, "--no-cache", "-f", "png"}},
		{"StdoutTwoFormats", []string{"fill", tpl, "--no-cache", "-f", "json,svg", "-o", "-"}},
		{"MissingData", []string{"fill", tpl, "--no-cache", "--data", "testdata/missing.json"}},
		{"MissingTemplate", []string{"fill", "testdata/missing.toml", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", filepath.Join("testdata", "orders.toml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"orders", "100x200", "city by city", "total = sum(amount)", "city.header", "page_footer", "no-data-section"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestCachePathAndClear(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join(xdg, appName) {
		t.Errorf("cache path = %q", got)
	}

	out, err = run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear of a missing cache = %q, %v", out, err)
	}

	if _, err := run(t, "fill", filepath.Join("testdata", "orders.toml"), "-o", filepath.Join(t.TempDir(), "r")); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	// One document and one json artifact.
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("clear output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "bandfill") {
		t.Error("bash completion should mention the program name")
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "reports/orders.toml", "reports/orders"},
		{"out/orders.pdf", "orders.toml", "out/orders"},
		{"out/orders", "orders.toml", "out/orders"},
		{"out/orders.v2", "orders.toml", "out/orders.v2"},
	}
	var got []string
	var want []string
	for _, tt := range tests {
		got = append(got, basePath(tt.output, tt.input))
		want = append(want, tt.want)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("basePath (-want +got):\n%s", diff)
	}
}
