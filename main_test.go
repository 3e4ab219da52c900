package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const answerNF = `{
  "funcs": [
    {
      "name": "inc",
      "params": [{"name": "n", "type": "int"}],
      "ret": "int",
      "body": {"binop": {"op": "+", "lhs": {"load": {"var": "n"}}, "rhs": {"const": {"int": 1}}}}
    }
  ],
  "body": {"call": {"callee": {"var": "inc"}, "args": [{"const": {"int": 41}}]}}
}`

func writeInput(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestModuleName(t *testing.T) {
	tests := map[string]string{
		"prog.nf.json":     "prog",
		"dir/prog.json":    "prog",
		"prog.nf":          "prog",
		"/abs/a.b.nf.json": "a.b",
	}
	for in, want := range tests {
		if got := moduleName(in); got != want {
			t.Errorf("moduleName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got, want := outputPath("src/prog.nf.json", ""), filepath.Join("src", "prog.ll"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := outputPath("src/prog.nf.json", "out"), filepath.Join("out", "prog.ll"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCompileFileWritesIR(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "answer.nf.json", answerNF)
	outDir := filepath.Join(dir, "build")

	out, err := compileFile(in, config{outDir: outDir, jobs: 1})
	if err != nil {
		t.Fatalf("compileFile: %v", err)
	}
	if out != filepath.Join(outDir, "answer.ll") {
		t.Fatalf("unexpected output path %q", out)
	}
	ir, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"; ModuleID = 'answer'", "define i32 @inc(i32 %0)", "call i32 @inc(i32 41)"} {
		if !strings.Contains(string(ir), want) {
			t.Errorf("IR missing %q:\n%s", want, ir)
		}
	}
}

func TestCompileFileNameOverride(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "answer.nf.json", answerNF)

	out, err := compileFile(in, config{name: "renamed", jobs: 1})
	if err != nil {
		t.Fatalf("compileFile: %v", err)
	}
	ir, _ := os.ReadFile(out)
	if !strings.Contains(string(ir), "; ModuleID = 'renamed'") {
		t.Fatalf("module id not overridden:\n%s", ir)
	}
}

func TestCompileFileErrorsLeaveNoOutput(t *testing.T) {
	tests := map[string]string{
		"bad_json.nf.json":  `{"body": `,
		"bad_tag.nf.json":   `{"body": {"lambda": {}}}`,
		"ill_typed.nf.json": `{"body": {"binop": {"op": "+", "lhs": {"const": {"int": 1}}, "rhs": {"const": {"bool": true}}}}}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeInput(t, dir, name, src)
			if _, err := compileFile(in, config{jobs: 1}); err == nil {
				t.Fatal("expected an error")
			}
			if _, err := os.Stat(outputPath(in, "")); !os.IsNotExist(err) {
				t.Fatalf("output should not exist, stat err = %v", err)
			}
		})
	}
}

func TestCompileAllParallel(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.nf.json", "b.nf.json", "c.nf.json", "d.nf.json"} {
		files = append(files, writeInput(t, dir, name, answerNF))
	}

	if err := compileAll(files, config{jobs: 3}); err != nil {
		t.Fatalf("compileAll: %v", err)
	}
	for _, f := range files {
		if _, err := os.Stat(outputPath(f, "")); err != nil {
			t.Errorf("missing output for %s: %v", f, err)
		}
	}
}

func TestCompileAllReportsFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.nf.json", answerNF)
	bad := writeInput(t, dir, "bad.nf.json", `{"body": {"var": "missing"}}`)

	if err := compileAll([]string{bad, good}, config{jobs: 2}); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := os.Stat(outputPath(good, "")); err != nil {
		t.Fatalf("good file should still compile: %v", err)
	}
}

func TestParseArgs(t *testing.T) {
	t.Setenv(OUT_ENV, "/tmp/nfc-out")

	cfg, files, err := parseArgs([]string{"-j", "0", "-name", "m", "x.nf.json"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.outDir != "/tmp/nfc-out" || cfg.name != "m" || cfg.jobs != 1 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(files) != 1 || files[0] != "x.nf.json" {
		t.Fatalf("unexpected files %v", files)
	}

	if _, _, err := parseArgs(nil, io.Discard); err != errUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
	if cfg, _, err := parseArgs([]string{"-version"}, io.Discard); err != nil || !cfg.version {
		t.Fatalf("expected version flag, got %+v, %v", cfg, err)
	}
}

func TestVersionString(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	tests := map[string]string{
		"dev":          "dev",
		"v0.5.0":       "v0.5.0",
		"1.2":          "v1.2.0",
		"v0.5.0-3-gab": "v0.5.0-3-gab",
	}
	for in, want := range tests {
		Version = in
		if got := versionString(); got != want {
			t.Errorf("versionString(%q) = %q, want %q", in, got, want)
		}
	}
}
