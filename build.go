package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/thiremani/nfc/ast"
	"github.com/thiremani/nfc/compiler"
	"golang.org/x/sync/errgroup"
)

var NF_SUFFIX = ".nf.json"
var JSON_SUFFIX = ".json"
var IR_SUFFIX = ".ll"

// moduleName derives the module id from the input file name.
func moduleName(inPath string) string {
	base := filepath.Base(inPath)
	for _, suffix := range []string{NF_SUFFIX, JSON_SUFFIX} {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func outputPath(inPath, outDir string) string {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(inPath)
	}
	return filepath.Join(dir, moduleName(inPath)+IR_SUFFIX)
}

// compileFile decodes one NF file and writes its IR. The .ll file is only
// touched when compilation succeeds.
func compileFile(inPath string, cfg config) (string, error) {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", inPath, err)
	}
	var nf ast.Nf
	if err := json.Unmarshal(src, &nf); err != nil {
		return "", fmt.Errorf("decode %s: %w", inPath, err)
	}
	slog.Debug("decoded", "file", inPath, "funcs", len(nf.Funcs))

	name := cfg.name
	if name == "" {
		name = moduleName(inPath)
	}
	var ir bytes.Buffer
	if err := compiler.Compile(&ir, &nf, name); err != nil {
		return "", err
	}

	outPath := outputPath(inPath, cfg.outDir)
	if err := writeLocked(outPath, ir.Bytes()); err != nil {
		return "", err
	}
	slog.Debug("wrote", "file", outPath, "bytes", ir.Len())
	return outPath, nil
}

// writeLocked writes data to path while holding path's lock file, so a
// concurrent nfc (e.g. a watcher) never leaves a torn .ll behind.
func writeLocked(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	defer lock.Unlock()

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write IR to %s: %w", path, err)
	}
	return nil
}

func compileAndReport(inPath string, cfg config) error {
	outPath, err := compileFile(inPath, cfg)
	if err != nil {
		fmt.Printf("⚠️ %s: %v\n", inPath, err)
		return err
	}
	fmt.Printf("✅ Compiled %s -> %s\n", inPath, outPath)
	return nil
}

// compileAll compiles every file, at most cfg.jobs at a time. Each file gets
// its own LLVM context. All files are attempted; the first error is returned.
func compileAll(files []string, cfg config) error {
	var g errgroup.Group
	g.SetLimit(cfg.jobs)
	for _, f := range files {
		g.Go(func() error {
			return compileAndReport(f, cfg)
		})
	}
	return g.Wait()
}
