package wrapper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// scriptFacts parses a rendered wrapper and returns the literal REPO
// assignment and the argument following --bin.
func scriptFacts(t *testing.T, script string) (repo, bin string) {
	t.Helper()
	file, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(script), "wrapper")
	if err != nil {
		t.Fatalf("wrapper does not parse as bash: %v\n%s", err, script)
	}
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.Assign:
			if n.Name != nil && n.Name.Value == "REPO" {
				repo, err = expand.Literal(nil, n.Value)
				if err != nil {
					t.Fatalf("expand REPO: %v", err)
				}
			}
		case *syntax.CallExpr:
			for i, arg := range n.Args {
				if arg.Lit() == "--bin" && i+1 < len(n.Args) {
					bin, err = expand.Literal(nil, n.Args[i+1])
					if err != nil {
						t.Fatalf("expand --bin: %v", err)
					}
				}
			}
		}
		return true
	})
	return repo, bin
}

func TestRenderContainsExpectedLines(t *testing.T) {
	script, err := Render("/repo/root", "demo")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasPrefix(script, "#!/usr/bin/env bash\n") {
		t.Fatalf("missing shebang:\n%s", script)
	}
	for _, want := range []string{
		"set -euo pipefail\n",
		"exec cargo run --quiet --release --manifest-path \"$REPO/Cargo.toml\" --bin ",
		" -- \"$@\"\n",
	} {
		if !strings.Contains(script, want) {
			t.Fatalf("wrapper missing %q:\n%s", want, script)
		}
	}
	repo, bin := scriptFacts(t, script)
	if repo != "/repo/root" || bin != "demo" {
		t.Fatalf("REPO=%q bin=%q, want /repo/root and demo", repo, bin)
	}
}

func TestRenderQuotesAwkwardPaths(t *testing.T) {
	for _, root := range []string{
		"/path with spaces/repo",
		`/tmp/it's "quoted"/$HOME`,
		"/tmp/back`tick`/repo",
	} {
		t.Run(root, func(t *testing.T) {
			script, err := Render(root, "demo")
			if err != nil {
				t.Fatalf("Render returned error: %v", err)
			}
			repo, _ := scriptFacts(t, script)
			if repo != root {
				t.Fatalf("REPO expands to %q, want %q\n%s", repo, root, script)
			}
		})
	}
}

func TestRenderRejectsNUL(t *testing.T) {
	if _, err := Render("/repo/\x00root", "demo"); err == nil {
		t.Fatal("Render accepted a path containing NUL")
	}
}

func TestWriteCreatesParentAndSetsExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bin", "demo")

	if err := Write(path, "echo demo\n", false); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat wrapper: %v", err)
	}
	if mode := fi.Mode().Perm(); mode&0o111 != 0o111 {
		t.Fatalf("mode = %v, want executable bits", mode)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wrapper: %v", err)
	}
	if string(data) != "echo demo\n" {
		t.Fatalf("contents = %q", data)
	}
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestWriteRefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo")
	if err := os.WriteFile(path, []byte("echo old\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := Write(path, "echo new\n", false)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Write error = %v, want ErrAlreadyExists", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "echo old\n" {
		t.Fatalf("original content changed to %q", data)
	}
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestWriteOverwritesWithForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo")
	if err := Write(path, "echo demo\n", false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := Write(path, "echo other\n", true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "echo other\n" {
		t.Fatalf("contents = %q, want echo other", data)
	}
}

func TestWriteOverwritesRegularFileWithForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Write(path, "echo demo\n", true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != Mode {
		t.Fatalf("mode = %v, want %v", fi.Mode().Perm(), Mode)
	}
}

func TestWriteOntoDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := Write(path, "echo demo\n", false); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Write error = %v, want ErrAlreadyExists", err)
	}
	err := Write(path, "echo demo\n", true)
	if err == nil {
		t.Fatal("Write replaced a directory")
	}
	if errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Write error = %v, want an I/O error", err)
	}
	assertNoTempFiles(t, dir)
}

func TestWriteOverwriteIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo")
	old := strings.Repeat("old wrapper line\n", 4096)
	next := strings.Repeat("new wrapper line\n", 4096)
	if err := Write(path, old, false); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	var bad []string
	var mu sync.Mutex
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			data, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				bad = append(bad, err.Error())
				mu.Unlock()
				continue
			}
			if s := string(data); s != old && s != next {
				mu.Lock()
				bad = append(bad, fmt.Sprintf("partial read of %d bytes", len(s)))
				mu.Unlock()
			}
		}
	}()

	for i := 0; i < 50; i++ {
		contents := next
		if i%2 == 1 {
			contents = old
		}
		if err := Write(path, contents, true); err != nil {
			close(stop)
			wg.Wait()
			t.Fatalf("overwrite %d: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()

	if len(bad) > 0 {
		t.Fatalf("observed %d inconsistent reads, first: %s", len(bad), bad[0])
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) > 0 {
		t.Fatalf("temporary files left behind: %v", matches)
	}
}
