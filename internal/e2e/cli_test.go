// Package e2e provides end-to-end tests for the gdbmi binary.
package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fakeGDB answers a handful of MI commands the way gdb would.
const fakeGDB = `#!/bin/sh
printf '%s\n' '=thread-group-added,id="i1"'
printf '%s\n' '~"GNU gdb (fake) 1.0\n"'
printf '%s\n' '(gdb) '
while IFS= read -r line; do
	case "$line" in
	-gdb-exit)
		printf '%s\n' '^exit'
		exit 0
		;;
	-break-insert*)
		printf '%s\n' '^done,bkpt={number="1",type="breakpoint",line="5"}'
		printf '%s\n' '(gdb) '
		;;
	-exec-run)
		printf '%s\n' '=thread-group-started,id="i1",pid="4242"'
		printf '%s\n' '^running'
		printf '%s\n' 'hello from the program'
		printf '%s\n' '*stopped,reason="exited-normally"'
		printf '%s\n' '(gdb) '
		;;
	*)
		printf '%s\n' '^error,msg="Undefined MI command"'
		printf '%s\n' '(gdb) '
		;;
	esac
done
`

const transcript = `=thread-group-added,id="i1"
~"GNU gdb (GDB) 14.2\n"
(gdb)
^done,bkpt={number="1",type="breakpoint",line="5"}
=thread-group-started,id="i1",pid="4242"
^error,msg="No symbol \"x\" in current context."
(gdb)
`

// buildGDBMI builds the gdbmi binary into the given directory.
func buildGDBMI(t *testing.T, dir string) string {
	t.Helper()
	binary := filepath.Join(dir, "gdbmi")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	// Navigate up from internal/e2e to module root
	moduleRoot := filepath.Dir(filepath.Dir(wd))

	cmd := exec.Command("go", "build", "-o", binary, "./cmd/gdbmi")
	cmd.Dir = moduleRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build gdbmi: %v", err)
	}
	return binary
}

// runGDBMI runs gdbmi with GDBMI_DIR set to dir and the given stdin,
// returning stdout and stderr.
func runGDBMI(t *testing.T, binary, dir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), "GDBMI_DIR="+dir)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestGDBMICLI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	dir := t.TempDir()
	binary := buildGDBMI(t, dir)

	gdbPath := filepath.Join(dir, "fake-gdb")
	if err := os.WriteFile(gdbPath, []byte(fakeGDB), 0755); err != nil {
		t.Fatalf("failed to write fake gdb: %v", err)
	}

	t.Run("version", func(t *testing.T) {
		stdout, stderr, err := runGDBMI(t, binary, dir, "", "version")
		if err != nil {
			t.Fatalf("gdbmi version failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.HasPrefix(stdout, "gdbmi ") {
			t.Errorf("unexpected version output: %s", stdout)
		}
	})

	t.Run("config_init", func(t *testing.T) {
		stdout, stderr, err := runGDBMI(t, binary, dir, "", "config", "init")
		if err != nil {
			t.Fatalf("gdbmi config init failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "Wrote ") {
			t.Errorf("unexpected init output: %s", stdout)
		}

		_, _, err = runGDBMI(t, binary, dir, "", "config", "init")
		if err == nil {
			t.Error("second config init should fail without --force")
		}
	})

	t.Run("config_show", func(t *testing.T) {
		stdout, stderr, err := runGDBMI(t, binary, dir, "", "--gdb", gdbPath, "config", "show")
		if err != nil {
			t.Fatalf("gdbmi config show failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, gdbPath) {
			t.Errorf("config show missing gdb override:\n%s", stdout)
		}
	})

	t.Run("decode", func(t *testing.T) {
		stdout, stderr, err := runGDBMI(t, binary, dir, transcript, "decode")
		if err != nil {
			t.Fatalf("gdbmi decode failed: %v\nstderr: %s", err, stderr)
		}
		var entries []map[string]any
		if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
			t.Fatalf("decode output is not JSON: %v\n%s", err, stdout)
		}
		if len(entries) != 5 {
			t.Errorf("decoded %d entries, want 5", len(entries))
		}
	})

	t.Run("decode_summary", func(t *testing.T) {
		stdout, stderr, err := runGDBMI(t, binary, dir, transcript, "decode", "--summary")
		if err != nil {
			t.Fatalf("gdbmi decode --summary failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "4242") {
			t.Errorf("summary missing tracked pid:\n%s", stdout)
		}
	})

	t.Run("run", func(t *testing.T) {
		input := "-break-insert main\n-exec-run\n-bogus\n"
		stdout, stderr, err := runGDBMI(t, binary, dir, input, "--gdb", gdbPath, "run", "./hello")
		if err != nil {
			t.Fatalf("gdbmi run failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
		}
		for _, want := range []string{
			"GNU gdb (fake) 1.0",
			"^done",
			"hello from the program",
			"error: Undefined MI command",
			"gdb exited (0)",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("run output missing %q:\n%s", want, stdout)
			}
		}
	})

	t.Run("missing_gdb", func(t *testing.T) {
		_, _, err := runGDBMI(t, binary, dir, "", "--gdb", filepath.Join(dir, "nope"), "run")
		if err == nil {
			t.Error("run with a missing gdb should fail")
		}
	})
}
