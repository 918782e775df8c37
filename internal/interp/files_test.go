package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/go-basic/internal/errors"
)

func TestFileOutputAndInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e, _ := testEvaluator(t, "")

	run(t, e, 10, `OPEN "`+path+`" FOR OUTPUT AS # 1`)
	run(t, e, 20, `PRINT # 1, "HELLO"; 42`)
	run(t, e, 30, `PRINT # 1, "WORLD"`)
	run(t, e, 40, "CLOSE # 1")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(content) != "HELLO 42\nWORLD\n" {
		t.Errorf("file content = %q", content)
	}

	run(t, e, 50, `OPEN "`+path+`" FOR INPUT AS # 2`)
	run(t, e, 60, "INPUT # 2, A$")
	run(t, e, 70, "INPUT # 2, B$")
	run(t, e, 80, "CLOSE # 2")

	if got := str(t, e, "A$"); got != "HELLO 42" {
		t.Errorf("A$ = %q", got)
	}
	if got := str(t, e, "B$"); got != "WORLD" {
		t.Errorf("B$ = %q", got)
	}
}

func TestFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	e, _ := testEvaluator(t, "")

	run(t, e, 10, `OPEN "`+path+`" FOR OUTPUT AS # 1`)
	run(t, e, 20, `PRINT # 1, "ONE"`)
	run(t, e, 30, "CLOSE # 1")

	run(t, e, 40, `OPEN "`+path+`" FOR APPEND AS # 1`)
	run(t, e, 50, `PRINT # 1, "TWO"`)
	run(t, e, 60, "CLOSE # 1")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "ONE\nTWO\n" {
		t.Errorf("file content = %q", content)
	}
}

func TestFseek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek.txt")
	if err := os.WriteFile(path, []byte("HELLO\nWORLD\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e, _ := testEvaluator(t, "")
	run(t, e, 10, `OPEN "`+path+`" FOR INPUT AS # 1`)
	run(t, e, 20, "FSEEK # 1, 6")
	run(t, e, 30, "INPUT # 1, A$")
	run(t, e, 40, "CLOSE # 1")

	if got := str(t, e, "A$"); got != "WORLD" {
		t.Errorf("A$ after seek = %q", got)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	e, _ := testEvaluator(t, "")

	// Opening a missing file for input is an IO error without ELSE.
	_, err := exec(e, 10, `OPEN "`+filepath.Join(dir, "missing")+`" FOR INPUT AS # 1`)
	if err == nil {
		t.Fatal("opening a missing file succeeded")
	}
	if kind, _ := errors.KindOf(err); kind != errors.IOError {
		t.Errorf("error = %v, want IOError", err)
	}

	// With an ELSE target the failure becomes a jump.
	msg := run(t, e, 20, `OPEN "`+filepath.Join(dir, "missing")+`" FOR INPUT AS # 1 ELSE GOTO 500`)
	if msg == nil || msg.Type != MsgSimpleJump || msg.Target != 500 {
		t.Errorf("message = %+v, want jump to 500", msg)
	}

	// A duplicate handle without ELSE is an error; with ELSE it jumps.
	run(t, e, 30, `OPEN "`+path+`" FOR OUTPUT AS # 1`)
	if _, err := exec(e, 40, `OPEN "`+path+`" FOR OUTPUT AS # 1`); err == nil {
		t.Error("duplicate handle succeeded")
	}
	msg = run(t, e, 50, `OPEN "`+path+`" FOR OUTPUT AS # 1 ELSE 600`)
	if msg == nil || msg.Type != MsgSimpleJump || msg.Target != 600 {
		t.Errorf("duplicate with ELSE = %+v, want jump to 600", msg)
	}
	run(t, e, 60, "CLOSE # 1")
}

func TestCloseAndSeekRequireOpenHandle(t *testing.T) {
	e, _ := testEvaluator(t, "")
	if _, err := exec(e, 10, "CLOSE # 3"); err == nil {
		t.Error("closing an unopened handle succeeded")
	}
	if _, err := exec(e, 20, "FSEEK # 3, 0"); err == nil {
		t.Error("seeking an unopened handle succeeded")
	}
	if _, err := exec(e, 30, `PRINT # 3, "X"`); err == nil {
		t.Error("printing to an unopened handle succeeded")
	}
	if _, err := exec(e, 40, "INPUT # 3, A$"); err == nil {
		t.Error("input from an unopened handle succeeded")
	}
}

func TestStopClosesHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.txt")
	e, _ := testEvaluator(t, "")

	run(t, e, 10, `OPEN "`+path+`" FOR OUTPUT AS # 1`)
	run(t, e, 20, "STOP")

	// The handle is gone, so the number can be reused.
	run(t, e, 30, `OPEN "`+path+`" FOR OUTPUT AS # 1`)
	run(t, e, 40, "CLOSE # 1")
}
