package program

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/go-basic/internal/interp"
	"github.com/cwbudde/go-basic/internal/lexer"
)

func addLine(t *testing.T, s *Store, src string) {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	if err := s.AddLine(tokens); err != nil {
		t.Fatalf("AddLine(%q) error: %v", src, err)
	}
}

func listing(t *testing.T, s *Store, start, end int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := s.List(&buf, start, end); err != nil {
		t.Fatalf("List error: %v", err)
	}
	return buf.String()
}

func TestAddReplaceDelete(t *testing.T) {
	s := NewStore()
	addLine(t, s, "10 PRINT 1")
	addLine(t, s, "30 PRINT 3")
	addLine(t, s, "20 PRINT 2")

	if got := s.LineNumbers(); len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("LineNumbers = %v", got)
	}

	// Same line number replaces.
	addLine(t, s, "20 PRINT 22")
	if got := listing(t, s, 20, 20); got != "20 PRINT 22 \n" {
		t.Errorf("replaced line = %q", got)
	}

	if err := s.DeleteLine(20); err != nil {
		t.Fatalf("DeleteLine error: %v", err)
	}
	if err := s.DeleteLine(20); err == nil {
		t.Error("deleting a missing line succeeded")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestAddLineValidation(t *testing.T) {
	s := NewStore()
	for _, src := range []string{"PRINT 1", "0 PRINT 1"} {
		tokens, err := lexer.Tokenize(src)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.AddLine(tokens); err == nil {
			t.Errorf("AddLine(%q) succeeded", src)
		}
	}
}

func TestDataLinesAreMirrored(t *testing.T) {
	s := NewStore()
	addLine(t, s, `10 DATA 1, 2, "X"`)

	// The program retains a one-token stub; the pool has the full tokens.
	body, ok := s.Line(10)
	if !ok || len(body) != 1 {
		t.Fatalf("DATA stub = %v", body)
	}
	if s.Data().Tokens(10) == nil {
		t.Fatal("DATA pool has no entry for line 10")
	}

	// The listing expands the stub.
	if got := listing(t, s, 0, 0); got != "10 DATA 1 , 2 , \"X\" \n" {
		t.Errorf("listing = %q", got)
	}

	// Deleting the line clears the pool entry.
	if err := s.DeleteLine(10); err != nil {
		t.Fatal(err)
	}
	if s.Data().Tokens(10) != nil {
		t.Error("DATA pool entry survived deletion")
	}
}

func TestListRanges(t *testing.T) {
	s := NewStore()
	addLine(t, s, "10 PRINT 1")
	addLine(t, s, "20 PRINT 2")
	addLine(t, s, "30 PRINT 3")

	if got := listing(t, s, 0, 0); !strings.Contains(got, "10") || !strings.Contains(got, "30") {
		t.Errorf("full listing = %q", got)
	}
	if got := listing(t, s, 20, 20); got != "20 PRINT 2 \n" {
		t.Errorf("single line listing = %q", got)
	}
	if got := listing(t, s, 0, 20); strings.Contains(got, "30") {
		t.Errorf("bounded listing leaked: %q", got)
	}
	if got := listing(t, NewStore(), 0, 0); got != "" {
		t.Errorf("empty program listing = %q", got)
	}
}

func TestRenumRewritesTargets(t *testing.T) {
	s := NewStore()
	addLine(t, s, "10 GOTO 30")
	addLine(t, s, `20 PRINT "A"`)
	addLine(t, s, `30 PRINT "B"`)

	s.Renum(100, 10)

	want := "100 GOTO 120 \n110 PRINT \"A\" \n120 PRINT \"B\" \n"
	if got := s.String(); got != want {
		t.Errorf("listing after renum = %q, want %q", got, want)
	}
}

func TestRenumRewritesAllTargetKinds(t *testing.T) {
	s := NewStore()
	addLine(t, s, "100 GOSUB 700")
	addLine(t, s, "200 ON X GOTO 100, 700")
	addLine(t, s, "300 IF X=1 THEN 100 ELSE 700")
	addLine(t, s, "400 IF X=2 THEN GOTO 700")
	addLine(t, s, `500 OPEN "F" FOR INPUT AS # 1 ELSE 700`)
	addLine(t, s, "600 RESTORE 700")
	addLine(t, s, "700 DATA 5")

	s.Renum(0, 0) // defaults: start 10, step 10

	want := strings.Join([]string{
		"10 GOSUB 70 ",
		"20 ON X GOTO 10 , 70 ",
		"30 IF X = 1 THEN 10 ELSE 70 ",
		"40 IF X = 2 THEN GOTO 70 ",
		"50 OPEN \"F\" FOR INPUT AS # 1 ELSE 70 ",
		"60 RESTORE 70 ",
		"70 DATA 5 ",
	}, "\n") + "\n"
	if got := s.String(); got != want {
		t.Errorf("listing after renum = %q, want %q", got, want)
	}
}

func TestRenumLeavesUnknownTargets(t *testing.T) {
	s := NewStore()
	addLine(t, s, "10 GOTO 99")
	s.Renum(100, 10)
	if got := s.String(); got != "100 GOTO 99 \n" {
		t.Errorf("listing = %q", got)
	}
}

// Renumbering preserves program behavior.
func TestRenumPreservesSemantics(t *testing.T) {
	src := `
		10 GOSUB 100
		20 FOR I=1 TO 2
		30 PRINT I
		40 NEXT I
		50 IF I > 2 THEN 70
		60 PRINT "NO"
		70 END
		100 PRINT "SUB"
		110 RETURN
	`
	runStore := func(s *Store) string {
		var out bytes.Buffer
		ev := interp.New(s.Data(), interp.WithOutput(&out))
		if err := NewController(s, ev).Run(context.Background()); err != nil {
			t.Fatalf("Run error: %v", err)
		}
		return out.String()
	}

	plain := buildStore(t, src)
	renumbered := buildStore(t, src)
	renumbered.Renum(1000, 5)

	if a, b := runStore(plain), runStore(renumbered); a != b {
		t.Errorf("renumbered program diverged: %q vs %q", a, b)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog")

	s := NewStore()
	addLine(t, s, "10 FOR I=1 TO 3")
	addLine(t, s, `20 PRINT "HI"; I`)
	addLine(t, s, "30 NEXT I")
	addLine(t, s, `40 DATA 1, -2, "X"`)
	addLine(t, s, "50 REM end of program")

	if err := s.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path + ".bas"); err != nil {
		t.Fatalf(".bas extension not appended: %v", err)
	}

	loaded := NewStore()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// SAVE then LOAD is the identity on the canonical listing.
	if got, want := loaded.String(), s.String(); got != want {
		t.Errorf("round trip changed the listing:\n%q\n%q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore()
	if err := s.Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("loading a missing file succeeded")
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	addLine(t, s, "10 DATA 1")
	addLine(t, s, "20 PRINT 1")
	s.Clear()
	if s.Len() != 0 || s.Data().Tokens(10) != nil {
		t.Error("Clear left state behind")
	}
}
