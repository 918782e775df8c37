package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-basic/internal/errors"
)

// fileHandle wraps one open BASIC file. Handles opened FOR INPUT carry a
// buffered reader for line-oriented INPUT #; writes go straight to the file.
type fileHandle struct {
	file   *os.File
	reader *bufio.Reader
}

// handleTable maps BASIC file numbers to open files. Handles live from OPEN
// to CLOSE; STOP and program termination close them all.
type handleTable struct {
	handles map[int]*fileHandle
}

func newHandleTable() *handleTable {
	return &handleTable{handles: make(map[int]*fileHandle)}
}

// open opens filename in the given mode ("r", "w" or "a") under the given
// file number. The number must not already be in use.
func (t *handleTable) open(num int, filename, mode string, line int) error {
	if _, ok := t.handles[num]; ok {
		return errors.Newf(errors.RuntimeError, line, "File #%d already opened", num)
	}

	var f *os.File
	var err error
	switch mode {
	case "r":
		f, err = os.Open(filename)
	case "w":
		f, err = os.Create(filename)
	case "a":
		f, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	default:
		return errors.Syntax("Invalid OPEN access mode", line)
	}
	if err != nil {
		return errors.Newf(errors.IOError, line, "File %s could not be opened", filename)
	}

	h := &fileHandle{file: f}
	if mode == "r" {
		h.reader = bufio.NewReader(f)
	}
	t.handles[num] = h
	return nil
}

// get returns the handle for a file number, or an error mentioning the
// requesting statement.
func (t *handleTable) get(num int, stmt string, line int) (*fileHandle, error) {
	h, ok := t.handles[num]
	if !ok {
		return nil, errors.Newf(errors.RuntimeError, line, "%s: file #%d is not open", stmt, num)
	}
	return h, nil
}

// close closes the file and forgets the handle.
func (t *handleTable) close(num int, line int) error {
	h, ok := t.handles[num]
	if !ok {
		return errors.Newf(errors.RuntimeError, line, "CLOSE: file #%d is not open", num)
	}
	delete(t.handles, num)
	if err := h.file.Close(); err != nil {
		return errors.Newf(errors.IOError, line, "could not close file #%d: %v", num, err)
	}
	return nil
}

// seek positions the file at the given byte offset.
func (t *handleTable) seek(num int, offset int64, line int) error {
	h, err := t.get(num, "FSEEK", line)
	if err != nil {
		return err
	}
	if _, err := h.file.Seek(offset, io.SeekStart); err != nil {
		return errors.Newf(errors.IOError, line, "could not seek file #%d: %v", num, err)
	}
	if h.reader != nil {
		h.reader.Reset(h.file)
	}
	return nil
}

// closeAll closes every open handle and clears the table.
func (t *handleTable) closeAll() {
	for _, h := range t.handles {
		h.file.Close()
	}
	t.handles = make(map[int]*fileHandle)
}

// write writes s to the file behind num.
func (t *handleTable) write(num int, s string, line int) error {
	h, err := t.get(num, "PRINT", line)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(h.file, s); err != nil {
		return errors.Newf(errors.IOError, line, "could not write file #%d: %v", num, err)
	}
	return nil
}

// readLine reads one line from the file behind num, without the trailing
// newline or carriage return.
func (t *handleTable) readLine(num int, line int) (string, error) {
	h, err := t.get(num, "INPUT", line)
	if err != nil {
		return "", err
	}
	if h.reader == nil {
		h.reader = bufio.NewReader(h.file)
	}
	s, err := h.reader.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", errors.Newf(errors.IOError, line, "could not read file #%d: %v", num, err)
	}
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s, nil
}

// isOpen reports whether a file number is in use.
func (t *handleTable) isOpen(num int) bool {
	_, ok := t.handles[num]
	return ok
}
