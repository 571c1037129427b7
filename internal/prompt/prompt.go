// Package prompt wraps line-oriented standard input so interactive flows can
// be exercised in tests without a real terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LineReader reads a single line of user input and returns it unmodified.
type LineReader interface {
	ReadLine() (string, error)
}

// Stdin returns a LineReader backed by the given stream, typically os.Stdin.
func Stdin(r io.Reader) LineReader {
	return &streamReader{reader: bufio.NewReader(r)}
}

type streamReader struct {
	reader *bufio.Reader
}

func (s *streamReader) ReadLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	// EOF with a partial line still counts as an answer.
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm reads one line and interprets it as a yes/no answer. Only "y" and
// "yes" (case-insensitive) accept; empty input and everything else decline.
func Confirm(reader LineReader) (bool, error) {
	line, err := reader.ReadLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ReadIndex reads one line and parses it as a non-negative decimal index.
func ReadIndex(reader LineReader) (int, error) {
	line, err := reader.ReadLine()
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(line)
	index, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: expected a number", trimmed)
	}
	if index < 0 {
		return 0, fmt.Errorf("invalid index %d: must not be negative", index)
	}
	return index, nil
}
