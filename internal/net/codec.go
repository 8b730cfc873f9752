package net

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// MaxLineLen bounds one message. Longer lines close the session.
const MaxLineLen = 4096

var ErrLineTooLong = errors.New("line too long")

// ReadLine reads one newline-delimited message from r and strips the
// trailing "\n" or "\r\n". Empty lines are skipped.
func ReadLine(r *bufio.Reader) ([]byte, error) {
	for {
		line, err := r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) || len(line) > MaxLineLen {
			return nil, fmt.Errorf("read line: %w", ErrLineTooLong)
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return trimEOL(line), nil
			}
			return nil, fmt.Errorf("read line: %w", err)
		}
		if out := trimEOL(line); len(out) > 0 {
			return out, nil
		}
	}
}

func trimEOL(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	out := make([]byte, n)
	copy(out, line[:n])
	return out
}

// WriteLine writes data followed by a newline.
func WriteLine(w io.Writer, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, data...)
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}
