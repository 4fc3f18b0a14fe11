package shared

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

const (
	initialLineBuffer = 512 * 1024
	MaxLineSize       = 8 * 1024 * 1024
)

// ScanLines calls fn for every non-empty line of r, with the line ending
// stripped. Lines longer than MaxLineSize are discarded and reading resumes
// at the next line. Only read errors from r are returned.
func ScanLines(r io.Reader, fn func(line []byte)) error {
	reader := bufio.NewReaderSize(r, initialLineBuffer)
	var line []byte
	oversized := false

	for {
		chunk, err := reader.ReadSlice('\n')
		if !oversized {
			if len(line)+len(bytes.TrimRight(chunk, "\r\n")) > MaxLineSize {
				oversized = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil, errors.Is(err, io.EOF):
			if !oversized {
				if trimmed := bytes.TrimRight(line, "\r\n"); len(trimmed) > 0 {
					fn(trimmed)
				}
			}
			line = line[:0]
			oversized = false
			if err != nil {
				return nil
			}
		default:
			return err
		}
	}
}
