// Package pathfile reads and writes path lists as plain text, one path per line.
package pathfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line terminator used on export.
const LineEnding = "\r\n"

// ReadPaths returns the trimmed non-blank lines of r.
func ReadPaths(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paths []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return paths, nil
}

// WritePaths writes each path followed by a CRLF.
func WritePaths(w io.Writer, paths []string) error {
	bw := bufio.NewWriter(w)
	for _, p := range paths {
		if _, err := bw.WriteString(p + LineEnding); err != nil {
			return fmt.Errorf("write paths: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write paths: flush: %w", err)
	}
	return nil
}

func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read paths file %q: %w", path, err)
	}
	defer f.Close()

	return ReadPaths(f)
}

func WriteFile(path string, paths []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write paths file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("write paths file %q: close: %w", path, cerr)
		}
	}()

	return WritePaths(f, paths)
}
