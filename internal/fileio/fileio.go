// Package fileio provides the file access layer for the patch engine:
// whole-file line reads, atomic writes, and streaming line-range
// replacement that never loads the full file into memory.
package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kvit-s/patchkit/internal/patch"
)

// LargeFileThreshold is the file size above which whole-file reads are
// refused and callers must go through the streaming path.
const LargeFileThreshold = 1024 * 1024 // 1MB

// streamBufferSize is the buffer size used for streaming file operations.
const streamBufferSize = 64 * 1024 // 64KB

// ReadLines reads the whole file as a line slice. Returns nil lines and no
// error for a file that does not exist, so create flows can treat missing
// files as empty.
func ReadLines(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	return patch.SplitLines(string(data)), true, nil
}

// WriteLines writes lines to path atomically via temp file and rename. The
// parent directory is created if missing; an existing file keeps its mode.
func WriteLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".patch-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.WriteString(patch.JoinLines(lines)); err != nil {
		tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tempPath, info.Mode())
	} else {
		_ = os.Chmod(tempPath, 0644)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("atomic rename failed: %w", err)
	}
	return nil
}

// IsLargeFile reports whether the file at path exceeds LargeFileThreshold.
// Missing files are never large.
func IsLargeFile(path string) (bool, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return info.Size() > LargeFileThreshold, info.Size(), nil
}

// ReadLineRange reads lines [startLine, endLine] (1-based, inclusive)
// without loading the whole file, and returns them with the file's total
// line count.
func ReadLineRange(path string, startLine, endLine int) ([]string, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, streamBufferSize)
	var lines []string
	lineNum := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, 0, err
		}
		if len(line) > 0 {
			lineNum++
			if lineNum >= startLine && lineNum <= endLine {
				lines = append(lines, strings.TrimSuffix(line, "\n"))
			}
		}
		if err == io.EOF {
			break
		}
	}
	return lines, lineNum, nil
}

// ReplaceRange executes one line-range replacement against the file,
// streaming through a temp file and renaming over the original. A
// zero-width replacement (EndLine < StartLine) inserts before StartLine
// without consuming any existing line.
func ReplaceRange(path string, rep patch.Replacement) error {
	srcFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer srcFile.Close()

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".patch-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	reader := bufio.NewReaderSize(srcFile, streamBufferSize)
	writer := bufio.NewWriterSize(tempFile, streamBufferSize)

	lineNum := 0

	// Copy lines before the replaced range.
	for lineNum < rep.StartLine-1 {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			tempFile.Close()
			return fmt.Errorf("read line %d: %w", lineNum+1, err)
		}
		if len(line) > 0 {
			lineNum++
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			if _, werr := writer.WriteString(line); werr != nil {
				tempFile.Close()
				return fmt.Errorf("write line %d: %w", lineNum, werr)
			}
		}
		if err == io.EOF {
			break
		}
	}

	if _, err := writer.WriteString(patch.JoinLines(rep.Lines)); err != nil {
		tempFile.Close()
		return fmt.Errorf("write replacement: %w", err)
	}

	// Skip the replaced lines. A zero-width replacement skips nothing.
	for lineNum < rep.EndLine {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			tempFile.Close()
			return fmt.Errorf("skip line %d: %w", lineNum+1, err)
		}
		if len(line) > 0 {
			lineNum++
		}
		if err == io.EOF {
			break
		}
	}

	if _, err := io.Copy(writer, reader); err != nil {
		tempFile.Close()
		return fmt.Errorf("copy remaining: %w", err)
	}
	if err := writer.Flush(); err != nil {
		tempFile.Close()
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tempPath, info.Mode())
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("atomic rename failed: %w", err)
	}
	return nil
}

// ApplyReplacements executes an ordered list of replacements against an
// in-memory line buffer. Replacements must already be expressed in
// live-buffer coordinates, the form ApplySession emits.
func ApplyReplacements(lines []string, reps []patch.Replacement) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	for _, rep := range reps {
		out = spliceLines(out, rep)
	}
	return out
}

func spliceLines(lines []string, rep patch.Replacement) []string {
	start := rep.StartLine - 1
	end := rep.EndLine // exclusive slice bound; EndLine < StartLine gives end == start
	if end < start {
		end = start
	}
	result := make([]string, 0, len(lines)-(end-start)+len(rep.Lines))
	result = append(result, lines[:start]...)
	result = append(result, rep.Lines...)
	result = append(result, lines[end:]...)
	return result
}
