package pdbqt

import "strings"

// trim, trimStart, trimEnd, padLeft and padRight port
// original_source/src/string.hpp/string.cpp helpers, used throughout the
// PDBQT fixed-column reader/writer below.

func trim(s string) string {
	return strings.TrimSpace(s)
}

func trimStart(s string) string {
	return strings.TrimLeft(s, " \t")
}

func trimEnd(s string) string {
	return strings.TrimRight(s, " \t")
}

// padLeft right-aligns s within width w, padding with spaces on the left.
// If s is already at least w bytes long it is returned unchanged.
func padLeft(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return strings.Repeat(" ", w-len(s)) + s
}

// padRight left-aligns s within width w, padding with spaces on the right.
func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

// field extracts the fixed-width column range [start, end) from line
// (0-indexed byte offsets, inclusive start, exclusive end; PDB column n is
// offset n-1), returning "" if the line is too short.
func field(line string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return trim(line[start:end])
}
