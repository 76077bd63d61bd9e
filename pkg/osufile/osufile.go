// Package osufile decodes the metadata of .osu chart files: ini-style
// [Section] headers with Key:Value lines, followed by positional data
// sections that are irrelevant for indexing.
package osufile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
)

const formatPrefix = "osu file format v"

// keyValueSections hold Key:Value lines; everything else is positional
// (TimingPoints, HitObjects, Events, ...) and skipped.
var keyValueSections = strset.New("General", "Editor", "Metadata", "Difficulty", "Colours")

// ParseError means a file could not be decoded as a chart at all.
// Missing keys or malformed numbers never cause one; those degrade to
// zero values instead.
type ParseError struct {
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.File, e.Reason)
}

// Parse decodes a chart from data. name is the file name recorded on the
// resulting chart.
func Parse(name string, data []byte) (*beatmap.Chart, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if isBinary(data) {
		return nil, &ParseError{File: name, Reason: "binary content"}
	}
	if !utf8.Valid(data) {
		return nil, &ParseError{File: name, Reason: "not valid UTF-8 text"}
	}

	chart := &beatmap.Chart{
		File:  name,
		Extra: make(map[string]string),
	}

	var (
		section    string
		sawSection bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	// storyboard event lines can get long
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			section = strings.TrimSpace(line[1 : len(line)-1])
			sawSection = true
			continue
		case !sawSection && strings.HasPrefix(line, formatPrefix):
			chart.FormatVersion = lenientInt(line[len(formatPrefix):])
			continue
		}

		if !keyValueSections.Has(section) {
			continue
		}

		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		switch key {
		case "Title":
			chart.Title = value
		case "Artist":
			chart.Artist = value
		case "Creator":
			chart.Creator = value
		case "Version":
			chart.Difficulty = value
		case "AudioFilename":
			chart.AudioFile = value
		case "BeatmapID":
			chart.ID = lenientInt(value)
		case "BeatmapSetID":
			chart.SetID = lenientInt(value)
		default:
			chart.Extra[key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{File: name, Reason: err.Error()}
	}

	if !sawSection {
		return nil, &ParseError{File: name, Reason: "no section headers"}
	}

	if len(chart.Extra) == 0 {
		chart.Extra = nil
	}

	return chart, nil
}

// ParseFile reads and decodes the chart file at path.
func ParseFile(path string) (*beatmap.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read chart file %q", path)
	}

	return Parse(filepath.Base(path), data)
}

// isBinary sniffs for a NUL byte in the first 8000 bytes, the same
// heuristic git uses.
func isBinary(data []byte) bool {
	n := len(data)
	if n > 8000 {
		n = 8000
	}
	return bytes.IndexByte(data[:n], 0) != -1
}

// lenientInt coerces the numeric fields found in the wild: plain ints,
// the occasional float, or junk like "unsubmitted". Anything unparseable
// maps to 0 rather than failing the chart.
func lenientInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
