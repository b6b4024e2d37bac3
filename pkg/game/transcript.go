package game

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yourusername/checkers/pkg/engine"
)

// Transcript format.
// Example:
//
//	; [ID "0b6f..."]
//	; [Event "Club night"]
//	; [Black "alice"]
//	; [White "bob"]
//
//	  1) A6-B5 B3-C4
//	  2) G6-H5 H3-G4
//	A

var (
	tagRE      = regexp.MustCompile(`\[(\w+)\s+("(?:[^"\\]|\\.)*")\]`)
	moveLineRE = regexp.MustCompile(`^\s*(\d+)\)`)
	commandRE  = regexp.MustCompile(`^[A-Z]$`)
)

// ImportTranscript reads a record from transcript format.
func ImportTranscript(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	rec := &Record{
		Moves: make([]engine.Move, 0),
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}

		// Parse metadata comments
		if strings.HasPrefix(line, ";") {
			if m := tagRE.FindStringSubmatch(line); m != nil {
				value, err := strconv.Unquote(m[2])
				if err != nil {
					return nil, fmt.Errorf("line %d: tag %s: %w", lineNum, m[1], err)
				}
				if err := setTag(rec, m[1], value); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if moveLineRE.MatchString(line) {
			if err := parseMoveLine(line, rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			continue
		}

		if commandRE.MatchString(line) {
			rec.Command = Command(line[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	return rec, nil
}

// setTag stores one metadata tag
func setTag(rec *Record, key, value string) error {
	switch strings.ToLower(key) {
	case "id":
		id, err := uuid.Parse(value)
		if err != nil {
			return fmt.Errorf("record ID %q: %w", value, err)
		}
		rec.ID = id.String()
	case "black":
		rec.Black = value
	case "white":
		rec.White = value
	case "event":
		rec.Event = value
	case "date":
		rec.Date = value
	}
	return nil
}

// parseMoveLine parses a numbered line holding Black's move and, optionally,
// White's reply. Format: "1) A6-B5 B3-C4". Lines must be numbered in order,
// and only the last one may omit White's reply.
func parseMoveLine(line string, rec *Record) error {
	parts := strings.SplitN(line, ")", 2)
	if len(parts) < 2 {
		return nil
	}

	label := strings.TrimSpace(parts[0])
	if len(rec.Moves)%engine.NumPlayers != 0 {
		return fmt.Errorf("move line %s follows a line without White's reply", label)
	}
	want := len(rec.Moves)/engine.NumPlayers + 1
	if n, err := strconv.Atoi(label); err != nil || n != want {
		return fmt.Errorf("move line %s: expected line %d", label, want)
	}

	fields := strings.Fields(parts[1])
	switch {
	case len(fields) == 0:
		return fmt.Errorf("move line %s: no moves", label)
	case len(fields) > engine.NumPlayers:
		return fmt.Errorf("move line %s: too many moves", label)
	}
	for _, f := range fields {
		m, err := engine.ParseMove(f)
		if err != nil {
			return err
		}
		rec.AddMove(m)
	}
	return nil
}

// ExportTranscript writes a record in transcript format.
func ExportTranscript(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)

	// Metadata values are Go-quoted so names may hold quotes
	fmt.Fprintf(bw, "; [ID %q]\n", rec.ID)
	if rec.Event != "" {
		fmt.Fprintf(bw, "; [Event %q]\n", rec.Event)
	}
	if rec.Date != "" {
		fmt.Fprintf(bw, "; [Date %q]\n", rec.Date)
	}
	fmt.Fprintf(bw, "; [Black %q]\n", rec.Black)
	fmt.Fprintf(bw, "; [White %q]\n", rec.White)
	fmt.Fprintln(bw)

	// One numbered line per Black/White pair
	for i := 0; i < len(rec.Moves); i += engine.NumPlayers {
		fmt.Fprintf(bw, "%3d) %s", i/engine.NumPlayers+1, rec.Moves[i])
		if i+1 < len(rec.Moves) {
			fmt.Fprintf(bw, " %s", rec.Moves[i+1])
		}
		fmt.Fprintln(bw)
	}

	if rec.Command != CommandNone {
		fmt.Fprintln(bw, rec.Command)
	}

	return bw.Flush()
}
