package game

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/checkers/pkg/engine"
)

// Token lengths in the bulk input stream, dashes excluded
const (
	moveTokenLen    = engine.MoveLen
	commandTokenLen = 1
)

// Token is one meaningful line of the input stream: a move or a command.
type Token struct {
	Move      engine.Move
	Command   Command
	IsCommand bool
}

// Scanner reads moves and commands line by line. Dashes are dropped, a line
// of four characters is a move and a line of one character is a command.
// Everything else is skipped.
type Scanner struct {
	sc  *bufio.Scanner
	tok Token
	err error
}

// NewScanner returns a scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

// Scan advances to the next move or command. It returns false at end of
// input or on a read error.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		line := strings.ReplaceAll(strings.TrimSpace(s.sc.Text()), string(engine.MoveDash), "")
		switch len(line) {
		case moveTokenLen:
			m, err := engine.ParseMove(line)
			if err != nil {
				s.err = err
				return false
			}
			s.tok = Token{Move: m}
			return true
		case commandTokenLen:
			s.tok = Token{Command: Command(line[0]), IsCommand: true}
			return true
		}
	}
	if err := s.sc.Err(); err != nil {
		s.err = fmt.Errorf("reading input: %w", err)
	}
	return false
}

// Token returns the most recent token read by Scan.
func (s *Scanner) Token() Token {
	return s.tok
}

// Err returns the first error hit by Scan.
func (s *Scanner) Err() error {
	return s.err
}

// ReadBulk reads a move list and its optional trailing command into a new
// record. The command ends the list; anything after it is not read.
func ReadBulk(r io.Reader) (*Record, error) {
	rec := NewRecord("", "")
	s := NewScanner(r)
	for s.Scan() {
		tok := s.Token()
		if tok.IsCommand {
			rec.Command = tok.Command
			break
		}
		rec.AddMove(tok.Move)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}
