package play

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yourusername/checkers/internal/logging"
	"github.com/yourusername/checkers/pkg/engine"
	"github.com/yourusername/checkers/pkg/game"
)

// Keep debug output of the code under test out of the test log
func TestMain(m *testing.M) {
	if err := logging.ConfigureWriter(io.Discard, "disabled", false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const initialBoardText = "     A   B   C   D   E   F   G   H\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 1 | . | w | . | w | . | w | . | w |\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 2 | w | . | w | . | w | . | w | . |\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 3 | . | w | . | w | . | w | . | w |\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 4 | . | . | . | . | . | . | . | . |\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 5 | . | . | . | . | . | . | . | . |\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 6 | b | . | b | . | b | . | b | . |\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 7 | . | b | . | b | . | b | . | b |\n" +
	"   +---+---+---+---+---+---+---+---+\n" +
	" 8 | b | . | b | . | b | . | b | . |\n" +
	"   +---+---+---+---+---+---+---+---+\n"

func shallowEngine() *engine.Engine {
	return engine.NewEngine(engine.EngineOptions{Depth: 1})
}

func TestPrinterSetup(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Setup(engine.NewBoard())
	require.NoError(t, p.Err())

	want := "BOARD SIZE: 8x8\n#BLACK PIECES: 12\n#WHITE PIECES: 12\n" + initialBoardText
	require.Equal(t, want, buf.String())
}

func TestPrinterAction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	b := engine.NewBoard()
	p.Action(engine.MustParseMove("A6-B5"), 1, b, false)
	require.True(t, strings.HasPrefix(buf.String(),
		"=====================================\nBLACK ACTION #1: A6-B5\nBOARD COST: 0\n"))

	buf.Reset()
	p.Action(engine.MustParseMove("B3-C4"), 2, b, true)
	require.True(t, strings.HasPrefix(buf.String(),
		"=====================================\n*** WHITE ACTION #2: B3-C4\nBOARD COST: 0\n"))
}

func TestPrinterWinner(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Winner(engine.Black)
	p.Winner(engine.White)
	require.Equal(t, "BLACK WIN!\nWHITE WIN!\n", buf.String())
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{engine.ErrSourceOutOfBounds, "ERROR: Source cell is outside of the board."},
		{engine.ErrTargetOutOfBounds, "ERROR: Target cell is outside of the board."},
		{engine.ErrSourceEmpty, "ERROR: Source cell is empty."},
		{engine.ErrTargetOccupied, "ERROR: Target cell is not empty."},
		{engine.ErrOpponentPiece, "ERROR: Source cell holds opponent's piece/tower."},
		{engine.ErrIllegalDirection, "ERROR: Illegal action."},
		{engine.ErrIllegalGeometry, "ERROR: Illegal action."},
		{engine.ErrIllegalCapture, "ERROR: Illegal action."},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, ErrorMessage(tc.err))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrinterStickyError(t *testing.T) {
	p := NewPrinter(failingWriter{})
	p.Setup(engine.NewBoard())
	require.EqualError(t, p.Err(), "disk full")
}

func TestRunBulkMoves(t *testing.T) {
	var out bytes.Buffer
	err := RunBulk(context.Background(), shallowEngine(), strings.NewReader("A6-B5\nB3-C4\n"), &out)
	require.NoError(t, err)

	s := out.String()
	require.True(t, strings.HasPrefix(s, bulkHeader+"BOARD SIZE: 8x8\n"))
	require.Contains(t, s, "BLACK ACTION #1: A6-B5\nBOARD COST: 0\n")
	require.Contains(t, s, "WHITE ACTION #2: B3-C4\nBOARD COST: 0\n")
	require.NotContains(t, s, "***")
}

func TestRunBulkIllegalMove(t *testing.T) {
	var out bytes.Buffer
	err := RunBulk(context.Background(), shallowEngine(), strings.NewReader("A6-B5\nA6-B5\nA\n"), &out)
	require.Error(t, err)

	var re *game.ReplayError
	require.True(t, errors.As(err, &re))
	require.Equal(t, 2, re.Turn)

	s := out.String()
	require.True(t, strings.HasSuffix(s, "ERROR: Source cell is empty.\n"))
	require.NotContains(t, s, "***")
}

func TestRunBulkCommands(t *testing.T) {
	tests := []struct {
		input    string
		computed int
	}{
		{"A\n", 1},
		{"A6-B5\nA\n", 1},
		{"P\n", 10},
		{"A6-B5\n", 0},
	}

	for _, tc := range tests {
		var out bytes.Buffer
		err := RunBulk(context.Background(), shallowEngine(), strings.NewReader(tc.input), &out)
		require.NoError(t, err)
		require.Equal(t, tc.computed, strings.Count(out.String(), computedMarker), "input %q", tc.input)
	}
}

func TestRunBulkPredictionTurns(t *testing.T) {
	var out bytes.Buffer
	err := RunBulk(context.Background(), shallowEngine(), strings.NewReader("A6-B5\nA\n"), &out)
	require.NoError(t, err)

	// Tie-breaking keeps White's first generated move
	require.Contains(t, out.String(), "*** WHITE ACTION #2: B3-C4\n")
}

func TestRunInteractive(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("Z9-A1\nA\nB3-C4\n")
	err := RunInteractive(context.Background(), shallowEngine(), in, &out)
	require.NoError(t, err)

	s := out.String()
	require.Contains(t, s, "Bot (with MiniMax tree depth 1)")
	require.Contains(t, s, "*** BLACK ACTION #1: A6-B5\n")
	require.Contains(t, s, humanPrompt+"ERROR: Source cell is outside of the board.\n"+humanRetry)
	require.Contains(t, s, "=====================================\nWHITE ACTION #2: B3-C4\n")
	require.Contains(t, s, "*** BLACK ACTION #3: ")

	// Input ran out at the second prompt
	require.True(t, strings.HasSuffix(s, humanPrompt))
}

func TestRunInteractiveEndOfInput(t *testing.T) {
	var out bytes.Buffer
	err := RunInteractive(context.Background(), shallowEngine(), strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out.String(), humanPrompt))
}

func TestInteractHumanStuck(t *testing.T) {
	var b engine.Board
	b.Set(0, 5, engine.BlackPiece)
	b.Set(1, 7, engine.WhitePiece) // can't move south of row 8

	var out bytes.Buffer
	p := NewPrinter(&out)
	err := interact(context.Background(), shallowEngine(), b, 2, game.NewScanner(strings.NewReader("B8-A7\n")), p)
	require.NoError(t, err)
	require.Equal(t, "BLACK WIN!\n", out.String())
}

func TestRunModeSelection(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), shallowEngine(), strings.NewReader("x\n3\n2\nA\n"), &out)
	require.NoError(t, err)

	s := out.String()
	require.True(t, strings.HasPrefix(s, Banner+modePrompt+modeRetry+modeRetry+bulkHeader))
	require.Equal(t, 1, strings.Count(s, computedMarker))
}

func TestRunPlayMode(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), shallowEngine(), strings.NewReader("1\n"), &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "PLAY WITH BOT MODE")
}

func TestRunNoMode(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), shallowEngine(), strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Equal(t, Banner+modePrompt, out.String())
}
