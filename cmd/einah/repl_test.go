package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/einah-lang/einah/pkg/config"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	s, err := newSession(slogt.New(t), &config.Config{Seed: 1}, &out, &errOut)
	require.NoError(t, err)

	return s, &out, &errOut
}

func TestSessionPersistsDeclarations(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	s, out, errOut := newTestSession(t)

	r.True(s.handle(ctx, "sprout x -> 40~"))
	r.True(s.handle(ctx, "x + 2~"))
	r.Empty(errOut.String())
	r.Equal("40\n42\n", out.String())
}

func TestSessionErrorKeepsGoing(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	s, out, errOut := newTestSession(t)

	r.True(s.handle(ctx, "missing~"))
	r.Contains(errOut.String(), "variable not defined")

	r.True(s.handle(ctx, "spit #still here#~"))
	r.Equal("still here\n", out.String())
}

func TestSessionRepeatsLastInput(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	s, out, _ := newTestSession(t)

	r.True(s.handle(ctx, "sprout n -> 0~"))
	out.Reset()

	r.True(s.handle(ctx, "n -> n + 1~"))
	r.True(s.handle(ctx, ""))
	r.True(s.handle(ctx, "   "))
	r.Equal("1\n2\n3\n", out.String())
}

func TestSessionClear(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	s, out, errOut := newTestSession(t)

	r.True(s.handle(ctx, "sprout x -> 1~"))
	out.Reset()

	r.True(s.handle(ctx, "clear"))
	r.Equal(clearScreen, out.String())

	// declarations survive a cleared screen
	out.Reset()
	r.True(s.handle(ctx, "x + 1~"))
	r.Empty(errOut.String())
	r.Equal("2\n", out.String())
}

func TestSessionReset(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	s, _, errOut := newTestSession(t)

	r.True(s.handle(ctx, "sprout x -> 1~"))
	r.True(s.handle(ctx, "reset"))
	r.True(s.handle(ctx, "x~"))
	r.Contains(errOut.String(), "variable not defined")

	errOut.Reset()
	r.True(s.handle(ctx, "sprout x -> 2~"))
	r.Empty(errOut.String())
}

func TestSessionCommands(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	s, out, _ := newTestSession(t)

	r.True(s.handle(ctx, "help"))
	r.Equal(helpText, out.String())

	r.False(s.handle(ctx, "exit"))
	r.False(s.handle(ctx, " quit "))
}

func TestSessionDumpsAST(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	s, out, errOut := newTestSession(t)

	r.True(s.handle(ctx, "sprout x -> 1 + 2~#ast"))
	r.Empty(errOut.String())
	r.Contains(out.String(), "VarDeclaration")
	r.Contains(out.String(), "BinaryExpr")

	// dumping does not run the input
	out.Reset()
	r.True(s.handle(ctx, "x~"))
	r.Contains(errOut.String(), "variable not defined")
	r.Empty(out.String())
}

func TestIsCommand(t *testing.T) {
	r := require.New(t)

	for _, line := range []string{"", "  ", "help", "clear", "reset", "exit", "quit"} {
		r.True(isCommand(line), line)
	}

	for _, line := range []string{"spit 1~", "helpme", "sprout exit -> 1~"} {
		r.False(isCommand(line), line)
	}
}
