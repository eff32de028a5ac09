package main

import (
	"bytes"
	"testing"

	"github.com/einah-lang/einah/pkg/parser"
	"github.com/stretchr/testify/require"
)

func TestDumpASTWalksNodes(t *testing.T) {
	r := require.New(t)

	var out bytes.Buffer
	err := dumpAST(&out, "sprout total -> 2 * 3~\nspit total~")
	r.NoError(err)

	dump := out.String()
	r.NotContains(dump, "(*parser.Program)(1:1)")
	r.Contains(dump, "(*parser.VarDeclaration)")
	r.Contains(dump, "(*parser.BinaryExpr)")
	r.Contains(dump, "(*parser.PrintStatement)")
	r.Contains(dump, `"total"`)
	r.Contains(dump, "Line: (int) 2")
}

func TestDumpASTSyntaxError(t *testing.T) {
	r := require.New(t)

	var out bytes.Buffer
	err := dumpAST(&out, "sprout~")
	r.ErrorIs(err, parser.ErrUnexpectedToken)
	r.Empty(out.String())
}
