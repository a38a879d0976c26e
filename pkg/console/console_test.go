package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintWithHeading(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Print("Joined summary", "dense text\n", Blue)

	require.Equal(t, "# Joined summary\n\ndense text\n\n", buf.String())
}

func TestPrintWithoutHeadingIsNotColoredForBuffers(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Print("", "WARNING: Model did not come to a natural stop.", Yellow)

	require.NotContains(t, buf.String(), "\x1b[")
	require.Equal(t, "WARNING: Model did not come to a natural stop.\n\n", buf.String())
}

func TestNilPrinterIsSilent(t *testing.T) {
	var p *Printer
	require.NotPanics(t, func() { p.Print("h", "c", Green) })
}
