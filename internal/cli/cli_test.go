package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func testStreams(in string) (Streams, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return Streams{In: strings.NewReader(in), Out: out, Err: errOut}, out, errOut
}

const sampleDeck = `id: deck-1
title: Volcanoes
slides:
  - id: s1
    elements:
      - id: t1
        type: title
        x: 1
        y: 1
        w: 10
        h: 2
        props:
          text: Volcanoes
          fontSize: 20
  - id: s2
    elements:
      - id: body
        type: text
        x: 1
        y: 3
        w: 10
        h: 4
        props:
          text: Magma rises through the crust and erupts at the surface.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
