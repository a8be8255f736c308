package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadReadsStylesheet(t *testing.T) {
	css := "html.__MAX_ZOOM__ video { object-fit: cover; object-position: var(--OBJX) 50%; }\n"
	l := NewLoader(writeFile(t, "tweaks.css", []byte(css)), nil)

	assert.Equal(t, css, l.Load())
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "absent.css"), nil)

	_, err := l.Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, l.Load())
}

func TestLoadDirectoryIsEmpty(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)
	assert.Empty(t, l.Load())
}

func TestLoadBinaryIsEmpty(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	l := NewLoader(writeFile(t, "tweaks.css", png), nil)

	_, err := l.Read()
	assert.ErrorIs(t, err, ErrNotText)
	assert.Empty(t, l.Load())
}

func TestLoadAcceptsTextualSniffs(t *testing.T) {
	cases := map[string]string{
		"svg":  `<svg xmlns="http://www.w3.org/2000/svg"></svg>` + "\nhtml { background: #000; }\n",
		"json": `{"note": "generated"}`,
		"xml":  `<?xml version="1.0"?><style>body{}</style>`,
	}
	for name, css := range cases {
		t.Run(name, func(t *testing.T) {
			l := NewLoader(writeFile(t, "tweaks.css", []byte(css)), nil)

			content, err := l.Read()
			require.NoError(t, err)
			assert.Equal(t, css, content)
			assert.Equal(t, css, l.Load())
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	l := NewLoader(writeFile(t, "tweaks.css", nil), nil)

	content, err := l.Read()
	require.NoError(t, err)
	assert.Empty(t, content)
	assert.Empty(t, l.Load())
}

func TestLoadIsCached(t *testing.T) {
	path := writeFile(t, "tweaks.css", []byte("body { margin: 0; }"))
	l := NewLoader(path, nil)

	first := l.Load()
	require.NoError(t, os.WriteFile(path, []byte("body { margin: 4px; }"), 0o644))

	assert.Equal(t, first, l.Load())
	assert.Equal(t, path, l.Path())
}
