package pdf

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Needs a local Chrome; set CHROME_PATH to run.
func TestChromeRendererPrintsPDF(t *testing.T) {
	path := os.Getenv("CHROME_PATH")
	if path == "" {
		t.Skip("CHROME_PATH not set")
	}
	html := "<!DOCTYPE html><html><body><h1>Hello</h1></body></html>"

	out, err := NewChromeRenderer(path, 30*time.Second).RenderHTMLToPDF(context.Background(), html, Letter)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
