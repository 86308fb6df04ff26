package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(runs ...string) string {
	return "<w:p><w:pPr><w:tabs><w:tab w:val=\"left\" w:pos=\"720\"/></w:tabs></w:pPr>" + strings.Join(runs, "") + "</w:p>"
}

func run(text string) string {
	return "<w:r><w:t xml:space=\"preserve\">" + text + "</w:t></w:r>"
}

// buildPDF writes a minimal PDF with one Helvetica text line per page.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	return buildPDFWithEncoding(t, "WinAnsiEncoding", pages...)
}

func buildPDFWithEncoding(t *testing.T, encoding string, pages ...string) []byte {
	t.Helper()
	n := len(pages)
	fontObj := 3 + 2*n

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /"+encoding+" >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestFileType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"resume.pdf", "pdf"},
		{"Resume.PDF", "pdf"},
		{"my.cv.v2.DOCX", "docx"},
		{"notes.txt", "txt"},
		{"README", ""},
		{"", ""},
		{"trailing.", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileType(tt.name))
		})
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatPDF, FormatFor("cv.Pdf"))
	assert.Equal(t, FormatDOCX, FormatFor("cv.docx"))
	assert.Equal(t, FormatDOCX, FormatFor("cv.doc"))
	assert.Equal(t, FormatText, FormatFor("cv.txt"))
	assert.Equal(t, FormatText, FormatFor("cv.rtf"))
	assert.Equal(t, FormatText, FormatFor("cv"))
}

func TestExtractDOCXParagraphOrder(t *testing.T) {
	data := buildDOCX(t,
		para(run("John Doe"))+
			para(run("Senior "), run("Engineer"))+
			para(`<w:r><w:t>Go</w:t><w:tab/><w:t>Python</w:t><w:br/><w:t>Rust</w:t></w:r>`)+
			"<w:sectPr/>",
	)

	text, err := New().Extract(context.Background(), data, "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "John Doe\nSenior Engineer\nGo\tPython\nRust", text)
}

func TestExtractDOCXKeepsEmptyParagraphs(t *testing.T) {
	data := buildDOCX(t, para(run("A"))+para()+para(run("B")))

	text, err := New().Extract(context.Background(), data, "CV.DOCX")
	require.NoError(t, err)
	assert.Equal(t, "A\n\nB", text)
}

func TestExtractDOCXWithoutTextIsNotAnError(t *testing.T) {
	data := buildDOCX(t, para())

	text, err := New().Extract(context.Background(), data, "blank.docx")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(text))
}

func TestExtractPDFPageOrder(t *testing.T) {
	data := buildPDF(t, "Page one text", "Page two text")

	text, err := New().Extract(context.Background(), data, "cv.pdf")
	require.NoError(t, err)
	first := strings.Index(text, "Page one text")
	second := strings.Index(text, "Page two text")
	require.GreaterOrEqual(t, first, 0, text)
	require.Greater(t, second, first, text)
}

func TestExtractPDFDropsNULCharacters(t *testing.T) {
	// StandardEncoding is passed through byte for byte, so \000 reaches the text.
	data := buildPDFWithEncoding(t, "StandardEncoding", `J\000a\000n\000e`)

	text, err := New().Extract(context.Background(), data, "cv.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Jane")
	assert.NotContains(t, text, "\x00")
}

func TestExtractCorruptContainers(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{name: "empty pdf", filename: "cv.pdf", data: nil},
		{name: "garbage pdf", filename: "cv.pdf", data: []byte("this is not a pdf at all")},
		{name: "truncated pdf", filename: "cv.pdf", data: []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog")},
		{name: "empty docx", filename: "cv.docx", data: []byte{}},
		{name: "garbage docx", filename: "cv.docx", data: []byte("PK\x03\x04 broken")},
		{name: "zip without document", filename: "cv.docx", data: zipWith(t, "notes.txt", "hello")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			text, err := New().Extract(context.Background(), tt.data, tt.filename)
			require.ErrorIs(t, err, ErrUnreadable)
			assert.Empty(t, text)
		})
	}
}

func TestExtractTruncatedDOCX(t *testing.T) {
	data := buildDOCX(t, para(run("John Doe")))
	_, err := New().Extract(context.Background(), data[:len(data)/2], "cv.docx")
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractLegacyDocIsUnsupported(t *testing.T) {
	data := append(append([]byte(nil), oleMagic...), make([]byte, 64)...)
	_, err := New().Extract(context.Background(), data, "old.doc")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractTextIsLossy(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{name: "plain", filename: "cv.txt", data: []byte("John Doe\njohn@x.com"), want: "John Doe\njohn@x.com"},
		{name: "no extension", filename: "README", data: []byte("hello"), want: "hello"},
		{name: "invalid utf8 dropped", filename: "cv.txt", data: []byte("caf\xe9 ok\xff"), want: "caf ok"},
		{name: "nul removed", filename: "x.bin", data: []byte("a\x00b"), want: "ab"},
		{name: "bom stripped", filename: "cv.txt", data: []byte("\xef\xbb\xbfhi"), want: "hi"},
		{name: "empty", filename: "cv.txt", data: nil, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Extract(context.Background(), tt.data, tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractArbitraryBinaryNeverFails(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 31)
	}
	for _, name := range []string{"blob.bin", "image.png", "noext"} {
		_, err := New().Extract(context.Background(), data, name)
		require.NoError(t, err, name)
	}
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Extract(ctx, []byte("text"), "cv.txt")
	require.ErrorIs(t, err, context.Canceled)
}

func zipWith(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
