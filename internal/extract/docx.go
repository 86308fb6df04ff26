package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// oleMagic prefixes legacy binary .doc files (OLE2 compound documents).
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func readDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrUnreadable)
	}
	if bytes.HasPrefix(data, oleMagic) {
		return "", fmt.Errorf("%w: legacy binary .doc", ErrUnsupportedFormat)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer doc.Close()

	return paragraphs(doc.Editable().GetContent())
}

// paragraphs walks word/document.xml and returns one line per w:p in document order.
func paragraphs(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		lines  []string
		cur    strings.Builder
		inRun  int
		inText int
		inBody bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: document.xml: %w", ErrUnreadable, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "body":
				inBody = true
			case "r":
				inRun++
			case "t":
				inText++
			case "tab":
				// w:tab also appears as a tab stop inside w:pPr.
				if inRun > 0 {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if inRun > 0 {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "r":
				inRun--
			case "t":
				inText--
			case "p":
				lines = append(lines, cur.String())
				cur.Reset()
			}
		case xml.CharData:
			if inText > 0 {
				cur.Write(t)
			}
		}
	}
	if !inBody {
		return "", fmt.Errorf("%w: document.xml has no body", ErrUnreadable)
	}
	return strings.Join(lines, "\n"), nil
}
