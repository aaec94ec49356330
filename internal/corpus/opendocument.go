package corpus

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	odfContent   = "content.xml"
	odfTextSpace = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	// odfMaxSpaces caps a single <text:s/> run.
	odfMaxSpaces = 1024
)

// extractOpenDocument returns the text of an OpenDocument file (.odt, .ods,
// .odp), one paragraph or heading per line. Text outside paragraphs, such as
// style definitions, is ignored.
func extractOpenDocument(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open OpenDocument: %w", err)
	}
	doc, err := readZipEntry(zr, odfContent)
	if err != nil {
		return "", fmt.Errorf("open OpenDocument: %w", err)
	}

	var b strings.Builder
	dec := xml.NewDecoder(bytes.NewReader(doc))
	depth := 0 // nesting of text:p and text:h
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse OpenDocument: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != odfTextSpace {
				continue
			}
			switch t.Name.Local {
			case "p", "h":
				depth++
			case "s":
				if depth > 0 {
					b.WriteString(strings.Repeat(" ", spaceCount(t)))
				}
			case "tab":
				if depth > 0 {
					b.WriteByte('\t')
				}
			case "line-break":
				if depth > 0 {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space == odfTextSpace && (t.Name.Local == "p" || t.Name.Local == "h") && depth > 0 {
				depth--
				if depth == 0 {
					b.WriteByte('\n')
				}
			}
		case xml.CharData:
			if depth > 0 {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// spaceCount reads the text:c attribute of <text:s/>, which defaults to 1
// and is clamped to odfMaxSpaces.
func spaceCount(el xml.StartElement) int {
	for _, a := range el.Attr {
		if a.Name.Local == "c" {
			if n, err := strconv.Atoi(a.Value); err == nil && n > 0 {
				return min(n, odfMaxSpaces)
			}
		}
	}
	return 1
}
