package corpus

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

const (
	docxDefaultDocument = "word/document.xml"
	docxContentTypes    = "[Content_Types].xml"
	docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

// docxRun matches a text run <w:t ...>text</w:t> or a paragraph end </w:p>.
var docxRun = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>|</w:p>`)

type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// extractDOCX returns the text of a .docx file, one paragraph per line.
// The main document part is looked up in [Content_Types].xml and defaults
// to word/document.xml.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}

	docPath := docxDefaultDocument
	if ct, err := readZipEntry(zr, docxContentTypes); err == nil {
		var types contentTypes
		if xml.Unmarshal(ct, &types) == nil {
			for _, o := range types.Overrides {
				if o.ContentType == docxMainContentType {
					docPath = strings.TrimPrefix(o.PartName, "/")
					break
				}
			}
		}
	}

	doc, err := readZipEntry(zr, docPath)
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}

	var b strings.Builder
	writeRuns(&b, docxRun, doc)
	return strings.TrimSpace(b.String()), nil
}

// writeRuns appends the text captured by re in part to b. A match without a
// capture is a paragraph end and becomes a newline.
func writeRuns(b *strings.Builder, re *regexp.Regexp, part []byte) {
	for _, m := range re.FindAllSubmatch(part, -1) {
		if m[1] == nil {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(html.UnescapeString(string(m[1])))
	}
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", name)
}
