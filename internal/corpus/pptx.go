package corpus

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	pptxSlide = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	// pptxRun matches a DrawingML text run <a:t>text</a:t> or a paragraph end </a:p>.
	pptxRun = regexp.MustCompile(`<a:t(?:\s[^>]*)?>([^<]*)</a:t>|</a:p>`)
)

// extractPPTX returns the text of every slide in slide order, one paragraph per line.
func extractPPTX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PPTX: %w", err)
	}

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := pptxSlide.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: n, file: f})
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("open PPTX: no slides found")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var b strings.Builder
	for _, s := range slides {
		data, err := readZipEntry(zr, s.file.Name)
		if err != nil {
			return "", fmt.Errorf("open PPTX: %w", err)
		}
		writeRuns(&b, pptxRun, data)
		if out := b.String(); out != "" && out[len(out)-1] != '\n' {
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String()), nil
}
