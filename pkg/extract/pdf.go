package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the text of every page in page order. A page that
// fails to parse contributes an empty string; only an unreadable document as
// a whole is an error.
func (e *Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		text, err := pageText(reader, pageNum)
		if err != nil {
			e.logger.Warn().Err(err).Int("page", pageNum).Msg("skipping unparsable pdf page")
			continue
		}
		b.WriteString(text)
	}

	return b.String(), nil
}

func pageText(reader *pdf.Reader, pageNum int) (text string, err error) {
	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	return page.GetPlainText(nil)
}
