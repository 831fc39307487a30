package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentFormat identifies a supported CV container format.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

// FormatForFilename maps an uploaded filename to a document format.
// Legacy .doc files are treated as OOXML containers; genuinely old
// binary .doc payloads fail later with an ExtractionError.
func FormatForFilename(filename string) (DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".doc", ".docx":
		return FormatDOCX, nil
	default:
		return "", NewValidationError("only PDF, DOC, and DOCX files are supported")
	}
}

type ExtractorService interface {
	ExtractText(payload []byte, format DocumentFormat) (string, error)
}

type extractorService struct{}

func NewExtractorService() ExtractorService {
	return &extractorService{}
}

func (e *extractorService) ExtractText(payload []byte, format DocumentFormat) (string, error) {
	switch format {
	case FormatPDF:
		return e.extractPDF(payload)
	case FormatDOCX:
		return e.extractDOCX(payload)
	default:
		return "", NewValidationError("unsupported document format: %s", format)
	}
}

func (e *extractorService) extractPDF(payload []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs; report those as
	// extraction failures like any other decode error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Format: FormatPDF, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Err: err}
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Pages without extractable text are skipped, not errors.
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return cleanText(textBuilder.String()), nil
}

func (e *extractorService) extractDOCX(payload []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Err: err}
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", &ExtractionError{Format: FormatDOCX, Err: err}
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", &ExtractionError{Format: FormatDOCX, Err: err}
		}

		text, err := parseDocumentXML(content)
		if err != nil {
			return "", &ExtractionError{Format: FormatDOCX, Err: err}
		}
		return cleanText(text), nil
	}

	return "", &ExtractionError{Format: FormatDOCX, Err: fmt.Errorf("missing word/document.xml")}
}

// parseDocumentXML walks the OOXML body token stream so paragraphs and
// tables come out in the order they appear in the document. Table cell
// texts are space-joined within a row, rows newline-joined.
func parseDocumentXML(content []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var (
		out        strings.Builder
		paragraph  strings.Builder
		cell       strings.Builder
		rowCells   []string
		tableDepth int
		inText     bool
		inCell     bool
	)

	for {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth > 0 {
					rowCells = rowCells[:0]
				}
			case "tc":
				if tableDepth > 0 {
					inCell = true
					cell.Reset()
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "tbl":
				tableDepth--
			case "tr":
				if tableDepth > 0 {
					out.WriteString(strings.Join(rowCells, " "))
					out.WriteString("\n")
				}
			case "tc":
				if tableDepth > 0 {
					rowCells = append(rowCells, cell.String())
					inCell = false
				}
			case "p":
				if tableDepth == 0 {
					out.WriteString(paragraph.String())
					out.WriteString("\n")
					paragraph.Reset()
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cell.Write(tok)
			} else if tableDepth == 0 {
				paragraph.Write(tok)
			}
		}
	}

	return out.String(), nil
}

var (
	newlineRuns     = regexp.MustCompile(`\n+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,;:()\[\]/@#%&+]`)
)

// cleanText normalizes extracted document text: newline runs collapse
// to one, whitespace runs to a single space, and characters outside
// the word/whitespace/punctuation whitelist are stripped. Idempotent.
func cleanText(text string) string {
	if text == "" {
		return ""
	}

	text = newlineRuns.ReplaceAllString(text, "\n")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = disallowedChars.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
