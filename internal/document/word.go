package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordBodyPart = "word/document.xml"

// extractWord reads the main document part of an OOXML word-processing file.
// Legacy binary .doc files are not zip archives and fail here.
func extractWord(content []byte) (string, error) {
	if len(content) == 0 {
		return "", errors.New("empty word document content")
	}

	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open word document: %w", err)
	}

	for _, file := range archive.File {
		if file.Name != wordBodyPart {
			continue
		}

		part, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", wordBodyPart, err)
		}
		defer part.Close()

		return decodeWordBody(part)
	}

	return "", fmt.Errorf("%s not found", wordBodyPart)
}

func decodeWordBody(r io.Reader) (string, error) {
	var (
		out    strings.Builder
		inText bool
	)

	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", wordBodyPart, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}

	return out.String(), nil
}
