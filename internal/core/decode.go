package core

// decode.go turns an uploaded file into import text.
//
// Spreadsheet exports often start with a UTF-8 byte order mark and sometimes
// carry stray Latin-1 bytes. The BOM is dropped and invalid UTF-8 sequences
// are replaced so the parser only ever sees valid text.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file too large")

// DecodeImportText reads at most maxBytes from r and returns it as UTF-8 text.
// A maxBytes of zero or less means no limit.
func DecodeImportText(r io.Reader, maxBytes int64) (string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	var src io.Reader = br
	if maxBytes > 0 {
		src = io.LimitReader(br, maxBytes+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, maxBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmptyFile
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}
