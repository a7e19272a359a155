package analyzer

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// fallbackEncodings are tried in order for files that are not valid UTF-8.
var fallbackEncodings = []encoding.Encoding{
	korean.EUCKR,
	charmap.Windows1252,
}

// ReadFile reads a text file, decoding legacy encodings when the content is
// not valid UTF-8.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return DecodeText(raw), nil
}

// DecodeText returns data as UTF-8 text. A leading byte order mark is
// dropped.
func DecodeText(data []byte) string {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data)
	}

	for _, enc := range fallbackEncodings {
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded)
		}
	}

	return string(data)
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
