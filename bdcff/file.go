// This file contains the file-level entry points of the codec: reading a
// caveset file with charset detection, and writing one back.

package bdcff

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/gdash/gdash/cave"
)

// LoadFile reads and parses a BDCFF caveset file. A missing or unreadable
// file is a fatal error; parse problems are warnings in log.
//
// Files are expected in UTF-8; input that is not valid UTF-8 is decoded as
// Latin-1, which 8-bit era cavesets commonly use.
func LoadFile(name string, log *Logger) (*cave.CaveSet, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("bdcff: reading %s: %w", name, err)
	}

	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err == nil {
			data = decoded
		}
	}

	return ParseCaveSet(data, log)
}

// SaveFile serializes the caveset and writes it to a file.
func SaveFile(name string, set *cave.CaveSet) error {
	if err := os.WriteFile(name, SaveCaveSet(set), 0o644); err != nil {
		return fmt.Errorf("bdcff: writing %s: %w", name, err)
	}
	return nil
}
