// Package output encodes size reports and delivers them to a stream or to an
// append-only file such as GITHUB_OUTPUT.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/OhanaFS/sizediff"
)

// Format is an output encoding.
type Format string

const (
	// FormatKV is one key=value pair per line. This is the only format
	// GITHUB_OUTPUT understands.
	FormatKV Format = "kv"
	// FormatJSON is a single JSON object.
	FormatJSON Format = "json"
	// FormatYAML is a YAML mapping.
	FormatYAML Format = "yaml"
	// FormatMsgpack is a MessagePack map.
	FormatMsgpack Format = "msgpack"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
)

// Formats lists every supported format.
var Formats = []Format{FormatKV, FormatJSON, FormatYAML, FormatMsgpack}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode renders the summary in the given format. Text formats end with a
// newline.
func Encode(s sizediff.Summary, f Format) ([]byte, error) {
	switch f {
	case FormatKV:
		return []byte(strings.Join(s.Lines(), "\n") + "\n"), nil
	case FormatJSON:
		b, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatMsgpack:
		return msgpack.Marshal(s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Write encodes the summary and writes it to w.
func Write(w io.Writer, s sizediff.Summary, f Format) error {
	b, err := Encode(s, f)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// AppendFile appends data to the file at path, creating it if needed. Existing
// content is preserved.
func AppendFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
