package scaffold

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned when a CSV file has no header row.
var ErrNoHeader = errors.New("csv file has no header row")

// ReadHeader returns the columns of the first record of the CSV file at path.
// A leading byte order mark is dropped; UTF-16 files with a BOM are decoded.
func ReadHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return readHeader(f)
}

func readHeader(src io.Reader) ([]string, error) {
	br := bufio.NewReader(transform.NewReader(src, unicode.BOMOverride(encoding.Nop.NewDecoder())))

	// The header is physical line 1, which encoding/csv would skip if blank
	first, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if strings.TrimSpace(first) == "" {
		return nil, ErrNoHeader
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(first), br))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rec, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	header := make([]string, len(rec))
	for i, col := range rec {
		header[i] = strings.TrimSpace(col)
	}
	if len(header) == 1 && header[0] == "" {
		return nil, ErrNoHeader
	}
	return header, nil
}

// CSVSample returns the first maxLines physical lines of the file at path,
// byte for byte, header included. The file is streamed and reading stops at
// the cap.
func CSVSample(path string, maxLines int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return sampleLines(f, maxLines)
}

func sampleLines(src io.Reader, maxLines int) (string, error) {
	var b strings.Builder
	br := bufio.NewReader(src)

	for n := 0; n < maxLines; n++ {
		line, err := br.ReadString('\n')
		b.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read csv sample: %w", err)
		}
	}
	return b.String(), nil
}
