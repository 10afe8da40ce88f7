package flatfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sindreglo/addressregister/core"
	"golang.org/x/text/encoding/charmap"
)

// DecodeTab reads tab-separated addresses, one per line, without a header.
// Lines that are not valid UTF-8 are decoded as ISO-8859-1, which is what older exports of the
// register used. Blank lines are skipped and the first invalid line aborts the whole decode.
func DecodeTab(r io.Reader) ([]core.Address, error) {
	scanner := bufio.NewScanner(r)
	latin1 := charmap.ISO8859_1.NewDecoder()
	addresses := []core.Address{}
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(raw) == 0 {
			continue
		}
		if !utf8.Valid(raw) {
			decoded, err := latin1.Bytes(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", core.ErrImport, line, err)
			}
			raw = decoded
		}
		address, err := parseRecord(strings.Split(string(raw), "\t"), line)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: cannot read file: %w", core.ErrImport, err)
	}
	return addresses, nil
}

// EncodeTab writes addresses as UTF-8 tab-separated lines.
// Nothing is written if any field contains a tab or a line break.
func EncodeTab(w io.Writer, addresses []core.Address) error {
	if err := FormatTab.Check(addresses); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, address := range addresses {
		if _, err := bw.WriteString(strings.Join(record(address), "\t") + "\n"); err != nil {
			return fmt.Errorf("cannot write address (%v): %w", address, err)
		}
	}
	return bw.Flush()
}
