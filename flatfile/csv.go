package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/sindreglo/addressregister/core"
)

const csvSeparator = ';'

// DecodeCSV reads semicolon-separated addresses, one per row.
// Importing stops at the first invalid row and the rows read so far are discarded.
func DecodeCSV(r io.Reader) ([]core.Address, error) {
	reader := csv.NewReader(r)
	reader.Comma = csvSeparator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	addresses := []core.Address{}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read file: %w", core.ErrImport, err)
		}
		line, _ := reader.FieldPos(0)
		address, err := parseRecord(fields, line)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

// EncodeCSV writes addresses as UTF-8 semicolon-separated rows.
// Nothing is written if any field contains a carriage return.
func EncodeCSV(w io.Writer, addresses []core.Address) error {
	if err := FormatCSV.Check(addresses); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	writer.Comma = csvSeparator
	for _, address := range addresses {
		if err := writer.Write(record(address)); err != nil {
			return fmt.Errorf("cannot write address (%v): %w", address, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
