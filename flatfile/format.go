package flatfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sindreglo/addressregister/core"
)

type Format string

const (
	FormatTab Format = "txt"
	FormatCSV Format = "csv"
)

// Number of fields in every record, in the order
// zip code, postal, municipal code, municipality name, category.
const fieldCount = 5

var recordFields = [fieldCount]core.AddressField{
	core.FieldZipCode,
	core.FieldPostal,
	core.FieldMunicipalCode,
	core.FieldMunicipalityName,
	core.FieldCategory,
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Matches reports whether path carries the extension of this format.
func (f Format) Matches(path string) bool {
	return strings.EqualFold(filepath.Ext(path), f.Extension())
}

func (f Format) String() string {
	return strings.ToUpper(string(f))
}

// Decode reads all addresses from r in this format.
func (f Format) Decode(r io.Reader) ([]core.Address, error) {
	switch f {
	case FormatTab:
		return DecodeTab(r)
	case FormatCSV:
		return DecodeCSV(r)
	default:
		return nil, fmt.Errorf("unknown file format %q", string(f))
	}
}

// Encode writes addresses to w in this format.
func (f Format) Encode(w io.Writer, addresses []core.Address) error {
	switch f {
	case FormatTab:
		return EncodeTab(w, addresses)
	case FormatCSV:
		return EncodeCSV(w, addresses)
	default:
		return fmt.Errorf("unknown file format %q", string(f))
	}
}

// Check reports the first address that cannot be written in this format without changing it on
// the next import, e.g. a postal containing a tab in a tab-separated file.
func (f Format) Check(addresses []core.Address) error {
	forbidden := f.forbidden()
	for _, address := range addresses {
		for i, value := range record(address) {
			if idx := strings.IndexAny(value, forbidden); idx >= 0 {
				return fmt.Errorf(
					"%w: %s of address (%v) contains %q",
					core.ErrExport,
					recordFields[i],
					address,
					value[idx],
				)
			}
		}
	}
	return nil
}

// Characters that do not survive a field in this format.
// encoding/csv reads a quoted \r\n back as \n, so CSV rejects \r.
func (f Format) forbidden() string {
	switch f {
	case FormatTab:
		return "\t\r\n"
	case FormatCSV:
		return "\r"
	default:
		return ""
	}
}

// FormatFromPath returns the format that belongs to the extension of path.
func FormatFromPath(path string) (Format, error) {
	for _, f := range []Format{FormatTab, FormatCSV} {
		if f.Matches(path) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidFile, path)
}

func record(address core.Address) []string {
	return []string{
		address.ZipCode(),
		address.Postal(),
		address.MunicipalCode(),
		address.MunicipalityName(),
		string(address.Category()),
	}
}

func parseRecord(fields []string, line int) (core.Address, error) {
	if len(fields) < fieldCount {
		return core.Address{}, fmt.Errorf(
			"%w: line %d has %d fields, expected %d",
			core.ErrImport,
			line,
			len(fields),
			fieldCount,
		)
	}
	address, err := core.ParseAddress(fields[0], fields[1], fields[2], fields[3], fields[4])
	if err != nil {
		return core.Address{}, fmt.Errorf("%w: line %d: %w", core.ErrImport, line, err)
	}
	return address, nil
}
