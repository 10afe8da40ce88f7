package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

/**
 * DOMAIN
 */

const (
	minCode = 1
	maxCode = 9999
	// Byte-order mark that some editors prepend to the first field of a file
	byteOrderMark = "\uFEFF"
)

type AddressField string

const (
	FieldZipCode          AddressField = "zip code"
	FieldPostal           AddressField = "postal"
	FieldMunicipalCode    AddressField = "municipal code"
	FieldMunicipalityName AddressField = "municipality name"
	FieldCategory         AddressField = "category"
)

// ValidationError describes which field of an address was rejected and why.
// It always matches ErrValidation through errors.Is.
type ValidationError struct {
	Field  AddressField
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field AddressField, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Address is a Norwegian postal address.
// All fields are stored in their canonical form, which makes == structural equality.
type Address struct {
	zipCode          string
	postal           string
	municipalCode    string
	municipalityName string
	category         rune
}

// NewAddress validates and normalises the fields of a new address.
// Codes are zero-padded to four digits, postal and municipality name are upper-cased and the
// category is kept as given.
func NewAddress(
	zipCode int,
	postal string,
	municipalCode int,
	municipalityName string,
	category rune,
) (Address, error) {
	if zipCode < minCode || zipCode > maxCode {
		return Address{}, invalid(FieldZipCode, "zip code must be between 0001-9999")
	}
	if postal == "" {
		return Address{}, invalid(FieldPostal, "address must have a postal")
	}
	if municipalCode < minCode || municipalCode > maxCode {
		return Address{}, invalid(FieldMunicipalCode, "municipal code must be between 0001-9999")
	}
	if municipalityName == "" {
		return Address{}, invalid(FieldMunicipalityName, "address must have a municipality name")
	}
	if !IsCategory(category) {
		return Address{}, invalid(FieldCategory, "category must be a letter")
	}
	return Address{
		zipCode:          formatCode(zipCode),
		postal:           strings.ToUpper(postal),
		municipalCode:    formatCode(municipalCode),
		municipalityName: strings.ToUpper(municipalityName),
		category:         category,
	}, nil
}

// ParseAddress builds an address from raw text fields, e.g. form input or a line in a file.
// Only the first character of the category is used.
func ParseAddress(
	zipCode, postal, municipalCode, municipalityName, category string,
) (Address, error) {
	zip, err := parseCode(zipCode)
	if err != nil {
		return Address{}, errors.Join(
			invalid(FieldZipCode, "zip code must be between 0001-9999"),
			fmt.Errorf("cannot parse zip code %q: %w", zipCode, err),
		)
	}
	municipal, err := parseCode(municipalCode)
	if err != nil {
		return Address{}, errors.Join(
			invalid(FieldMunicipalCode, "municipal code must be between 0001-9999"),
			fmt.Errorf("cannot parse municipal code %q: %w", municipalCode, err),
		)
	}
	var cat rune
	for _, r := range category {
		cat = r
		break
	}
	return NewAddress(zip, postal, municipal, municipalityName, cat)
}

// IsCategory reports whether r is a valid category, i.e. an ASCII letter.
func IsCategory(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func parseCode(code string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(code, byteOrderMark, ""))
}

func formatCode(code int) string {
	return fmt.Sprintf("%04d", code)
}

func (a Address) ZipCode() string {
	return a.zipCode
}

func (a Address) Postal() string {
	return a.postal
}

func (a Address) MunicipalCode() string {
	return a.municipalCode
}

func (a Address) MunicipalityName() string {
	return a.municipalityName
}

func (a Address) Category() rune {
	return a.category
}

// IsZero reports whether a is the zero value, which is never a valid address.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) String() string {
	return fmt.Sprintf(
		"zip code: %s, postal: %s, municipal code: %s, municipality name: %s, category: %c",
		a.zipCode,
		a.postal,
		a.municipalCode,
		a.municipalityName,
		a.category,
	)
}
