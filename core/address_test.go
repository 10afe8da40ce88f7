package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sindreglo/addressregister/core"
	"github.com/sindreglo/addressregister/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzParseAddress(f *testing.F) {
	for _, seed := range []string{"", "0", "1", "9999", "10000", "-1", "\uFEFF12", "abc", "0001"} {
		f.Add(seed, "oslo", seed, "oslo", "p")
	}
	f.Fuzz(func(t *testing.T, zip, postal, municipal, name, category string) {
		address, err := core.ParseAddress(zip, postal, municipal, name, category)
		// We're not looking for valid addresses here but rather for unexpected errors leading to a panic
		if err != nil {
			assert.ErrorIs(t, err, core.ErrValidation, "Every parse error should be a validation error")
			assert.True(t, address.IsZero(), "If there is an error, the address should be empty")
			return
		}
		assert.Len(t, address.ZipCode(), 4)
		assert.Len(t, address.MunicipalCode(), 4)
	})
}

func TestAddress(t *testing.T) {
	t.Run("ok: codes are zero-padded", func(t *testing.T) {
		for code, expected := range map[int]string{1: "0001", 42: "0042", 301: "0301", 9999: "9999"} {
			address, err := core.NewAddress(code, "Oslo", code, "Oslo", 'P')
			require.NoError(t, err)
			assert.Equal(t, expected, address.ZipCode())
			assert.Equal(t, expected, address.MunicipalCode())
		}
	})

	t.Run("ok: any code in range renders as four digits", func(t *testing.T) {
		code := tests.Faker.IntRange(1, 9999)
		address, err := core.NewAddress(code, "Oslo", code, "Oslo", 'P')
		require.NoError(t, err)
		assert.Len(t, address.ZipCode(), 4)
		assert.Len(t, address.MunicipalCode(), 4)
	})

	t.Run("err: codes out of range", func(t *testing.T) {
		for _, code := range []int{0, 10000, -1} {
			_, err := core.NewAddress(code, "Oslo", 301, "Oslo", 'P')
			assert.ErrorIs(t, err, core.ErrValidation, "zip code %d should not be valid", code)
			assertField(t, err, core.FieldZipCode)

			_, err = core.NewAddress(301, "Oslo", code, "Oslo", 'P')
			assert.ErrorIs(t, err, core.ErrValidation, "municipal code %d should not be valid", code)
			assertField(t, err, core.FieldMunicipalCode)
		}
	})

	t.Run("ok: names are stored upper-cased", func(t *testing.T) {
		postal := strings.ToLower(tests.Faker.City())
		name := strings.ToLower(tests.Faker.State())
		address, err := core.NewAddress(1, postal, 301, name, 'G')
		require.NoError(t, err)
		assert.Equal(t, strings.ToUpper(postal), address.Postal())
		assert.Equal(t, strings.ToUpper(name), address.MunicipalityName())
	})

	t.Run("ok: whitespace names are not trimmed", func(t *testing.T) {
		address, err := core.NewAddress(1, " ", 301, "  oslo ", 'G')
		require.NoError(t, err)
		assert.Equal(t, " ", address.Postal())
		assert.Equal(t, "  OSLO ", address.MunicipalityName())
	})

	t.Run("err: empty names", func(t *testing.T) {
		_, err := core.NewAddress(1, "", 301, "Oslo", 'G')
		assertField(t, err, core.FieldPostal)

		_, err = core.NewAddress(1, "Oslo", 301, "", 'G')
		assertField(t, err, core.FieldMunicipalityName)
	})

	t.Run("ok: category case is preserved", func(t *testing.T) {
		for _, category := range []rune{'a', 'p', 'Z', 'G'} {
			address, err := core.NewAddress(1, "Oslo", 301, "Oslo", category)
			require.NoError(t, err)
			assert.Equal(t, category, address.Category())
		}
	})

	t.Run("err: category must be a letter", func(t *testing.T) {
		for _, category := range []rune{0, '1', '@', '[', '`', '{', 'Ø', 'é'} {
			_, err := core.NewAddress(1, "Oslo", 301, "Oslo", category)
			assert.ErrorIs(t, err, core.ErrValidation, "%q should not be a valid category", category)
			assertField(t, err, core.FieldCategory)
		}
	})

	t.Run("err: the first invalid field is reported", func(t *testing.T) {
		_, err := core.NewAddress(0, "", 0, "", '1')
		assertField(t, err, core.FieldZipCode)

		_, err = core.NewAddress(1, "", 0, "", '1')
		assertField(t, err, core.FieldPostal)

		_, err = core.NewAddress(1, "Oslo", 0, "", '1')
		assertField(t, err, core.FieldMunicipalCode)

		_, err = core.NewAddress(1, "Oslo", 1, "", '1')
		assertField(t, err, core.FieldMunicipalityName)
	})

	t.Run("ok: equal fields give equal addresses", func(t *testing.T) {
		address1, err := core.NewAddress(1, "oslo", 301, "oslo", 'P')
		require.NoError(t, err)
		address2, err := core.NewAddress(1, "OSLO", 301, "Oslo", 'P')
		require.NoError(t, err)
		assert.Equal(t, address1, address2)
		assert.True(t, address1 == address2)

		address3, err := core.NewAddress(1, "OSLO", 301, "OSLO", 'p')
		require.NoError(t, err)
		assert.NotEqual(t, address1, address3, "Category case should be part of the identity")
	})
}

func TestParseAddress(t *testing.T) {
	t.Run("ok: text fields", func(t *testing.T) {
		address, err := core.ParseAddress("1", "oslo", "0301", "oslo", "Post")
		require.NoError(t, err)
		assert.Equal(t, tests.MustAddress(1, "OSLO", 301, "OSLO", 'P'), address)
	})

	t.Run("ok: byte-order mark is stripped from codes", func(t *testing.T) {
		address, err := core.ParseAddress("\uFEFF0001", "oslo", "\uFEFF0301", "oslo", "G")
		require.NoError(t, err)
		assert.Equal(t, "0001", address.ZipCode())
		assert.Equal(t, "0301", address.MunicipalCode())
	})

	t.Run("err: non-numeric codes", func(t *testing.T) {
		_, err := core.ParseAddress("abc", "oslo", "0301", "oslo", "G")
		assertField(t, err, core.FieldZipCode)

		_, err = core.ParseAddress("0001", "oslo", "", "oslo", "G")
		assertField(t, err, core.FieldMunicipalCode)
	})

	t.Run("err: empty category", func(t *testing.T) {
		_, err := core.ParseAddress("0001", "oslo", "0301", "oslo", "")
		assertField(t, err, core.FieldCategory)
	})
}

func assertField(t *testing.T, err error, field core.AddressField) {
	t.Helper()
	var validationErr *core.ValidationError
	if assert.True(t, errors.As(err, &validationErr), "%v should be a validation error", err) {
		assert.Equal(t, field, validationErr.Field)
	}
}
