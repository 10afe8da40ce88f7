package flatfile_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sindreglo/addressregister/core"
	"github.com/sindreglo/addressregister/flatfile"
	"github.com/sindreglo/addressregister/register"
	"github.com/sindreglo/addressregister/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, addresses ...core.Address) (*flatfile.Service, *register.Register) {
	t.Helper()
	r := register.New()
	for _, a := range addresses {
		require.NoError(t, r.Add(a))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return flatfile.NewService(r, logger), r
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestService(t *testing.T) {
	for _, format := range []flatfile.Format{flatfile.FormatTab, flatfile.FormatCSV} {
		t.Run("ok: export then import "+format.String(), func(t *testing.T) {
			addresses := tests.Addresses(20)
			service, _ := newService(t, addresses...)

			path, err := service.Export(format, filepath.Join(t.TempDir(), "AddressRegister"))
			require.NoError(t, err)
			assert.Equal(t, format.Extension(), filepath.Ext(path), "The extension should be appended")

			importService, r := newService(t)
			count, err := importService.Import(format, path, flatfile.AutoPrompter{})
			require.NoError(t, err)
			assert.Equal(t, len(addresses), count)
			assert.ElementsMatch(t, addresses, r.All())
			assert.Equal(t, path, importService.LastImport())
		})
	}

	t.Run("ok: import overwrites after confirmation", func(t *testing.T) {
		service, r := newService(t, tests.Addresses(3)...)
		path := writeFile(t, "a.txt", "0001\tOSLO\t0301\tOSLO\tP\n")

		asked := false
		prompter := flatfile.PrompterFuncs{Overwrite: func() bool {
			asked = true
			return true
		}}
		count, err := service.ImportTab(path, prompter)
		require.NoError(t, err)
		assert.True(t, asked, "Overwriting a non-empty register should be confirmed")
		assert.Equal(t, 1, count)
		assert.Equal(t, []core.Address{tests.MustAddress(1, "OSLO", 301, "OSLO", 'P')}, r.All())
	})

	t.Run("ok: empty register is not confirmed", func(t *testing.T) {
		service, _ := newService(t)
		path := writeFile(t, "a.csv", "0001;OSLO;0301;OSLO;P\n")

		prompter := flatfile.PrompterFuncs{Overwrite: func() bool {
			t.Fatal("An empty register should not ask for confirmation")
			return false
		}}
		_, err := service.ImportCSV(path, prompter)
		require.NoError(t, err)
	})

	t.Run("err: declined overwrite", func(t *testing.T) {
		original := tests.Addresses(3)
		service, r := newService(t, original...)
		path := writeFile(t, "a.txt", "0001\tOSLO\t0301\tOSLO\tP\n")

		_, err := service.ImportTab(path, flatfile.PrompterFuncs{Overwrite: func() bool { return false }})
		assert.ErrorIs(t, err, core.ErrCancelled)
		assert.Equal(t, original, r.All())
	})

	t.Run("err: failed import leaves the register untouched", func(t *testing.T) {
		original := tests.Addresses(3)
		service, r := newService(t, original...)
		path := writeFile(t, "a.csv", "0001;OSLO;0301;OSLO;P\n0002;;0301;OSLO;P\n")

		_, err := service.ImportCSV(path, flatfile.AutoPrompter{})
		assert.ErrorIs(t, err, core.ErrImport)
		assert.Equal(t, original, r.All())
		assert.Empty(t, service.LastImport())
	})

	t.Run("err: missing file", func(t *testing.T) {
		service, _ := newService(t)
		_, err := service.ImportTab(filepath.Join(t.TempDir(), "missing.txt"), flatfile.AutoPrompter{})
		assert.ErrorIs(t, err, core.ErrImport)
	})

	t.Run("ok: wrong extension asks for another file", func(t *testing.T) {
		service, r := newService(t)
		good := writeFile(t, "a.txt", "0001\tOSLO\t0301\tOSLO\tP\n")

		asked := 0
		prompter := flatfile.PrompterFuncs{Another: func(format flatfile.Format) (string, bool) {
			asked++
			assert.Equal(t, flatfile.FormatTab, format)
			if asked == 1 {
				return "still-wrong.csv", true
			}
			return good, true
		}}
		count, err := service.ImportTab("wrong.csv", prompter)
		require.NoError(t, err)
		assert.Equal(t, 2, asked)
		assert.Equal(t, 1, count)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("err: wrong extension and cancel", func(t *testing.T) {
		service, _ := newService(t)
		_, err := service.ImportCSV("addresses.txt", flatfile.AutoPrompter{})
		assert.ErrorIs(t, err, core.ErrCancelled)
		assert.ErrorIs(t, err, core.ErrInvalidFile)
	})

	t.Run("ok: duplicate lines are skipped", func(t *testing.T) {
		service, r := newService(t)
		path := writeFile(t, "a.txt", "0001\tOSLO\t0301\tOSLO\tP\n0001\toslo\t0301\toslo\tP\n")

		count, err := service.ImportTab(path, flatfile.AutoPrompter{})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("err: export to missing directory", func(t *testing.T) {
		service, _ := newService(t, tests.Address())
		_, err := service.ExportCSV(filepath.Join(t.TempDir(), "missing", "AddressRegister.csv"))
		assert.Error(t, err)
	})

	t.Run("err: unencodable address fails the export", func(t *testing.T) {
		service, _ := newService(t, tests.Address(), tests.MustAddress(1, "a\tb", 301, "oslo", 'P'))
		path := filepath.Join(t.TempDir(), "AddressRegister.txt")
		_, err := service.ExportTab(path)
		assert.ErrorIs(t, err, core.ErrExport)
		_, err = os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist, "No file should be created")

		// The same register can still be written as CSV and read back
		written, err := service.ExportCSV(filepath.Join(t.TempDir(), "AddressRegister"))
		require.NoError(t, err)
		_, err = service.ImportCSV(written, flatfile.AutoPrompter{})
		require.NoError(t, err)
	})

	t.Run("ok: export keeps an existing extension", func(t *testing.T) {
		service, _ := newService(t, tests.Address())
		path := filepath.Join(t.TempDir(), "AddressRegister.txt")
		written, err := service.ExportTab(path)
		require.NoError(t, err)
		assert.Equal(t, path, written)
	})
}
