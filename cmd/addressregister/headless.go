package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sindreglo/addressregister/bootstrap"
	"github.com/sindreglo/addressregister/core"
	"github.com/sindreglo/addressregister/flatfile"
)

var headlessFields = map[string]core.AddressField{
	"zip":          core.FieldZipCode,
	"postal":       core.FieldPostal,
	"municipal":    core.FieldMunicipalCode,
	"municipality": core.FieldMunicipalityName,
	"category":     core.FieldCategory,
}

// HeadlessMode imports, searches and exports without the interface.
// Every step is optional, the resulting addresses are always printed to w.
func HeadlessMode(w io.Writer, app *bootstrap.App, importPath, search, exportPath string) error {
	info := color.New(color.FgHiBlack)
	success := color.New(color.FgGreen)

	if len(importPath) > 0 {
		path := app.Path(importPath)
		format, err := flatfile.FormatFromPath(path)
		if err != nil {
			return err
		}
		count, err := app.Files.Import(format, path, flatfile.AutoPrompter{})
		if err != nil {
			return err
		}
		success.Fprintf(w, "Import successful, %d addresses loaded from %s\n", count, path)
	}

	addresses := app.Register.All()
	if len(search) > 0 {
		name, query, ok := strings.Cut(search, "=")
		field, known := headlessFields[strings.ToLower(name)]
		if !ok || !known {
			return fmt.Errorf("invalid search %q, expected field=prefix", search)
		}
		if field == core.FieldCategory {
			query = strings.ToUpper(query)
		}
		result, err := app.Register.Search(field, query)
		if err != nil {
			return err
		}
		info.Fprintf(w, "Search on %s %q found %d addresses\n", field, query, len(result))
		addresses = result
	}

	printAddresses(w, addresses)

	if len(exportPath) > 0 {
		path := app.Path(exportPath)
		format, err := flatfile.FormatFromPath(path)
		if err != nil {
			return err
		}
		path, err = app.Files.Export(format, path)
		if err != nil {
			return err
		}
		success.Fprintf(w, "Export successful, register written to %s\n", path)
	}
	return nil
}

func printAddresses(w io.Writer, addresses []core.Address) {
	header := color.New(color.Bold, color.FgBlue)
	header.Fprintf(w, "%-10s %-24s %-16s %-24s %s\n", "Zip code", "Postal", "Municipal code", "Municipality name", "Category")
	for _, a := range addresses {
		fmt.Fprintf(
			w,
			"%-10s %-24s %-16s %-24s %c\n",
			a.ZipCode(),
			a.Postal(),
			a.MunicipalCode(),
			a.MunicipalityName(),
			a.Category(),
		)
	}
}
