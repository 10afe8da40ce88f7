// Package register holds the in-memory address register.
//
// A Register is not safe for concurrent use: it is owned by a single caller (the UI event loop)
// for the lifetime of the process.
package register

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sindreglo/addressregister/core"
)

type Register struct {
	entries  []core.Address
	filtered []core.Address
}

func New() *Register {
	return &Register{
		entries:  []core.Address{},
		filtered: []core.Address{},
	}
}

// Add appends an address to the register or returns core.ErrConflict if an equal address is
// already registered.
func (r *Register) Add(address core.Address) error {
	if r.Contains(address) {
		return fmt.Errorf("cannot add address (%v): %w", address, core.ErrConflict)
	}
	r.entries = append(r.entries, address)
	return nil
}

// Remove deletes an address from the register or returns core.ErrNotFound if no equal address
// is registered.
func (r *Register) Remove(address core.Address) error {
	idx := slices.Index(r.entries, address)
	if idx < 0 {
		return fmt.Errorf("cannot remove address (%v): %w", address, core.ErrNotFound)
	}
	r.entries = slices.Delete(r.entries, idx, idx+1)
	return nil
}

// Edit replaces old with updated.
// The new address is added before the old one is removed so a duplicate never loses the original.
func (r *Register) Edit(old, updated core.Address) error {
	if err := r.Add(updated); err != nil {
		return err
	}
	if err := r.Remove(old); err != nil {
		// old was never registered, undo the add
		_ = r.Remove(updated)
		return err
	}
	return nil
}

func (r *Register) Contains(address core.Address) bool {
	return slices.Contains(r.entries, address)
}

// Replace swaps the entire register content for addresses.
// The register is left untouched if addresses contains duplicates.
func (r *Register) Replace(addresses []core.Address) error {
	seen := make(map[core.Address]struct{}, len(addresses))
	for _, address := range addresses {
		if _, ok := seen[address]; ok {
			return fmt.Errorf("cannot replace register, duplicate address (%v): %w", address, core.ErrConflict)
		}
		seen[address] = struct{}{}
	}
	r.entries = slices.Clone(addresses)
	r.filtered = []core.Address{}
	return nil
}

// All returns every registered address in insertion order.
func (r *Register) All() []core.Address {
	return slices.Clone(r.entries)
}

// Filtered returns the result of the most recent search.
func (r *Register) Filtered() []core.Address {
	return slices.Clone(r.filtered)
}

func (r *Register) Len() int {
	return len(r.entries)
}

// Clear removes every address from the register.
func (r *Register) Clear() {
	r.entries = []core.Address{}
	r.filtered = []core.Address{}
}

/**
 * SEARCH
 */

func (r *Register) SearchByZipCode(prefix string) []core.Address {
	return r.search(func(a core.Address) bool {
		return strings.HasPrefix(a.ZipCode(), prefix)
	})
}

func (r *Register) SearchByMunicipalCode(prefix string) []core.Address {
	return r.search(func(a core.Address) bool {
		return strings.HasPrefix(a.MunicipalCode(), prefix)
	})
}

// SearchByPostal is case-insensitive, the prefix is upper-cased to match the stored postal.
func (r *Register) SearchByPostal(prefix string) []core.Address {
	prefix = strings.ToUpper(prefix)
	return r.search(func(a core.Address) bool {
		return strings.HasPrefix(a.Postal(), prefix)
	})
}

// SearchByMunicipalityName is case-insensitive, the prefix is upper-cased to match the stored name.
func (r *Register) SearchByMunicipalityName(prefix string) []core.Address {
	prefix = strings.ToUpper(prefix)
	return r.search(func(a core.Address) bool {
		return strings.HasPrefix(a.MunicipalityName(), prefix)
	})
}

// SearchByCategory matches the category exactly. Callers normalise the case of the query.
func (r *Register) SearchByCategory(category rune) []core.Address {
	return r.search(func(a core.Address) bool {
		return a.Category() == category
	})
}

// Search dispatches to the search operation for the specified field.
func (r *Register) Search(field core.AddressField, query string) ([]core.Address, error) {
	switch field {
	case core.FieldZipCode:
		return r.SearchByZipCode(query), nil
	case core.FieldPostal:
		return r.SearchByPostal(query), nil
	case core.FieldMunicipalCode:
		return r.SearchByMunicipalCode(query), nil
	case core.FieldMunicipalityName:
		return r.SearchByMunicipalityName(query), nil
	case core.FieldCategory:
		var category rune
		for _, c := range query {
			category = c
			break
		}
		return r.SearchByCategory(category), nil
	default:
		return nil, fmt.Errorf("cannot search by unknown field %q", field)
	}
}

func (r *Register) search(match func(core.Address) bool) []core.Address {
	result := []core.Address{}
	for _, address := range r.entries {
		if match(address) {
			result = append(result, address)
		}
	}
	r.filtered = result
	return slices.Clone(result)
}
