package tests

import (
	"log"
	"math/rand/v2"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sindreglo/addressregister/core"
)

var Faker = gofakeit.New(rand.Uint64())

// Address creates a random valid address.
func Address() core.Address {
	address, err := core.NewAddress(
		Faker.IntRange(1, 9999),
		Faker.City(),
		Faker.IntRange(1, 9999),
		Faker.State(),
		rune(Faker.Letter()[0]),
	)
	Check(err)
	return address
}

// Addresses creates n distinct random addresses.
func Addresses(n int) []core.Address {
	seen := make(map[core.Address]bool, n)
	addresses := make([]core.Address, 0, n)
	for len(addresses) < n {
		address := Address()
		if seen[address] {
			continue
		}
		seen[address] = true
		addresses = append(addresses, address)
	}
	return addresses
}

// MustAddress creates an address from the specified fields and stops the test binary if they are invalid.
func MustAddress(
	zipCode int,
	postal string,
	municipalCode int,
	municipalityName string,
	category rune,
) core.Address {
	address, err := core.NewAddress(zipCode, postal, municipalCode, municipalityName, category)
	if err != nil {
		log.Fatalf("cannot create test address: %v", err)
	}
	return address
}

func Check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
