package gen

import (
	"fmt"
	"strconv"
)

// Storage describes a database/sql backend the adapter can be rendered for.
type Storage struct {
	Name      string             // storage name.
	Aliases   []string           // accepted alternative names.
	IdentName string             // identifier name (types and funcs).
	Driver    string             // database/sql driver name.
	Bind      func(i int) string // placeholder of the i-th (1-based) argument.
}

// drivers holds the supported storage drivers.
var drivers = []*Storage{
	{
		Name:      "postgres",
		Aliases:   []string{"postgresql", "pg"},
		IdentName: "Postgres",
		Driver:    "postgres",
		Bind:      func(i int) string { return "$" + strconv.Itoa(i) },
	},
	{
		Name:      "sqlite",
		Aliases:   []string{"sqlite3"},
		IdentName: "SQLite",
		Driver:    "sqlite",
		Bind:      func(int) string { return "?" },
	},
}

// NewStorage returns the storage driver type from the given string.
// It fails if the provided string is not a valid option.
func NewStorage(s string) (*Storage, error) {
	for _, d := range drivers {
		if s == d.Name {
			return d, nil
		}
		for _, a := range d.Aliases {
			if s == a {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("invalid storage driver %q", s)
}

// String implements the fmt.Stringer interface.
func (s *Storage) String() string { return s.Name }

// AdapterName returns the name of the generated adapter type.
func (s *Storage) AdapterName() string { return s.IdentName + "Adapter" }
