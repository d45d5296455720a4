package sqlkv

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between the SQL engines backing the store
type Dialect struct {
	// Name selects the migration set and the migrate database driver
	Name string
	// DriverName is the database/sql driver the connection is opened with
	DriverName string
	// Numbered reports whether bind parameters are written $1, $2... instead of ?
	Numbered bool
}

var (
	SQLite   = Dialect{Name: "sqlite", DriverName: "sqlite"}
	Postgres = Dialect{Name: "postgres", DriverName: "postgres", Numbered: true}
)

// Rebind rewrites ? placeholders for dialects with numbered parameters
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
