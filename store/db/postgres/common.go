package postgres

import (
	"fmt"
	"strings"
)

// placeholder returns a placeholder for PostgreSQL (uses $1, $2, ...)
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n placeholders starting from offset+1
func placeholders(offset, n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(offset+i+1))
	}
	return strings.Join(list, ", ")
}

func joinAnd(where []string) string {
	return strings.Join(where, " AND ")
}
