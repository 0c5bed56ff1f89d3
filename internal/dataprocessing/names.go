package dataprocessing

import (
	"regexp"
	"strings"
)

var separatorRe = regexp.MustCompile(`[^a-z0-9]+`)

// StandardizeName turns a metric label into a column name: lowercase, every
// run of characters outside [a-z0-9] collapsed to one underscore, no leading
// or trailing underscore. StandardizeName(StandardizeName(s)) == StandardizeName(s).
func StandardizeName(label string) string {
	s := separatorRe.ReplaceAllString(strings.ToLower(label), "_")
	return strings.Trim(s, "_")
}

// aliasTable renames source labels before standardization.
type aliasTable map[string]string

func newAliasTable(aliases map[string]string) aliasTable {
	table := make(aliasTable, len(aliases))
	for from, to := range aliases {
		table[aliasKey(from)] = to
	}
	return table
}

func aliasKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// resolve returns the alias target for label, or label itself.
func (a aliasTable) resolve(label string) string {
	if to, ok := a[aliasKey(label)]; ok {
		return to
	}
	return label
}
