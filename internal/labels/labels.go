// Package labels loads the category label table used by the classifier and
// the capture workflow.
package labels

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/foundbox/foundbox/internal/errors"
)

// Table maps a classifier output index to a display name. It is loaded once
// at startup and treated as immutable afterwards.
type Table map[int]string

// defaultTable is used when no label file is present.
func defaultTable() Table {
	return Table{
		0: "Shoes",
		1: "Lunchbox",
		2: "Gloves",
		3: "Helmets",
	}
}

// Load reads a label file with one entry per line in "<index> <name>" form,
// where the name may itself contain spaces. Lines that do not split into
// exactly two parts are skipped. A missing file is not an error; the built-in
// default table is returned instead.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultTable(), nil
		}
		return nil, errors.New(fmt.Errorf("error opening label file: %w", err)).
			Component("labels").
			Category(errors.CategoryLabelLoad).
			Context("path", path).
			Build()
	}
	defer f.Close()

	table := Table{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		index, err := strconv.Atoi(parts[0])
		if err != nil || index < 0 {
			continue
		}
		table[index] = parts[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(fmt.Errorf("error reading label file: %w", err)).
			Component("labels").
			Category(errors.CategoryLabelLoad).
			Context("path", path).
			Build()
	}

	return table, nil
}

// Name returns the display name for an index, or fallback if unknown.
func (t Table) Name(index int, fallback string) string {
	if name, ok := t[index]; ok {
		return name
	}
	return fallback
}

// Names returns all display names ordered by index.
func (t Table) Names() []string {
	indices := make([]int, 0, len(t))
	for i := range t {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	names := make([]string, 0, len(indices))
	for _, i := range indices {
		names = append(names, t[i])
	}
	return names
}

// Contains reports whether name is one of the table's display names.
func (t Table) Contains(name string) bool {
	for _, n := range t {
		if n == name {
			return true
		}
	}
	return false
}
