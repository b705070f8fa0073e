// Package store persists found-item records in a delimited text file.
//
// Every mutation rewrites the whole backing file and flushes before
// returning. That is a known scalability ceiling, acceptable for the
// single-operator desk this application serves; concurrent writers from
// separate processes are not protected against.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/foundbox/foundbox/internal/conf"
	"github.com/foundbox/foundbox/internal/errors"
)

// header is the backing file's first row.
var header = []string{"ID", "Category", "FoundDate", "ExpiryDate", "Note", "ImagePath"}

// ErrNotFound is returned when a record id does not exist in the store.
var ErrNotFound = errors.Newf("record not found").
	Component("store").
	Category(errors.CategoryNotFound).
	Build()

// Store reads and writes found-item records in a CSV file. Operations are
// serialized with a process-local mutex; a single concurrent writer is
// assumed.
type Store struct {
	csvPath string
	mu      sync.Mutex
}

// New returns a store backed by the CSV file at csvPath. The file does not
// need to exist yet.
func New(csvPath string) *Store {
	return &Store{csvPath: csvPath}
}

// LoadAll returns every record in insertion order. A missing backing file is
// an empty store, not an error. A present but malformed file is a hard error;
// this store favors simplicity over defensive recovery.
func (s *Store) LoadAll() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Append assigns the next free id to item, adds it to the store and rewrites
// the backing file. The write is flushed before Append returns.
func (s *Store) Append(item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadLocked()
	if err != nil {
		return Item{}, err
	}

	item.ID = nextID(items)
	items = append(items, item)

	if err := s.writeLocked(items); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Delete removes the record with the given id and rewrites the backing file.
// If the record references a saved photo the file is removed too, best
// effort; a photo that is already gone is not an error.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadLocked()
	if err != nil {
		return err
	}

	kept := make([]Item, 0, len(items))
	var removed *Item
	for i := range items {
		if items[i].ID == id {
			found := items[i]
			removed = &found
			continue
		}
		kept = append(kept, items[i])
	}
	if removed == nil {
		return ErrNotFound
	}

	if removed.ImagePath != "" {
		_ = os.Remove(removed.ImagePath)
	}

	return s.writeLocked(kept)
}

// Search returns the records whose text rendering contains query in any
// field, case-insensitive, in insertion order. An empty query matches every
// record; callers that want "empty query shows nothing" handle that above
// this layer.
func (s *Store) Search(query string) ([]Item, error) {
	items, err := s.LoadAll()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := make([]Item, 0, len(items))
	for i := range items {
		for _, field := range items[i].fields() {
			if strings.Contains(strings.ToLower(field), q) {
				matches = append(matches, items[i])
				break
			}
		}
	}
	return matches, nil
}

// nextID returns max(existing ids)+1, starting at 1 for an empty store. Ids
// stay unique even after deletions, unlike a plain row count.
func nextID(items []Item) int {
	next := 1
	for i := range items {
		if items[i].ID >= next {
			next = items[i].ID + 1
		}
	}
	return next
}

func (s *Store) loadLocked() ([]Item, error) {
	f, err := os.Open(s.csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Item{}, nil
		}
		return nil, errors.New(fmt.Errorf("error opening store file: %w", err)).
			Component("store").
			Category(errors.CategoryFileIO).
			Context("path", s.csvPath).
			Build()
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // older files may lack the ImagePath column

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New(fmt.Errorf("error parsing store file: %w", err)).
			Component("store").
			Category(errors.CategoryFileParsing).
			Context("path", s.csvPath).
			Build()
	}
	if len(rows) == 0 {
		return []Item{}, nil
	}

	items := make([]Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		item, err := parseRow(row)
		if err != nil {
			return nil, errors.New(fmt.Errorf("error parsing store row: %w", err)).
				Component("store").
				Category(errors.CategoryFileParsing).
				Context("path", s.csvPath).
				Context("row", strings.Join(row, ",")).
				Build()
		}
		items = append(items, item)
	}
	return items, nil
}

func parseRow(row []string) (Item, error) {
	if len(row) < 5 {
		return Item{}, fmt.Errorf("expected at least 5 columns, got %d", len(row))
	}

	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Item{}, fmt.Errorf("invalid id %q: %w", row[0], err)
	}
	foundDate, err := time.Parse(conf.DateLayout, row[2])
	if err != nil {
		return Item{}, fmt.Errorf("invalid found date %q: %w", row[2], err)
	}
	expiryDate, err := time.Parse(conf.DateLayout, row[3])
	if err != nil {
		return Item{}, fmt.Errorf("invalid expiry date %q: %w", row[3], err)
	}

	item := Item{
		ID:         id,
		Category:   row[1],
		FoundDate:  foundDate,
		ExpiryDate: expiryDate,
		Note:       row[4],
	}
	if len(row) > 5 {
		item.ImagePath = row[5]
	}
	return item, nil
}

// writeLocked serializes all items to the backing file and flushes the
// result to disk before returning.
func (s *Store) writeLocked(items []Item) error {
	f, err := os.Create(s.csvPath)
	if err != nil {
		return errors.New(fmt.Errorf("error creating store file: %w", err)).
			Component("store").
			Category(errors.CategoryFileIO).
			Context("path", s.csvPath).
			Build()
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return writeError(err, s.csvPath)
	}
	for i := range items {
		if err := writer.Write(items[i].fields()); err != nil {
			return writeError(err, s.csvPath)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return writeError(err, s.csvPath)
	}
	return f.Sync()
}

func writeError(err error, path string) error {
	return errors.New(fmt.Errorf("error writing store file: %w", err)).
		Component("store").
		Category(errors.CategoryFileIO).
		Context("path", path).
		Build()
}
