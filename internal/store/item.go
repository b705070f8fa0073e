package store

import (
	"strconv"
	"time"

	"github.com/foundbox/foundbox/internal/conf"
)

// Item is one found-item record. Records are immutable once saved; the only
// mutations the store supports are append and delete.
type Item struct {
	ID         int       // unique within the store
	Category   string    // confirmed category, drawn from the label table
	FoundDate  time.Time // calendar date the item was logged
	ExpiryDate time.Time // FoundDate + retention period
	Note       string    // free-text note from the operator
	ImagePath  string    // optional path to the saved photo
}

// NewItem builds an item for the given found date. The ID is assigned by the
// store on append. The expiry date is always derived from the found date so
// the retention invariant holds by construction.
func NewItem(category, note, imagePath string, foundDate time.Time) Item {
	found := truncateToDate(foundDate)
	return Item{
		Category:   category,
		FoundDate:  found,
		ExpiryDate: found.AddDate(0, 0, conf.RetentionDays),
		Note:       note,
		ImagePath:  imagePath,
	}
}

// Expired reports whether the item's expiry date is on or before today,
// meaning it is eligible for disposal or donation.
func (it *Item) Expired(today time.Time) bool {
	return !it.ExpiryDate.After(truncateToDate(today))
}

// fields renders every column of the record as text, in file order. Search
// matches against these strings.
func (it *Item) fields() []string {
	return []string{
		strconv.Itoa(it.ID),
		it.Category,
		it.FoundDate.Format(conf.DateLayout),
		it.ExpiryDate.Format(conf.DateLayout),
		it.Note,
		it.ImagePath,
	}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
