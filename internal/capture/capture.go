// Package capture implements the upload, classify, confirm and save workflow
// for new found items.
package capture

import (
	"fmt"
	"image"
	_ "image/gif" // register decoders for uploaded photos
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/foundbox/foundbox/internal/classifier"
	"github.com/foundbox/foundbox/internal/errors"
	"github.com/foundbox/foundbox/internal/labels"
	"github.com/foundbox/foundbox/internal/store"
)

// State is the workflow position. A workflow cycles AwaitingUpload →
// Classified → back to AwaitingUpload on save; there is no undo.
type State int

const (
	StateAwaitingUpload State = iota
	StateClassified
)

// Predictor is the slice of the classifier the workflow needs. A nil
// Predictor means classification is unavailable; the workflow stays usable
// and simply offers no suggestion.
type Predictor interface {
	Classify(img image.Image) (classifier.Prediction, error)
}

// Workflow drives one capture session from upload to saved record.
type Workflow struct {
	table     labels.Table
	predictor Predictor
	records   *store.Store
	imageDir  string
	today     time.Time
	now       func() time.Time

	state      State
	img        image.Image
	suggestion string
	confidence float32
	suggested  bool
}

// New creates a workflow. predictor may be nil when the model could not be
// loaded. today is the application's fixed current date.
func New(table labels.Table, predictor Predictor, records *store.Store, imageDir string, today time.Time) *Workflow {
	return &Workflow{
		table:     table,
		predictor: predictor,
		records:   records,
		imageDir:  imageDir,
		today:     today,
		now:       time.Now,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	return w.state
}

// Begin decodes an uploaded photo and, when a predictor is available, runs a
// single classification over it. The workflow moves to StateClassified either
// way so the operator can pick a category by hand.
func (w *Workflow) Begin(r io.Reader) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return errors.New(fmt.Errorf("cannot decode uploaded image: %w", err)).
			Component("capture").
			Category(errors.CategoryImageDecode).
			Build()
	}

	w.img = img
	w.suggested = false
	w.suggestion = ""
	w.confidence = 0

	if w.predictor != nil {
		pred, err := w.predictor.Classify(img)
		if err != nil {
			return err
		}
		w.suggestion = w.table.Name(pred.Index, "Unknown")
		w.confidence = pred.Confidence
		w.suggested = true
	}

	w.state = StateClassified
	return nil
}

// Suggestion returns the classifier's suggested category and confidence.
// ok is false when no classification ran for the current upload.
func (w *Workflow) Suggestion() (category string, confidence float32, ok bool) {
	return w.suggestion, w.confidence, w.suggested
}

// Categories returns the closed set of categories the operator may pick from.
func (w *Workflow) Categories() []string {
	return w.table.Names()
}

// Confirm finalizes the current upload: the photo is optionally written under
// the image directory, the record is appended to the store, and the workflow
// resets for the next item.
func (w *Workflow) Confirm(category, note string, saveImage bool) (store.Item, error) {
	if w.state != StateClassified || w.img == nil {
		return store.Item{}, errors.Newf("no upload in progress").
			Component("capture").
			Category(errors.CategoryState).
			Build()
	}
	if !w.table.Contains(category) {
		return store.Item{}, errors.Newf("unknown category: %q", category).
			Component("capture").
			Category(errors.CategoryValidation).
			Context("category", category).
			Build()
	}

	imagePath := ""
	if saveImage {
		path, err := w.saveImage()
		if err != nil {
			return store.Item{}, err
		}
		imagePath = path
	}

	item, err := w.records.Append(store.NewItem(category, note, imagePath, w.today))
	if err != nil {
		return store.Item{}, err
	}

	w.reset()
	return item, nil
}

// saveImage writes the decoded photo as JPEG under a timestamp-derived
// filename. Two saves within the same second would collide; for a desk with
// one operator that is accepted.
func (w *Workflow) saveImage() (string, error) {
	if err := os.MkdirAll(w.imageDir, 0o755); err != nil {
		return "", errors.New(fmt.Errorf("cannot create image directory: %w", err)).
			Component("capture").
			Category(errors.CategoryFileIO).
			Context("dir", w.imageDir).
			Build()
	}

	filename := w.now().Format("20060102_150405") + ".jpg"
	path := filepath.Join(w.imageDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.New(fmt.Errorf("cannot create image file: %w", err)).
			Component("capture").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	if err := jpeg.Encode(f, w.img, &jpeg.Options{Quality: 90}); err != nil {
		return "", errors.New(fmt.Errorf("cannot encode image: %w", err)).
			Component("capture").
			Category(errors.CategoryImageProcess).
			Context("path", path).
			Build()
	}
	return path, nil
}

func (w *Workflow) reset() {
	w.state = StateAwaitingUpload
	w.img = nil
	w.suggestion = ""
	w.confidence = 0
	w.suggested = false
}
