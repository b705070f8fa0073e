// Package classifier wraps the pre-trained TensorFlow Lite image model used
// to suggest a category for uploaded item photos.
package classifier

import (
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"

	tflite "github.com/tphakala/go-tflite"

	"github.com/foundbox/foundbox/internal/errors"
	"github.com/foundbox/foundbox/internal/logging"
)

// InputSize is the square resolution the model expects.
const InputSize = 224

// Prediction is the result of a single forward pass.
type Prediction struct {
	Index      int     // position of the maximum output score
	Confidence float32 // that score, as produced by the model
}

// Classifier holds the TensorFlow Lite interpreter for the item model.
// A nil *Classifier means classification is unavailable; callers are expected
// to degrade gracefully and keep the rest of the workflow usable.
type Classifier struct {
	interpreter *tflite.Interpreter
	numClasses  int
	mu          sync.Mutex
}

// New loads the model artifact from modelPath and prepares an interpreter.
// Any failure is returned as an error with a nil classifier; a missing model
// disables classification for the process lifetime but is not fatal.
func New(modelPath string) (*Classifier, error) {
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, errors.New(fmt.Errorf("cannot read model file: %w", err)).
			Component("classifier").
			Category(errors.CategoryModelLoad).
			Context("model_path", modelPath).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, errors.Newf("cannot load TensorFlow Lite model from %s", modelPath).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("model_size_bytes", len(modelData)).
			Build()
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(max(1, runtime.NumCPU()/2))
	options.SetErrorReporter(func(msg string, userData any) {
		logging.ForService("classifier").Error("TFLite error", "message", msg)
	}, nil)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		return nil, errors.Newf("cannot create TFLite interpreter").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		return nil, errors.Newf("tensor allocation failed: %v", status).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}

	output := interpreter.GetOutputTensor(0)
	if output == nil {
		return nil, errors.Newf("model has no output tensor").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	numClasses := output.Dim(output.NumDims() - 1)

	// The model data has been copied into the interpreter; let the original
	// buffer be reclaimed.
	runtime.GC()

	logging.ForService("classifier").Info("model initialized",
		"path", modelPath,
		"classes", numClasses)

	return &Classifier{
		interpreter: interpreter,
		numClasses:  numClasses,
	}, nil
}

// Classify runs one forward pass over img and returns the top class index and
// its score. The model output is assumed to be a probability-like
// distribution already; it is not re-normalized.
func (c *Classifier) Classify(img image.Image) (Prediction, error) {
	input := PrepareInput(img)

	c.mu.Lock()
	defer c.mu.Unlock()

	inputTensor := c.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return Prediction{}, errors.Newf("cannot get input tensor").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	copy(inputTensor.Float32s(), input)

	if status := c.interpreter.Invoke(); status != tflite.OK {
		return Prediction{}, errors.Newf("tensor invoke failed: %v", status).
			Component("classifier").
			Category(errors.CategoryImageProcess).
			Build()
	}

	outputTensor := c.interpreter.GetOutputTensor(0)
	scores := extractScores(outputTensor)

	index, confidence := Argmax(scores)
	return Prediction{Index: index, Confidence: confidence}, nil
}

// NumClasses returns the length of the model's output vector.
func (c *Classifier) NumClasses() int {
	return c.numClasses
}

// Argmax returns the position of the maximum value in scores and that value.
// An empty slice yields (-1, 0).
func Argmax(scores []float32) (int, float32) {
	if len(scores) == 0 {
		return -1, 0
	}
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best, scores[best]
}

// extractScores copies the output tensor into a fresh slice.
func extractScores(tensor *tflite.Tensor) []float32 {
	size := tensor.Dim(tensor.NumDims() - 1)
	scores := make([]float32, size)
	copy(scores, tensor.Float32s())
	return scores
}
