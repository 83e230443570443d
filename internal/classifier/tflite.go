package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/tphakala/go-tflite"
	"github.com/tphakala/go-tflite/delegates/xnnpack"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
	"github.com/tphakala/urbansound-go/internal/spectrogram"
)

// ModelConfig configures LoadTFLiteModel
type ModelConfig struct {
	Path       string
	Threads    int // 0 derives the count from the CPU
	UseXNNPACK bool
}

// TFLiteModel runs a TensorFlow Lite model. The interpreter is not
// reentrant, Predict serializes callers.
type TFLiteModel struct {
	mu          sync.Mutex
	name        string
	path        string
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	xnnpack     bool
	interpreter *tflite.Interpreter
	inputShape  []int
	inputLen    int
	outputLen   int
	threads     int
}

// LoadTFLiteModel loads and allocates the model at cfg.Path. Every failure
// is fatal for startup.
func LoadTFLiteModel(cfg ModelConfig) (*TFLiteModel, error) {
	start := time.Now()
	name := modelName(cfg.Path)

	modelData, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to read model file: %w", err)).
			Component("classifier").
			Category(errors.CategoryModelLoad).
			Fatal().
			ModelContext(cfg.Path, name).
			Timing("model-load", time.Since(start)).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, errors.New(fmt.Errorf("cannot load TensorFlow Lite model")).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Fatal().
			ModelContext(cfg.Path, name).
			Context("model_size_mb", len(modelData)/1024/1024).
			Timing("model-init", time.Since(start)).
			Build()
	}

	m := &TFLiteModel{
		name:    name,
		path:    cfg.Path,
		model:   model,
		threads: determineThreadCount(cfg.Threads),
	}

	log := GetLogger()
	m.options = tflite.NewInterpreterOptions()
	if cfg.UseXNNPACK {
		delegate := xnnpack.New(xnnpack.DelegateOptions{NumThreads: int32(max(1, m.threads-1))}) //nolint:gosec // G115: thread count bounded by CPU count
		if delegate == nil {
			log.Warn("Failed to create XNNPACK delegate, falling back to default CPU")
			m.options.SetNumThread(m.threads)
		} else {
			m.xnnpack = true
			m.options.AddDelegate(delegate)
			m.options.SetNumThread(1)
		}
	} else {
		m.options.SetNumThread(m.threads)
	}
	m.options.SetErrorReporter(func(msg string, _ any) {
		GetLogger().Error("TFLite error", logger.String("message", msg))
	}, nil)

	m.interpreter = tflite.NewInterpreter(model, m.options)
	if m.interpreter == nil {
		m.release()
		return nil, m.initError("cannot create interpreter", start)
	}
	if status := m.interpreter.AllocateTensors(); status != tflite.OK {
		m.release()
		return nil, m.initError("tensor allocation failed", start)
	}

	if err := m.readTensorShapes(); err != nil {
		m.release()
		return nil, err
	}

	// The interpreter holds its own copy of the model bytes
	runtime.GC()

	log.Info("Classifier model initialized",
		logger.String("model", name),
		logger.String("input_shape", fmt.Sprint(m.inputShape)),
		logger.Int("classes", m.outputLen),
		logger.Int("threads", m.threads),
		logger.String("cpu", cpuBrand()),
		logger.Bool("xnnpack", m.xnnpack),
		logger.Duration("elapsed", time.Since(start)))

	return m, nil
}

func (m *TFLiteModel) readTensorShapes() error {
	input := m.interpreter.GetInputTensor(0)
	if input == nil {
		return m.initError("cannot get input tensor", time.Time{})
	}
	if err := checkInputType(input.Type()); err != nil {
		return m.initError(err.Error(), time.Time{})
	}

	m.inputShape = make([]int, input.NumDims())
	m.inputLen = 1
	for i := range m.inputShape {
		m.inputShape[i] = input.Dim(i)
		m.inputLen *= m.inputShape[i]
	}

	output := m.interpreter.GetOutputTensor(0)
	if output == nil {
		return m.initError("cannot get output tensor", time.Time{})
	}
	m.outputLen = output.Dim(output.NumDims() - 1)
	return nil
}

// checkInputType accepts float32 inputs only, quantized models are not supported
func checkInputType(typ tflite.TensorType) error {
	if typ != tflite.Float32 {
		return fmt.Errorf("unsupported input tensor type %v, want float32", typ)
	}
	return nil
}

func (m *TFLiteModel) initError(msg string, start time.Time) error {
	b := errors.Newf("%s", msg).
		Component("classifier").
		Category(errors.CategoryModelInit).
		Fatal().
		ModelContext(m.path, m.name)
	if !start.IsZero() {
		b = b.Timing("model-init", time.Since(start))
	}
	return b.Build()
}

// Predict copies input into the input tensor, invokes the interpreter and
// returns a copy of the last output dimension.
func (m *TFLiteModel) Predict(input *spectrogram.Array) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.interpreter == nil {
		return nil, errors.Newf("model %s is closed", m.name).
			Component("classifier").
			Category(errors.CategoryState).
			Build()
	}

	if len(input.Data) != m.inputLen {
		return nil, errors.Newf("input %s holds %d values, model input %v needs %d",
			input.String(), len(input.Data), m.inputShape, m.inputLen).
			Component("classifier").
			Category(errors.CategoryValidation).
			Context("input_shape", input.String()).
			Context("model_input_shape", fmt.Sprint(m.inputShape)).
			Build()
	}

	inputTensor := m.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return nil, fmt.Errorf("cannot get input tensor")
	}
	copy(inputTensor.Float32s(), input.Data)

	if status := m.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.Newf("tensor invoke failed: %v", status).
			Component("classifier").
			Category(errors.CategoryProcessing).
			ModelContext(m.path, m.name).
			Build()
	}

	outputTensor := m.interpreter.GetOutputTensor(0)
	return extractPredictions(outputTensor), nil
}

// extractPredictions copies the last dimension of the output tensor
func extractPredictions(tensor *tflite.Tensor) []float32 {
	predSize := tensor.Dim(tensor.NumDims() - 1)
	predictions := make([]float32, predSize)
	copy(predictions, tensor.Float32s())
	return predictions
}

// Name returns the model name derived from its file name
func (m *TFLiteModel) Name() string {
	return m.name
}

// InputShape returns the model input shape, batch dimension included
func (m *TFLiteModel) InputShape() []int {
	return append([]int(nil), m.inputShape...)
}

// Close releases the interpreter. Close is idempotent.
func (m *TFLiteModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
	return nil
}

func (m *TFLiteModel) release() {
	if m.interpreter != nil {
		m.interpreter.Delete()
		m.interpreter = nil
	}
	if m.options != nil {
		m.options.Delete()
		m.options = nil
	}
	if m.model != nil {
		m.model.Delete()
		m.model = nil
	}
}

// modelName strips directory and extension: "models/crnn_urbansound8k.tflite" -> "crnn_urbansound8k"
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var _ Model = (*TFLiteModel)(nil)
