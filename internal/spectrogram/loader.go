package spectrogram

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
)

// ModelRank is the rank of an unbatched model input: time x frequency x channel
const ModelRank = 3

// Load reads an .npy spectrogram and normalizes it to rank 3: a rank 2
// array gets a trailing channel dimension of size 1. Little- and big-endian
// float32 and float64 data in C or Fortran order are accepted.
func Load(path string) (*Array, error) {
	raw, err := ReadNPY(path)
	if err != nil {
		return nil, err
	}

	if raw.Rank() == 2 {
		raw.Shape = shapeWith(raw.Shape, 1)
	}
	if raw.Rank() != ModelRank {
		return nil, errors.Newf("spectrogram has rank %d after normalization, want %d", raw.Rank(), ModelRank).
			Component("spectrogram").
			Category(errors.CategoryValidation).
			Context("shape", raw.String()).
			FileContext(path, 0).
			Build()
	}

	GetLogger().Debug("Spectrogram loaded",
		logger.String("path", path),
		logger.String("shape", raw.String()))

	return raw, nil
}

// ReadNPY reads an .npy file as stored, without reshaping
func ReadNPY(path string) (*Array, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the catalog
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("spectrogram %s", path).
				Component("spectrogram").
				FileContext(path, 0).
				Build()
		}
		return nil, errors.FileError(fmt.Errorf("failed to open spectrogram: %w", err), path, 0).
			Component("spectrogram").
			Build()
	}
	defer func() { _ = f.Close() }()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	parseErr := func(err error) error {
		return errors.New(err).
			Component("spectrogram").
			Category(errors.CategoryFileParsing).
			FileContext(path, size).
			Build()
	}

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, parseErr(fmt.Errorf("invalid npy header: %w", err))
	}

	shape := r.Header.Descr.Shape
	n := shapeLen(shape)

	var data []float32
	switch dtype := r.Header.Descr.Type; dtype {
	case "<f4", ">f4", "|f4":
		data = make([]float32, n)
		if err := r.Read(&data); err != nil {
			return nil, parseErr(fmt.Errorf("failed to read float32 data: %w", err))
		}
	case "<f8", ">f8", "|f8":
		wide := make([]float64, n)
		if err := r.Read(&wide); err != nil {
			return nil, parseErr(fmt.Errorf("failed to read float64 data: %w", err))
		}
		data = make([]float32, n)
		for i, v := range wide {
			data[i] = float32(v)
		}
	default:
		return nil, parseErr(fmt.Errorf("unsupported npy dtype %q, want float32 or float64", dtype))
	}

	if len(data) != n {
		return nil, parseErr(fmt.Errorf("npy holds %d values, shape %s needs %d", len(data), formatShape(shape), n))
	}

	if r.Header.Descr.Fortran {
		data = fortranToC(data, shape)
	}

	return &Array{Shape: shapeWith(shape), Data: data}, nil
}
