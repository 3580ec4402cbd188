// Package dataset holds labelled training examples for a network and reads
// and writes them as CSV.
//
// Each CSV row is one record: the input values followed by the target output
// values, e.g. for 3 inputs and 2 outputs:
//
//	0.25,0.5,0.75,1,0
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrShape is wrapped by errors about vectors of the wrong length.
var ErrShape = errors.New("record does not match dataset shape")

// Record is one training example.
type Record struct {
	Inputs  []float64
	Outputs []float64
}

// Dataset is an ordered list of records sharing the same shape.
type Dataset struct {
	InputCount  int
	OutputCount int
	Records     []Record
}

// New returns an empty dataset for the given shape.
func New(inputCount, outputCount int) *Dataset {
	return &Dataset{InputCount: inputCount, OutputCount: outputCount}
}

// Add appends a copy of inputs and outputs.
func (d *Dataset) Add(inputs, outputs []float64) error {
	if len(inputs) != d.InputCount {
		return errors.Wrapf(ErrShape, "got %d inputs, want %d", len(inputs), d.InputCount)
	}
	if len(outputs) != d.OutputCount {
		return errors.Wrapf(ErrShape, "got %d outputs, want %d", len(outputs), d.OutputCount)
	}
	d.Records = append(d.Records, Record{
		Inputs:  append([]float64(nil), inputs...),
		Outputs: append([]float64(nil), outputs...),
	})
	return nil
}

func (d *Dataset) Len() int { return len(d.Records) }

// OneHot returns a vector of size zeros with a 1 at index.
func OneHot(index, size int) ([]float64, error) {
	if index < 0 || index >= size {
		return nil, errors.Errorf("one-hot index %d out of range [0, %d)", index, size)
	}
	v := make([]float64, size)
	v[index] = 1
	return v, nil
}

// LineError reports a row with the wrong number of values.
type LineError struct {
	Line     int
	Got      int
	Expected int
}

func (e LineError) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d", e.Line, e.Expected, e.Got)
}

// Load reads records from r. Empty lines are skipped.
func Load(r io.Reader, inputCount, outputCount int) (*Dataset, error) {
	d := New(inputCount, outputCount)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return d, errors.Wrap(err, "reading csv")
		}
		line, _ := cr.FieldPos(0)
		if len(row) != inputCount+outputCount {
			return d, LineError{Line: line, Got: len(row), Expected: inputCount + outputCount}
		}

		values := make([]float64, len(row))
		for i, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return d, errors.Wrapf(err, "line %d, value %d", line, i+1)
			}
			values[i] = v
		}
		d.Records = append(d.Records, Record{
			Inputs:  values[:inputCount:inputCount],
			Outputs: values[inputCount:],
		})
	}
	return d, nil
}

// Save writes every record as one CSV row.
func (d *Dataset) Save(w io.Writer) error {
	cw := csv.NewWriter(w)
	row := make([]string, 0, d.InputCount+d.OutputCount)
	for _, rec := range d.Records {
		row = row[:0]
		for _, v := range rec.Inputs {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range rec.Outputs {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing csv")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing csv")
}

// LoadFile is Load on the named file.
func LoadFile(path string, inputCount, outputCount int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer f.Close()
	return Load(f, inputCount, outputCount)
}

// SaveFile writes the dataset to the named file, replacing it.
func (d *Dataset) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating dataset file")
	}
	if err := d.Save(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing dataset file")
}
