package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/absmach/flotilla/pkg/errors"
)

// Columns is the feature schema of the bundled diabetes-risk dataset.
// CSV files carry these columns plus a trailing Outcome label column.
var Columns = []string{
	"Pregnancies", "Glucose", "BloodPressure", "SkinThickness",
	"Insulin", "BMI", "DiabetesPedigreeFunction", "Age",
}

// LoadCSV reads a labeled dataset from a CSV file. The last column is
// the label; a non-numeric first row is treated as a header and skipped.
func LoadCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("unable to open dataset file '%s': %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to parse dataset file '%s': %w", path, err)
	}
	if len(records) == 0 {
		return Dataset{}, nil
	}

	if _, err := strconv.ParseFloat(records[0][0], 64); err != nil {
		records = records[1:]
	}

	d := Dataset{
		Features: make([][]float64, 0, len(records)),
		Labels:   make([]float64, 0, len(records)),
	}
	for i, rec := range records {
		if len(rec) < 2 {
			return Dataset{}, fmt.Errorf("%w: row %d has %d columns", errors.ErrInvalidData, i, len(rec))
		}
		row := make([]float64, len(rec)-1)
		for j, field := range rec[:len(rec)-1] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("%w: row %d column %d: %w", errors.ErrInvalidData, i, j, err)
			}
			row[j] = v
		}
		label, err := strconv.ParseFloat(rec[len(rec)-1], 64)
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: row %d label: %w", errors.ErrInvalidData, i, err)
		}
		d.Features = append(d.Features, row)
		d.Labels = append(d.Labels, label)
	}

	return d, nil
}

// SaveCSV writes a dataset with the standard schema header, one shard
// per call, the way client data files are provisioned.
func SaveCSV(path string, d Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create dataset file '%s': %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, Columns...), "Outcome")
	if err := w.Write(header); err != nil {
		return err
	}
	for i, row := range d.Features {
		rec := make([]string, 0, len(row)+1)
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rec = append(rec, strconv.FormatFloat(d.Labels[i], 'g', -1, 64))
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}
