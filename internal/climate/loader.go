package climate

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"feasibility_analysis/internal/methodology"
	"feasibility_analysis/internal/psychro"
)

// Source selects a dataset: a file path, or a catalogue zone and period.
// File wins when both are set.
type Source struct {
	Zone   string
	Period string
	File   string
}

// Dataset is a loaded climate series with a human-readable location.
type Dataset struct {
	Location string
	Samples  methodology.Dataset
}

// Loader resolves sources against a directory of meteorological files.
type Loader struct {
	dir    string
	oracle psychro.Oracle
}

// NewLoader returns a loader reading catalogue files from dir. A nil oracle
// uses psychro.New().
func NewLoader(dir string, oracle psychro.Oracle) *Loader {
	if oracle == nil {
		oracle = psychro.New()
	}
	return &Loader{dir: dir, oracle: oracle}
}

// Load resolves src and reads the dataset.
func (l *Loader) Load(ctx context.Context, src Source) (Dataset, error) {
	path := src.File
	var location string
	if path == "" {
		if strings.TrimSpace(src.Zone) == "" {
			return Dataset{}, eris.Wrap(ErrUnknownZone, "no climate zone or file given")
		}
		z, err := LookupZone(src.Zone)
		if err != nil {
			return Dataset{}, err
		}
		years, err := lookupYears(src.Period)
		if err != nil {
			return Dataset{}, err
		}
		if path, err = Resolve(l.dir, src.Zone, src.Period); err != nil {
			return Dataset{}, err
		}
		location = z.Key + " " + z.City + " (" + years + ")"
	} else {
		location = filepath.Base(path)
	}

	samples, err := ReadFile(ctx, path, l.oracle)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Location: location, Samples: samples}, nil
}

// ReadFile reads a .xlsx workbook or a delimited text file, by extension.
func ReadFile(ctx context.Context, path string, oracle psychro.Oracle) (methodology.Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(ctx, path, oracle)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "climate: read %s", path)
	}
	return ReadCSV(ctx, bytes.NewReader(data), oracle)
}

// ReadCSV decodes a ';' or ',' separated file; the delimiter is taken from
// whichever appears more often in the header line.
func ReadCSV(ctx context.Context, r io.Reader, oracle psychro.Oracle) (methodology.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "climate: read csv")
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, eris.Wrapf(ErrMissingColumn, "%s: empty file", ColumnTDry)
		}
		return nil, eris.Wrap(err, "climate: read header")
	}
	return decode(ctx, reader, header, oracle)
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// ReadXLSX decodes the first sheet of a workbook; the first row is the header.
func ReadXLSX(ctx context.Context, path string, oracle psychro.Oracle) (methodology.Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "climate: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("climate: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Wrapf(ErrMissingColumn, "%s: empty sheet", ColumnTDry)
	}

	header := rowToStrings(sheet.Rows[0], 0)
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row, len(header))
		if blank(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return decode(ctx, &sliceReader{rows: rows}, header, oracle)
}

// rowToStrings returns the cell texts of row, padded with blanks up to width.
func rowToStrings(row *xlsx.Row, width int) []string {
	n := len(row.Cells)
	if width > n {
		n = width
	}
	cells := make([]string, n)
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	if width > 0 {
		cells = cells[:width]
	}
	return cells
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sliceReader feeds pre-read rows to the csv decoder.
type sliceReader struct {
	rows [][]string
	pos  int
}

func (s *sliceReader) Read() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
