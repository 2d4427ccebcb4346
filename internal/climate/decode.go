package climate

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"feasibility_analysis/internal/methodology"
	"feasibility_analysis/internal/psychro"
)

// Column names recognised in meteorological files.
const (
	ColumnTDry = "T_dry"
	ColumnW    = "w"
	ColumnRH   = "RH"
	ColumnTWb  = "T_wb"
	ColumnTDp  = "T_dp"
)

// percentRH is the largest relative humidity still read as a fraction; a column
// holding any larger value is taken to be in percent.
const percentRH = 1.5

// humiditySources are tried in order when the file has no w column.
var humiditySources = []struct {
	column string
	prop   psychro.Property
}{
	{ColumnRH, psychro.RelativeHumidity},
	{ColumnTWb, psychro.WetBulb},
	{ColumnTDp, psychro.DewPoint},
}

// reading is a numeric cell that may be blank.
type reading struct {
	value float64
	set   bool
}

func (r *reading) UnmarshalCSV(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*r = reading{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return eris.Wrapf(ErrInvalidValue, "%q", s)
	}
	*r = reading{value: v, set: true}
	return nil
}

type record struct {
	TDry reading `csv:"T_dry"`
	W    reading `csv:"w"`
	RH   reading `csv:"RH"`
	TWb  reading `csv:"T_wb"`
	TDp  reading `csv:"T_dp"`
}

func (rec record) column(name string) reading {
	switch name {
	case ColumnW:
		return rec.W
	case ColumnRH:
		return rec.RH
	case ColumnTWb:
		return rec.TWb
	case ColumnTDp:
		return rec.TDp
	default:
		return rec.TDry
	}
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}

// decode reads every record of r under header and returns the (T_dry, w)
// series. Without a w column, w is derived from the first available of RH,
// T_wb and T_dp at standard pressure.
func decode(ctx context.Context, r csvutil.Reader, header []string, oracle psychro.Oracle) (methodology.Dataset, error) {
	header = normalizeHeader(header)
	if !hasColumn(header, ColumnTDry) {
		return nil, eris.Wrapf(ErrMissingColumn, "%s", ColumnTDry)
	}
	source := ColumnW
	var prop psychro.Property
	if !hasColumn(header, ColumnW) {
		source = ""
		for _, hs := range humiditySources {
			if hasColumn(header, hs.column) {
				source, prop = hs.column, hs.prop
				break
			}
		}
		if source == "" {
			return nil, eris.Wrapf(ErrMissingColumn, "one of %s, %s, %s, %s", ColumnW, ColumnRH, ColumnTWb, ColumnTDp)
		}
	}

	dec, err := csvutil.NewDecoder(r, header...)
	if err != nil {
		return nil, eris.Wrap(err, "climate: init decoder")
	}

	var records []record
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "climate: decode cancelled")
		}
		var rec record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "climate: row %d", row)
		}
		if !rec.TDry.set {
			return nil, eris.Wrapf(ErrInvalidValue, "row %d: empty %s", row, ColumnTDry)
		}
		if !rec.column(source).set {
			return nil, eris.Wrapf(ErrInvalidValue, "row %d: empty %s", row, source)
		}
		records = append(records, rec)
	}

	ds := make(methodology.Dataset, len(records))
	if source == ColumnW {
		for i, rec := range records {
			ds[i] = methodology.Sample{T: rec.TDry.value, W: rec.W.value}
		}
		return ds, nil
	}

	scale := 1.0
	if source == ColumnRH {
		for _, rec := range records {
			if rec.RH.value > percentRH {
				scale = 0.01
				break
			}
		}
	}
	for i, rec := range records {
		v := rec.column(source).value * scale
		w, err := oracle.Evaluate(psychro.HumidityRatio, psychro.Temperature, rec.TDry.value, prop, v, psychro.StandardPressure)
		if err != nil {
			return nil, eris.Wrapf(err, "climate: row %d: derive w from %s", i+1, source)
		}
		ds[i] = methodology.Sample{T: rec.TDry.value, W: w}
	}
	return ds, nil
}
