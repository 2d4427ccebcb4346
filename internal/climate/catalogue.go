// Package climate provides hourly outdoor-air datasets: a catalogue of typical
// meteorological years per climate zone, and CSV/XLSX loaders that hand the
// classifier a chronological (T_dry, w) series.
package climate

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	ErrUnknownZone   = eris.New("climate: unknown climate zone")
	ErrUnknownPeriod = eris.New("climate: unknown period")
	ErrMissingColumn = eris.New("climate: missing column")
	ErrInvalidValue  = eris.New("climate: invalid value")
)

// DefaultPeriod is used when a zone is given without a period.
const DefaultPeriod = "present"

// Zone is a catalogue entry: an ASHRAE climate zone and its reference city.
type Zone struct {
	Key         string `json:"key" yaml:"key"`
	City        string `json:"city" yaml:"city"`
	Description string `json:"description" yaml:"description"`
}

// Period maps a period key to the years its TMY was built from.
type Period struct {
	Key   string `json:"key" yaml:"key"`
	Years string `json:"years" yaml:"years"`
}

var zones = []Zone{
	{Key: "0A", City: "Singapore", Description: "Extremely hot humid"},
	{Key: "0B", City: "Abu Dhabi", Description: "Extremely hot dry"},
	{Key: "1A", City: "Guayaquil", Description: "Very hot humid"},
	{Key: "2A", City: "Sao Paulo", Description: "Hot humid"},
	{Key: "3A", City: "Buenos Aires", Description: "Warm humid"},
	{Key: "3B", City: "Los Angeles", Description: "Warm dry"},
	{Key: "4A", City: "Brussels", Description: "Mixed humid"},
	{Key: "4C", City: "Vancouver", Description: "Mixed marine"},
	{Key: "5A", City: "Copenhagen", Description: "Cool humid"},
	{Key: "6A", City: "Montreal", Description: "Cold humid"},
}

var periods = map[string]string{
	"present": "2001-2020",
	"future":  "2041-2060",
}

// Zones returns the catalogue in zone order.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// Periods returns the known periods sorted by years.
func Periods() []Period {
	out := make([]Period, 0, len(periods))
	for k, y := range periods {
		out = append(out, Period{Key: k, Years: y})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Years < out[j].Years })
	return out
}

// LookupZone finds a zone by key, case-insensitively.
func LookupZone(key string) (Zone, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	for _, z := range zones {
		if z.Key == key {
			return z, nil
		}
	}
	return Zone{}, eris.Wrapf(ErrUnknownZone, "%q", key)
}

func lookupYears(period string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" {
		p = DefaultPeriod
	}
	years, ok := periods[p]
	if !ok {
		return "", eris.Wrapf(ErrUnknownPeriod, "%q", period)
	}
	return years, nil
}

// FileName returns the TMY file name of a zone and period, e.g.
// 2A_Sao_Paulo_TMY_2001-2020.csv.
func FileName(zone, period string) (string, error) {
	z, err := LookupZone(zone)
	if err != nil {
		return "", err
	}
	years, err := lookupYears(period)
	if err != nil {
		return "", err
	}
	return z.Key + "_" + strings.ReplaceAll(z.City, " ", "_") + "_TMY_" + years + ".csv", nil
}

// Resolve returns the path of a zone's TMY file under dir.
func Resolve(dir, zone, period string) (string, error) {
	name, err := FileName(zone, period)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
