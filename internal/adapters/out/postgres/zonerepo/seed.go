package zonerepo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/zone"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of a zone seed:
//
//	zones:
//	  - id: mitte
//	    name: Mitte
//	    center: {lat: 52.52, lng: 13.405}
//	    radius_meters: 1500
//	    fee: "2.00"
type seedFile struct {
	Zones []seedZone `yaml:"zones"`
}

type seedZone struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Center struct {
		Lat float64 `yaml:"lat"`
		Lng float64 `yaml:"lng"`
	} `yaml:"center"`
	RadiusMeters float64 `yaml:"radius_meters"`
	Fee          string  `yaml:"fee"`
}

// LoadSeedFile reads zones from a YAML file.
func LoadSeedFile(path string) ([]zone.Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseSeed(f)
}

// ParseSeed decodes and validates zones from YAML. Every invalid entry is
// reported, not only the first.
func ParseSeed(r io.Reader) ([]zone.Zone, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode zone seed: %w", err)
	}

	var (
		zones    = make([]zone.Zone, 0, len(file.Zones))
		problems []error
		seen     = make(map[string]struct{}, len(file.Zones))
	)

	for i, sz := range file.Zones {
		z, err := sz.toDomain()
		if err != nil {
			problems = append(problems, fmt.Errorf("zone %d (%s): %w", i, sz.ID, err))
			continue
		}
		if _, dup := seen[z.ID()]; dup {
			problems = append(problems, fmt.Errorf("zone %d: duplicate id %q", i, z.ID()))
			continue
		}
		seen[z.ID()] = struct{}{}
		zones = append(zones, z)
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return zones, nil
}

func (s seedZone) toDomain() (zone.Zone, error) {
	center, err := kernel.NewGeoPoint(s.Center.Lat, s.Center.Lng)
	if err != nil {
		return zone.Zone{}, err
	}

	fee, err := decimal.NewFromString(s.Fee)
	if err != nil {
		return zone.Zone{}, fmt.Errorf("fee %q: %w", s.Fee, err)
	}

	return zone.NewZone(s.ID, s.Name, center, s.RadiusMeters, fee)
}
