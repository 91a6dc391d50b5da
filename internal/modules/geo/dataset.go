package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

type rawFeatureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Properties struct {
		Name      string `json:"name"`
		NameLong  string `json:"name_long"`
		AdminName string `json:"admin"`
	} `json:"properties"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// LoadIndex reads a GeoJSON FeatureCollection of world boundaries from path.
func LoadIndex(path string) (*CountryIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open boundaries dataset: %w", err)
	}
	defer f.Close()
	return ParseIndex(f)
}

// ParseIndex decodes a GeoJSON FeatureCollection into a CountryIndex.
// Features with no name or an unsupported geometry type are skipped.
func ParseIndex(r io.Reader) (*CountryIndex, error) {
	var fc rawFeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode boundaries dataset: %w", err)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, rf := range fc.Features {
		name := strings.TrimSpace(rf.Properties.Name)
		if name == "" {
			name = strings.TrimSpace(rf.Properties.NameLong)
		}
		if name == "" {
			name = strings.TrimSpace(rf.Properties.AdminName)
		}
		if name == "" {
			continue
		}

		var parts []Polygon
		switch rf.Geometry.Type {
		case "Polygon":
			var poly Polygon
			if err := json.Unmarshal(rf.Geometry.Coordinates, &poly); err != nil {
				return nil, fmt.Errorf("feature %q: %w", name, err)
			}
			parts = []Polygon{poly}
		case "MultiPolygon":
			if err := json.Unmarshal(rf.Geometry.Coordinates, &parts); err != nil {
				return nil, fmt.Errorf("feature %q: %w", name, err)
			}
		default:
			continue
		}

		features = append(features, Feature{Name: name, Parts: parts})
	}

	return NewCountryIndex(features), nil
}
