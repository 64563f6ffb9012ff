package geometry

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSONFile reads a triangle mesh from a GeoJSON file.
func LoadGeoJSONFile(filename string) (*Polygon, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON parses a FeatureCollection whose features are triangles.
func ParseGeoJSON(data []byte) (*Polygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}
	return FromFeatureCollection(fc)
}

// FromFeatureCollection converts Polygon and MultiPolygon features to a
// mesh. Every polygon must be a single ring of three distinct vertices,
// optionally closed.
func FromFeatureCollection(fc *geojson.FeatureCollection) (*Polygon, error) {
	var triangles [][3]orb.Point

	for i, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			tri, err := polygonTriangle(g)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			triangles = append(triangles, tri)
		case orb.MultiPolygon:
			for j, poly := range g {
				tri, err := polygonTriangle(poly)
				if err != nil {
					return nil, fmt.Errorf("feature %d polygon %d: %w", i, j, err)
				}
				triangles = append(triangles, tri)
			}
		case nil:
			return nil, fmt.Errorf("feature %d has no geometry: %w", i, ErrNotTriangle)
		default:
			return nil, fmt.Errorf("feature %d: unsupported geometry %s: %w", i, g.GeoJSONType(), ErrNotTriangle)
		}
	}

	return NewPolygon(triangles)
}

func polygonTriangle(poly orb.Polygon) ([3]orb.Point, error) {
	if len(poly) != 1 {
		return [3]orb.Point{}, fmt.Errorf("expected one ring, got %d: %w", len(poly), ErrNotTriangle)
	}

	ring := poly[0]
	if len(ring) == 4 && ring[0] == ring[3] {
		ring = ring[:3]
	}
	if len(ring) != 3 {
		return [3]orb.Point{}, fmt.Errorf("ring has %d vertices: %w", len(ring), ErrNotTriangle)
	}

	return [3]orb.Point{ring[0], ring[1], ring[2]}, nil
}

// ToFeatureCollection exports the mesh, one closed triangle ring per feature.
func ToFeatureCollection(p *Polygon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range p.triangles {
		ring := orb.Ring{t.Points[0], t.Points[1], t.Points[2], t.Points[0]}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["index"] = t.Index
		fc.Append(feature)
	}
	return fc
}
