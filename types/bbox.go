package types

import "encoding/json"

// BBox is a detected-object rectangle in percent units: all four geometry
// fields are percentages of the frame in [0, 100]. The scaling from the
// platform's normalized [0,1] xyxy rows happens once, in ParseBBoxes, and
// the percent convention is relied on by the vision cone math.
type BBox struct {
	X0         float64 `json:"x0"`
	Y0         float64 `json:"y0"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
}

// ParseBBoxes decodes a raw platform bboxes payload ([[x0,y0,x1,y1,conf],...]
// in normalized coordinates) into percent-unit xywh boxes. Rows with fewer
// than four values are skipped; malformed or empty input yields an empty
// slice, never an error, since a frame without boxes is normal data.
func ParseBBoxes(raw string) []BBox {
	boxes := []BBox{}
	if raw == "" {
		return boxes
	}

	var rows [][]float64
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return boxes
	}

	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		b := BBox{
			X0:     row[0] * 100,
			Y0:     row[1] * 100,
			Width:  (row[2] - row[0]) * 100,
			Height: (row[3] - row[1]) * 100,
		}
		if len(row) >= 5 {
			b.Confidence = row[4]
		}
		boxes = append(boxes, b)
	}

	return boxes
}

// LatLon is a point in decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// VisionPolygon is the ground-projected field-of-view cone of a camera,
// ready for map overlay. Points starts at the camera site and is implicitly
// closed back to it. Azimuth is the bearing actually used to build the cone,
// after any bbox narrowing, normalized to [0, 360).
type VisionPolygon struct {
	Points  []LatLon `json:"points"`
	Azimuth float64  `json:"azimuth"`
}
