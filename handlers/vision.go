package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-firewatch/config"
	"go-firewatch/sequences"
	"go-firewatch/store"
	"go-firewatch/types"
	"go-firewatch/vision"
)

// GetVisionPolygon computes the map overlay cone for either a live
// sequence (?sequence_id=) or explicit parameters (?lat&lon&azimuth and
// either opening_angle or zoom). dist_km overrides the configured
// visibility radius in both modes.
func GetVisionPolygon(c *gin.Context, st *store.Store, cfg config.Config) {
	distKm := cfg.VisionRangeKM
	if raw := c.Query("dist_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dist_km"})
			return
		}
		distKm = v
	}

	if raw := c.Query("sequence_id"); raw != "" {
		sequencePolygon(c, st, raw, distKm)
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	azimuth, errAz := strconv.ParseFloat(c.Query("azimuth"), 64)
	if errLat != nil || errLon != nil || errAz != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat, lon and azimuth are required without sequence_id"})
		return
	}

	var opening float64
	switch {
	case c.Query("opening_angle") != "":
		v, err := strconv.ParseFloat(c.Query("opening_angle"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid opening_angle"})
			return
		}
		opening = v
	case c.Query("zoom") != "":
		v, err := strconv.ParseFloat(c.Query("zoom"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom"})
			return
		}
		opening = vision.FOVFromZoom(v)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either opening_angle or zoom is required"})
		return
	}

	respondPolygon(c, lat, lon, azimuth, opening, distKm, nil)
}

func sequencePolygon(c *gin.Context, st *store.Store, rawID string, distKm float64) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence_id"})
		return
	}

	seq, ok := st.Sequence(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sequence"})
		return
	}
	cam, ok := st.Camera(seq.CameraID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown camera for sequence"})
		return
	}

	// Prefer the cached detections over whatever the feed inlined.
	if dets, ok := st.Detections(id); ok {
		seq.Detections = dets
	}

	azimuth := seq.Azimuth
	var bboxes []types.BBox
	if det, ok := sequences.LatestDetection(seq); ok {
		azimuth = det.Azimuth
		bboxes = types.ParseBBoxes(det.Bboxes)
	}

	respondPolygon(c, cam.Lat, cam.Lon, azimuth, cam.AngleOfView, distKm, bboxes)
}

func respondPolygon(c *gin.Context, lat, lon, azimuth, opening, distKm float64, bboxes []types.BBox) {
	polygon, err := vision.BuildVisionPolygon(lat, lon, azimuth, opening, distKm, bboxes)
	if err != nil {
		if errors.Is(err, vision.ErrInvalidGeometryInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"polygon": polygon})
}
