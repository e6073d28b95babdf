package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-firewatch/platform"
	"go-firewatch/sequences"
	"go-firewatch/store"
)

// GetSequences returns the live sequence snapshot along with its version,
// so clients can correlate it with websocket update messages.
func GetSequences(c *gin.Context, st *store.Store) {
	seqs := st.Sequences()
	c.JSON(http.StatusOK, gin.H{
		"sequences": seqs,
		"count":     len(seqs),
		"version":   st.Version(),
	})
}

// GetSequenceDetections returns the detections of one sequence, serving
// from the freshness-stamped cache and falling back to the platform.
func GetSequenceDetections(c *gin.Context, st *store.Store, pc *platform.Client) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence id"})
		return
	}

	if dets, ok := st.Detections(id); ok {
		c.JSON(http.StatusOK, gin.H{"detections": dets, "count": len(dets), "cached": true})
		return
	}

	dets, err := pc.SequenceDetections(c.Request.Context(), id)
	if err != nil {
		log.Printf("Error fetching detections for sequence %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch detections",
			"details": err.Error(),
		})
		return
	}
	st.SetDetections(id, dets)

	c.JSON(http.StatusOK, gin.H{"detections": dets, "count": len(dets), "cached": false})
}

// SelectSequence feeds a click observation from the event list into the
// attribution rule and returns the resulting selection.
func SelectSequence(c *gin.Context, st *store.Store) {
	var body struct {
		Clicks []struct {
			ID     int64 `json:"id"`
			Clicks int   `json:"clicks"`
		} `json:"clicks"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid click payload", "details": err.Error()})
		return
	}

	observation := make([]sequences.ClickState, 0, len(body.Clicks))
	for _, cs := range body.Clicks {
		observation = append(observation, sequences.ClickState{ID: cs.ID, Clicks: cs.Clicks})
	}

	c.JSON(http.StatusOK, gin.H{"selected_id": st.ObserveClicks(observation)})
}
