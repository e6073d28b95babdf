package handlers

import (
	"log"
	"net/http"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-firewatch/db"
	"go-firewatch/platform"
)

// LabelSequence records an operator verdict (wildfire or false positive)
// against the platform and mirrors it into the archive. The platform drops
// labeled sequences from the unlabeled feed, so the live list shrinks on
// the next poll.
func LabelSequence(c *gin.Context, pc *platform.Client, firestoreClient *firestore.Client) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence id"})
		return
	}

	var body struct {
		IsWildfire *bool  `json:"is_wildfire"`
		LabeledBy  string `json:"labeled_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsWildfire == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_wildfire (boolean) is required"})
		return
	}

	if err := pc.LabelSequence(c.Request.Context(), id, *body.IsWildfire); err != nil {
		log.Printf("Error labeling sequence %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to label sequence",
			"details": err.Error(),
		})
		return
	}

	if firestoreClient != nil {
		if err := db.SaveLabel(firestoreClient, id, *body.IsWildfire, body.LabeledBy); err != nil {
			// The platform accepted the label; the archive copy is best effort.
			log.Printf("Error saving label for sequence %d: %v", id, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Sequence labeled",
		"sequence_id": id,
		"is_wildfire": *body.IsWildfire,
	})
}
