package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-firewatch/db"
	"go-firewatch/types"
)

// parseRange reads the from/to query parameters, accepting RFC3339 stamps
// or plain dates. Defaults to the last 30 days.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now

	parse := func(raw string) (time.Time, bool) {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	if raw := c.Query("from"); raw != "" {
		t, ok := parse(raw)
		if !ok {
			return start, end, false
		}
		start = t
	}
	if raw := c.Query("to"); raw != "" {
		t, ok := parse(raw)
		if !ok {
			return start, end, false
		}
		// A bare date means the whole day.
		if len(raw) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1)
		}
		end = t
	}

	return start, end, true
}

func historyRange(c *gin.Context, firestoreClient *firestore.Client) ([]types.Sequence, time.Time, time.Time, bool) {
	if firestoreClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sequence archive is not configured"})
		return nil, time.Time{}, time.Time{}, false
	}

	start, end, ok := parseRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be RFC3339 timestamps or YYYY-MM-DD dates"})
		return nil, time.Time{}, time.Time{}, false
	}

	seqs, err := db.SequencesBetween(firestoreClient, start, end)
	if err != nil {
		log.Printf("Error fetching sequence history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch sequence history",
			"details": err.Error(),
		})
		return nil, time.Time{}, time.Time{}, false
	}

	return seqs, start, end, true
}

// GetArchivedSequence returns one archived sequence by id, including any
// operator label recorded after it left the live feed.
func GetArchivedSequence(c *gin.Context, firestoreClient *firestore.Client) {
	if firestoreClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sequence archive is not configured"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence id"})
		return
	}

	seq, found, err := db.ArchivedSequence(firestoreClient, id)
	if err != nil {
		log.Printf("Error fetching archived sequence %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch archived sequence",
			"details": err.Error(),
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "sequence not found in archive"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sequence": seq})
}

// GetHistory returns archived sequences in a date range.
func GetHistory(c *gin.Context, firestoreClient *firestore.Client) {
	seqs, start, end, ok := historyRange(c, firestoreClient)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sequences": seqs,
		"count":     len(seqs),
		"from":      start.Format(time.RFC3339),
		"to":        end.Format(time.RFC3339),
	})
}
