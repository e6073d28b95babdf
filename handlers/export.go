package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
)

// ExportSequences fetches archived sequences in a date range and saves
// them to a local JSON file.
func ExportSequences(c *gin.Context, firestoreClient *firestore.Client) {
	log.Println("Received request to export sequences...")

	seqs, start, end, ok := historyRange(c, firestoreClient)
	if !ok {
		return
	}

	if len(seqs) == 0 {
		log.Println("No sequences found to export.")
		c.JSON(http.StatusOK, gin.H{
			"message": "No sequences found to export.",
			"count":   0,
		})
		return
	}

	log.Printf("Fetched %d sequences for export.", len(seqs))

	// Marshal data to JSON (with indentation for readability)
	jsonData, err := json.MarshalIndent(seqs, "", "  ")
	if err != nil {
		log.Printf("Error marshaling sequence data to JSON: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to format sequence data",
			"details": err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("sequences_export_%s_%s.json", start.Format("20060102"), end.Format("20060102"))
	file, err := os.Create(filename)
	if err != nil {
		log.Printf("Error creating export file '%s': %v", filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create export file",
			"details": err.Error(),
		})
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Printf("Error closing export file '%s': %v", filename, cerr)
		}
	}()

	if _, err = file.Write(jsonData); err != nil {
		log.Printf("Error writing JSON data to file '%s': %v", filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to write data to export file",
			"details": err.Error(),
		})
		return
	}

	log.Printf("Successfully exported %d sequences to %s", len(seqs), filename)

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Successfully exported %d sequences.", len(seqs)),
		"filename": filename,
		"count":    len(seqs),
	})
}
