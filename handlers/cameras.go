package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-firewatch/store"
)

// GetCameras returns the camera registry snapshot.
func GetCameras(c *gin.Context, st *store.Store) {
	cams := st.Cameras()
	c.JSON(http.StatusOK, gin.H{
		"cameras": cams,
		"count":   len(cams),
	})
}
