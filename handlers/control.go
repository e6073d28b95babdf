package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-firewatch/config"
	"go-firewatch/platform"
	"go-firewatch/vision"
)

// MoveCamera steers a PTZ camera. The request supplies exactly one of:
// pose_id (direct preset), azimuth (resolved to the closest preset pose
// when presets are configured, passed through otherwise), or zoom.
func MoveCamera(c *gin.Context, pc *platform.Client, cfg config.Config) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid camera id"})
		return
	}

	var body struct {
		PoseID  *int     `json:"pose_id"`
		Azimuth *float64 `json:"azimuth"`
		Zoom    *float64 `json:"zoom"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid control payload", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	switch {
	case body.PoseID != nil:
		if err := pc.MoveCameraToPose(ctx, id, *body.PoseID); err != nil {
			controlError(c, id, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Camera moving", "pose_id": *body.PoseID})

	case body.Azimuth != nil:
		if presets := cfg.PTZPresets[id]; len(presets) > 0 {
			pose, shift := vision.ClosestPose(*body.Azimuth, presets)
			if pose != nil {
				if err := pc.MoveCameraToPose(ctx, id, pose.PoseID); err != nil {
					controlError(c, id, err)
					return
				}
				c.JSON(http.StatusOK, gin.H{
					"message":        "Camera moving to closest pose",
					"pose_id":        pose.PoseID,
					"pose_azimuth":   pose.Azimuth,
					"residual_shift": shift,
					"target_azimuth": *body.Azimuth,
				})
				return
			}
		}
		if err := pc.MoveCameraToAzimuth(ctx, id, *body.Azimuth); err != nil {
			controlError(c, id, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Camera moving", "azimuth": *body.Azimuth})

	case body.Zoom != nil:
		if err := pc.ZoomCamera(ctx, id, *body.Zoom); err != nil {
			controlError(c, id, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Camera zooming",
			"zoom":          *body.Zoom,
			"estimated_fov": vision.FOVFromZoom(*body.Zoom),
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "one of pose_id, azimuth or zoom is required"})
	}
}

// StopCamera halts any in-flight PTZ movement.
func StopCamera(c *gin.Context, pc *platform.Client) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid camera id"})
		return
	}

	if err := pc.StopCamera(c.Request.Context(), id); err != nil {
		controlError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Camera stopped"})
}

func controlError(c *gin.Context, cameraID int64, err error) {
	log.Printf("Error controlling camera %d: %v", cameraID, err)
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   "Failed to control camera",
		"details": err.Error(),
	})
}
