package routes

import (
	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-firewatch/config"
	"go-firewatch/handlers"
	"go-firewatch/metrics"
	"go-firewatch/platform"
	"go-firewatch/store"
	"go-firewatch/ws"
)

// Deps is everything the HTTP surface needs. Firestore is nil when the
// archive integration is disabled.
type Deps struct {
	Cfg       config.Config
	Store     *store.Store
	Platform  *platform.Client
	Firestore *firestore.Client
	Hub       *ws.Hub
	Metrics   *metrics.Metrics
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to Go Firewatch!",
		})
	})

	r.GET("/ws", func(c *gin.Context) {
		d.Hub.Serve(c.Writer, c.Request)
	})

	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// api routes
	api := r.Group("/api/firewatch")
	{
		api.GET("/cameras", func(c *gin.Context) {
			handlers.GetCameras(c, d.Store)
		})
		api.POST("/cameras/:id/move", func(c *gin.Context) {
			handlers.MoveCamera(c, d.Platform, d.Cfg)
		})
		api.POST("/cameras/:id/stop", func(c *gin.Context) {
			handlers.StopCamera(c, d.Platform)
		})

		api.GET("/sequences", func(c *gin.Context) {
			handlers.GetSequences(c, d.Store)
		})
		api.GET("/sequences/:id/detections", func(c *gin.Context) {
			handlers.GetSequenceDetections(c, d.Store, d.Platform)
		})
		api.POST("/sequences/:id/label", func(c *gin.Context) {
			handlers.LabelSequence(c, d.Platform, d.Firestore)
		})
		api.POST("/sequences/select", func(c *gin.Context) {
			handlers.SelectSequence(c, d.Store)
		})

		api.GET("/vision-polygon", func(c *gin.Context) {
			handlers.GetVisionPolygon(c, d.Store, d.Cfg)
		})

		api.GET("/history", func(c *gin.Context) {
			handlers.GetHistory(c, d.Firestore)
		})
		api.GET("/history/:id", func(c *gin.Context) {
			handlers.GetArchivedSequence(c, d.Firestore)
		})
		api.GET("/export", func(c *gin.Context) {
			handlers.ExportSequences(c, d.Firestore)
		})
	}

	return r
}
