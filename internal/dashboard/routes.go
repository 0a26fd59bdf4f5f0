package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ambutrack/console/internal/feed"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, fd *feed.Client) {
	router.GET("/", handleIndex(fd))
	router.GET("/api/requests", handleRequests(fd))
	router.GET("/api/status", handleStatus(fd))
	router.GET("/api/events", handleSSE(fd))
}

func handleIndex(fd *feed.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "layout.html", gin.H{
			"tenant": fd.Tenant(),
		})
	}
}

// handleRequests returns the cached pending list as JSON.
func handleRequests(fd *feed.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"requests": fd.Requests(),
		})
	}
}

// handleStatus reports the live-channel connection state.
func handleStatus(fd *feed.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant":    fd.Tenant(),
			"connected": fd.Connected(),
			"error":     fd.Err(),
		})
	}
}
