package indices

import (
	"net/http"
	"time"

	"oficina/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	PathIndexRequests        = "/v1/index-requests"
	PathPendingSyncRecovery  = "/v1/pending-sync-recoveries"
	pendingSyncRecoveryLimit = rate.NewLimiter(rate.Every(30*time.Second), 1)
)

func RegisterIndicesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathIndexRequests, middleWares...)
	g.POST("", handleIndexRequest)

	p := r.Group(PathPendingSyncRecovery, middleWares...)
	p.POST("", handlePendingSyncRecovery)
}

func handleIndexRequest(c *gin.Context) {
	scheduled, err := ScheduleNewSyncRunFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"result": scheduled})
}

func handlePendingSyncRecovery(c *gin.Context) {
	if !pendingSyncRecoveryLimit.Allow() {
		c.JSON(http.StatusOK, gin.H{"result": "request rate limited"})
		return
	}
	if err := PendingSyncRecoveryFunc(session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, gin.H{"result": "started"})
}
