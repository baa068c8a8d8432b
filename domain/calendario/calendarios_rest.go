package calendario

import (
	"net/http"

	"oficina/common"
	"oficina/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathCalendario = "/v1/calendario"

func RegisterCalendarioRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathCalendario, middleWares...)
	g.GET("", handleDetailCalendario)
	g.PUT("", handleUpdateCalendario)
}

func handleDetailCalendario(c *gin.Context) {
	cal, err := DetailCalendarioFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, cal)
}

func handleUpdateCalendario(c *gin.Context) {
	updating := CalendarioUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	cal, err := UpdateCalendarioFunc(&updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, cal)
}
