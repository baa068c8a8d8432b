package previsao

import (
	"net/http"

	"oficina/common"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathPrevisoes = "/v1/previsoes"

func RegisterPrevisoesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathPrevisoes, middleWares...)
	g.GET("", handleQueryPrevisoes)
	g.POST("", handleCreatePrevisao)
	g.POST("simulacoes", handleSimularPrevisao)
	g.GET(":id", handleDetailPrevisao)
	g.GET(":id/cronograma", handleCronograma)
	g.PUT(":id/status", handleUpdateStatus)
	g.PUT(":id/lote", handleVincularLote)
}

func handleQueryPrevisoes(c *gin.Context) {
	query := PrevisaoQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	records, err := QueryPrevisoesFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

// handleSimularPrevisao runs the forecast without persisting anything, so the
// front end can iterate on team and quantities before committing.
func handleSimularPrevisao(c *gin.Context) {
	req := PrevisaoRequest{}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	resultado, err := SimularPrevisaoFunc(&req, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, resultado)
}

func handleCreatePrevisao(c *gin.Context) {
	req := PrevisaoRequest{}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := CreatePrevisaoFunc(&req, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDetailPrevisao(c *gin.Context) {
	record, err := DetailPrevisaoFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCronograma(c *gin.Context) {
	cron, err := CronogramaFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, cron)
}

func handleUpdateStatus(c *gin.Context) {
	updating := StatusUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := UpdateStatusFunc(parseIdParam(c), &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleVincularLote(c *gin.Context) {
	vinculando := LoteVinculando{}
	if err := c.ShouldBindBodyWith(&vinculando, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := VincularLoteFunc(parseIdParam(c), &vinculando, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	return id
}
