package lote

import (
	"net/http"

	"oficina/common"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	PathLotes     = "/v1/lotes"
	PathProducoes = "/v1/producoes"
)

func RegisterLotesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathLotes, middleWares...)
	g.GET("", handleQueryLotes)
	g.POST("", handleCreateLote)
	g.GET(":id", handleDetailLote)
	g.PUT(":id/status", handleFinalizarLote)

	p := r.Group(PathProducoes, middleWares...)
	p.POST("", handleIniciarProducao)
	p.PUT(":id/finalizacao", handleFinalizarProducao)
}

func handleQueryLotes(c *gin.Context) {
	query := LoteQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	records, err := QueryLotesFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleCreateLote(c *gin.Context) {
	creation := LoteCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := CreateLoteFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDetailLote(c *gin.Context) {
	record, err := DetailLoteFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleFinalizarLote(c *gin.Context) {
	finishing := LoteFinishing{}
	if err := c.ShouldBindBodyWith(&finishing, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := FinalizarLoteFunc(parseIdParam(c), &finishing, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleIniciarProducao(c *gin.Context) {
	creation := ProducaoCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := IniciarProducaoFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleFinalizarProducao(c *gin.Context) {
	finishing := ProducaoFinishing{}
	if err := c.ShouldBindBodyWith(&finishing, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := FinalizarProducaoFunc(parseIdParam(c), &finishing, session.ExtractSessionFromGinContext(c))
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
