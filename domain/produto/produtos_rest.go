package produto

import (
	"net/http"

	"oficina/common"
	"oficina/domain"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathProdutos = "/v1/produtos"

func RegisterProdutosRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathProdutos, middleWares...)
	g.GET("", handleQueryProdutos)
	g.POST("", handleCreateProduto)
	g.GET(":id/etapas", handleQueryEtapas)
	g.POST(":id/etapas", handleCreateEtapa)
	g.GET(":id/metricas", handleQueryMetricas)
}

func handleQueryProdutos(c *gin.Context) {
	records, err := QueryProdutosFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleCreateProduto(c *gin.Context) {
	creation := domain.ProdutoCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := CreateProdutoFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleQueryEtapas(c *gin.Context) {
	id := parseIdParam(c)
	records, err := QueryEtapasProdutoFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleCreateEtapa(c *gin.Context) {
	id := parseIdParam(c)
	creation := EtapaCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := CreateEtapaFunc(id, &creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleQueryMetricas(c *gin.Context) {
	id := parseIdParam(c)
	records, err := QueryMetricasProdutoFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	return id
}
