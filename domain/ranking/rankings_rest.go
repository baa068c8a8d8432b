package ranking

import (
	"net/http"

	"oficina/common"
	"oficina/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	PathRanking = "/v1/ranking"
	PathMetas   = "/v1/metas"
)

func RegisterRankingRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathRanking, middleWares...)
	g.GET("", handleQueryRanking)

	m := r.Group(PathMetas, middleWares...)
	m.GET("", handleQueryMetas)
	m.PUT("", handleSaveMeta)
}

func handleQueryRanking(c *gin.Context) {
	query := RankingQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	itens, err := QueryRankingFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, itens)
}

func handleQueryMetas(c *gin.Context) {
	query := RankingQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	records, err := QueryMetasFunc(query.Ano, query.Mes, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleSaveMeta(c *gin.Context) {
	saving := MetaSaving{}
	if err := c.ShouldBindBodyWith(&saving, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := SaveMetaFunc(&saving, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
