package ajuste

import (
	"net/http"

	"oficina/common"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const PathAjustes = "/v1/previsoes/:id/ajustes"

func RegisterAjustesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathAjustes, middleWares...)
	g.GET("", handleQueryAjustes)
	g.POST("imprevistos", handleRegistrarImprevisto)
	g.DELETE("imprevistos/:ajusteId", handleExcluirImprevisto)
	g.PUT("equipe", handleAjustarEquipe)
	g.PUT("quantidade", handleAjustarQuantidade)
}

func handleQueryAjustes(c *gin.Context) {
	records, err := QueryAjustesFunc(parseIdParam(c, "id"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleRegistrarImprevisto(c *gin.Context) {
	creation := ImprevistoCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := RegistrarImprevistoFunc(parseIdParam(c, "id"), &creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleExcluirImprevisto(c *gin.Context) {
	record, err := ExcluirImprevistoFunc(parseIdParam(c, "id"), parseIdParam(c, "ajusteId"),
		session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleAjustarEquipe(c *gin.Context) {
	ajustando := EquipeAjustando{}
	if err := c.ShouldBindBodyWith(&ajustando, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := AjustarEquipeFunc(parseIdParam(c, "id"), &ajustando, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleAjustarQuantidade(c *gin.Context) {
	ajustando := QuantidadeAjustando{}
	if err := c.ShouldBindBodyWith(&ajustando, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := AjustarQuantidadeFunc(parseIdParam(c, "id"), &ajustando, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func parseIdParam(c *gin.Context, name string) types.ID {
	id, err := types.ParseID(c.Param(name))
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	return id
}
