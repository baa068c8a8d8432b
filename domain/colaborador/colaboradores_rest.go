package colaborador

import (
	"net/http"

	"oficina/common"
	"oficina/domain"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	PathColaboradores = "/v1/colaboradores"
	PathRendimentos   = "/v1/rendimentos"
)

func RegisterColaboradoresRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathColaboradores, middleWares...)
	g.GET("", handleQueryColaboradores)
	g.POST("", handleCreateColaborador)
	g.PUT(":id", handleUpdateColaborador)

	q := r.Group(PathRendimentos, middleWares...)
	q.GET("", handleQueryRendimentos)
}

func handleQueryColaboradores(c *gin.Context) {
	query := ColaboradorQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	records, err := QueryColaboradoresFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleCreateColaborador(c *gin.Context) {
	creation := domain.ColaboradorCreating{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	record, err := CreateColaboradorFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleUpdateColaborador(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	updating := ColaboradorUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := UpdateColaboradorFunc(id, &updating, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func handleQueryRendimentos(c *gin.Context) {
	query := RendimentoQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	records, err := QueryRendimentosFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
