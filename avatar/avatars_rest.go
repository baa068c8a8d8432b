package avatar

import (
	"net/http"

	"oficina/common"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

const PathFotos = "/v1/colaborador-fotos"

func RegisterFotosRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathFotos, middleWares...)
	g.GET(":id", handleGetFoto)
	g.POST(":id", handleCreateFoto)
}

func handleGetFoto(c *gin.Context) {
	bytes, err := DetailFotoFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, "image/png", bytes)
}

func handleCreateFoto(c *gin.Context) {
	id := parseIdParam(c)

	file, err := c.FormFile("file")
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	src, err := file.Open()
	if err != nil {
		panic(err)
	}
	defer src.Close()

	if err := CreateFotoFunc(id, src, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{})
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	return id
}
