package bizerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"oficina/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	if bizErr, ok := genericErr.(common.BizError); ok {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request: io.EOF (no body).
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax error
	if syntaxErr, ok := genericErr.(*json.SyntaxError); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format", Message: "invalid body format", Data: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		c.Abort()
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, &common.ErrorBody{Code: "common.unauthenticated", Message: "unauthenticated"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrTooManyLoginAttempts) {
		c.JSON(http.StatusTooManyRequests, &common.ErrorBody{Code: "session.too_many_login_attempts", Message: "too many login attempts"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "security.forbidden", Message: "access forbidden"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrNoContent) {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	if errors.Is(genericErr, ErrProdutoNotFound) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: "previsao.produto_not_found", Message: "referenced produto not found, forecast aborted"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrCalendarioInvalido) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "calendario.invalid", Message: "calendario invalido"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrPrevisaoEncerrada) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "previsao.encerrada", Message: "previsao is not em_andamento"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrLoteEncerrado) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "lote.encerrado", Message: "lote is not em_andamento"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrProducaoEmAberto) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "lote.producao_em_aberto", Message: "producao already em_aberto"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrStatusInvalido) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "common.invalid_status", Message: "invalid status transition"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrUserNameUsed) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "account.name_used", Message: "user name is already used"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrInvalidPassword) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "account.invalid_password", Message: "invalid password"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, gorm.ErrRecordNotFound) || errors.Is(genericErr, ErrNotFound) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: "common.record_not_found", Message: "record not found"})
		c.Abort()
		return
	}

	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: err.Error()})
	c.Abort()
}
