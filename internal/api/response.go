package api

import (
	"errors"
	"net/http"

	"fjacquet/bucket-ledger/internal/ledgererror"

	"github.com/gin-gonic/gin"
)

// Business codes carried next to the HTTP status
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// Success writes data with CodeOK
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes an error message with its HTTP status and business code
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail maps a typed ledger error onto its HTTP status
func Fail(c *gin.Context, err error) {
	var verr *ledgererror.ValidationError
	var nferr *ledgererror.NotFoundError
	switch {
	case errors.As(err, &verr):
		Error(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
	case errors.As(err, &nferr):
		Error(c, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, CodeServerErr, err.Error())
	}
}
