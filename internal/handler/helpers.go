package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"straublot/internal/apierror"
	"straublot/internal/middleware"
	"straublot/internal/model"
	"straublot/internal/repository"
	"straublot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			return v.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// sessao returns the request's session. JWTAuth guarantees it on protected
// routes; a missing one answers 401.
func sessao(c *gin.Context) (model.Sessao, bool) {
	s, ok := middleware.GetSessao(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
	}
	return s, ok
}

// responderErro maps service errors to HTTP responses. Anything unknown goes
// to ErrorHandler as a 500.
func responderErro(c *gin.Context, err error) {
	switch {
	case service.ErroCalculo(err):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSemPermissao):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, repository.ErrOperacaoNaoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, repository.ErrTabelaNaoProvisionada):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierror.New("A planilha de operações não foi provisionada. Execute cmd/provisionar e tente novamente."))
	case errors.Is(err, repository.ErrPlanilhaIndisponivel):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierror.New("Não foi possível acessar a planilha. Tente novamente em instantes."))
	default:
		_ = c.Error(err)
	}
}
