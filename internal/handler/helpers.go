package handler

import (
	"net/http"
	"reflect"

	"github.com/Neakz-star/La-Desesperanza/internal/apierror"
	"github.com/Neakz-star/La-Desesperanza/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error to its HTTP status. Internal errors are
// logged with the request id and replaced by a generic message; store outages
// answer 503 with a retry hint so clients can tell them apart from bad input.
func respondError(c *gin.Context, err error) {
	status := apierror.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("request failed")
		if status == http.StatusServiceUnavailable {
			c.JSON(status, apierror.New("Servicio no disponible. Intenta de nuevo más tarde"))
			return
		}
		c.JSON(status, apierror.New("Error interno del servidor"))
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

// parseIDParam reads a uuid path parameter; a malformed id answers 400.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Identificador invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user's id. The Require* middleware
// guarantees the session exists on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	data, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Debes iniciar sesión"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(data.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Debes iniciar sesión"))
		return uuid.Nil, false
	}
	return id, true
}
