package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/repository"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: msg,
	})
}

// storeError maps repository sentinels onto HTTP statuses
func storeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, repository.ErrUnknownSecurity):
		status, code = http.StatusUnprocessableEntity, "referential_violation"
	case errors.Is(err, repository.ErrSecurityHasPrices):
		status, code = http.StatusConflict, "delete_restricted"
	case errors.Is(err, repository.ErrDuplicateKey):
		status, code = http.StatusConflict, "duplicate"
	case errors.Is(err, repository.ErrImmutableRow):
		status, code = http.StatusConflict, "immutable"
	case errors.Is(err, repository.ErrSecurityNotFound), errors.Is(err, repository.ErrExchangeNotFound):
		status, code = http.StatusNotFound, "not_found"
	}
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

// intQuery reads a non-negative integer query parameter
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(c, key+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
