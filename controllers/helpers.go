package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hvacops-backend/services"
	"hvacops-backend/utils"
)

// callerFrom reads the identity AuthMiddleware put on the context
func callerFrom(c *gin.Context) (services.Caller, bool) {
	userID, err := uuid.Parse(c.GetString(utils.ContextUserID))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return services.Caller{}, false
	}
	return services.NewCaller(userID, c.GetString(utils.ContextEmail), c.GetString(utils.ContextRole)), true
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto status codes. Unexpected errors are
// logged and hidden behind fallback.
func respondError(c *gin.Context, log *logrus.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, detail(err, services.ErrValidation))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, detail(err, services.ErrForbidden))
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, "Resource already exists")
	case errors.Is(err, services.ErrUnauthorized):
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(fallback)
		utils.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}

// detail strips the sentinel prefix from a wrapped error message
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func notFoundMessage(err error) string {
	what := detail(err, services.ErrNotFound)
	if what == services.ErrNotFound.Error() {
		return "Not found"
	}
	return strings.ToUpper(what[:1]) + what[1:] + " not found"
}
