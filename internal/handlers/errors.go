package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var userMessages = map[failure.Kind]string{
	failure.KindNotFound:       "The selected plant type is not supported.",
	failure.KindLoad:           "The model for this plant type could not be loaded.",
	failure.KindDecode:         "Invalid image. Please upload a valid JPEG or PNG file.",
	failure.KindInference:      "Error occurred while processing the image.",
	failure.KindInvalidRequest: "The request is missing a plant type or an image.",
}

func statusFor(kind failure.Kind) int {
	switch kind {
	case failure.KindNotFound:
		return http.StatusNotFound
	case failure.KindLoad:
		return http.StatusServiceUnavailable
	case failure.KindDecode:
		return http.StatusUnprocessableEntity
	case failure.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	kind := failure.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		h.logger.Info("Request rejected", zap.String("kind", string(kind)), zap.Error(err))
	}

	msg := userMessages[kind]
	var fe *failure.Error
	if (kind == failure.KindInvalidRequest || kind == failure.KindNotFound) && errors.As(err, &fe) && fe.Err != nil {
		msg = fe.Err.Error()
	}
	c.AbortWithStatusJSON(status, errorBody{Kind: string(kind), Message: msg})
}
