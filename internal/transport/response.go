package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teatro/backend/internal/entity"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// writeError maps domain errors onto HTTP status codes. Capacity shortages,
// version conflicts and duplicate emails are conflicts the client may retry
// or resolve; state violations and bad input are 400s.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, entity.ErrCustomerNotFound),
		errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrTicketOptionNotFound),
		errors.Is(err, entity.ErrReservationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrInsufficientCapacity),
		errors.Is(err, entity.ErrVersionConflict),
		errors.Is(err, entity.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrReservationPaid),
		errors.Is(err, entity.ErrEventNotOpen),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	c.JSON(status, ErrorResponse{
		Status:    status,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	})
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Status:    http.StatusBadRequest,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
