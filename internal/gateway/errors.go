package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable - предохранитель открыт, запрос к шлюзу не отправлялся.
var ErrUnavailable = errors.New("payment gateway unavailable")

// APIError - ответ шлюза с кодом вне 2xx. Body хранит тело ответа без изменений.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway responded %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// AsAPIError достаёт APIError из цепочки ошибок.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
