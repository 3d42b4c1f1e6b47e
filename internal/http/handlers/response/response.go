package response

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// detailResponse mirrors the body shape the previous backend emitted; API
// clients match on it.
type detailResponse struct {
	Detail string `json:"detail"`
}

func RenderNotFound(rw http.ResponseWriter) {
	Render(rw, detailResponse{Detail: "Not found."}, http.StatusNotFound)
}

func RenderOK(rw http.ResponseWriter) {
	Render(rw, detailResponse{Detail: "OK"}, http.StatusOK)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter) {
	RenderError(rw, "rate limit exceeded", http.StatusTooManyRequests)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
