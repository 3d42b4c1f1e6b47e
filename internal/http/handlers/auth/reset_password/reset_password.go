package resetpassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/resettoken"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/services"
	service "passreset/internal/core/services/reset_password"
	"passreset/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(
			&i.Token,
			validation.Required,
			validation.Length(resettoken.TokenLength, resettoken.TokenLength),
			is.Hexadecimal,
		),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	// Deployments also mount this handler with the token in the path.
	if pathToken := chi.URLParam(r, "token"); pathToken != "" {
		input.Token = pathToken
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:       resettoken.Token(input.Token),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if errors.Is(err, resettoken.ErrTokenDoesNotExist) || errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderNotFound(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.RenderOK(rw)
}
