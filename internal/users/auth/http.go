// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for the confirmation-code flow.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Both endpoints are public — identity is established by the
    mailed code, not by prior authentication.

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /signup : Starts (or repeats) enrollment, mails a one-time code.
//   - POST /token  : Exchanges a valid code for a signed access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/token", handler.exchangeToken)

	return router
}

// # Request Payloads

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type exchangeTokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

type exchangeTokenResponse struct {
	Token string `json:"token"`
}

/*
signUp handles enrollment and confirmation-code (re)delivery.

POST /api/v1/auth/signup

Description: Validates the identity pair and mails a fresh one-time code.
Repeating the call with the same pair resends a new code.

Request:
  - Body: signUpRequest (Username, Email)

Response:
  - 200: SignUpResult: The accepted username/email pair (never the code)
  - 400: Validation failure or pair collision with another account
  - 429: Resend cooldown active
  - 503: Confirmation mail could not be delivered
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Username: input.Username,
		Email:    input.Email,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
exchangeToken trades a confirmation code for an access token.

POST /api/v1/auth/token

Request:
  - Body: exchangeTokenRequest (Username, ConfirmationCode)

Response:
  - 200: exchangeTokenResponse: Signed JWT
  - 400: Wrong, consumed, or never-requested code
  - 404: Unknown username
  - 429: Too many wrong attempts
*/
func (handler *Handler) exchangeToken(writer http.ResponseWriter, request *http.Request) {
	var input exchangeTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	token, err := handler.authService.ExchangeToken(request.Context(), ExchangeInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, exchangeTokenResponse{Token: token})
}
