// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/codesubmit/internal/platform/ctxutil"
	"github.com/taibuivan/codesubmit/internal/platform/i18n"
	requestutil "github.com/taibuivan/codesubmit/internal/platform/request"
	"github.com/taibuivan/codesubmit/internal/platform/respond"
)

// Acknowledgement is the JSON body returned for an accepted submission.
type Acknowledgement struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// HandlerOptions configures a [Handler].
type HandlerOptions struct {
	// BasePath is where the handler is mounted, e.g. "/submit".
	BasePath string

	// MaxFormBytes caps the request body.
	MaxFormBytes int64
}

type Handler struct {
	service      *Service
	basePath     string
	maxFormBytes int64
}

func NewHandler(service *Service, options HandlerOptions) *Handler {
	if options.MaxFormBytes <= 0 {
		options.MaxFormBytes = 5 << 20
	}
	return &Handler{
		service:      service,
		basePath:     strings.TrimSuffix(options.BasePath, "/"),
		maxFormBytes: options.MaxFormBytes,
	}
}

// RegisterRoutes expects trailing slashes to be stripped upstream.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.showForm)
	router.Post("/", handler.submit)
	router.Get("/success", handler.success)
	router.Get("/send_code", handler.showForm)
	router.Post("/send_code", handler.sendCode)
}

func (handler *Handler) showForm(writer http.ResponseWriter, request *http.Request) {
	handler.renderForm(writer, request, http.StatusOK, Form{}, nil)
}

func (handler *Handler) success(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	render(writer, http.StatusOK, "success.html", successPage{
		page:    newPage(ctx, i18n.MsgSuccessTitle),
		Message: i18n.Sprintf(ctx, i18n.MsgSubmitted),
		FormURL: handler.basePath + "/",
	})
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	handler.accept(writer, request, handler.service.Submit)
}

func (handler *Handler) sendCode(writer http.ResponseWriter, request *http.Request) {
	handler.accept(writer, request, handler.service.SubmitAndSend)
}

func (handler *Handler) accept(
	writer http.ResponseWriter,
	request *http.Request,
	action func(context.Context, Form) (*Submission, error),
) {
	if err := requestutil.ParseForm(writer, request, handler.maxFormBytes); err != nil {
		handler.fail(writer, request, Form{}, err)
		return
	}

	form := FormFromRequest(request)
	submission, err := action(request.Context(), form)
	if err != nil {
		handler.fail(writer, request, form, err)
		return
	}

	respond.JSON(writer, http.StatusOK, Acknowledgement{
		Success: true,
		Message: i18n.Sprintf(request.Context(), i18n.MsgSubmitted),
		ID:      submission.ID,
	})
}

// fail answers JSON clients with the error envelope and browsers with HTML:
// the form again for field errors, an error page otherwise.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, form Form, err error) {
	if respond.WantsJSON(request) {
		respond.Error(writer, request, err)
		return
	}

	appError := respond.Classify(request, err)
	if len(appError.Details) > 0 {
		handler.renderForm(writer, request, http.StatusUnprocessableEntity, form, appError.FieldMessages())
		return
	}

	ctx := request.Context()
	render(writer, appError.HTTPStatus, "error.html", errorPage{
		page:      newPage(ctx, i18n.MsgErrorTitle),
		Message:   appError.Message,
		RequestID: ctxutil.GetRequestID(ctx),
	})
}

func (handler *Handler) renderForm(writer http.ResponseWriter, request *http.Request, status int, form Form, errors map[string]string) {
	rules := handler.service.Rules()
	render(writer, status, "form.html", formPage{
		page:       newPage(request.Context(), i18n.MsgPageTitle),
		Form:       form,
		Errors:     errors,
		MaxLength:  rules.LanguageMaxLength,
		Languages:  rules.Languages,
		SuccessURL: handler.basePath + "/success/",
	})
}
