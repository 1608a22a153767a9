package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/felixgeelhaar/rendezvous/internal/app"
	"github.com/felixgeelhaar/rendezvous/internal/directory/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/directory/application/queries"
	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
)

// ContactController handles the contacts endpoints.
type ContactController struct {
	container *app.Container
	logger    *slog.Logger
}

// NewContactController creates a new controller.
func NewContactController(container *app.Container, logger *slog.Logger) *ContactController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactController{container: container, logger: logger}
}

type contactRequest struct {
	Email       string `json:"email" query:"email"`
	DisplayName string `json:"displayName"`
}

type contactsResponse struct {
	Status   string           `json:"status"`
	Contacts []domain.Contact `json:"contacts"`
}

// List handles GET /contacts. The optional q parameter filters by name or email.
func (c *ContactController) List(ctx echo.Context) error {
	contacts, err := c.container.ListContactsHandler.Handle(ctx.Request().Context(), queries.ListContactsQuery{Search: ctx.QueryParam("q")})
	if err != nil {
		c.logger.ErrorContext(ctx.Request().Context(), "list contacts failed", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to load contacts.")
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return ctx.JSON(http.StatusOK, contactsResponse{Status: "success", Contacts: contacts})
}

// Add handles POST /contacts.
func (c *ContactController) Add(ctx echo.Context) error {
	var req contactRequest
	if err := ctx.Bind(&req); err != nil || req.Email == "" || req.DisplayName == "" {
		return errorJSON(ctx, http.StatusBadRequest, "Email and display name are required.")
	}

	_, err := c.container.AddContactHandler.Handle(ctx.Request().Context(), commands.AddContactCommand{
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, messageResponse{Status: "success", Message: "Contact added successfully."})
	case errors.Is(err, domain.ErrContactExists):
		return errorJSON(ctx, http.StatusOK, "Contact with this email already exists.")
	case errors.Is(err, domain.ErrContactInvalid):
		return errorJSON(ctx, http.StatusBadRequest, "Email and display name are required.")
	default:
		c.logger.ErrorContext(ctx.Request().Context(), "add contact failed", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to add contact.")
	}
}

// Delete handles DELETE /contacts. The email may come in the body or the query.
func (c *ContactController) Delete(ctx echo.Context) error {
	var req contactRequest
	if err := ctx.Bind(&req); err != nil || req.Email == "" {
		return errorJSON(ctx, http.StatusBadRequest, "Email is required for deletion.")
	}

	err := c.container.DeleteContactHandler.Handle(ctx.Request().Context(), commands.DeleteContactCommand{Email: req.Email})
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, messageResponse{Status: "success", Message: "Contact deleted successfully."})
	case errors.Is(err, domain.ErrContactNotFound):
		return errorJSON(ctx, http.StatusOK, "Contact not found.")
	default:
		c.logger.ErrorContext(ctx.Request().Context(), "delete contact failed", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to delete contact.")
	}
}
