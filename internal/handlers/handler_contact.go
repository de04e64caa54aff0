package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// contactHandler handles HTTP requests related to customers and suppliers.
type contactHandler struct {
	contactService portssvc.ContactSvcFacade
}

func newContactHandler(cs portssvc.ContactSvcFacade) *contactHandler {
	return &contactHandler{
		contactService: cs,
	}
}

// registerContactRoutes registers contact routes nested under a specific company.
func registerContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	h := newContactHandler(contactService)

	contacts := rg.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:contact_id", h.getContact)
		contacts.PUT("/:contact_id", h.updateContact)
		contacts.DELETE("/:contact_id", h.deactivateContact)
	}
}

// createContact godoc
// @Summary Create a new contact
// @Description Creates a new customer, supplier or both for the company.
// @Tags contacts
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   contact body dto.CreateContactRequest true "Contact details"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create contact"
// @Security ActorAuth
// @Router /companies/{company_id}/contacts [post]
func (h *contactHandler) createContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateContact", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newContact, err := h.contactService.CreateContact(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create contact in service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToContactResponse(*newContact))
}

// listContacts godoc
// @Summary List contacts
// @Description Retrieves a paginated list of the company's contacts.
// @Tags contacts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Max results" default(20)
// @Param   offset query int false "Results to skip" default(0)
// @Success 200 {array} dto.ContactResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list contacts"
// @Security ActorAuth
// @Router /companies/{company_id}/contacts [get]
func (h *contactHandler) listContacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list contacts from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToContactResponses(contacts))
}

// getContact godoc
// @Summary Get a contact by ID
// @Description Retrieves details of a specific contact.
// @Tags contacts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   contact_id path string true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Failed to get contact"
// @Security ActorAuth
// @Router /companies/{company_id}/contacts/{contact_id} [get]
func (h *contactHandler) getContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	contactID := c.Param("contact_id")

	contact, err := h.contactService.GetContactByID(c.Request.Context(), companyID, contactID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		logger.Error("Failed to get contact from service", slog.String("contact_id", contactID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get contact"})
		return
	}

	c.JSON(http.StatusOK, dto.ToContactResponse(*contact))
}

// updateContact godoc
// @Summary Update a contact
// @Description Updates a contact's details.
// @Tags contacts
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   contact_id path string true "Contact ID"
// @Param   contact body dto.UpdateContactRequest true "Fields to update"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Failed to update contact"
// @Security ActorAuth
// @Router /companies/{company_id}/contacts/{contact_id} [put]
func (h *contactHandler) updateContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	contactID := c.Param("contact_id")

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateContact", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.contactService.UpdateContact(c.Request.Context(), companyID, contactID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update contact in service", slog.String("contact_id", contactID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToContactResponse(*updated))
}

// deactivateContact godoc
// @Summary Deactivate a contact
// @Description Marks a contact as inactive. Its documents remain readable.
// @Tags contacts
// @Param   company_id path string true "Company ID"
// @Param   contact_id path string true "Contact ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Failed to deactivate contact"
// @Security ActorAuth
// @Router /companies/{company_id}/contacts/{contact_id} [delete]
func (h *contactHandler) deactivateContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	contactID := c.Param("contact_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.contactService.DeactivateContact(c.Request.Context(), companyID, contactID, actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		logger.Error("Failed to deactivate contact in service", slog.String("contact_id", contactID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate contact"})
		return
	}

	c.Status(http.StatusNoContent)
}
