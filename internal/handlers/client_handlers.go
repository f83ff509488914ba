package handlers

import (
	"errors"
	"net/http"

	"facility_crm_backend/internal/services"
	"facility_crm_backend/internal/views"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if !bindJSON(c, &req, "CreateClient") {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already exists.", err.Error()))
			return
		}
		respondServiceError(c, err, "create client")
		return
	}
	utils.LogInfo("Client created", map[string]interface{}{"client_id": client.ID})
	c.JSON(http.StatusCreated, client)
}

// GetClients handles fetching all clients, optionally narrowed by ?search=
// over name, email and phone.
func (h *ClientHandler) GetClients(c *gin.Context) {
	page := views.NewClientsPage(c.Request.Context(), h.clientService)
	defer page.Close()

	if err := page.Load(c.Request.Context()); err != nil {
		respondServiceError(c, err, "fetch clients")
		return
	}
	page.SetSearch(c.Query("search"))
	clients := page.State().Filtered

	c.JSON(http.StatusOK, gin.H{
		"data":  clients,
		"total": len(clients),
	})
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
			return
		}
		respondServiceError(c, err, "fetch client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles updating a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	idStr := c.Param("id")
	var req services.UpdateClientRequest
	if !bindJSON(c, &req, "UpdateClient") {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), idStr, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		case errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already exists.", err.Error()))
		default:
			respondServiceError(c, err, "update client")
		}
		return
	}
	utils.LogInfo("Client updated", map[string]interface{}{"client_id": idStr})
	c.JSON(http.StatusOK, client)
}
