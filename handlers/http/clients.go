package httpHandler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"security-monitor/entities"
	"security-monitor/usecases"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	useCase *usecases.ClientUseCase
}

func NewClientHandler(useCase *usecases.ClientUseCase) *ClientHandler {
	return &ClientHandler{useCase: useCase}
}

type RegisterClientRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
}

// RegisterClient handles POST /api/v1/clients
func (h *ClientHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx := usecases.WithClientIP(c.Request.Context(), c.ClientIP())
	reg, err := h.useCase.RegisterClient(ctx, currentUserID(c), usecases.ClientInput(req))
	if reg == nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"message":       "Client registered successfully",
		"data":          reg.Client,
		"notifications": reg.Notifications,
	}
	if reg.House != nil {
		resp["house"] = newHouseViews([]entities.House{*reg.House})[0]
	}
	if err != nil {
		log.Printf("Client %d registered with errors: %v", reg.Client.ID, err)
		var steps []string
		for _, e := range unwrapSteps(err) {
			steps = append(steps, e.Error())
		}
		resp["message"] = "Client registered with errors"
		resp["errors"] = steps
	}
	c.JSON(http.StatusCreated, resp)
}

func unwrapSteps(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	var step *usecases.StepError
	if errors.As(err, &step) {
		return []error{step}
	}
	return []error{err}
}

// Search handles GET /api/v1/clients?q=
func (h *ClientHandler) Search(c *gin.Context) {
	clients, err := h.useCase.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients, "count": len(clients)})
}

// DeleteClient handles DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}
	ctx := usecases.WithClientIP(c.Request.Context(), c.ClientIP())
	if err := h.useCase.DeleteClient(ctx, currentUserID(c), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// Houses handles GET /api/v1/clients/:id/houses
func (h *ClientHandler) Houses(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}
	if _, err := h.useCase.GetClient(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	houses, err := h.useCase.Houses(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newHouseViews(houses), "count": len(houses)})
}
