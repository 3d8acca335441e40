package handlers

import (
	"net/http"

	"mccb-go/internal/models"
	"mccb-go/internal/repository"
	"mccb-go/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomerHandler fronts the XML-file customer store used by the
// registration form.
type CustomerHandler struct {
	log   *zap.Logger
	store *repository.CustomerStore
}

func NewCustomerHandler(log *zap.Logger, store *repository.CustomerStore) *CustomerHandler {
	return &CustomerHandler{log: log, store: store}
}

type customerRequest struct {
	Name       string `json:"name" binding:"required"`
	Surname    string `json:"surname" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Newsletter bool   `json:"newsletter"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, surname and email are required"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	customer, err := h.store.Add(models.Customer{
		Name:       req.Name,
		Surname:    req.Surname,
		Email:      req.Email,
		Newsletter: req.Newsletter,
	})
	if err != nil {
		h.log.Error("Failed to store customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save registration"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.store.List()
	if err != nil {
		h.log.Error("Failed to read customer store", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// RawXML serves the backing file verbatim, for the import tooling.
func (h *CustomerHandler) RawXML(c *gin.Context) {
	xml, err := h.store.RawXML()
	if err != nil {
		h.log.Error("Failed to read customer store", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load customers")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}
