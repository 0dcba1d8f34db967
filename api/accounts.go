package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/service/accounts"
)

type AccountHandler struct {
	service accounts.AccountUseCase
}

func NewAccountHandler(service accounts.AccountUseCase) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Register(router *gin.RouterGroup) {
	router.POST("/admins", h.registerAdmin)
	router.POST("/airlines", h.registerAirline)
	router.POST("/customers", h.registerCustomer)
	router.POST("/users/:id/role", h.assignRole)
	router.GET("/users/by-username/:username", h.userByUsername)
}

func (h *AccountHandler) registerAdmin(c *gin.Context) {
	var input accounts.RegisterAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, func() (*accounts.Account, domain.FieldErrors, error) {
		return h.service.RegisterAdmin(c.Request.Context(), input)
	})
}

func (h *AccountHandler) registerAirline(c *gin.Context) {
	var input accounts.RegisterAirlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, func() (*accounts.Account, domain.FieldErrors, error) {
		return h.service.RegisterAirline(c.Request.Context(), input)
	})
}

func (h *AccountHandler) registerCustomer(c *gin.Context) {
	var input accounts.RegisterCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, func() (*accounts.Account, domain.FieldErrors, error) {
		return h.service.RegisterCustomer(c.Request.Context(), input)
	})
}

func (h *AccountHandler) respond(c *gin.Context, register func() (*accounts.Account, domain.FieldErrors, error)) {
	account, ferrs, err := register()
	if err != nil {
		errorResponse(c, err)
		return
	}
	if ferrs != nil {
		fieldErrorsResponse(c, ferrs)
		return
	}
	c.JSON(http.StatusCreated, account)
}

type assignRoleRequest struct {
	RoleName string `json:"role_name"`
}

func (h *AccountHandler) assignRole(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.service.AssignRole(c.Request.Context(), id, req.RoleName)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) userByUsername(c *gin.Context) {
	user, err := h.service.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	if len(user) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
