package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ctchen222/LLM-Arena/internal/api/models"
	"ctchen222/LLM-Arena/internal/api/response"
	"ctchen222/LLM-Arena/internal/api/service"
)

// OperatorController handles operator-related HTTP requests.
type OperatorController struct {
	operatorService service.OperatorService
}

// NewOperatorController creates a new OperatorController.
func NewOperatorController(operatorService service.OperatorService) *OperatorController {
	return &OperatorController{
		operatorService: operatorService,
	}
}

// Register handles the operator registration endpoint.
func (oc *OperatorController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := oc.operatorService.Register(c.Request.Context(), &req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		response.ErrorResponse(c, status, err.Error())
		return
	}

	response.SuccessResponse(c, gin.H{"message": "Operator created successfully"})
}

// Login handles the operator login endpoint.
func (oc *OperatorController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := oc.operatorService.Login(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	response.SuccessResponse(c, models.LoginResponse{Token: token})
}

// AuthRequired rejects requests without a valid bearer token.
func (oc *OperatorController) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		username, err := oc.operatorService.VerifyToken(token)
		if err != nil {
			response.ErrorResponse(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("operator", username)
		c.Next()
	}
}
