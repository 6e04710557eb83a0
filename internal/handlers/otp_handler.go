package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/models"
	"spendchat/internal/services"
)

// OTPHandler serves the web signup and signin flow.
type OTPHandler struct {
	otpService services.OTPServicer
}

// NewOTPHandler creates a new OTPHandler.
func NewOTPHandler(otpService services.OTPServicer) *OTPHandler {
	return &OTPHandler{otpService: otpService}
}

// SendOTPRequest represents the OTP request payload
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone" example:"+15551230000"`
}

// SendOTPResponse is returned when a code was sent.
type SendOTPResponse struct {
	Message   string `json:"message" example:"OTP sent successfully"`
	RequestID string `json:"request_id"`
}

// VerifyOTPRequest represents the OTP verification payload. Name and
// currency are required when newUser is true.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
	Code        string `json:"code" binding:"required,max=10"`
	NewUser     bool   `json:"newUser"`
	Name        string `json:"name" binding:"max=100"`
	Currency    string `json:"currency" binding:"omitempty,iso4217"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Currency    string `json:"currency"`
}

// VerifyOTPResponse is returned after a successful verification.
type VerifyOTPResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Currency:    u.Currency,
	}
}

// SendOTP handles OTP requests
// @Summary     Send a one-time code
// @Description Sends a verification code to the phone number. A new request replaces any pending one.
// @Tags        otp
// @Accept      json
// @Produce     json
// @Param       request body SendOTPRequest true "Phone number"
// @Success     200 {object} SendOTPResponse "Code sent"
// @Failure     400 {object} ErrorResponse "Invalid input or provider rejected the number"
// @Failure     429 {object} ErrorResponse "Too many requests"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /otp/send [post]
func (h *OTPHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	requestID, err := h.otpService.RequestCode(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SendOTPResponse{Message: "OTP sent successfully", RequestID: requestID})
}

// VerifyOTP handles OTP verification
// @Summary     Verify a one-time code
// @Description Verifies the code and signs the user up (newUser=true) or in
// @Tags        otp
// @Accept      json
// @Produce     json
// @Param       request body VerifyOTPRequest true "Verification data"
// @Success     200 {object} VerifyOTPResponse "Verified"
// @Failure     400 {object} ErrorResponse "No pending code or invalid code"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "User already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /otp/verify [post]
func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.NewUser && (req.Name == "" || req.Currency == "") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and currency are required to sign up"))
		return
	}

	user, err := h.otpService.Verify(c.Request.Context(), services.VerifyInput{
		PhoneNumber: req.PhoneNumber,
		Code:        req.Code,
		NewUser:     req.NewUser,
		Name:        req.Name,
		Currency:    req.Currency,
		Source:      c.ClientIP(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	message := "OTP verified successfully"
	if req.NewUser {
		message = "User created successfully"
	}
	c.JSON(http.StatusOK, VerifyOTPResponse{Message: message, User: toUserResponse(user)})
}
