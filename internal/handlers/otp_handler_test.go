package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/models"
	"spendchat/internal/services"
)

func setupOTPRouter(handler *OTPHandler) *gin.Engine {
	r := gin.New()
	r.POST("/otp/send", handler.SendOTP)
	r.POST("/otp/verify", handler.VerifyOTP)
	return r
}

func TestOTPHandler_SendOTP(t *testing.T) {
	t.Run("returns request id on success", func(t *testing.T) {
		var gotPhone string
		svc := &mockOTPService{
			requestCodeFn: func(_ context.Context, phone string) (string, error) {
				gotPhone = phone
				return "abc123", nil
			},
		}
		r := setupOTPRouter(NewOTPHandler(svc))

		rec := doRequest(r, "POST", "/otp/send", `{"phoneNumber":"+15551230000"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "OTP sent successfully" {
			t.Errorf("unexpected message %v", result["message"])
		}
		if result["request_id"] != "abc123" {
			t.Errorf("expected request_id abc123, got %v", result["request_id"])
		}
		if gotPhone != "+15551230000" {
			t.Errorf("unexpected phone %q", gotPhone)
		}
	})

	t.Run("returns 400 on invalid phone number", func(t *testing.T) {
		r := setupOTPRouter(NewOTPHandler(&mockOTPService{}))

		rec := doRequest(r, "POST", "/otp/send", `{"phoneNumber":"12ab"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("maps provider failure", func(t *testing.T) {
		svc := &mockOTPService{
			requestCodeFn: func(_ context.Context, _ string) (string, error) {
				return "", apperrors.ErrOTPSendFailed
			},
		}
		r := setupOTPRouter(NewOTPHandler(svc))

		rec := doRequest(r, "POST", "/otp/send", `{"phoneNumber":"+15551230000"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "OTP_SEND_FAILED")
	})
}

func TestOTPHandler_VerifyOTP(t *testing.T) {
	t.Run("signs up a new user", func(t *testing.T) {
		var got services.VerifyInput
		svc := &mockOTPService{
			verifyFn: func(_ context.Context, in services.VerifyInput) (*models.User, error) {
				got = in
				return &models.User{
					Base:        models.Base{ID: "u-1"},
					Name:        in.Name,
					PhoneNumber: in.PhoneNumber,
					Currency:    in.Currency,
				}, nil
			},
		}
		r := setupOTPRouter(NewOTPHandler(svc))

		rec := doRequest(r, "POST", "/otp/verify",
			`{"phoneNumber":"+15551230000","code":"1234","newUser":true,"name":"Asha","currency":"INR"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "User created successfully" {
			t.Errorf("unexpected message %v", result["message"])
		}
		user := result["user"].(map[string]interface{})
		if user["id"] != "u-1" || user["phoneNumber"] != "+15551230000" || user["currency"] != "INR" {
			t.Errorf("unexpected user %v", user)
		}
		if !got.NewUser || got.Code != "1234" || got.Source == "" {
			t.Errorf("unexpected verify input %+v", got)
		}
	})

	t.Run("signs in an existing user", func(t *testing.T) {
		r := setupOTPRouter(NewOTPHandler(&mockOTPService{}))

		rec := doRequest(r, "POST", "/otp/verify", `{"phoneNumber":"+15551230000","code":"1234"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["message"] != "OTP verified successfully" {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("requires name and currency for signup", func(t *testing.T) {
		called := false
		svc := &mockOTPService{
			verifyFn: func(_ context.Context, _ services.VerifyInput) (*models.User, error) {
				called = true
				return &models.User{}, nil
			},
		}
		r := setupOTPRouter(NewOTPHandler(svc))

		rec := doRequest(r, "POST", "/otp/verify", `{"phoneNumber":"+15551230000","code":"1234","newUser":true}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		if called {
			t.Error("expected verification to be skipped")
		}
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		r := setupOTPRouter(NewOTPHandler(&mockOTPService{}))

		rec := doRequest(r, "POST", "/otp/verify",
			`{"phoneNumber":"+15551230000","code":"1234","newUser":true,"name":"Asha","currency":"XYZ"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	errCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no pending code", apperrors.ErrNoChallengeFound, http.StatusBadRequest, "NO_CHALLENGE_FOUND"},
		{"wrong code", apperrors.ErrInvalidOTP, http.StatusBadRequest, "INVALID_OTP"},
		{"already registered", apperrors.ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"unknown user", apperrors.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockOTPService{
				verifyFn: func(_ context.Context, _ services.VerifyInput) (*models.User, error) {
					return nil, tc.err
				},
			}
			r := setupOTPRouter(NewOTPHandler(svc))

			rec := doRequest(r, "POST", "/otp/verify", `{"phoneNumber":"+15551230000","code":"1234"}`)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), tc.code)
		})
	}
}
