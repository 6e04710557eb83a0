package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/logger"
	"spendchat/internal/models"
	"spendchat/internal/otp"
	"spendchat/internal/validator"
)

// otpService issues and checks one-time codes for the web signup and signin flows.
type otpService struct {
	users      UserServicer
	verifier   Verifier
	challenges otp.ChallengeStore
	audit      AuditServicer
}

// NewOTPService creates a new OTPServicer.
func NewOTPService(users UserServicer, verifier Verifier, challenges otp.ChallengeStore, audit AuditServicer) OTPServicer {
	return &otpService{
		users:      users,
		verifier:   verifier,
		challenges: challenges,
		audit:      audit,
	}
}

// RequestCode sends a code to phone and stores the provider request id,
// replacing any challenge already pending for that number.
func (s *otpService) RequestCode(ctx context.Context, phone string) (string, error) {
	phone = models.CanonicalPhone(phone)
	if !validator.IsPhone(phone) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "phone number is invalid")
	}

	result, err := s.verifier.StartVerification(ctx, phone)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	if !result.OK() {
		return "", apperrors.Wrap(apperrors.ErrOTPSendFailed,
			fmt.Errorf("verify status %s: %s", result.Status, result.ErrorText))
	}

	if _, err := s.challenges.Save(ctx, phone, result.RequestID); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.For("otp").Infow("otp requested", "phone", phone, "request_id", result.RequestID)
	return result.RequestID, nil
}

// Verify checks the code for the pending challenge and then signs the user
// up or in. The challenge is only consumed when every step succeeds.
func (s *otpService) Verify(ctx context.Context, in VerifyInput) (*models.User, error) {
	phone := models.CanonicalPhone(in.PhoneNumber)
	code := strings.TrimSpace(in.Code)
	if phone == "" || code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "phone number and code are required")
	}

	challenge, err := s.challenges.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, otp.ErrNoChallenge) {
			return nil, apperrors.ErrNoChallengeFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result, err := s.verifier.CheckVerification(ctx, challenge.RequestID, code)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	if !result.OK() {
		return nil, apperrors.ErrInvalidOTP
	}

	user, err := s.users.GetUserByPhone(phone)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	action := AuditActionSignin
	if in.NewUser {
		if user != nil {
			return nil, apperrors.ErrUserAlreadyExists
		}
		user, err = s.users.CreateUser(in.Name, phone, in.Currency)
		if err != nil {
			return nil, err
		}
		action = AuditActionSignup
	} else if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if err := s.challenges.Delete(ctx, phone); err != nil {
		logger.For("otp").Warnw("failed to delete consumed challenge", "phone", phone, "error", err)
	}

	s.audit.Log(user.ID, action, "user", user.ID, in.Source, nil)
	return user, nil
}
