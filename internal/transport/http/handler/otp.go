package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mubs-locator/internal/application/otp"
	"github.com/mubs-locator/internal/domain"
)

var errMissingOTP = fmt.Errorf("email and otp are required: %w", domain.ErrInvalidArgument)

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// OTPHandler serves issue, resend and verify.
type OTPHandler struct {
	svc              otp.Service
	acceptClientCode bool
}

func NewOTPHandler(svc otp.Service, acceptClientCode bool) *OTPHandler {
	return &OTPHandler{svc: svc, acceptClientCode: acceptClientCode}
}

// Send issues a code. A client-supplied otp is used only when the server is
// configured to accept one; otherwise the server generates it.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeOTPError(w, domain.ErrInvalidArgument)
		return
	}
	var (
		res *otp.IssueResult
		err error
	)
	if h.acceptClientCode && strings.TrimSpace(req.OTP) != "" {
		res, err = h.svc.Issue(r.Context(), req.Email, req.OTP)
	} else if h.acceptClientCode {
		err = errMissingOTP
	} else {
		res, err = h.svc.IssueGenerated(r.Context(), req.Email)
	}
	writeIssueResult(w, res, err)
}

func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeOTPError(w, domain.ErrInvalidArgument)
		return
	}
	res, err := h.svc.Resend(r.Context(), req.Email)
	writeIssueResult(w, res, err)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeOTPError(w, domain.ErrInvalidArgument)
		return
	}
	if err := h.svc.Verify(r.Context(), req.Email, req.OTP); err != nil {
		writeOTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{Success: true, Email: domain.NormalizeIdentity(req.Email)})
}

func writeIssueResult(w http.ResponseWriter, res *otp.IssueResult, err error) {
	if err != nil {
		status, msg, kind := statusFor(err)
		env := OTPEnvelope{Error: msg, Code: kind}
		if res != nil {
			env.Email = res.Identity
			env.ExpiresAt = &res.ExpiresAt
		}
		writeJSON(w, status, env)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{Success: true, Email: res.Identity, ExpiresAt: &res.ExpiresAt})
}

func writeOTPError(w http.ResponseWriter, err error) {
	status, msg, kind := statusFor(err)
	writeJSON(w, status, OTPEnvelope{Error: msg, Code: kind})
}
