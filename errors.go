// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"fmt"

	"golang.org/x/xerrors"
)

const (
	// ResponseSuccess corresponds to TPM_RC_SUCCESS.
	ResponseSuccess ResponseCode = 0x000

	// ResponseBadTag corresponds to TPM_RC_BAD_TAG, and is returned for a
	// command with a tag that isn't TPM_ST_NO_SESSIONS or TPM_ST_SESSIONS.
	ResponseBadTag ResponseCode = 0x01e

	responseCodeFmt1    ResponseCode = 1 << 7  // RC_FMT1
	responseCodeVer1    ResponseCode = 1 << 8  // RC_VER1
	responseCodeVendor  ResponseCode = 1 << 10 // TPM_RC_T
	responseCodeWarning ResponseCode = 1 << 11 // TPM_RC_S

	responseCodeE0 ResponseCode = 0x07f // format-zero error number mask
	responseCodeE1 ResponseCode = 0x03f // format-one error number mask
	responseCodeP  ResponseCode = 1 << 6
	responseCodeN  ResponseCode = 0xf00
)

// ErrorCode represents an error code from the TPM. The format-one error
// numbers are offset by errorCode1Start so that they share a single
// namespace with the format-zero error numbers.
type ErrorCode uint8

const (
	errorCode1Start ErrorCode = 0x80

	// Format-zero error codes. The TPM encodes these as RC_VER1 + code.

	ErrorInitialize      ErrorCode = 0x00 // TPM_RC_INITIALIZE
	ErrorFailure         ErrorCode = 0x01 // TPM_RC_FAILURE
	ErrorSequence        ErrorCode = 0x03 // TPM_RC_SEQUENCE
	ErrorPrivate         ErrorCode = 0x0b // TPM_RC_PRIVATE
	ErrorHMAC            ErrorCode = 0x19 // TPM_RC_HMAC
	ErrorDisabled        ErrorCode = 0x20 // TPM_RC_DISABLED
	ErrorExclusive       ErrorCode = 0x21 // TPM_RC_EXCLUSIVE
	ErrorAuthType        ErrorCode = 0x24 // TPM_RC_AUTH_TYPE
	ErrorAuthMissing     ErrorCode = 0x25 // TPM_RC_AUTH_MISSING
	ErrorPolicy          ErrorCode = 0x26 // TPM_RC_POLICY
	ErrorPCR             ErrorCode = 0x27 // TPM_RC_PCR
	ErrorPCRChanged      ErrorCode = 0x28 // TPM_RC_PCR_CHANGED
	ErrorUpgrade         ErrorCode = 0x2d // TPM_RC_UPGRADE
	ErrorTooManyContexts ErrorCode = 0x2e // TPM_RC_TOO_MANY_CONTEXTS
	ErrorAuthUnavailable ErrorCode = 0x2f // TPM_RC_AUTH_UNAVAILABLE
	ErrorReboot          ErrorCode = 0x30 // TPM_RC_REBOOT
	ErrorUnbalanced      ErrorCode = 0x31 // TPM_RC_UNBALANCED
	ErrorCommandSize     ErrorCode = 0x42 // TPM_RC_COMMAND_SIZE
	ErrorCommandCode     ErrorCode = 0x43 // TPM_RC_COMMAND_CODE
	ErrorAuthsize        ErrorCode = 0x44 // TPM_RC_AUTHSIZE
	ErrorAuthContext     ErrorCode = 0x45 // TPM_RC_AUTH_CONTEXT
	ErrorNVRange         ErrorCode = 0x46 // TPM_RC_NV_RANGE
	ErrorNVSize          ErrorCode = 0x47 // TPM_RC_NV_SIZE
	ErrorNVLocked        ErrorCode = 0x48 // TPM_RC_NV_LOCKED
	ErrorNVAuthorization ErrorCode = 0x49 // TPM_RC_NV_AUTHORIZATION
	ErrorNVUninitialized ErrorCode = 0x4a // TPM_RC_NV_UNINITIALIZED
	ErrorNVSpace         ErrorCode = 0x4b // TPM_RC_NV_SPACE
	ErrorNVDefined       ErrorCode = 0x4c // TPM_RC_NV_DEFINED
	ErrorBadContext      ErrorCode = 0x50 // TPM_RC_BAD_CONTEXT
	ErrorCpHash          ErrorCode = 0x51 // TPM_RC_CPHASH
	ErrorParent          ErrorCode = 0x52 // TPM_RC_PARENT
	ErrorNeedsTest       ErrorCode = 0x53 // TPM_RC_NEEDS_TEST
	ErrorNoResult        ErrorCode = 0x54 // TPM_RC_NO_RESULT
	ErrorSensitive       ErrorCode = 0x55 // TPM_RC_SENSITIVE

	// Format-one error codes. The TPM encodes these as RC_FMT1 + code,
	// with optional handle, parameter or session index bits.

	ErrorAsymmetric   ErrorCode = errorCode1Start + 0x01 // TPM_RC_ASYMMETRIC
	ErrorAttributes   ErrorCode = errorCode1Start + 0x02 // TPM_RC_ATTRIBUTES
	ErrorHash         ErrorCode = errorCode1Start + 0x03 // TPM_RC_HASH
	ErrorValue        ErrorCode = errorCode1Start + 0x04 // TPM_RC_VALUE
	ErrorHierarchy    ErrorCode = errorCode1Start + 0x05 // TPM_RC_HIERARCHY
	ErrorKeySize      ErrorCode = errorCode1Start + 0x07 // TPM_RC_KEY_SIZE
	ErrorMGF          ErrorCode = errorCode1Start + 0x08 // TPM_RC_MGF
	ErrorMode         ErrorCode = errorCode1Start + 0x09 // TPM_RC_MODE
	ErrorType         ErrorCode = errorCode1Start + 0x0a // TPM_RC_TYPE
	ErrorHandle       ErrorCode = errorCode1Start + 0x0b // TPM_RC_HANDLE
	ErrorKDF          ErrorCode = errorCode1Start + 0x0c // TPM_RC_KDF
	ErrorRange        ErrorCode = errorCode1Start + 0x0d // TPM_RC_RANGE
	ErrorAuthFail     ErrorCode = errorCode1Start + 0x0e // TPM_RC_AUTH_FAIL
	ErrorNonce        ErrorCode = errorCode1Start + 0x0f // TPM_RC_NONCE
	ErrorPP           ErrorCode = errorCode1Start + 0x10 // TPM_RC_PP
	ErrorScheme       ErrorCode = errorCode1Start + 0x12 // TPM_RC_SCHEME
	ErrorSize         ErrorCode = errorCode1Start + 0x15 // TPM_RC_SIZE
	ErrorSymmetric    ErrorCode = errorCode1Start + 0x16 // TPM_RC_SYMMETRIC
	ErrorTag          ErrorCode = errorCode1Start + 0x17 // TPM_RC_TAG
	ErrorSelector     ErrorCode = errorCode1Start + 0x18 // TPM_RC_SELECTOR
	ErrorInsufficient ErrorCode = errorCode1Start + 0x1a // TPM_RC_INSUFFICIENT
	ErrorSignature    ErrorCode = errorCode1Start + 0x1b // TPM_RC_SIGNATURE
	ErrorKey          ErrorCode = errorCode1Start + 0x1c // TPM_RC_KEY
	ErrorPolicyFail   ErrorCode = errorCode1Start + 0x1d // TPM_RC_POLICY_FAIL
	ErrorIntegrity    ErrorCode = errorCode1Start + 0x1f // TPM_RC_INTEGRITY
	ErrorTicket       ErrorCode = errorCode1Start + 0x20 // TPM_RC_TICKET
	ErrorReservedBits ErrorCode = errorCode1Start + 0x21 // TPM_RC_RESERVED_BITS
	ErrorBadAuth      ErrorCode = errorCode1Start + 0x22 // TPM_RC_BAD_AUTH
	ErrorExpired      ErrorCode = errorCode1Start + 0x23 // TPM_RC_EXPIRED
	ErrorPolicyCC     ErrorCode = errorCode1Start + 0x24 // TPM_RC_POLICY_CC
	ErrorBinding      ErrorCode = errorCode1Start + 0x25 // TPM_RC_BINDING
	ErrorCurve        ErrorCode = errorCode1Start + 0x26 // TPM_RC_CURVE
	ErrorECCPoint     ErrorCode = errorCode1Start + 0x27 // TPM_RC_ECC_POINT

	// AnyErrorCode matches any error code when passed to IsTPMError,
	// IsTPMHandleError, IsTPMParameterError or IsTPMSessionError.
	AnyErrorCode ErrorCode = 0xff
)

// WarningCode represents a warning from the TPM. The TPM encodes these as
// RC_WARN + code.
type WarningCode uint8

const (
	WarningContextGap     WarningCode = 0x01 // TPM_RC_CONTEXT_GAP
	WarningObjectMemory   WarningCode = 0x02 // TPM_RC_OBJECT_MEMORY
	WarningSessionMemory  WarningCode = 0x03 // TPM_RC_SESSION_MEMORY
	WarningMemory         WarningCode = 0x04 // TPM_RC_MEMORY
	WarningSessionHandles WarningCode = 0x05 // TPM_RC_SESSION_HANDLES
	WarningObjectHandles  WarningCode = 0x06 // TPM_RC_OBJECT_HANDLES
	WarningLocality       WarningCode = 0x07 // TPM_RC_LOCALITY
	WarningYielded        WarningCode = 0x08 // TPM_RC_YIELDED
	WarningCanceled       WarningCode = 0x09 // TPM_RC_CANCELED
	WarningTesting        WarningCode = 0x0a // TPM_RC_TESTING
	WarningReferenceH0    WarningCode = 0x10 // TPM_RC_REFERENCE_H0
	WarningReferenceH1    WarningCode = 0x11 // TPM_RC_REFERENCE_H1
	WarningReferenceH2    WarningCode = 0x12 // TPM_RC_REFERENCE_H2
	WarningReferenceH3    WarningCode = 0x13 // TPM_RC_REFERENCE_H3
	WarningReferenceH4    WarningCode = 0x14 // TPM_RC_REFERENCE_H4
	WarningReferenceH5    WarningCode = 0x15 // TPM_RC_REFERENCE_H5
	WarningReferenceH6    WarningCode = 0x16 // TPM_RC_REFERENCE_H6
	WarningReferenceS0    WarningCode = 0x18 // TPM_RC_REFERENCE_S0
	WarningReferenceS1    WarningCode = 0x19 // TPM_RC_REFERENCE_S1
	WarningReferenceS2    WarningCode = 0x1a // TPM_RC_REFERENCE_S2
	WarningReferenceS3    WarningCode = 0x1b // TPM_RC_REFERENCE_S3
	WarningReferenceS4    WarningCode = 0x1c // TPM_RC_REFERENCE_S4
	WarningReferenceS5    WarningCode = 0x1d // TPM_RC_REFERENCE_S5
	WarningReferenceS6    WarningCode = 0x1e // TPM_RC_REFERENCE_S6
	WarningNVRate         WarningCode = 0x20 // TPM_RC_NV_RATE
	WarningLockout        WarningCode = 0x21 // TPM_RC_LOCKOUT
	WarningRetry          WarningCode = 0x22 // TPM_RC_RETRY
	WarningNVUnavailable  WarningCode = 0x23 // TPM_RC_NV_UNAVAILABLE

	// AnyWarningCode matches any warning code when passed to IsTPMWarning.
	AnyWarningCode WarningCode = 0xff
)

// AnyCommandCode matches any command code when passed to IsTPMError,
// IsTPMWarning, IsTPMHandleError, IsTPMParameterError or IsTPMSessionError.
const AnyCommandCode CommandCode = 0xffffffff

// AnyHandleIndex matches any handle when passed to IsTPMHandleError.
const AnyHandleIndex int = -1

// AnyParameterIndex matches any parameter when passed to
// IsTPMParameterError.
const AnyParameterIndex int = -1

// AnySessionIndex matches any session when passed to IsTPMSessionError.
const AnySessionIndex int = -1

// TctiError is returned from TPMContext methods when the transmission
// interface returns an error.
type TctiError struct {
	Op  string // The operation that caused the error
	err error
}

func (e *TctiError) Error() string {
	return fmt.Sprintf("cannot complete %s operation on TCTI: %v", e.Op, e.err)
}

func (e *TctiError) Unwrap() error {
	return e.err
}

// InvalidResponseError is returned from TPMContext methods when the TPM's
// response is invalid - because the packet framing is inconsistent, because
// the response authorization could not be verified, or because the
// response payload could not be unmarshalled.
type InvalidResponseError struct {
	Command CommandCode
	err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("TPM returned an invalid response for command %s: %v", e.Command, e.err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.err
}

// TPM1Error is returned from DecodeResponseCode when the TPM returns a
// response code defined by a TPM1.2 implementation.
type TPM1Error struct {
	Command CommandCode  // Command code associated with this error
	Code    ResponseCode // Response code
}

func (e *TPM1Error) Error() string {
	return fmt.Sprintf("TPM returned a 1.2 response code whilst executing command %s: 0x%08x", e.Command, uint32(e.Code))
}

// TPMVendorError is returned from DecodeResponseCode when the TPM returns
// a vendor defined response code.
type TPMVendorError struct {
	Command CommandCode  // Command code associated with this error
	Code    ResponseCode // Response code
}

func (e *TPMVendorError) Error() string {
	return fmt.Sprintf("TPM returned a vendor defined error whilst executing command %s: 0x%08x", e.Command, uint32(e.Code))
}

// TPMWarning is returned from DecodeResponseCode when the TPM returns a
// response code that indicates a warning.
type TPMWarning struct {
	Command CommandCode // Command code associated with this error
	Code    WarningCode // Warning code
}

func (e *TPMWarning) ResponseCode() ResponseCode {
	return responseCodeWarning | responseCodeVer1 | ResponseCode(e.Code)
}

func (e *TPMWarning) Error() string {
	return fmt.Sprintf("TPM returned a warning whilst executing command %s: 0x%03x", e.Command, uint32(e.ResponseCode()))
}

// TPMError is returned from DecodeResponseCode when the TPM returns a
// response code that indicates an error that isn't associated with a
// handle, parameter or session.
type TPMError struct {
	Command CommandCode // Command code associated with this error
	Code    ErrorCode   // Error code
}

func (e *TPMError) ResponseCode() ResponseCode {
	if e.Code >= errorCode1Start {
		return responseCodeFmt1 | ResponseCode(e.Code-errorCode1Start)
	}
	return responseCodeVer1 | ResponseCode(e.Code)
}

func (e *TPMError) Error() string {
	return fmt.Sprintf("TPM returned an error whilst executing command %s: 0x%03x", e.Command, uint32(e.ResponseCode()))
}

// TPMParameterError is returned from DecodeResponseCode when the TPM
// returns a response code that indicates an error that is associated with
// a command parameter. It wraps a *TPMError.
type TPMParameterError struct {
	*TPMError

	// Index is the 1-based index of the parameter associated with this
	// error.
	Index int
}

func (e *TPMParameterError) ResponseCode() ResponseCode {
	return e.TPMError.ResponseCode() | responseCodeP | ResponseCode(e.Index<<8)&responseCodeN
}

func (e *TPMParameterError) Error() string {
	return fmt.Sprintf("TPM returned an error for parameter %d whilst executing command %s: 0x%03x", e.Index, e.Command, uint32(e.ResponseCode()))
}

func (e *TPMParameterError) Unwrap() error {
	return e.TPMError
}

// TPMSessionError is returned from DecodeResponseCode when the TPM returns
// a response code that indicates an error that is associated with a
// session. It wraps a *TPMError.
type TPMSessionError struct {
	*TPMError

	// Index is the 1-based index of the session associated with this error.
	Index int
}

func (e *TPMSessionError) ResponseCode() ResponseCode {
	return e.TPMError.ResponseCode() | ResponseCode((e.Index|0x8)<<8)&responseCodeN
}

func (e *TPMSessionError) Error() string {
	return fmt.Sprintf("TPM returned an error for session %d whilst executing command %s: 0x%03x", e.Index, e.Command, uint32(e.ResponseCode()))
}

func (e *TPMSessionError) Unwrap() error {
	return e.TPMError
}

// TPMHandleError is returned from DecodeResponseCode when the TPM returns
// a response code that indicates an error that is associated with a
// command handle. It wraps a *TPMError.
type TPMHandleError struct {
	*TPMError

	// Index is the 1-based index of the handle associated with this error.
	Index int
}

func (e *TPMHandleError) ResponseCode() ResponseCode {
	return e.TPMError.ResponseCode() | ResponseCode(e.Index<<8)&responseCodeN
}

func (e *TPMHandleError) Error() string {
	return fmt.Sprintf("TPM returned an error for handle %d whilst executing command %s: 0x%03x", e.Index, e.Command, uint32(e.ResponseCode()))
}

func (e *TPMHandleError) Unwrap() error {
	return e.TPMError
}

// DecodeResponseCode decodes the response code provided via resp. If the
// response code is ResponseSuccess, it returns no error. The command code
// is used for adding context to the returned error.
func DecodeResponseCode(command CommandCode, resp ResponseCode) error {
	switch {
	case resp == ResponseSuccess:
		return nil
	case resp == ResponseBadTag:
		return &TPM1Error{command, resp}
	case resp&responseCodeFmt1 != 0:
		// A format-one response code.
		err := &TPMError{Command: command, Code: ErrorCode(resp&responseCodeE1) + errorCode1Start}

		switch {
		case resp&responseCodeP != 0:
			// An error associated with a parameter.
			return &TPMParameterError{err, int((resp & responseCodeN) >> 8)}
		case resp&responseCodeN&0x800 != 0:
			// An error associated with a session.
			return &TPMSessionError{err, int((resp&responseCodeN)>>8) & 0x7}
		case resp&responseCodeN != 0:
			// An error associated with a handle.
			return &TPMHandleError{err, int((resp & responseCodeN) >> 8)}
		default:
			return err
		}
	case resp&responseCodeVer1 == 0:
		// A TPM1.2 response code.
		return &TPM1Error{command, resp}
	case resp&responseCodeVendor != 0:
		// A vendor defined response code.
		return &TPMVendorError{command, resp}
	case resp&responseCodeWarning != 0:
		return &TPMWarning{Command: command, Code: WarningCode(resp & responseCodeE0)}
	default:
		return &TPMError{Command: command, Code: ErrorCode(resp & responseCodeE0)}
	}
}

// IsTPMError indicates whether the error is a *TPMError with the specified
// error code, originating from the specified command. Use AnyErrorCode and
// AnyCommandCode as wildcards.
func IsTPMError(err error, code ErrorCode, command CommandCode) bool {
	var e *TPMError
	if !xerrors.As(err, &e) {
		return false
	}
	return (code == AnyErrorCode || e.Code == code) && (command == AnyCommandCode || e.Command == command)
}

// IsTPMWarning indicates whether the error is a *TPMWarning with the
// specified warning code, originating from the specified command. Use
// AnyWarningCode and AnyCommandCode as wildcards.
func IsTPMWarning(err error, code WarningCode, command CommandCode) bool {
	var e *TPMWarning
	if !xerrors.As(err, &e) {
		return false
	}
	return (code == AnyWarningCode || e.Code == code) && (command == AnyCommandCode || e.Command == command)
}

// IsTPMParameterError indicates whether the error is a *TPMParameterError
// with the specified error code, command code and parameter index. Use
// AnyErrorCode, AnyCommandCode and AnyParameterIndex as wildcards.
func IsTPMParameterError(err error, code ErrorCode, command CommandCode, index int) bool {
	var e *TPMParameterError
	if !xerrors.As(err, &e) {
		return false
	}
	return (code == AnyErrorCode || e.Code == code) && (command == AnyCommandCode || e.Command == command) &&
		(index == AnyParameterIndex || e.Index == index)
}

// IsTPMSessionError indicates whether the error is a *TPMSessionError with
// the specified error code, command code and session index. Use
// AnyErrorCode, AnyCommandCode and AnySessionIndex as wildcards.
func IsTPMSessionError(err error, code ErrorCode, command CommandCode, index int) bool {
	var e *TPMSessionError
	if !xerrors.As(err, &e) {
		return false
	}
	return (code == AnyErrorCode || e.Code == code) && (command == AnyCommandCode || e.Command == command) &&
		(index == AnySessionIndex || e.Index == index)
}

// IsTPMHandleError indicates whether the error is a *TPMHandleError with
// the specified error code, command code and handle index. Use
// AnyErrorCode, AnyCommandCode and AnyHandleIndex as wildcards.
func IsTPMHandleError(err error, code ErrorCode, command CommandCode, index int) bool {
	var e *TPMHandleError
	if !xerrors.As(err, &e) {
		return false
	}
	return (code == AnyErrorCode || e.Code == code) && (command == AnyCommandCode || e.Command == command) &&
		(index == AnyHandleIndex || e.Index == index)
}
