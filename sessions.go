// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"fmt"
	"hash"
)

// sessionParam associates a session with the resource it authorizes (if
// it authorizes one) for a single command. It carries the nonces that
// cross-session parameter encryption contributes to the first
// authorization HMAC.
type sessionParam struct {
	session           sessionContextInternal
	associatedContext resourceContextInternal // the resource this session authorizes, nil for a non-auth session

	decryptNonce Nonce
	encryptNonce Nonce
}

// IsAuth indicates that this session is being used for authorization of a
// resource.
func (s *sessionParam) IsAuth() bool {
	return s.associatedContext != nil
}

// IsPassword indicates that this is a passphrase authorization rather than
// a session based one.
func (s *sessionParam) IsPassword() bool {
	return s.session.Handle() == HandlePW
}

func (s *sessionParam) data() *sessionContextData {
	return s.session.Data()
}

// computeSessionValue returns the key used for the authorization HMAC and
// for session based parameter encryption. The authorization value of the
// associated resource is included when the session isn't bound to that
// resource (or, for a policy session, when the policy includes
// TPM2_PolicyAuthValue or TPM2_PolicyPassword).
func (s *sessionParam) computeSessionValue() []byte {
	var key []byte
	key = append(key, s.data().SessionKey...)

	if s.associatedContext == nil {
		return key
	}

	data := s.data()
	switch {
	case data.SessionType == SessionTypePolicy && !data.PolicyAuthValue:
		// The auth value isn't included for a policy session unless the
		// policy contains TPM2_PolicyAuthValue or TPM2_PolicyPassword.
	case data.IsBound && bytes.Equal(data.BoundEntity, s.associatedContext.Name()):
		// The auth value isn't included for the entity the session is
		// bound to.
	default:
		key = append(key, s.associatedContext.GetAuthValue()...)
	}
	return key
}

func (s *sessionParam) computeHMAC(pHash []byte, nonceNewer, nonceOlder, nonceDecrypt, nonceEncrypt Nonce, attrs SessionAttributes) ([]byte, bool) {
	key := s.computeSessionValue()

	h := hmac.New(func() hash.Hash { return s.data().HashAlg.NewHash() }, key)
	h.Write(pHash)
	h.Write(nonceNewer)
	h.Write(nonceOlder)
	h.Write(nonceDecrypt)
	h.Write(nonceEncrypt)
	h.Write([]byte{uint8(attrs)})

	return h.Sum(nil), len(key) > 0
}

func (s *sessionParam) buildCommandAuth(commandCode CommandCode, commandHandles []Name, cpBytes []byte) *AuthCommand {
	if s.IsPassword() {
		var authValue []byte
		if s.associatedContext != nil {
			authValue = s.associatedContext.GetAuthValue()
		}
		return &AuthCommand{
			SessionHandle:     HandlePW,
			SessionAttributes: AttrContinueSession,
			HMAC:              authValue}
	}

	data := s.data()
	attrs := s.session.Attrs()

	var hmacValue []byte
	cpHash := cryptComputeCpHash(data.HashAlg, commandCode, commandHandles, cpBytes)
	h, hasKey := s.computeHMAC(cpHash, data.NonceCaller, data.NonceTPM, s.decryptNonce, s.encryptNonce, attrs)
	if hasKey || data.SessionType != SessionTypePolicy {
		// A policy session with no session key and no auth value
		// requirement has no HMAC. A HMAC session always has one, even
		// when the key is empty.
		hmacValue = h
	}

	return &AuthCommand{
		SessionHandle:     s.session.Handle(),
		Nonce:             data.NonceCaller,
		SessionAttributes: attrs,
		HMAC:              hmacValue}
}

func (s *sessionParam) processResponseAuth(auth AuthResponse, commandCode CommandCode, responseCode ResponseCode, rpBytes []byte) error {
	if s.IsPassword() {
		if len(auth.HMAC) != 0 {
			return errors.New("unexpected HMAC")
		}
		return nil
	}

	data := s.data()
	data.NonceTPM = auth.Nonce
	data.IsExclusive = auth.SessionAttributes&AttrAuditExclusive != 0

	if data.SessionType == SessionTypePolicy && len(data.SessionKey) == 0 && !data.PolicyAuthValue {
		// The TPM doesn't produce an HMAC for a policy session with no
		// session key and no auth value requirement.
		if auth.SessionAttributes&AttrContinueSession == 0 {
			s.session.Invalidate()
		}
		return nil
	}

	rpHash := cryptComputeRpHash(data.HashAlg, responseCode, commandCode, rpBytes)
	expected, _ := s.computeHMAC(rpHash, data.NonceTPM, data.NonceCaller, nil, nil, auth.SessionAttributes)
	if !bytes.Equal(expected, auth.HMAC) {
		return errors.New("incorrect HMAC")
	}

	if auth.SessionAttributes&AttrContinueSession == 0 {
		s.session.Invalidate()
	}

	return nil
}

// sessionParams is the set of sessions for a single command. It implements
// the construction of the command auth area, the verification of the
// response auth area, and session based parameter encryption - the command
// dispatch code drives it once per command in that order.
type sessionParams struct {
	sessions []*sessionParam
}

func newSessionParams() *sessionParams {
	return new(sessionParams)
}

func (p *sessionParams) append(s *sessionParam) error {
	if len(p.sessions) >= 3 {
		return errors.New("too many session parameters")
	}
	p.sessions = append(p.sessions, s)
	return nil
}

func (p *sessionParams) validateAndAppend(session SessionContext, resource ResourceContext) error {
	sc, ok := session.(sessionContextInternal)
	if !ok {
		return errors.New("unsupported session context type")
	}

	s := &sessionParam{session: sc}
	if resource != nil {
		rc, ok := resource.(resourceContextInternal)
		if !ok {
			return errors.New("unsupported resource context type")
		}
		s.associatedContext = rc
	}

	if !s.IsPassword() {
		if sc.Data() == nil {
			return errors.New("invalid context for session: incomplete session can only be used in TPMContext.FlushContext")
		}
		if !sc.Data().HashAlg.Available() {
			return fmt.Errorf("session digest algorithm %v is not available", sc.Data().HashAlg)
		}
	}

	return p.append(s)
}

// AppendSessionForResource appends the supplied session for authorizing
// the specified resource.
func (p *sessionParams) AppendSessionForResource(session SessionContext, resource ResourceContext) error {
	return p.validateAndAppend(sessionOrPassword(session), resource)
}

// AppendExtraSessions appends the supplied sessions, which don't authorize
// a resource (they are used for auditing or parameter encryption). nil
// session arguments are ignored.
func (p *sessionParams) AppendExtraSessions(sessions ...SessionContext) error {
	for _, session := range sessions {
		if session == nil {
			continue
		}
		if err := p.validateAndAppend(session, nil); err != nil {
			return err
		}
	}
	return nil
}

func (p *sessionParams) findSessionWithAttr(attr SessionAttributes) (*sessionParam, int) {
	for i, s := range p.sessions {
		if s.IsPassword() {
			continue
		}
		if s.session.Attrs()&attr != 0 {
			return s, i
		}
	}
	return nil, 0
}

func (p *sessionParams) hasDecryptSession() bool {
	s, _ := p.findDecryptSession()
	return s != nil
}

func (p *sessionParams) computeCallerNonces() error {
	for _, s := range p.sessions {
		if s.IsPassword() {
			continue
		}

		data := s.data()
		nonce := make(Nonce, data.HashAlg.Size())
		if _, err := rand.Read(nonce); err != nil {
			return fmt.Errorf("cannot read random bytes for nonce: %v", err)
		}
		data.NonceCaller = nonce
	}
	return nil
}

// BuildCommandAuthArea computes the caller nonces for this command,
// applies session based encryption to the first command parameter if a
// session requests it, and then builds an authorization for each session.
// The returned auth area is in the same order that the sessions were
// appended.
func (p *sessionParams) BuildCommandAuthArea(commandCode CommandCode, commandHandles []Name, cpBytes []byte) ([]AuthCommand, error) {
	if err := p.computeCallerNonces(); err != nil {
		return nil, fmt.Errorf("cannot compute caller nonces: %v", err)
	}

	if err := p.encryptCommandParameter(cpBytes); err != nil {
		return nil, fmt.Errorf("cannot encrypt first command parameter: %v", err)
	}

	p.computeEncryptNonce()

	var area []AuthCommand
	for _, s := range p.sessions {
		a := s.buildCommandAuth(commandCode, commandHandles, cpBytes)
		area = append(area, *a)
	}

	return area, nil
}

// ProcessResponseAuthArea verifies the authorization in each response auth
// element against the response parameter digest, updates the rolling TPM
// nonces, and then applies session based decryption to the first response
// parameter if a session requests it.
func (p *sessionParams) ProcessResponseAuthArea(authResponses []AuthResponse, commandCode CommandCode, responseCode ResponseCode, rpBytes []byte) error {
	if len(authResponses) != len(p.sessions) {
		return fmt.Errorf("unexpected number of response auths (got %d, expected %d)", len(authResponses), len(p.sessions))
	}

	for i, s := range p.sessions {
		if err := s.processResponseAuth(authResponses[i], commandCode, responseCode, rpBytes); err != nil {
			return fmt.Errorf("encountered an error for session at index %d: %v", i, err)
		}
	}

	if err := p.decryptResponseParameter(rpBytes); err != nil {
		return fmt.Errorf("cannot decrypt first response parameter: %v", err)
	}

	return nil
}
