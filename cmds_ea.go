// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 23 (Enhanced
// Authorization (EA) Commands) in part 3 of the library spec. Each of
// these commands updates the policy digest of the supplied policy
// session.

func policySessionData(policySession SessionContext) *sessionContextData {
	sc, ok := policySession.(sessionContextInternal)
	if !ok {
		return nil
	}
	return sc.Data()
}

// PolicySigned executes the TPM2_PolicySigned command to include a signed
// authorization in the policy session associated with policySession. The
// signature is checked against the key associated with authContext.
//
// If includeNonceTPM is true, the most recent TPM nonce of the session is
// included in the signed digest. The cpHashA argument restricts the policy
// to a specific command and set of command parameters, and expiration sets
// a time limit on the authorization (and, when negative, requests a
// ticket).
func (t *TPMContext) PolicySigned(authContext HandleContext, policySession SessionContext, includeNonceTPM bool, cpHashA Digest, policyRef Nonce, expiration int32, auth *Signature, sessions ...SessionContext) (timeout Timeout, policyTicket *TkAuth, err error) {
	if auth == nil {
		return nil, nil, makeInvalidArgError("auth", "nil value")
	}

	var nonceTPM Nonce
	if includeNonceTPM {
		nonceTPM = policySession.NonceTPM()
	}

	if err := t.StartCommand(CommandPolicySigned).
		AddHandles(UseHandleContext(authContext), UseHandleContext(policySession)).
		AddParams(nonceTPM, cpHashA, policyRef, expiration, auth).
		AddExtraSessions(sessions...).
		Run(nil, &timeout, &policyTicket); err != nil {
		return nil, nil, err
	}

	return timeout, policyTicket, nil
}

// PolicySecret executes the TPM2_PolicySecret command to include a secret
// based authorization in the policy session associated with policySession,
// by proving knowledge of the authorization value of the entity associated
// with authContext.
//
// The command requires authorization with the user auth role for
// authContext, with session based authorization provided via
// authContextAuthSession.
func (t *TPMContext) PolicySecret(authContext ResourceContext, policySession SessionContext, cpHashA Digest, policyRef Nonce, expiration int32, authContextAuthSession SessionContext, sessions ...SessionContext) (timeout Timeout, policyTicket *TkAuth, err error) {
	if err := t.StartCommand(CommandPolicySecret).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(policySession)).
		AddParams(policySession.NonceTPM(), cpHashA, policyRef, expiration).
		AddExtraSessions(sessions...).
		Run(nil, &timeout, &policyTicket); err != nil {
		return nil, nil, err
	}

	return timeout, policyTicket, nil
}

// PolicyTicket executes the TPM2_PolicyTicket command to include an
// authorization in the policy session associated with policySession, using
// a ticket previously produced by TPM2_PolicySigned or TPM2_PolicySecret
// in place of executing the command again.
func (t *TPMContext) PolicyTicket(policySession SessionContext, timeout Timeout, cpHashA Digest, policyRef Nonce, authName Name, ticket *TkAuth, sessions ...SessionContext) error {
	if ticket == nil {
		return makeInvalidArgError("ticket", "nil value")
	}

	return t.StartCommand(CommandPolicyTicket).
		AddHandles(UseHandleContext(policySession)).
		AddParams(timeout, cpHashA, policyRef, authName, ticket).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyOR executes the TPM2_PolicyOR command to allow the policy session
// associated with policySession to branch, if its current policy digest is
// contained in the supplied list of digests.
func (t *TPMContext) PolicyOR(policySession SessionContext, pHashList DigestList, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyOR).
		AddHandles(UseHandleContext(policySession)).
		AddParams(pHashList).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyPCR executes the TPM2_PolicyPCR command to gate the policy session
// associated with policySession on the values of the PCRs selected via
// pcrs. If pcrDigest isn't empty, the TPM verifies that it matches the
// digest of the selected PCR values, else the current values are used.
func (t *TPMContext) PolicyPCR(policySession SessionContext, pcrDigest Digest, pcrs PCRSelectionList, sessions ...SessionContext) error {
	if err := t.initPropertiesIfNeeded(); err != nil {
		return err
	}

	return t.StartCommand(CommandPolicyPCR).
		AddHandles(UseHandleContext(policySession)).
		AddParams(pcrDigest, pcrs.WithMinSelectSize(t.minPcrSelectSize)).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyNV executes the TPM2_PolicyNV command to gate the policy session
// associated with policySession on the contents of the NV index associated
// with nvIndex, by comparing the data at the specified offset against
// operandB using the comparison defined by operation.
//
// The command requires authorization to read the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) PolicyNV(authContext, nvIndex ResourceContext, policySession SessionContext, operandB Operand, offset uint16, operation ArithmeticOp, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyNV).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex), UseHandleContext(policySession)).
		AddParams(operandB, offset, operation).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyCounterTimer executes the TPM2_PolicyCounterTimer command to gate
// the policy session associated with policySession on the contents of the
// TPMS_TIME_INFO structure, by comparing the data at the specified offset
// against operandB using the comparison defined by operation.
func (t *TPMContext) PolicyCounterTimer(policySession SessionContext, operandB Operand, offset uint16, operation ArithmeticOp, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyCounterTimer).
		AddHandles(UseHandleContext(policySession)).
		AddParams(operandB, offset, operation).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyCommandCode executes the TPM2_PolicyCommandCode command to
// restrict the policy session associated with policySession to the
// specified command.
func (t *TPMContext) PolicyCommandCode(policySession SessionContext, code CommandCode, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyCommandCode).
		AddHandles(UseHandleContext(policySession)).
		AddParams(code).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyPhysicalPresence executes the TPM2_PolicyPhysicalPresence command
// to require that physical presence is asserted when the policy session
// associated with policySession is used for authorization.
func (t *TPMContext) PolicyPhysicalPresence(policySession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyPhysicalPresence).
		AddHandles(UseHandleContext(policySession)).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyCpHash executes the TPM2_PolicyCpHash command to restrict the
// policy session associated with policySession to a specific command and
// set of command parameters, bound via the supplied command parameter
// digest.
func (t *TPMContext) PolicyCpHash(policySession SessionContext, cpHashA Digest, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyCpHash).
		AddHandles(UseHandleContext(policySession)).
		AddParams(cpHashA).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyNameHash executes the TPM2_PolicyNameHash command to restrict the
// policy session associated with policySession to a specific set of
// command handles, bound via a digest of their names.
func (t *TPMContext) PolicyNameHash(policySession SessionContext, nameHash Digest, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyNameHash).
		AddHandles(UseHandleContext(policySession)).
		AddParams(nameHash).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyDuplicationSelect executes the TPM2_PolicyDuplicationSelect
// command to allow the policy session associated with policySession to
// authorize duplication of the object with the specified name to the new
// parent with the specified name. If includeObject is true, the object
// name is included in the policy digest.
func (t *TPMContext) PolicyDuplicationSelect(policySession SessionContext, objectName, newParentName Name, includeObject bool, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyDuplicationSelect).
		AddHandles(UseHandleContext(policySession)).
		AddParams(objectName, newParentName, includeObject).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyAuthorize executes the TPM2_PolicyAuthorize command to change the
// policy session associated with policySession so that its digest is
// replaced with one authorized by the key with the specified name, after
// the TPM validates the supplied verification ticket for approvedPolicy.
func (t *TPMContext) PolicyAuthorize(policySession SessionContext, approvedPolicy Digest, policyRef Nonce, keySign Name, verified *TkVerified, sessions ...SessionContext) error {
	if verified == nil {
		return makeInvalidArgError("verified", "nil value")
	}

	return t.StartCommand(CommandPolicyAuthorize).
		AddHandles(UseHandleContext(policySession)).
		AddParams(approvedPolicy, policyRef, keySign, verified).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyAuthValue executes the TPM2_PolicyAuthValue command to bind the
// policy session associated with policySession to the authorization value
// of the entity that the session will eventually authorize - the value
// will be included in the key for the session's authorization HMAC.
func (t *TPMContext) PolicyAuthValue(policySession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandPolicyAuthValue).
		AddHandles(UseHandleContext(policySession)).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if data := policySessionData(policySession); data != nil {
		data.PolicyAuthValue = true
	}
	return nil
}

// PolicyPassword executes the TPM2_PolicyPassword command to bind the
// policy session associated with policySession to the authorization value
// of the entity that the session will eventually authorize - the value
// will be provided in cleartext in the session's HMAC field.
func (t *TPMContext) PolicyPassword(policySession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandPolicyPassword).
		AddHandles(UseHandleContext(policySession)).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if data := policySessionData(policySession); data != nil {
		data.PolicyAuthValue = true
	}
	return nil
}

// PolicyGetDigest executes the TPM2_PolicyGetDigest command to return the
// current policy digest of the session associated with policySession.
func (t *TPMContext) PolicyGetDigest(policySession SessionContext, sessions ...SessionContext) (policyDigest Digest, err error) {
	if err := t.StartCommand(CommandPolicyGetDigest).
		AddHandles(UseHandleContext(policySession)).
		AddExtraSessions(sessions...).
		Run(nil, &policyDigest); err != nil {
		return nil, err
	}
	return policyDigest, nil
}

// PolicyNvWritten executes the TPM2_PolicyNvWritten command to gate the
// policy session associated with policySession on the value of the
// TPMA_NV_WRITTEN attribute of the NV index that the session will
// eventually authorize.
func (t *TPMContext) PolicyNvWritten(policySession SessionContext, writtenSet bool, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyNvWritten).
		AddHandles(UseHandleContext(policySession)).
		AddParams(writtenSet).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyTemplate executes the TPM2_PolicyTemplate command to restrict the
// policy session associated with policySession to creation of an object
// with the template matching the supplied digest.
func (t *TPMContext) PolicyTemplate(policySession SessionContext, templateHash Digest, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyTemplate).
		AddHandles(UseHandleContext(policySession)).
		AddParams(templateHash).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyAuthorizeNV executes the TPM2_PolicyAuthorizeNV command to change
// the policy session associated with policySession so that its digest is
// replaced with the one contained in the NV index associated with nvIndex.
//
// The command requires authorization to read the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) PolicyAuthorizeNV(authContext, nvIndex ResourceContext, policySession SessionContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyAuthorizeNV).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex), UseHandleContext(policySession)).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PolicyLocality executes the TPM2_PolicyLocality command to restrict the
// policy session associated with policySession to a subset of localities.
func (t *TPMContext) PolicyLocality(policySession SessionContext, locality Locality, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyLocality).
		AddHandles(UseHandleContext(policySession)).
		AddParams(locality).
		AddExtraSessions(sessions...).
		Run(nil)
}
