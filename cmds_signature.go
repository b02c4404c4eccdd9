// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 20 (Signing and
// Signature Verification) in part 3 of the library spec.

// VerifySignature executes the TPM2_VerifySignature command to validate
// the supplied signature against the supplied digest, using the key
// associated with keyContext. If the signature is valid, a ticket is
// returned that can be supplied to TPMContext.PolicyTicket.
func (t *TPMContext) VerifySignature(keyContext HandleContext, digest Digest, signature *Signature, sessions ...SessionContext) (validation *TkVerified, err error) {
	if signature == nil {
		return nil, makeInvalidArgError("signature", "nil value")
	}

	if err := t.StartCommand(CommandVerifySignature).
		AddHandles(UseHandleContext(keyContext)).
		AddParams(digest, signature).
		AddExtraSessions(sessions...).
		Run(nil, &validation); err != nil {
		return nil, err
	}
	return validation, nil
}

// Sign executes the TPM2_Sign command to sign the supplied digest with the
// key associated with keyContext. If the key is a restricted signing key,
// validation must be supplied - it is a ticket produced by TPMContext.Hash
// or TPMContext.SequenceComplete that proves the digest wasn't produced
// over data that starts with TPM_GENERATED_VALUE.
//
// The command requires authorization with the user auth role for
// keyContext, with session based authorization provided via
// keyContextAuthSession.
func (t *TPMContext) Sign(keyContext ResourceContext, digest Digest, inScheme *SigScheme, validation *TkHashcheck, keyContextAuthSession SessionContext, sessions ...SessionContext) (signature *Signature, err error) {
	if validation == nil {
		validation = &TkHashcheck{Tag: TagHashcheck, Hierarchy: HandleNull}
	}

	if err := t.StartCommand(CommandSign).
		AddHandles(UseResourceContextWithAuth(keyContext, keyContextAuthSession)).
		AddParams(digest, nullSigScheme(inScheme), validation).
		AddExtraSessions(sessions...).
		Run(nil, &signature); err != nil {
		return nil, err
	}
	return signature, nil
}

// SetCommandCodeAuditStatus executes the TPM2_SetCommandCodeAuditStatus
// command to set the digest algorithm for command auditing, and to add
// and remove commands from the list of audited commands.
//
// The command requires authorization with the user auth role for authContext
// (which must correspond to HandleOwner or HandlePlatform), with session
// based authorization provided via authContextAuthSession.
func (t *TPMContext) SetCommandCodeAuditStatus(authContext ResourceContext, auditAlg HashAlgorithmId, setList, clearList CommandCodeList, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandSetCommandCodeAuditStatus).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(auditAlg, setList, clearList).
		AddExtraSessions(sessions...).
		Run(nil)
}
