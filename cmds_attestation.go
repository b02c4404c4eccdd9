// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 18 (Attestation
// Commands) in part 3 of the library spec. Each of these commands returns
// the marshalled attestation structure rather than the decoded form, so
// that a signature over it can be verified with the exact bytes the TPM
// produced - use AttestRaw.Decode to inspect the contents.

func nullSigScheme(inScheme *SigScheme) *SigScheme {
	if inScheme == nil {
		return &SigScheme{Scheme: SigSchemeAlgNull}
	}
	return inScheme
}

// Certify executes the TPM2_Certify command to sign an attestation
// structure that certifies that the object associated with objectContext
// is loaded on the TPM, using the key associated with signContext. If
// signContext is nil, the attestation isn't signed.
//
// The command requires authorization with the admin role for objectContext
// and the user auth role for signContext, with session based
// authorizations provided via objectContextAuthSession and
// signContextAuthSession.
func (t *TPMContext) Certify(objectContext, signContext ResourceContext, qualifyingData Data, inScheme *SigScheme, objectContextAuthSession, signContextAuthSession SessionContext, sessions ...SessionContext) (certifyInfo AttestRaw, signature *Signature, err error) {
	if err := t.StartCommand(CommandCertify).
		AddHandles(UseResourceContextWithAuth(objectContext, objectContextAuthSession), UseResourceContextWithAuth(signContext, signContextAuthSession)).
		AddParams(qualifyingData, nullSigScheme(inScheme)).
		AddExtraSessions(sessions...).
		Run(nil, &certifyInfo, &signature); err != nil {
		return nil, nil, err
	}
	return certifyInfo, signature, nil
}

// CertifyCreation executes the TPM2_CertifyCreation command to sign an
// attestation structure that provides proof that the object associated
// with objectContext was created by the TPM, by binding the supplied
// creation hash and ticket (produced by TPMContext.Create or
// TPMContext.CreatePrimary) to the object.
//
// The command requires authorization with the user auth role for
// signContext, with session based authorization provided via
// signContextAuthSession.
func (t *TPMContext) CertifyCreation(signContext, objectContext ResourceContext, qualifyingData Data, creationHash Digest, inScheme *SigScheme, creationTicket *TkCreation, signContextAuthSession SessionContext, sessions ...SessionContext) (certifyInfo AttestRaw, signature *Signature, err error) {
	if creationTicket == nil {
		return nil, nil, makeInvalidArgError("creationTicket", "nil value")
	}

	if err := t.StartCommand(CommandCertifyCreation).
		AddHandles(UseResourceContextWithAuth(signContext, signContextAuthSession), UseHandleContext(objectContext)).
		AddParams(qualifyingData, creationHash, nullSigScheme(inScheme), creationTicket).
		AddExtraSessions(sessions...).
		Run(nil, &certifyInfo, &signature); err != nil {
		return nil, nil, err
	}
	return certifyInfo, signature, nil
}

// Quote executes the TPM2_Quote command to sign an attestation structure
// over the selected PCRs, using the key associated with signContext.
//
// The command requires authorization with the user auth role for
// signContext, with session based authorization provided via
// signContextAuthSession.
func (t *TPMContext) Quote(signContext ResourceContext, qualifyingData Data, inScheme *SigScheme, pcrs PCRSelectionList, signContextAuthSession SessionContext, sessions ...SessionContext) (quoted AttestRaw, signature *Signature, err error) {
	if err := t.StartCommand(CommandQuote).
		AddHandles(UseResourceContextWithAuth(signContext, signContextAuthSession)).
		AddParams(qualifyingData, nullSigScheme(inScheme), pcrs).
		AddExtraSessions(sessions...).
		Run(nil, &quoted, &signature); err != nil {
		return nil, nil, err
	}
	return quoted, signature, nil
}

// GetSessionAuditDigest executes the TPM2_GetSessionAuditDigest command to
// sign an attestation structure over the audit digest of the session
// associated with sessionContext.
//
// The command requires authorization with the user auth role for
// privacyAdminContext (which must correspond to HandleEndorsement) and for
// signContext, with session based authorizations provided via
// privacyAdminContextAuthSession and signContextAuthSession.
func (t *TPMContext) GetSessionAuditDigest(privacyAdminContext, signContext ResourceContext, sessionContext SessionContext, qualifyingData Data, inScheme *SigScheme, privacyAdminContextAuthSession, signContextAuthSession SessionContext, sessions ...SessionContext) (auditInfo AttestRaw, signature *Signature, err error) {
	if err := t.StartCommand(CommandGetSessionAuditDigest).
		AddHandles(UseResourceContextWithAuth(privacyAdminContext, privacyAdminContextAuthSession), UseResourceContextWithAuth(signContext, signContextAuthSession), UseHandleContext(sessionContext)).
		AddParams(qualifyingData, nullSigScheme(inScheme)).
		AddExtraSessions(sessions...).
		Run(nil, &auditInfo, &signature); err != nil {
		return nil, nil, err
	}
	return auditInfo, signature, nil
}

// GetCommandAuditDigest executes the TPM2_GetCommandAuditDigest command to
// sign an attestation structure over the command audit digest, and resets
// the audit digest.
//
// The command requires authorization with the user auth role for
// privacyContext (which must correspond to HandleEndorsement) and for
// signContext, with session based authorizations provided via
// privacyContextAuthSession and signContextAuthSession.
func (t *TPMContext) GetCommandAuditDigest(privacyContext, signContext ResourceContext, qualifyingData Data, inScheme *SigScheme, privacyContextAuthSession, signContextAuthSession SessionContext, sessions ...SessionContext) (auditInfo AttestRaw, signature *Signature, err error) {
	if err := t.StartCommand(CommandGetCommandAuditDigest).
		AddHandles(UseResourceContextWithAuth(privacyContext, privacyContextAuthSession), UseResourceContextWithAuth(signContext, signContextAuthSession)).
		AddParams(qualifyingData, nullSigScheme(inScheme)).
		AddExtraSessions(sessions...).
		Run(nil, &auditInfo, &signature); err != nil {
		return nil, nil, err
	}
	return auditInfo, signature, nil
}

// GetTime executes the TPM2_GetTime command to sign an attestation
// structure over the current time and clock values.
//
// The command requires authorization with the user auth role for
// privacyAdminContext (which must correspond to HandleEndorsement) and for
// signContext, with session based authorizations provided via
// privacyAdminContextAuthSession and signContextAuthSession.
func (t *TPMContext) GetTime(privacyAdminContext, signContext ResourceContext, qualifyingData Data, inScheme *SigScheme, privacyAdminContextAuthSession, signContextAuthSession SessionContext, sessions ...SessionContext) (timeInfo AttestRaw, signature *Signature, err error) {
	if err := t.StartCommand(CommandGetTime).
		AddHandles(UseResourceContextWithAuth(privacyAdminContext, privacyAdminContextAuthSession), UseResourceContextWithAuth(signContext, signContextAuthSession)).
		AddParams(qualifyingData, nullSigScheme(inScheme)).
		AddExtraSessions(sessions...).
		Run(nil, &timeInfo, &signature); err != nil {
		return nil, nil, err
	}
	return timeInfo, signature, nil
}
