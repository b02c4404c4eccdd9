// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 22 (Integrity
// Collection - PCR) in part 3 of the library spec.

// PCRExtend executes the TPM2_PCR_Extend command to extend the PCR
// associated with pcrContext with the supplied tagged digests. A digest is
// extended to the bank of the PCR corresponding to its algorithm.
//
// The command requires authorization with the user auth role for
// pcrContext, with session based authorization provided via
// pcrContextAuthSession.
func (t *TPMContext) PCRExtend(pcrContext ResourceContext, digests TaggedHashList, pcrContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPCRExtend).
		AddHandles(UseResourceContextWithAuth(pcrContext, pcrContextAuthSession)).
		AddParams(digests).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PCREvent executes the TPM2_PCR_Event command to extend the PCR
// associated with pcrContext with digests of the supplied event data,
// computed for each of the supported PCR banks.
//
// The command requires authorization with the user auth role for
// pcrContext, with session based authorization provided via
// pcrContextAuthSession.
func (t *TPMContext) PCREvent(pcrContext ResourceContext, eventData Event, pcrContextAuthSession SessionContext, sessions ...SessionContext) (digests TaggedHashList, err error) {
	if err := t.StartCommand(CommandPCREvent).
		AddHandles(UseResourceContextWithAuth(pcrContext, pcrContextAuthSession)).
		AddParams(eventData).
		AddExtraSessions(sessions...).
		Run(nil, &digests); err != nil {
		return nil, err
	}
	return digests, nil
}

// PCRRead executes the TPM2_PCR_Read command to return the values of the
// PCRs defined in the pcrSelectionIn parameter. It returns the value of
// the PCR update counter, the set of PCRs that were actually read (which
// may be a subset of the request), and the PCR values in the order of the
// returned selection.
func (t *TPMContext) PCRRead(pcrSelectionIn PCRSelectionList, sessions ...SessionContext) (pcrUpdateCounter uint32, pcrSelectionOut PCRSelectionList, pcrValues DigestList, err error) {
	if err := t.initPropertiesIfNeeded(); err != nil {
		return 0, nil, nil, err
	}

	if err := t.StartCommand(CommandPCRRead).
		AddParams(pcrSelectionIn.WithMinSelectSize(t.minPcrSelectSize)).
		AddExtraSessions(sessions...).
		Run(nil, &pcrUpdateCounter, &pcrSelectionOut, &pcrValues); err != nil {
		return 0, nil, nil, err
	}

	return pcrUpdateCounter, pcrSelectionOut, pcrValues, nil
}

// PCRAllocate executes the TPM2_PCR_Allocate command to set the PCR
// allocation - the set of PCRs in each supported bank. The new allocation
// takes effect after the next TPM2_Startup(TPM_SU_CLEAR).
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandlePlatform), with session
// based authorization provided via authContextAuthSession.
func (t *TPMContext) PCRAllocate(authContext ResourceContext, pcrAllocation PCRSelectionList, authContextAuthSession SessionContext, sessions ...SessionContext) (allocationSuccess bool, maxPCR uint32, sizeNeeded uint32, sizeAvailable uint32, err error) {
	if err := t.initPropertiesIfNeeded(); err != nil {
		return false, 0, 0, 0, err
	}

	if err := t.StartCommand(CommandPCRAllocate).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(pcrAllocation.WithMinSelectSize(t.minPcrSelectSize)).
		AddExtraSessions(sessions...).
		Run(nil, &allocationSuccess, &maxPCR, &sizeNeeded, &sizeAvailable); err != nil {
		return false, 0, 0, 0, err
	}

	return allocationSuccess, maxPCR, sizeNeeded, sizeAvailable, nil
}

// PCRSetAuthPolicy executes the TPM2_PCR_SetAuthPolicy command to
// associate an authorization policy with the PCR associated with
// pcrContext.
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandlePlatform), with session
// based authorization provided via authContextAuthSession.
func (t *TPMContext) PCRSetAuthPolicy(authContext ResourceContext, authPolicy Digest, hashAlg HashAlgorithmId, pcrContext HandleContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPCRSetAuthPolicy).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(authPolicy, hashAlg, pcrContext.Handle()).
		AddExtraSessions(sessions...).
		Run(nil)
}

// PCRSetAuthValue executes the TPM2_PCR_SetAuthValue command to set the
// authorization value of the PCR associated with pcrContext.
//
// The command requires authorization with the user auth role for
// pcrContext, with session based authorization provided via
// pcrContextAuthSession.
func (t *TPMContext) PCRSetAuthValue(pcrContext ResourceContext, auth Auth, pcrContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandPCRSetAuthValue).
		AddHandles(UseResourceContextWithAuth(pcrContext, pcrContextAuthSession)).
		AddParams(auth).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	pcrContext.SetAuthValue(auth)
	return nil
}

// PCRReset executes the TPM2_PCR_Reset command to reset the PCR associated
// with pcrContext to its default value.
//
// The command requires authorization with the user auth role for
// pcrContext, with session based authorization provided via
// pcrContextAuthSession.
func (t *TPMContext) PCRReset(pcrContext ResourceContext, pcrContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPCRReset).
		AddHandles(UseResourceContextWithAuth(pcrContext, pcrContextAuthSession)).
		AddExtraSessions(sessions...).
		Run(nil)
}
