// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"github.com/colemickens/go-tpm2/mu"
)

// This file contains the commands defined in section 15 (Symmetric
// Primitives) and section 17 (Hash/HMAC/Event Sequences) in part 3 of the
// library spec.

// Hash executes the TPM2_Hash command to compute the digest of the
// supplied data. If the digest is produced with a restricted signing key
// in the specified hierarchy in mind, a ticket is returned that indicates
// the data didn't begin with TPM_GENERATED_VALUE.
func (t *TPMContext) Hash(data MaxBuffer, hashAlg HashAlgorithmId, hierarchy Handle, sessions ...SessionContext) (outHash Digest, validation *TkHashcheck, err error) {
	if err := t.StartCommand(CommandHash).
		AddParams(data, hashAlg, hierarchy).
		AddExtraSessions(sessions...).
		Run(nil, &outHash, &validation); err != nil {
		return nil, nil, err
	}
	return outHash, validation, nil
}

// HMAC executes the TPM2_HMAC command to compute an HMAC of the supplied
// data using the keyed hash object associated with context.
//
// The command requires authorization with the user auth role for context,
// with session based authorization provided via contextAuthSession.
func (t *TPMContext) HMAC(context ResourceContext, buffer MaxBuffer, hashAlg HashAlgorithmId, contextAuthSession SessionContext, sessions ...SessionContext) (outHMAC Digest, err error) {
	if err := t.StartCommand(CommandHMAC).
		AddHandles(UseResourceContextWithAuth(context, contextAuthSession)).
		AddParams(buffer, hashAlg).
		AddExtraSessions(sessions...).
		Run(nil, &outHMAC); err != nil {
		return nil, err
	}
	return outHMAC, nil
}

// makeSequenceContext creates a context for a newly started hash, HMAC or
// event sequence object. Sequence objects can't be read back from the TPM,
// so the name is the handle.
func makeSequenceContext(handle Handle, auth Auth) ResourceContext {
	rc := &objectContext{handle: handle, name: mu.MustMarshalToBytes(handle)}
	rc.SetAuthValue(auth)
	return rc
}

// HashSequenceStart executes the TPM2_HashSequenceStart command to begin a
// hash or event sequence. If hashAlg is HashAlgorithmNull, an event
// sequence is started. The returned context corresponds to the sequence
// object, and its authorization value is set to auth.
func (t *TPMContext) HashSequenceStart(auth Auth, hashAlg HashAlgorithmId, sessions ...SessionContext) (ResourceContext, error) {
	var sequenceHandle Handle

	if err := t.StartCommand(CommandHashSequenceStart).
		AddParams(auth, hashAlg).
		AddExtraSessions(sessions...).
		Run(&sequenceHandle); err != nil {
		return nil, err
	}

	return makeSequenceContext(sequenceHandle, auth), nil
}

// HMACStart executes the TPM2_HMAC_Start command to begin an HMAC sequence
// using the keyed hash object associated with context.
//
// The command requires authorization with the user auth role for context,
// with session based authorization provided via contextAuthSession.
func (t *TPMContext) HMACStart(context ResourceContext, auth Auth, hashAlg HashAlgorithmId, contextAuthSession SessionContext, sessions ...SessionContext) (ResourceContext, error) {
	var sequenceHandle Handle

	if err := t.StartCommand(CommandHMACStart).
		AddHandles(UseResourceContextWithAuth(context, contextAuthSession)).
		AddParams(auth, hashAlg).
		AddExtraSessions(sessions...).
		Run(&sequenceHandle); err != nil {
		return nil, err
	}

	return makeSequenceContext(sequenceHandle, auth), nil
}

// SequenceUpdate executes the TPM2_SequenceUpdate command to add data to
// the sequence associated with sequenceContext.
//
// The command requires authorization with the user auth role for
// sequenceContext, with session based authorization provided via
// sequenceContextAuthSession.
func (t *TPMContext) SequenceUpdate(sequenceContext ResourceContext, buffer MaxBuffer, sequenceContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandSequenceUpdate).
		AddHandles(UseResourceContextWithAuth(sequenceContext, sequenceContextAuthSession)).
		AddParams(buffer).
		AddExtraSessions(sessions...).
		Run(nil)
}

// SequenceComplete executes the TPM2_SequenceComplete command to add the
// last data to the hash or HMAC sequence associated with sequenceContext
// and return the result. On success, the sequence object is flushed from
// the TPM.
//
// The command requires authorization with the user auth role for
// sequenceContext, with session based authorization provided via
// sequenceContextAuthSession.
func (t *TPMContext) SequenceComplete(sequenceContext ResourceContext, buffer MaxBuffer, hierarchy Handle, sequenceContextAuthSession SessionContext, sessions ...SessionContext) (result Digest, validation *TkHashcheck, err error) {
	if err := t.StartCommand(CommandSequenceComplete).
		AddHandles(UseResourceContextWithAuth(sequenceContext, sequenceContextAuthSession)).
		AddParams(buffer, hierarchy).
		AddExtraSessions(sessions...).
		Run(nil, &result, &validation); err != nil {
		return nil, nil, err
	}

	return result, validation, nil
}

// EventSequenceComplete executes the TPM2_EventSequenceComplete command to
// add the last data to the event sequence associated with sequenceContext
// and return a digest for each PCR bank. If pcrContext isn't nil, each
// digest is extended to the corresponding bank of the associated PCR.
//
// The command requires authorization with the user auth role for both
// pcrContext and sequenceContext, with session based authorizations
// provided via pcrContextAuthSession and sequenceContextAuthSession.
func (t *TPMContext) EventSequenceComplete(pcrContext, sequenceContext ResourceContext, buffer MaxBuffer, pcrContextAuthSession, sequenceContextAuthSession SessionContext, sessions ...SessionContext) (results TaggedHashList, err error) {
	if err := t.StartCommand(CommandEventSequenceComplete).
		AddHandles(UseResourceContextWithAuth(pcrContext, pcrContextAuthSession), UseResourceContextWithAuth(sequenceContext, sequenceContextAuthSession)).
		AddParams(buffer).
		AddExtraSessions(sessions...).
		Run(nil, &results); err != nil {
		return nil, err
	}

	return results, nil
}
