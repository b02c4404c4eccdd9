// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"github.com/colemickens/go-tpm2/mu"
)

// This file contains the commands defined in section 31 (Non-volatile
// Storage) in part 3 of the library spec.

// NVDefineSpace executes the TPM2_NV_DefineSpace command to reserve space
// to hold the data associated with an NV index described by publicInfo. On
// success, a ResourceContext corresponding to the new index is returned.
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandleOwner or HandlePlatform),
// with session based authorization provided via authContextAuthSession.
func (t *TPMContext) NVDefineSpace(authContext ResourceContext, auth Auth, publicInfo *NVPublic, authContextAuthSession SessionContext, sessions ...SessionContext) (ResourceContext, error) {
	if publicInfo == nil {
		return nil, makeInvalidArgError("publicInfo", "nil value")
	}

	name, err := publicInfo.ComputeName()
	if err != nil {
		return nil, makeInvalidArgError("publicInfo", "cannot compute name from public area")
	}

	if err := t.StartCommand(CommandNVDefineSpace).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(auth, mu.Sized(publicInfo)).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return nil, err
	}

	var public *NVPublic
	if err := mu.CopyValue(&public, publicInfo); err != nil {
		return nil, makeInvalidArgError("publicInfo", "cannot copy public area")
	}
	rc := makeNVIndexContext(name, public)
	rc.SetAuthValue(auth)
	return rc, nil
}

// NVUndefineSpace executes the TPM2_NV_UndefineSpace command to remove the
// NV index associated with nvIndex. On success, nvIndex is invalid.
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandleOwner or HandlePlatform),
// with session based authorization provided via authContextAuthSession.
func (t *TPMContext) NVUndefineSpace(authContext ResourceContext, nvIndex ResourceContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandNVUndefineSpace).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddExtraSessions(sessions...).
		Run(nil)
}

// NVUndefineSpaceSpecial executes the TPM2_NV_UndefineSpaceSpecial command
// to remove the NV index associated with nvIndex, which must have been
// defined with the AttrNVPolicyDelete attribute.
//
// The command requires authorization with the admin role for nvIndex (a
// policy session containing TPM2_PolicyCommandCode), provided via
// nvIndexAuthSession, and with the user auth role for platform (which must
// correspond to HandlePlatform), provided via platformAuthSession.
func (t *TPMContext) NVUndefineSpaceSpecial(nvIndex, platform ResourceContext, nvIndexAuthSession, platformAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandNVUndefineSpaceSpecial).
		AddHandles(UseResourceContextWithAuth(nvIndex, nvIndexAuthSession), UseResourceContextWithAuth(platform, platformAuthSession)).
		AddExtraSessions(sessions...).
		Run(nil)
}

// NVReadPublic executes the TPM2_NV_ReadPublic command to read the public
// area of the NV index associated with nvIndex.
func (t *TPMContext) NVReadPublic(nvIndex HandleContext, sessions ...SessionContext) (nvPublic *NVPublic, nvName Name, err error) {
	if err := t.StartCommand(CommandNVReadPublic).
		AddHandles(UseHandleContext(nvIndex)).
		AddExtraSessions(sessions...).
		Run(nil, mu.Sized(&nvPublic), &nvName); err != nil {
		return nil, nil, err
	}
	return nvPublic, nvName, nil
}

// NVWrite executes the TPM2_NV_Write command to write data to the NV index
// associated with nvIndex, at the specified offset.
//
// The command requires authorization to write to the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVWrite(authContext, nvIndex ResourceContext, data MaxNVBuffer, offset uint16, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandNVWrite).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddParams(data, offset).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if rc, ok := nvIndex.(*nvIndexContext); ok {
		rc.SetAttr(AttrNVWritten)
	}
	return nil
}

// NVIncrement executes the TPM2_NV_Increment command to increment the
// counter contained in the NV index associated with nvIndex.
//
// The command requires authorization to write to the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVIncrement(authContext, nvIndex ResourceContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandNVIncrement).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if rc, ok := nvIndex.(*nvIndexContext); ok {
		rc.SetAttr(AttrNVWritten)
	}
	return nil
}

// NVExtend executes the TPM2_NV_Extend command to extend data to the NV
// index associated with nvIndex, which must have been defined with the
// NVTypeExtend type.
//
// The command requires authorization to write to the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVExtend(authContext, nvIndex ResourceContext, data MaxNVBuffer, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandNVExtend).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddParams(data).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if rc, ok := nvIndex.(*nvIndexContext); ok {
		rc.SetAttr(AttrNVWritten)
	}
	return nil
}

// NVSetBits executes the TPM2_NV_SetBits command to OR the supplied bits
// with the contents of the NV index associated with nvIndex, which must
// have been defined with the NVTypeBits type.
//
// The command requires authorization to write to the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVSetBits(authContext, nvIndex ResourceContext, bits uint64, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandNVSetBits).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddParams(bits).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if rc, ok := nvIndex.(*nvIndexContext); ok {
		rc.SetAttr(AttrNVWritten)
	}
	return nil
}

// NVWriteLock executes the TPM2_NV_WriteLock command to inhibit further
// writes to the NV index associated with nvIndex.
//
// The command requires authorization to write to the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVWriteLock(authContext, nvIndex ResourceContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandNVWriteLock).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if rc, ok := nvIndex.(*nvIndexContext); ok {
		rc.SetAttr(AttrNVWriteLocked)
	}
	return nil
}

// NVGlobalWriteLock executes the TPM2_NV_GlobalWriteLock command to
// inhibit further writes to all NV indices that have the AttrNVGlobalLock
// attribute set.
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandleOwner or HandlePlatform),
// with session based authorization provided via authContextAuthSession.
func (t *TPMContext) NVGlobalWriteLock(authContext ResourceContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandNVGlobalWriteLock).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddExtraSessions(sessions...).
		Run(nil)
}

// NVReadRaw executes a single TPM2_NV_Read command to read the contents of
// the NV index associated with nvIndex, at the specified offset. The
// size must not exceed the value of the TPM_PT_NV_BUFFER_MAX property -
// use TPMContext.NVRead to read larger amounts with multiple commands.
//
// The command requires authorization to read from the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVReadRaw(authContext, nvIndex ResourceContext, size, offset uint16, authContextAuthSession SessionContext, sessions ...SessionContext) (data MaxNVBuffer, err error) {
	if err := t.StartCommand(CommandNVRead).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddParams(size, offset).
		AddExtraSessions(sessions...).
		Run(nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// NVRead reads the specified amount of data from the NV index associated
// with nvIndex, at the specified offset. If the requested size is larger
// than the value of the TPM_PT_NV_BUFFER_MAX property, the read is split
// into multiple TPM2_NV_Read commands.
//
// The command requires authorization to read from the index, provided via
// authContext with session based authorization in authContextAuthSession.
// If the authorization session doesn't have the AttrContinueSession
// attribute set, that attribute is added for every command except the
// final one, so the session is flushed only after the last read.
func (t *TPMContext) NVRead(authContext, nvIndex ResourceContext, size, offset uint16, authContextAuthSession SessionContext, sessions ...SessionContext) (data MaxNVBuffer, err error) {
	maxSize, err := t.GetNVBufferMax()
	if err != nil {
		return nil, err
	}

	return readMultipleHelper(size, maxSize, func(sz, off uint16, s ...SessionContext) ([]byte, error) {
		var authSession SessionContext
		if len(s) > 0 {
			authSession = s[0]
			s = s[1:]
		}
		return t.NVReadRaw(authContext, nvIndex, sz, offset+off, authSession, s...)
	}, append([]SessionContext{authContextAuthSession}, sessions...)...)
}

// NVReadCounter reads the value of the counter contained in the NV index
// associated with nvIndex, which must have been defined with the
// NVTypeCounter type.
//
// The command requires authorization to read from the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVReadCounter(authContext, nvIndex ResourceContext, authContextAuthSession SessionContext, sessions ...SessionContext) (uint64, error) {
	data, err := t.NVReadRaw(authContext, nvIndex, 8, 0, authContextAuthSession, sessions...)
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, &InvalidResponseError{CommandNVRead, makeInvalidArgError("data", "unexpected number of bytes returned")}
	}

	var c uint64
	if _, err := mu.UnmarshalFromBytes(data, &c); err != nil {
		return 0, err
	}
	return c, nil
}

// NVReadLock executes the TPM2_NV_ReadLock command to inhibit further
// reads of the NV index associated with nvIndex until the next
// TPM2_Startup(TPM_SU_CLEAR).
//
// The command requires authorization to read from the index, provided via
// authContext with session based authorization in authContextAuthSession.
func (t *TPMContext) NVReadLock(authContext, nvIndex ResourceContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandNVReadLock).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	if rc, ok := nvIndex.(*nvIndexContext); ok {
		rc.SetAttr(AttrNVReadLocked)
	}
	return nil
}

// NVChangeAuth executes the TPM2_NV_ChangeAuth command to change the
// authorization value of the NV index associated with nvIndex. On
// success, the authorization value of nvIndex is updated.
//
// The command requires authorization with the admin role for nvIndex (a
// policy session containing TPM2_PolicyCommandCode), provided via
// nvIndexAuthSession.
func (t *TPMContext) NVChangeAuth(nvIndex ResourceContext, newAuth Auth, nvIndexAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandNVChangeAuth).
		AddHandles(UseResourceContextWithAuth(nvIndex, nvIndexAuthSession)).
		AddParams(newAuth).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	nvIndex.SetAuthValue(newAuth)
	return nil
}

// NVCertify executes the TPM2_NV_Certify command to sign an attestation
// structure over the contents of the NV index associated with nvIndex,
// using the key associated with signContext.
//
// The command requires authorization with the user auth role for
// signContext, provided via signContextAuthSession, and authorization to
// read from the index, provided via authContext with session based
// authorization in authContextAuthSession.
func (t *TPMContext) NVCertify(signContext, authContext, nvIndex ResourceContext, qualifyingData Data, inScheme *SigScheme, size, offset uint16, signContextAuthSession, authContextAuthSession SessionContext, sessions ...SessionContext) (certifyInfo AttestRaw, signature *Signature, err error) {
	if err := t.StartCommand(CommandNVCertify).
		AddHandles(UseResourceContextWithAuth(signContext, signContextAuthSession), UseResourceContextWithAuth(authContext, authContextAuthSession), UseHandleContext(nvIndex)).
		AddParams(qualifyingData, nullSigScheme(inScheme), size, offset).
		AddExtraSessions(sessions...).
		Run(nil, &certifyInfo, &signature); err != nil {
		return nil, nil, err
	}
	return certifyInfo, signature, nil
}
