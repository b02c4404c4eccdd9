// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"github.com/colemickens/go-tpm2/mu"
)

// This file contains the commands defined in section 24 (Hierarchy
// Commands) in part 3 of the library spec.

// CreatePrimary executes the TPM2_CreatePrimary command to create a new
// primary object in the hierarchy associated with primaryObject.
//
// The command requires authorization with the user auth role for
// primaryObject, with session based authorization provided via
// primaryObjectAuthSession.
//
// On success, a ResourceContext for the newly created and loaded object is
// returned along with its public area and information about the creation
// environment, cryptographically bound to the returned creation ticket.
func (t *TPMContext) CreatePrimary(primaryObject ResourceContext, inSensitive *SensitiveCreate, inPublic *Public, outsideInfo Data, creationPCR PCRSelectionList, primaryObjectAuthSession SessionContext, sessions ...SessionContext) (objectContext ResourceContext, outPublic *Public, creationData *CreationData, creationHash Digest, creationTicket *TkCreation, err error) {
	if inSensitive == nil {
		inSensitive = &SensitiveCreate{}
	}

	var objectHandle Handle
	var name Name

	if err := t.StartCommand(CommandCreatePrimary).
		AddHandles(UseResourceContextWithAuth(primaryObject, primaryObjectAuthSession)).
		AddParams(mu.Sized(inSensitive), mu.Sized(inPublic), outsideInfo, creationPCR).
		AddExtraSessions(sessions...).
		Run(&objectHandle, mu.Sized(&outPublic), mu.Sized(&creationData), &creationHash, &creationTicket, &name); err != nil {
		return nil, nil, nil, nil, nil, err
	}

	if objectHandle.Type() != HandleTypeTransient {
		return nil, nil, nil, nil, nil, &InvalidResponseError{CommandCreatePrimary, makeInvalidArgError("objectHandle", "unexpected handle type")}
	}

	var public *Public
	if err := mu.CopyValue(&public, outPublic); err != nil {
		return nil, nil, nil, nil, nil, &InvalidResponseError{CommandCreatePrimary, makeInvalidArgError("outPublic", "cannot copy public area")}
	}
	return makeObjectContext(objectHandle, name, public), outPublic, creationData, creationHash, creationTicket, nil
}

// HierarchyControl executes the TPM2_HierarchyControl command to enable or
// disable the hierarchy associated with the enable argument.
//
// The command requires authorization with the user auth role for
// authContext, with session based authorization provided via
// authContextAuthSession.
func (t *TPMContext) HierarchyControl(authContext ResourceContext, enable Handle, state bool, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandHierarchyControl).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(enable, state).
		AddExtraSessions(sessions...).
		Run(nil)
}

// SetPrimaryPolicy executes the TPM2_SetPrimaryPolicy command to set an
// authorization policy for the hierarchy associated with authContext.
//
// The command requires authorization with the user auth role for
// authContext, with session based authorization provided via
// authContextAuthSession.
func (t *TPMContext) SetPrimaryPolicy(authContext ResourceContext, authPolicy Digest, hashAlg HashAlgorithmId, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandSetPrimaryPolicy).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(authPolicy, hashAlg).
		AddExtraSessions(sessions...).
		Run(nil)
}

// Clear executes the TPM2_Clear command to remove all context associated
// with the current owner, including the storage and endorsement hierarchy
// seeds.
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandleLockout or HandlePlatform),
// with session based authorization provided via authContextAuthSession.
func (t *TPMContext) Clear(authContext ResourceContext, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandClear).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	// The authorization values of the owner, endorsement and lockout
	// hierarchies are reset.
	for _, handle := range []Handle{HandleOwner, HandleEndorsement, HandleLockout} {
		if rc, exists := t.permanentResources[handle]; exists {
			rc.SetAuthValue(nil)
		}
	}

	return nil
}

// ClearControl executes the TPM2_ClearControl command to enable or disable
// execution of the TPM2_Clear command.
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandleLockout or HandlePlatform),
// with session based authorization provided via authContextAuthSession.
func (t *TPMContext) ClearControl(authContext ResourceContext, disable bool, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandClearControl).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(disable).
		AddExtraSessions(sessions...).
		Run(nil)
}

// HierarchyChangeAuth executes the TPM2_HierarchyChangeAuth command to
// change the authorization value of the hierarchy associated with
// authContext. On success, the authorization value of authContext is
// updated so that it can be used for passphrase authorization in
// subsequent commands.
//
// The command requires authorization with the user auth role for
// authContext, with session based authorization provided via
// authContextAuthSession.
func (t *TPMContext) HierarchyChangeAuth(authContext ResourceContext, newAuth Auth, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	if err := t.StartCommand(CommandHierarchyChangeAuth).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(newAuth).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return err
	}

	authContext.SetAuthValue(newAuth)
	return nil
}
