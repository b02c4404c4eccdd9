// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"github.com/colemickens/go-tpm2/mu"
)

// This file contains the commands defined in section 12 (Object Commands)
// in part 3 of the library spec.

// Create executes the TPM2_Create command to create a new ordinary object
// as a child of the storage parent associated with parentContext.
//
// The command requires authorization with the user auth role for
// parentContext, with session based authorization provided via
// parentContextAuthSession.
//
// A template for the object is provided via inPublic, and the sensitive
// values are provided via inSensitive - both may be nil, in which case
// zero values are used. On success, the private and public parts of the
// created object are returned along with information about the creation
// environment, cryptographically bound to the returned creation ticket.
func (t *TPMContext) Create(parentContext ResourceContext, inSensitive *SensitiveCreate, inPublic *Public, outsideInfo Data, creationPCR PCRSelectionList, parentContextAuthSession SessionContext, sessions ...SessionContext) (outPrivate Private, outPublic *Public, creationData *CreationData, creationHash Digest, creationTicket *TkCreation, err error) {
	if inSensitive == nil {
		inSensitive = &SensitiveCreate{}
	}

	if err := t.StartCommand(CommandCreate).
		AddHandles(UseResourceContextWithAuth(parentContext, parentContextAuthSession)).
		AddParams(mu.Sized(inSensitive), mu.Sized(inPublic), outsideInfo, creationPCR).
		AddExtraSessions(sessions...).
		Run(nil, &outPrivate, mu.Sized(&outPublic), mu.Sized(&creationData), &creationHash, &creationTicket); err != nil {
		return nil, nil, nil, nil, nil, err
	}

	return outPrivate, outPublic, creationData, creationHash, creationTicket, nil
}

// Load executes the TPM2_Load command to load both the private and public
// parts of an object into the TPM, and returns a ResourceContext that
// corresponds to the newly loaded object.
//
// The command requires authorization with the user auth role for
// parentContext, with session based authorization provided via
// parentContextAuthSession.
func (t *TPMContext) Load(parentContext ResourceContext, inPrivate Private, inPublic *Public, parentContextAuthSession SessionContext, sessions ...SessionContext) (ResourceContext, error) {
	var objectHandle Handle
	var name Name

	if err := t.StartCommand(CommandLoad).
		AddHandles(UseResourceContextWithAuth(parentContext, parentContextAuthSession)).
		AddParams(inPrivate, mu.Sized(inPublic)).
		AddExtraSessions(sessions...).
		Run(&objectHandle, &name); err != nil {
		return nil, err
	}

	if objectHandle.Type() != HandleTypeTransient {
		return nil, &InvalidResponseError{CommandLoad, makeInvalidArgError("objectHandle", "unexpected handle type")}
	}

	var public *Public
	if err := mu.CopyValue(&public, inPublic); err != nil {
		return nil, makeInvalidArgError("inPublic", "cannot copy public area")
	}
	return makeObjectContext(objectHandle, name, public), nil
}

// LoadExternal executes the TPM2_LoadExternal command to load an object
// that isn't protected by the TPM into the specified hierarchy. For an
// object with only a public part, inPrivate should be nil. For an object
// with a private part, the hierarchy must be HandleNull.
func (t *TPMContext) LoadExternal(inPrivate *Sensitive, inPublic *Public, hierarchy Handle, sessions ...SessionContext) (ResourceContext, error) {
	var objectHandle Handle
	var name Name

	if err := t.StartCommand(CommandLoadExternal).
		AddParams(mu.Sized(inPrivate), mu.Sized(inPublic), hierarchy).
		AddExtraSessions(sessions...).
		Run(&objectHandle, &name); err != nil {
		return nil, err
	}

	if objectHandle.Type() != HandleTypeTransient {
		return nil, &InvalidResponseError{CommandLoadExternal, makeInvalidArgError("objectHandle", "unexpected handle type")}
	}

	var public *Public
	if err := mu.CopyValue(&public, inPublic); err != nil {
		return nil, makeInvalidArgError("inPublic", "cannot copy public area")
	}
	return makeObjectContext(objectHandle, name, public), nil
}

// ReadPublic executes the TPM2_ReadPublic command to read the public area
// of the object associated with objectContext, returning the public area,
// the name and the qualified name.
func (t *TPMContext) ReadPublic(objectContext HandleContext, sessions ...SessionContext) (outPublic *Public, name Name, qualifiedName Name, err error) {
	if err := t.StartCommand(CommandReadPublic).
		AddHandles(UseHandleContext(objectContext)).
		AddExtraSessions(sessions...).
		Run(nil, mu.Sized(&outPublic), &name, &qualifiedName); err != nil {
		return nil, nil, nil, err
	}
	return outPublic, name, qualifiedName, nil
}

// ActivateCredential executes the TPM2_ActivateCredential command to
// associate a credential with the object associated with activateContext.
//
// The command requires authorization with the admin role for
// activateContext and the user auth role for keyContext, with session
// based authorizations provided via activateContextAuthSession and
// keyContextAuthSession.
func (t *TPMContext) ActivateCredential(activateContext, keyContext ResourceContext, credentialBlob IDObjectRaw, secret EncryptedSecret, activateContextAuthSession, keyContextAuthSession SessionContext, sessions ...SessionContext) (certInfo Digest, err error) {
	if err := t.StartCommand(CommandActivateCredential).
		AddHandles(UseResourceContextWithAuth(activateContext, activateContextAuthSession), UseResourceContextWithAuth(keyContext, keyContextAuthSession)).
		AddParams(credentialBlob, secret).
		AddExtraSessions(sessions...).
		Run(nil, &certInfo); err != nil {
		return nil, err
	}
	return certInfo, nil
}

// MakeCredential executes the TPM2_MakeCredential command to allow the TPM
// to perform the actions of a certificate authority, creating a credential
// blob for the object with the specified name that can be activated with
// the key associated with context.
func (t *TPMContext) MakeCredential(context ResourceContext, credential Digest, objectName Name, sessions ...SessionContext) (credentialBlob IDObjectRaw, secret EncryptedSecret, err error) {
	if err := t.StartCommand(CommandMakeCredential).
		AddHandles(UseHandleContext(context)).
		AddParams(credential, objectName).
		AddExtraSessions(sessions...).
		Run(nil, &credentialBlob, &secret); err != nil {
		return nil, nil, err
	}
	return credentialBlob, secret, nil
}

// Unseal executes the TPM2_Unseal command to return the data contained
// within the seal object associated with itemContext.
//
// The command requires authorization with the user auth role for
// itemContext, with session based authorization provided via
// itemContextAuthSession.
func (t *TPMContext) Unseal(itemContext ResourceContext, itemContextAuthSession SessionContext, sessions ...SessionContext) (outData SensitiveData, err error) {
	if err := t.StartCommand(CommandUnseal).
		AddHandles(UseResourceContextWithAuth(itemContext, itemContextAuthSession)).
		AddExtraSessions(sessions...).
		Run(nil, &outData); err != nil {
		return nil, err
	}
	return outData, nil
}

// ObjectChangeAuth executes the TPM2_ObjectChangeAuth command to change
// the authorization value of the object associated with objectContext,
// returning a new private area. The new private area doesn't replace the
// existing one - it must be loaded again with TPMContext.Load.
//
// The command requires authorization with the admin role for
// objectContext, with session based authorization provided via
// objectContextAuthSession.
func (t *TPMContext) ObjectChangeAuth(objectContext, parentContext ResourceContext, newAuth Auth, objectContextAuthSession SessionContext, sessions ...SessionContext) (outPrivate Private, err error) {
	if err := t.StartCommand(CommandObjectChangeAuth).
		AddHandles(UseResourceContextWithAuth(objectContext, objectContextAuthSession), UseHandleContext(parentContext)).
		AddParams(newAuth).
		AddExtraSessions(sessions...).
		Run(nil, &outPrivate); err != nil {
		return nil, err
	}
	return outPrivate, nil
}

// CreateLoaded executes the TPM2_CreateLoaded command to create and load a
// new object as a child of the parent associated with parentContext, which
// may be a storage parent or a derivation parent.
//
// The command requires authorization with the user auth role for
// parentContext, with session based authorization provided via
// parentContextAuthSession.
func (t *TPMContext) CreateLoaded(parentContext ResourceContext, inSensitive *SensitiveCreate, inPublic Template, parentContextAuthSession SessionContext, sessions ...SessionContext) (objectContext ResourceContext, outPrivate Private, outPublic *Public, err error) {
	if inSensitive == nil {
		inSensitive = &SensitiveCreate{}
	}

	var objectHandle Handle
	var name Name

	if err := t.StartCommand(CommandCreateLoaded).
		AddHandles(UseResourceContextWithAuth(parentContext, parentContextAuthSession)).
		AddParams(mu.Sized(inSensitive), inPublic).
		AddExtraSessions(sessions...).
		Run(&objectHandle, &outPrivate, mu.Sized(&outPublic), &name); err != nil {
		return nil, nil, nil, err
	}

	if objectHandle.Type() != HandleTypeTransient {
		return nil, nil, nil, &InvalidResponseError{CommandCreateLoaded, makeInvalidArgError("objectHandle", "unexpected handle type")}
	}

	var public *Public
	if err := mu.CopyValue(&public, outPublic); err != nil {
		return nil, nil, nil, &InvalidResponseError{CommandCreateLoaded, makeInvalidArgError("outPublic", "cannot copy public area")}
	}
	return makeObjectContext(objectHandle, name, public), outPrivate, outPublic, nil
}
