// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"fmt"
)

// This file contains the commands defined in section 28 (Context
// Management) in part 3 of the library spec.

// ContextSave executes the TPM2_ContextSave command to save the context
// associated with saveContext outside of the TPM, so that its memory can
// be reused.
//
// If saveContext corresponds to a session, the context is invalidated and
// can't be used again. The context that TPMContext.ContextLoad returns for
// the saved blob carries none of the session's state, so it can't be used
// to authorize commands and can only be passed to TPMContext.FlushContext.
func (t *TPMContext) ContextSave(saveContext HandleContext) (*Context, error) {
	var context Context

	if err := t.StartCommand(CommandContextSave).
		AddHandles(UseHandleContext(saveContext)).
		Run(nil, &context); err != nil {
		return nil, err
	}

	if sc, ok := saveContext.(sessionContextInternal); ok {
		// A saved session can only be resumed once - the TPM retains the
		// session state and evicts the handle.
		sc.Invalidate()
	}

	return &context, nil
}

// ContextLoad executes the TPM2_ContextLoad command to load a context
// previously saved with TPMContext.ContextSave back into the TPM, and
// returns a HandleContext for the loaded entity.
func (t *TPMContext) ContextLoad(context *Context) (HandleContext, error) {
	if context == nil {
		return nil, makeInvalidArgError("context", "nil value")
	}

	var loadedHandle Handle

	if err := t.StartCommand(CommandContextLoad).
		AddParams(context).
		Run(&loadedHandle); err != nil {
		return nil, err
	}

	switch loadedHandle.Type() {
	case HandleTypeTransient, HandleTypeHMACSession, HandleTypePolicySession:
		return CreatePartialHandleContext(loadedHandle), nil
	default:
		return nil, &InvalidResponseError{CommandContextLoad, fmt.Errorf("handle 0x%08x returned from TPM is the wrong type", loadedHandle)}
	}
}

// FlushContext executes the TPM2_FlushContext command to flush the
// transient object or session associated with flushContext, which frees
// the memory that it occupies. On success, flushContext can no longer be
// used.
func (t *TPMContext) FlushContext(flushContext HandleContext) error {
	if err := t.StartCommand(CommandFlushContext).
		AddParams(flushContext.Handle()).
		Run(nil); err != nil {
		return err
	}

	if sc, ok := flushContext.(sessionContextInternal); ok {
		sc.Invalidate()
	}

	return nil
}

// EvictControl executes the TPM2_EvictControl command to make the
// transient object associated with objectContext persistent at the
// specified handle, or to evict the persistent object associated with
// objectContext.
//
// The command requires authorization with the user auth role for auth
// (which must correspond to HandleOwner or HandlePlatform), with session
// based authorization provided via authAuthSession.
//
// If objectContext corresponds to a transient object, a ResourceContext
// for the new persistent object is returned. If it corresponds to a
// persistent object, nil is returned.
func (t *TPMContext) EvictControl(auth, objectCtx ResourceContext, persistentHandle Handle, authAuthSession SessionContext, sessions ...SessionContext) (ResourceContext, error) {
	if err := t.StartCommand(CommandEvictControl).
		AddHandles(UseResourceContextWithAuth(auth, authAuthSession), UseHandleContext(objectCtx)).
		AddParams(persistentHandle).
		AddExtraSessions(sessions...).
		Run(nil); err != nil {
		return nil, err
	}

	if objectCtx.Handle() == persistentHandle {
		// The object was evicted.
		return nil, nil
	}

	object, ok := objectCtx.(*objectContext)
	if !ok {
		return makePermanentContext(persistentHandle), nil
	}
	return makeObjectContext(persistentHandle, object.Name(), object.Public()), nil
}
