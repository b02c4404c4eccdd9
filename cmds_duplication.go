// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"github.com/colemickens/go-tpm2/mu"
)

// This file contains the commands defined in section 13 (Duplication
// Commands) in part 3 of the library spec.

// Duplicate executes the TPM2_Duplicate command to duplicate the object
// associated with objectContext so that it may be used in a different
// hierarchy, selected with newParentContext.
//
// The command requires authorization with the duplication role for
// objectContext, with the session provided via objectContextAuthSession.
//
// If encryptionKeyIn isn't nil, it is used as the symmetric key for inner
// duplication wrapping using the algorithm selected by symmetricAlg. If
// symmetricAlg is nil or selects SymObjectAlgorithmNull, no inner
// duplication wrapper is applied.
func (t *TPMContext) Duplicate(objectContext ResourceContext, newParentContext HandleContext, encryptionKeyIn Data, symmetricAlg *SymDefObject, objectContextAuthSession SessionContext, sessions ...SessionContext) (encryptionKeyOut Data, duplicate Private, outSymSeed EncryptedSecret, err error) {
	if symmetricAlg == nil {
		symmetricAlg = &SymDefObject{Algorithm: SymObjectAlgorithmNull}
	}

	if err := t.StartCommand(CommandDuplicate).
		AddHandles(UseResourceContextWithAuth(objectContext, objectContextAuthSession), UseHandleContext(newParentContext)).
		AddParams(encryptionKeyIn, symmetricAlg).
		AddExtraSessions(sessions...).
		Run(nil, &encryptionKeyOut, &duplicate, &outSymSeed); err != nil {
		return nil, nil, nil, err
	}

	return encryptionKeyOut, duplicate, outSymSeed, nil
}

// Import executes the TPM2_Import command to allow the object described by
// objectPublic and duplicate to be imported under the storage parent
// associated with parentContext. On success, it returns a new private area
// that can be loaded with TPMContext.Load.
//
// The command requires authorization with the user auth role for
// parentContext, with the session provided via parentContextAuthSession.
//
// If the duplication blob has an inner wrapper, the symmetric key for the
// inner wrapper must be supplied via encryptionKey, and symmetricAlg must
// match the algorithm that was used to create the wrapper. If the object
// was duplicated with an outer wrapper, inSymSeed must contain the seed
// protected by the parent key.
func (t *TPMContext) Import(parentContext ResourceContext, encryptionKey Data, objectPublic *Public, duplicate Private, inSymSeed EncryptedSecret, symmetricAlg *SymDefObject, parentContextAuthSession SessionContext, sessions ...SessionContext) (outPrivate Private, err error) {
	if symmetricAlg == nil {
		symmetricAlg = &SymDefObject{Algorithm: SymObjectAlgorithmNull}
	}

	if err := t.StartCommand(CommandImport).
		AddHandles(UseResourceContextWithAuth(parentContext, parentContextAuthSession)).
		AddParams(encryptionKey, mu.Sized(objectPublic), duplicate, inSymSeed, symmetricAlg).
		AddExtraSessions(sessions...).
		Run(nil, &outPrivate); err != nil {
		return nil, err
	}

	return outPrivate, nil
}
