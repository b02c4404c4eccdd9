// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"crypto/rand"
	"fmt"

	"github.com/colemickens/go-tpm2/internal/kdfutil"
	"github.com/colemickens/go-tpm2/mu"
)

// This file contains the commands defined in section 11 (Session
// Commands) in part 3 of the library spec.

// StartAuthSession executes the TPM2_StartAuthSession command to start an
// authorization session of the specified type.
//
// The tpmKey argument is optional. If provided, it must correspond to a
// loaded RSA decrypt key - a random salt is created and encrypted to it,
// and the salt contributes to the session key so that the session is
// resistant to passive snooping of the authorization value of entities it
// subsequently authorizes.
//
// The bind argument is optional. If provided, the authorization value of
// the bound entity contributes to the session key, and the session doesn't
// include the entity's authorization value in authorization HMACs for
// that entity.
//
// The symmetric argument selects the algorithm for session based parameter
// encryption, and may be nil if the session will not be used for that.
//
// On success, a SessionContext is returned which can be used for
// authorization by passing it to any method that accepts one, and for
// parameter encryption by including AttrCommandEncrypt or
// AttrResponseEncrypt in its attributes.
func (t *TPMContext) StartAuthSession(tpmKey, bind ResourceContext, sessionType SessionType, symmetric *SymDef, authHash HashAlgorithmId, sessions ...SessionContext) (SessionContext, error) {
	if !authHash.Available() {
		return nil, makeInvalidArgError("authHash", fmt.Sprintf("digest algorithm %v is not available", authHash))
	}
	digestSize := authHash.Size()

	var salt []byte
	var encryptedSalt EncryptedSecret
	if tpmKey != nil {
		object, ok := tpmKey.(*objectContext)
		if !ok {
			return nil, makeInvalidArgError("tpmKey", "not an object")
		}

		var err error
		encryptedSalt, salt, err = cryptSecretEncrypt(object.Public(), []byte(SecretKey))
		if err != nil {
			return nil, makeInvalidArgError("tpmKey", fmt.Sprintf("cannot create encrypted salt: %v", err))
		}
	}

	var authValue []byte
	if bind != nil {
		authValue = bind.(resourceContextInternal).GetAuthValue()
	}

	nonceCaller := make(Nonce, digestSize)
	if _, err := rand.Read(nonceCaller); err != nil {
		return nil, fmt.Errorf("cannot read random bytes for nonceCaller: %v", err)
	}

	if symmetric == nil {
		symmetric = &SymDef{Algorithm: SymAlgorithmNull}
	}

	var sessionHandle Handle
	var nonceTPM Nonce

	if err := t.StartCommand(CommandStartAuthSession).
		AddHandles(UseHandleContext(tpmKey), UseHandleContext(bind)).
		AddParams(nonceCaller, encryptedSalt, sessionType, symmetric, authHash).
		AddExtraSessions(sessions...).
		Run(&sessionHandle, &nonceTPM); err != nil {
		return nil, err
	}

	data := &sessionContextData{
		HashAlg:     authHash,
		SessionType: sessionType,
		NonceCaller: nonceCaller,
		NonceTPM:    nonceTPM}

	var symmetricCopy *SymDef
	mu.MustCopyValue(&symmetricCopy, symmetric)
	data.Symmetric = symmetricCopy

	if bind != nil && sessionType == SessionTypeHMAC {
		data.IsBound = true
		data.BoundEntity = bind.Name()
	}

	if tpmKey != nil || bind != nil {
		key := make([]byte, len(authValue)+len(salt))
		copy(key, authValue)
		copy(key[len(authValue):], salt)

		data.SessionKey = kdfutil.KDFa(authHash.GetHash(), key, []byte(SessionKey), nonceTPM, nonceCaller, digestSize*8)
	}

	return &sessionContext{handle: sessionHandle, data: data}, nil
}

// PolicyRestart executes the TPM2_PolicyRestart command to reset the
// policy digest of the session associated with sessionContext to its
// initial value, so that the policy authorization can be recomputed.
func (t *TPMContext) PolicyRestart(sessionContext SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPolicyRestart).
		AddHandles(UseHandleContext(sessionContext)).
		AddExtraSessions(sessions...).
		Run(nil)
}
