// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 15 (Symmetric
// Primitives) in part 3 of the library spec.

// EncryptDecrypt executes the TPM2_EncryptDecrypt command to encrypt or
// decrypt the supplied data using the symmetric key associated with
// keyContext. If decrypt is true the data is decrypted, else it is
// encrypted.
//
// The command requires authorization with the user auth role for
// keyContext, with session based authorization provided via
// keyContextAuthSession.
//
// Note that reference implementations of the TPM may disable this command
// because its first parameter can't be encrypted - use
// TPMContext.EncryptDecrypt2 instead.
func (t *TPMContext) EncryptDecrypt(keyContext ResourceContext, decrypt bool, mode SymModeId, ivIn IV, inData MaxBuffer, keyContextAuthSession SessionContext, sessions ...SessionContext) (outData MaxBuffer, ivOut IV, err error) {
	if err := t.StartCommand(CommandEncryptDecrypt).
		AddHandles(UseResourceContextWithAuth(keyContext, keyContextAuthSession)).
		AddParams(decrypt, mode, ivIn, inData).
		AddExtraSessions(sessions...).
		Run(nil, &outData, &ivOut); err != nil {
		return nil, nil, err
	}
	return outData, ivOut, nil
}

// EncryptDecrypt2 executes the TPM2_EncryptDecrypt2 command, which is
// identical to TPM2_EncryptDecrypt except that the data to transform is
// the first command parameter, which allows it to be encrypted with a
// session.
func (t *TPMContext) EncryptDecrypt2(keyContext ResourceContext, decrypt bool, mode SymModeId, ivIn IV, inData MaxBuffer, keyContextAuthSession SessionContext, sessions ...SessionContext) (outData MaxBuffer, ivOut IV, err error) {
	if err := t.StartCommand(CommandEncryptDecrypt2).
		AddHandles(UseResourceContextWithAuth(keyContext, keyContextAuthSession)).
		AddParams(inData, decrypt, mode, ivIn).
		AddExtraSessions(sessions...).
		Run(nil, &outData, &ivOut); err != nil {
		return nil, nil, err
	}
	return outData, ivOut, nil
}
