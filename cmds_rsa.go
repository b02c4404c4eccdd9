// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 14 (Asymmetric
// Primitives) in part 3 of the library spec.

// RSAEncrypt executes the TPM2_RSA_Encrypt command to encrypt the supplied
// message using the RSA key associated with keyContext, which requires no
// authorization. The scheme may be provided via inScheme, or it may be nil
// to use the scheme of the key.
func (t *TPMContext) RSAEncrypt(keyContext ResourceContext, message PublicKeyRSA, inScheme *RSAScheme, label Data, sessions ...SessionContext) (outData PublicKeyRSA, err error) {
	if inScheme == nil {
		inScheme = &RSAScheme{Scheme: RSASchemeNull}
	}

	if err := t.StartCommand(CommandRSAEncrypt).
		AddHandles(UseHandleContext(keyContext)).
		AddParams(message, inScheme, label).
		AddExtraSessions(sessions...).
		Run(nil, &outData); err != nil {
		return nil, err
	}
	return outData, nil
}

// RSADecrypt executes the TPM2_RSA_Decrypt command to decrypt the supplied
// cipher text using the RSA key associated with keyContext.
//
// The command requires authorization with the user auth role for
// keyContext, with session based authorization provided via
// keyContextAuthSession.
func (t *TPMContext) RSADecrypt(keyContext ResourceContext, cipherText PublicKeyRSA, inScheme *RSAScheme, label Data, keyContextAuthSession SessionContext, sessions ...SessionContext) (message PublicKeyRSA, err error) {
	if inScheme == nil {
		inScheme = &RSAScheme{Scheme: RSASchemeNull}
	}

	if err := t.StartCommand(CommandRSADecrypt).
		AddHandles(UseResourceContextWithAuth(keyContext, keyContextAuthSession)).
		AddParams(cipherText, inScheme, label).
		AddExtraSessions(sessions...).
		Run(nil, &message); err != nil {
		return nil, err
	}
	return message, nil
}
