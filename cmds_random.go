// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 16 (Random Number
// Generator) in part 3 of the library spec.

// GetRandom executes the TPM2_GetRandom command to return the requested
// number of bytes from the TPM's random number generator. The TPM may
// return fewer bytes than requested - the returned buffer is bounded by
// the size of the largest digest that the TPM can produce.
func (t *TPMContext) GetRandom(bytesRequested uint16, sessions ...SessionContext) (randomBytes Digest, err error) {
	if err := t.StartCommand(CommandGetRandom).
		AddParams(bytesRequested).
		AddExtraSessions(sessions...).
		Run(nil, &randomBytes); err != nil {
		return nil, err
	}
	return randomBytes, nil
}

// StirRandom executes the TPM2_StirRandom command to add the supplied
// entropy to the TPM's random number generator.
func (t *TPMContext) StirRandom(inData SensitiveData, sessions ...SessionContext) error {
	return t.StartCommand(CommandStirRandom).AddParams(inData).AddExtraSessions(sessions...).Run(nil)
}
