// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"github.com/colemickens/go-tpm2/mu"
)

// ECDHKeyGen executes the TPM2_ECDH_KeyGen command to create an ephemeral
// key and use it to compute the shared secret value with the ECC key
// associated with keyContext, which requires no authorization.
func (t *TPMContext) ECDHKeyGen(keyContext ResourceContext, sessions ...SessionContext) (zPoint, pubPoint *ECCPoint, err error) {
	if err := t.StartCommand(CommandECDHKeyGen).
		AddHandles(UseHandleContext(keyContext)).
		AddExtraSessions(sessions...).
		Run(nil, mu.Sized(&zPoint), mu.Sized(&pubPoint)); err != nil {
		return nil, nil, err
	}
	return zPoint, pubPoint, nil
}

// ECDHZGen executes the TPM2_ECDH_ZGen command to recover the shared
// secret value from the supplied ephemeral point and the ECC key
// associated with keyContext.
//
// The command requires authorization with the user auth role for
// keyContext, with session based authorization provided via
// keyContextAuthSession.
func (t *TPMContext) ECDHZGen(keyContext ResourceContext, inPoint *ECCPoint, keyContextAuthSession SessionContext, sessions ...SessionContext) (outPoint *ECCPoint, err error) {
	if err := t.StartCommand(CommandECDHZGen).
		AddHandles(UseResourceContextWithAuth(keyContext, keyContextAuthSession)).
		AddParams(mu.Sized(inPoint)).
		AddExtraSessions(sessions...).
		Run(nil, mu.Sized(&outPoint)); err != nil {
		return nil, err
	}
	return outPoint, nil
}

// ECCParameters executes the TPM2_ECC_Parameters command to return the
// parameters of the curve with the specified identifier.
func (t *TPMContext) ECCParameters(curveID ECCCurve, sessions ...SessionContext) (parameters *AlgorithmDetailECC, err error) {
	if err := t.StartCommand(CommandECCParameters).
		AddParams(curveID).
		AddExtraSessions(sessions...).
		Run(nil, &parameters); err != nil {
		return nil, err
	}
	return parameters, nil
}
