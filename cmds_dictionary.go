// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 25 (Dictionary Attack
// Functions) in part 3 of the library spec.

// DictionaryAttackLockReset executes the TPM2_DictionaryAttackLockReset
// command to cancel the effect of a TPM lockout.
//
// The command requires authorization with the user auth role for
// lockContext (which must correspond to HandleLockout), with session based
// authorization provided via lockContextAuthSession.
func (t *TPMContext) DictionaryAttackLockReset(lockContext ResourceContext, lockContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandDictionaryAttackLockReset).
		AddHandles(UseResourceContextWithAuth(lockContext, lockContextAuthSession)).
		AddExtraSessions(sessions...).
		Run(nil)
}

// DictionaryAttackParameters executes the TPM2_DictionaryAttackParameters
// command to change the dictionary attack lockout settings.
//
// The command requires authorization with the user auth role for
// lockContext (which must correspond to HandleLockout), with session based
// authorization provided via lockContextAuthSession.
func (t *TPMContext) DictionaryAttackParameters(lockContext ResourceContext, newMaxTries, newRecoveryTime, lockoutRecovery uint32, lockContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandDictionaryAttackParameters).
		AddHandles(UseResourceContextWithAuth(lockContext, lockContextAuthSession)).
		AddParams(newMaxTries, newRecoveryTime, lockoutRecovery).
		AddExtraSessions(sessions...).
		Run(nil)
}
