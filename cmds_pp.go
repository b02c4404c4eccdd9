// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 26 (Miscellaneous
// Management Functions) in part 3 of the library spec.

// PPCommands executes the TPM2_PP_Commands command to change the list of
// commands that require assertion of physical presence.
//
// The command requires authorization with the user auth role for
// authContext (which must correspond to HandlePlatform), with session
// based authorization provided via authContextAuthSession. Physical
// presence must be asserted for this command itself.
func (t *TPMContext) PPCommands(authContext ResourceContext, setList, clearList CommandCodeList, authContextAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandPPCommands).
		AddHandles(UseResourceContextWithAuth(authContext, authContextAuthSession)).
		AddParams(setList, clearList).
		AddExtraSessions(sessions...).
		Run(nil)
}
