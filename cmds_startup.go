// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 9 (Start-up) in
// part 3 of the library spec.

// Startup executes the TPM2_Startup command with the specified
// TPM_SU value. This is typically executed once by the platform firmware
// after a reset, and the resource manager on some platforms doesn't allow
// it to be executed again.
func (t *TPMContext) Startup(startupType StartupType) error {
	return t.StartCommand(CommandStartup).AddParams(startupType).Run(nil)
}

// Shutdown executes the TPM2_Shutdown command with the specified TPM_SU
// value, which prepares the TPM for a power cycle.
func (t *TPMContext) Shutdown(shutdownType StartupType, sessions ...SessionContext) error {
	return t.StartCommand(CommandShutdown).AddParams(shutdownType).AddExtraSessions(sessions...).Run(nil)
}
