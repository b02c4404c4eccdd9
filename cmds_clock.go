// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 29 (Clocks and
// Timers) in part 3 of the library spec.

// ReadClock executes the TPM2_ReadClock command to return the current
// time and clock information from the TPM.
func (t *TPMContext) ReadClock(sessions ...SessionContext) (currentTime *TimeInfo, err error) {
	if err := t.StartCommand(CommandReadClock).
		AddExtraSessions(sessions...).
		Run(nil, &currentTime); err != nil {
		return nil, err
	}
	return currentTime, nil
}

// ClockSet executes the TPM2_ClockSet command to advance the value of the
// TPM's clock to newTime, in milliseconds. The value can't go backwards.
//
// The command requires authorization with the user auth role for auth
// (which must correspond to HandleOwner or HandlePlatform), with session
// based authorization provided via authAuthSession.
func (t *TPMContext) ClockSet(auth ResourceContext, newTime uint64, authAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandClockSet).
		AddHandles(UseResourceContextWithAuth(auth, authAuthSession)).
		AddParams(newTime).
		AddExtraSessions(sessions...).
		Run(nil)
}

// ClockRateAdjust executes the TPM2_ClockRateAdjust command to adjust the
// rate at which the TPM's clock advances.
//
// The command requires authorization with the user auth role for auth
// (which must correspond to HandleOwner or HandlePlatform), with session
// based authorization provided via authAuthSession.
func (t *TPMContext) ClockRateAdjust(auth ResourceContext, rateAdjust ClockAdjust, authAuthSession SessionContext, sessions ...SessionContext) error {
	return t.StartCommand(CommandClockRateAdjust).
		AddHandles(UseResourceContextWithAuth(auth, authAuthSession)).
		AddParams(rateAdjust).
		AddExtraSessions(sessions...).
		Run(nil)
}
