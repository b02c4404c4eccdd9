// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 10 (Testing) in
// part 3 of the library spec.

// SelfTest executes the TPM2_SelfTest command, which causes the TPM to
// test its capabilities. If fullTest is true, it will test all functions.
// If fullTest is false, it will only test those functions that haven't
// been tested yet.
func (t *TPMContext) SelfTest(fullTest bool, sessions ...SessionContext) error {
	return t.StartCommand(CommandSelfTest).AddParams(fullTest).AddExtraSessions(sessions...).Run(nil)
}

// IncrementalSelfTest executes the TPM2_IncrementalSelfTest command, which
// causes the TPM to test the specified algorithms. It returns the list of
// algorithms that haven't been tested yet.
func (t *TPMContext) IncrementalSelfTest(toTest AlgorithmList, sessions ...SessionContext) (toDoList AlgorithmList, err error) {
	if err := t.StartCommand(CommandIncrementalSelfTest).
		AddParams(toTest).
		AddExtraSessions(sessions...).
		Run(nil, &toDoList); err != nil {
		return nil, err
	}
	return toDoList, nil
}

// GetTestResult executes the TPM2_GetTestResult command, which returns
// manufacturer specific information about the results of a self test and
// an indication of the test status.
func (t *TPMContext) GetTestResult(sessions ...SessionContext) (outData MaxBuffer, testResult ResponseCode, err error) {
	if err := t.StartCommand(CommandGetTestResult).
		AddExtraSessions(sessions...).
		Run(nil, &outData, &testResult); err != nil {
		return nil, 0, err
	}
	return outData, testResult, nil
}
