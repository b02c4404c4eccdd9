// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

/*
Package tpm2 implements an API for communicating with TPM 2.0 devices.

The API is comprised of the TPM 2.0 type catalog with marshalling to and
from the TPM wire format (see the mu subpackage), command and response
packet framing, session based authorization with support for parameter
encryption, and a method on TPMContext for each TPM command. Communication
with a device happens via an implementation of the TCTI interface - see
the linux subpackage for a transport that uses the kernel's TPM character
devices.
*/
package tpm2
