// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// This file contains the commands defined in section 30 (Capability
// Commands) in part 3 of the library spec.

// GetCapabilityRaw executes a single TPM2_GetCapability command,
// returning the moreData flag and the capability data from one response.
// Most users will want to use TPMContext.GetCapability or one of the typed
// wrappers, which iterate until the TPM indicates that there are no more
// values.
func (t *TPMContext) GetCapabilityRaw(capability Capability, property, propertyCount uint32, sessions ...SessionContext) (moreData bool, capabilityData *CapabilityData, err error) {
	if err := t.StartCommand(CommandGetCapability).
		AddParams(capability, property, propertyCount).
		AddExtraSessions(sessions...).
		Run(nil, &moreData, &capabilityData); err != nil {
		return false, nil, err
	}
	return moreData, capabilityData, nil
}

// GetCapability executes one or more TPM2_GetCapability commands to
// retrieve the requested values of the specified capability, iterating
// while the TPM indicates that more values remain.
func (t *TPMContext) GetCapability(capability Capability, property, propertyCount uint32, sessions ...SessionContext) (capabilityData *CapabilityData, err error) {
	capabilityData = &CapabilityData{Capability: capability, Data: &CapabilitiesU{}}

	nextProperty := property
	remaining := propertyCount

	for remaining > 0 {
		moreData, data, err := t.GetCapabilityRaw(capability, nextProperty, remaining, sessions...)
		if err != nil {
			return nil, err
		}
		if data.Capability != capability {
			return nil, &InvalidResponseError{CommandGetCapability,
				makeInvalidArgError("capabilityData", "unexpected capability")}
		}

		var count uint32
		switch capability {
		case CapabilityAlgs:
			capabilityData.Data.Algorithms = append(capabilityData.Data.Algorithms, data.Data.Algorithms...)
			count = uint32(len(data.Data.Algorithms))
			if count > 0 {
				nextProperty = uint32(data.Data.Algorithms[count-1].Alg) + 1
			}
		case CapabilityHandles:
			capabilityData.Data.Handles = append(capabilityData.Data.Handles, data.Data.Handles...)
			count = uint32(len(data.Data.Handles))
			if count > 0 {
				nextProperty = uint32(data.Data.Handles[count-1]) + 1
			}
		case CapabilityCommands:
			capabilityData.Data.Command = append(capabilityData.Data.Command, data.Data.Command...)
			count = uint32(len(data.Data.Command))
			if count > 0 {
				nextProperty = uint32(data.Data.Command[count-1].CommandCode()) + 1
			}
		case CapabilityPPCommands:
			capabilityData.Data.PPCommands = append(capabilityData.Data.PPCommands, data.Data.PPCommands...)
			count = uint32(len(data.Data.PPCommands))
			if count > 0 {
				nextProperty = uint32(data.Data.PPCommands[count-1]) + 1
			}
		case CapabilityAuditCommands:
			capabilityData.Data.AuditCommands = append(capabilityData.Data.AuditCommands, data.Data.AuditCommands...)
			count = uint32(len(data.Data.AuditCommands))
			if count > 0 {
				nextProperty = uint32(data.Data.AuditCommands[count-1]) + 1
			}
		case CapabilityPCRs:
			capabilityData.Data.AssignedPCR = append(capabilityData.Data.AssignedPCR, data.Data.AssignedPCR...)
			// The TPM returns all banks in one go.
			count = remaining
		case CapabilityTPMProperties:
			capabilityData.Data.TPMProperties = append(capabilityData.Data.TPMProperties, data.Data.TPMProperties...)
			count = uint32(len(data.Data.TPMProperties))
			if count > 0 {
				nextProperty = uint32(data.Data.TPMProperties[count-1].Property) + 1
			}
		case CapabilityPCRProperties:
			capabilityData.Data.PCRProperties = append(capabilityData.Data.PCRProperties, data.Data.PCRProperties...)
			count = uint32(len(data.Data.PCRProperties))
			if count > 0 {
				nextProperty = uint32(data.Data.PCRProperties[count-1].Tag) + 1
			}
		case CapabilityECCCurves:
			capabilityData.Data.ECCCurves = append(capabilityData.Data.ECCCurves, data.Data.ECCCurves...)
			count = uint32(len(data.Data.ECCCurves))
			if count > 0 {
				nextProperty = uint32(data.Data.ECCCurves[count-1]) + 1
			}
		case CapabilityAuthPolicies:
			capabilityData.Data.AuthPolicies = append(capabilityData.Data.AuthPolicies, data.Data.AuthPolicies...)
			count = uint32(len(data.Data.AuthPolicies))
			if count > 0 {
				nextProperty = uint32(data.Data.AuthPolicies[count-1].Handle) + 1
			}
		default:
			return nil, makeInvalidArgError("capability", "unknown capability")
		}

		if !moreData || count == 0 {
			break
		}
		if count > remaining {
			count = remaining
		}
		remaining -= count
	}

	return capabilityData, nil
}

// GetCapabilityAlgs is a wrapper around TPMContext.GetCapability for the
// CapabilityAlgs capability.
func (t *TPMContext) GetCapabilityAlgs(first AlgorithmId, propertyCount uint32, sessions ...SessionContext) (algorithms AlgorithmPropertyList, err error) {
	data, err := t.GetCapability(CapabilityAlgs, uint32(first), propertyCount, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.Algorithms, nil
}

// GetCapabilityCommands is a wrapper around TPMContext.GetCapability for
// the CapabilityCommands capability.
func (t *TPMContext) GetCapabilityCommands(first CommandCode, propertyCount uint32, sessions ...SessionContext) (commandAttributes CommandAttributesList, err error) {
	data, err := t.GetCapability(CapabilityCommands, uint32(first), propertyCount, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.Command, nil
}

// GetCapabilityHandles is a wrapper around TPMContext.GetCapability for
// the CapabilityHandles capability, which returns the handles of resources
// that currently reside on the TPM, starting from firstHandle.
func (t *TPMContext) GetCapabilityHandles(firstHandle Handle, propertyCount uint32, sessions ...SessionContext) (handles HandleList, err error) {
	data, err := t.GetCapability(CapabilityHandles, uint32(firstHandle), propertyCount, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.Handles, nil
}

// GetCapabilityPCRs is a wrapper around TPMContext.GetCapability for the
// CapabilityPCRs capability, which returns the current PCR allocation.
func (t *TPMContext) GetCapabilityPCRs(sessions ...SessionContext) (pcrs PCRSelectionList, err error) {
	data, err := t.GetCapability(CapabilityPCRs, 0, CapabilityMaxProperties, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.AssignedPCR, nil
}

// GetCapabilityTPMProperties is a wrapper around TPMContext.GetCapability
// for the CapabilityTPMProperties capability.
func (t *TPMContext) GetCapabilityTPMProperties(first Property, propertyCount uint32, sessions ...SessionContext) (tpmProperties TaggedTPMPropertyList, err error) {
	data, err := t.GetCapability(CapabilityTPMProperties, uint32(first), propertyCount, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.TPMProperties, nil
}

// GetCapabilityTPMProperty is a wrapper around
// TPMContext.GetCapabilityTPMProperties for reading the value of a single
// property.
func (t *TPMContext) GetCapabilityTPMProperty(property Property, sessions ...SessionContext) (uint32, error) {
	props, err := t.GetCapabilityTPMProperties(property, 1, sessions...)
	if err != nil {
		return 0, err
	}
	if len(props) == 0 || props[0].Property != property {
		return 0, &InvalidResponseError{CommandGetCapability, makeInvalidArgError("tpmProperties", "unexpected properties")}
	}
	return props[0].Value, nil
}

// GetCapabilityPCRProperties is a wrapper around TPMContext.GetCapability
// for the CapabilityPCRProperties capability.
func (t *TPMContext) GetCapabilityPCRProperties(first PropertyPCR, propertyCount uint32, sessions ...SessionContext) (pcrProperties TaggedPCRPropertyList, err error) {
	data, err := t.GetCapability(CapabilityPCRProperties, uint32(first), propertyCount, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.PCRProperties, nil
}

// GetCapabilityECCCurves is a wrapper around TPMContext.GetCapability for
// the CapabilityECCCurves capability.
func (t *TPMContext) GetCapabilityECCCurves(sessions ...SessionContext) (curves ECCCurveList, err error) {
	data, err := t.GetCapability(CapabilityECCCurves, uint32(ECCCurveFirst), CapabilityMaxProperties, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.ECCCurves, nil
}

// GetCapabilityAuthPolicies is a wrapper around TPMContext.GetCapability
// for the CapabilityAuthPolicies capability.
func (t *TPMContext) GetCapabilityAuthPolicies(first Handle, propertyCount uint32, sessions ...SessionContext) (authPolicies TaggedPolicyList, err error) {
	data, err := t.GetCapability(CapabilityAuthPolicies, uint32(first), propertyCount, sessions...)
	if err != nil {
		return nil, err
	}
	return data.Data.AuthPolicies, nil
}

// TestParms executes the TPM2_TestParms command to check that the
// specified algorithm parameters are supported by the TPM.
func (t *TPMContext) TestParms(parameters *PublicParams, sessions ...SessionContext) error {
	return t.StartCommand(CommandTestParms).
		AddParams(parameters).
		AddExtraSessions(sessions...).
		Run(nil)
}
