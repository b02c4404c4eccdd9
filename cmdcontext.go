// Copyright 2021 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

// commandDispatcher is implemented by the context that executes a prepared
// command and completes its response.
type commandDispatcher interface {
	RunCommand(c *cmdContext, responseHandle *Handle) (*rspContext, error)
	CompleteResponse(r *rspContext, responseParams ...interface{}) error
}

// CommandContext provides an API for building a TPM command. Instances are
// created with TPMContext.StartCommand, which is what all of the
// convenience methods of TPMContext use.
type CommandContext struct {
	dispatcher commandDispatcher
	cmd        cmdContext
}

// AddHandles appends the supplied command handle contexts to this command.
// The command handles always come first in a command, in the order that
// the TPM expects them.
func (c *CommandContext) AddHandles(handles ...*CommandHandleContext) *CommandContext {
	c.cmd.Handles = append(c.cmd.Handles, handles...)
	return c
}

// AddParams appends the supplied command parameters to this command, in
// the order that the TPM expects them.
func (c *CommandContext) AddParams(params ...interface{}) *CommandContext {
	c.cmd.Params = append(c.cmd.Params, params...)
	return c
}

// AddExtraSessions adds the supplied additional sessions to this command.
// These sessions don't authorize any resources, and are used for auditing
// or session based parameter encryption.
func (c *CommandContext) AddExtraSessions(sessions ...SessionContext) *CommandContext {
	c.cmd.ExtraSessions = append(c.cmd.ExtraSessions, sessions...)
	return c
}

// Run executes this command, and unmarshals the response parameters into
// the supplied pointers. If the command returns a handle, a pointer to a
// Handle must be supplied in responseHandle. The response auth area is
// processed before this returns.
func (c *CommandContext) Run(responseHandle *Handle, responseParams ...interface{}) error {
	r, err := c.RunWithoutProcessingResponse(responseHandle)
	if err != nil {
		return err
	}
	return r.Complete(responseParams...)
}

// RunWithoutProcessingResponse executes this command but defers processing
// of the response auth area and response parameters to the returned
// ResponseContext. This is useful for commands whose response parameters
// need to be unmarshalled at a later point (eg, after the next command has
// been prepared, in order to preserve the exclusivity of an audit
// session).
func (c *CommandContext) RunWithoutProcessingResponse(responseHandle *Handle) (*ResponseContext, error) {
	r, err := c.dispatcher.RunCommand(&c.cmd, responseHandle)
	if err != nil {
		return nil, err
	}
	return &ResponseContext{dispatcher: c.dispatcher, rsp: r}, nil
}

// ResponseContext contains the response of a command executed with
// CommandContext.RunWithoutProcessingResponse.
type ResponseContext struct {
	dispatcher commandDispatcher
	rsp        *rspContext
}

// Complete processes the response auth area if it hasn't been processed
// already, and unmarshals the response parameters into the supplied
// pointers.
func (c *ResponseContext) Complete(responseParams ...interface{}) error {
	return c.dispatcher.CompleteResponse(c.rsp, responseParams...)
}
