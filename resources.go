// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"fmt"

	"github.com/colemickens/go-tpm2/mu"

	"golang.org/x/xerrors"
)

// Named is some entity that has a name.
type Named interface {
	// Name returns the name of the entity. The name of an entity with a
	// permanent or PCR handle is the handle itself; the name of an object
	// or NV index is a digest of its public area.
	Name() Name
}

// HandleContext corresponds to an entity that resides on the TPM. Handle
// contexts are used as command handle arguments - the handle's value is
// serialized into the handle area of the command, and its name contributes
// to the command parameter digest that sessions authorize.
type HandleContext interface {
	Named

	// Handle returns the handle of the entity.
	Handle() Handle
}

// ResourceContext corresponds to an entity that resides on the TPM and
// which can require authorization with its authorization value.
type ResourceContext interface {
	HandleContext

	// SetAuthValue sets the authorization value that will be included in
	// HMAC calculations for commands that require authorization with the
	// user role, or used directly for passphrase authorization.
	SetAuthValue([]byte)
}

type resourceContextInternal interface {
	ResourceContext

	GetAuthValue() []byte
}

// SessionContext corresponds to a session that resides on the TPM.
type SessionContext interface {
	HandleContext

	// NonceTPM returns the most recent TPM nonce for this session.
	NonceTPM() Nonce

	// Attrs returns the attributes that will be used when this session is
	// included in a command.
	Attrs() SessionAttributes

	// WithAttrs returns a duplicate of this SessionContext with the
	// specified attributes.
	WithAttrs(attrs SessionAttributes) SessionContext

	// IncludeAttrs returns a duplicate of this SessionContext with the
	// specified attributes included in addition to its current attributes.
	IncludeAttrs(attrs SessionAttributes) SessionContext

	// ExcludeAttrs returns a duplicate of this SessionContext with the
	// specified attributes excluded.
	ExcludeAttrs(attrs SessionAttributes) SessionContext

	// IsExclusive indicates that the most recent response from the TPM
	// indicated that this session is exclusive for audit purposes.
	IsExclusive() bool
}

// sessionContextData is the state that a session carries between commands.
type sessionContextData struct {
	HashAlg         HashAlgorithmId
	SessionType     SessionType
	PolicyAuthValue bool
	IsBound         bool
	BoundEntity     Name
	SessionKey      []byte
	NonceCaller     Nonce
	NonceTPM        Nonce
	Symmetric       *SymDef
	IsExclusive     bool
}

type sessionContextInternal interface {
	SessionContext

	Data() *sessionContextData
	Invalidate()
}

// permanentContext corresponds to an entity with a permanent or PCR
// handle. Its name is the handle itself.
type permanentContext struct {
	handle Handle
	auth   []byte
}

func (r *permanentContext) Handle() Handle {
	return r.handle
}

func (r *permanentContext) Name() Name {
	return mu.MustMarshalToBytes(r.handle)
}

func (r *permanentContext) SetAuthValue(auth []byte) {
	r.auth = auth
}

func (r *permanentContext) GetAuthValue() []byte {
	return r.auth
}

func makePermanentContext(handle Handle) *permanentContext {
	return &permanentContext{handle: handle}
}

// objectContext corresponds to an object that resides on the TPM.
type objectContext struct {
	handle Handle
	public *Public
	name   Name
	auth   []byte
}

func (r *objectContext) Handle() Handle {
	return r.handle
}

func (r *objectContext) Name() Name {
	return r.name
}

func (r *objectContext) SetAuthValue(auth []byte) {
	r.auth = auth
}

func (r *objectContext) GetAuthValue() []byte {
	return r.auth
}

// Public returns the public area of the object.
func (r *objectContext) Public() *Public {
	return r.public
}

func makeObjectContext(handle Handle, name Name, public *Public) *objectContext {
	return &objectContext{handle: handle, name: name, public: public}
}

// nvIndexContext corresponds to an NV index that resides on the TPM.
type nvIndexContext struct {
	handle Handle
	public *NVPublic
	name   Name
	auth   []byte
}

func (r *nvIndexContext) Handle() Handle {
	return r.handle
}

func (r *nvIndexContext) Name() Name {
	return r.name
}

func (r *nvIndexContext) SetAuthValue(auth []byte) {
	r.auth = auth
}

func (r *nvIndexContext) GetAuthValue() []byte {
	return r.auth
}

// SetAttr records an attribute that the TPM sets as a side effect of a
// command (eg, TPMA_NV_WRITTEN after the first write), which changes the
// name of the index.
func (r *nvIndexContext) SetAttr(a NVAttributes) {
	r.public.Attrs |= a
	r.name = r.public.Name()
}

func makeNVIndexContext(name Name, public *NVPublic) *nvIndexContext {
	return &nvIndexContext{handle: public.Index, name: name, public: public}
}

// sessionContext corresponds to a session that resides on the TPM.
type sessionContext struct {
	handle Handle
	data   *sessionContextData
	attrs  SessionAttributes
}

func (r *sessionContext) Handle() Handle {
	return r.handle
}

func (r *sessionContext) Name() Name {
	return mu.MustMarshalToBytes(r.handle)
}

func (r *sessionContext) NonceTPM() Nonce {
	if r.data == nil {
		return nil
	}
	return r.data.NonceTPM
}

func (r *sessionContext) Attrs() SessionAttributes {
	attrs := r.attrs
	if attrs&AttrAuditExclusive != 0 {
		attrs |= AttrAudit
	}
	if attrs&AttrAuditReset != 0 {
		attrs |= AttrAudit
	}
	return attrs
}

func (r *sessionContext) WithAttrs(attrs SessionAttributes) SessionContext {
	return &sessionContext{handle: r.handle, data: r.data, attrs: attrs}
}

func (r *sessionContext) IncludeAttrs(attrs SessionAttributes) SessionContext {
	return &sessionContext{handle: r.handle, data: r.data, attrs: r.attrs | attrs}
}

func (r *sessionContext) ExcludeAttrs(attrs SessionAttributes) SessionContext {
	return &sessionContext{handle: r.handle, data: r.data, attrs: r.attrs &^ attrs}
}

func (r *sessionContext) IsExclusive() bool {
	if r.data == nil {
		return false
	}
	return r.data.IsExclusive
}

func (r *sessionContext) Data() *sessionContextData {
	return r.data
}

func (r *sessionContext) Invalidate() {
	r.data = nil
}

// CreatePartialHandleContext creates a new HandleContext for the specified
// handle. The returned context has a name equal to the handle value, and
// can be used where the TPM doesn't use the name of the entity for
// authorization (sessions, PCRs and permanent resources), or where a
// context is needed for a handle that can't be read back from the TPM
// (eg, the handle argument of TPMContext.EvictControl for an object that
// is being evicted).
func CreatePartialHandleContext(handle Handle) HandleContext {
	switch handle.Type() {
	case HandleTypePCR, HandleTypePermanent:
		return makePermanentContext(handle)
	case HandleTypeHMACSession, HandleTypePolicySession:
		return &sessionContext{handle: handle}
	default:
		return &limitedHandleContext{handle: handle}
	}
}

// limitedHandleContext is a HandleContext for an object or NV index whose
// public area isn't known. Its name is the handle itself, which means it
// can't be used where a session computes an HMAC over the entity's name.
type limitedHandleContext struct {
	handle Handle
}

func (r *limitedHandleContext) Handle() Handle {
	return r.handle
}

func (r *limitedHandleContext) Name() Name {
	return mu.MustMarshalToBytes(r.handle)
}

// CreateResourceContextFromTPM creates and returns a new ResourceContext
// for the specified handle. It executes a command to read the public area
// from the TPM in order to initialize state that is maintained on the host
// side, including the name of the corresponding entity.
//
// If the handle references an NV index or an object, it will execute
// either TPM2_NV_ReadPublic or TPM2_ReadPublic. If the handle references a
// permanent resource or PCR, no command is executed.
//
// It returns an error if the handle doesn't correspond to an NV index,
// object, permanent resource or PCR.
func (t *TPMContext) CreateResourceContextFromTPM(handle Handle, sessions ...SessionContext) (ResourceContext, error) {
	switch handle.Type() {
	case HandleTypePCR, HandleTypePermanent:
		return t.GetPermanentContext(handle), nil
	case HandleTypeNVIndex:
		pub, name, err := t.NVReadPublic(CreatePartialHandleContext(handle), sessions...)
		if err != nil {
			return nil, err
		}
		if name.Algorithm() != pub.NameAlg {
			return nil, &InvalidResponseError{CommandNVReadPublic, fmt.Errorf("name and public area don't match for handle 0x%08x", handle)}
		}
		return makeNVIndexContext(name, pub), nil
	case HandleTypeTransient, HandleTypePersistent:
		pub, name, _, err := t.ReadPublic(CreatePartialHandleContext(handle), sessions...)
		if err != nil {
			return nil, err
		}
		if name.Algorithm() != pub.NameAlg {
			return nil, &InvalidResponseError{CommandReadPublic, fmt.Errorf("name and public area don't match for handle 0x%08x", handle)}
		}
		return makeObjectContext(handle, name, pub), nil
	default:
		return nil, makeInvalidArgError("handle", fmt.Sprintf("invalid handle type 0x%02x", handle.Type()))
	}
}

// CreateNVIndexResourceContextFromPublic creates and returns a new
// ResourceContext for the NV index associated with the specified public
// area, computing the name from the public area.
func CreateNVIndexResourceContextFromPublic(pub *NVPublic) (ResourceContext, error) {
	name, err := pub.ComputeName()
	if err != nil {
		return nil, xerrors.Errorf("cannot compute name from public area: %w", err)
	}
	return makeNVIndexContext(name, pub), nil
}

// CreateObjectResourceContextFromPublic creates and returns a new
// ResourceContext for the object associated with the specified handle and
// public area, computing the name from the public area.
func CreateObjectResourceContextFromPublic(handle Handle, pub *Public) (ResourceContext, error) {
	name, err := pub.ComputeName()
	if err != nil {
		return nil, xerrors.Errorf("cannot compute name from public area: %w", err)
	}
	return makeObjectContext(handle, name, pub), nil
}

// GetPermanentContext returns a ResourceContext for the specified permanent
// handle or PCR handle. The returned context is stateful - calls for the
// same handle return the same context, so that an authorization value set
// with ResourceContext.SetAuthValue is retained across commands.
func (t *TPMContext) GetPermanentContext(handle Handle) ResourceContext {
	if rc, exists := t.permanentResources[handle]; exists {
		return rc
	}

	rc := makePermanentContext(handle)
	t.permanentResources[handle] = rc
	return rc
}

// OwnerHandleContext returns the context for the owner hierarchy.
func (t *TPMContext) OwnerHandleContext() ResourceContext {
	return t.GetPermanentContext(HandleOwner)
}

// NullHandleContext returns the context for the null hierarchy.
func (t *TPMContext) NullHandleContext() ResourceContext {
	return t.GetPermanentContext(HandleNull)
}

// LockoutHandleContext returns the context for the lockout hierarchy.
func (t *TPMContext) LockoutHandleContext() ResourceContext {
	return t.GetPermanentContext(HandleLockout)
}

// EndorsementHandleContext returns the context for the endorsement
// hierarchy.
func (t *TPMContext) EndorsementHandleContext() ResourceContext {
	return t.GetPermanentContext(HandleEndorsement)
}

// PlatformHandleContext returns the context for the platform hierarchy.
func (t *TPMContext) PlatformHandleContext() ResourceContext {
	return t.GetPermanentContext(HandlePlatform)
}

// PCRHandleContext returns the context for the PCR at the specified index.
func (t *TPMContext) PCRHandleContext(pcr int) ResourceContext {
	if pcr < 0 || Handle(pcr).Type() != HandleTypePCR {
		panic(fmt.Sprintf("invalid PCR index %d", pcr))
	}
	return t.GetPermanentContext(Handle(pcr))
}

// CommandHandleContext associates a HandleContext with the session that
// authorizes it in a command.
type CommandHandleContext struct {
	handle  HandleContext
	session SessionContext
}

// Handle returns the HandleContext.
func (c *CommandHandleContext) Handle() HandleContext {
	return c.handle
}

// Session returns the SessionContext that authorizes the handle, if the
// handle requires authorization.
func (c *CommandHandleContext) Session() SessionContext {
	return c.session
}

// UseResourceContextWithAuth creates a CommandHandleContext for a
// ResourceContext that requires authorization. If session is nil,
// passphrase authorization is used with the authorization value of the
// resource.
func UseResourceContextWithAuth(r ResourceContext, session SessionContext) *CommandHandleContext {
	if r == nil {
		r = makePermanentContext(HandleNull)
	}
	return &CommandHandleContext{handle: r, session: sessionOrPassword(session)}
}

// UseHandleContext creates a CommandHandleContext for a HandleContext that
// requires no authorization.
func UseHandleContext(h HandleContext) *CommandHandleContext {
	if h == nil {
		h = makePermanentContext(HandleNull)
	}
	return &CommandHandleContext{handle: h}
}

// pwSession is the session context used for passphrase authorization. It
// corresponds to TPM_RS_PW.
var pwSession = &sessionContext{handle: HandlePW}

func sessionOrPassword(session SessionContext) SessionContext {
	if session == nil {
		return pwSession
	}
	return session
}
