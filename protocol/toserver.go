package protocol

// Commands sent by clients. Interactive traffic defaults to channel 0,
// session and auth traffic to channel 1, and bulk acknowledgements for
// world data to channel 2, mirroring what the reference client does.

// ToServerNull carries no data. Clients send it as the very first
// datagram of a connection so the server learns their address and
// assigns a peer id.
type ToServerNull struct{}

func (c *ToServerNull) attrs() attrs {
	return attrs{id: 0x00, dir: ToServer, name: "ToServerNull", channel: 0, reliable: false}
}

func (c *ToServerNull) marshalTo(f *fieldWriter)     {}
func (c *ToServerNull) unmarshalFrom(f *fieldReader) {}

// ToServerInit opens the handshake: the client states the serialization
// and protocol version ranges it speaks and the player name it wants.
type ToServerInit struct {
	SerializationVersionMax   uint8
	SupportedCompressionModes uint16
	MinProtocolVersion        uint16
	MaxProtocolVersion        uint16
	PlayerName                string
}

func (c *ToServerInit) attrs() attrs {
	return attrs{id: 0x02, dir: ToServer, name: "ToServerInit", channel: 1, reliable: false}
}

func (c *ToServerInit) marshalTo(f *fieldWriter) {
	f.u8(c.SerializationVersionMax)
	f.u16(c.SupportedCompressionModes)
	f.u16(c.MinProtocolVersion)
	f.u16(c.MaxProtocolVersion)
	f.str(c.PlayerName)
}

func (c *ToServerInit) unmarshalFrom(f *fieldReader) {
	c.SerializationVersionMax = f.u8()
	c.SupportedCompressionModes = f.u16()
	c.MinProtocolVersion = f.u16()
	c.MaxProtocolVersion = f.u16()
	c.PlayerName = f.str()
}

// ToServerInit2 tells the server the client is ready for definitions
// and media. Lang was a later addition and is optional on the wire.
type ToServerInit2 struct {
	Lang *string
}

func (c *ToServerInit2) attrs() attrs {
	return attrs{id: 0x11, dir: ToServer, name: "ToServerInit2", channel: 1, reliable: true}
}

func (c *ToServerInit2) marshalTo(f *fieldWriter) {
	f.optStr(c.Lang)
}

func (c *ToServerInit2) unmarshalFrom(f *fieldReader) {
	c.Lang = f.optStr()
}

type ToServerModchannelJoin struct {
	ChannelName string
}

func (c *ToServerModchannelJoin) attrs() attrs {
	return attrs{id: 0x17, dir: ToServer, name: "ToServerModchannelJoin", channel: 0, reliable: true}
}

func (c *ToServerModchannelJoin) marshalTo(f *fieldWriter) {
	f.str(c.ChannelName)
}

func (c *ToServerModchannelJoin) unmarshalFrom(f *fieldReader) {
	c.ChannelName = f.str()
}

type ToServerModchannelLeave struct {
	ChannelName string
}

func (c *ToServerModchannelLeave) attrs() attrs {
	return attrs{id: 0x18, dir: ToServer, name: "ToServerModchannelLeave", channel: 0, reliable: true}
}

func (c *ToServerModchannelLeave) marshalTo(f *fieldWriter) {
	f.str(c.ChannelName)
}

func (c *ToServerModchannelLeave) unmarshalFrom(f *fieldReader) {
	c.ChannelName = f.str()
}

type ToServerModchannelMsg struct {
	ChannelName string
	Message     string
}

func (c *ToServerModchannelMsg) attrs() attrs {
	return attrs{id: 0x19, dir: ToServer, name: "ToServerModchannelMsg", channel: 0, reliable: true}
}

func (c *ToServerModchannelMsg) marshalTo(f *fieldWriter) {
	f.str(c.ChannelName)
	f.str(c.Message)
}

func (c *ToServerModchannelMsg) unmarshalFrom(f *fieldReader) {
	c.ChannelName = f.str()
	c.Message = f.str()
}

// ToServerPlayerPos is the movement update clients send every tick. It
// is deliberately unreliable: a lost sample is obsolete by the time it
// could be retransmitted.
type ToServerPlayerPos struct {
	Pos PlayerPos
}

func (c *ToServerPlayerPos) attrs() attrs {
	return attrs{id: 0x23, dir: ToServer, name: "ToServerPlayerPos", channel: 0, reliable: false}
}

func (c *ToServerPlayerPos) marshalTo(f *fieldWriter) {
	c.Pos.write(f)
}

func (c *ToServerPlayerPos) unmarshalFrom(f *fieldReader) {
	c.Pos.read(f)
}

// ToServerGotBlocks acknowledges received map blocks so the server can
// advance its send window for this client.
type ToServerGotBlocks struct {
	Blocks []V3S16
}

func (c *ToServerGotBlocks) attrs() attrs {
	return attrs{id: 0x24, dir: ToServer, name: "ToServerGotBlocks", channel: 2, reliable: true}
}

func (c *ToServerGotBlocks) marshalTo(f *fieldWriter) {
	f.blockArray8(c.Blocks)
}

func (c *ToServerGotBlocks) unmarshalFrom(f *fieldReader) {
	c.Blocks = f.blockArray8()
}

// ToServerDeletedBlocks reports map blocks the client dropped from its
// cache, so the server knows to resend them when they matter again.
type ToServerDeletedBlocks struct {
	Blocks []V3S16
}

func (c *ToServerDeletedBlocks) attrs() attrs {
	return attrs{id: 0x25, dir: ToServer, name: "ToServerDeletedBlocks", channel: 2, reliable: true}
}

func (c *ToServerDeletedBlocks) marshalTo(f *fieldWriter) {
	f.blockArray8(c.Blocks)
}

func (c *ToServerDeletedBlocks) unmarshalFrom(f *fieldReader) {
	c.Blocks = f.blockArray8()
}

// ToServerInventoryAction carries a textual inventory action in the
// game engine's own format; it travels here as opaque bytes.
type ToServerInventoryAction struct {
	Action []byte
}

func (c *ToServerInventoryAction) attrs() attrs {
	return attrs{id: 0x31, dir: ToServer, name: "ToServerInventoryAction", channel: 0, reliable: true}
}

func (c *ToServerInventoryAction) marshalTo(f *fieldWriter) {
	f.raw(c.Action)
}

func (c *ToServerInventoryAction) unmarshalFrom(f *fieldReader) {
	c.Action = f.rest()
}

type ToServerChatMessage struct {
	Message string
}

func (c *ToServerChatMessage) attrs() attrs {
	return attrs{id: 0x32, dir: ToServer, name: "ToServerChatMessage", channel: 0, reliable: true}
}

func (c *ToServerChatMessage) marshalTo(f *fieldWriter) {
	f.wstr(c.Message)
}

func (c *ToServerChatMessage) unmarshalFrom(f *fieldReader) {
	c.Message = f.wstr()
}

// ToServerDamage reports self-inflicted damage such as falling.
type ToServerDamage struct {
	Damage uint16
}

func (c *ToServerDamage) attrs() attrs {
	return attrs{id: 0x35, dir: ToServer, name: "ToServerDamage", channel: 0, reliable: true}
}

func (c *ToServerDamage) marshalTo(f *fieldWriter) {
	f.u16(c.Damage)
}

func (c *ToServerDamage) unmarshalFrom(f *fieldReader) {
	c.Damage = f.u16()
}

// ToServerPlayerItem selects the wielded hotbar slot.
type ToServerPlayerItem struct {
	Item uint16
}

func (c *ToServerPlayerItem) attrs() attrs {
	return attrs{id: 0x37, dir: ToServer, name: "ToServerPlayerItem", channel: 0, reliable: true}
}

func (c *ToServerPlayerItem) marshalTo(f *fieldWriter) {
	f.u16(c.Item)
}

func (c *ToServerPlayerItem) unmarshalFrom(f *fieldReader) {
	c.Item = f.u16()
}

type ToServerRespawn struct{}

func (c *ToServerRespawn) attrs() attrs {
	return attrs{id: 0x38, dir: ToServer, name: "ToServerRespawn", channel: 0, reliable: true}
}

func (c *ToServerRespawn) marshalTo(f *fieldWriter)     {}
func (c *ToServerRespawn) unmarshalFrom(f *fieldReader) {}

// ToServerInteract reports the player acting on a pointed thing. The
// pointed thing serialization belongs to the game engine and travels as
// an opaque u32 length-framed blob.
type ToServerInteract struct {
	Action       InteractAction
	ItemIndex    uint16
	PointedThing []byte
	Pos          PlayerPos
}

func (c *ToServerInteract) attrs() attrs {
	return attrs{id: 0x39, dir: ToServer, name: "ToServerInteract", channel: 0, reliable: true}
}

func (c *ToServerInteract) marshalTo(f *fieldWriter) {
	f.u8(uint8(c.Action))
	f.u16(c.ItemIndex)
	f.bytes32(c.PointedThing)
	c.Pos.write(f)
}

func (c *ToServerInteract) unmarshalFrom(f *fieldReader) {
	c.Action = InteractAction(f.u8())
	c.ItemIndex = f.u16()
	c.PointedThing = f.bytes32()
	c.Pos.read(f)
}

// ToServerRemovedSounds acknowledges server-stopped sounds by id.
type ToServerRemovedSounds struct {
	IDs []int32
}

func (c *ToServerRemovedSounds) attrs() attrs {
	return attrs{id: 0x3a, dir: ToServer, name: "ToServerRemovedSounds", channel: 2, reliable: true}
}

func (c *ToServerRemovedSounds) marshalTo(f *fieldWriter) {
	f.s32Array16(c.IDs)
}

func (c *ToServerRemovedSounds) unmarshalFrom(f *fieldReader) {
	c.IDs = f.s32Array16()
}

// ToServerNodemetaFields submits a formspec attached to a node.
type ToServerNodemetaFields struct {
	Pos      V3S16
	FormName string
	Fields   []FormField
}

func (c *ToServerNodemetaFields) attrs() attrs {
	return attrs{id: 0x3b, dir: ToServer, name: "ToServerNodemetaFields", channel: 0, reliable: true}
}

func (c *ToServerNodemetaFields) marshalTo(f *fieldWriter) {
	f.v3s16(c.Pos)
	f.str(c.FormName)
	f.formFields(c.Fields)
}

func (c *ToServerNodemetaFields) unmarshalFrom(f *fieldReader) {
	c.Pos = f.v3s16()
	c.FormName = f.str()
	c.Fields = f.formFields()
}

// ToServerInventoryFields submits a free-standing formspec.
type ToServerInventoryFields struct {
	FormName string
	Fields   []FormField
}

func (c *ToServerInventoryFields) attrs() attrs {
	return attrs{id: 0x3c, dir: ToServer, name: "ToServerInventoryFields", channel: 0, reliable: true}
}

func (c *ToServerInventoryFields) marshalTo(f *fieldWriter) {
	f.str(c.FormName)
	f.formFields(c.Fields)
}

func (c *ToServerInventoryFields) unmarshalFrom(f *fieldReader) {
	c.FormName = f.str()
	c.Fields = f.formFields()
}

// ToServerRequestMedia asks for the named media files by name.
type ToServerRequestMedia struct {
	Files []string
}

func (c *ToServerRequestMedia) attrs() attrs {
	return attrs{id: 0x40, dir: ToServer, name: "ToServerRequestMedia", channel: 1, reliable: true}
}

func (c *ToServerRequestMedia) marshalTo(f *fieldWriter) {
	f.strArray16(c.Files)
}

func (c *ToServerRequestMedia) unmarshalFrom(f *fieldReader) {
	c.Files = f.strArray16()
}

// ToServerHaveMedia acknowledges pushed media by token.
type ToServerHaveMedia struct {
	Tokens []uint32
}

func (c *ToServerHaveMedia) attrs() attrs {
	return attrs{id: 0x41, dir: ToServer, name: "ToServerHaveMedia", channel: 2, reliable: true}
}

func (c *ToServerHaveMedia) marshalTo(f *fieldWriter) {
	f.u32Array8(c.Tokens)
}

func (c *ToServerHaveMedia) unmarshalFrom(f *fieldReader) {
	c.Tokens = f.u32Array8()
}

// ToServerClientReady closes the join sequence: the client reports its
// version and, on newer clients, the highest formspec version it can
// render.
type ToServerClientReady struct {
	VersionMajor    uint8
	VersionMinor    uint8
	VersionPatch    uint8
	Reserved        uint8
	FullVersion     string
	FormspecVersion *uint16
}

func (c *ToServerClientReady) attrs() attrs {
	return attrs{id: 0x43, dir: ToServer, name: "ToServerClientReady", channel: 1, reliable: true}
}

func (c *ToServerClientReady) marshalTo(f *fieldWriter) {
	f.u8(c.VersionMajor)
	f.u8(c.VersionMinor)
	f.u8(c.VersionPatch)
	f.u8(c.Reserved)
	f.str(c.FullVersion)
	f.optU16(c.FormspecVersion)
}

func (c *ToServerClientReady) unmarshalFrom(f *fieldReader) {
	c.VersionMajor = f.u8()
	c.VersionMinor = f.u8()
	c.VersionPatch = f.u8()
	c.Reserved = f.u8()
	c.FullVersion = f.str()
	c.FormspecVersion = f.optU16()
}

// ToServerFirstSRP registers the SRP verifier for a new account.
type ToServerFirstSRP struct {
	Salt            []byte
	VerificationKey []byte
	IsEmpty         bool
}

func (c *ToServerFirstSRP) attrs() attrs {
	return attrs{id: 0x50, dir: ToServer, name: "ToServerFirstSRP", channel: 1, reliable: true}
}

func (c *ToServerFirstSRP) marshalTo(f *fieldWriter) {
	f.bytes16(c.Salt)
	f.bytes16(c.VerificationKey)
	f.boolean(c.IsEmpty)
}

func (c *ToServerFirstSRP) unmarshalFrom(f *fieldReader) {
	c.Salt = f.bytes16()
	c.VerificationKey = f.bytes16()
	c.IsEmpty = f.boolean()
}

// ToServerSRPBytesA opens an SRP exchange. BasedOn distinguishes a
// real SRP login from one derived from a legacy password hash.
type ToServerSRPBytesA struct {
	A       []byte
	BasedOn uint8
}

func (c *ToServerSRPBytesA) attrs() attrs {
	return attrs{id: 0x51, dir: ToServer, name: "ToServerSRPBytesA", channel: 1, reliable: true}
}

func (c *ToServerSRPBytesA) marshalTo(f *fieldWriter) {
	f.bytes16(c.A)
	f.u8(c.BasedOn)
}

func (c *ToServerSRPBytesA) unmarshalFrom(f *fieldReader) {
	c.A = f.bytes16()
	c.BasedOn = f.u8()
}

// ToServerSRPBytesM finishes an SRP exchange with the client proof.
type ToServerSRPBytesM struct {
	M []byte
}

func (c *ToServerSRPBytesM) attrs() attrs {
	return attrs{id: 0x52, dir: ToServer, name: "ToServerSRPBytesM", channel: 1, reliable: true}
}

func (c *ToServerSRPBytesM) marshalTo(f *fieldWriter) {
	f.bytes16(c.M)
}

func (c *ToServerSRPBytesM) unmarshalFrom(f *fieldReader) {
	c.M = f.bytes16()
}

// ToServerUpdateClientInfo reports render-side facts servers use to
// scale formspecs and HUD elements.
type ToServerUpdateClientInfo struct {
	RenderTargetSize V2U32
	RealGUIScaling   float32
	RealHUDScaling   float32
	MaxFormspecSize  V2F
}

func (c *ToServerUpdateClientInfo) attrs() attrs {
	return attrs{id: 0x53, dir: ToServer, name: "ToServerUpdateClientInfo", channel: 1, reliable: true}
}

func (c *ToServerUpdateClientInfo) marshalTo(f *fieldWriter) {
	f.v2u32(c.RenderTargetSize)
	f.f32(c.RealGUIScaling)
	f.f32(c.RealHUDScaling)
	f.v2f(c.MaxFormspecSize)
}

func (c *ToServerUpdateClientInfo) unmarshalFrom(f *fieldReader) {
	c.RenderTargetSize = f.v2u32()
	c.RealGUIScaling = f.f32()
	c.RealHUDScaling = f.f32()
	c.MaxFormspecSize = f.v2f()
}
