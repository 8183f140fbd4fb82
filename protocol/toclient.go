package protocol

import (
	"fmt"
	"math"

	"github.com/luma/voxelwire/wire"
)

// Commands sent by servers. Bulk world and media transfers default to
// channel 2 so they never delay interactive traffic on channel 0; HUD
// bookkeeping rides channel 1.

// ToClientHello answers the client's init: the versions the server
// settled on and the auth mechanisms it will accept.
type ToClientHello struct {
	SerializationVersion uint8
	CompressionMode      uint16
	ProtocolVersion      uint16
	AuthMechs            AuthMechs
	UsernameLegacy       string
}

func (c *ToClientHello) attrs() attrs {
	return attrs{id: 0x02, dir: ToClient, name: "ToClientHello", channel: 0, reliable: true}
}

func (c *ToClientHello) marshalTo(f *fieldWriter) {
	f.u8(c.SerializationVersion)
	f.u16(c.CompressionMode)
	f.u16(c.ProtocolVersion)
	f.u32(uint32(c.AuthMechs))
	f.str(c.UsernameLegacy)
}

func (c *ToClientHello) unmarshalFrom(f *fieldReader) {
	c.SerializationVersion = f.u8()
	c.CompressionMode = f.u16()
	c.ProtocolVersion = f.u16()
	c.AuthMechs = AuthMechs(f.u32())
	c.UsernameLegacy = f.str()
}

// ToClientAuthAccept concludes authentication and seeds the session.
type ToClientAuthAccept struct {
	PlayerPos               V3F
	MapSeed                 uint64
	RecommendedSendInterval float32
	SudoAuthMethods         AuthMechs
}

func (c *ToClientAuthAccept) attrs() attrs {
	return attrs{id: 0x03, dir: ToClient, name: "ToClientAuthAccept", channel: 0, reliable: true}
}

func (c *ToClientAuthAccept) marshalTo(f *fieldWriter) {
	f.v3f(c.PlayerPos)
	f.u64(c.MapSeed)
	f.f32(c.RecommendedSendInterval)
	f.u32(uint32(c.SudoAuthMethods))
}

func (c *ToClientAuthAccept) unmarshalFrom(f *fieldReader) {
	c.PlayerPos = f.v3f()
	c.MapSeed = f.u64()
	c.RecommendedSendInterval = f.f32()
	c.SudoAuthMethods = AuthMechs(f.u32())
}

// ToClientAcceptSudoMode grants elevated auth, e.g. for a password
// change.
type ToClientAcceptSudoMode struct{}

func (c *ToClientAcceptSudoMode) attrs() attrs {
	return attrs{id: 0x04, dir: ToClient, name: "ToClientAcceptSudoMode", channel: 0, reliable: true}
}

func (c *ToClientAcceptSudoMode) marshalTo(f *fieldWriter)     {}
func (c *ToClientAcceptSudoMode) unmarshalFrom(f *fieldReader) {}

type ToClientDenySudoMode struct{}

func (c *ToClientDenySudoMode) attrs() attrs {
	return attrs{id: 0x05, dir: ToClient, name: "ToClientDenySudoMode", channel: 0, reliable: true}
}

func (c *ToClientDenySudoMode) marshalTo(f *fieldWriter)     {}
func (c *ToClientDenySudoMode) unmarshalFrom(f *fieldReader) {}

// ToClientAccessDenied rejects a client. Only some codes carry a
// message and a reconnect hint; see DenyCode.
type ToClientAccessDenied struct {
	Code      DenyCode
	Message   string
	Reconnect bool
}

func (c *ToClientAccessDenied) attrs() attrs {
	return attrs{id: 0x0a, dir: ToClient, name: "ToClientAccessDenied", channel: 0, reliable: true}
}

func (c *ToClientAccessDenied) marshalTo(f *fieldWriter) {
	f.u8(uint8(c.Code))

	switch {
	case c.Code == DenyShutdown || c.Code == DenyCrash:
		f.str(c.Message)
		f.boolean(c.Reconnect)
	case c.Code == DenyCustomString || c.Code > DenyCrash:
		f.str(c.Message)
	}
}

func (c *ToClientAccessDenied) unmarshalFrom(f *fieldReader) {
	c.Code = DenyCode(f.u8())

	switch {
	case c.Code == DenyShutdown || c.Code == DenyCrash:
		c.Message = f.str()
		c.Reconnect = f.boolean()
	case c.Code == DenyCustomString || c.Code > DenyCrash:
		c.Message = f.str()
	}
}

// ToClientBlockData delivers one serialized map block. The block
// serialization belongs to the game engine and travels as opaque bytes.
type ToClientBlockData struct {
	Pos  V3S16
	Data []byte
}

func (c *ToClientBlockData) attrs() attrs {
	return attrs{id: 0x20, dir: ToClient, name: "ToClientBlockData", channel: 2, reliable: true}
}

func (c *ToClientBlockData) marshalTo(f *fieldWriter) {
	f.v3s16(c.Pos)
	f.raw(c.Data)
}

func (c *ToClientBlockData) unmarshalFrom(f *fieldReader) {
	c.Pos = f.v3s16()
	c.Data = f.rest()
}

// ToClientAddNode changes a single node in place, cheaper than
// resending the whole block.
type ToClientAddNode struct {
	Pos          V3S16
	Param0       uint16
	Param1       uint8
	Param2       uint8
	KeepMetadata bool
}

func (c *ToClientAddNode) attrs() attrs {
	return attrs{id: 0x21, dir: ToClient, name: "ToClientAddNode", channel: 0, reliable: true}
}

func (c *ToClientAddNode) marshalTo(f *fieldWriter) {
	f.v3s16(c.Pos)
	f.u16(c.Param0)
	f.u8(c.Param1)
	f.u8(c.Param2)
	f.boolean(c.KeepMetadata)
}

func (c *ToClientAddNode) unmarshalFrom(f *fieldReader) {
	c.Pos = f.v3s16()
	c.Param0 = f.u16()
	c.Param1 = f.u8()
	c.Param2 = f.u8()
	c.KeepMetadata = f.boolean()
}

type ToClientRemoveNode struct {
	Pos V3S16
}

func (c *ToClientRemoveNode) attrs() attrs {
	return attrs{id: 0x22, dir: ToClient, name: "ToClientRemoveNode", channel: 0, reliable: true}
}

func (c *ToClientRemoveNode) marshalTo(f *fieldWriter) {
	f.v3s16(c.Pos)
}

func (c *ToClientRemoveNode) unmarshalFrom(f *fieldReader) {
	c.Pos = f.v3s16()
}

// ToClientInventory replaces the player inventory with a serialized
// inventory tree, carried as opaque bytes.
type ToClientInventory struct {
	Data []byte
}

func (c *ToClientInventory) attrs() attrs {
	return attrs{id: 0x27, dir: ToClient, name: "ToClientInventory", channel: 0, reliable: true}
}

func (c *ToClientInventory) marshalTo(f *fieldWriter) {
	f.raw(c.Data)
}

func (c *ToClientInventory) unmarshalFrom(f *fieldReader) {
	c.Data = f.rest()
}

// ToClientTimeOfDay syncs the day-night cycle. TimeSpeed is optional on
// the wire.
type ToClientTimeOfDay struct {
	TimeOfDay uint16
	TimeSpeed *float32
}

func (c *ToClientTimeOfDay) attrs() attrs {
	return attrs{id: 0x29, dir: ToClient, name: "ToClientTimeOfDay", channel: 0, reliable: true}
}

func (c *ToClientTimeOfDay) marshalTo(f *fieldWriter) {
	f.u16(c.TimeOfDay)
	f.optF32(c.TimeSpeed)
}

func (c *ToClientTimeOfDay) unmarshalFrom(f *fieldReader) {
	c.TimeOfDay = f.u16()
	c.TimeSpeed = f.optF32()
}

// ToClientCSMRestrictionFlags limits what client-side mods may do.
type ToClientCSMRestrictionFlags struct {
	Flags     uint64
	NodeRange uint32
}

func (c *ToClientCSMRestrictionFlags) attrs() attrs {
	return attrs{id: 0x2a, dir: ToClient, name: "ToClientCSMRestrictionFlags", channel: 0, reliable: true}
}

func (c *ToClientCSMRestrictionFlags) marshalTo(f *fieldWriter) {
	f.u64(c.Flags)
	f.u32(c.NodeRange)
}

func (c *ToClientCSMRestrictionFlags) unmarshalFrom(f *fieldReader) {
	c.Flags = f.u64()
	c.NodeRange = f.u32()
}

// ToClientPlayerSpeed adds a one-off velocity to the player, used for
// knockback.
type ToClientPlayerSpeed struct {
	AddedVelocity V3F
}

func (c *ToClientPlayerSpeed) attrs() attrs {
	return attrs{id: 0x2b, dir: ToClient, name: "ToClientPlayerSpeed", channel: 0, reliable: true}
}

func (c *ToClientPlayerSpeed) marshalTo(f *fieldWriter) {
	f.v3f(c.AddedVelocity)
}

func (c *ToClientPlayerSpeed) unmarshalFrom(f *fieldReader) {
	c.AddedVelocity = f.v3f()
}

// ToClientMediaPush announces a media file added at runtime. The client
// answers with ToServerHaveMedia once it holds the file.
type ToClientMediaPush struct {
	RawHash        string
	Filename       string
	ShouldBeCached bool
	Token          uint32
}

func (c *ToClientMediaPush) attrs() attrs {
	return attrs{id: 0x2c, dir: ToClient, name: "ToClientMediaPush", channel: 0, reliable: true}
}

func (c *ToClientMediaPush) marshalTo(f *fieldWriter) {
	f.str(c.RawHash)
	f.str(c.Filename)
	f.boolean(c.ShouldBeCached)
	f.u32(c.Token)
}

func (c *ToClientMediaPush) unmarshalFrom(f *fieldReader) {
	c.RawHash = f.str()
	c.Filename = f.str()
	c.ShouldBeCached = f.boolean()
	c.Token = f.u32()
}

// ToClientChatMessage is a chat line with its origin and timestamp.
type ToClientChatMessage struct {
	Version     uint8
	MessageType uint8
	Sender      string
	Message     string
	Timestamp   uint64
}

func (c *ToClientChatMessage) attrs() attrs {
	return attrs{id: 0x2f, dir: ToClient, name: "ToClientChatMessage", channel: 0, reliable: true}
}

func (c *ToClientChatMessage) marshalTo(f *fieldWriter) {
	f.u8(c.Version)
	f.u8(c.MessageType)
	f.wstr(c.Sender)
	f.wstr(c.Message)
	f.u64(c.Timestamp)
}

func (c *ToClientChatMessage) unmarshalFrom(f *fieldReader) {
	c.Version = f.u8()
	c.MessageType = f.u8()
	c.Sender = f.wstr()
	c.Message = f.wstr()
	c.Timestamp = f.u64()
}

// ToClientActiveObjectRemoveAdd despawns and spawns active objects in
// one update.
type ToClientActiveObjectRemoveAdd struct {
	RemovedIDs []uint16
	Added      []AddedObject
}

func (c *ToClientActiveObjectRemoveAdd) attrs() attrs {
	return attrs{id: 0x31, dir: ToClient, name: "ToClientActiveObjectRemoveAdd", channel: 0, reliable: true}
}

func (c *ToClientActiveObjectRemoveAdd) marshalTo(f *fieldWriter) {
	f.u16Array16(c.RemovedIDs)

	if f.err != nil {
		return
	}
	if len(c.Added) > math.MaxUint16 {
		f.err = fmt.Errorf("array of %d objects: %w", len(c.Added), wire.ErrValueTooLarge)
		return
	}
	f.u16(uint16(len(c.Added)))
	for _, obj := range c.Added {
		f.u16(obj.ID)
		f.u8(obj.Type)
		f.bytes32(obj.InitData)
	}
}

func (c *ToClientActiveObjectRemoveAdd) unmarshalFrom(f *fieldReader) {
	c.RemovedIDs = f.u16Array16()

	n := f.u16()
	if f.err != nil {
		return
	}
	c.Added = make([]AddedObject, 0, n)
	for i := uint16(0); i < n && f.err == nil; i++ {
		c.Added = append(c.Added, AddedObject{ID: f.u16(), Type: f.u8(), InitData: f.bytes32()})
	}
}

// ToClientActiveObjectMessages batches messages addressed to active
// objects. The array has no count on the wire; it runs to the end of
// the payload.
type ToClientActiveObjectMessages struct {
	Messages []ActiveObjectMessage
}

func (c *ToClientActiveObjectMessages) attrs() attrs {
	return attrs{id: 0x32, dir: ToClient, name: "ToClientActiveObjectMessages", channel: 0, reliable: true}
}

func (c *ToClientActiveObjectMessages) marshalTo(f *fieldWriter) {
	for _, msg := range c.Messages {
		f.u16(msg.ID)
		f.bytes16(msg.Data)
	}
}

func (c *ToClientActiveObjectMessages) unmarshalFrom(f *fieldReader) {
	for f.more() {
		c.Messages = append(c.Messages, ActiveObjectMessage{ID: f.u16(), Data: f.bytes16()})
	}
}

// ToClientHP updates player health. DamageEffect is optional on the
// wire.
type ToClientHP struct {
	HP           uint16
	DamageEffect *bool
}

func (c *ToClientHP) attrs() attrs {
	return attrs{id: 0x33, dir: ToClient, name: "ToClientHP", channel: 0, reliable: true}
}

func (c *ToClientHP) marshalTo(f *fieldWriter) {
	f.u16(c.HP)
	f.optBool(c.DamageEffect)
}

func (c *ToClientHP) unmarshalFrom(f *fieldReader) {
	c.HP = f.u16()
	c.DamageEffect = f.optBool()
}

// ToClientMovePlayer teleports the player, overriding local prediction.
type ToClientMovePlayer struct {
	Pos   V3F
	Pitch float32
	Yaw   float32
}

func (c *ToClientMovePlayer) attrs() attrs {
	return attrs{id: 0x34, dir: ToClient, name: "ToClientMovePlayer", channel: 0, reliable: true}
}

func (c *ToClientMovePlayer) marshalTo(f *fieldWriter) {
	f.v3f(c.Pos)
	f.f32(c.Pitch)
	f.f32(c.Yaw)
}

func (c *ToClientMovePlayer) unmarshalFrom(f *fieldReader) {
	c.Pos = f.v3f()
	c.Pitch = f.f32()
	c.Yaw = f.f32()
}

// ToClientAccessDeniedLegacy is the pre-code denial with just a reason
// string.
type ToClientAccessDeniedLegacy struct {
	Reason string
}

func (c *ToClientAccessDeniedLegacy) attrs() attrs {
	return attrs{id: 0x35, dir: ToClient, name: "ToClientAccessDeniedLegacy", channel: 0, reliable: true}
}

func (c *ToClientAccessDeniedLegacy) marshalTo(f *fieldWriter) {
	f.wstr(c.Reason)
}

func (c *ToClientAccessDeniedLegacy) unmarshalFrom(f *fieldReader) {
	c.Reason = f.wstr()
}

// ToClientFOV overrides the client field of view, absolutely or as a
// multiplier. TransitionTime is optional on the wire.
type ToClientFOV struct {
	FOV            float32
	IsMultiplier   bool
	TransitionTime *float32
}

func (c *ToClientFOV) attrs() attrs {
	return attrs{id: 0x36, dir: ToClient, name: "ToClientFOV", channel: 0, reliable: true}
}

func (c *ToClientFOV) marshalTo(f *fieldWriter) {
	f.f32(c.FOV)
	f.boolean(c.IsMultiplier)
	f.optF32(c.TransitionTime)
}

func (c *ToClientFOV) unmarshalFrom(f *fieldReader) {
	c.FOV = f.f32()
	c.IsMultiplier = f.boolean()
	c.TransitionTime = f.optF32()
}

// ToClientDeathscreen shows the death screen, optionally pointing the
// camera at a target.
type ToClientDeathscreen struct {
	SetCameraPointTarget bool
	CameraPointTarget    V3F
}

func (c *ToClientDeathscreen) attrs() attrs {
	return attrs{id: 0x37, dir: ToClient, name: "ToClientDeathscreen", channel: 0, reliable: true}
}

func (c *ToClientDeathscreen) marshalTo(f *fieldWriter) {
	f.boolean(c.SetCameraPointTarget)
	f.v3f(c.CameraPointTarget)
}

func (c *ToClientDeathscreen) unmarshalFrom(f *fieldReader) {
	c.SetCameraPointTarget = f.boolean()
	c.CameraPointTarget = f.v3f()
}

// ToClientMedia delivers one bunch of media files out of NumBunches.
type ToClientMedia struct {
	NumBunches uint16
	BunchIndex uint16
	Files      []MediaFileData
}

func (c *ToClientMedia) attrs() attrs {
	return attrs{id: 0x38, dir: ToClient, name: "ToClientMedia", channel: 2, reliable: true}
}

func (c *ToClientMedia) marshalTo(f *fieldWriter) {
	f.u16(c.NumBunches)
	f.u16(c.BunchIndex)

	if f.err != nil {
		return
	}
	f.u32(uint32(len(c.Files)))
	for _, file := range c.Files {
		f.str(file.Name)
		f.bytes32(file.Data)
	}
}

func (c *ToClientMedia) unmarshalFrom(f *fieldReader) {
	c.NumBunches = f.u16()
	c.BunchIndex = f.u16()

	n := f.u32()
	if f.err != nil {
		return
	}
	c.Files = make([]MediaFileData, 0, min32(n, 4096))
	for i := uint32(0); i < n && f.err == nil; i++ {
		c.Files = append(c.Files, MediaFileData{Name: f.str(), Data: f.bytes32()})
	}
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// ToClientNodeDef carries the node definition database as one
// compressed blob.
type ToClientNodeDef struct {
	Data []byte
}

func (c *ToClientNodeDef) attrs() attrs {
	return attrs{id: 0x3a, dir: ToClient, name: "ToClientNodeDef", channel: 0, reliable: true}
}

func (c *ToClientNodeDef) marshalTo(f *fieldWriter) {
	f.zlibBytes32(c.Data)
}

func (c *ToClientNodeDef) unmarshalFrom(f *fieldReader) {
	c.Data = f.zlibBytes32()
}

// ToClientAnnounceMedia lists the server's media with content hashes so
// clients can fetch only what they miss.
type ToClientAnnounceMedia struct {
	Files         []MediaAnnouncement
	RemoteServers string
}

func (c *ToClientAnnounceMedia) attrs() attrs {
	return attrs{id: 0x3c, dir: ToClient, name: "ToClientAnnounceMedia", channel: 0, reliable: true}
}

func (c *ToClientAnnounceMedia) marshalTo(f *fieldWriter) {
	if f.err != nil {
		return
	}
	if len(c.Files) > math.MaxUint16 {
		f.err = fmt.Errorf("array of %d announcements: %w", len(c.Files), wire.ErrValueTooLarge)
		return
	}
	f.u16(uint16(len(c.Files)))
	for _, file := range c.Files {
		f.str(file.Name)
		f.str(file.SHA1Base64)
	}
	f.str(c.RemoteServers)
}

func (c *ToClientAnnounceMedia) unmarshalFrom(f *fieldReader) {
	n := f.u16()
	if f.err != nil {
		return
	}
	c.Files = make([]MediaAnnouncement, 0, n)
	for i := uint16(0); i < n && f.err == nil; i++ {
		c.Files = append(c.Files, MediaAnnouncement{Name: f.str(), SHA1Base64: f.str()})
	}
	c.RemoteServers = f.str()
}

// ToClientItemDef carries the item definition database as one
// compressed blob.
type ToClientItemDef struct {
	Data []byte
}

func (c *ToClientItemDef) attrs() attrs {
	return attrs{id: 0x3d, dir: ToClient, name: "ToClientItemDef", channel: 0, reliable: true}
}

func (c *ToClientItemDef) marshalTo(f *fieldWriter) {
	f.zlibBytes32(c.Data)
}

func (c *ToClientItemDef) unmarshalFrom(f *fieldReader) {
	c.Data = f.zlibBytes32()
}

// ToClientPlaySound starts a sound, optionally attached to an object.
// Fade, Pitch and Ephemeral are optional on the wire.
type ToClientPlaySound struct {
	SoundID   int32
	Name      string
	Gain      float32
	Type      uint8
	Pos       V3F
	ObjectID  uint16
	Loop      bool
	Fade      *float32
	Pitch     *float32
	Ephemeral *bool
}

func (c *ToClientPlaySound) attrs() attrs {
	return attrs{id: 0x3f, dir: ToClient, name: "ToClientPlaySound", channel: 0, reliable: true}
}

func (c *ToClientPlaySound) marshalTo(f *fieldWriter) {
	f.s32(c.SoundID)
	f.str(c.Name)
	f.f32(c.Gain)
	f.u8(c.Type)
	f.v3f(c.Pos)
	f.u16(c.ObjectID)
	f.boolean(c.Loop)
	f.optF32(c.Fade)
	f.optF32(c.Pitch)
	f.optBool(c.Ephemeral)
}

func (c *ToClientPlaySound) unmarshalFrom(f *fieldReader) {
	c.SoundID = f.s32()
	c.Name = f.str()
	c.Gain = f.f32()
	c.Type = f.u8()
	c.Pos = f.v3f()
	c.ObjectID = f.u16()
	c.Loop = f.boolean()
	c.Fade = f.optF32()
	c.Pitch = f.optF32()
	c.Ephemeral = f.optBool()
}

type ToClientStopSound struct {
	SoundID int32
}

func (c *ToClientStopSound) attrs() attrs {
	return attrs{id: 0x40, dir: ToClient, name: "ToClientStopSound", channel: 0, reliable: true}
}

func (c *ToClientStopSound) marshalTo(f *fieldWriter) {
	f.s32(c.SoundID)
}

func (c *ToClientStopSound) unmarshalFrom(f *fieldReader) {
	c.SoundID = f.s32()
}

// ToClientPrivileges replaces the player's privilege list.
type ToClientPrivileges struct {
	Privileges []string
}

func (c *ToClientPrivileges) attrs() attrs {
	return attrs{id: 0x41, dir: ToClient, name: "ToClientPrivileges", channel: 0, reliable: true}
}

func (c *ToClientPrivileges) marshalTo(f *fieldWriter) {
	f.strArray16(c.Privileges)
}

func (c *ToClientPrivileges) unmarshalFrom(f *fieldReader) {
	c.Privileges = f.strArray16()
}

type ToClientInventoryFormspec struct {
	Formspec string
}

func (c *ToClientInventoryFormspec) attrs() attrs {
	return attrs{id: 0x42, dir: ToClient, name: "ToClientInventoryFormspec", channel: 0, reliable: true}
}

func (c *ToClientInventoryFormspec) marshalTo(f *fieldWriter) {
	f.longStr(c.Formspec)
}

func (c *ToClientInventoryFormspec) unmarshalFrom(f *fieldReader) {
	c.Formspec = f.longStr()
}

// ToClientDetachedInventory creates, updates or removes a detached
// inventory. When Keep is false the inventory is removed and no
// contents follow.
type ToClientDetachedInventory struct {
	Name     string
	Keep     bool
	Ignore   *uint16
	Contents []byte
}

func (c *ToClientDetachedInventory) attrs() attrs {
	return attrs{id: 0x43, dir: ToClient, name: "ToClientDetachedInventory", channel: 0, reliable: true}
}

func (c *ToClientDetachedInventory) marshalTo(f *fieldWriter) {
	f.str(c.Name)
	f.boolean(c.Keep)
	f.optU16(c.Ignore)
	f.raw(c.Contents)
}

func (c *ToClientDetachedInventory) unmarshalFrom(f *fieldReader) {
	c.Name = f.str()
	c.Keep = f.boolean()
	c.Ignore = f.optU16()
	if f.more() {
		c.Contents = f.rest()
	}
}

type ToClientShowFormspec struct {
	Formspec string
	FormName string
}

func (c *ToClientShowFormspec) attrs() attrs {
	return attrs{id: 0x44, dir: ToClient, name: "ToClientShowFormspec", channel: 0, reliable: true}
}

func (c *ToClientShowFormspec) marshalTo(f *fieldWriter) {
	f.longStr(c.Formspec)
	f.str(c.FormName)
}

func (c *ToClientShowFormspec) unmarshalFrom(f *fieldReader) {
	c.Formspec = f.longStr()
	c.FormName = f.str()
}

// ToClientMovement configures the client movement physics.
type ToClientMovement struct {
	AccelDefault    float32
	AccelAir        float32
	AccelFast       float32
	SpeedWalk       float32
	SpeedCrouch     float32
	SpeedFast       float32
	SpeedClimb      float32
	SpeedJump       float32
	LiquidFluidity  float32
	LiquidSmoothing float32
	LiquidSink      float32
	Gravity         float32
}

func (c *ToClientMovement) attrs() attrs {
	return attrs{id: 0x45, dir: ToClient, name: "ToClientMovement", channel: 0, reliable: true}
}

func (c *ToClientMovement) marshalTo(f *fieldWriter) {
	f.f32(c.AccelDefault)
	f.f32(c.AccelAir)
	f.f32(c.AccelFast)
	f.f32(c.SpeedWalk)
	f.f32(c.SpeedCrouch)
	f.f32(c.SpeedFast)
	f.f32(c.SpeedClimb)
	f.f32(c.SpeedJump)
	f.f32(c.LiquidFluidity)
	f.f32(c.LiquidSmoothing)
	f.f32(c.LiquidSink)
	f.f32(c.Gravity)
}

func (c *ToClientMovement) unmarshalFrom(f *fieldReader) {
	c.AccelDefault = f.f32()
	c.AccelAir = f.f32()
	c.AccelFast = f.f32()
	c.SpeedWalk = f.f32()
	c.SpeedCrouch = f.f32()
	c.SpeedFast = f.f32()
	c.SpeedClimb = f.f32()
	c.SpeedJump = f.f32()
	c.LiquidFluidity = f.f32()
	c.LiquidSmoothing = f.f32()
	c.LiquidSink = f.f32()
	c.Gravity = f.f32()
}

// ToClientSpawnParticle spawns one particle. The particle parameter
// block has its own serializer in the game engine and travels as opaque
// bytes.
type ToClientSpawnParticle struct {
	Data []byte
}

func (c *ToClientSpawnParticle) attrs() attrs {
	return attrs{id: 0x46, dir: ToClient, name: "ToClientSpawnParticle", channel: 0, reliable: true}
}

func (c *ToClientSpawnParticle) marshalTo(f *fieldWriter) {
	f.raw(c.Data)
}

func (c *ToClientSpawnParticle) unmarshalFrom(f *fieldReader) {
	c.Data = f.rest()
}

// ToClientAddParticleSpawner registers a particle spawner. The spawner
// parameter block travels as opaque bytes.
type ToClientAddParticleSpawner struct {
	Data []byte
}

func (c *ToClientAddParticleSpawner) attrs() attrs {
	return attrs{id: 0x47, dir: ToClient, name: "ToClientAddParticleSpawner", channel: 0, reliable: true}
}

func (c *ToClientAddParticleSpawner) marshalTo(f *fieldWriter) {
	f.raw(c.Data)
}

func (c *ToClientAddParticleSpawner) unmarshalFrom(f *fieldReader) {
	c.Data = f.rest()
}

// ToClientHudAdd creates a HUD element. Everything after Offset was
// added over time and is optional on the wire, in declaration order.
type ToClientHudAdd struct {
	ServerID uint32
	Type     uint8
	Pos      V2F
	Name     string
	Scale    V2F
	Text     string
	Number   uint32
	Item     uint32
	Dir      uint32
	Align    V2F
	Offset   V2F
	WorldPos *V3F
	Size     *V2S32
	ZIndex   *int16
	Text2    *string
	Style    *uint32
}

func (c *ToClientHudAdd) attrs() attrs {
	return attrs{id: 0x49, dir: ToClient, name: "ToClientHudAdd", channel: 1, reliable: true}
}

func (c *ToClientHudAdd) marshalTo(f *fieldWriter) {
	f.u32(c.ServerID)
	f.u8(c.Type)
	f.v2f(c.Pos)
	f.str(c.Name)
	f.v2f(c.Scale)
	f.str(c.Text)
	f.u32(c.Number)
	f.u32(c.Item)
	f.u32(c.Dir)
	f.v2f(c.Align)
	f.v2f(c.Offset)
	f.optV3F(c.WorldPos)
	f.optV2S32(c.Size)
	f.optS16(c.ZIndex)
	f.optStr(c.Text2)
	f.optU32(c.Style)
}

func (c *ToClientHudAdd) unmarshalFrom(f *fieldReader) {
	c.ServerID = f.u32()
	c.Type = f.u8()
	c.Pos = f.v2f()
	c.Name = f.str()
	c.Scale = f.v2f()
	c.Text = f.str()
	c.Number = f.u32()
	c.Item = f.u32()
	c.Dir = f.u32()
	c.Align = f.v2f()
	c.Offset = f.v2f()
	c.WorldPos = f.optV3F()
	c.Size = f.optV2S32()
	c.ZIndex = f.optS16()
	c.Text2 = f.optStr()
	c.Style = f.optU32()
}

type ToClientHudRemove struct {
	ServerID uint32
}

func (c *ToClientHudRemove) attrs() attrs {
	return attrs{id: 0x4a, dir: ToClient, name: "ToClientHudRemove", channel: 1, reliable: true}
}

func (c *ToClientHudRemove) marshalTo(f *fieldWriter) {
	f.u32(c.ServerID)
}

func (c *ToClientHudRemove) unmarshalFrom(f *fieldReader) {
	c.ServerID = f.u32()
}

// ToClientHudChange updates one property of an existing HUD element.
type ToClientHudChange struct {
	ServerID uint32
	Stat     HudStat
}

func (c *ToClientHudChange) attrs() attrs {
	return attrs{id: 0x4b, dir: ToClient, name: "ToClientHudChange", channel: 1, reliable: true}
}

func (c *ToClientHudChange) marshalTo(f *fieldWriter) {
	f.u32(c.ServerID)
	c.Stat.write(f)
}

func (c *ToClientHudChange) unmarshalFrom(f *fieldReader) {
	c.ServerID = f.u32()
	c.Stat.read(f)
}

// ToClientHudSetFlags changes HUD visibility. Only bits set in Mask are
// applied.
type ToClientHudSetFlags struct {
	Flags HudFlags
	Mask  HudFlags
}

func (c *ToClientHudSetFlags) attrs() attrs {
	return attrs{id: 0x4c, dir: ToClient, name: "ToClientHudSetFlags", channel: 1, reliable: true}
}

func (c *ToClientHudSetFlags) marshalTo(f *fieldWriter) {
	f.u32(uint32(c.Flags))
	f.u32(uint32(c.Mask))
}

func (c *ToClientHudSetFlags) unmarshalFrom(f *fieldReader) {
	c.Flags = readHudFlags(f)
	c.Mask = readHudFlags(f)
}

// ToClientHudSetParam updates one global HUD parameter. The hotbar item
// count travels boxed in a four-byte string, a quirk the wire format
// keeps for compatibility.
type ToClientHudSetParam struct {
	Param     HudParam
	ItemCount int32  // HudParamHotbarItemCount
	Texture   string // the image params
}

func (c *ToClientHudSetParam) attrs() attrs {
	return attrs{id: 0x4d, dir: ToClient, name: "ToClientHudSetParam", channel: 1, reliable: true}
}

func (c *ToClientHudSetParam) marshalTo(f *fieldWriter) {
	f.u16(uint16(c.Param))
	if f.err != nil {
		return
	}

	switch c.Param {
	case HudParamHotbarItemCount:
		f.u16(4)
		f.s32(c.ItemCount)
	case HudParamHotbarImage, HudParamHotbarSelectedImage:
		f.str(c.Texture)
	default:
		f.err = fmt.Errorf("hud param %d: %w", c.Param, wire.ErrInvalidEncoding)
	}
}

func (c *ToClientHudSetParam) unmarshalFrom(f *fieldReader) {
	c.Param = HudParam(f.u16())
	if f.err != nil {
		return
	}

	switch c.Param {
	case HudParamHotbarItemCount:
		if n := f.u16(); f.err == nil && n != 4 {
			f.err = fmt.Errorf("item count size %d: %w", n, wire.ErrInvalidEncoding)
			return
		}
		c.ItemCount = f.s32()
	case HudParamHotbarImage, HudParamHotbarSelectedImage:
		c.Texture = f.str()
	default:
		f.err = fmt.Errorf("hud param %d: %w", c.Param, wire.ErrInvalidEncoding)
	}
}

type ToClientBreath struct {
	Breath uint16
}

func (c *ToClientBreath) attrs() attrs {
	return attrs{id: 0x4e, dir: ToClient, name: "ToClientBreath", channel: 0, reliable: true}
}

func (c *ToClientBreath) marshalTo(f *fieldWriter) {
	f.u16(c.Breath)
}

func (c *ToClientBreath) unmarshalFrom(f *fieldReader) {
	c.Breath = f.u16()
}

type ToClientSetSky struct {
	Sky SkyboxParams
}

func (c *ToClientSetSky) attrs() attrs {
	return attrs{id: 0x4f, dir: ToClient, name: "ToClientSetSky", channel: 0, reliable: true}
}

func (c *ToClientSetSky) marshalTo(f *fieldWriter) {
	c.Sky.write(f)
}

func (c *ToClientSetSky) unmarshalFrom(f *fieldReader) {
	c.Sky.read(f)
}

// ToClientOverrideDayNightRatio forces a fixed day-night ratio instead
// of the time-driven one.
type ToClientOverrideDayNightRatio struct {
	Override bool
	Ratio    uint16
}

func (c *ToClientOverrideDayNightRatio) attrs() attrs {
	return attrs{id: 0x50, dir: ToClient, name: "ToClientOverrideDayNightRatio", channel: 0, reliable: true}
}

func (c *ToClientOverrideDayNightRatio) marshalTo(f *fieldWriter) {
	f.boolean(c.Override)
	f.u16(c.Ratio)
}

func (c *ToClientOverrideDayNightRatio) unmarshalFrom(f *fieldReader) {
	c.Override = f.boolean()
	c.Ratio = f.u16()
}

// ToClientLocalPlayerAnimations sets the frame ranges for the player
// model.
type ToClientLocalPlayerAnimations struct {
	Idle       V2S32
	Walk       V2S32
	Dig        V2S32
	WalkDig    V2S32
	FrameSpeed float32
}

func (c *ToClientLocalPlayerAnimations) attrs() attrs {
	return attrs{id: 0x51, dir: ToClient, name: "ToClientLocalPlayerAnimations", channel: 0, reliable: true}
}

func (c *ToClientLocalPlayerAnimations) marshalTo(f *fieldWriter) {
	f.v2s32(c.Idle)
	f.v2s32(c.Walk)
	f.v2s32(c.Dig)
	f.v2s32(c.WalkDig)
	f.f32(c.FrameSpeed)
}

func (c *ToClientLocalPlayerAnimations) unmarshalFrom(f *fieldReader) {
	c.Idle = f.v2s32()
	c.Walk = f.v2s32()
	c.Dig = f.v2s32()
	c.WalkDig = f.v2s32()
	c.FrameSpeed = f.f32()
}

// ToClientEyeOffset moves the camera relative to the player model in
// first and third person.
type ToClientEyeOffset struct {
	First V3F
	Third V3F
}

func (c *ToClientEyeOffset) attrs() attrs {
	return attrs{id: 0x52, dir: ToClient, name: "ToClientEyeOffset", channel: 0, reliable: true}
}

func (c *ToClientEyeOffset) marshalTo(f *fieldWriter) {
	f.v3f(c.First)
	f.v3f(c.Third)
}

func (c *ToClientEyeOffset) unmarshalFrom(f *fieldReader) {
	c.First = f.v3f()
	c.Third = f.v3f()
}

type ToClientDeleteParticleSpawner struct {
	ServerID uint32
}

func (c *ToClientDeleteParticleSpawner) attrs() attrs {
	return attrs{id: 0x53, dir: ToClient, name: "ToClientDeleteParticleSpawner", channel: 0, reliable: true}
}

func (c *ToClientDeleteParticleSpawner) marshalTo(f *fieldWriter) {
	f.u32(c.ServerID)
}

func (c *ToClientDeleteParticleSpawner) unmarshalFrom(f *fieldReader) {
	c.ServerID = f.u32()
}

// ToClientCloudParams styles the cloud layer.
type ToClientCloudParams struct {
	Density      float32
	ColorBright  Color
	ColorAmbient Color
	Height       float32
	Thickness    float32
	Speed        V2F
}

func (c *ToClientCloudParams) attrs() attrs {
	return attrs{id: 0x54, dir: ToClient, name: "ToClientCloudParams", channel: 0, reliable: true}
}

func (c *ToClientCloudParams) marshalTo(f *fieldWriter) {
	f.f32(c.Density)
	f.color(c.ColorBright)
	f.color(c.ColorAmbient)
	f.f32(c.Height)
	f.f32(c.Thickness)
	f.v2f(c.Speed)
}

func (c *ToClientCloudParams) unmarshalFrom(f *fieldReader) {
	c.Density = f.f32()
	c.ColorBright = f.color()
	c.ColorAmbient = f.color()
	c.Height = f.f32()
	c.Thickness = f.f32()
	c.Speed = f.v2f()
}

// ToClientFadeSound ramps a playing sound's gain by Step per second
// towards Gain.
type ToClientFadeSound struct {
	SoundID int32
	Step    float32
	Gain    float32
}

func (c *ToClientFadeSound) attrs() attrs {
	return attrs{id: 0x55, dir: ToClient, name: "ToClientFadeSound", channel: 0, reliable: true}
}

func (c *ToClientFadeSound) marshalTo(f *fieldWriter) {
	f.s32(c.SoundID)
	f.f32(c.Step)
	f.f32(c.Gain)
}

func (c *ToClientFadeSound) unmarshalFrom(f *fieldReader) {
	c.SoundID = f.s32()
	c.Step = f.f32()
	c.Gain = f.f32()
}

// PlayerListType says whether an update replaces the player list or
// adjusts it.
type PlayerListType uint8

const (
	PlayerListInit PlayerListType = iota
	PlayerListAdd
	PlayerListRemove
)

type ToClientUpdatePlayerList struct {
	Type    PlayerListType
	Players []string
}

func (c *ToClientUpdatePlayerList) attrs() attrs {
	return attrs{id: 0x56, dir: ToClient, name: "ToClientUpdatePlayerList", channel: 0, reliable: true}
}

func (c *ToClientUpdatePlayerList) marshalTo(f *fieldWriter) {
	f.u8(uint8(c.Type))
	f.strArray16(c.Players)
}

func (c *ToClientUpdatePlayerList) unmarshalFrom(f *fieldReader) {
	c.Type = PlayerListType(f.u8())
	c.Players = f.strArray16()
}

type ToClientModchannelMsg struct {
	ChannelName string
	Sender      string
	Message     string
}

func (c *ToClientModchannelMsg) attrs() attrs {
	return attrs{id: 0x57, dir: ToClient, name: "ToClientModchannelMsg", channel: 0, reliable: true}
}

func (c *ToClientModchannelMsg) marshalTo(f *fieldWriter) {
	f.str(c.ChannelName)
	f.str(c.Sender)
	f.str(c.Message)
}

func (c *ToClientModchannelMsg) unmarshalFrom(f *fieldReader) {
	c.ChannelName = f.str()
	c.Sender = f.str()
	c.Message = f.str()
}

// ToClientModchannelSignal reports join/leave outcomes and channel
// state changes. State is optional on the wire.
type ToClientModchannelSignal struct {
	Signal      uint8
	ChannelName string
	State       *uint8
}

func (c *ToClientModchannelSignal) attrs() attrs {
	return attrs{id: 0x58, dir: ToClient, name: "ToClientModchannelSignal", channel: 0, reliable: true}
}

func (c *ToClientModchannelSignal) marshalTo(f *fieldWriter) {
	f.u8(c.Signal)
	f.str(c.ChannelName)
	f.optU8(c.State)
}

func (c *ToClientModchannelSignal) unmarshalFrom(f *fieldReader) {
	c.Signal = f.u8()
	c.ChannelName = f.str()
	c.State = f.optU8()
}

// ToClientNodemetaChanged replaces the metadata of a set of nodes. The
// metadata list serialization belongs to the game engine; it travels
// compressed and otherwise opaque.
type ToClientNodemetaChanged struct {
	Data []byte
}

func (c *ToClientNodemetaChanged) attrs() attrs {
	return attrs{id: 0x59, dir: ToClient, name: "ToClientNodemetaChanged", channel: 0, reliable: true}
}

func (c *ToClientNodemetaChanged) marshalTo(f *fieldWriter) {
	f.zlibBytes32(c.Data)
}

func (c *ToClientNodemetaChanged) unmarshalFrom(f *fieldReader) {
	c.Data = f.zlibBytes32()
}

type ToClientSetSun struct {
	Sun SunParams
}

func (c *ToClientSetSun) attrs() attrs {
	return attrs{id: 0x5a, dir: ToClient, name: "ToClientSetSun", channel: 0, reliable: true}
}

func (c *ToClientSetSun) marshalTo(f *fieldWriter) {
	c.Sun.write(f)
}

func (c *ToClientSetSun) unmarshalFrom(f *fieldReader) {
	c.Sun.read(f)
}

type ToClientSetMoon struct {
	Moon MoonParams
}

func (c *ToClientSetMoon) attrs() attrs {
	return attrs{id: 0x5b, dir: ToClient, name: "ToClientSetMoon", channel: 0, reliable: true}
}

func (c *ToClientSetMoon) marshalTo(f *fieldWriter) {
	c.Moon.write(f)
}

func (c *ToClientSetMoon) unmarshalFrom(f *fieldReader) {
	c.Moon.read(f)
}

type ToClientSetStars struct {
	Stars StarParams
}

func (c *ToClientSetStars) attrs() attrs {
	return attrs{id: 0x5c, dir: ToClient, name: "ToClientSetStars", channel: 0, reliable: true}
}

func (c *ToClientSetStars) marshalTo(f *fieldWriter) {
	c.Stars.write(f)
}

func (c *ToClientSetStars) unmarshalFrom(f *fieldReader) {
	c.Stars.read(f)
}

// ToClientSRPBytesSB continues an SRP exchange with the server's salt
// and public value.
type ToClientSRPBytesSB struct {
	S []byte
	B []byte
}

func (c *ToClientSRPBytesSB) attrs() attrs {
	return attrs{id: 0x60, dir: ToClient, name: "ToClientSRPBytesSB", channel: 1, reliable: true}
}

func (c *ToClientSRPBytesSB) marshalTo(f *fieldWriter) {
	f.bytes16(c.S)
	f.bytes16(c.B)
}

func (c *ToClientSRPBytesSB) unmarshalFrom(f *fieldReader) {
	c.S = f.bytes16()
	c.B = f.bytes16()
}

// ToClientFormspecPrepend is prepended to every formspec the client
// renders.
type ToClientFormspecPrepend struct {
	Prepend string
}

func (c *ToClientFormspecPrepend) attrs() attrs {
	return attrs{id: 0x61, dir: ToClient, name: "ToClientFormspecPrepend", channel: 0, reliable: true}
}

func (c *ToClientFormspecPrepend) marshalTo(f *fieldWriter) {
	f.str(c.Prepend)
}

func (c *ToClientFormspecPrepend) unmarshalFrom(f *fieldReader) {
	c.Prepend = f.str()
}

// ToClientMinimapModes replaces the minimap mode cycle. Current indexes
// into Modes. The wire layout is unusual: the mode count precedes
// Current rather than the mode entries.
type ToClientMinimapModes struct {
	Current uint16
	Modes   []MinimapMode
}

func (c *ToClientMinimapModes) attrs() attrs {
	return attrs{id: 0x62, dir: ToClient, name: "ToClientMinimapModes", channel: 0, reliable: true}
}

func (c *ToClientMinimapModes) marshalTo(f *fieldWriter) {
	if f.err != nil {
		return
	}
	if len(c.Modes) > math.MaxUint16 {
		f.err = fmt.Errorf("array of %d modes: %w", len(c.Modes), wire.ErrValueTooLarge)
		return
	}
	f.u16(uint16(len(c.Modes)))
	f.u16(c.Current)
	for _, m := range c.Modes {
		f.u16(m.Type)
		f.str(m.Label)
		f.u16(m.Size)
		f.str(m.Texture)
		f.u16(m.Scale)
	}
}

func (c *ToClientMinimapModes) unmarshalFrom(f *fieldReader) {
	n := f.u16()
	c.Current = f.u16()
	if f.err != nil {
		return
	}
	c.Modes = make([]MinimapMode, 0, n)
	for i := uint16(0); i < n && f.err == nil; i++ {
		c.Modes = append(c.Modes, MinimapMode{
			Type:    f.u16(),
			Label:   f.str(),
			Size:    f.u16(),
			Texture: f.str(),
			Scale:   f.u16(),
		})
	}
}

type ToClientSetLighting struct {
	Lighting Lighting
}

func (c *ToClientSetLighting) attrs() attrs {
	return attrs{id: 0x63, dir: ToClient, name: "ToClientSetLighting", channel: 0, reliable: true}
}

func (c *ToClientSetLighting) marshalTo(f *fieldWriter) {
	c.Lighting.write(f)
}

func (c *ToClientSetLighting) unmarshalFrom(f *fieldReader) {
	c.Lighting.read(f)
}
