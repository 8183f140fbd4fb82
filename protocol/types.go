package protocol

import (
	"fmt"

	"github.com/luma/voxelwire/wire"
)

// V2F is a pair of 32-bit floats.
type V2F struct {
	X, Y float32
}

// V3F is a triple of 32-bit floats, used for world-space positions and
// velocities.
type V3F struct {
	X, Y, Z float32
}

// V3S16 addresses a node or a map block in node coordinates.
type V3S16 struct {
	X, Y, Z int16
}

// V2S32 is a pair of 32-bit signed integers.
type V2S32 struct {
	X, Y int32
}

// V2U32 is a pair of 32-bit unsigned integers.
type V2U32 struct {
	X, Y uint32
}

// Color is an RGBA quad, one byte per component.
type Color struct {
	R, G, B, A uint8
}

// AuthMechs is the bitset of authentication mechanisms a server offers.
type AuthMechs uint32

const (
	AuthMechLegacyPassword AuthMechs = 1 << iota
	AuthMechSRP
	AuthMechFirstSRP
)

func (m AuthMechs) Has(mech AuthMechs) bool {
	return m&mech != 0
}

// HudFlags is the bitset of HUD elements a client should draw. Only the
// nine defined bits may be set.
type HudFlags uint32

const (
	HudFlagHotbarVisible HudFlags = 1 << iota
	HudFlagHealthbarVisible
	HudFlagCrosshairVisible
	HudFlagWielditemVisible
	HudFlagBreathbarVisible
	HudFlagMinimapVisible
	HudFlagMinimapRadarVisible
	HudFlagBasicDebug
	HudFlagChatVisible

	hudFlagsAll = HudFlagChatVisible<<1 - 1
)

func readHudFlags(f *fieldReader) HudFlags {
	v := HudFlags(f.u32())
	if f.err == nil && v&^hudFlagsAll != 0 {
		f.err = fmt.Errorf("hud flags %#x: %w", uint32(v), wire.ErrInvalidEncoding)
	}
	return v
}

// InteractAction says what the player did to the pointed thing.
type InteractAction uint8

const (
	InteractStartDigging InteractAction = iota
	InteractStopDigging
	InteractDigComplete
	InteractPlace
	InteractUse
	InteractActivate
)

// PlayerPos is the player movement state sent every tick. Positions and
// speeds travel as fixed-point integers scaled by 100, the field of view
// scaled by 80, so a round trip quantizes the floats.
type PlayerPos struct {
	Position    V3F
	Speed       V3F
	Pitch       float32
	Yaw         float32
	KeysPressed uint32
	FOV         float32
	WantedRange uint8
}

func (p *PlayerPos) read(f *fieldReader) {
	p.Position = V3F{
		X: float32(f.s32()) / 100,
		Y: float32(f.s32()) / 100,
		Z: float32(f.s32()) / 100,
	}
	p.Speed = V3F{
		X: float32(f.s32()) / 100,
		Y: float32(f.s32()) / 100,
		Z: float32(f.s32()) / 100,
	}
	p.Pitch = float32(f.s32()) / 100
	p.Yaw = float32(f.s32()) / 100
	p.KeysPressed = f.u32()
	p.FOV = float32(f.u8()) / 80
	p.WantedRange = f.u8()
}

func (p *PlayerPos) write(f *fieldWriter) {
	f.s32(int32(p.Position.X * 100))
	f.s32(int32(p.Position.Y * 100))
	f.s32(int32(p.Position.Z * 100))
	f.s32(int32(p.Speed.X * 100))
	f.s32(int32(p.Speed.Y * 100))
	f.s32(int32(p.Speed.Z * 100))
	f.s32(int32(p.Pitch * 100))
	f.s32(int32(p.Yaw * 100))
	f.u32(p.KeysPressed)
	f.u8(uint8(p.FOV * 80))
	f.u8(p.WantedRange)
}

// DenyCode classifies an access denial. Codes below DenyCustomString
// carry no extra data; DenyCustomString adds a message, DenyShutdown and
// DenyCrash add a message and a reconnect hint. Unrecognized codes are
// treated as custom strings so newer servers stay decodable.
type DenyCode uint8

const (
	DenyWrongPassword DenyCode = iota
	DenyUnexpectedData
	DenySingleplayer
	DenyWrongVersion
	DenyWrongCharsInName
	DenyWrongName
	DenyTooManyUsers
	DenyEmptyPassword
	DenyAlreadyConnected
	DenyServerFail
	DenyCustomString
	DenyShutdown
	DenyCrash
)

// FormField is one key/value submitted from a formspec.
type FormField struct {
	Name  string
	Value string
}

// MediaAnnouncement names one media file and the base64 SHA-1 of its
// content, letting clients skip downloads they already have cached.
type MediaAnnouncement struct {
	Name       string
	SHA1Base64 string
}

// MediaFileData is one media file delivered in a bunch.
type MediaFileData struct {
	Name string
	Data []byte
}

// SunParams describes how the sun is rendered.
type SunParams struct {
	Visible        bool
	Texture        string
	ToneMap        string
	Sunrise        string
	SunriseVisible bool
	Scale          float32
}

func (s *SunParams) read(f *fieldReader) {
	s.Visible = f.boolean()
	s.Texture = f.str()
	s.ToneMap = f.str()
	s.Sunrise = f.str()
	s.SunriseVisible = f.boolean()
	s.Scale = f.f32()
}

func (s *SunParams) write(f *fieldWriter) {
	f.boolean(s.Visible)
	f.str(s.Texture)
	f.str(s.ToneMap)
	f.str(s.Sunrise)
	f.boolean(s.SunriseVisible)
	f.f32(s.Scale)
}

// MoonParams describes how the moon is rendered.
type MoonParams struct {
	Visible bool
	Texture string
	ToneMap string
	Scale   float32
}

func (m *MoonParams) read(f *fieldReader) {
	m.Visible = f.boolean()
	m.Texture = f.str()
	m.ToneMap = f.str()
	m.Scale = f.f32()
}

func (m *MoonParams) write(f *fieldWriter) {
	f.boolean(m.Visible)
	f.str(m.Texture)
	f.str(m.ToneMap)
	f.f32(m.Scale)
}

// StarParams describes how stars are rendered. DayOpacity was added
// later and is optional on the wire.
type StarParams struct {
	Visible    bool
	Count      uint32
	Color      Color
	Scale      float32
	DayOpacity *float32
}

func (s *StarParams) read(f *fieldReader) {
	s.Visible = f.boolean()
	s.Count = f.u32()
	s.Color = f.color()
	s.Scale = f.f32()
	s.DayOpacity = f.optF32()
}

func (s *StarParams) write(f *fieldWriter) {
	f.boolean(s.Visible)
	f.u32(s.Count)
	f.color(s.Color)
	f.f32(s.Scale)
	f.optF32(s.DayOpacity)
}

// SkyColor is the palette of a procedurally shaded sky.
type SkyColor struct {
	DaySky       Color
	DayHorizon   Color
	DawnSky      Color
	DawnHorizon  Color
	NightSky     Color
	NightHorizon Color
	Indoors      Color
}

func (s *SkyColor) read(f *fieldReader) {
	s.DaySky = f.color()
	s.DayHorizon = f.color()
	s.DawnSky = f.color()
	s.DawnHorizon = f.color()
	s.NightSky = f.color()
	s.NightHorizon = f.color()
	s.Indoors = f.color()
}

func (s *SkyColor) write(f *fieldWriter) {
	f.color(s.DaySky)
	f.color(s.DayHorizon)
	f.color(s.DawnSky)
	f.color(s.DawnHorizon)
	f.color(s.NightSky)
	f.color(s.NightHorizon)
	f.color(s.Indoors)
}

// SkyboxParams configures the sky. What follows FogTintType on the wire
// depends on Type: "skybox" carries Textures, "regular" carries
// SkyColors, any other type carries neither. BodyOrbitTilt was added
// later and is optional.
type SkyboxParams struct {
	BGColor     Color
	Type        string
	Clouds      bool
	FogSunTint  Color
	FogMoonTint Color
	FogTintType string

	Textures      []string
	SkyColors     *SkyColor
	BodyOrbitTilt *float32
}

func (s *SkyboxParams) read(f *fieldReader) {
	s.BGColor = f.color()
	s.Type = f.str()
	s.Clouds = f.boolean()
	s.FogSunTint = f.color()
	s.FogMoonTint = f.color()
	s.FogTintType = f.str()

	switch s.Type {
	case "skybox":
		s.Textures = f.strArray16()
	case "regular":
		var colors SkyColor
		colors.read(f)
		s.SkyColors = &colors
	}
	s.BodyOrbitTilt = f.optF32()
}

func (s *SkyboxParams) write(f *fieldWriter) {
	f.color(s.BGColor)
	f.str(s.Type)
	f.boolean(s.Clouds)
	f.color(s.FogSunTint)
	f.color(s.FogMoonTint)
	f.str(s.FogTintType)

	switch s.Type {
	case "skybox":
		f.strArray16(s.Textures)
	case "regular":
		if s.SkyColors != nil {
			s.SkyColors.write(f)
		}
	}
	f.optF32(s.BodyOrbitTilt)
}

// AutoExposure tunes the eye adaptation curve.
type AutoExposure struct {
	LuminanceMin       float32
	LuminanceMax       float32
	ExposureCorrection float32
	SpeedDarkBright    float32
	SpeedBrightDark    float32
	CenterWeightPower  float32
}

// Lighting is the server-driven shading state.
type Lighting struct {
	ShadowIntensity float32
	Saturation      float32
	Exposure        AutoExposure
}

func (l *Lighting) read(f *fieldReader) {
	l.ShadowIntensity = f.f32()
	l.Saturation = f.f32()
	l.Exposure.LuminanceMin = f.f32()
	l.Exposure.LuminanceMax = f.f32()
	l.Exposure.ExposureCorrection = f.f32()
	l.Exposure.SpeedDarkBright = f.f32()
	l.Exposure.SpeedBrightDark = f.f32()
	l.Exposure.CenterWeightPower = f.f32()
}

func (l *Lighting) write(f *fieldWriter) {
	f.f32(l.ShadowIntensity)
	f.f32(l.Saturation)
	f.f32(l.Exposure.LuminanceMin)
	f.f32(l.Exposure.LuminanceMax)
	f.f32(l.Exposure.ExposureCorrection)
	f.f32(l.Exposure.SpeedDarkBright)
	f.f32(l.Exposure.SpeedBrightDark)
	f.f32(l.Exposure.CenterWeightPower)
}

// MinimapMode is one entry of the minimap mode cycle.
type MinimapMode struct {
	Type    uint16
	Label   string
	Size    uint16
	Texture string
	Scale   uint16
}

// AddedObject spawns one active object. Its initialization data has its
// own serializer in the game engine and travels as an opaque blob.
type AddedObject struct {
	ID       uint16
	Type     uint8
	InitData []byte
}

// ActiveObjectMessage is one message addressed to an active object,
// with the message body carried as an opaque blob.
type ActiveObjectMessage struct {
	ID   uint16
	Data []byte
}

// HudStatKind selects which property of a HUD element a HudStat
// updates.
type HudStatKind uint8

const (
	HudStatPos HudStatKind = iota
	HudStatName
	HudStatScale
	HudStatText
	HudStatNumber
	HudStatItem
	HudStatDir
	HudStatAlign
	HudStatOffset
	HudStatWorldPos
	HudStatSize
	HudStatZIndex
	HudStatText2
	HudStatStyle
)

// HudStat is one element property update. Kind picks the live value:
// Pos, Scale, Align and Offset use Vec; WorldPos uses WorldPos; Size
// uses Size; Name, Text and Text2 use Str; the numeric kinds use Num.
type HudStat struct {
	Kind     HudStatKind
	Vec      V2F
	WorldPos V3F
	Size     V2S32
	Str      string
	Num      uint32
}

func (h *HudStat) read(f *fieldReader) {
	h.Kind = HudStatKind(f.u8())
	if f.err != nil {
		return
	}

	switch h.Kind {
	case HudStatPos, HudStatScale, HudStatAlign, HudStatOffset:
		h.Vec = f.v2f()
	case HudStatName, HudStatText, HudStatText2:
		h.Str = f.str()
	case HudStatNumber, HudStatItem, HudStatDir, HudStatZIndex, HudStatStyle:
		h.Num = f.u32()
	case HudStatWorldPos:
		h.WorldPos = f.v3f()
	case HudStatSize:
		h.Size = f.v2s32()
	default:
		f.err = fmt.Errorf("hud stat %d: %w", h.Kind, wire.ErrInvalidEncoding)
	}
}

func (h *HudStat) write(f *fieldWriter) {
	f.u8(uint8(h.Kind))
	if f.err != nil {
		return
	}

	switch h.Kind {
	case HudStatPos, HudStatScale, HudStatAlign, HudStatOffset:
		f.v2f(h.Vec)
	case HudStatName, HudStatText, HudStatText2:
		f.str(h.Str)
	case HudStatNumber, HudStatItem, HudStatDir, HudStatZIndex, HudStatStyle:
		f.u32(h.Num)
	case HudStatWorldPos:
		f.v3f(h.WorldPos)
	case HudStatSize:
		f.v2s32(h.Size)
	default:
		f.err = fmt.Errorf("hud stat %d: %w", h.Kind, wire.ErrInvalidEncoding)
	}
}

// HudParam selects which global HUD parameter a ToClientHudSetParam
// updates.
type HudParam uint16

const (
	HudParamHotbarItemCount HudParam = iota + 1
	HudParamHotbarImage
	HudParamHotbarSelectedImage
)
