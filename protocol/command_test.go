package protocol_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/voxelwire/protocol"
	"github.com/luma/voxelwire/wire"
)

// reencode marshals cmd and parses the payload back in cmd's own
// direction.
func reencode(cmd protocol.Command) protocol.Command {
	data, err := protocol.Marshal(cmd)
	Expect(err).To(Succeed())

	out, err := protocol.Unmarshal(protocol.DirectionOf(cmd), data)
	Expect(err).To(Succeed())
	return out
}

var _ = Describe("Command", func() {
	It("round-trips the opening handshake", func() {
		out := reencode(&protocol.ToServerInit{
			SerializationVersionMax:   29,
			SupportedCompressionModes: 0,
			MinProtocolVersion:        37,
			MaxProtocolVersion:        41,
			PlayerName:                "singleplayer",
		})

		init, ok := out.(*protocol.ToServerInit)
		Expect(ok).To(BeTrue())
		Expect(init.MaxProtocolVersion).To(Equal(uint16(41)))
		Expect(init.PlayerName).To(Equal("singleplayer"))
	})

	It("keeps the two direction id spaces separate", func() {
		data, err := protocol.Marshal(&protocol.ToServerInit{PlayerName: "x"})
		Expect(err).To(Succeed())

		// 0x02 decodes as ToClientHello when read in the other
		// direction.
		out, err := protocol.Unmarshal(protocol.ToClient, data)
		Expect(err).To(Succeed())
		Expect(out).To(BeAssignableToTypeOf(&protocol.ToClientHello{}))
	})

	It("quantizes player positions to centimeters", func() {
		out := reencode(&protocol.ToServerPlayerPos{
			Pos: protocol.PlayerPos{
				Position:    protocol.V3F{X: 10.5, Y: -3.25, Z: 0.01},
				Speed:       protocol.V3F{X: 0, Y: -9.81, Z: 0},
				Pitch:       45.5,
				Yaw:         270.25,
				KeysPressed: 0x11,
				FOV:         1.25,
				WantedRange: 11,
			},
		})

		pos := out.(*protocol.ToServerPlayerPos).Pos
		Expect(pos.Position.X).To(BeNumerically("~", 10.5, 0.01))
		Expect(pos.Position.Y).To(BeNumerically("~", -3.25, 0.01))
		Expect(pos.Speed.Y).To(BeNumerically("~", -9.81, 0.01))
		Expect(pos.Pitch).To(BeNumerically("~", 45.5, 0.01))
		Expect(pos.FOV).To(BeNumerically("~", 1.25, 1.0/80))
		Expect(pos.WantedRange).To(Equal(uint8(11)))
	})

	Describe("ToClientAccessDenied", func() {
		It("carries no message for plain codes", func() {
			data, err := protocol.Marshal(&protocol.ToClientAccessDenied{
				Code:    protocol.DenyTooManyUsers,
				Message: "ignored",
			})
			Expect(err).To(Succeed())
			Expect(data).To(HaveLen(3))

			out, err := protocol.Unmarshal(protocol.ToClient, data)
			Expect(err).To(Succeed())
			denied := out.(*protocol.ToClientAccessDenied)
			Expect(denied.Code).To(Equal(protocol.DenyTooManyUsers))
			Expect(denied.Message).To(BeEmpty())
		})

		It("carries a message for custom strings", func() {
			out := reencode(&protocol.ToClientAccessDenied{
				Code:    protocol.DenyCustomString,
				Message: "banned until tomorrow",
			})
			Expect(out.(*protocol.ToClientAccessDenied).Message).To(Equal("banned until tomorrow"))
		})

		It("carries a message and reconnect hint on shutdown", func() {
			out := reencode(&protocol.ToClientAccessDenied{
				Code:      protocol.DenyShutdown,
				Message:   "restarting",
				Reconnect: true,
			})

			denied := out.(*protocol.ToClientAccessDenied)
			Expect(denied.Message).To(Equal("restarting"))
			Expect(denied.Reconnect).To(BeTrue())
		})

		It("treats codes beyond the known set as custom strings", func() {
			out := reencode(&protocol.ToClientAccessDenied{
				Code:    protocol.DenyCrash + 5,
				Message: "from the future",
			})
			Expect(out.(*protocol.ToClientAccessDenied).Message).To(Equal("from the future"))
		})
	})

	Describe("optional trailing fields", func() {
		It("omits them when unset", func() {
			data, err := protocol.Marshal(&protocol.ToClientTimeOfDay{TimeOfDay: 6000})
			Expect(err).To(Succeed())
			Expect(data).To(HaveLen(4))

			out, err := protocol.Unmarshal(protocol.ToClient, data)
			Expect(err).To(Succeed())
			Expect(out.(*protocol.ToClientTimeOfDay).TimeSpeed).To(BeNil())
		})

		It("round-trips them when set", func() {
			speed := float32(72)
			out := reencode(&protocol.ToClientTimeOfDay{TimeOfDay: 6000, TimeSpeed: &speed})

			tod := out.(*protocol.ToClientTimeOfDay)
			Expect(tod.TimeSpeed).NotTo(BeNil())
			Expect(*tod.TimeSpeed).To(Equal(float32(72)))
		})

		It("stops at the first absent field of a tail", func() {
			zindex := int16(-4)
			out := reencode(&protocol.ToClientHudAdd{
				Name:     "healthbar",
				WorldPos: &protocol.V3F{X: 1, Y: 2, Z: 3},
				Size:     &protocol.V2S32{X: 20, Y: 20},
				ZIndex:   &zindex,
			})

			hud := out.(*protocol.ToClientHudAdd)
			Expect(hud.WorldPos).To(Equal(&protocol.V3F{X: 1, Y: 2, Z: 3}))
			Expect(*hud.ZIndex).To(Equal(int16(-4)))
			Expect(hud.Text2).To(BeNil())
			Expect(hud.Style).To(BeNil())
		})
	})

	It("compresses definition databases on the wire", func() {
		blob := make([]byte, 4096)
		for i := range blob {
			blob[i] = byte(i % 7)
		}

		data, err := protocol.Marshal(&protocol.ToClientNodeDef{Data: blob})
		Expect(err).To(Succeed())
		Expect(len(data)).To(BeNumerically("<", len(blob)))

		out, err := protocol.Unmarshal(protocol.ToClient, data)
		Expect(err).To(Succeed())
		Expect(out.(*protocol.ToClientNodeDef).Data).To(Equal(blob))
	})

	It("round-trips active object updates with opaque payloads", func() {
		out := reencode(&protocol.ToClientActiveObjectRemoveAdd{
			RemovedIDs: []uint16{3, 9},
			Added: []protocol.AddedObject{
				{ID: 12, Type: 7, InitData: []byte{0x01, 0x02, 0x03}},
			},
		})

		aor := out.(*protocol.ToClientActiveObjectRemoveAdd)
		Expect(aor.RemovedIDs).To(Equal([]uint16{3, 9}))
		Expect(aor.Added).To(HaveLen(1))
		Expect(aor.Added[0].InitData).To(Equal([]byte{0x01, 0x02, 0x03}))
	})

	It("parses active object message batches without a count", func() {
		out := reencode(&protocol.ToClientActiveObjectMessages{
			Messages: []protocol.ActiveObjectMessage{
				{ID: 12, Data: []byte{0xaa}},
				{ID: 13, Data: []byte{0xbb, 0xcc}},
			},
		})

		msgs := out.(*protocol.ToClientActiveObjectMessages).Messages
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[1].ID).To(Equal(uint16(13)))
		Expect(msgs[1].Data).To(Equal([]byte{0xbb, 0xcc}))
	})

	Describe("ToClientHudChange", func() {
		It("carries the value shape its stat kind selects", func() {
			out := reencode(&protocol.ToClientHudChange{
				ServerID: 4,
				Stat:     protocol.HudStat{Kind: protocol.HudStatWorldPos, WorldPos: protocol.V3F{X: 1, Y: 2, Z: 3}},
			})
			Expect(out.(*protocol.ToClientHudChange).Stat.WorldPos).To(Equal(protocol.V3F{X: 1, Y: 2, Z: 3}))

			out = reencode(&protocol.ToClientHudChange{
				ServerID: 4,
				Stat:     protocol.HudStat{Kind: protocol.HudStatText, Str: "50 HP"},
			})
			Expect(out.(*protocol.ToClientHudChange).Stat.Str).To(Equal("50 HP"))
		})

		It("rejects an undefined stat kind", func() {
			data, err := protocol.Marshal(&protocol.ToClientHudChange{
				ServerID: 4,
				Stat:     protocol.HudStat{Kind: protocol.HudStatNumber, Num: 100},
			})
			Expect(err).To(Succeed())

			// The stat kind byte sits right after the server id.
			data[6] = 14

			_, err = protocol.Unmarshal(protocol.ToClient, data)
			Expect(errors.Is(err, wire.ErrInvalidEncoding)).To(BeTrue())
		})
	})

	Describe("ToClientHudSetParam", func() {
		It("boxes the hotbar item count in a four-byte string", func() {
			data, err := protocol.Marshal(&protocol.ToClientHudSetParam{
				Param:     protocol.HudParamHotbarItemCount,
				ItemCount: 16,
			})
			Expect(err).To(Succeed())
			Expect(data).To(HaveLen(10))

			out, err := protocol.Unmarshal(protocol.ToClient, data)
			Expect(err).To(Succeed())
			Expect(out.(*protocol.ToClientHudSetParam).ItemCount).To(Equal(int32(16)))
		})

		It("rejects a box of the wrong size", func() {
			data, err := protocol.Marshal(&protocol.ToClientHudSetParam{
				Param:     protocol.HudParamHotbarItemCount,
				ItemCount: 16,
			})
			Expect(err).To(Succeed())

			data[5] = 2

			_, err = protocol.Unmarshal(protocol.ToClient, data)
			Expect(errors.Is(err, wire.ErrInvalidEncoding)).To(BeTrue())
		})

		It("carries textures for the image params", func() {
			out := reencode(&protocol.ToClientHudSetParam{
				Param:   protocol.HudParamHotbarImage,
				Texture: "hotbar.png",
			})
			Expect(out.(*protocol.ToClientHudSetParam).Texture).To(Equal("hotbar.png"))
		})
	})

	Describe("ToClientSetSky", func() {
		It("carries a palette for the regular sky", func() {
			out := reencode(&protocol.ToClientSetSky{Sky: protocol.SkyboxParams{
				Type: "regular",
				SkyColors: &protocol.SkyColor{
					DaySky:  protocol.Color{R: 97, G: 181, B: 245, A: 255},
					Indoors: protocol.Color{R: 100, G: 100, B: 100, A: 255},
				},
			}})

			sky := out.(*protocol.ToClientSetSky).Sky
			Expect(sky.SkyColors).NotTo(BeNil())
			Expect(sky.SkyColors.DaySky.G).To(Equal(uint8(181)))
			Expect(sky.Textures).To(BeNil())
		})

		It("carries textures for a skybox", func() {
			tilt := float32(0.5)
			out := reencode(&protocol.ToClientSetSky{Sky: protocol.SkyboxParams{
				Type:          "skybox",
				Textures:      []string{"up.png", "down.png"},
				BodyOrbitTilt: &tilt,
			}})

			sky := out.(*protocol.ToClientSetSky).Sky
			Expect(sky.Textures).To(Equal([]string{"up.png", "down.png"}))
			Expect(sky.SkyColors).To(BeNil())
			Expect(*sky.BodyOrbitTilt).To(Equal(float32(0.5)))
		})

		It("carries neither for a plain sky", func() {
			out := reencode(&protocol.ToClientSetSky{Sky: protocol.SkyboxParams{Type: "plain"}})

			sky := out.(*protocol.ToClientSetSky).Sky
			Expect(sky.Textures).To(BeNil())
			Expect(sky.SkyColors).To(BeNil())
			Expect(sky.BodyOrbitTilt).To(BeNil())
		})
	})

	It("puts the minimap mode count before the current mode", func() {
		data, err := protocol.Marshal(&protocol.ToClientMinimapModes{
			Current: 1,
			Modes: []protocol.MinimapMode{
				{Type: 0, Label: "off"},
				{Type: 1, Label: "surface", Size: 256},
			},
		})
		Expect(err).To(Succeed())
		Expect(data[2:6]).To(Equal([]byte{0x00, 0x02, 0x00, 0x01}))

		out, err := protocol.Unmarshal(protocol.ToClient, data)
		Expect(err).To(Succeed())
		modes := out.(*protocol.ToClientMinimapModes)
		Expect(modes.Current).To(Equal(uint16(1)))
		Expect(modes.Modes[1].Size).To(Equal(uint16(256)))
	})

	It("rejects hud flags outside the defined bits", func() {
		data, err := protocol.Marshal(&protocol.ToClientHudSetFlags{
			Flags: protocol.HudFlagMinimapVisible,
			Mask:  protocol.HudFlagMinimapVisible,
		})
		Expect(err).To(Succeed())

		// Set an undefined high bit in the flags word.
		data[2] |= 0x80

		_, err = protocol.Unmarshal(protocol.ToClient, data)
		Expect(errors.Is(err, wire.ErrInvalidEncoding)).To(BeTrue())
	})

	It("wraps decode failures with the command name", func() {
		data, err := protocol.Marshal(&protocol.ToServerChatMessage{Message: "hello"})
		Expect(err).To(Succeed())

		_, err = protocol.Unmarshal(protocol.ToServer, data[:4])
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, wire.ErrTruncated)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("ToServerChatMessage"))
	})

	Describe("Unknown", func() {
		It("preserves an unrecognized payload verbatim", func() {
			raw := []byte{0x00, 0x7f, 0xde, 0xad, 0xbe, 0xef}

			out, err := protocol.Unmarshal(protocol.ToClient, raw)
			Expect(err).To(Succeed())

			unknown, ok := out.(*protocol.Unknown)
			Expect(ok).To(BeTrue())
			Expect(unknown.ID).To(Equal(uint16(0x7f)))
			Expect(unknown.Payload).To(Equal([]byte{0xde, 0xad, 0xbe, 0xef}))

			data, err := protocol.Marshal(unknown)
			Expect(err).To(Succeed())
			Expect(data).To(Equal(raw))
		})

		It("names itself by id", func() {
			Expect(protocol.CommandName(&protocol.Unknown{ID: 0x7f})).To(Equal("Unknown(0x7f)"))
		})
	})

	It("assigns bulk transfers to the bulk channel", func() {
		Expect(protocol.DefaultChannel(&protocol.ToClientBlockData{})).To(Equal(uint8(2)))
		Expect(protocol.DefaultChannel(&protocol.ToServerGotBlocks{})).To(Equal(uint8(2)))
		Expect(protocol.DefaultChannel(&protocol.ToServerInit{})).To(Equal(uint8(1)))
		Expect(protocol.DefaultChannel(&protocol.ToServerChatMessage{})).To(Equal(uint8(0)))
	})

	It("sends movement samples unreliably and chat reliably", func() {
		Expect(protocol.DefaultReliable(&protocol.ToServerPlayerPos{})).To(BeFalse())
		Expect(protocol.DefaultReliable(&protocol.ToServerChatMessage{})).To(BeTrue())
	})

	It("exposes the command identity", func() {
		Expect(protocol.CommandID(&protocol.ToServerInit{})).To(Equal(uint16(0x02)))
		Expect(protocol.CommandName(&protocol.ToClientHello{})).To(Equal("ToClientHello"))
		Expect(protocol.DirectionOf(&protocol.ToClientHello{})).To(Equal(protocol.ToClient))
	})
})
