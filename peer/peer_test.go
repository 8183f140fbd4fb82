package peer_test

import (
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/peer"
	"github.com/luma/voxelwire/protocol"
)

var _ = Describe("Peer", func() {
	var t0 time.Time

	BeforeEach(func() {
		t0 = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	})

	newServer := func(remote packet.PeerID) *peer.Peer {
		return peer.New(zap.NewNop(), peer.Config{Role: peer.RoleServer, RemoteID: remote}, t0)
	}

	newClient := func() *peer.Peer {
		return peer.New(zap.NewNop(), peer.Config{Role: peer.RoleClient}, t0)
	}

	// drain pulls every datagram currently due.
	drain := func(p *peer.Peer, now time.Time) [][]byte {
		var out [][]byte
		for {
			data, err := p.PollSend(now)
			Expect(err).To(Succeed())
			if data == nil {
				return out
			}
			out = append(out, data)
		}
	}

	shuttle := func(from, to *peer.Peer, now time.Time) {
		for _, data := range drain(from, now) {
			Expect(to.HandleDatagram(now, data)).To(Succeed())
		}
	}

	It("assigns the client its peer id over a reliable control", func() {
		server := newServer(7)
		client := newClient()

		data, err := server.PollSend(t0)
		Expect(err).To(Succeed())
		Expect(data).NotTo(BeNil())

		pkt, err := packet.Unmarshal(data)
		Expect(err).To(Succeed())
		Expect(pkt.PeerID).To(Equal(packet.PeerIDServer))
		rel, ok := pkt.AsReliable()
		Expect(ok).To(BeTrue())
		ctrl, ok := pkt.AsControl()
		Expect(ok).To(BeTrue())
		Expect(ctrl.Kind).To(Equal(packet.ControlSetPeerID))
		Expect(ctrl.PeerID).To(Equal(packet.PeerID(7)))

		Expect(client.ID()).To(Equal(packet.PeerIDNil))
		Expect(client.HandleDatagram(t0, data)).To(Succeed())
		Expect(client.ID()).To(Equal(packet.PeerID(7)))

		// The assignment was reliable, so the client owes an ack; once
		// it lands the server stops retransmitting.
		ack, err := client.PollSend(t0)
		Expect(err).To(Succeed())
		ackPkt, err := packet.Unmarshal(ack)
		Expect(err).To(Succeed())
		ackCtrl, ok := ackPkt.AsControl()
		Expect(ok).To(BeTrue())
		Expect(ackCtrl.Kind).To(Equal(packet.ControlAck))
		Expect(ackCtrl.Seqnum).To(Equal(rel.Seqnum))

		Expect(server.HandleDatagram(t0, ack)).To(Succeed())
		resend, err := server.PollSend(t0.Add(time.Hour))
		Expect(err).To(Succeed())
		Expect(resend).To(BeNil())
	})

	It("accepts the nil sender id only during the grace period", func() {
		server := newServer(7)

		payload, err := protocol.Marshal(&protocol.ToServerChatMessage{Message: "hi"})
		Expect(err).To(Succeed())
		data, err := (&packet.Packet{
			PeerID: packet.PeerIDNil,
			Body:   &packet.Original{Payload: payload},
		}).Marshal()
		Expect(err).To(Succeed())

		Expect(server.HandleDatagram(t0.Add(10*time.Second), data)).To(Succeed())
		_, ok := server.PollReceived()
		Expect(ok).To(BeTrue())

		err = server.HandleDatagram(t0.Add(21*time.Second), data)
		Expect(errors.Is(err, peer.ErrPeerIDMismatch)).To(BeTrue())
	})

	It("rejects datagrams stamped with a stranger's id", func() {
		server := newServer(7)

		data, err := (&packet.Packet{
			PeerID: 9,
			Body:   &packet.Control{Kind: packet.ControlPing},
		}).Marshal()
		Expect(err).To(Succeed())

		err = server.HandleDatagram(t0, data)
		Expect(errors.Is(err, peer.ErrPeerIDMismatch)).To(BeTrue())
	})

	It("delivers a reliable command exactly once despite duplication", func() {
		server := newServer(7)
		client := newClient()
		shuttle(server, client, t0)
		drain(client, t0)

		Expect(client.SendCommand(&protocol.ToServerChatMessage{Message: "hello world"})).To(Succeed())

		sends := drain(client, t0)
		Expect(sends).To(HaveLen(1))

		Expect(server.HandleDatagram(t0, sends[0])).To(Succeed())
		Expect(server.HandleDatagram(t0, sends[0])).To(Succeed())

		cmd, ok := server.PollReceived()
		Expect(ok).To(BeTrue())
		chat, ok := cmd.(*protocol.ToServerChatMessage)
		Expect(ok).To(BeTrue())
		Expect(chat.Message).To(Equal("hello world"))

		_, ok = server.PollReceived()
		Expect(ok).To(BeFalse())

		// Both copies get acked: the duplicate means the first ack was
		// lost.
		acks := drain(server, t0)
		Expect(acks).To(HaveLen(2))
		Expect(acks[0]).To(Equal(acks[1]))
	})

	It("retransmits unacked sends byte-identically", func() {
		client := newClient()
		Expect(client.SendCommand(&protocol.ToServerChatMessage{Message: "are you there"})).To(Succeed())

		first, err := client.PollSend(t0)
		Expect(err).To(Succeed())
		Expect(first).NotTo(BeNil())

		quiet, err := client.PollSend(t0.Add(100 * time.Millisecond))
		Expect(err).To(Succeed())
		Expect(quiet).To(BeNil())

		resent, err := client.PollSend(t0.Add(600 * time.Millisecond))
		Expect(err).To(Succeed())
		Expect(resent).To(Equal(first))
	})

	It("fragments an oversized command and reassembles it on arrival", func() {
		server := newServer(7)
		client := newClient()
		shuttle(server, client, t0)
		drain(client, t0)

		message := strings.Repeat("lorem ipsum ", 200)
		Expect(client.SendCommand(&protocol.ToServerChatMessage{Message: message})).To(Succeed())

		sends := drain(client, t0)
		Expect(len(sends)).To(BeNumerically(">", 1))
		for _, data := range sends {
			Expect(len(data)).To(BeNumerically("<=", packet.MaxPacketSize))
			Expect(server.HandleDatagram(t0, data)).To(Succeed())
		}

		cmd, ok := server.PollReceived()
		Expect(ok).To(BeTrue())
		Expect(cmd.(*protocol.ToServerChatMessage).Message).To(Equal(message))
	})

	It("sends unreliable commands without sequencing overhead", func() {
		server := newServer(7)
		client := newClient()
		shuttle(server, client, t0)
		drain(client, t0)

		Expect(client.SendCommand(&protocol.ToServerPlayerPos{})).To(Succeed())

		sends := drain(client, t0)
		Expect(sends).To(HaveLen(1))

		pkt, err := packet.Unmarshal(sends[0])
		Expect(err).To(Succeed())
		_, reliable := pkt.AsReliable()
		Expect(reliable).To(BeFalse())
	})

	It("pings after going quiet", func() {
		client := newClient()

		Expect(client.Tick(t0.Add(peer.DefaultPingInterval))).To(Succeed())

		sends := drain(client, t0.Add(peer.DefaultPingInterval))
		Expect(sends).To(HaveLen(1))

		pkt, err := packet.Unmarshal(sends[0])
		Expect(err).To(Succeed())
		ctrl, ok := pkt.AsControl()
		Expect(ok).To(BeTrue())
		Expect(ctrl.Kind).To(Equal(packet.ControlPing))
	})

	It("keeps queueing keepalives while none reach the wire", func() {
		client := newClient()

		first := t0.Add(peer.DefaultPingInterval)
		Expect(client.Tick(first)).To(Succeed())
		Expect(client.Tick(first.Add(peer.ResendResolution))).To(Succeed())

		sends := drain(client, first.Add(peer.ResendResolution))
		Expect(sends).To(HaveLen(2))
		for _, data := range sends {
			pkt, err := packet.Unmarshal(data)
			Expect(err).To(Succeed())
			ctrl, ok := pkt.AsControl()
			Expect(ok).To(BeTrue())
			Expect(ctrl.Kind).To(Equal(packet.ControlPing))
		}

		// Draining counts as wire traffic, so the next tick stays quiet.
		later := first.Add(peer.ResendResolution + time.Second)
		Expect(client.Tick(later)).To(Succeed())
		Expect(drain(client, later)).To(BeEmpty())
	})

	It("times out a silent association", func() {
		client := newClient()

		err := client.Tick(t0.Add(peer.DefaultIdleTimeout))
		Expect(errors.Is(err, peer.ErrPeerTimeout)).To(BeTrue())
		Expect(client.Closed()).To(BeTrue())
		Expect(errors.Is(client.Err(), peer.ErrPeerTimeout)).To(BeTrue())
	})

	It("closes the remote on disconnect", func() {
		server := newServer(7)
		client := newClient()
		shuttle(server, client, t0)
		drain(client, t0)

		data, err := server.Disconnect()
		Expect(err).To(Succeed())
		Expect(server.Closed()).To(BeTrue())

		Expect(client.HandleDatagram(t0, data)).To(Succeed())
		Expect(client.Closed()).To(BeTrue())
		Expect(errors.Is(client.Err(), peer.ErrPeerClosed)).To(BeTrue())

		err = client.SendCommand(&protocol.ToServerChatMessage{Message: "too late"})
		Expect(errors.Is(err, peer.ErrPeerClosed)).To(BeTrue())
	})

	It("refuses a reliable send that cannot fit its whole fragment group", func() {
		client := peer.New(zap.NewNop(), peer.Config{Role: peer.RoleClient, WindowSize: 2}, t0)

		message := strings.Repeat("x", 3*packet.MaxSplitBodySize)
		err := client.SendCommand(&protocol.ToServerChatMessage{Message: message})
		Expect(errors.Is(err, peer.ErrWindowExhausted)).To(BeTrue())

		// Nothing was admitted, so the window is still clean.
		Expect(client.SendCommand(&protocol.ToServerChatMessage{Message: "small"})).To(Succeed())
	})
})
