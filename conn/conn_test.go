package conn_test

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/conn"
	"github.com/luma/voxelwire/packet"
	"github.com/luma/voxelwire/peer"
	"github.com/luma/voxelwire/protocol"
	"github.com/luma/voxelwire/transport"
)

// One full pass over the real loops: pipe transport, wall clock,
// goroutine drivers.
var _ = Describe("Server and Client", func() {
	var (
		server *conn.Server
		client *conn.Client
	)

	BeforeEach(func() {
		serverEnd, clientEnd := transport.NewPipe("server", "client")

		server = conn.NewServer(zap.NewNop(), clock.New(), serverEnd, peer.Config{})
		client = conn.NewClient(zap.NewNop(), clock.New(), clientEnd, serverEnd.LocalAddr(), peer.Config{})

		Expect(server.Start(context.Background())).To(Succeed())
		Expect(client.Connect(context.Background())).To(Succeed())
	})

	AfterEach(func() {
		Expect(server.Close()).To(Succeed())
	})

	It("connects, exchanges chat and disconnects", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		id, err := client.AwaitPeerID(ctx)
		Expect(err).To(Succeed())
		Expect(id).To(BeNumerically(">=", packet.PeerIDClientMin))

		var joined conn.Event
		Eventually(server.Events(), "2s").Should(Receive(&joined))
		Expect(joined.Kind).To(Equal(conn.EventPeerJoined))
		Expect(joined.PeerID).To(Equal(id))

		// The opening null command arrives before anything else.
		var opening conn.Event
		Eventually(server.Events(), "2s").Should(Receive(&opening))
		Expect(opening.Kind).To(Equal(conn.EventCommand))
		Expect(opening.Cmd).To(BeAssignableToTypeOf(&protocol.ToServerNull{}))

		Expect(client.SendCommand(&protocol.ToServerChatMessage{Message: "hello server"})).To(Succeed())

		var gotChat conn.Event
		Eventually(server.Events(), "2s").Should(Receive(&gotChat))
		Expect(gotChat.Kind).To(Equal(conn.EventCommand))
		Expect(gotChat.PeerID).To(Equal(id))
		Expect(gotChat.Cmd.(*protocol.ToServerChatMessage).Message).To(Equal("hello server"))

		Expect(server.SendCommand(id, &protocol.ToClientChatMessage{Message: "hello client"})).To(Succeed())

		var echoed conn.Event
		Eventually(client.Events(), "2s").Should(Receive(&echoed))
		Expect(echoed.Kind).To(Equal(conn.EventCommand))
		Expect(echoed.Cmd.(*protocol.ToClientChatMessage).Message).To(Equal("hello client"))

		Expect(client.Disconnect()).To(Succeed())

		var left conn.Event
		Eventually(server.Events(), "2s").Should(Receive(&left))
		Expect(left.Kind).To(Equal(conn.EventPeerLeft))
		Expect(left.PeerID).To(Equal(id))
		Eventually(server.PeerCount, "2s").Should(BeZero())
	})
})
