package debug_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/luma/voxelwire/conn"
	"github.com/luma/voxelwire/internal/debug"
	"github.com/luma/voxelwire/packet"
)

type fakeSource struct {
	peers        []conn.PeerInfo
	disconnected []packet.PeerID
	disconnectFn func(packet.PeerID) error
}

func (f *fakeSource) Snapshot() []conn.PeerInfo { return f.peers }
func (f *fakeSource) PeerCount() int            { return len(f.peers) }

func (f *fakeSource) Disconnect(id packet.PeerID) error {
	if f.disconnectFn != nil {
		return f.disconnectFn(id)
	}
	f.disconnected = append(f.disconnected, id)
	return nil
}

var _ = Describe("NewRouter", func() {
	var src *fakeSource

	BeforeEach(func() {
		src = &fakeSource{
			peers: []conn.PeerInfo{
				{ID: 2, Addr: "10.0.0.5:30000"},
				{ID: 7, Addr: "10.0.0.9:30000"},
			},
		}
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		debug.NewRouter(src, false, zap.NewNop()).ServeHTTP(rec, req)
		return rec
	}

	It("answers the health check", func() {
		rec := serve(httptest.NewRequest("GET", "/ping", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("pong"))
	})

	It("lists the tracked peers", func() {
		rec := serve(httptest.NewRequest("GET", "/peers", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		body := rec.Body.String()
		Expect(gjson.Get(body, "count").Int()).To(Equal(int64(2)))
		Expect(gjson.Get(body, "peers.#").Int()).To(Equal(int64(2)))
		Expect(gjson.Get(body, "peers.0.id").Int()).To(Equal(int64(2)))
		Expect(gjson.Get(body, "peers.1.addr").String()).To(Equal("10.0.0.9:30000"))
	})

	Describe("POST /disconnect", func() {
		It("drops the named peer", func() {
			req := httptest.NewRequest("POST", "/disconnect", strings.NewReader(`{"id":7}`))
			rec := serve(req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(src.disconnected).To(Equal([]packet.PeerID{7}))
		})

		It("rejects a body without an id", func() {
			req := httptest.NewRequest("POST", "/disconnect", strings.NewReader(`{}`))
			rec := serve(req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("reports unknown peers", func() {
			src.disconnectFn = func(packet.PeerID) error { return conn.ErrUnknownPeer }

			req := httptest.NewRequest("POST", "/disconnect", strings.NewReader(`{"id":9999}`))
			rec := serve(req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
