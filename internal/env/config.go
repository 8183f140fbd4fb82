package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/luma/voxelwire/peer"
)

type Config struct {
	// DebugHTTP enables verbose request logging on the debug HTTP
	// surface.
	DebugHTTP bool `env:"VOXELWIRE_DEBUG_HTTP"`

	// Trace dumps every datagram to the log. Local debugging only.
	Trace bool `env:"VOXELWIRE_TRACE"`

	// WindowSize caps unacked reliable datagrams per channel.
	WindowSize int `env:"VOXELWIRE_WINDOW_SIZE,default=1024"`

	// ResendTimeoutMs is how long an unacked reliable datagram waits
	// before retransmission.
	ResendTimeoutMs int `env:"VOXELWIRE_RESEND_TIMEOUT_MS,default=500"`

	// MaxRetries bounds retransmissions of one datagram; 0 retries
	// forever.
	MaxRetries int `env:"VOXELWIRE_MAX_RETRIES"`

	// SplitTimeoutS is how long an incomplete fragment group is kept.
	SplitTimeoutS int `env:"VOXELWIRE_SPLIT_TIMEOUT_S,default=30"`

	// PingIntervalS is how long a peer stays quiet before pinging.
	PingIntervalS int `env:"VOXELWIRE_PING_INTERVAL_S,default=5"`

	// IdleTimeoutS is how long without inbound traffic before a peer is
	// dropped.
	IdleTimeoutS int `env:"VOXELWIRE_IDLE_TIMEOUT_S,default=30"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// PeerConfig translates the env knobs into the protocol's terms.
func (c *Config) PeerConfig() peer.Config {
	return peer.Config{
		WindowSize:    c.WindowSize,
		ResendTimeout: time.Duration(c.ResendTimeoutMs) * time.Millisecond,
		MaxRetries:    c.MaxRetries,
		SplitTimeout:  time.Duration(c.SplitTimeoutS) * time.Second,
		PingInterval:  time.Duration(c.PingIntervalS) * time.Second,
		IdleTimeout:   time.Duration(c.IdleTimeoutS) * time.Second,
	}
}
