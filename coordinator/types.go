package coordinator

import (
	"context"
	"net"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Endpoint is the network address of the coordinator.
type Endpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Validate checks that the endpoint can be dialed.
func (e Endpoint) Validate() error {
	if e.Host == "" {
		return errors.New("coordinator host is empty")
	}
	if e.Port < 1 || e.Port > 65535 {
		return errors.Errorf("coordinator port %d is out of range 1-65535", e.Port)
	}
	return nil
}

// Resolve makes a static Endpoint usable as a Resolver.
func (e Endpoint) Resolve(context.Context) (Endpoint, error) {
	return e, e.Validate()
}

// Row is a row returned from the coordinator, keyed by column name.
type Row map[string]interface{}

func (r Row) String() string {
	s, err := jsoniter.MarshalToString(r)
	if err != nil {
		return "<unprintable row>"
	}
	return s
}
