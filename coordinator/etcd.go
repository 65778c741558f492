package coordinator

import (
	"context"
	"time"

	"github.com/creasty/defaults"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"
	"google.golang.org/grpc"
)

// endpointKey is where the coordinator endpoint lives under the namespace.
const endpointKey = "coordinator"

// Etcd is a Directory backed by etcd.
type Etcd struct {
	Client *clientv3.Client
	KV     clientv3.KV

	option EtcdOptions
}

type EtcdOptions struct {
	Endpoints   []string
	Namespace   string        `default:"dbfarmer/"`
	DialTimeout time.Duration `default:"5s"`
	OpTimeout   time.Duration `default:"3s"`
}

func defaultEtcdOptions() (o EtcdOptions) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}

func NewEtcd(endpoints []string, nsPrefix string, opts ...EtcdOptions) (*Etcd, error) {
	option := defaultEtcdOptions()
	if len(opts) > 0 {
		option = opts[0]
	}

	cfg := clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: option.DialTimeout,
		DialOptions: []grpc.DialOption{grpc.WithBlock()},
	}
	cli, err := clientv3.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect etcd")
	}
	return &Etcd{
		Client: cli,
		KV:     namespace.NewKV(cli, nsPrefix),
		option: option,
	}, nil
}

// OpenEtcd connects to the etcd cluster configured in the options.
func OpenEtcd(opt EtcdOptions) (*Etcd, error) {
	if len(opt.Endpoints) == 0 {
		return nil, errors.New("no etcd endpoints given")
	}
	return NewEtcd(opt.Endpoints, opt.Namespace, opt)
}

// Resolve reads the announced coordinator endpoint.
// It returns ErrNotFound if nothing has been announced yet.
func (e *Etcd) Resolve(ctx context.Context) (Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, e.option.OpTimeout)
	defer cancel()

	resp, err := e.KV.Get(ctx, endpointKey)
	if err != nil {
		return Endpoint{}, errors.Wrap(err, "get coordinator endpoint")
	}
	if len(resp.Kvs) == 0 {
		return Endpoint{}, ErrNotFound
	}
	var ep Endpoint
	if err := jsoniter.Unmarshal(resp.Kvs[0].Value, &ep); err != nil {
		return Endpoint{}, errors.Wrap(err, "unmarshal coordinator endpoint")
	}
	return ep, ep.Validate()
}

func (e *Etcd) Announce(ctx context.Context, ep Endpoint) error {
	if err := ep.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, e.option.OpTimeout)
	defer cancel()

	jsonVal, err := jsoniter.MarshalToString(ep)
	if err != nil {
		return err
	}
	_, err = e.KV.Put(ctx, endpointKey, jsonVal)
	return err
}

// Withdraw removes the announced endpoint.
func (e *Etcd) Withdraw(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.option.OpTimeout)
	defer cancel()

	_, err := e.KV.Delete(ctx, endpointKey)
	return err
}

func (e *Etcd) Close() error {
	return e.Client.Close()
}
