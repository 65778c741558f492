package integration

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ab180/dbfarmer/coordinator"
	"github.com/rs/zerolog/log"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/thoas/go-funk"
)

const (
	etcdEndpointEnvKey  = "DBFARMER_TEST_ETCD_ENDPOINT"
	defaultEtcdEndpoint = "127.0.0.1:2379"
)

// ProvideDirectory provides an etcd backed coordinator.Directory on integration tests.
// Otherwise, coordinator.LocalMemory is provided.
func ProvideDirectory() (dir coordinator.Directory, closer func()) {
	if !IsIntegrationTest {
		return coordinator.NewLocalMemory(), func() {}
	}
	testNs := fmt.Sprintf("dbfarmer_test_%s/", funk.RandomString(10))

	etcdEndpoint, ok := os.LookupEnv(etcdEndpointEnvKey)
	if !ok {
		etcdEndpoint = defaultEtcdEndpoint
	}
	etcd, err := coordinator.NewEtcd([]string{etcdEndpoint}, testNs)
	So(err, ShouldBeNil)

	closer = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		log.Info().Msg("Closing etcd")
		So(etcd.Withdraw(ctx), ShouldBeNil)
		So(etcd.Close(), ShouldBeNil)
	}
	return etcd, closer
}
