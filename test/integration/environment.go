package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartystreets/goconvey/convey"
)

const envKey = "DBFARMER_TEST_INTEGRATION"

// IsIntegrationTest indicates that current test is an integration test.
// will be turned on if DBFARMER_TEST_INTEGRATION environment variable is set.
var IsIntegrationTest bool

func init() {
	if _, ok := os.LookupEnv(envKey); ok {
		IsIntegrationTest = true
		log.Info().Msg("Starting integration test.")
	}
}

func RunOnIntegrationTest(t *testing.T) {
	if !IsIntegrationTest {
		t.Skipf("Skipping %s since it is integration test.", t.Name())
	}
}

// ContextWithTimeout returns a context cancelled when the current convey scope resets.
func ContextWithTimeout(timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	convey.Reset(cancel)
	return ctx
}
