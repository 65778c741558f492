package metric

import (
	"strconv"

	"github.com/ab180/dbfarmer/segment"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "dbfarmer"

// Push sends the collected metrics to a Prometheus Pushgateway.
// The reporter is a one-shot process, so it cannot be scraped.
func Push(gatewayURL string, id segment.Identity) error {
	pusher := push.New(gatewayURL, pushJobName).
		Grouping("dbid", strconv.Itoa(id.DBID)).
		Grouping("content", strconv.Itoa(id.ContentID))
	for _, c := range Collectors() {
		pusher = pusher.Collector(c)
	}
	if err := pusher.Push(); err != nil {
		return errors.Wrapf(err, "push metrics to %s", gatewayURL)
	}
	return nil
}
