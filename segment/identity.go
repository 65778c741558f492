// Package segment describes the identity a segment process is given by the
// cluster launcher before it starts.
package segment

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Environment variables set by the cluster launcher.
const (
	DBIDEnvKey    = "CLUSTER_DBID"
	ContentEnvKey = "CLUSTER_CONTENTID"
	PortEnvKey    = "PGPORT"
)

// CoordinatorContentID is the content id reserved for the coordinator.
const CoordinatorContentID = -1

// Identity is the segment's own identity. It never changes during the process lifetime.
type Identity struct {
	// DBID is the unique id of this segment's catalog entry.
	DBID int `json:"dbid"`

	// ContentID is the shard index served by this segment. It is the lookup key
	// of the segment's row in the cluster configuration.
	ContentID int `json:"content"`

	// Port is the local port this segment listens on.
	Port int `json:"port"`
}

func (id Identity) Validate() error {
	if id.DBID <= 0 {
		return errors.Errorf("dbid must be positive, got %d", id.DBID)
	}
	if id.ContentID < 0 {
		return errors.Errorf("content id %d does not belong to a segment", id.ContentID)
	}
	if id.Port < 1 || id.Port > 65535 {
		return errors.Errorf("port %d is out of range 1-65535", id.Port)
	}
	return nil
}

// FromEnv reads an Identity from the launcher's environment variables.
func FromEnv() (Identity, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads an Identity using the given lookup function.
func FromLookup(lookup func(string) (string, bool)) (id Identity, err error) {
	if id.DBID, err = intFrom(lookup, DBIDEnvKey); err != nil {
		return Identity{}, err
	}
	if id.ContentID, err = intFrom(lookup, ContentEnvKey); err != nil {
		return Identity{}, err
	}
	if id.Port, err = intFrom(lookup, PortEnvKey); err != nil {
		return Identity{}, err
	}
	return id, nil
}

func intFrom(lookup func(string) (string, bool), key string) (int, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return 0, errors.Errorf("%s is not set", key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return v, nil
}
