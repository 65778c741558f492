package coordinator

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndpoint_Validate(t *testing.T) {
	require.NoError(t, Endpoint{Host: "cdw", Port: 1}.Validate())
	require.NoError(t, Endpoint{Host: "cdw", Port: 65535}.Validate())
	require.Error(t, Endpoint{Host: "cdw", Port: 0}.Validate())
	require.Error(t, Endpoint{Host: "cdw", Port: 65536}.Validate())
	require.Error(t, Endpoint{Port: 5432}.Validate())
}

func TestEndpoint_Resolve(t *testing.T) {
	ep, err := Endpoint{Host: "cdw", Port: 5432}.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cdw:5432", ep.String())

	_, err = Endpoint{}.Resolve(context.Background())
	require.Error(t, err)
}

func TestEndpoint_StringIPv6(t *testing.T) {
	require.Equal(t, "[::1]:5432", Endpoint{Host: "::1", Port: 5432}.String())
}

func TestRow_String(t *testing.T) {
	require.Equal(t, `{"content":2}`, Row{"content": 2}.String())
}

func TestPostgresDialer_ConnString(t *testing.T) {
	d := NewDialer(DefaultOptions())
	connStr := d.ConnString(Endpoint{Host: "cdw", Port: 7000})

	u, err := url.Parse(connStr)
	require.NoError(t, err)
	require.Equal(t, "postgres", u.Scheme)
	require.Equal(t, "cdw:7000", u.Host)
	require.Equal(t, "/postgres", u.Path)
	require.Equal(t, "-c gp_role=utility -c allow_system_table_mods=true", u.Query().Get("options"))
	require.Equal(t, "prefer", u.Query().Get("sslmode"))
	require.Nil(t, u.User)
}

func TestPostgresDialer_ConnStringWithUser(t *testing.T) {
	opt := DefaultOptions()
	opt.User = "gpadmin"
	opt.SessionOptions = ""

	u, err := url.Parse(NewDialer(opt).ConnString(Endpoint{Host: "cdw", Port: 7000}))
	require.NoError(t, err)
	require.Equal(t, "gpadmin", u.User.Username())
	require.False(t, u.Query().Has("options"))
}

func TestPostgresDialer_DialInvalidEndpoint(t *testing.T) {
	_, err := NewDialer(DefaultOptions()).Dial(context.Background(), Endpoint{Host: "cdw"})
	require.Error(t, err)
}
