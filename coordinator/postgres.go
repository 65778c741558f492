package coordinator

import (
	"context"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// PostgresDialer opens administrative sessions with pgx.
type PostgresDialer struct {
	opt Options
}

func NewDialer(opt Options) *PostgresDialer {
	return &PostgresDialer{opt: opt}
}

// ConnString returns a connection URL for the endpoint.
func (d *PostgresDialer) ConnString(ep Endpoint) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   ep.String(),
		Path:   "/" + d.opt.Database,
	}
	if d.opt.User != "" {
		u.User = url.User(d.opt.User)
	}
	q := url.Values{}
	if d.opt.SessionOptions != "" {
		q.Set("options", d.opt.SessionOptions)
	}
	if d.opt.SSLMode != "" {
		q.Set("sslmode", d.opt.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (d *PostgresDialer) Dial(ctx context.Context, ep Endpoint) (Session, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	cfg, err := pgx.ParseConfig(d.ConnString(ep))
	if err != nil {
		return nil, errors.Wrapf(err, "parse connection config for %s", ep)
	}
	if d.opt.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opt.ConnectTimeout)
		defer cancel()
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &postgresSession{conn: conn}, nil
}

type postgresSession struct {
	conn *pgx.Conn
}

func (s *postgresSession) Query(ctx context.Context, sql string, args ...interface{}) ([]Row, error) {
	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	result := make([]Row, len(maps))
	for i, m := range maps {
		result[i] = m
	}
	return result, nil
}

func (s *postgresSession) LocalAddr() string {
	nc := s.conn.PgConn().Conn()
	if nc == nil {
		return ""
	}
	return nc.LocalAddr().String()
}

func (s *postgresSession) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
