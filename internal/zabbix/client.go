package zabbix

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/zabbixoor/internal/export"
	"github.com/ethpandaops/zabbixoor/internal/point"
	"github.com/ethpandaops/zabbixoor/internal/relay"
)

// Client sends trapper batches to a Zabbix server. It is safe for use by
// concurrent sessions; every batch gets its own connection.
type Client struct {
	log    logrus.FieldLogger
	cfg    Config
	health *export.HealthMetrics
}

// NewClient creates a trapper client. health may be nil in tests.
func NewClient(
	log logrus.FieldLogger,
	cfg Config,
	health *export.HealthMetrics,
) (*Client, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid zabbix config: %w", err)
	}

	return &Client{
		log:    log.WithField("component", "zabbix"),
		cfg:    cfg,
		health: health,
	}, nil
}

// NewSession creates the transport session for one flush cycle. It
// satisfies relay.SessionFactory.
func (c *Client) NewSession(
	flushTime time.Time,
	done relay.CompletionFunc,
) relay.Session {
	return &session{
		c:     c,
		clock: flushTime.Unix(),
		done:  done,
	}
}

// session delivers one flush's points and then reports the aggregate
// outcome through the completion callback.
type session struct {
	c     *Client
	clock int64
	done  relay.CompletionFunc
}

// SubmitBatch queues the points for delivery and returns immediately.
func (s *session) SubmitBatch(points []point.Point) {
	go s.run(points)
}

func (s *session) run(points []point.Point) {
	items := make([]Item, len(points))

	for i, p := range points {
		items[i] = Item{
			Host:  p.Host,
			Key:   p.Key,
			Value: strconv.FormatFloat(p.Value, 'f', -1, 64),
		}

		if s.c.cfg.SendTimestamps {
			items[i].Clock = s.clock
		}
	}

	var (
		mu        sync.Mutex
		errs      []string
		processed int
		info      string
		wg        sync.WaitGroup
	)

	// Bounded fan-out: at most MaxInflight trapper connections at once.
	sem := make(chan struct{}, s.c.cfg.MaxInflight)

	for start := 0; start < len(items); start += s.c.cfg.BatchSize {
		end := start + s.c.cfg.BatchSize
		if end > len(items) {
			end = len(items)
		}

		batch := items[start:end]

		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := s.c.send(batch)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, err.Error())

				return
			}

			processed += res.Processed
			info = res.Info
		}()
	}

	wg.Wait()

	s.done(relay.Response{
		Errors:        errs,
		StatusMessage: info,
		Total:         processed,
	})
}

// send performs one trapper request over a fresh connection.
func (c *Client) send(items []Item) (BatchResult, error) {
	frame, err := encodeRequest(items, time.Now().Unix())
	if err != nil {
		return BatchResult{}, err
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, c.cfg.Timeout)
	if err != nil {
		return BatchResult{}, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.cfg.Timeout)); err != nil {
		return BatchResult{}, fmt.Errorf("setting deadline: %w", err)
	}

	if _, err := conn.Write(frame); err != nil {
		return BatchResult{}, fmt.Errorf("writing trapper request: %w", err)
	}

	res, err := decodeResponse(conn)
	if err != nil {
		return res, err
	}

	if c.health != nil {
		c.health.BatchesSent.Inc()
		c.health.BatchSendSeconds.Observe(time.Since(start).Seconds())
	}

	c.log.WithFields(logrus.Fields{
		"items": len(items),
		"info":  res.Info,
	}).Debug("Trapper batch accepted")

	return res, nil
}
