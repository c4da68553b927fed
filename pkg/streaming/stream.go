// Package streaming maintains a live order book for one currency pair over
// the exchange's streaming API.
//
// The protocol: the client connects to wss://ws.luno.com/api/1/stream/{pair},
// sends its credentials as the first frame, and receives a full order book
// snapshot followed by sequenced updates. Empty frames are keep-alives and
// flow in both directions. A gap in the sequence means state was lost, and
// the only recovery is to reconnect and take a fresh snapshot.
package streaming

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/veiloq/bitx-connector/pkg/bitx"
	"github.com/veiloq/bitx-connector/pkg/logging"
)

// DefaultURL is the production streaming API base. The pair is appended as
// a path segment.
const DefaultURL = "wss://ws.luno.com/api/1/stream"

// Config holds connection configuration for a streaming Conn.
type Config struct {
	// URL overrides DefaultURL, mainly for tests.
	URL string

	// HeartbeatInterval is how often keep-alive frames are sent. The read
	// deadline is three times this interval.
	HeartbeatInterval time.Duration

	// ReconnectInterval is the pause between reconnection attempts.
	ReconnectInterval time.Duration

	// MaxRetries bounds consecutive failed connection attempts.
	MaxRetries int

	Logger logging.Logger
}

// UpdateHandler is called for every update applied to the book. Handlers
// run on the read loop; they must not block.
type UpdateHandler func(Update)

// TradeUpdate reports a fill against a resting order.
type TradeUpdate struct {
	Base         decimal.Decimal `json:"base"`
	Counter      decimal.Decimal `json:"counter"`
	MakerOrderID string          `json:"maker_order_id"`
	TakerOrderID string          `json:"taker_order_id"`

	// OrderID duplicates MakerOrderID on current servers; older servers
	// only send this field.
	OrderID string `json:"order_id"`
}

func (t TradeUpdate) makerID() string {
	if t.MakerOrderID != "" {
		return t.MakerOrderID
	}
	return t.OrderID
}

// CreateUpdate reports a new resting order entering the book.
type CreateUpdate struct {
	OrderID string          `json:"order_id"`
	Type    bitx.OrderType  `json:"type"`
	Price   decimal.Decimal `json:"price"`
	Volume  decimal.Decimal `json:"volume"`
}

// DeleteUpdate reports an order leaving the book.
type DeleteUpdate struct {
	OrderID string `json:"order_id"`
}

// StatusUpdate reports a change in market status.
type StatusUpdate struct {
	Status string `json:"status"`
}

// Update is one sequenced message from the stream.
type Update struct {
	Sequence     int64         `json:"sequence,string"`
	TradeUpdates []TradeUpdate `json:"trade_updates"`
	CreateUpdate *CreateUpdate `json:"create_update"`
	DeleteUpdate *DeleteUpdate `json:"delete_update"`
	StatusUpdate *StatusUpdate `json:"status_update"`
	Timestamp    bitx.Time     `json:"timestamp"`
}

type snapshotEntry struct {
	ID     string          `json:"id"`
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

type snapshot struct {
	Sequence  int64           `json:"sequence,string"`
	Asks      []snapshotEntry `json:"asks"`
	Bids      []snapshotEntry `json:"bids"`
	Timestamp bitx.Time       `json:"timestamp"`
}

type restingOrder struct {
	orderType bitx.OrderType
	price     decimal.Decimal
	volume    decimal.Decimal
}

// Conn is a live connection to the stream for one pair. It is safe for
// concurrent use.
type Conn struct {
	pair   bitx.Pair
	creds  bitx.Credential
	config Config
	logger logging.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu       sync.RWMutex
	orders   map[string]restingOrder
	seq      int64
	synced   bool
	lastSeen bitx.Time

	handlerMu sync.RWMutex
	handler   UpdateHandler

	done   chan struct{}
	doneMu sync.Mutex
	closed bool
}

// Dial connects to the stream for pair, authenticates, and starts the read
// loop. The connection keeps itself alive and reconnects on failure until
// Close is called or ctx is cancelled.
func Dial(ctx context.Context, pair bitx.Pair, creds bitx.Credential, config Config) (*Conn, error) {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.HeartbeatInterval == 0 {
		config.HeartbeatInterval = 20 * time.Second
	}
	if config.ReconnectInterval == 0 {
		config.ReconnectInterval = 5 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	c := &Conn{
		pair:   pair,
		creds:  creds,
		config: config,
		logger: logger.WithFields(logging.String("pair", pair.String())),
		done:   make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// OnUpdate registers the handler called after each update is applied.
func (c *Conn) OnUpdate(handler UpdateHandler) {
	c.handlerMu.Lock()
	c.handler = handler
	c.handlerMu.Unlock()
}

// OrderBook returns the current aggregated book: one entry per price level,
// bids descending and asks ascending. It returns false until the initial
// snapshot has been received.
func (c *Conn) OrderBook() (bitx.OrderBook, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.synced {
		return bitx.OrderBook{}, false
	}

	bidLevels := map[string]*bitx.OrderBookEntry{}
	askLevels := map[string]*bitx.OrderBookEntry{}
	for _, o := range c.orders {
		levels := bidLevels
		if o.orderType == bitx.ASK {
			levels = askLevels
		}
		key := o.price.String()
		if entry, ok := levels[key]; ok {
			entry.Volume = entry.Volume.Add(o.volume)
		} else {
			levels[key] = &bitx.OrderBookEntry{Price: o.price, Volume: o.volume}
		}
	}

	book := bitx.OrderBook{Timestamp: c.lastSeen}
	for _, entry := range bidLevels {
		book.Bids = append(book.Bids, *entry)
	}
	for _, entry := range askLevels {
		book.Asks = append(book.Asks, *entry)
	}
	sort.Slice(book.Bids, func(i, j int) bool {
		return book.Bids[i].Price.GreaterThan(book.Bids[j].Price)
	})
	sort.Slice(book.Asks, func(i, j int) bool {
		return book.Asks[i].Price.LessThan(book.Asks[j].Price)
	})
	return book, true
}

// Close terminates the connection and stops the read loop.
func (c *Conn) Close() error {
	c.doneMu.Lock()
	if c.closed {
		c.doneMu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.doneMu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}

func (c *Conn) isClosed() bool {
	c.doneMu.Lock()
	defer c.doneMu.Unlock()
	return c.closed
}

// connect dials, authenticates, and reads the initial snapshot, retrying up
// to MaxRetries times.
func (c *Conn) connect(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := c.dialOnce(ctx)
		if err != nil {
			lastErr = err
			c.logger.Warn("stream connection attempt failed",
				logging.Int("attempt", attempt),
				logging.Error(err),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.done:
				return fmt.Errorf("stream closed")
			case <-time.After(c.config.ReconnectInterval):
				continue
			}
		}

		c.writeMu.Lock()
		c.conn = conn
		c.writeMu.Unlock()

		go c.readLoop(ctx, conn)
		go c.keepAlive(conn)

		c.logger.Info("stream connected")
		return nil
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// dialOnce performs one handshake: dial, send credentials, apply the
// snapshot frame.
func (c *Conn) dialOnce(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.config.URL+"/"+c.pair.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial stream: %w", err)
	}

	creds := struct {
		APIKeyID     string `json:"api_key_id"`
		APIKeySecret string `json:"api_key_secret"`
	}{c.creds.KeyID, c.creds.Secret}
	if err := conn.WriteJSON(creds); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send credentials: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.config.HeartbeatInterval * 3))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(frame, &snap); err != nil {
		conn.Close()
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	c.applySnapshot(snap)
	return conn, nil
}

func (c *Conn) applySnapshot(snap snapshot) {
	orders := make(map[string]restingOrder, len(snap.Bids)+len(snap.Asks))
	for _, e := range snap.Bids {
		orders[e.ID] = restingOrder{orderType: bitx.BID, price: e.Price, volume: e.Volume}
	}
	for _, e := range snap.Asks {
		orders[e.ID] = restingOrder{orderType: bitx.ASK, price: e.Price, volume: e.Volume}
	}

	c.mu.Lock()
	c.orders = orders
	c.seq = snap.Sequence
	c.synced = true
	c.lastSeen = snap.Timestamp
	c.mu.Unlock()
}

// readLoop consumes frames until the connection fails or Close is called.
// On failure it resyncs with a fresh connection.
func (c *Conn) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		conn.Close()
		c.mu.Lock()
		c.synced = false
		c.mu.Unlock()

		if !c.isClosed() && ctx.Err() == nil {
			c.logger.Info("stream lost, resyncing")
			if err := c.connect(ctx); err != nil {
				c.logger.Error("stream resync failed", logging.Error(err))
			}
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(c.config.HeartbeatInterval * 3))
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if !c.isClosed() {
				c.logger.Warn("stream read error", logging.Error(err))
			}
			return
		}

		// Keep-alive.
		if len(frame) == 0 || string(frame) == `""` {
			continue
		}

		var update Update
		if err := json.Unmarshal(frame, &update); err != nil {
			c.logger.Warn("unparseable stream frame", logging.Error(err))
			continue
		}

		if !c.applyUpdate(update) {
			// Sequence gap: the book can no longer be trusted.
			c.logger.Warn("sequence gap, forcing resync",
				logging.Int("expected", int(c.seq+1)),
				logging.Int("got", int(update.Sequence)),
			)
			return
		}

		c.handlerMu.RLock()
		handler := c.handler
		c.handlerMu.RUnlock()
		if handler != nil {
			handler(update)
		}
	}
}

// applyUpdate applies one sequenced update to the book. It reports false on
// a sequence gap.
func (c *Conn) applyUpdate(update Update) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if update.Sequence != c.seq+1 {
		return false
	}
	c.seq = update.Sequence
	c.lastSeen = update.Timestamp

	for _, trade := range update.TradeUpdates {
		id := trade.makerID()
		order, ok := c.orders[id]
		if !ok {
			continue
		}
		order.volume = order.volume.Sub(trade.Base)
		if order.volume.Sign() <= 0 {
			delete(c.orders, id)
		} else {
			c.orders[id] = order
		}
	}

	if cu := update.CreateUpdate; cu != nil {
		c.orders[cu.OrderID] = restingOrder{
			orderType: cu.Type,
			price:     cu.Price,
			volume:    cu.Volume,
		}
	}

	if du := update.DeleteUpdate; du != nil {
		delete(c.orders, du.OrderID)
	}

	return true
}

// keepAlive sends empty frames so the server keeps the connection open.
func (c *Conn) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, []byte(""))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
