// Package orders accepts purchase orders: it reserves stock, posts the sale
// to the ledger and hands the result to persistence and notification.
package orders

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/model"
)

// AccountNames are the ledger accounts a sale is posted to.
type AccountNames struct {
	Cash      string
	Revenue   string
	COGS      string
	Inventory string
}

// DefaultAccountNames matches the default chart of accounts.
func DefaultAccountNames() AccountNames {
	return AccountNames{
		Cash:      "Cash",
		Revenue:   "Sales Revenue",
		COGS:      "Cost of Goods Sold",
		Inventory: "Inventory",
	}
}

// Processor runs the order workflow against one ledger and inventory.
type Processor struct {
	ledger    *ledger.Ledger
	inventory Inventory
	store     Store
	publisher Publisher
	log       logrus.FieldLogger
	now       func() time.Time
	accounts  AccountNames
}

// Option configures a Processor.
type Option func(*Processor)

// WithStore persists every completed order.
func WithStore(s Store) Option {
	return func(p *Processor) { p.store = s }
}

// WithPublisher announces every completed order.
func WithPublisher(pub Publisher) Option {
	return func(p *Processor) { p.publisher = pub }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Processor) { p.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

func WithAccountNames(names AccountNames) Option {
	return func(p *Processor) { p.accounts = names }
}

// NewProcessor creates a Processor. Without options it neither persists nor
// publishes, and logs nowhere.
func NewProcessor(l *ledger.Ledger, inv Inventory, opts ...Option) *Processor {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Processor{
		ledger:    l,
		inventory: inv,
		log:       discard,
		now:       time.Now,
		accounts:  DefaultAccountNames(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type demand struct {
	productID string
	qty       int
}

// Accept runs req through the workflow. Any failure before the ledger commit
// leaves stock and balances as they were.
func (p *Processor) Accept(ctx context.Context, req Request) Result {
	order := &Order{State: Validating}
	log := p.log.WithField("customer_id", req.CustomerID)

	if err := validate(req); err != nil {
		return p.fail(log, order, err)
	}
	wanted, err := aggregate(req.Items)
	if err != nil {
		return p.fail(log, order, err)
	}
	p.build(log, order, req)
	log = log.WithField("order_id", order.ID)

	p.transition(log, order, StockChecking)
	for _, d := range wanted {
		if !p.inventory.CheckStock(d.productID, d.qty) {
			return p.fail(log, order, fmt.Errorf("%w for product %s: requested %d", ErrInsufficientStock, d.productID, d.qty))
		}
	}

	p.transition(log, order, StockReserved)
	if err := p.reserve(log, wanted); err != nil {
		return p.fail(log, order, err)
	}

	p.transition(log, order, Posting)
	entries, err := p.post(order)
	if err != nil {
		p.release(log, wanted)
		return p.fail(log, order, fmt.Errorf("recording journal entries: %w", err))
	}
	for _, e := range entries {
		order.EntryIDs = append(order.EntryIDs, e.ID())
	}

	if p.store != nil {
		p.transition(log, order, Persisting)
		if err := p.persist(ctx, order, entries); err != nil {
			return p.fail(log, order, fmt.Errorf("%w: %w", ErrPersistence, err))
		}
	}

	p.transition(log, order, Completed)
	p.notify(ctx, log, order)
	log.WithFields(logrus.Fields{
		"total": order.Total().StringFixed(2),
		"cogs":  order.COGS().StringFixed(2),
	}).Info("purchase order accepted")

	return Result{
		Status:   StatusSuccess,
		Message:  "Purchase order accepted.",
		OrderID:  order.ID,
		Total:    order.Total(),
		COGS:     order.COGS(),
		EntryIDs: order.EntryIDs,
		State:    Completed,
		FailedIn: Completed,
	}
}

func validate(req Request) error {
	if strings.TrimSpace(req.CustomerID) == "" {
		return orderError("customer_id", "is required")
	}
	if len(req.Items) == 0 {
		return orderError("items", "must contain at least one item")
	}
	for i, it := range req.Items {
		switch {
		case strings.TrimSpace(it.ProductID) == "":
			return itemError(i, "product_id", "is required")
		case it.Quantity <= 0:
			return itemError(i, "quantity", "must be a positive integer")
		case !it.UnitPrice.Valid:
			return itemError(i, "unit_price", "is required")
		case it.UnitPrice.Decimal.IsNegative():
			return itemError(i, "unit_price", "must be non-negative")
		}
	}
	return nil
}

func (p *Processor) build(log logrus.FieldLogger, order *Order, req Request) {
	order.ID = id.New()
	order.CustomerID = req.CustomerID
	order.CustomerName = req.CustomerName
	order.ShippingAddress = req.ShippingAddress
	order.Date = p.orderDate(log, req.OrderDate)

	order.Items = make([]OrderItem, len(req.Items))
	for i, it := range req.Items {
		cost, ok := p.inventory.Cost(it.ProductID)
		if !ok {
			log.WithField("product_id", it.ProductID).Warn("cost price not found, COGS will be 0 for this item")
			cost = decimal.Zero
		}
		order.Items[i] = OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.Decimal,
			UnitCost:  cost,
		}
	}
}

// orderDate parses a YYYY-MM-DD date; anything else means today.
func (p *Processor) orderDate(log logrus.FieldLogger, s string) time.Time {
	if s != "" {
		d, err := time.Parse(DateLayout, s)
		if err == nil {
			return d
		}
		log.WithField("order_date", s).Warn("unparsable order date, using today")
	}
	y, m, d := p.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// aggregate sums quantities per product in first-seen order. A sum that
// would overflow int is a validation error on the item that tips it over.
func aggregate(items []Item) ([]demand, error) {
	index := make(map[string]int)
	var out []demand
	for n, it := range items {
		i, ok := index[it.ProductID]
		if !ok {
			index[it.ProductID] = len(out)
			out = append(out, demand{productID: it.ProductID, qty: it.Quantity})
			continue
		}
		if out[i].qty > math.MaxInt-it.Quantity {
			return nil, itemError(n, "quantity", "overflows the total for product "+it.ProductID)
		}
		out[i].qty += it.Quantity
	}
	return out, nil
}

func (p *Processor) reserve(log logrus.FieldLogger, wanted []demand) error {
	for i, d := range wanted {
		if err := p.inventory.UpdateStock(d.productID, -d.qty); err != nil {
			p.release(log, wanted[:i])
			return fmt.Errorf("reserving %s: %w", d.productID, err)
		}
	}
	return nil
}

// release puts reserved stock back.
func (p *Processor) release(log logrus.FieldLogger, reserved []demand) {
	for _, d := range reserved {
		if err := p.inventory.UpdateStock(d.productID, d.qty); err != nil {
			log.WithError(err).WithField("product_id", d.productID).Error("restoring reserved stock")
		}
	}
}

// post builds the sale entry and, when goods carry a cost, the COGS entry and
// commits them together.
func (p *Processor) post(order *Order) ([]*ledger.JournalEntry, error) {
	var entries []*ledger.JournalEntry

	if total := order.Total(); total.IsPositive() {
		sale, err := p.transfer(order.Date, fmt.Sprintf("Sale for order %s", order.ID),
			p.accounts.Cash, p.accounts.Revenue, total)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sale)
	}

	if cogs := order.COGS(); cogs.IsPositive() {
		cost, err := p.transfer(order.Date, fmt.Sprintf("Cost of goods sold for order %s", order.ID),
			p.accounts.COGS, p.accounts.Inventory, cogs)
		if err != nil {
			return nil, err
		}
		entries = append(entries, cost)
	}

	if len(entries) == 0 {
		return nil, nil
	}
	if err := p.ledger.RecordEntries(entries...); err != nil {
		return nil, err
	}
	return entries, nil
}

// transfer builds a two-line entry debiting one account and crediting another.
func (p *Processor) transfer(date time.Time, desc, debit, credit string, amount decimal.Decimal) (*ledger.JournalEntry, error) {
	dr, err := p.ledger.Account(debit)
	if err != nil {
		return nil, err
	}
	cr, err := p.ledger.Account(credit)
	if err != nil {
		return nil, err
	}

	e := ledger.NewJournalEntry(date, desc)
	if err := e.AddLine(dr, amount, ledger.Debit); err != nil {
		return nil, err
	}
	if err := e.AddLine(cr, amount, ledger.Credit); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Processor) persist(ctx context.Context, order *Order, entries []*ledger.JournalEntry) error {
	if err := p.store.SaveOrder(ctx, order.Record()); err != nil {
		return fmt.Errorf("saving order: %w", err)
	}

	records := make([]model.EntryRecord, len(entries))
	for i, e := range entries {
		records[i] = e.Record()
	}
	if len(records) > 0 {
		if err := p.store.SaveEntries(ctx, records); err != nil {
			return fmt.Errorf("saving journal entries: %w", err)
		}
	}

	accounts := p.ledger.AccountRecords()
	if err := p.store.SaveAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	return nil
}

func (p *Processor) notify(ctx context.Context, log logrus.FieldLogger, order *Order) {
	if p.publisher == nil {
		return
	}
	event := model.OrderCompleted{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total(),
		COGS:       order.COGS(),
		EntryIDs:   order.EntryIDs,
		OccurredAt: p.now(),
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("order confirmation not sent")
	}
}

func (p *Processor) transition(log logrus.FieldLogger, order *Order, next State) {
	log.WithFields(logrus.Fields{"from": order.State.String(), "to": next.String()}).Debug("order state")
	order.State = next
}

func (p *Processor) fail(log logrus.FieldLogger, order *Order, err error) Result {
	failedIn := order.State
	p.transition(log, order, Error)
	log.WithError(err).WithField("state", failedIn.String()).Warn("purchase order rejected")

	r := Result{
		Status:   StatusError,
		Message:  err.Error(),
		OrderID:  order.ID,
		EntryIDs: order.EntryIDs,
		State:    Error,
		FailedIn: failedIn,
		Err:      err,
	}
	if failedIn == Persisting {
		r.Total, r.COGS = order.Total(), order.COGS()
	}
	return r
}
