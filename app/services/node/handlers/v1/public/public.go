// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/readiness"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log        *zap.SugaredLogger
	State      *state.State
	WS         websocket.Upgrader
	Evts       *events.Events
	Thresholds readiness.Thresholds
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The upgrade already wrote the response.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTx database.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(signedTx); err != nil {
		return err
	}

	h.Log.Infow("add user tran", "traceid", v.TraceID, "from", signedTx.From, "nonce", signedTx.Nonce, "to", signedTx.To, "amount", signedTx.Amount, "fee", signedTx.Fee)
	if err := h.State.SubmitTransaction(signedTx); err != nil {
		return errs.NewTrusted(err, submitStatus(err))
	}

	resp := struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}{
		Status: "transaction added to mempool",
		ID:     signedTx.ID(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the full chain from genesis.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.Blocks()

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Validate walks the full chain and reports the outcome.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.ValidationReport(), http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := web.Param(r, "address")

	var trans []tx
	for _, tran := range h.State.Mempool() {
		if addr != "" && addr != tran.From && addr != tran.To {
			continue
		}
		trans = append(trans, toTx(tran))
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Balances returns the current balances for all wallets or the one
// specified.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var bals []balance

	switch addr := web.Param(r, "address"); addr {
	case "":
		for addr, bal := range h.State.Balances() {
			bals = append(bals, balance{Address: addr, Balance: bal})
		}
		slices.SortFunc(bals, func(a, b balance) int {
			return strings.Compare(a.Address, b.Address)
		})

	default:
		info, err := h.State.Wallet(addr)
		if err != nil {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		bals = append(bals, balance{Address: info.Address, Balance: info.Balance, Nonce: info.Nonce})
	}

	resp := balances{
		LatestBlock: h.State.LatestBlock().Hash,
		Uncommitted: h.State.MempoolSize(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Readiness reports whether the node is fit for development use. Pass
// format=markdown for the human readable report.
func (h Handlers) Readiness(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	report := h.State.Readiness(h.Thresholds)

	if r.URL.Query().Get("format") == "markdown" {
		return web.RespondText(ctx, w, "text/markdown; charset=utf-8", report.Markdown(), http.StatusOK)
	}

	return web.Respond(ctx, w, report, http.StatusOK)
}

// SignalForge asks the worker to forge a block from the mempool.
func (h Handlers) SignalForge(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.NewTrusted(errors.New("forging is not running on this node"), http.StatusServiceUnavailable)
	}

	h.State.Worker.SignalForge()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "forge signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// =============================================================================

// submitStatus maps a rejected submission onto a status code.
func submitStatus(err error) int {
	switch {
	case errors.Is(err, state.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, mempool.ErrDuplicateTransaction):
		return http.StatusConflict
	case errors.Is(err, mempool.ErrPoolFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	}

	return http.StatusBadRequest
}
