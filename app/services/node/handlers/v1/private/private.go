// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Codecs returns the codecs this node can decode in preference order.
func (h Handlers) Codecs(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Version uint8    `json:"version"`
		Codecs  []string `json:"codecs"`
	}{
		Version: codec.Version,
		Codecs:  h.State.Codecs(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AcceptBlock takes a compressed block received from a peer, validates it
// and if that passes, adds the block to the local chain.
func (h Handlers) AcceptBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var cb codec.CompressedBlock
	if err := web.Decode(r, &cb); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(cb); err != nil {
		return err
	}

	block, err := h.State.AcceptPeerBlock(cb)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("block not accepted: %w", err), http.StatusNotAcceptable)
	}

	h.Log.Infow("accept block", "traceid", v.TraceID, "index", block.Header.Index, "codec", cb.Codec, "hash", block.Hash)

	resp := struct {
		Status string `json:"status"`
		Index  uint32 `json:"index"`
		Hash   string `json:"hash"`
	}{
		Status: "accepted",
		Index:  block.Header.Index,
		Hash:   block.Hash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlockTransport returns a stored block compressed with the codec negotiated
// against the codecs listed by the caller.
func (h Handlers) BlockTransport(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "number"), 10, 32)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	peerCodecs := h.State.Codecs()
	if q := r.URL.Query().Get("codecs"); q != "" {
		peerCodecs = strings.Split(q, ",")
	}

	cb, err := h.State.BlockForPeer(uint32(index), peerCodecs)
	if err != nil {
		switch {
		case errors.Is(err, chain.ErrNotFound):
			return errs.NewTrusted(err, http.StatusNotFound)
		case errors.Is(err, chain.ErrNoCommonCodec):
			return errs.NewTrusted(err, http.StatusNotAcceptable)
		}
		return err
	}

	return web.Respond(ctx, w, cb, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.LatestBlock()

	status := struct {
		LatestBlockHash  string   `json:"latest_block_hash"`
		LatestBlockIndex uint32   `json:"latest_block_index"`
		Uncommitted      int      `json:"uncommitted"`
		Codecs           []string `json:"codecs"`
	}{
		LatestBlockHash:  latestBlock.Hash,
		LatestBlockIndex: latestBlock.Header.Index,
		Uncommitted:      h.State.MempoolSize(),
		Codecs:           h.State.Codecs(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.Blocks()
	latest := uint64(len(blocks) - 1)

	from, err := number(web.Param(r, "from"), latest)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := number(web.Param(r, "to"), latest)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	if from > latest {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
	to = min(to, latest)

	out := make([]database.Block, 0, to-from+1)
	out = append(out, blocks[from:to+1]...)

	return web.Respond(ctx, w, out, http.StatusOK)
}

// number parses a block number where "latest" means the tip.
func number(s string, latest uint64) (uint64, error) {
	if s == "latest" || s == "" {
		return latest, nil
	}
	return strconv.ParseUint(s, 10, 32)
}
