// Package rpcclient is an HTTP client for the uPow node REST API.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	klog "github.com/upow-network/upow-wallet/internal/log"
	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// ErrQueryFailed is returned for every failed node call: transport
// errors, bad status codes, undecodable bodies and ok:false replies.
var ErrQueryFailed = errors.New("node query failed")

// NodeError is returned when the node answers with an error message.
type NodeError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *NodeError) Error() string {
	if e.Status != 0 && e.Status != http.StatusOK {
		return fmt.Sprintf("node error on %s (status %d): %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("node error on %s: %s", e.Endpoint, e.Message)
}

// Unwrap lets errors.Is match ErrQueryFailed.
func (e *NodeError) Unwrap() error { return ErrQueryFailed }

// Options tunes the client.
type Options struct {
	Timeout time.Duration
	// RateLimit is the maximum number of requests per second, 0 for none.
	RateLimit int
	// BreakerRequests is the minimum request count before the breaker may trip.
	BreakerRequests uint32
	// BreakerRatio is the failure ratio that trips the breaker.
	BreakerRatio float64
	// CacheTTL is how long ballot and inode lists are cached, 0 to disable.
	CacheTTL time.Duration
}

// DefaultOptions returns the options used by New when none are given.
func DefaultOptions() Options {
	return Options{
		Timeout:         10 * time.Second,
		RateLimit:       10,
		BreakerRequests: 20,
		BreakerRatio:    0.6,
		CacheTTL:        10 * time.Second,
	}
}

// Client talks to a uPow node.
type Client struct {
	endpoint string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	limiter  ratelimit.Limiter
	cache    *cache.Cache
	log      zerolog.Logger
}

// New creates a client for the node at endpoint.
func New(endpoint string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: opts.Timeout},
		log:      klog.RPC,
	}
	if opts.RateLimit > 0 {
		c.limiter = ratelimit.New(opts.RateLimit)
	} else {
		c.limiter = ratelimit.NewUnlimited()
	}
	if opts.CacheTTL > 0 {
		c.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	c.breaker = newCircuitBreaker(opts.BreakerRequests, opts.BreakerRatio, c.log)
	return c
}

func newCircuitBreaker(minRequests uint32, ratio float64, log zerolog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "node",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if minRequests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Warn().Str("breaker", name).Msg("node seems down, stop allowing requests")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				log.Info().Str("breaker", name).Msg("checking node status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				log.Info().Str("breaker", name).Msg("node seems ok, restart allowing requests")
			}
		},
	})
}

// envelope is the node's response wrapper.
type envelope struct {
	OK     *bool           `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type httpReply struct {
	status int
	body   []byte
}

// get calls a node endpoint and decodes the result into out. Some
// endpoints answer with a bare JSON array instead of an envelope; both
// are accepted.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.endpoint + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	// Take blocks without a context; a call cancelled while waiting must
	// not reach the node or count against the breaker.
	c.limiter.Take()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrQueryFailed, path, err)
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return &httpReply{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("node request failed")
		return fmt.Errorf("%w: %s: %v", ErrQueryFailed, path, err)
	}
	reply := res.(*httpReply)

	body := bytes.TrimSpace(reply.body)
	if len(body) > 0 && body[0] == '[' && reply.status == http.StatusOK {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: %s: decode result: %v", ErrQueryFailed, path, err)
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if reply.status != http.StatusOK {
			return &NodeError{Endpoint: path, Status: reply.status, Message: http.StatusText(reply.status)}
		}
		return fmt.Errorf("%w: %s: decode response: %v", ErrQueryFailed, path, err)
	}
	if reply.status != http.StatusOK || (env.OK != nil && !*env.OK) {
		msg := env.Error
		if msg == "" {
			msg = "request rejected"
		}
		return &NodeError{Endpoint: path, Status: reply.status, Message: msg}
	}
	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: %s: decode result: %v", ErrQueryFailed, path, err)
	}
	return nil
}

// cached serves a list endpoint through the TTL cache.
func (c *Client) cached(path string, params url.Values, fetch func() (interface{}, error)) (interface{}, error) {
	key := path + "?" + params.Encode()
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.SetDefault(key, v)
	}
	return v, nil
}

// AddressInfo fetches balance, outputs and pending transactions of address.
func (c *Client) AddressInfo(ctx context.Context, address string, flags AddressInfoFlags) (*AddressInfo, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("transactions_count_limit", "0")
	params.Set("show_pending", "true")
	params.Set("stake_outputs", strconv.FormatBool(flags.StakeOutputs))
	params.Set("delegate_spent_votes", strconv.FormatBool(flags.DelegateSpentVotes))
	params.Set("delegate_unspent_votes", strconv.FormatBool(flags.DelegateUnspentVotes))
	params.Set("address_state", strconv.FormatBool(flags.AddressState))
	params.Set("inode_registration_outputs", strconv.FormatBool(flags.InodeRegistrationOutputs))
	params.Set("validator_unspent_votes", strconv.FormatBool(flags.ValidatorUnspentVotes))

	var info AddressInfo
	if err := c.get(ctx, "/get_address_info", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ValidatorsInfo returns validator ballots, optionally only those voting for inode.
func (c *Client) ValidatorsInfo(ctx context.Context, inode string) ([]ValidatorBallot, error) {
	params := url.Values{}
	if inode != "" {
		params.Set("inode", inode)
	}
	v, err := c.cached("/get_validators_info", params, func() (interface{}, error) {
		var ballots []ValidatorBallot
		err := c.get(ctx, "/get_validators_info", params, &ballots)
		return ballots, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]ValidatorBallot), nil
}

// DelegatesInfo returns delegate ballots, optionally only those voting for validator.
func (c *Client) DelegatesInfo(ctx context.Context, validator string) ([]DelegateBallot, error) {
	params := url.Values{}
	if validator != "" {
		params.Set("validator", validator)
	}
	v, err := c.cached("/get_delegates_info", params, func() (interface{}, error) {
		var ballots []DelegateBallot
		err := c.get(ctx, "/get_delegates_info", params, &ballots)
		return ballots, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]DelegateBallot), nil
}

// DobbyInfo returns the active inodes.
func (c *Client) DobbyInfo(ctx context.Context) ([]DobbyEntry, error) {
	v, err := c.cached("/dobby_info", nil, func() (interface{}, error) {
		var entries []DobbyEntry
		err := c.get(ctx, "/dobby_info", nil, &entries)
		return entries, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]DobbyEntry), nil
}

// GetTransaction fetches a transaction by hash.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*TransactionInfo, error) {
	params := url.Values{}
	params.Set("tx_hash", hash)
	var info TransactionInfo
	if err := c.get(ctx, "/get_transaction", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// TransactionInfo resolves a prior transaction for input verification.
// It implements tx.Resolver.
func (c *Client) TransactionInfo(ctx context.Context, hash types.Hash) (*tx.PrevTxInfo, error) {
	info, err := c.GetTransaction(ctx, hash.String())
	if err != nil {
		return nil, err
	}
	amounts := make([]decimal.Decimal, len(info.OutputsAmounts))
	for i, a := range info.OutputsAmounts {
		amounts[i] = types.FromSmallest(a)
	}
	return &tx.PrevTxInfo{
		InputAddresses:  info.InputsAddresses,
		OutputAddresses: info.OutputsAddresses,
		OutputAmounts:   amounts,
	}, nil
}

// PushTx submits a hex-encoded signed transaction.
func (c *Client) PushTx(ctx context.Context, txHex string) error {
	params := url.Values{}
	params.Set("tx_hex", txHex)
	if err := c.get(ctx, "/push_tx", params, nil); err != nil {
		return err
	}
	c.log.Info().Str("size", strconv.Itoa(len(txHex)/2)).Msg("transaction pushed")
	return nil
}
