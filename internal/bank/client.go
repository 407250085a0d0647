// Package bank provides a client for the MB Bank retail web API.
package bank

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tdnguyendev/mbwatch/internal/model"
)

const (
	defaultBaseURL = "https://online.mbbank.com.vn/api"
	requestTimeout = 15 * time.Second
	maxBodySize    = 4 << 20 // 4 MB

	loginPath   = "/retail_web/internetbanking/doLogin"
	historyPath = "/retail-transactionms/transactionms/get-account-transaction-history"
	balancePath = "/retail_web/internetbanking/getBalance"

	wireDateFormat = "02/01/2006"
)

var (
	// ErrUnauthorized indicates the credentials were rejected or the
	// session expired.
	ErrUnauthorized = errors.New("bank: unauthorized (credentials rejected or session expired)")
	// ErrMaintenance indicates the bank API is temporarily unavailable.
	// Callers may retry; the client already retries a bounded number of
	// times before surfacing it.
	ErrMaintenance = errors.New("bank: service temporarily unavailable")
)

// Client talks to the MB Bank retail web API. It is not safe for concurrent
// use; the monitor loop is strictly sequential.
type Client struct {
	username  string
	password  string
	deviceID  string
	accountNo string
	sessionID string

	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given account credentials.
func NewClient(username, password string) (*Client, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("bank: username and password are required")
	}
	return &Client{
		username: username,
		password: password,
		deviceID: newDeviceID(),
		baseURL:  defaultBaseURL,
		http:     &http.Client{},
	}, nil
}

// Authenticate performs the login exchange and records the session ID and
// primary account number. Called lazily by the data operations.
func (c *Client) Authenticate(ctx context.Context) error {
	req := loginRequest{
		UserID:   c.username,
		Password: c.password,
		DeviceID: c.deviceID,
		RefNo:    c.newRefNo(),
	}

	var resp loginResponse
	if err := c.post(ctx, loginPath, req, &resp); err != nil {
		return err
	}
	if !resp.Result.Ok {
		if resp.Result.ResponseCode == "GW283" || resp.Result.ResponseCode == "GW200" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Result.Message)
		}
		return fmt.Errorf("bank: login failed (%s): %s", resp.Result.ResponseCode, resp.Result.Message)
	}
	if resp.SessionID == "" {
		return errors.New("bank: login returned no session")
	}

	c.sessionID = resp.SessionID
	if len(resp.Cust.AcctList) > 0 {
		c.accountNo = resp.Cust.AcctList[0].AcctNo
	}
	return nil
}

// TransactionHistory fetches transactions between from and to, newest first.
// Retries transient failures before surfacing an error.
func (c *Client) TransactionHistory(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	var resp historyResponse

	err := withRetry(ctx, func() error {
		if err := c.ensureSession(ctx); err != nil {
			return err
		}
		req := historyRequest{
			AccountNo: c.accountNo,
			FromDate:  from.Format(wireDateFormat),
			ToDate:    to.Format(wireDateFormat),
			SessionID: c.sessionID,
			RefNo:     c.newRefNo(),
			DeviceID:  c.deviceID,
		}
		resp = historyResponse{}
		if err := c.post(ctx, historyPath, req, &resp); err != nil {
			return err
		}
		return c.checkResult(resp.Result)
	})
	if err != nil {
		return nil, err
	}

	txs := make([]model.Transaction, 0, len(resp.TransactionHistoryList))
	for _, rec := range resp.TransactionHistoryList {
		txs = append(txs, model.Transaction{
			RefNo:           rec.RefNo,
			PostingDate:     rec.PostingDate,
			TransactionDate: rec.TransactionDate,
			CreditAmount:    parseAmount(rec.CreditAmount),
			DebitAmount:     parseAmount(rec.DebitAmount),
			Description:     rec.Description,
			Type:            rec.TransactionType,
		})
	}
	return txs, nil
}

// LatestTransaction returns the newest transaction in the range, or ok=false
// when the day has no history yet.
func (c *Client) LatestTransaction(ctx context.Context, from, to time.Time) (model.Transaction, bool, error) {
	txs, err := c.TransactionHistory(ctx, from, to)
	if err != nil {
		return model.Transaction{}, false, err
	}
	if len(txs) == 0 {
		return model.Transaction{}, false, nil
	}
	return txs[0], true, nil
}

// Balance fetches the current balances for all accounts.
func (c *Client) Balance(ctx context.Context) ([]model.Balance, error) {
	var resp balanceResponse

	err := withRetry(ctx, func() error {
		if err := c.ensureSession(ctx); err != nil {
			return err
		}
		req := balanceRequest{
			SessionID: c.sessionID,
			RefNo:     c.newRefNo(),
			DeviceID:  c.deviceID,
		}
		resp = balanceResponse{}
		if err := c.post(ctx, balancePath, req, &resp); err != nil {
			return err
		}
		return c.checkResult(resp.Result)
	})
	if err != nil {
		return nil, err
	}

	balances := make([]model.Balance, 0, len(resp.AcctListRes.AcctList))
	for _, acct := range resp.AcctListRes.AcctList {
		balances = append(balances, model.Balance{
			AccountNumber: acct.AcctNo,
			Name:          acct.AcctNm,
			Available:     parseAmount(acct.CurrentBalance),
			Currency:      acct.Currency,
		})
	}
	return balances, nil
}

func (c *Client) ensureSession(ctx context.Context) error {
	if c.sessionID != "" {
		return nil
	}
	return c.Authenticate(ctx)
}

// checkResult maps the API envelope onto client errors. A rejected session is
// cleared so the next attempt re-authenticates.
func (c *Client) checkResult(r result) error {
	if r.Ok {
		return nil
	}
	switch r.ResponseCode {
	case "GW485", "GW479": // session timeout codes
		c.sessionID = ""
		return fmt.Errorf("%w: %s", ErrUnauthorized, r.Message)
	case "GW282":
		return fmt.Errorf("%w: %s", ErrMaintenance, r.Message)
	}
	return fmt.Errorf("bank: request failed (%s): %s", r.ResponseCode, r.Message)
}

// post performs a JSON POST and decodes the response body into out.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bank: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("bank: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/tdnguyendev/mbwatch/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bank: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return ErrMaintenance
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bank: unexpected status %d", resp.StatusCode)
	}

	// During maintenance the gateway answers 200 with an HTML notice.
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "" && mt != "application/json" {
		return fmt.Errorf("%w: content type %s", ErrMaintenance, mt)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("bank: reading response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("bank: parsing response: %w", err)
	}
	return nil
}

// newRefNo builds the per-request reference the API expects.
func (c *Client) newRefNo() string {
	return fmt.Sprintf("%s-%s", strings.ToUpper(c.username), time.Now().Format("20060102150405"))
}

func newDeviceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// parseAmount converts a wire amount string into a decimal. The API sends
// empty strings for the unused side of a transaction.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "N/A" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
