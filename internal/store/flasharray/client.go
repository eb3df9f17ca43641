// Package flasharray is a minimal Pure Storage FlashArray REST client
// covering the host registry operations the reconciler needs.
package flasharray

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zabuzafr/lparsync/internal/config"
	"github.com/zabuzafr/lparsync/internal/identity"
	"github.com/zabuzafr/lparsync/internal/model"
)

// Client talks to one FlashArray management endpoint. Authentication is a
// session cookie obtained from an API token; a username/password credential
// is first exchanged for a token.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	logger  *logrus.Entry
}

// New opens a session against the array.
func New(ctx context.Context, opts *config.ArrayOptions, logger *logrus.Entry) (*Client, error) {
	cred, err := opts.Credential()
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(ErrSession, err.Error())
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !opts.VerifySSL, // nolint:gosec // operator opted out of verification.
	}

	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.RetryMax = 3
	httpClient.HTTPClient.Timeout = opts.RequestTimeout
	httpClient.HTTPClient.Transport = otelhttp.NewTransport(transport)
	httpClient.HTTPClient.Jar = jar

	endpoint := opts.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	client := &Client{
		baseURL: fmt.Sprintf("%s/api/%s", endpoint, apiVersion),
		http:    httpClient,
		logger:  logger,
	}

	if err := client.startSession(ctx, cred); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) startSession(ctx context.Context, cred config.Credential) error {
	token := cred.Token

	if cred.Kind == config.CredentialUserPassword {
		var resp struct {
			APIToken string `json:"api_token"`
		}

		err := c.do(ctx, http.MethodPost, apiTokenPath, map[string]string{
			"username": cred.User,
			"password": cred.Password,
		}, &resp)
		if err != nil {
			return errors.Wrap(ErrSession, err.Error())
		}

		token = resp.APIToken
	}

	err := c.do(ctx, http.MethodPost, sessionPath, map[string]string{
		"api_token": token,
	}, nil)
	if err != nil {
		return errors.Wrap(ErrSession, err.Error())
	}

	c.logger.Debug("array session established")

	return nil
}

// hostResponse is the subset of the host resource the reconciler reads.
type hostResponse struct {
	Name string   `json:"name"`
	WWNs []string `json:"wwn"`
}

func (h *hostResponse) record() *model.HostRecord {
	rec := &model.HostRecord{Name: h.Name}

	// The array reports WWNs as bare hex; canonicalize so they compare
	// against inventory identifiers.
	for _, wwn := range h.WWNs {
		rec.WWPNs = append(rec.WWPNs, identity.NormalizeWWPN(wwn).String())
	}

	return rec
}

// GetHost returns the host record, or model.ErrHostNotFound when the array
// has no host by that name.
func (c *Client) GetHost(ctx context.Context, name string) (*model.HostRecord, error) {
	var resp hostResponse

	err := c.do(ctx, http.MethodGet, hostPath+name, nil, &resp)
	if err != nil {
		if errors.Is(err, model.ErrHostNotFound) {
			return nil, model.ErrHostNotFound
		}

		return nil, err
	}

	return resp.record(), nil
}

// CreateHost creates an empty host record.
func (c *Client) CreateHost(ctx context.Context, name string) (*model.HostRecord, error) {
	var resp hostResponse

	if err := c.do(ctx, http.MethodPost, hostPath+name, struct{}{}, &resp); err != nil {
		return nil, err
	}

	return resp.record(), nil
}

// AddWWPNs appends wwpns to the host's port list. The request carries only
// an addwwnlist, so existing ports are never replaced or removed.
func (c *Client) AddWWPNs(ctx context.Context, name string, wwpns []string) error {
	return c.do(ctx, http.MethodPut, hostPath+name, map[string][]string{
		"addwwnlist": wwpns,
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(ErrRequest, err.Error())
		}

		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return errors.Wrap(ErrRequest, err.Error())
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(ErrRequest, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))

		// The 1.x API answers 400 with a "does not exist" message for
		// unknown hosts rather than a 404.
		if method == http.MethodGet &&
			(res.StatusCode == http.StatusBadRequest || res.StatusCode == http.StatusNotFound) {
			return errors.Wrap(model.ErrHostNotFound, string(msg))
		}

		return errors.Wrapf(ErrResponseStatus, "%s %s: %d %s", method, path, res.StatusCode, msg)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(ErrResponseDecode, err.Error())
	}

	return nil
}
