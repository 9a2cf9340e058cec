package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"smsnotify/internal/config"
	"smsnotify/internal/secret"

	"github.com/google/uuid"
	"github.com/useinsider/go-pkg/inslogger"
)

// Gateway operations; the operation is appended to the base URI.
const (
	OperationSend        = "send"
	OperationSubscribe   = "subscribe"
	OperationUnsubscribe = "unsubscribe"
)

var (
	// ErrNoOperation means Execute was called before Configure.
	ErrNoOperation = errors.New("gateway: no operation defined")
	// ErrDisabled means the module is switched off at the resolved scope.
	// The check runs at execute time because enablement is scope-dependent.
	ErrDisabled = errors.New("gateway: module is not enabled")
	// ErrMissingCredentials means the api user or password is not configured.
	ErrMissingCredentials = errors.New("gateway: api credentials are not configured")
)

// Settings is the immutable per-request snapshot of everything the client
// needs from configuration. It is passed by value; nothing in it is looked
// up behind the caller's back.
type Settings struct {
	Enabled            bool
	LoggingEnabled     bool
	OptinRequired      bool
	SendWelcomeMessage bool
	APIUser            string
	APIPassword        string // encrypted at rest
	EncryptionKey      string
	PlatformID         string
	PlatformPartnerID  string
	GateID             string
	SourceType         string
	Source             string
	BaseURI            string
	Timeout            time.Duration
}

// SettingsFromConfig snapshots the gateway section of the application
// configuration.
func SettingsFromConfig(cfg config.GatewayConfig) Settings {
	return Settings{
		Enabled:            cfg.Enabled,
		LoggingEnabled:     cfg.LoggingEnabled,
		OptinRequired:      cfg.OptinRequired,
		SendWelcomeMessage: cfg.SendWelcomeMessage,
		APIUser:            cfg.APIUser,
		APIPassword:        cfg.APIPassword,
		EncryptionKey:      cfg.EncryptionKey,
		PlatformID:         cfg.PlatformID,
		PlatformPartnerID:  cfg.PlatformPartnerID,
		GateID:             cfg.GateID,
		SourceType:         cfg.SourceType,
		Source:             cfg.Source,
		BaseURI:            cfg.BaseURI,
		Timeout:            cfg.Timeout,
	}
}

// Response is the raw gateway reply. The client does not interpret
// gateway-specific status codes; that is left to the caller.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs exactly one request-response cycle per Execute call
// against the messaging gateway: no retries, at most one delivery attempt
// per invocation. The underlying http.Client is built lazily on first use
// and reused across calls.
type Client struct {
	logger    inslogger.Interface
	operation string
	verb      string
	service   *http.Client
}

func NewClient(logger inslogger.Interface) *Client {
	return &Client{
		logger: logger,
		verb:   http.MethodPost,
	}
}

// Configure sets the target operation and HTTP verb for subsequent Execute
// calls. An empty verb keeps the default POST.
func (c *Client) Configure(operation, verb string) {
	c.operation = operation
	if verb != "" {
		c.verb = verb
	}
}

// Execute sends one request carrying the given body fields merged with the
// platform credentials from settings. It fails before any network I/O when
// no operation is configured, the module is disabled, or credentials are
// missing.
func (c *Client) Execute(ctx context.Context, settings Settings, fields map[string]string) (*Response, error) {
	if c.operation == "" {
		return nil, ErrNoOperation
	}
	if !settings.Enabled {
		return nil, ErrDisabled
	}
	if settings.APIUser == "" || settings.APIPassword == "" {
		return nil, ErrMissingCredentials
	}

	body := make(map[string]string, len(fields)+2)
	for name, value := range fields {
		body[name] = value
	}
	if settings.PlatformID != "" {
		body[FieldPlatformID] = settings.PlatformID
	}
	if settings.PlatformPartnerID != "" {
		body[FieldPlatformPartnerID] = settings.PlatformPartnerID
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gateway: marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, c.verb, settings.BaseURI+c.operation, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("content-type", "application/json")

	// The password rests encrypted and lives decrypted only inside this
	// frame. It is never logged.
	password, err := secret.Decrypt(settings.EncryptionKey, settings.APIPassword)
	if err != nil {
		return nil, fmt.Errorf("gateway: decrypting api password: %w", err)
	}
	req.SetBasicAuth(settings.APIUser, password)

	if settings.LoggingEnabled {
		c.logger.Logf(
			"dispatch %s: %s %s%s auth=basic body=%s",
			uuid.NewString(), c.verb, settings.BaseURI, c.operation, payload,
		)
	}

	resp, err := c.getService(settings).Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: reading response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func (c *Client) getService(settings Settings) *http.Client {
	if c.service == nil {
		c.service = &http.Client{Timeout: settings.Timeout}
	}
	return c.service
}
