package postgrest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CodeUniqueViolation Postgres 唯一约束冲突的 SQLSTATE
const CodeUniqueViolation = "23505"

const defaultTimeout = 10 * time.Second

// ErrNotConfigured 未配置托管服务地址或密钥
var ErrNotConfigured = errors.New("postgrest client not configured")

// Error 托管服务返回的错误体
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("postgrest: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("postgrest: status %d code %s: %s", e.Status, e.Code, e.Message)
}

// IsUniqueViolation 判断错误是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == CodeUniqueViolation
	}
	return false
}

// Options 客户端配置
type Options struct {
	BaseURL string
	APIKey  string
	Schema  string
	Timeout time.Duration
}

// Client 托管表 REST 客户端
type Client struct {
	http   *resty.Client
	schema string
	ready  bool
}

// New 创建客户端
// 不做自动重试，一次提交只发一次写入请求
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	apiKey := strings.TrimSpace(opts.APIKey)

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey)

	return &Client{
		http:   client,
		schema: strings.TrimSpace(opts.Schema),
		ready:  baseURL != "" && apiKey != "",
	}
}

// Configured 是否已配置地址与密钥
func (c *Client) Configured() bool {
	return c != nil && c.ready
}

// Insert 向指定表插入一行
// 2xx 视为成功；其余状态码解析为 *Error
func (c *Client) Insert(ctx context.Context, table string, row interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return errors.New("postgrest: empty table name")
	}

	apiErr := &Error{}
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(row).
		SetError(apiErr)
	if c.schema != "" && c.schema != "public" {
		req.SetHeader("Content-Profile", c.schema)
	}

	resp, err := req.Post("/rest/v1/" + url.PathEscape(table))
	if err != nil {
		return fmt.Errorf("postgrest insert %s: %w", table, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	apiErr.Status = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(resp.Body()))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}
