// Пакет helpspot — клиент API тикет-системы HelpSpot.
//
// Используется одна операция: private.request.create — создание заявки
// на удаление ошибочно отсканированного письма. API HelpSpot принимает
// form-POST с Basic-аутентификацией и отвечает XML.
package helpspot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ErrAuthFailed — HelpSpot отклонил учётные данные.
var ErrAuthFailed = errors.New("helpspot: ошибка аутентификации")

// Config — параметры подключения к HelpSpot.
type Config struct {
	// Endpoint — базовый адрес установки HelpSpot,
	// например https://helpdesk.example.com/helpspot
	Endpoint   string
	Username   string
	Password   string
	CategoryID string
}

// Client — клиент API HelpSpot.
type Client struct {
	httpClient *http.Client
}

// NewClient создаёт клиент HelpSpot.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Ответ HelpSpot — XML; полноценная схема не опубликована, поэтому
// нужные поля извлекаются по шаблонам.
var (
	requestIDPattern = regexp.MustCompile(`<xRequest>(\d+)</xRequest>`)
	errorDescPattern = regexp.MustCompile(`<description>([^<]+)</description>`)
	errorTagPattern  = regexp.MustCompile(`<error>`)
)

// CreateRemovalRequest создаёт в HelpSpot заявку на удаление письма.
// Возвращает номер созданной заявки.
func (c *Client) CreateRemovalRequest(ctx context.Context, cfg Config, requesterEmail, note string) (string, error) {
	apiURL, err := apiEndpoint(cfg.Endpoint)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("method", "private.request.create")
	form.Set("sEmail", requesterEmail)
	form.Set("sTitle", "Please remove outgoing letter")
	form.Set("tNote", note)
	form.Set("xCategory", cfg.CategoryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("helpspot: формирование запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cfg.Username, cfg.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("helpspot: запрос не выполнен: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("helpspot: чтение ответа: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrAuthFailed
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("helpspot: код ответа %d: %s", resp.StatusCode, extractError(body))
	}
	if errorTagPattern.Match(body) {
		return "", fmt.Errorf("helpspot: ошибка API: %s", extractError(body))
	}

	m := requestIDPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("helpspot: в ответе нет номера заявки")
	}
	return string(m[1]), nil
}

// apiEndpoint нормализует базовый адрес и добавляет путь API.
func apiEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", errors.New("helpspot: адрес не задан")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimRight(endpoint, "/") + "/api/index.php", nil
}

// extractError достаёт описание ошибки из XML-ответа.
func extractError(body []byte) string {
	if m := errorDescPattern.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
