package assemblyai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notedeck-be/pkg/transcription"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.assemblyai.com/v2"

type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

var _ transcription.Provider = &Client{}

func NewClient(apiKey string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(defaultBaseURL)
	client.SetHeader("authorization", apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

type transcriptRequest struct {
	AudioUrl string `json:"audio_url"`
}

type transcriptResponse struct {
	Id     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

func (c *Client) Submit(ctx context.Context, audioUrl string) (*transcription.Job, error) {
	var job *transcription.Job
	if err := retry.Do(
		func() error {
			result, err := c.submit(ctx, audioUrl)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			job = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return nil, err
	}
	return job, nil
}

func (c *Client) submit(ctx context.Context, audioUrl string) (*transcription.Job, error) {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(transcriptRequest{AudioUrl: audioUrl}).
		SetResult(&transcriptResponse{}).
		Post("/transcript")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	body := response.Result().(*transcriptResponse)
	if body == nil || body.Id == "" {
		return nil, fmt.Errorf("empty response body: %s", response.String())
	}
	return toJob(body), nil
}

func (c *Client) Poll(ctx context.Context, jobId string) (*transcription.Job, error) {
	var job *transcription.Job
	if err := retry.Do(
		func() error {
			result, err := c.poll(ctx, jobId)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			job = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return nil, err
	}
	return job, nil
}

func (c *Client) poll(ctx context.Context, jobId string) (*transcription.Job, error) {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&transcriptResponse{}).
		Get("/transcript/" + jobId)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	body := response.Result().(*transcriptResponse)
	if body == nil || body.Id == "" {
		return nil, fmt.Errorf("empty response body: %s", response.String())
	}
	return toJob(body), nil
}

func toJob(body *transcriptResponse) *transcription.Job {
	return &transcription.Job{
		Id:     body.Id,
		Status: transcription.Status(body.Status),
		Text:   body.Text,
		Error:  body.Error,
	}
}
