package clientsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/dtos"
	"github.com/Californiachris/ServiceVault-Mobile-sub002/internal/models"
)

// IdentifierAPI is the server surface the synchronizer mutates through.
// The HTTP implementation below is the production one; tests substitute
// an in-memory fake.
type IdentifierAPI interface {
	FetchStatus(ctx context.Context, propertyID uuid.UUID) (*dtos.IdentifierStatusResponse, error)
	Generate(ctx context.Context, propertyID uuid.UUID, patch *dtos.PrivacySettingsPatch) (*dtos.IdentifierStatusResponse, error)
	Revoke(ctx context.Context, propertyID uuid.UUID) error
	UpdatePrivacy(ctx context.Context, propertyID uuid.UUID, patch *dtos.PrivacySettingsPatch) (models.PrivacySettings, error)
}

// APIError carries the server's error code and status for a failed call.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// HTTPIdentifierAPI talks to the identifier endpoints over HTTP with a
// bearer access token.
type HTTPIdentifierAPI struct {
	BaseURL     *url.URL
	AccessToken string
	HTTPClient  *http.Client
}

func NewHTTPIdentifierAPI(baseURL, accessToken string) (*HTTPIdentifierAPI, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	return &HTTPIdentifierAPI{
		BaseURL:     parsed,
		AccessToken: accessToken,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *HTTPIdentifierAPI) FetchStatus(ctx context.Context, propertyID uuid.UUID) (*dtos.IdentifierStatusResponse, error) {
	var resp dtos.IdentifierStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/identifier/"+propertyID.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPIdentifierAPI) Generate(ctx context.Context, propertyID uuid.UUID, patch *dtos.PrivacySettingsPatch) (*dtos.IdentifierStatusResponse, error) {
	body := dtos.IdentifierMutationRequest{PrivacySettings: patch, Regenerate: true}
	var resp dtos.IdentifierStatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/identifier/"+propertyID.String(), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPIdentifierAPI) Revoke(ctx context.Context, propertyID uuid.UUID) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/identifier/"+propertyID.String()+"/revoke", nil, nil)
}

func (c *HTTPIdentifierAPI) UpdatePrivacy(ctx context.Context, propertyID uuid.UUID, patch *dtos.PrivacySettingsPatch) (models.PrivacySettings, error) {
	body := dtos.IdentifierMutationRequest{PrivacySettings: patch}
	var resp dtos.IdentifierStatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/identifier/"+propertyID.String(), body, &resp); err != nil {
		return models.PrivacySettings{}, err
	}
	if resp.PublicVisibility == nil {
		return models.PrivacySettings{}, fmt.Errorf("update privacy: response missing visibility settings")
	}
	return *resp.PublicVisibility, nil
}

func (c *HTTPIdentifierAPI) doJSON(ctx context.Context, method, p string, reqBody, respBody any) error {
	var reader io.Reader
	if reqBody != nil {
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	u := *c.BaseURL
	u.Path = p
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Code = errBody.Code
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
