// Package vault fetches static secrets (offsite storage credentials) from a
// HashiCorp Vault KV v2 mount, so access keys can stay out of the config file.
package vault

import (
	"context"
	"fmt"
	"os"

	vault "github.com/hashicorp/vault/api"
)

type Client struct {
	api   *vault.Client
	mount string
}

// NewClient builds a Vault client authenticated with a static token. Address
// and token fall back to VAULT_ADDR / VAULT_TOKEN when empty.
func NewClient(address, token, mount string) (*Client, error) {
	apiCfg := vault.DefaultConfig()
	if address != "" {
		apiCfg.Address = address
	}

	api, err := vault.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if token == "" {
		token = os.Getenv("VAULT_TOKEN")
	}
	api.SetToken(token)

	return &Client{api: api, mount: mount}, nil
}

// KVSecret reads a KV v2 secret and returns its string fields.
func (c *Client) KVSecret(ctx context.Context, path string) (map[string]string, error) {
	secret, err := c.api.KVv2(c.mount).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %s/%s: %w", c.mount, path, err)
	}

	out := make(map[string]string, len(secret.Data))
	for key, value := range secret.Data {
		if s, ok := value.(string); ok {
			out[key] = s
		}
	}

	return out, nil
}

// S3Credentials reads the access_key/secret_key pair stored at path.
func (c *Client) S3Credentials(ctx context.Context, path string) (accessKey, secretKey string, err error) {
	data, err := c.KVSecret(ctx, path)
	if err != nil {
		return "", "", err
	}

	accessKey, secretKey = data["access_key"], data["secret_key"]
	if accessKey == "" || secretKey == "" {
		return "", "", fmt.Errorf("secret %s/%s is missing access_key or secret_key", c.mount, path)
	}

	return accessKey, secretKey, nil
}
