package clients

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

type OpenSearchOptions struct {
	Endpoint string
	Username string
	Password string
	// SigV4 signs requests with the default AWS credentials instead of
	// basic auth.
	SigV4  bool
	Region string
}

type OpenSearchClient struct {
	Client *opensearch.Client
}

func NewOpenSearchClient(ctx context.Context, o OpenSearchOptions) (*OpenSearchClient, error) {
	cfg := opensearch.Config{
		Addresses: []string{o.Endpoint},
	}

	if o.SigV4 {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(o.Region))
		if err != nil {
			return nil, fmt.Errorf("[OpenSearchClient] failed to load AWS config: %w", err)
		}
		cfg.Transport = NewSigV4Transport(awsCfg.Credentials, v4.NewSigner(), awsCfg.Region, "es")
	} else {
		cfg.Username = o.Username
		cfg.Password = o.Password
	}

	client, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("[OpenSearchClient] failed to initialize OpenSearch client: %w", err)
	}

	slog.Info("[OpenSearchClient] OpenSearch client initialized",
		slog.String("endpoint", o.Endpoint),
		slog.Bool("sigv4", o.SigV4))
	return &OpenSearchClient{Client: client}, nil
}

type sigV4Transport struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	next        http.RoundTripper
}

func NewSigV4Transport(creds aws.CredentialsProvider, signer *v4.Signer, region string, service string) http.RoundTripper {
	return &sigV4Transport{
		credentials: creds,
		signer:      signer,
		region:      region,
		service:     service,
		next:        http.DefaultTransport,
	}
}

func (t *sigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, err := t.credentials.Retrieve(req.Context())
	if err != nil {
		return nil, err
	}

	signedReq := req.Clone(req.Context())
	signedReq.Header.Del("Authorization")

	var body []byte
	if req.Body != nil {
		if body, err = io.ReadAll(req.Body); err != nil {
			return nil, err
		}
		req.Body.Close()
		signedReq.Body = io.NopCloser(bytes.NewReader(body))
	}
	sum := sha256.Sum256(body)
	payloadHash := hex.EncodeToString(sum[:])
	signedReq.Header.Set("X-Amz-Content-Sha256", payloadHash)

	err = t.signer.SignHTTP(req.Context(), creds, signedReq, payloadHash, t.service, t.region, time.Now())
	if err != nil {
		return nil, err
	}

	return t.next.RoundTrip(signedReq)
}

func (o *OpenSearchClient) IsHealthy(ctx context.Context) bool {
	req := opensearchapi.ClusterHealthReq{}
	res, err := o.Client.Do(ctx, req, nil)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		return false
	}

	return res.StatusCode == http.StatusOK
}

// IndexDocument stores body under id, replacing any earlier version.
func (o *OpenSearchClient) IndexDocument(ctx context.Context, index, id string, body []byte) error {
	req := opensearchapi.IndexReq{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}

	res, err := o.Client.Do(ctx, req, nil)
	if err != nil {
		slog.Error("[OpenSearchClient] Failed to index document",
			slog.String("index", index),
			slog.String("error", err.Error()))
		return fmt.Errorf("[OpenSearchClient] index %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		slog.Error("[OpenSearchClient] OpenSearch indexing error",
			slog.String("index", index),
			slog.String("status", res.Status()))
		return fmt.Errorf("%w: opensearch %s", ErrUnexpectedStatus, res.Status())
	}

	return nil
}
