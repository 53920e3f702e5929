package tips

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// GetClientOptions builds the Temporal client options from TEMPORAL_HOST,
// TEMPORAL_NAMESPACE and, for remote hosts, TEMPORAL_API_KEY.
func GetClientOptions(logger *slog.Logger) (client.Options, error) {
	if logger == nil {
		logger = slog.Default()
	}

	TemporalAddress := os.Getenv("TEMPORAL_HOST")
	if TemporalAddress == "" {
		return client.Options{}, errors.New("TEMPORAL_HOST environment variable is not set")
	}

	TemporalNamespace := os.Getenv("TEMPORAL_NAMESPACE")
	if TemporalNamespace == "" {
		return client.Options{}, errors.New("TEMPORAL_NAMESPACE environment variable is not set")
	}

	clientOptions := client.Options{
		HostPort:  TemporalAddress,
		Namespace: TemporalNamespace,
		Logger:    tlog.NewStructuredLogger(logger),
	}

	clientOptions.ConnectionOptions = client.ConnectionOptions{
		TLS: &tls.Config{},
		DialOptions: []grpc.DialOption{
			grpc.WithUnaryInterceptor(
				func(ctx context.Context, method string, req any, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
					return invoker(
						metadata.AppendToOutgoingContext(ctx, "temporal-namespace", TemporalNamespace),
						method,
						req,
						reply,
						cc,
						opts...,
					)
				},
			),
		},
	}

	if isLocalTemporal(TemporalAddress) {
		clientOptions.ConnectionOptions.TLS = nil // Disable TLS for local development
		return clientOptions, nil
	}

	TemporalAPIKey := os.Getenv("TEMPORAL_API_KEY")
	if TemporalAPIKey == "" {
		return client.Options{}, errors.New("TEMPORAL_API_KEY environment variable is not set")
	}
	clientOptions.Credentials = client.NewAPIKeyStaticCredentials(TemporalAPIKey)

	return clientOptions, nil
}

func isLocalTemporal(address string) bool {
	return address == "localhost:7233" || address == "host.docker.internal:7233"
}
