// webhook Lambda receives GitHub webhook deliveries through an API Gateway
// proxy integration and routes them to the policy dispatcher.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	intlambda "github.com/checkmate-dev/checkmate/internal/lambda"
	"github.com/checkmate-dev/checkmate/internal/webhook"
)

// header finds a request header case-insensitively; API Gateway does not
// normalize header casing.
func header(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	d, err := intlambda.GetDeps()
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		body, err = base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			d.Logger.Error("decoding request body", "error", err)
			return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
		}
	}

	err = d.Receiver.Receive(ctx,
		header(req, webhook.HeaderEvent),
		header(req, webhook.HeaderDelivery),
		header(req, webhook.HeaderSignature),
		body)
	if errors.Is(err, webhook.ErrBadSignature) {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	if err != nil {
		d.Logger.Error("webhook delivery not processed",
			"delivery", header(req, webhook.HeaderDelivery), "error", err)
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	awslambda.Start(handler)
}
