// webhook Cloud Function receives GitHub webhook deliveries and routes
// them to the policy dispatcher.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	intgcpfunc "github.com/checkmate-dev/checkmate/internal/gcpfunc"
)

func init() {
	functions.HTTP("Webhook", handleHTTP)
}

func handleHTTP(w http.ResponseWriter, r *http.Request) {
	d, err := intgcpfunc.GetDeps()
	if err != nil {
		http.Error(w, fmt.Sprintf("init error: %v", err), http.StatusInternalServerError)
		return
	}
	d.Receiver.HTTPHandler()(w, r)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := funcframework.Start(port); err != nil {
		slog.Error("failed to start functions framework", "error", err)
		os.Exit(1)
	}
}
