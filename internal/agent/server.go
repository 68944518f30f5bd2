// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mdlayher/vsock"

	"github.com/aibor/guestinit/sysinit"
)

// ExecPath is the route of the exec endpoint.
const ExecPath = "/v1/exec"

// ExecRequest is the request body of the exec endpoint.
type ExecRequest struct {
	Cmd []string `json:"cmd"`
}

// ExecResponse is the response body of the exec endpoint.
type ExecResponse struct {
	Output string `json:"output"`
}

// Config defines the vsock address the server listens on.
type Config struct {
	ContextID uint32
	Port      uint32
}

// DefaultConfig creates a new default config.
func DefaultConfig() Config {
	return Config{
		ContextID: 3,
		Port:      10000,
	}
}

// NewHandler returns the HTTP handler of the control-plane server.
//
// It serves a single route. Any other route or method is rejected by the
// router's default handlers.
func NewHandler(exec ExecFunc) http.Handler {
	router := chi.NewRouter()
	router.Post(ExecPath, execHandler(exec))

	return router
}

func execHandler(exec ExecFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExecRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		slog.Info("Received exec request", slog.Any("cmd", req.Cmd))

		resp := ExecResponse{
			Output: exec(req.Cmd),
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("Write exec response", slog.Any("error", err))
		}
	}
}

// Listen creates a vsock listener for the given [Config].
func Listen(cfg Config) (net.Listener, error) {
	listener, err := vsock.ListenContextID(cfg.ContextID, cfg.Port, nil)
	if err != nil {
		return nil, fmt.Errorf("vsock listen on %d:%d: %w",
			cfg.ContextID, cfg.Port, err)
	}

	return listener, nil
}

// Serve serves the given handler on the given listener until the context is
// done. Each request is handled on its own goroutine.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{ //nolint:gosec
		Handler: handler,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	stop := context.AfterFunc(ctx, func() {
		_ = server.Close()
	})
	defer stop()

	slog.Info("Control-plane server listening",
		slog.String("address", listener.Addr().String()))

	err := server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return fmt.Errorf("serve: %w", err)
}

// WithServer returns a setup [sysinit.Func] that binds the vsock listener
// and registers the server as background task. It can be used with
// [sysinit.Run].
//
// The listener is bound synchronously, so a failure aborts the boot.
func WithServer(cfg Config) sysinit.Func {
	return func(state *sysinit.State) error {
		listener, err := Listen(cfg)
		if err != nil {
			return err
		}

		state.Cleanup(listener.Close)

		handler := NewHandler(Exec)
		state.Go("control-plane server", func(ctx context.Context) error {
			return Serve(ctx, listener, handler)
		})

		return nil
	}
}
