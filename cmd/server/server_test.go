package main

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartHTTPServer_ClosesDatabaseOnExit(t *testing.T) {
	tests := []struct {
		name      string
		portInUse bool
		wantErr   bool
	}{
		{name: "context canceled", wantErr: false},
		{name: "listen fails", portInUse: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ln, err := net.Listen("tcp", ":0")
			require.NoError(t, err)
			port := ln.Addr().(*net.TCPAddr).Port
			if tt.portInUse {
				t.Cleanup(func() { _ = ln.Close() })
			} else {
				require.NoError(t, ln.Close())
			}

			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			mock.ExpectClose()

			app := newTestApp(t)
			app.config.Server.Port = port
			app.db = db

			ctx, cancel := context.WithCancel(context.Background())
			if !tt.portInUse {
				cancel()
			} else {
				defer cancel()
			}

			err = app.startHTTPServer(ctx, http.NotFoundHandler())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
