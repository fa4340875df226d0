package config

import (
	"strings"
	"testing"
)

func TestValidateTLSMode(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "disabled mode",
			tls: TLSConfig{
				Mode: "disabled",
			},
			expectError: false,
		},
		{
			name: "server mode valid with files",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: false,
		},
		{
			name: "server mode valid with content",
			tls: TLSConfig{
				Mode:        "server",
				CertContent: "cert-content",
				KeyContent:  "key-content",
			},
			expectError: false,
		},
		{
			name: "server mode missing certificate",
			tls: TLSConfig{
				Mode:    "server",
				KeyFile: "/path/to/key.pem",
			},
			expectError: true,
			errorMsg:    "TLS certificate and key are required for server mode",
		},
		{
			name: "server mode missing key",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
			},
			expectError: true,
			errorMsg:    "TLS certificate and key are required for server mode",
		},
		{
			name: "server mode duplicate cert sources",
			tls: TLSConfig{
				Mode:        "server",
				CertFile:    "/path/to/cert.pem",
				CertContent: "cert-content",
				KeyFile:     "/path/to/key.pem",
			},
			expectError: true,
			errorMsg:    "cannot specify both certFile and certContent",
		},
		{
			name: "server mode duplicate key sources",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				KeyContent: "key-content",
			},
			expectError: true,
			errorMsg:    "cannot specify both keyFile and keyContent",
		},
		{
			name: "mutual mode valid",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
				CAFile:   "/path/to/ca.pem",
			},
			expectError: false,
		},
		{
			name: "mutual mode valid with content",
			tls: TLSConfig{
				Mode:        "mutual",
				CertContent: "cert-content",
				KeyContent:  "key-content",
				CAContent:   "ca-content",
			},
			expectError: false,
		},
		{
			name: "mutual mode missing CA",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: true,
			errorMsg:    "CA certificate is required for mutual TLS mode",
		},
		{
			name: "mutual mode duplicate CA sources",
			tls: TLSConfig{
				Mode:      "mutual",
				CertFile:  "/path/to/cert.pem",
				KeyFile:   "/path/to/key.pem",
				CAFile:    "/path/to/ca.pem",
				CAContent: "ca-content",
			},
			expectError: true,
			errorMsg:    "cannot specify both caFile and caContent",
		},
		{
			name: "invalid mode",
			tls: TLSConfig{
				Mode: "invalid",
			},
			expectError: true,
			errorMsg:    "invalid TLS mode: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLSMode(tt.tls)

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error containing %q, got none", tt.errorMsg)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateClientAuthPolicy(t *testing.T) {
	tests := []struct {
		name        string
		policy      string
		expectError bool
	}{
		{name: "require policy", policy: "require"},
		{name: "request policy", policy: "request"},
		{name: "verify policy", policy: "verify"},
		{name: "empty defaults to require", policy: ""},
		{name: "invalid policy", policy: "always", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateClientAuthPolicy(TLSConfig{ClientAuthPolicy: tt.policy})

			if tt.expectError && err == nil {
				t.Errorf("Expected error for policy %q, got none", tt.policy)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for policy %q: %v", tt.policy, err)
			}
		})
	}
}

func TestValidateTLSVersion(t *testing.T) {
	tests := []struct {
		name        string
		minVersion  string
		expectError bool
	}{
		{name: "version 1.2", minVersion: "1.2"},
		{name: "version 1.3", minVersion: "1.3"},
		{name: "empty defaults to 1.2", minVersion: ""},
		{name: "unsupported version 1.1", minVersion: "1.1", expectError: true},
		{name: "garbage version", minVersion: "tls13", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLSVersion(TLSConfig{MinVersion: tt.minVersion})

			if tt.expectError && err == nil {
				t.Errorf("Expected error for minVersion %q, got none", tt.minVersion)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for minVersion %q: %v", tt.minVersion, err)
			}
		})
	}
}

func TestValidateTLSConfig(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			TLS: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				MinVersion: "1.3",
			},
		},
	}

	if err := cfg.ValidateTLSConfig(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg.Server.TLS.MinVersion = "1.0"
	if err := cfg.ValidateTLSConfig(); err == nil {
		t.Error("Expected error for unsupported minVersion, got none")
	}
}
