// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeychainBackend_Metadata(t *testing.T) {
	keyring.MockInit()
	backend := NewKeychainBackend()

	if backend.Name() != "keychain" {
		t.Errorf("Name() = %v, want %v", backend.Name(), "keychain")
	}
	if backend.Priority() != KeychainBackendPriority {
		t.Errorf("Priority() = %v, want %v", backend.Priority(), KeychainBackendPriority)
	}
	if !backend.Available() {
		t.Error("Available() = false with mock keyring, want true")
	}
}

func TestKeychainBackend_Lifecycle(t *testing.T) {
	keyring.MockInit()
	backend := NewKeychainBackend()
	ctx := context.Background()

	if err := backend.Set(ctx, APIKeySecret, "sk-first"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := backend.Get(ctx, APIKeySecret)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "sk-first" {
		t.Errorf("Get() = %v, want %v", got, "sk-first")
	}

	if err := backend.Set(ctx, APIKeySecret, "sk-second"); err != nil {
		t.Fatalf("Set() (update) error = %v", err)
	}
	got, _ = backend.Get(ctx, APIKeySecret)
	if got != "sk-second" {
		t.Errorf("Get() after update = %v, want %v", got, "sk-second")
	}

	if err := backend.Delete(ctx, APIKeySecret); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := backend.Get(ctx, APIKeySecret); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("Get() after delete error = %v, want %v", err, ErrSecretNotFound)
	}
	if err := backend.Delete(ctx, APIKeySecret); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("Delete() missing error = %v, want %v", err, ErrSecretNotFound)
	}

	keys, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if keys == nil {
		t.Error("List() returned nil, want empty slice")
	}
}

func TestKeychainBackend_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: connection refused"))
	t.Cleanup(keyring.MockInit)

	backend := NewKeychainBackend()
	if backend.Available() {
		t.Fatal("Available() = true, want false")
	}
	if _, err := backend.Get(context.Background(), APIKeySecret); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Get() error = %v, want %v", err, ErrBackendUnavailable)
	}
}

func TestIsKeychainUnavailableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "locked keychain", err: errors.New("keychain is locked"), want: true},
		{name: "permission denied", err: errors.New("permission denied"), want: true},
		{name: "dbus error", err: errors.New("failed to connect to dbus"), want: true},
		{name: "user canceled", err: errors.New("user canceled the operation"), want: true},
		{name: "other error", err: errors.New("some other error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isKeychainUnavailableError(tt.err); got != tt.want {
				t.Errorf("isKeychainUnavailableError() = %v, want %v", got, tt.want)
			}
		})
	}
}
