// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the headless sync client runtime.
//
// It wires secure key storage, the local store, the remote API, the sync
// services and the autofill projection into a single process lifecycle.
package client
