// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/absmach/telequery/analysis"
	tqsdk "github.com/absmach/telequery/pkg/sdk/go"
)

// Keep SDK handle in global var.
var (
	sdk tqsdk.SDK
	svc analysis.Service
)

// SetSDK sets telequery SDK instance and a bare analysis service built on it.
func SetSDK(s tqsdk.SDK) {
	sdk = s
	svc = analysis.NewService(s)
}

// SetService replaces the analysis service used by the query, describe and
// plot commands, typically with one wrapped in middleware.
func SetService(s analysis.Service) {
	svc = s
}
